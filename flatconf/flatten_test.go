package flatconf

import (
	"errors"
	"testing"
)

func TestEncode_SingleLeaf(t *testing.T) {
	tree := Tree{
		{Name: Symbol("app"), Options: OptionList{
			Opt(Symbol("key"), Leaf(Sym("value"))),
		}},
	}

	flat, err := Encode(tree)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(flat) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(flat))
	}
	if flat["conf-app-key"] != ":value" {
		t.Errorf("Expected conf-app-key = :value, got %q", flat["conf-app-key"])
	}
}

func TestEncode_NestedOptions(t *testing.T) {
	tree := Tree{
		{Name: Symbol("app"), Options: OptionList{
			Opt(Symbol("nested"), Nested(OptionList{
				Opt(Symbol("x"), Leaf(Int(1))),
				Opt(Symbol("y"), Leaf(Int(2))),
			})),
			Opt(Symbol("flag"), Leaf(Bool(true))),
		}},
	}

	flat, err := Encode(tree)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	expected := map[string]string{
		"conf-app-nested-x": "1",
		"conf-app-nested-y": "2",
		"conf-app-flag":     "true",
	}
	if len(flat) != len(expected) {
		t.Fatalf("Expected %d entries, got %d: %v", len(expected), len(flat), flat)
	}
	for k, v := range expected {
		if flat[k] != v {
			t.Errorf("Expected %s = %q, got %q", k, v, flat[k])
		}
	}
}

// A leaf pair-list literal stays one value; only the Nested tag splits
// an option group into separate keys.
func TestEncode_LeafPairsNotSplit(t *testing.T) {
	tree := Tree{
		{Name: Symbol("app"), Options: OptionList{
			Opt(Symbol("opts"), Leaf(Pairs(
				PairOf(Symbol("x"), Int(1)),
				PairOf(Symbol("y"), Int(2)),
			))),
		}},
	}

	flat, err := Encode(tree)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(flat) != 1 {
		t.Fatalf("Expected 1 entry, got %d: %v", len(flat), flat)
	}
	if flat["conf-app-opts"] != "[x: 1, y: 2]" {
		t.Errorf("Expected single pair-list value, got %q", flat["conf-app-opts"])
	}
}

func TestEncode_MultipleApps(t *testing.T) {
	tree := Tree{
		{Name: Symbol("alpha"), Options: OptionList{Opt(Symbol("k"), Leaf(Int(1)))}},
		{Name: Symbol("beta"), Options: OptionList{Opt(Symbol("k"), Leaf(Int(2)))}},
	}

	flat, err := Encode(tree)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if flat["conf-alpha-k"] != "1" || flat["conf-beta-k"] != "2" {
		t.Errorf("Unexpected flat map: %v", flat)
	}
}

func TestEncode_BadInput(t *testing.T) {
	tests := []struct {
		name string
		tree Tree
	}{
		{"empty app name", Tree{{Name: Symbol(""), Options: nil}}},
		{"separator in app name", Tree{{Name: Symbol("my-app"), Options: nil}}},
		{"empty key", Tree{{Name: Symbol("app"), Options: OptionList{
			Opt(Symbol(""), Leaf(Int(1))),
		}}}},
		{"separator in nested key", Tree{{Name: Symbol("app"), Options: OptionList{
			Opt(Symbol("group"), Nested(OptionList{
				Opt(Symbol("bad-key"), Leaf(Int(1))),
			})),
		}}}},
		{"mis-tagged qualified", Tree{{Name: Qualified("lower"), Options: nil}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.tree)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !errors.Is(err, ErrBadInput) {
				t.Errorf("Error %v does not match ErrBadInput", err)
			}
		})
	}
}

func TestEncode_EmptyTree(t *testing.T) {
	flat, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode(nil) failed: %v", err)
	}
	if len(flat) != 0 {
		t.Errorf("Expected empty map, got %v", flat)
	}
}
