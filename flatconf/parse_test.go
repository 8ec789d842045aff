package flatconf

import (
	"errors"
	"testing"
)

func TestDecodeValue_Scalars(t *testing.T) {
	tests := []struct {
		input    string
		expected *Literal
	}{
		{"nil", Null()},
		{"true", Bool(true)},
		{"false", Bool(false)},
		{"0", Int(0)},
		{"-7", Int(-7)},
		{"3.14", Float64(3.14)},
		{"-2.5", Float64(-2.5)},
		{"2e3", Float64(2000)},
		{`"hi"`, Str("hi")},
		{`""`, Str("")},
		{":sym", Sym("sym")},
		{": sym", Sym("sym")},
		{"Qualified.Name", QName("Qualified.Name")},
		{"Repo", QName("Repo")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := DecodeValue(tt.input)
			if err != nil {
				t.Fatalf("DecodeValue(%q) failed: %v", tt.input, err)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("DecodeValue(%q) = %s, want %s", tt.input, EncodeValue(got), EncodeValue(tt.expected))
			}
		})
	}
}

func TestDecodeValue_Containers(t *testing.T) {
	tests := []struct {
		input    string
		expected *Literal
	}{
		{"[]", List()},
		{"[1, 2, 3]", List(Int(1), Int(2), Int(3))},
		{"[1, [2, 3], :four]", List(Int(1), List(Int(2), Int(3)), Sym("four"))},
		{"{}", Tuple()},
		{"{1, :two}", Tuple(Int(1), Sym("two"))},
		{
			`[x: 1, y: "two"]`,
			Pairs(PairOf(Symbol("x"), Int(1)), PairOf(Symbol("y"), Str("two"))),
		},
		{
			"[Repo.Postgres: [pool: 5]]",
			Pairs(PairOf(Qualified("Repo.Postgres"), Pairs(PairOf(Symbol("pool"), Int(5))))),
		},
		{
			"[mix: {1, [2], nil}]",
			Pairs(PairOf(Symbol("mix"), Tuple(Int(1), List(Int(2)), Null()))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := DecodeValue(tt.input)
			if err != nil {
				t.Fatalf("DecodeValue(%q) failed: %v", tt.input, err)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("DecodeValue(%q) = %s, want %s", tt.input, EncodeValue(got), EncodeValue(tt.expected))
			}
		})
	}
}

func TestDecodeValue_BigNumbers(t *testing.T) {
	huge := "123456789012345678901234567890123456789"
	got, err := DecodeValue(huge)
	if err != nil {
		t.Fatalf("DecodeValue failed: %v", err)
	}
	if EncodeValue(got) != huge {
		t.Errorf("Big integer truncated: got %s", EncodeValue(got))
	}

	precise := "0.1234567890123456789012345678901234567890123456789"
	got, err = DecodeValue(precise)
	if err != nil {
		t.Fatalf("DecodeValue failed: %v", err)
	}
	if EncodeValue(got) != precise {
		t.Errorf("High-precision float truncated: got %s", EncodeValue(got))
	}
}

func TestDecodeValue_Rejected(t *testing.T) {
	tests := []string{
		"",
		"not(valid",
		"func()",
		"bare_word",
		"foo.bar",
		":Upper",
		":",
		":123",
		"[1 2]",
		"[1,]",
		"[1, 2",
		"[x: ]",
		"[x 1]",
		"{1, 2",
		"1 2",
		"nil nil",
		`"str" extra`,
		"[x: 1] tail",
		"lowercase.Dotted",
		"System.cmd(\"rm\")",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			got, err := DecodeValue(input)
			if err == nil {
				t.Fatalf("DecodeValue(%q) = %s, want error", input, EncodeValue(got))
			}
			if !errors.Is(err, ErrBadValue) {
				t.Errorf("DecodeValue(%q) error %v does not match ErrBadValue", input, err)
			}
		})
	}
}

func TestDecodeValue_ParseErrorPosition(t *testing.T) {
	_, err := DecodeValue("[1, ]")
	if err == nil {
		t.Fatal("Expected error")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected *ParseError, got %T", err)
	}
	if perr.Pos.Line != 1 {
		t.Errorf("Expected line 1, got %d", perr.Pos.Line)
	}
}
