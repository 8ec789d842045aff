package flatconf

import "testing"

func TestClassifyIdent(t *testing.T) {
	tests := []struct {
		input string
		kind  IdentKind
		ok    bool
	}{
		{"timeout", IdentSymbol, true},
		{"_private", IdentSymbol, true},
		{"k9", IdentSymbol, true},
		{"Repo", IdentQualified, true},
		{"Repo.Postgres", IdentQualified, true},
		{"Repo.Postgres.Pool", IdentQualified, true},
		{"", 0, false},
		{"9lives", 0, false},
		{"has space", 0, false},
		{"has-dash", 0, false},
		{"foo.bar", 0, false},
		{"Repo.lower", 0, false},
		{"Repo..Pool", 0, false},
		{"Repo.", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id, err := ClassifyIdent(tt.input)
			if tt.ok {
				if err != nil {
					t.Fatalf("ClassifyIdent(%q) failed: %v", tt.input, err)
				}
				if id.Kind() != tt.kind {
					t.Errorf("Expected %s, got %s", tt.kind, id.Kind())
				}
				if id.Name() != tt.input {
					t.Errorf("Name changed: %q -> %q", tt.input, id.Name())
				}
			} else if err == nil {
				t.Errorf("Expected error for %q, got %v", tt.input, id)
			}
		})
	}
}

func TestIdentEqual(t *testing.T) {
	if !Symbol("a").Equal(Symbol("a")) {
		t.Error("Equal symbols reported unequal")
	}
	if Symbol("a").Equal(Symbol("b")) {
		t.Error("Different symbols reported equal")
	}
	// Same text, different kind: not equal. The tag is authoritative.
	if Symbol("x").Equal(Qualified("x")) {
		t.Error("Symbol and qualified with same text reported equal")
	}
}

func TestLiteralEqual_KindMatters(t *testing.T) {
	if Int(1).Equal(Float64(1)) {
		t.Error("int 1 and float 1.0 must differ")
	}
	if Str("a").Equal(Sym("a")) {
		t.Error("string and symbol must differ")
	}
	if List(Int(1)).Equal(Tuple(Int(1))) {
		t.Error("list and tuple must differ")
	}
	if !Null().Equal(nil) {
		t.Error("nil pointer should equal Null()")
	}
}

func TestLiteralEqual_OrderSensitiveContainers(t *testing.T) {
	if List(Int(1), Int(2)).Equal(List(Int(2), Int(1))) {
		t.Error("list equality must respect order")
	}
	a := Pairs(PairOf(Symbol("x"), Int(1)), PairOf(Symbol("y"), Int(2)))
	b := Pairs(PairOf(Symbol("y"), Int(2)), PairOf(Symbol("x"), Int(1)))
	if a.Equal(b) {
		t.Error("pair-list literal equality must respect order")
	}
}

func TestOptionListGet(t *testing.T) {
	ol := OptionList{
		Opt(Symbol("a"), Leaf(Int(1))),
		Opt(Qualified("Mod"), Leaf(Int(2))),
	}

	if v, ok := ol.Get(Symbol("a")); !ok || !v.Literal().Equal(Int(1)) {
		t.Error("Get(a) failed")
	}
	if v, ok := ol.Get(Qualified("Mod")); !ok || !v.Literal().Equal(Int(2)) {
		t.Error("Get(Mod) failed")
	}
	if _, ok := ol.Get(Symbol("missing")); ok {
		t.Error("Get(missing) should fail")
	}
}

func TestTreeEqual_OrderInsensitive(t *testing.T) {
	a := Tree{
		{Name: Symbol("one"), Options: OptionList{Opt(Symbol("k"), Leaf(Int(1)))}},
		{Name: Symbol("two"), Options: OptionList{Opt(Symbol("k"), Leaf(Int(2)))}},
	}
	b := Tree{
		{Name: Symbol("two"), Options: OptionList{Opt(Symbol("k"), Leaf(Int(2)))}},
		{Name: Symbol("one"), Options: OptionList{Opt(Symbol("k"), Leaf(Int(1)))}},
	}
	if !a.Equal(b) {
		t.Error("Tree equality must ignore app order")
	}
}

func TestLiteralAccessors(t *testing.T) {
	if _, err := Int(1).AsBool(); err == nil {
		t.Error("AsBool on int should fail")
	}
	n, err := Int(42).AsInt()
	if err != nil || n != 42 {
		t.Errorf("AsInt = %d, %v", n, err)
	}
	if got := Pairs(PairOf(Symbol("k"), Int(7))).Get(Symbol("k")); !got.Equal(Int(7)) {
		t.Error("Pairs Get failed")
	}
	if Pairs().Get(Symbol("k")) != nil {
		t.Error("Get on empty pairs should be nil")
	}
}
