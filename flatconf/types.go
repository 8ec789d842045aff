package flatconf

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// IdentKind classifies an identifier.
type IdentKind uint8

const (
	// IdentSymbol is a bare, lowercase-leading name (e.g. "timeout").
	IdentSymbol IdentKind = iota
	// IdentQualified is an uppercase-leading, dot-segmented name
	// (e.g. "Repo.Postgres").
	IdentQualified
)

// String returns the identifier kind name.
func (k IdentKind) String() string {
	switch k {
	case IdentSymbol:
		return "symbol"
	case IdentQualified:
		return "qualified"
	default:
		return "unknown"
	}
}

// Ident is an identifier used as an application name, option key, or
// identifier literal. The Symbol/Qualified distinction is decided once,
// at construction, from the first character's case; downstream code
// checks the tag, never the raw text.
type Ident struct {
	kind IdentKind
	name string
}

// Symbol creates a symbol identifier.
func Symbol(name string) Ident {
	return Ident{kind: IdentSymbol, name: name}
}

// Qualified creates a qualified-name identifier from its dotted form.
func Qualified(name string) Ident {
	return Ident{kind: IdentQualified, name: name}
}

// ClassifyIdent validates text as an identifier and classifies it by its
// first character: lowercase (or underscore) leading means Symbol,
// uppercase leading means QualifiedName. Qualified names may contain
// dot-separated segments, each uppercase-leading.
func ClassifyIdent(text string) (Ident, error) {
	if text == "" {
		return Ident{}, fmt.Errorf("empty identifier")
	}
	c := text[0]
	switch {
	case c >= 'a' && c <= 'z', c == '_':
		if !isBareName(text) {
			return Ident{}, fmt.Errorf("invalid symbol %q", text)
		}
		return Symbol(text), nil
	case c >= 'A' && c <= 'Z':
		if !isQualifiedName(text) {
			return Ident{}, fmt.Errorf("invalid qualified name %q", text)
		}
		return Qualified(text), nil
	default:
		return Ident{}, fmt.Errorf("invalid identifier %q", text)
	}
}

// Kind returns the identifier kind.
func (id Ident) Kind() IdentKind { return id.kind }

// Name returns the textual form: bare for symbols, dotted for qualified
// names.
func (id Ident) Name() string { return id.name }

// String returns the textual form.
func (id Ident) String() string { return id.name }

// Equal reports whether two identifiers have the same kind and text.
func (id Ident) Equal(other Ident) bool {
	return id.kind == other.kind && id.name == other.name
}

// isBareName reports whether s matches [a-z_][A-Za-z0-9_]*.
func isBareName(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	if !(c >= 'a' && c <= 'z') && c != '_' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isNameChar(s[i]) {
			return false
		}
	}
	return true
}

// isQualifiedName reports whether s is a dotted path of uppercase-leading
// segments.
func isQualifiedName(s string) bool {
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '.' {
			seg := s[start:i]
			if seg == "" {
				return false
			}
			if !(seg[0] >= 'A' && seg[0] <= 'Z') {
				return false
			}
			for j := 1; j < len(seg); j++ {
				if !isNameChar(seg[j]) {
					return false
				}
			}
			start = i + 1
		}
	}
	return true
}

func isNameChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_'
}

// LitKind represents literal value types.
type LitKind uint8

const (
	LitNull LitKind = iota
	LitBool
	LitInt
	LitFloat
	LitString
	LitSymbol
	LitQualified
	LitList
	LitPairs
	LitTuple
)

// String returns the literal kind name.
func (k LitKind) String() string {
	switch k {
	case LitNull:
		return "null"
	case LitBool:
		return "bool"
	case LitInt:
		return "int"
	case LitFloat:
		return "float"
	case LitString:
		return "string"
	case LitSymbol:
		return "symbol"
	case LitQualified:
		return "qualified"
	case LitList:
		return "list"
	case LitPairs:
		return "pairs"
	case LitTuple:
		return "tuple"
	default:
		return "unknown"
	}
}

// Literal is an immutable configuration value. It has no identity beyond
// structural equality.
//
// Integers are arbitrary precision and floats are arbitrary-precision
// decimals, so no value is truncated on decode or encode.
type Literal struct {
	kind LitKind

	// Scalar values (only one valid based on kind)
	boolVal  bool
	intVal   *big.Int
	floatVal decimal.Decimal
	strVal   string
	identVal Ident

	// Container values (list and tuple share itemsVal)
	itemsVal []*Literal
	pairsVal []Pair
}

// Pair is a (key, value) entry of a pair-list literal or an OptionList.
type Pair struct {
	Key   Ident
	Value *Literal
}

// PairOf creates a Pair for use in Pairs construction.
func PairOf(key Ident, value *Literal) Pair {
	return Pair{Key: key, Value: value}
}

// ============================================================
// Constructors
// ============================================================

// Null creates a null literal.
func Null() *Literal {
	return &Literal{kind: LitNull}
}

// Bool creates a boolean literal.
func Bool(v bool) *Literal {
	return &Literal{kind: LitBool, boolVal: v}
}

// Int creates an integer literal.
func Int(v int64) *Literal {
	return &Literal{kind: LitInt, intVal: big.NewInt(v)}
}

// BigInt creates an integer literal from an arbitrary-precision integer.
func BigInt(v *big.Int) *Literal {
	return &Literal{kind: LitInt, intVal: new(big.Int).Set(v)}
}

// Float creates a float literal from a decimal.
func Float(v decimal.Decimal) *Literal {
	return &Literal{kind: LitFloat, floatVal: v}
}

// Float64 creates a float literal from a float64.
func Float64(v float64) *Literal {
	return &Literal{kind: LitFloat, floatVal: decimal.NewFromFloat(v)}
}

// Str creates a string literal.
func Str(v string) *Literal {
	return &Literal{kind: LitString, strVal: v}
}

// Sym creates a symbol literal.
func Sym(name string) *Literal {
	return &Literal{kind: LitSymbol, identVal: Symbol(name)}
}

// QName creates a qualified-name literal from its dotted form.
func QName(name string) *Literal {
	return &Literal{kind: LitQualified, identVal: Qualified(name)}
}

// IdentLit creates a symbol or qualified-name literal from an identifier.
func IdentLit(id Ident) *Literal {
	if id.kind == IdentQualified {
		return &Literal{kind: LitQualified, identVal: id}
	}
	return &Literal{kind: LitSymbol, identVal: id}
}

// List creates an ordered list literal.
func List(items ...*Literal) *Literal {
	return &Literal{kind: LitList, itemsVal: items}
}

// Pairs creates a pair-list literal.
func Pairs(pairs ...Pair) *Literal {
	return &Literal{kind: LitPairs, pairsVal: pairs}
}

// Tuple creates a tuple literal.
func Tuple(items ...*Literal) *Literal {
	return &Literal{kind: LitTuple, itemsVal: items}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the literal kind.
func (l *Literal) Kind() LitKind {
	if l == nil {
		return LitNull
	}
	return l.kind
}

// IsNull returns true if this is a null literal.
func (l *Literal) IsNull() bool {
	return l == nil || l.kind == LitNull
}

// AsBool returns the boolean value.
func (l *Literal) AsBool() (bool, error) {
	if l == nil || l.kind != LitBool {
		return false, fmt.Errorf("flatconf: expected bool, got %s", l.Kind())
	}
	return l.boolVal, nil
}

// AsInt returns the integer value as int64, failing if it does not fit.
func (l *Literal) AsInt() (int64, error) {
	if l == nil || l.kind != LitInt {
		return 0, fmt.Errorf("flatconf: expected int, got %s", l.Kind())
	}
	if !l.intVal.IsInt64() {
		return 0, fmt.Errorf("flatconf: integer %s overflows int64", l.intVal)
	}
	return l.intVal.Int64(), nil
}

// AsBigInt returns the integer value at full precision.
func (l *Literal) AsBigInt() (*big.Int, error) {
	if l == nil || l.kind != LitInt {
		return nil, fmt.Errorf("flatconf: expected int, got %s", l.Kind())
	}
	return new(big.Int).Set(l.intVal), nil
}

// AsFloat returns the float value as a decimal.
func (l *Literal) AsFloat() (decimal.Decimal, error) {
	if l == nil || l.kind != LitFloat {
		return decimal.Decimal{}, fmt.Errorf("flatconf: expected float, got %s", l.Kind())
	}
	return l.floatVal, nil
}

// AsStr returns the string value.
func (l *Literal) AsStr() (string, error) {
	if l == nil || l.kind != LitString {
		return "", fmt.Errorf("flatconf: expected string, got %s", l.Kind())
	}
	return l.strVal, nil
}

// AsIdent returns the identifier of a symbol or qualified-name literal.
func (l *Literal) AsIdent() (Ident, error) {
	if l == nil || (l.kind != LitSymbol && l.kind != LitQualified) {
		return Ident{}, fmt.Errorf("flatconf: expected identifier, got %s", l.Kind())
	}
	return l.identVal, nil
}

// AsList returns the list elements.
func (l *Literal) AsList() ([]*Literal, error) {
	if l == nil || l.kind != LitList {
		return nil, fmt.Errorf("flatconf: expected list, got %s", l.Kind())
	}
	return l.itemsVal, nil
}

// AsPairs returns the pair-list entries.
func (l *Literal) AsPairs() ([]Pair, error) {
	if l == nil || l.kind != LitPairs {
		return nil, fmt.Errorf("flatconf: expected pairs, got %s", l.Kind())
	}
	return l.pairsVal, nil
}

// AsTuple returns the tuple elements.
func (l *Literal) AsTuple() ([]*Literal, error) {
	if l == nil || l.kind != LitTuple {
		return nil, fmt.Errorf("flatconf: expected tuple, got %s", l.Kind())
	}
	return l.itemsVal, nil
}

// Len returns the length of a list, pair-list, or tuple.
func (l *Literal) Len() int {
	if l == nil {
		return 0
	}
	switch l.kind {
	case LitList, LitTuple:
		return len(l.itemsVal)
	case LitPairs:
		return len(l.pairsVal)
	default:
		return 0
	}
}

// Get returns the value at key in a pair-list, or nil.
func (l *Literal) Get(key Ident) *Literal {
	if l == nil || l.kind != LitPairs {
		return nil
	}
	for _, p := range l.pairsVal {
		if p.Key.Equal(key) {
			return p.Value
		}
	}
	return nil
}

// Equal reports structural equality. Lists and tuples compare
// element-wise in order; pair-lists compare entry-wise in order; numbers
// compare by value.
func (l *Literal) Equal(other *Literal) bool {
	if l.IsNull() || other.IsNull() {
		return l.IsNull() && other.IsNull()
	}
	if l.kind != other.kind {
		return false
	}
	switch l.kind {
	case LitBool:
		return l.boolVal == other.boolVal
	case LitInt:
		return l.intVal.Cmp(other.intVal) == 0
	case LitFloat:
		return l.floatVal.Equal(other.floatVal)
	case LitString:
		return l.strVal == other.strVal
	case LitSymbol, LitQualified:
		return l.identVal.Equal(other.identVal)
	case LitList, LitTuple:
		if len(l.itemsVal) != len(other.itemsVal) {
			return false
		}
		for i := range l.itemsVal {
			if !l.itemsVal[i].Equal(other.itemsVal[i]) {
				return false
			}
		}
		return true
	case LitPairs:
		if len(l.pairsVal) != len(other.pairsVal) {
			return false
		}
		for i := range l.pairsVal {
			if !l.pairsVal[i].Key.Equal(other.pairsVal[i].Key) {
				return false
			}
			if !l.pairsVal[i].Value.Equal(other.pairsVal[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ============================================================
// Tree model
// ============================================================

// Value is an option value: either a leaf literal or a nested option
// group. The distinction is an explicit tag decided when the tree is
// built, never inferred from a literal's shape.
type Value struct {
	leaf   *Literal
	nested OptionList
	isNest bool
}

// Leaf creates a leaf value.
func Leaf(l *Literal) Value {
	return Value{leaf: l}
}

// Nested creates a nested option-group value.
func Nested(opts OptionList) Value {
	return Value{nested: opts, isNest: true}
}

// IsNested reports whether the value is a nested option group.
func (v Value) IsNested() bool { return v.isNest }

// Literal returns the leaf literal, or nil for nested values.
func (v Value) Literal() *Literal { return v.leaf }

// Options returns the nested option group, or nil for leaves.
func (v Value) Options() OptionList { return v.nested }

// Equal reports structural equality; nested groups compare
// order-insensitively.
func (v Value) Equal(other Value) bool {
	if v.isNest != other.isNest {
		return false
	}
	if v.isNest {
		return v.nested.Equal(other.nested)
	}
	return v.leaf.Equal(other.leaf)
}

// Option is one (key, value) entry of an OptionList.
type Option struct {
	Key   Ident
	Value Value
}

// OptionList is an ordered sequence of options. Insertion order is
// preserved for round-trip fidelity; lookup is by identifier and keys
// are unique after merge.
type OptionList []Option

// Get returns the value at key.
func (ol OptionList) Get(key Ident) (Value, bool) {
	for _, o := range ol {
		if o.Key.Equal(key) {
			return o.Value, true
		}
	}
	return Value{}, false
}

// Equal reports whether two option lists hold the same entries, ignoring
// order.
func (ol OptionList) Equal(other OptionList) bool {
	if len(ol) != len(other) {
		return false
	}
	for _, o := range ol {
		v, ok := other.Get(o.Key)
		if !ok || !o.Value.Equal(v) {
			return false
		}
	}
	return true
}

// Opt creates an Option for use in OptionList construction.
func Opt(key Ident, value Value) Option {
	return Option{Key: key, Value: value}
}

// App is one application entry of a Tree.
type App struct {
	Name    Ident
	Options OptionList
}

// Tree maps application identifiers to their option lists. Entries are
// ordered; application names are unique after merge.
type Tree []App

// Get returns the option list for an application.
func (t Tree) Get(app Ident) (OptionList, bool) {
	for _, a := range t {
		if a.Name.Equal(app) {
			return a.Options, true
		}
	}
	return nil, false
}

// Equal reports whether two trees hold the same applications and
// options, ignoring order.
func (t Tree) Equal(other Tree) bool {
	if len(t) != len(other) {
		return false
	}
	for _, a := range t {
		opts, ok := other.Get(a.Name)
		if !ok || !a.Options.Equal(opts) {
			return false
		}
	}
	return true
}

// Position represents a source location within value text.
type Position struct {
	Line   int
	Column int
	Offset int
}

// String returns position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
