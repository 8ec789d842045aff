package loader

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Neumenon/flatconf/flatconf"
)

// FromMap evaluates a dynamic document into a tree. Top-level keys name
// applications and their values must be mappings. Nested mappings at
// option position become Nested option groups; mappings inside list
// values become pair-list literals. This is where the Leaf/Nested tag
// is decided, so the core never has to infer nesting from shape.
//
// String scalars get two conventions: ":name" becomes a symbol, and a
// dotted uppercase-leading path such as "Repo.Postgres" becomes a
// qualified name. Everything else stays a plain string.
func FromMap(doc map[string]any) (flatconf.Tree, error) {
	var tree flatconf.Tree
	for _, name := range sortedKeys(doc) {
		app, err := flatconf.ClassifyIdent(name)
		if err != nil {
			return nil, fmt.Errorf("app name: %v", err)
		}
		section, ok := doc[name].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("app %q: expected a mapping, got %T", name, doc[name])
		}
		opts, err := optionsFromMap(section)
		if err != nil {
			return nil, fmt.Errorf("app %q: %v", name, err)
		}
		tree = append(tree, flatconf.App{Name: app, Options: opts})
	}
	return tree, nil
}

func optionsFromMap(section map[string]any) (flatconf.OptionList, error) {
	var opts flatconf.OptionList
	for _, name := range sortedKeys(section) {
		key, err := flatconf.ClassifyIdent(name)
		if err != nil {
			return nil, fmt.Errorf("key: %v", err)
		}

		if child, ok := section[name].(map[string]any); ok {
			nested, err := optionsFromMap(child)
			if err != nil {
				return nil, fmt.Errorf("%s: %v", name, err)
			}
			opts = append(opts, flatconf.Opt(key, flatconf.Nested(nested)))
			continue
		}

		lit, err := literalFromAny(section[name])
		if err != nil {
			return nil, fmt.Errorf("%s: %v", name, err)
		}
		opts = append(opts, flatconf.Opt(key, flatconf.Leaf(lit)))
	}
	return opts, nil
}

func literalFromAny(v any) (*flatconf.Literal, error) {
	switch val := v.(type) {
	case nil:
		return flatconf.Null(), nil
	case bool:
		return flatconf.Bool(val), nil
	case int:
		return flatconf.Int(int64(val)), nil
	case int64:
		return flatconf.Int(val), nil
	case uint64:
		return flatconf.BigInt(new(big.Int).SetUint64(val)), nil
	case float64:
		return flatconf.Float64(val), nil
	case float32:
		return flatconf.Float64(float64(val)), nil
	case string:
		return literalFromString(val), nil
	case []any:
		items := make([]*flatconf.Literal, 0, len(val))
		for i, elem := range val {
			lit, err := literalFromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %v", i, err)
			}
			items = append(items, lit)
		}
		return flatconf.List(items...), nil
	case map[string]any:
		// Mapping inside a literal: a pair-list value, not nesting.
		pairs := make([]flatconf.Pair, 0, len(val))
		for _, name := range sortedKeys(val) {
			key, err := flatconf.ClassifyIdent(name)
			if err != nil {
				return nil, fmt.Errorf("pair key: %v", err)
			}
			lit, err := literalFromAny(val[name])
			if err != nil {
				return nil, fmt.Errorf("%s: %v", name, err)
			}
			pairs = append(pairs, flatconf.PairOf(key, lit))
		}
		return flatconf.Pairs(pairs...), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// literalFromString applies the string conventions: ":name" is a
// symbol, a dotted uppercase path is a qualified name.
func literalFromString(s string) *flatconf.Literal {
	if strings.HasPrefix(s, ":") {
		if id, err := flatconf.ClassifyIdent(s[1:]); err == nil && id.Kind() == flatconf.IdentSymbol {
			return flatconf.IdentLit(id)
		}
	}
	if strings.Contains(s, ".") {
		if id, err := flatconf.ClassifyIdent(s); err == nil && id.Kind() == flatconf.IdentQualified {
			return flatconf.IdentLit(id)
		}
	}
	return flatconf.Str(s)
}

// ToMap renders a tree back into a plain dynamic document, the inverse
// of FromMap for display and re-serialization. The rendering is lossy
// where YAML has no counterpart: symbols render as ":name" strings,
// qualified names as dotted strings, tuples as sequences, and pair-list
// literals as mappings.
func ToMap(tree flatconf.Tree) map[string]any {
	doc := make(map[string]any, len(tree))
	for _, app := range tree {
		doc[app.Name.Name()] = optionsToMap(app.Options)
	}
	return doc
}

func optionsToMap(opts flatconf.OptionList) map[string]any {
	section := make(map[string]any, len(opts))
	for _, o := range opts {
		if o.Value.IsNested() {
			section[o.Key.Name()] = optionsToMap(o.Value.Options())
		} else {
			section[o.Key.Name()] = literalToAny(o.Value.Literal())
		}
	}
	return section
}

func literalToAny(l *flatconf.Literal) any {
	switch l.Kind() {
	case flatconf.LitNull:
		return nil
	case flatconf.LitBool:
		b, _ := l.AsBool()
		return b
	case flatconf.LitInt:
		if n, err := l.AsInt(); err == nil {
			return n
		}
		wide, _ := l.AsBigInt()
		return wide.String()
	case flatconf.LitFloat:
		d, _ := l.AsFloat()
		if f, exact := floatValue(d); exact {
			return f
		}
		return d.String()
	case flatconf.LitString:
		s, _ := l.AsStr()
		return s
	case flatconf.LitSymbol:
		id, _ := l.AsIdent()
		return ":" + id.Name()
	case flatconf.LitQualified:
		id, _ := l.AsIdent()
		return id.Name()
	case flatconf.LitList, flatconf.LitTuple:
		var items []*flatconf.Literal
		if l.Kind() == flatconf.LitList {
			items, _ = l.AsList()
		} else {
			items, _ = l.AsTuple()
		}
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = literalToAny(item)
		}
		return out
	case flatconf.LitPairs:
		pairs, _ := l.AsPairs()
		out := make(map[string]any, len(pairs))
		for _, p := range pairs {
			out[p.Key.Name()] = literalToAny(p.Value)
		}
		return out
	default:
		return nil
	}
}

// floatValue reports the float64 form and whether it is exact.
func floatValue(d decimal.Decimal) (float64, bool) {
	f, _ := d.Float64()
	return f, decimal.NewFromFloat(f).Equal(d)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
