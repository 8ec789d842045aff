// Package flatconf converts hierarchical, namespace-keyed configuration
// trees into flat string key/value maps and back, so structured
// configuration can live in systems that only understand flat string
// pairs (runtime key/value stores, environment-like tables, diffs).
//
// # Data Model
//
// A Tree maps application identifiers to ordered OptionLists. Each
// option value is tagged: either a Leaf literal or a Nested option
// group. Literals are immutable and cover null, bool, arbitrary
// precision ints and decimals, strings, symbols, qualified names,
// lists, pair lists, and tuples.
//
// # Key Format
//
//	conf-<app>-<segment>(-<segment>)*
//
// Identifiers never contain the separator, so keys split unambiguously.
//
// # Value Format
//
// Values are text in a closed literal grammar:
//
//	nil  true  -42  3.14  "quoted\nstring"  :symbol  Repo.Postgres
//	[1, 2, 3]  [host: "db", port: 5432]  {1, :two}
//
// DecodeValue is a recursive-descent parser over exactly this grammar.
// There is no evaluator: no text input can reach executable behavior.
//
// # Encode / Decode
//
//	flat, err := flatconf.Encode(tree)
//	tree, invalid := flatconf.Decode(flat)
//
// Encode fails as a whole on malformed caller input (ErrBadInput).
// Decode never fails as a whole: each entry decodes independently,
// malformed entries are collected as InvalidEntry values (bad-key or
// bad-value), and valid entries deep-merge into the result in sorted
// key order.
//
// The whole package is pure and synchronous: no I/O, no shared state,
// every call a function of its input.
package flatconf
