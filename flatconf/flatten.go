package flatconf

import "fmt"

// Encode flattens a configuration tree into a flat string map. Every
// leaf becomes one entry whose key is the encoded [app, path..., key]
// and whose value is the literal's canonical text.
//
// Malformed caller input is a contract violation and fails the whole
// call with an error matching ErrBadInput. Should duplicate app/key
// pairs produce the same encoded key, the last-produced value wins.
func Encode(tree Tree) (map[string]string, error) {
	flat := make(map[string]string)
	for _, app := range tree {
		if err := checkIdent(app.Name); err != nil {
			return nil, fmt.Errorf("%w: app %v", ErrBadInput, err)
		}
		if err := flattenOptions(flat, []Ident{app.Name}, app.Options); err != nil {
			return nil, err
		}
	}
	return flat, nil
}

// flattenOptions emits leaves and recurses into nested option groups.
// Nesting is the explicit Value tag; a leaf pair-list literal is encoded
// as one value text, never split into keys.
func flattenOptions(flat map[string]string, path []Ident, opts OptionList) error {
	for _, o := range opts {
		if err := checkIdent(o.Key); err != nil {
			return fmt.Errorf("%w: key %v under %s", ErrBadInput, err, EncodePath(path))
		}
		if o.Value.IsNested() {
			if err := flattenOptions(flat, append(path, o.Key), o.Value.Options()); err != nil {
				return err
			}
			continue
		}
		flat[EncodePath(append(path, o.Key))] = EncodeValue(o.Value.Literal())
	}
	return nil
}

// checkIdent verifies that an identifier's text round-trips through an
// encoded key: non-empty, free of the separator character, and matching
// its tagged kind.
func checkIdent(id Ident) error {
	switch id.kind {
	case IdentSymbol:
		if !isBareName(id.name) {
			return fmt.Errorf("invalid symbol %q", id.name)
		}
	case IdentQualified:
		if !isQualifiedName(id.name) {
			return fmt.Errorf("invalid qualified name %q", id.name)
		}
	default:
		return fmt.Errorf("invalid identifier %q", id.name)
	}
	return nil
}
