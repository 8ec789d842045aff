package flatconf

import (
	"fmt"
	"strings"
)

// KeyTag is the fixed namespace prefix every encoded key begins with.
const KeyTag = "conf"

// KeySep joins the tag and path segments inside an encoded key. No
// identifier's textual form may contain it.
const KeySep = "-"

// EncodePath renders the namespace tag followed by each segment's text
// form, joined by the separator.
func EncodePath(segments []Ident) string {
	var sb strings.Builder
	sb.WriteString(KeyTag)
	for _, seg := range segments {
		sb.WriteString(KeySep)
		sb.WriteString(seg.Name())
	}
	return sb.String()
}

// DecodePath splits an encoded key back into its path segments,
// classifying each as Symbol or QualifiedName. It fails with an error
// matching ErrBadKey when the key does not start with the namespace tag
// or contains an empty segment.
func DecodePath(text string) ([]Ident, error) {
	prefix := KeyTag + KeySep
	if !strings.HasPrefix(text, prefix) {
		return nil, fmt.Errorf("%w: %q does not start with %q", ErrBadKey, text, prefix)
	}

	parts := strings.Split(text[len(prefix):], KeySep)
	segments := make([]Ident, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrBadKey, text)
		}
		id, err := ClassifyIdent(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %v in %q", ErrBadKey, err, text)
		}
		segments = append(segments, id)
	}
	return segments, nil
}
