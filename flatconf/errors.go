package flatconf

import (
	"errors"
	"fmt"
)

// ErrKind classifies a decode failure.
type ErrKind uint8

const (
	// KindBadInput means the top-level argument violated the caller
	// contract; it fails the whole call.
	KindBadInput ErrKind = iota
	// KindBadKey means an encoded key is missing the namespace tag or
	// contains an empty path segment; isolated to one entry.
	KindBadKey
	// KindBadValue means value text does not parse under the literal
	// grammar; isolated to one entry.
	KindBadValue
)

// String returns the error kind name.
func (k ErrKind) String() string {
	switch k {
	case KindBadInput:
		return "bad-input"
	case KindBadKey:
		return "bad-key"
	case KindBadValue:
		return "bad-value"
	default:
		return "unknown"
	}
}

// Sentinel errors for errors.Is checks. Call sites wrap these with
// detail via fmt.Errorf and %w.
var (
	ErrBadInput = errors.New("flatconf: bad input")
	ErrBadKey   = errors.New("flatconf: bad key")
	ErrBadValue = errors.New("flatconf: bad value")
)

// ParseError is a value-text parsing error with location.
type ParseError struct {
	Message string
	Pos     Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Pos)
}

// Unwrap makes every ParseError match ErrBadValue.
func (e *ParseError) Unwrap() error {
	return ErrBadValue
}

// InvalidEntry records one flat-map entry that failed to decode,
// together with why. The entry's text is kept verbatim so callers can
// report or retry it.
type InvalidEntry struct {
	Key   string
	Value string
	Kind  ErrKind
	Err   error
}

func (e InvalidEntry) String() string {
	return fmt.Sprintf("%s %q=%q: %v", e.Kind, e.Key, e.Value, e.Err)
}
