package flatconf

import (
	"fmt"
	"strings"
)

// EncodeValue converts a literal to its canonical text form. The output
// always re-parses to an equal literal: strings are always quoted,
// floats always carry a decimal point or exponent, items are joined
// with ", " and pair keys are followed by ": ".
func EncodeValue(l *Literal) string {
	e := &emitter{}
	e.emit(l)
	return e.sb.String()
}

type emitter struct {
	sb strings.Builder
}

func (e *emitter) emit(l *Literal) {
	if l.IsNull() {
		e.sb.WriteString("nil")
		return
	}

	switch l.kind {
	case LitBool:
		if l.boolVal {
			e.sb.WriteString("true")
		} else {
			e.sb.WriteString("false")
		}

	case LitInt:
		e.sb.WriteString(l.intVal.String())

	case LitFloat:
		e.emitFloat(l)

	case LitString:
		e.emitString(l.strVal)

	case LitSymbol:
		e.sb.WriteString(":")
		e.sb.WriteString(l.identVal.Name())

	case LitQualified:
		e.sb.WriteString(l.identVal.Name())

	case LitList:
		e.sb.WriteString("[")
		for i, item := range l.itemsVal {
			if i > 0 {
				e.sb.WriteString(", ")
			}
			e.emit(item)
		}
		e.sb.WriteString("]")

	case LitPairs:
		e.sb.WriteString("[")
		for i, p := range l.pairsVal {
			if i > 0 {
				e.sb.WriteString(", ")
			}
			e.sb.WriteString(p.Key.Name())
			e.sb.WriteString(": ")
			e.emit(p.Value)
		}
		e.sb.WriteString("]")

	case LitTuple:
		e.sb.WriteString("{")
		for i, item := range l.itemsVal {
			if i > 0 {
				e.sb.WriteString(", ")
			}
			e.emit(item)
		}
		e.sb.WriteString("}")
	}
}

// emitFloat writes the decimal form, guaranteeing a decimal point so the
// text re-parses as a float rather than an integer.
func (e *emitter) emitFloat(l *Literal) {
	s := l.floatVal.String()
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	e.sb.WriteString(s)
}

// emitString writes a quoted string, escaping quote, backslash, and
// control characters.
func (e *emitter) emitString(s string) {
	e.sb.WriteString("\"")
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			e.sb.WriteString("\\\"")
		case '\\':
			e.sb.WriteString("\\\\")
		case '\n':
			e.sb.WriteString("\\n")
		case '\r':
			e.sb.WriteString("\\r")
		case '\t':
			e.sb.WriteString("\\t")
		default:
			if c < 0x20 {
				fmt.Fprintf(&e.sb, "\\u%04x", c)
			} else {
				e.sb.WriteByte(c)
			}
		}
	}
	e.sb.WriteString("\"")
}
