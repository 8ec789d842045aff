package flatconf

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// DecodeValue parses value text against the closed literal grammar and
// returns the literal it denotes. Any text outside the grammar fails
// with an error matching ErrBadValue; there is no evaluator and no path
// to executing anything.
func DecodeValue(text string) (*Literal, error) {
	lexer := NewLexer(text)
	tokens, err := lexer.Tokenize()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadValue, err)
	}

	p := &Parser{stream: NewTokenStream(tokens)}
	value := p.parseValue()
	if p.err != nil {
		return nil, p.err
	}
	if !p.stream.AtEnd() {
		tok := p.stream.Peek()
		return nil, &ParseError{
			Message: fmt.Sprintf("trailing input %s", tok),
			Pos:     tok.Pos,
		}
	}
	return value, nil
}

// Parser parses tokenized value text into Literals. It stops at the
// first error: the grammar is closed and nothing is repaired.
type Parser struct {
	stream *TokenStream
	err    *ParseError
}

// parseValue parses any value.
func (p *Parser) parseValue() *Literal {
	tok := p.stream.Peek()

	switch tok.Type {
	case TokenNil:
		p.stream.Advance()
		return Null()

	case TokenTrue:
		p.stream.Advance()
		return Bool(true)

	case TokenFalse:
		p.stream.Advance()
		return Bool(false)

	case TokenInt:
		p.stream.Advance()
		n, ok := new(big.Int).SetString(tok.Value, 10)
		if !ok {
			return p.errorf(tok.Pos, "malformed integer %q", tok.Value)
		}
		return BigInt(n)

	case TokenFloat:
		p.stream.Advance()
		d, err := decimal.NewFromString(tok.Value)
		if err != nil {
			return p.errorf(tok.Pos, "malformed float %q", tok.Value)
		}
		return Float(d)

	case TokenString:
		p.stream.Advance()
		return Str(tok.Value)

	case TokenColon:
		return p.parseSymbol()

	case TokenIdent:
		p.stream.Advance()
		if !isQualifiedName(tok.Value) {
			return p.errorf(tok.Pos, "bare identifier %q is not a value", tok.Value)
		}
		return QName(tok.Value)

	case TokenLBracket:
		return p.parseBracket()

	case TokenLBrace:
		return p.parseTuple()

	default:
		return p.errorf(tok.Pos, "unexpected token %s", tok.Type)
	}
}

// parseSymbol parses a symbol: ":" bare_identifier.
func (p *Parser) parseSymbol() *Literal {
	p.stream.Advance() // consume :

	tok := p.stream.Peek()
	if tok.Type != TokenIdent {
		return p.errorf(tok.Pos, "expected symbol name, got %s", tok.Type)
	}
	if !isBareName(tok.Value) {
		return p.errorf(tok.Pos, "symbol name %q must be lowercase-leading", tok.Value)
	}
	p.stream.Advance()
	return Sym(tok.Value)
}

// parseBracket parses a list [v1, v2] or a pair list [k: v, k2: v2].
// One token of lookahead past the opening bracket decides which.
func (p *Parser) parseBracket() *Literal {
	open := p.stream.Advance() // consume [

	if p.stream.Match(TokenRBracket) {
		return List()
	}

	if p.stream.Peek().Type == TokenIdent && p.stream.PeekN(1).Type == TokenColon {
		return p.parsePairs(open.Pos)
	}
	return p.parseList(open.Pos)
}

// parseList parses the remainder of a list after the opening bracket.
func (p *Parser) parseList(openPos Position) *Literal {
	var items []*Literal
	for {
		item := p.parseValue()
		if p.err != nil {
			return nil
		}
		items = append(items, item)

		tok := p.stream.Advance()
		switch tok.Type {
		case TokenComma:
			continue
		case TokenRBracket:
			return List(items...)
		case TokenEOF:
			return p.errorf(openPos, "unterminated list")
		default:
			return p.errorf(tok.Pos, "expected , or ], got %s", tok.Type)
		}
	}
}

// parsePairs parses the remainder of a pair list after the opening
// bracket.
func (p *Parser) parsePairs(openPos Position) *Literal {
	var pairs []Pair
	for {
		keyTok := p.stream.Peek()
		if keyTok.Type != TokenIdent {
			return p.errorf(keyTok.Pos, "expected pair key, got %s", keyTok.Type)
		}
		key, err := ClassifyIdent(keyTok.Value)
		if err != nil {
			return p.errorf(keyTok.Pos, "invalid pair key %q", keyTok.Value)
		}
		p.stream.Advance()

		if colon := p.stream.Peek(); colon.Type != TokenColon {
			return p.errorf(colon.Pos, "expected : after pair key, got %s", colon.Type)
		}
		p.stream.Advance()

		value := p.parseValue()
		if p.err != nil {
			return nil
		}
		pairs = append(pairs, Pair{Key: key, Value: value})

		tok := p.stream.Advance()
		switch tok.Type {
		case TokenComma:
			continue
		case TokenRBracket:
			return Pairs(pairs...)
		case TokenEOF:
			return p.errorf(openPos, "unterminated pair list")
		default:
			return p.errorf(tok.Pos, "expected , or ], got %s", tok.Type)
		}
	}
}

// parseTuple parses a tuple {v1, v2}.
func (p *Parser) parseTuple() *Literal {
	open := p.stream.Advance() // consume {

	if p.stream.Match(TokenRBrace) {
		return Tuple()
	}

	var items []*Literal
	for {
		item := p.parseValue()
		if p.err != nil {
			return nil
		}
		items = append(items, item)

		tok := p.stream.Advance()
		switch tok.Type {
		case TokenComma:
			continue
		case TokenRBrace:
			return Tuple(items...)
		case TokenEOF:
			return p.errorf(open.Pos, "unterminated tuple")
		default:
			return p.errorf(tok.Pos, "expected , or }, got %s", tok.Type)
		}
	}
}

// errorf records the first error and returns nil.
func (p *Parser) errorf(pos Position, format string, args ...any) *Literal {
	if p.err == nil {
		p.err = &ParseError{Message: fmt.Sprintf(format, args...), Pos: pos}
	}
	return nil
}
