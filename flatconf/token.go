package flatconf

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexer token.
type TokenType uint8

const (
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenInt    // 123, -456
	TokenFloat  // 1.23, -4.56e7
	TokenString // "quoted string"
	TokenTrue   // true
	TokenFalse  // false
	TokenNil    // nil
	TokenIdent  // timeout, Repo.Postgres

	// Structural
	TokenLBracket // [
	TokenRBracket // ]
	TokenLBrace   // {
	TokenRBrace   // }
	TokenColon    // :
	TokenComma    // ,
)

// String returns the token type name.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenError:
		return "ERROR"
	case TokenInt:
		return "INT"
	case TokenFloat:
		return "FLOAT"
	case TokenString:
		return "STRING"
	case TokenTrue:
		return "TRUE"
	case TokenFalse:
		return "FALSE"
	case TokenNil:
		return "NIL"
	case TokenIdent:
		return "IDENT"
	case TokenLBracket:
		return "["
	case TokenRBracket:
		return "]"
	case TokenLBrace:
		return "{"
	case TokenRBrace:
		return "}"
	case TokenColon:
		return ":"
	case TokenComma:
		return ","
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexer token.
type Token struct {
	Type  TokenType
	Value string
	Pos   Position
}

// String returns a debug representation of the token.
func (t Token) String() string {
	if t.Value == "" {
		return t.Type.String()
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Value)
}

// Lexer tokenizes literal-expression text. The grammar is closed: any
// character sequence outside it produces a TokenError and stops the
// scan.
type Lexer struct {
	input  string
	pos    int // Current position in input
	line   int // Current line number (1-based)
	col    int // Current column number (1-based)
	tokens []Token
	err    error
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
		col:   1,
	}
}

// Tokenize returns all tokens from the input.
func (l *Lexer) Tokenize() ([]Token, error) {
	for {
		tok := l.nextToken()
		l.tokens = append(l.tokens, tok)
		if tok.Type == TokenEOF || tok.Type == TokenError {
			break
		}
	}
	if l.err != nil {
		return l.tokens, l.err
	}
	return l.tokens, nil
}

// nextToken returns the next token.
func (l *Lexer) nextToken() Token {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.currentPos()}
	}

	startPos := l.currentPos()
	ch := l.peek()

	switch ch {
	case '[':
		l.advance()
		return Token{Type: TokenLBracket, Value: "[", Pos: startPos}
	case ']':
		l.advance()
		return Token{Type: TokenRBracket, Value: "]", Pos: startPos}
	case '{':
		l.advance()
		return Token{Type: TokenLBrace, Value: "{", Pos: startPos}
	case '}':
		l.advance()
		return Token{Type: TokenRBrace, Value: "}", Pos: startPos}
	case ':':
		l.advance()
		return Token{Type: TokenColon, Value: ":", Pos: startPos}
	case ',':
		l.advance()
		return Token{Type: TokenComma, Value: ",", Pos: startPos}
	case '"':
		return l.scanString()
	}

	// Numbers (including negative)
	if ch == '-' || ch >= '0' && ch <= '9' {
		return l.scanNumber()
	}

	// Identifiers and keywords
	if isIdentStart(ch) {
		return l.scanIdentOrKeyword()
	}

	l.advance()
	l.err = fmt.Errorf("unexpected character %q at %s", ch, startPos)
	return Token{Type: TokenError, Value: string(ch), Pos: startPos}
}

// scanString scans a quoted string. Escapes are limited to
// \" \\ \n \r \t \0 and \uXXXX; anything else is an error.
func (l *Lexer) scanString() Token {
	startPos := l.currentPos()
	l.advance() // consume opening "

	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			l.err = fmt.Errorf("unterminated string at %s", startPos)
			return Token{Type: TokenError, Value: sb.String(), Pos: startPos}
		}

		ch := l.peek()
		if ch == '"' {
			l.advance() // consume closing "
			break
		}

		if ch != '\\' {
			sb.WriteByte(ch)
			l.advance()
			continue
		}

		l.advance() // consume backslash
		if l.pos >= len(l.input) {
			l.err = fmt.Errorf("unterminated escape at %s", l.currentPos())
			return Token{Type: TokenError, Value: sb.String(), Pos: startPos}
		}
		escaped := l.peek()
		l.advance()
		switch escaped {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '0':
			sb.WriteByte(0)
		case '\\':
			sb.WriteByte('\\')
		case '"':
			sb.WriteByte('"')
		case 'u':
			r, ok := l.scanHex4()
			if !ok {
				l.err = fmt.Errorf("invalid \\u escape at %s", l.currentPos())
				return Token{Type: TokenError, Value: sb.String(), Pos: startPos}
			}
			sb.WriteRune(r)
		default:
			l.err = fmt.Errorf("invalid escape %q at %s", escaped, l.currentPos())
			return Token{Type: TokenError, Value: sb.String(), Pos: startPos}
		}
	}

	return Token{Type: TokenString, Value: sb.String(), Pos: startPos}
}

// scanHex4 consumes four hex digits after \u.
func (l *Lexer) scanHex4() (rune, bool) {
	if l.pos+4 > len(l.input) {
		return 0, false
	}
	var r rune
	for i := 0; i < 4; i++ {
		d := hexDigit(l.input[l.pos])
		if d < 0 {
			return 0, false
		}
		r = r<<4 | rune(d)
		l.advance()
	}
	return r, true
}

// scanNumber scans an integer or float of any length.
func (l *Lexer) scanNumber() Token {
	startPos := l.currentPos()
	start := l.pos

	if l.peek() == '-' {
		l.advance()
	}

	digits := 0
	for l.pos < len(l.input) && isDigit(l.peek()) {
		l.advance()
		digits++
	}
	if digits == 0 {
		l.err = fmt.Errorf("malformed number at %s", startPos)
		return Token{Type: TokenError, Value: l.input[start:l.pos], Pos: startPos}
	}

	isFloat := false

	// Decimal part
	if l.pos < len(l.input) && l.peek() == '.' {
		nextPos := l.pos + 1
		if nextPos >= len(l.input) || !isDigit(l.input[nextPos]) {
			l.err = fmt.Errorf("malformed number at %s", startPos)
			return Token{Type: TokenError, Value: l.input[start:l.pos], Pos: startPos}
		}
		isFloat = true
		l.advance() // consume .
		for l.pos < len(l.input) && isDigit(l.peek()) {
			l.advance()
		}
	}

	// Exponent part
	if l.pos < len(l.input) && (l.peek() == 'e' || l.peek() == 'E') {
		isFloat = true
		l.advance()
		if l.pos < len(l.input) && (l.peek() == '+' || l.peek() == '-') {
			l.advance()
		}
		expDigits := 0
		for l.pos < len(l.input) && isDigit(l.peek()) {
			l.advance()
			expDigits++
		}
		if expDigits == 0 {
			l.err = fmt.Errorf("malformed exponent at %s", startPos)
			return Token{Type: TokenError, Value: l.input[start:l.pos], Pos: startPos}
		}
	}

	value := l.input[start:l.pos]
	if isFloat {
		return Token{Type: TokenFloat, Value: value, Pos: startPos}
	}
	return Token{Type: TokenInt, Value: value, Pos: startPos}
}

// scanIdentOrKeyword scans an identifier (possibly dotted) or keyword.
func (l *Lexer) scanIdentOrKeyword() Token {
	startPos := l.currentPos()
	start := l.pos

	for l.pos < len(l.input) && isIdentContinue(l.peek()) {
		l.advance()
	}

	// Dotted continuation: each dot must be followed by a letter.
	for l.pos+1 < len(l.input) && l.peek() == '.' && isIdentStart(l.input[l.pos+1]) {
		l.advance() // consume .
		for l.pos < len(l.input) && isIdentContinue(l.peek()) {
			l.advance()
		}
	}

	value := l.input[start:l.pos]

	switch value {
	case "true":
		return Token{Type: TokenTrue, Value: value, Pos: startPos}
	case "false":
		return Token{Type: TokenFalse, Value: value, Pos: startPos}
	case "nil":
		return Token{Type: TokenNil, Value: value, Pos: startPos}
	}

	return Token{Type: TokenIdent, Value: value, Pos: startPos}
}

// skipWhitespace skips spaces, tabs, and newlines.
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			l.advance()
			continue
		}
		break
	}
}

// Helper methods

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) advance() {
	if l.pos < len(l.input) {
		if l.input[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

func (l *Lexer) currentPos() Position {
	return Position{Line: l.line, Column: l.col, Offset: l.pos}
}

// TokenStream provides a stream interface over tokens.
type TokenStream struct {
	tokens []Token
	pos    int
}

// NewTokenStream creates a token stream from tokens.
func NewTokenStream(tokens []Token) *TokenStream {
	return &TokenStream{tokens: tokens}
}

// Peek returns the current token without advancing.
func (ts *TokenStream) Peek() Token {
	if ts.pos >= len(ts.tokens) {
		return Token{Type: TokenEOF}
	}
	return ts.tokens[ts.pos]
}

// PeekN returns the token N positions ahead.
func (ts *TokenStream) PeekN(n int) Token {
	idx := ts.pos + n
	if idx >= len(ts.tokens) {
		return Token{Type: TokenEOF}
	}
	return ts.tokens[idx]
}

// Advance moves to the next token and returns the current one.
func (ts *TokenStream) Advance() Token {
	tok := ts.Peek()
	if ts.pos < len(ts.tokens) {
		ts.pos++
	}
	return tok
}

// Match returns true and advances if the current token matches.
func (ts *TokenStream) Match(typ TokenType) bool {
	if ts.Peek().Type == typ {
		ts.Advance()
		return true
	}
	return false
}

// AtEnd returns true if at end of stream.
func (ts *TokenStream) AtEnd() bool {
	return ts.Peek().Type == TokenEOF
}

// Character classification

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func hexDigit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c - 'a' + 10)
	case c >= 'A' && c <= 'F':
		return int(c - 'A' + 10)
	default:
		return -1
	}
}
