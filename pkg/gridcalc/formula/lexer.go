package formula

import "fmt"

// TokenType identifies the kind of a lexical token.
type TokenType int

// Token types produced by the Lexer.
const (
	// TokenEOF ends every token stream.
	TokenEOF TokenType = iota
	// TokenNumber is a decimal literal with optional fraction and exponent.
	TokenNumber
	// TokenPlus is "+".
	TokenPlus
	// TokenMinus is "-".
	TokenMinus
	// TokenMultiply is "*".
	TokenMultiply
	// TokenDivide is "/".
	TokenDivide
	// TokenLeftParen is "(".
	TokenLeftParen
	// TokenRightParen is ")".
	TokenRightParen
)

// Bytes the lexer recognizes.
const (
	charTab      = '\t'
	charNewline  = '\n'
	charReturn   = '\r'
	charSpace    = ' '
	charLParen   = '('
	charRParen   = ')'
	charAsterisk = '*'
	charPlus     = '+'
	charMinus    = '-'
	charPeriod   = '.'
	charSlash    = '/'
)

// Token is a lexical token and its position in the input.
type Token struct {
	Type  TokenType
	Value string
	Pos   int // byte offset in the input
}

// SyntaxError reports input that is not a well-formed arithmetic expression.
type SyntaxError struct {
	Pos int
	Msg string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d: %s", e.Pos, e.Msg)
}

// Lexer tokenizes arithmetic expressions. A byte that is neither blank nor
// the start of a token is a syntax error.
type Lexer struct {
	input string
	pos   int
}

// NewLexer returns a Lexer over input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize scans the whole input. The returned slice ends in TokenEOF when
// err is nil.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) nextToken() (Token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	ch := l.input[l.pos]
	start := l.pos
	switch {
	case isDigit(ch) || ch == charPeriod:
		return l.scanNumber()
	case ch == charPlus:
		l.pos++
		return Token{Type: TokenPlus, Value: "+", Pos: start}, nil
	case ch == charMinus:
		l.pos++
		return Token{Type: TokenMinus, Value: "-", Pos: start}, nil
	case ch == charAsterisk:
		l.pos++
		return Token{Type: TokenMultiply, Value: "*", Pos: start}, nil
	case ch == charSlash:
		l.pos++
		return Token{Type: TokenDivide, Value: "/", Pos: start}, nil
	case ch == charLParen:
		l.pos++
		return Token{Type: TokenLeftParen, Value: "(", Pos: start}, nil
	case ch == charRParen:
		l.pos++
		return Token{Type: TokenRightParen, Value: ")", Pos: start}, nil
	}
	return Token{}, &SyntaxError{Pos: start, Msg: fmt.Sprintf("unexpected character %q", ch)}
}

func (l *Lexer) current() byte {
	if l.pos < len(l.input) {
		return l.input[l.pos]
	}
	return 0
}

func (l *Lexer) peek(offset int) byte {
	if l.pos+offset < len(l.input) {
		return l.input[l.pos+offset]
	}
	return 0
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case charSpace, charTab, charNewline, charReturn:
			l.pos++
		default:
			return
		}
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// scanNumber scans a decimal literal: digits, an optional fraction and an
// optional exponent. "5.", ".5" and "1e-7" are numbers, "." is not.
func (l *Lexer) scanNumber() (Token, error) {
	start := l.pos
	digits := 0

	for isDigit(l.current()) {
		l.pos++
		digits++
	}

	if l.current() == charPeriod {
		l.pos++
		for isDigit(l.current()) {
			l.pos++
			digits++
		}
	}

	if digits == 0 {
		return Token{}, &SyntaxError{Pos: start, Msg: "malformed number"}
	}

	// An exponent needs at least one digit; otherwise the 'e' is left for
	// the next token and fails there.
	if c := l.current(); c == 'e' || c == 'E' {
		offset := 1
		if s := l.peek(1); s == charPlus || s == charMinus {
			offset = 2
		}
		if isDigit(l.peek(offset)) {
			l.pos += offset
			for isDigit(l.current()) {
				l.pos++
			}
		}
	}

	return Token{Type: TokenNumber, Value: l.input[start:l.pos], Pos: start}, nil
}
