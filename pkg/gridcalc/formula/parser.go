package formula

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrDivideByZero is returned when a divisor evaluates to zero.
	ErrDivideByZero = errors.New("division by zero")
	// ErrNotFinite is returned when an operation overflows to Inf or NaN.
	ErrNotFinite = errors.New("result is not finite")
)

// BinaryOp is the operator of a BinaryOpNode.
type BinaryOp int

// Binary operators.
const (
	BinOpAdd BinaryOp = iota
	BinOpSubtract
	BinOpMultiply
	BinOpDivide
)

// UnaryOp is the operator of a UnaryOpNode.
type UnaryOp int

// Unary operators.
const (
	UnaryOpPlus UnaryOp = iota
	UnaryOpMinus
)

// Node is a parsed arithmetic expression.
type Node interface {
	Eval() (float64, error)
	String() string
}

// NumberNode is a numeric literal.
type NumberNode struct {
	Value float64
}

// Eval returns the literal value.
func (n *NumberNode) Eval() (float64, error) {
	return n.Value, nil
}

// String renders the literal in the shortest form that parses back.
func (n *NumberNode) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// BinaryOpNode applies Op to Left and Right.
type BinaryOpNode struct {
	Op    BinaryOp
	Left  Node
	Right Node
}

// Eval evaluates both operands and applies the operator. Division by zero
// and non-finite results are errors.
func (n *BinaryOpNode) Eval() (float64, error) {
	left, err := n.Left.Eval()
	if err != nil {
		return 0, err
	}
	right, err := n.Right.Eval()
	if err != nil {
		return 0, err
	}

	var result float64
	switch n.Op {
	case BinOpAdd:
		result = left + right
	case BinOpSubtract:
		result = left - right
	case BinOpMultiply:
		result = left * right
	case BinOpDivide:
		if right == 0 {
			return 0, ErrDivideByZero
		}
		result = left / right
	default:
		return 0, fmt.Errorf("unknown operator %d", n.Op)
	}

	if math.IsInf(result, 0) || math.IsNaN(result) {
		return 0, ErrNotFinite
	}
	return result, nil
}

// String renders the operation fully parenthesized.
func (n *BinaryOpNode) String() string {
	opStr := ""
	switch n.Op {
	case BinOpAdd:
		opStr = "+"
	case BinOpSubtract:
		opStr = "-"
	case BinOpMultiply:
		opStr = "*"
	case BinOpDivide:
		opStr = "/"
	}
	return fmt.Sprintf("(%s%s%s)", n.Left.String(), opStr, n.Right.String())
}

// UnaryOpNode applies a sign to Operand.
type UnaryOpNode struct {
	Op      UnaryOp
	Operand Node
}

// Eval evaluates the operand and applies the sign.
func (n *UnaryOpNode) Eval() (float64, error) {
	val, err := n.Operand.Eval()
	if err != nil {
		return 0, err
	}
	if n.Op == UnaryOpMinus {
		return -val, nil
	}
	return val, nil
}

// String renders the operation parenthesized.
func (n *UnaryOpNode) String() string {
	if n.Op == UnaryOpMinus {
		return "(-" + n.Operand.String() + ")"
	}
	return "(+" + n.Operand.String() + ")"
}

// Parser builds an expression tree from tokens by recursive descent.
// Precedence from low to high is additive, multiplicative, unary, primary.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser returns a Parser over tokens, which should end in TokenEOF.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse tokenizes and parses an arithmetic expression.
func Parse(expr string) (Node, error) {
	tokens, err := NewLexer(expr).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}

// Parse parses the whole token stream into one expression. Trailing tokens
// are a syntax error.
func (p *Parser) Parse() (Node, error) {
	if p.peek().Type == TokenEOF {
		return nil, &SyntaxError{Pos: p.peek().Pos, Msg: "empty expression"}
	}

	node, err := p.parseAddition()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf("unexpected token %q", tok.Value)}
	}
	return node, nil
}

func (p *Parser) peek() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	if len(p.tokens) == 0 {
		return Token{Type: TokenEOF}
	}
	return Token{Type: TokenEOF, Pos: p.tokens[len(p.tokens)-1].Pos}
}

// parseAddition parses a chain of + and - terms.
func (p *Parser) parseAddition() (Node, error) {
	left, err := p.parseMultiplication()
	if err != nil {
		return nil, err
	}

	for {
		var op BinaryOp
		switch p.peek().Type {
		case TokenPlus:
			op = BinOpAdd
		case TokenMinus:
			op = BinOpSubtract
		default:
			return left, nil
		}

		p.pos++
		right, err := p.parseMultiplication()
		if err != nil {
			return nil, err
		}
		left = &BinaryOpNode{Op: op, Left: left, Right: right}
	}
}

// parseMultiplication parses a chain of * and / factors.
func (p *Parser) parseMultiplication() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		var op BinaryOp
		switch p.peek().Type {
		case TokenMultiply:
			op = BinOpMultiply
		case TokenDivide:
			op = BinOpDivide
		default:
			return left, nil
		}

		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryOpNode{Op: op, Left: left, Right: right}
	}
}

// parseUnary parses any number of leading signs.
func (p *Parser) parseUnary() (Node, error) {
	var op UnaryOp
	switch p.peek().Type {
	case TokenPlus:
		op = UnaryOpPlus
	case TokenMinus:
		op = UnaryOpMinus
	default:
		return p.parsePrimary()
	}

	p.pos++
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &UnaryOpNode{Op: op, Operand: operand}, nil
}

// parsePrimary parses a number or a parenthesized expression.
func (p *Parser) parsePrimary() (Node, error) {
	tok := p.peek()

	switch tok.Type {
	case TokenNumber:
		p.pos++
		val, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf("invalid number %q", tok.Value)}
		}
		return &NumberNode{Value: val}, nil

	case TokenLeftParen:
		p.pos++
		node, err := p.parseAddition()
		if err != nil {
			return nil, err
		}
		if p.peek().Type != TokenRightParen {
			return nil, &SyntaxError{Pos: p.peek().Pos, Msg: "expected closing parenthesis"}
		}
		p.pos++
		return node, nil

	case TokenEOF:
		return nil, &SyntaxError{Pos: tok.Pos, Msg: "unexpected end of expression"}

	default:
		return nil, &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf("unexpected token %q", tok.Value)}
	}
}
