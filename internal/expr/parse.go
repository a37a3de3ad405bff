package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError indicates malformed input. Callers treat it as "this check is
// inconclusive", never as a fatal verification failure.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d: %s", e.Pos, e.Msg)
}

// Parse converts a cleaned expression string into an AST.
//
// Grammar, loosest to tightest binding:
//
//	expr   = term (("+"|"-") term)*
//	term   = unary (("*"|"/") unary)*
//	unary  = "-" unary | power
//	power  = atom ("^" unary)?          // right-associative
//	atom   = number | name | name "(" expr ("," expr)* ")" | "(" expr ")"
//
// Juxtaposition ("2x") is not supported; the normalizer produces input with
// explicit operators.
func Parse(s string) (Expr, error) {
	p := &parser{input: s}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return nil, &ParseError{Pos: p.pos, Msg: fmt.Sprintf("unexpected %q", p.input[p.pos:])}
	}
	return e, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) expect(c byte) error {
	if p.peek() != c {
		return &ParseError{Pos: p.pos, Msg: fmt.Sprintf("expected %q", string(c))}
	}
	p.pos++
	return nil
}

func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = &Binary{Op: "+", Left: left, Right: right}
		case '-':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = &Binary{Op: "-", Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &Binary{Op: "*", Left: left, Right: right}
		case '/':
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &Binary{Op: "/", Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	if p.peek() == '-' {
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: "-", Operand: operand}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.peek() == '^' {
		p.pos++
		// Descend through parseUnary so "2^-1" works and chains like
		// "2^3^2" associate to the right.
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Binary{Op: "^", Left: base, Right: exp}, nil
	}
	return base, nil
}

func (p *parser) parseAtom() (Expr, error) {
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return e, nil

	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()

	case isLetter(c):
		return p.parseNameOrCall()

	case c == 0:
		return nil, &ParseError{Pos: p.pos, Msg: "unexpected end of input"}

	default:
		return nil, &ParseError{Pos: p.pos, Msg: fmt.Sprintf("unexpected %q", string(c))}
	}
}

func (p *parser) parseNumber() (Expr, error) {
	start := p.pos
	seenDot := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '.' {
			if seenDot {
				break
			}
			seenDot = true
			p.pos++
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		p.pos++
	}
	text := p.input[start:p.pos]
	if text == "." {
		return nil, &ParseError{Pos: start, Msg: "malformed number"}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, &ParseError{Pos: start, Msg: fmt.Sprintf("malformed number %q", text)}
	}
	return &Number{Value: v}, nil
}

func (p *parser) parseNameOrCall() (Expr, error) {
	start := p.pos
	for p.pos < len(p.input) && isLetter(p.input[p.pos]) {
		p.pos++
	}
	name := strings.ToLower(p.input[start:p.pos])

	if p.peek() != '(' {
		return &Symbol{Name: name}, nil
	}

	p.pos++
	var args []Expr
	if p.peek() != ')' {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek() != ',' {
				break
			}
			p.pos++
		}
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return &Call{Fn: name, Args: args}, nil
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
