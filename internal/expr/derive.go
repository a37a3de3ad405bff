package expr

import "fmt"

// UnsupportedError means the expression falls outside the differentiation
// rule set. This is an expected outcome, not a crash: the integral check
// uses it as the trigger for escalating to the remote oracle.
type UnsupportedError struct {
	Detail string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("differentiation unsupported: %s", e.Detail)
}

// Derivative returns the symbolic derivative of e with respect to v.
//
// Rules: sum/difference, product, quotient, power with a constant exponent,
// exponential with a constant base, and the chain rule for sin, cos, tan,
// exp, ln and sqrt. Everything else returns an UnsupportedError.
func Derivative(e Expr, v string) (Expr, error) {
	switch n := e.(type) {
	case *Number:
		return &Number{Value: 0}, nil

	case *Symbol:
		if n.Name == v {
			return &Number{Value: 1}, nil
		}
		return &Number{Value: 0}, nil

	case *Unary:
		d, err := Derivative(n.Operand, v)
		if err != nil {
			return nil, err
		}
		return &Unary{Op: "-", Operand: d}, nil

	case *Binary:
		return deriveBinary(n, v)

	case *Call:
		return deriveCall(n, v)

	default:
		return nil, &UnsupportedError{Detail: fmt.Sprintf("node %T", e)}
	}
}

func deriveBinary(b *Binary, v string) (Expr, error) {
	switch b.Op {
	case "+", "-":
		dl, err := Derivative(b.Left, v)
		if err != nil {
			return nil, err
		}
		dr, err := Derivative(b.Right, v)
		if err != nil {
			return nil, err
		}
		return &Binary{Op: b.Op, Left: dl, Right: dr}, nil

	case "*":
		dl, err := Derivative(b.Left, v)
		if err != nil {
			return nil, err
		}
		dr, err := Derivative(b.Right, v)
		if err != nil {
			return nil, err
		}
		// l'r + lr'
		return &Binary{
			Op:    "+",
			Left:  &Binary{Op: "*", Left: dl, Right: b.Right},
			Right: &Binary{Op: "*", Left: b.Left, Right: dr},
		}, nil

	case "/":
		dl, err := Derivative(b.Left, v)
		if err != nil {
			return nil, err
		}
		dr, err := Derivative(b.Right, v)
		if err != nil {
			return nil, err
		}
		// (l'r - lr') / r^2
		num := &Binary{
			Op:    "-",
			Left:  &Binary{Op: "*", Left: dl, Right: b.Right},
			Right: &Binary{Op: "*", Left: b.Left, Right: dr},
		}
		den := &Binary{Op: "^", Left: b.Right, Right: &Number{Value: 2}}
		return &Binary{Op: "/", Left: num, Right: den}, nil

	case "^":
		return derivePower(b, v)

	default:
		return nil, &UnsupportedError{Detail: fmt.Sprintf("operator %q", b.Op)}
	}
}

func derivePower(b *Binary, v string) (Expr, error) {
	baseHasVar := containsVar(b.Left, v)
	expHasVar := containsVar(b.Right, v)

	switch {
	case !expHasVar && !baseHasVar:
		return &Number{Value: 0}, nil

	case !expHasVar:
		// Power rule: n * u^(n-1) * u'
		du, err := Derivative(b.Left, v)
		if err != nil {
			return nil, err
		}
		newExp := &Binary{Op: "-", Left: b.Right, Right: &Number{Value: 1}}
		pow := &Binary{Op: "^", Left: b.Left, Right: newExp}
		return &Binary{
			Op:    "*",
			Left:  &Binary{Op: "*", Left: b.Right, Right: pow},
			Right: du,
		}, nil

	case !baseHasVar:
		// Constant base: a^u → a^u * ln(a) * u'. For base e the ln factor
		// is identically 1 and is omitted so canonical forms stay tight.
		du, err := Derivative(b.Right, v)
		if err != nil {
			return nil, err
		}
		self := &Binary{Op: "^", Left: b.Left, Right: b.Right}
		if s, ok := b.Left.(*Symbol); ok && s.Name == "e" {
			return &Binary{Op: "*", Left: self, Right: du}, nil
		}
		lnA := &Call{Fn: "ln", Args: []Expr{b.Left}}
		return &Binary{
			Op:    "*",
			Left:  &Binary{Op: "*", Left: self, Right: lnA},
			Right: du,
		}, nil

	default:
		return nil, &UnsupportedError{Detail: "variable base with variable exponent"}
	}
}

func deriveCall(c *Call, v string) (Expr, error) {
	if len(c.Args) != 1 {
		return nil, &UnsupportedError{Detail: fmt.Sprintf("%s with %d arguments", c.Fn, len(c.Args))}
	}
	u := c.Args[0]
	du, err := Derivative(u, v)
	if err != nil {
		return nil, err
	}

	var outer Expr
	switch c.Fn {
	case "sin":
		outer = &Call{Fn: "cos", Args: []Expr{u}}
	case "cos":
		outer = &Unary{Op: "-", Operand: &Call{Fn: "sin", Args: []Expr{u}}}
	case "tan":
		// 1 / cos(u)^2
		cos2 := &Binary{Op: "^", Left: &Call{Fn: "cos", Args: []Expr{u}}, Right: &Number{Value: 2}}
		outer = &Binary{Op: "/", Left: &Number{Value: 1}, Right: cos2}
	case "exp":
		outer = &Call{Fn: "exp", Args: []Expr{u}}
	case "ln":
		outer = &Binary{Op: "/", Left: &Number{Value: 1}, Right: u}
	case "sqrt":
		// 1 / (2*sqrt(u))
		twoRoot := &Binary{Op: "*", Left: &Number{Value: 2}, Right: &Call{Fn: "sqrt", Args: []Expr{u}}}
		outer = &Binary{Op: "/", Left: &Number{Value: 1}, Right: twoRoot}
	default:
		return nil, &UnsupportedError{Detail: fmt.Sprintf("function %q", c.Fn)}
	}

	return &Binary{Op: "*", Left: outer, Right: du}, nil
}

// containsVar reports whether v occurs as a free variable of e.
func containsVar(e Expr, v string) bool {
	for _, name := range FreeSymbols(e) {
		if name == v {
			return true
		}
	}
	return false
}
