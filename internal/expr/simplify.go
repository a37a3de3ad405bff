package expr

import (
	"sort"
	"strconv"
	"strings"
)

// Simplify rewrites e into a canonical algebraic form suitable for
// syntactic equality comparison via Canonical.
//
// The rewriting is deliberately bounded, not a full CAS: subtraction,
// division, unary minus and sqrt are first rewritten into sums, products
// and powers; associative chains are flattened; constant sub-expressions
// are folded; commutative operand lists are sorted by a fixed total order;
// and like terms are collected so a value cancels with its negation.
// The output contains only "+", "*" and "^" operators.
func Simplify(e Expr) Expr {
	return simplify(rewrite(e))
}

// Canonical returns the deterministic string form of e, used for equality
// comparison between simplified expressions.
func Canonical(e Expr) string {
	var b strings.Builder
	writeCanonical(&b, e, 0)
	return b.String()
}

// rewrite eliminates subtraction, division, unary minus and sqrt so the
// simplifier only deals with sums, products and powers.
func rewrite(e Expr) Expr {
	switch v := e.(type) {
	case *Number, *Symbol:
		return e

	case *Unary:
		return &Binary{Op: "*", Left: &Number{Value: -1}, Right: rewrite(v.Operand)}

	case *Binary:
		left, right := rewrite(v.Left), rewrite(v.Right)
		switch v.Op {
		case "-":
			neg := &Binary{Op: "*", Left: &Number{Value: -1}, Right: right}
			return &Binary{Op: "+", Left: left, Right: neg}
		case "/":
			inv := &Binary{Op: "^", Left: right, Right: &Number{Value: -1}}
			return &Binary{Op: "*", Left: left, Right: inv}
		default:
			return &Binary{Op: v.Op, Left: left, Right: right}
		}

	case *Call:
		args := make([]Expr, len(v.Args))
		for i, a := range v.Args {
			args[i] = rewrite(a)
		}
		if v.Fn == "sqrt" && len(args) == 1 {
			return &Binary{Op: "^", Left: args[0], Right: &Number{Value: 0.5}}
		}
		return &Call{Fn: v.Fn, Args: args}

	default:
		return e
	}
}

func simplify(e Expr) Expr {
	switch v := e.(type) {
	case *Number, *Symbol:
		return e

	case *Binary:
		switch v.Op {
		case "+":
			return simplifySum(v)
		case "*":
			return simplifyProduct(v)
		case "^":
			return simplifyPower(v)
		default:
			return e
		}

	case *Call:
		return simplifyCall(v)

	default:
		return e
	}
}

// flatten collects the operands of nested chains of the given associative
// operator, simplifying each leaf.
func flatten(e Expr, op string) []Expr {
	if b, ok := e.(*Binary); ok && b.Op == op {
		return append(flatten(b.Left, op), flatten(b.Right, op)...)
	}
	s := simplify(e)
	if b, ok := s.(*Binary); ok && b.Op == op {
		return append(flatten(b.Left, op), flatten(b.Right, op)...)
	}
	return []Expr{s}
}

// simplifySum folds constants, collects like terms by the canonical form of
// their non-constant part, and sorts the surviving terms. The folded
// constant, when nonzero, goes last.
func simplifySum(e Expr) Expr {
	terms := flatten(e, "+")

	constant := 0.0
	coeffs := map[string]float64{}
	rests := map[string]Expr{}

	for _, t := range terms {
		if n, ok := t.(*Number); ok {
			constant += n.Value
			continue
		}
		coeff, rest := splitCoefficient(t)
		key := Canonical(rest)
		if _, seen := coeffs[key]; !seen {
			rests[key] = rest
		}
		coeffs[key] += coeff
	}

	keys := make([]string, 0, len(coeffs))
	for k := range coeffs {
		if coeffs[k] != 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var out []Expr
	for _, k := range keys {
		out = append(out, scaleTerm(coeffs[k], rests[k]))
	}
	if constant != 0 {
		out = append(out, &Number{Value: constant})
	}

	if len(out) == 0 {
		return &Number{Value: 0}
	}
	return chain("+", out)
}

// splitCoefficient splits a (simplified) term into its numeric coefficient
// and the remaining factor product.
func splitCoefficient(t Expr) (float64, Expr) {
	b, ok := t.(*Binary)
	if !ok || b.Op != "*" {
		return 1, t
	}
	factors := productFactors(t)
	coeff := 1.0
	var rest []Expr
	for _, f := range factors {
		if n, ok := f.(*Number); ok {
			coeff *= n.Value
		} else {
			rest = append(rest, f)
		}
	}
	if len(rest) == 0 {
		return coeff, &Number{Value: 1}
	}
	return coeff, chain("*", rest)
}

func productFactors(e Expr) []Expr {
	if b, ok := e.(*Binary); ok && b.Op == "*" {
		return append(productFactors(b.Left), productFactors(b.Right)...)
	}
	return []Expr{e}
}

func scaleTerm(coeff float64, rest Expr) Expr {
	if n, ok := rest.(*Number); ok {
		return &Number{Value: coeff * n.Value}
	}
	if coeff == 1 {
		return rest
	}
	all := append([]Expr{&Number{Value: coeff}}, productFactors(rest)...)
	return chain("*", all)
}

// simplifyProduct folds the numeric coefficient and sorts the remaining
// factors alphabetically by canonical form. The coefficient, when not 1,
// leads the product.
func simplifyProduct(e Expr) Expr {
	factors := flatten(e, "*")

	coeff := 1.0
	var rest []Expr
	for _, f := range factors {
		if n, ok := f.(*Number); ok {
			coeff *= n.Value
		} else {
			rest = append(rest, f)
		}
	}

	if coeff == 0 {
		return &Number{Value: 0}
	}
	if len(rest) == 0 {
		return &Number{Value: coeff}
	}

	sort.SliceStable(rest, func(i, j int) bool {
		return Canonical(rest[i]) < Canonical(rest[j])
	})

	if coeff == 1 {
		return chain("*", rest)
	}
	all := append([]Expr{&Number{Value: coeff}}, rest...)
	return chain("*", all)
}

func simplifyPower(e Expr) Expr {
	b := e.(*Binary)
	base := simplify(b.Left)
	exp := simplify(b.Right)

	if bn, ok := base.(*Number); ok {
		if en, ok := exp.(*Number); ok {
			if v, err := evalBinary("^", bn.Value, en.Value); err == nil {
				return &Number{Value: v}
			}
			return &Binary{Op: "^", Left: base, Right: exp}
		}
		if bn.Value == 1 {
			return &Number{Value: 1}
		}
	}
	if en, ok := exp.(*Number); ok {
		switch en.Value {
		case 0:
			return &Number{Value: 1}
		case 1:
			return base
		}
	}
	return &Binary{Op: "^", Left: base, Right: exp}
}

func simplifyCall(c *Call) Expr {
	args := make([]Expr, len(c.Args))
	allNumeric := true
	for i, a := range c.Args {
		args[i] = simplify(a)
		if _, ok := args[i].(*Number); !ok {
			allNumeric = false
		}
	}
	out := &Call{Fn: c.Fn, Args: args}
	if allNumeric && IsKnownFunc(c.Fn) && len(args) == 1 {
		if v, err := evalCall(out, nil); err == nil {
			return &Number{Value: v}
		}
	}
	return out
}

// chain rebuilds an operand list as a left-nested binary chain.
func chain(op string, operands []Expr) Expr {
	out := operands[0]
	for _, o := range operands[1:] {
		out = &Binary{Op: op, Left: out, Right: o}
	}
	return out
}

// Operator precedence for canonical printing.
func precedence(op string) int {
	switch op {
	case "+", "-":
		return 1
	case "*", "/":
		return 2
	case "^":
		return 3
	default:
		return 0
	}
}

func writeCanonical(b *strings.Builder, e Expr, parentPrec int) {
	switch v := e.(type) {
	case *Number:
		s := strconv.FormatFloat(v.Value, 'g', -1, 64)
		if v.Value < 0 && parentPrec >= 2 {
			b.WriteString("(" + s + ")")
		} else {
			b.WriteString(s)
		}

	case *Symbol:
		b.WriteString(v.Name)

	case *Unary:
		b.WriteString("-")
		writeCanonical(b, v.Operand, 4)

	case *Binary:
		prec := precedence(v.Op)
		if prec < parentPrec {
			b.WriteString("(")
		}
		// "^" is right-associative, the rest left-associative.
		if v.Op == "^" {
			writeCanonical(b, v.Left, prec+1)
			b.WriteString(v.Op)
			writeCanonical(b, v.Right, prec)
		} else {
			writeCanonical(b, v.Left, prec)
			b.WriteString(v.Op)
			writeCanonical(b, v.Right, prec+1)
		}
		if prec < parentPrec {
			b.WriteString(")")
		}

	case *Call:
		b.WriteString(v.Fn)
		b.WriteString("(")
		for i, a := range v.Args {
			if i > 0 {
				b.WriteString(",")
			}
			writeCanonical(b, a, 0)
		}
		b.WriteString(")")
	}
}
