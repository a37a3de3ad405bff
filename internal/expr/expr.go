// Package expr implements the symbolic expression engine used by answer
// verification: parsing, numeric evaluation, canonical simplification, and
// single-variable differentiation.
//
// The function vocabulary is deliberately small (sqrt, sin, cos, tan, exp,
// ln, abs plus the constants pi and e). Anything outside it is rejected with
// a typed error so callers can treat the check as inconclusive instead of
// failing the whole verification.
package expr

import "sort"

// Expr is the interface implemented by all AST nodes.
// Expressions are immutable once constructed; traversal is read-only.
type Expr interface {
	isExpr()
}

// Number is a floating-point literal.
type Number struct {
	Value float64
}

// Symbol is a named variable or constant (pi, e).
type Symbol struct {
	Name string
}

// Binary is a binary operation. Op is one of "+", "-", "*", "/", "^".
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
}

// Unary is a unary operation. Op is always "-".
type Unary struct {
	Op      string
	Operand Expr
}

// Call is a function application, e.g. sin(x).
type Call struct {
	Fn   string
	Args []Expr
}

func (*Number) isExpr() {}
func (*Symbol) isExpr() {}
func (*Binary) isExpr() {}
func (*Unary) isExpr()  {}
func (*Call) isExpr()   {}

// constants maps the built-in named constants to their values.
var constants = map[string]float64{
	"pi": 3.141592653589793,
	"e":  2.718281828459045,
}

// IsConstant reports whether name is a built-in constant rather than a
// free variable.
func IsConstant(name string) bool {
	_, ok := constants[name]
	return ok
}

// knownFuncs is the supported function vocabulary.
var knownFuncs = map[string]bool{
	"sqrt": true,
	"sin":  true,
	"cos":  true,
	"tan":  true,
	"exp":  true,
	"ln":   true,
	"abs":  true,
}

// IsKnownFunc reports whether name is in the supported function vocabulary.
func IsKnownFunc(name string) bool {
	return knownFuncs[name]
}

// FreeSymbols returns the free variable names of e in first-seen,
// left-to-right order. Built-in constants are not free variables.
func FreeSymbols(e Expr) []string {
	var names []string
	seen := map[string]bool{}
	var walk func(Expr)
	walk = func(e Expr) {
		switch v := e.(type) {
		case *Symbol:
			if !IsConstant(v.Name) && !seen[v.Name] {
				seen[v.Name] = true
				names = append(names, v.Name)
			}
		case *Binary:
			walk(v.Left)
			walk(v.Right)
		case *Unary:
			walk(v.Operand)
		case *Call:
			for _, a := range v.Args {
				walk(a)
			}
		}
	}
	walk(e)
	return names
}

// FreeSymbolUnion returns the sorted union of the free variables of the
// given expressions.
func FreeSymbolUnion(exprs ...Expr) []string {
	seen := map[string]bool{}
	var names []string
	for _, e := range exprs {
		for _, n := range FreeSymbols(e) {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)
	return names
}
