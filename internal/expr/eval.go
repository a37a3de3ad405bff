package expr

import (
	"fmt"
	"math"
)

// EvalErrorKind classifies evaluation failures.
type EvalErrorKind string

const (
	// ErrDomain is a domain violation: division by zero, or a negative
	// base raised to a non-integer exponent.
	ErrDomain EvalErrorKind = "domain"

	// ErrUnboundVariable means a symbol has no binding in the environment.
	ErrUnboundVariable EvalErrorKind = "unbound_variable"

	// ErrUnknownFunction means the function name is outside the vocabulary.
	ErrUnknownFunction EvalErrorKind = "unknown_function"

	// ErrNonFinite means the computation produced NaN or ±Inf. Checks must
	// treat this as a failed comparison, never as equality.
	ErrNonFinite EvalErrorKind = "non_finite"
)

// EvalError is a typed evaluation failure.
type EvalError struct {
	Kind EvalErrorKind
	Msg  string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("eval error (%s): %s", e.Kind, e.Msg)
}

func evalErr(kind EvalErrorKind, format string, args ...any) *EvalError {
	return &EvalError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Eval evaluates e under the variable bindings in env using IEEE-754 double
// arithmetic. The built-in constants pi and e are always bound; env entries
// take precedence over them.
func Eval(e Expr, env map[string]float64) (float64, error) {
	v, err := eval(e, env)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, evalErr(ErrNonFinite, "result is not finite")
	}
	return v, nil
}

func eval(e Expr, env map[string]float64) (float64, error) {
	switch v := e.(type) {
	case *Number:
		return v.Value, nil

	case *Symbol:
		if val, ok := env[v.Name]; ok {
			return val, nil
		}
		if val, ok := constants[v.Name]; ok {
			return val, nil
		}
		return 0, evalErr(ErrUnboundVariable, "unbound variable %q", v.Name)

	case *Unary:
		operand, err := eval(v.Operand, env)
		if err != nil {
			return 0, err
		}
		return -operand, nil

	case *Binary:
		left, err := eval(v.Left, env)
		if err != nil {
			return 0, err
		}
		right, err := eval(v.Right, env)
		if err != nil {
			return 0, err
		}
		return evalBinary(v.Op, left, right)

	case *Call:
		return evalCall(v, env)

	default:
		return 0, evalErr(ErrDomain, "unknown expression node %T", e)
	}
}

func evalBinary(op string, left, right float64) (float64, error) {
	switch op {
	case "+":
		return left + right, nil
	case "-":
		return left - right, nil
	case "*":
		return left * right, nil
	case "/":
		if right == 0 {
			return 0, evalErr(ErrDomain, "division by zero")
		}
		return left / right, nil
	case "^":
		if left < 0 && right != math.Trunc(right) {
			return 0, evalErr(ErrDomain, "negative base with non-integer exponent")
		}
		return math.Pow(left, right), nil
	default:
		return 0, evalErr(ErrDomain, "unknown operator %q", op)
	}
}

func evalCall(c *Call, env map[string]float64) (float64, error) {
	if !IsKnownFunc(c.Fn) {
		return 0, evalErr(ErrUnknownFunction, "unknown function %q", c.Fn)
	}
	if len(c.Args) != 1 {
		return 0, evalErr(ErrDomain, "%s expects 1 argument, got %d", c.Fn, len(c.Args))
	}
	arg, err := eval(c.Args[0], env)
	if err != nil {
		return 0, err
	}

	switch c.Fn {
	case "sqrt":
		if arg < 0 {
			return 0, evalErr(ErrDomain, "sqrt of negative value")
		}
		return math.Sqrt(arg), nil
	case "sin":
		return math.Sin(arg), nil
	case "cos":
		return math.Cos(arg), nil
	case "tan":
		return math.Tan(arg), nil
	case "exp":
		return math.Exp(arg), nil
	case "ln":
		if arg <= 0 {
			return 0, evalErr(ErrDomain, "ln of non-positive value")
		}
		return math.Log(arg), nil
	case "abs":
		return math.Abs(arg), nil
	default:
		return 0, evalErr(ErrUnknownFunction, "unknown function %q", c.Fn)
	}
}

// EvalConstant evaluates an expression that contains no free variables.
func EvalConstant(e Expr) (float64, error) {
	return Eval(e, nil)
}
