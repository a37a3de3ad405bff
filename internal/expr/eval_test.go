package expr

import (
	"errors"
	"math"
	"testing"
)

func TestEval_Arithmetic(t *testing.T) {
	tests := []struct {
		input string
		env   map[string]float64
		want  float64
	}{
		{"1+2*3", nil, 7},
		{"(1+2)*3", nil, 9},
		{"10-4-3", nil, 3},
		{"8/2/2", nil, 2},
		{"2^10", nil, 1024},
		{"2^-2", nil, 0.25},
		{"-3+5", nil, 2},
		{"2*x+1", map[string]float64{"x": 3}, 7},
		{"x^2+y^2", map[string]float64{"x": 3, "y": 4}, 25},
		{"abs(-5)", nil, 5},
		{"sqrt(16)", nil, 4},
		{"exp(0)", nil, 1},
		{"ln(1)", nil, 0},
	}

	for _, tc := range tests {
		got, err := Eval(mustParse(t, tc.input), tc.env)
		if err != nil {
			t.Errorf("Eval(%q): %v", tc.input, err)
			continue
		}
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("Eval(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestEval_Constants(t *testing.T) {
	got, err := Eval(mustParse(t, "sin(pi)"), nil)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if math.Abs(got) > 1e-12 {
		t.Errorf("sin(pi) = %v, want ~0", got)
	}

	got, err = Eval(mustParse(t, "ln(e)"), nil)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if math.Abs(got-1) > 1e-12 {
		t.Errorf("ln(e) = %v, want ~1", got)
	}
}

func TestEval_EnvShadowsConstants(t *testing.T) {
	got, err := Eval(mustParse(t, "e+1"), map[string]float64{"e": 10})
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != 11 {
		t.Errorf("e+1 with e=10 gave %v, want 11", got)
	}
}

func TestEval_ErrorKinds(t *testing.T) {
	tests := []struct {
		input string
		env   map[string]float64
		kind  EvalErrorKind
	}{
		{"1/0", nil, ErrDomain},
		{"x/(x-x)", map[string]float64{"x": 2}, ErrDomain},
		{"(-2)^0.5", nil, ErrDomain},
		{"sqrt(-1)", nil, ErrDomain},
		{"ln(0)", nil, ErrDomain},
		{"ln(-3)", nil, ErrDomain},
		{"x+1", nil, ErrUnboundVariable},
		{"foo(2)", nil, ErrUnknownFunction},
	}

	for _, tc := range tests {
		_, err := Eval(mustParse(t, tc.input), tc.env)
		if err == nil {
			t.Errorf("Eval(%q): expected error", tc.input)
			continue
		}
		var ee *EvalError
		if !errors.As(err, &ee) {
			t.Errorf("Eval(%q): error type %T, want *EvalError", tc.input, err)
			continue
		}
		if ee.Kind != tc.kind {
			t.Errorf("Eval(%q): kind = %q, want %q", tc.input, ee.Kind, tc.kind)
		}
	}
}

func TestEval_NonFinite(t *testing.T) {
	// 10^400 overflows to +Inf, which must surface as an error rather
	// than comparing equal to anything.
	_, err := Eval(mustParse(t, "10^400"), nil)
	var ee *EvalError
	if !errors.As(err, &ee) || ee.Kind != ErrNonFinite {
		t.Fatalf("10^400: got %v, want ErrNonFinite", err)
	}
}
