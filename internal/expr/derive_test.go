package expr

import (
	"errors"
	"math"
	"testing"
)

func derivCanon(t *testing.T, s, v string) string {
	t.Helper()
	d, err := Derivative(mustParse(t, s), v)
	if err != nil {
		t.Fatalf("Derivative(%q, %q): %v", s, v, err)
	}
	return Canonical(Simplify(d))
}

func TestDerivative_Canonical(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"5", "0"},
		{"x", "1"},
		{"y", "0"},
		{"3*x", "3"},
		{"x^2", "2*x"},
		{"x^3+x", "3*x^2+1"},
		{"e^x", "e^x"},
		{"exp(x)", "exp(x)"},
		{"sin(x)", "cos(x)"},
		{"ln(x)", "x^(-1)"},
	}

	for _, tc := range tests {
		got := derivCanon(t, tc.input, "x")
		if got != tc.want {
			t.Errorf("d/dx %q = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestDerivative_AntiderivativeOfSin(t *testing.T) {
	// d/dx (-cos(x)+7) must reduce exactly to sin(x) so the integral
	// check succeeds without sampling.
	got := derivCanon(t, "-cos(x)+7", "x")
	want := canon(t, "sin(x)")
	if got != want {
		t.Errorf("d/dx(-cos(x)+7) = %q, want %q", got, want)
	}
}

func TestDerivative_ProductRule(t *testing.T) {
	// d/dx x*sin(x) = sin(x) + x*cos(x); verify numerically at a few
	// points instead of pinning the canonical spelling.
	d, err := Derivative(mustParse(t, "x*sin(x)"), "x")
	if err != nil {
		t.Fatalf("derivative: %v", err)
	}
	want := mustParse(t, "sin(x)+x*cos(x)")
	for _, x := range []float64{0.5, 1, 2, -1} {
		env := map[string]float64{"x": x}
		got, err := Eval(d, env)
		if err != nil {
			t.Fatalf("eval derivative at %v: %v", x, err)
		}
		expect, err := Eval(want, env)
		if err != nil {
			t.Fatalf("eval reference at %v: %v", x, err)
		}
		if diff := got - expect; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("at x=%v: got %v, want %v", x, got, expect)
		}
	}
}

func TestDerivative_QuotientRule(t *testing.T) {
	d, err := Derivative(mustParse(t, "x/(x+1)"), "x")
	if err != nil {
		t.Fatalf("derivative: %v", err)
	}
	// 1/(x+1)^2
	for _, x := range []float64{0.5, 1, 2} {
		got, err := Eval(d, map[string]float64{"x": x})
		if err != nil {
			t.Fatalf("eval at %v: %v", x, err)
		}
		expect := 1 / ((x + 1) * (x + 1))
		if diff := got - expect; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("at x=%v: got %v, want %v", x, got, expect)
		}
	}
}

func TestDerivative_ChainRule(t *testing.T) {
	tests := []struct {
		input string
		at    float64
		want  func(x float64) float64
	}{
		{"sin(x^2)", 1.5, func(x float64) float64 { return 2 * x * math.Cos(x*x) }},
		{"sqrt(x^2+1)", 2, func(x float64) float64 { return x / math.Sqrt(x*x+1) }},
		{"2^x", 3, func(x float64) float64 { return math.Pow(2, x) * math.Log(2) }},
	}

	for _, tc := range tests {
		d, err := Derivative(mustParse(t, tc.input), "x")
		if err != nil {
			t.Errorf("Derivative(%q): %v", tc.input, err)
			continue
		}
		got, err := Eval(d, map[string]float64{"x": tc.at})
		if err != nil {
			t.Errorf("eval d/dx %q at %v: %v", tc.input, tc.at, err)
			continue
		}
		want := tc.want(tc.at)
		if diff := got - want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("d/dx %q at %v = %v, want %v", tc.input, tc.at, got, want)
		}
	}
}

func TestDerivative_Unsupported(t *testing.T) {
	inputs := []string{
		"x^x",
		"abs(x)",
		"foo(x)",
	}

	for _, s := range inputs {
		_, err := Derivative(mustParse(t, s), "x")
		if err == nil {
			t.Errorf("Derivative(%q): expected error", s)
			continue
		}
		var ue *UnsupportedError
		if !errors.As(err, &ue) {
			t.Errorf("Derivative(%q): error type %T, want *UnsupportedError", s, err)
		}
	}
}
