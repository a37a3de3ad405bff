package expr

import (
	"errors"
	"testing"
)

func mustParse(t *testing.T, s string) Expr {
	t.Helper()
	e, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return e
}

func TestParse_Precedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1+2*3", "1+2*3"},
		{"(1+2)*3", "(1+2)*3"},
		{"2*x+1", "2*x+1"},
		{"a-b-c", "a-b-c"},
		{"a/b/c", "a/b/c"},
		{"x^2+1", "x^2+1"},
		{"2^3^2", "2^3^2"},
		{"-x^2", "-(x^2)"},
		{"sin(x)*cos(x)", "sin(x)*cos(x)"},
		{"sqrt(x+1)", "sqrt(x+1)"},
	}

	for _, tc := range tests {
		got := Canonical(mustParse(t, tc.input))
		if got != tc.want {
			t.Errorf("Parse(%q) canonical = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParse_RightAssociativePower(t *testing.T) {
	// 2^3^2 must parse as 2^(3^2) = 2^9 = 512.
	e := mustParse(t, "2^3^2")
	v, err := EvalConstant(e)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v != 512 {
		t.Errorf("2^3^2 = %v, want 512", v)
	}
}

func TestParse_NegativeExponent(t *testing.T) {
	e := mustParse(t, "2^-1")
	v, err := EvalConstant(e)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v != 0.5 {
		t.Errorf("2^-1 = %v, want 0.5", v)
	}
}

func TestParse_UnaryMinus(t *testing.T) {
	e := mustParse(t, "--3")
	v, err := EvalConstant(e)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v != 3 {
		t.Errorf("--3 = %v, want 3", v)
	}
}

func TestParse_CaseInsensitiveNames(t *testing.T) {
	e := mustParse(t, "SIN(X)")
	c, ok := e.(*Call)
	if !ok {
		t.Fatalf("expected *Call, got %T", e)
	}
	if c.Fn != "sin" {
		t.Errorf("Fn = %q, want %q", c.Fn, "sin")
	}
	if s, ok := c.Args[0].(*Symbol); !ok || s.Name != "x" {
		t.Errorf("arg = %#v, want symbol x", c.Args[0])
	}
}

func TestParse_Errors(t *testing.T) {
	inputs := []string{
		"",
		"2x",
		"1+",
		"(1+2",
		"1+*2",
		"2..5",
		".",
		"sin(x",
		"1)",
	}

	for _, s := range inputs {
		_, err := Parse(s)
		if err == nil {
			t.Errorf("Parse(%q): expected error", s)
			continue
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("Parse(%q): error type %T, want *ParseError", s, err)
		}
	}
}

func TestParse_NoJuxtaposition(t *testing.T) {
	// Implicit multiplication is rejected; the normalizer is responsible
	// for producing explicit operators.
	if _, err := Parse("2x"); err == nil {
		t.Fatal("Parse(\"2x\"): expected error")
	}
}

func TestFreeSymbols(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"x+y*x", []string{"x", "y"}},
		{"pi*r^2", []string{"r"}},
		{"e^x", []string{"x"}},
		{"sin(a)+cos(b)", []string{"a", "b"}},
		{"3+4", nil},
	}

	for _, tc := range tests {
		got := FreeSymbols(mustParse(t, tc.input))
		if len(got) != len(tc.want) {
			t.Errorf("FreeSymbols(%q) = %v, want %v", tc.input, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("FreeSymbols(%q) = %v, want %v", tc.input, got, tc.want)
				break
			}
		}
	}
}
