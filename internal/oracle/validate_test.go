package oracle

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseCheckResult_Valid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want CheckResult
	}{
		{
			"full",
			`{"isCorrect":true,"derivative":"sin(x)","message":""}`,
			CheckResult{IsCorrect: true, Derivative: "sin(x)"},
		},
		{
			"minimal",
			`{"isCorrect":false}`,
			CheckResult{IsCorrect: false},
		},
		{
			"incorrect with message",
			`{"isCorrect":false,"message":"derivative mismatch"}`,
			CheckResult{IsCorrect: false, Message: "derivative mismatch"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := parseCheckResult(json.RawMessage(tc.raw))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if *res != tc.want {
				t.Errorf("got %+v, want %+v", *res, tc.want)
			}
		})
	}
}

func TestParseCheckResult_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{"isCorrect":`},
		{"missing required", `{"derivative":"sin(x)"}`},
		{"wrong type", `{"isCorrect":"yes"}`},
		{"extra property", `{"isCorrect":true,"confidence":0.9}`},
		{"array", `[true]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseCheckResult(json.RawMessage(tc.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Errorf("error type %T, want *ErrInvalidResponse", err)
			}
		})
	}
}

func TestBuildCheckPrompt(t *testing.T) {
	p := buildCheckPrompt(CheckRequest{UserAnswer: "-cos(x)", Integrand: "sin(x)"})
	for _, want := range []string{"-cos(x)", "sin(x)", "isCorrect"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
