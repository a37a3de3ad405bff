// Package verify implements the answer-verification engine: it decides
// whether a participant's free-form answer is equivalent to the expected
// answer for a given question type.
//
// All local computation is pure and deterministic; a Verifier holds no
// mutable state, so any number of Verify calls may run concurrently. The
// only suspension point is the remote-oracle escalation on the integral
// path, which is bounded by the caller's context.
package verify

import (
	"context"
	"math"
	"sort"

	"github.com/abhisek/mathjudge/internal/expr"
	"github.com/abhisek/mathjudge/internal/oracle"
)

// Tolerances and sample assignments are fixed so results are reproducible.
const (
	numericTol  = 1e-9
	samplingTol = 1e-6
)

// sampleScalars are the base values used for deterministic sampling when
// symbolic canonical forms disagree.
var sampleScalars = [5]float64{1, 2, 0.5, -1, 3.14159}

// Verifier checks answers. The zero value works for everything except the
// integral path's oracle escalation; set Oracle to enable it.
type Verifier struct {
	// Oracle is consulted when local integral checking is inconclusive.
	// A nil Oracle behaves like an unavailable one.
	Oracle oracle.Provider
}

// New returns a Verifier escalating to the given oracle provider.
func New(p oracle.Provider) *Verifier {
	return &Verifier{Oracle: p}
}

// Verify decides whether userAnswer is an acceptable answer.
//
// For Integral questions, integrand carries the function being integrated
// and correctAnswer is ignored; for every other type integrand is ignored.
// Verify never returns an error: all internal failures fold into an
// incorrect Result with a reason code.
func (v *Verifier) Verify(ctx context.Context, userAnswer, correctAnswer string, qt QuestionType, integrand string) Result {
	user := Clean(userAnswer)
	expected := Clean(correctAnswer)

	// The empty check precedes everything and applies to all types.
	if user == "" {
		return Result{Correct: false, Method: MethodExact, Message: MsgEmptyAnswer}
	}

	switch qt {
	case Choice:
		return checkChoice(user, expected)
	case Integral:
		return v.checkIntegral(ctx, userAnswer, user, integrand)
	default:
		return checkExpression(userAnswer, correctAnswer, user, expected)
	}
}

// checkChoice compares the sets of option letters, ignoring order, so
// "ba" and "ab" are the same multi-select answer.
func checkChoice(user, expected string) Result {
	if letterSet(user) == letterSet(expected) {
		return Result{Correct: true, Method: MethodExact}
	}
	return Result{Correct: false, Method: MethodExact, Message: MsgIncorrect}
}

// letterSet extracts the distinct letters of s in sorted order.
func letterSet(s string) string {
	seen := map[rune]bool{}
	var letters []rune
	for _, r := range s {
		if r >= 'a' && r <= 'z' && !seen[r] {
			seen[r] = true
			letters = append(letters, r)
		}
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
	return string(letters)
}

// checkExpression runs the Blank/Answer pipeline: exact, then numeric,
// then symbolic, short-circuiting on the first success.
func checkExpression(rawUser, rawExpected, user, expected string) Result {
	details := &Details{
		UserAnswer:         rawUser,
		ExpectedAnswer:     rawExpected,
		NormalizedUser:     user,
		NormalizedExpected: expected,
	}

	if user == expected {
		return Result{Correct: true, Method: MethodExact, Details: details}
	}

	if ok, conclusive := checkNumeric(user, expected); conclusive && ok {
		return Result{Correct: true, Method: MethodNumeric, Details: details}
	}

	if checkSymbolic(user, expected) {
		return Result{Correct: true, Method: MethodSymbolic, Details: details}
	}

	return Result{Correct: false, Method: MethodSymbolic, Message: MsgIncorrect, Details: details}
}

// checkNumeric evaluates both sides as pure numeric expressions. The
// second return is false when either side fails to parse or evaluate, in
// which case the strategy is skipped rather than failed.
func checkNumeric(user, expected string) (equal, conclusive bool) {
	ue, err := expr.Parse(user)
	if err != nil {
		return false, false
	}
	ee, err := expr.Parse(expected)
	if err != nil {
		return false, false
	}
	uv, err := expr.EvalConstant(ue)
	if err != nil {
		return false, false
	}
	ev, err := expr.EvalConstant(ee)
	if err != nil {
		return false, false
	}
	return withinTolerance(uv, ev, numericTol), true
}

// withinTolerance reports |a-b| < tol absolutely, or relative to b with a
// floor of 1 on the denominator.
func withinTolerance(a, b, tol float64) bool {
	diff := math.Abs(a - b)
	if diff < tol {
		return true
	}
	return diff/math.Max(math.Abs(b), 1) < tol
}

// checkSymbolic compares canonical simplified forms, falling back to
// deterministic sampling over the union of free variables.
func checkSymbolic(user, expected string) bool {
	ue, err := expr.Parse(user)
	if err != nil {
		return false
	}
	ee, err := expr.Parse(expected)
	if err != nil {
		return false
	}

	if expr.Canonical(expr.Simplify(ue)) == expr.Canonical(expr.Simplify(ee)) {
		return true
	}

	vars := expr.FreeSymbolUnion(ue, ee)
	if len(vars) == 0 {
		return false
	}

	return sampledEqual(ue, ee, vars)
}

// sampledEqual evaluates both expressions under the fixed assignments,
// skipping assignments that fail on either side. Equality holds when at
// least one assignment evaluated and every evaluated assignment agreed.
//
// Note a single evaluable assignment out of five is accepted; this
// mirrors the established product behavior and is deliberately not
// tightened here.
func sampledEqual(a, b expr.Expr, vars []string) bool {
	succeeded := 0
	for _, base := range sampleScalars {
		env := make(map[string]float64, len(vars))
		for i, name := range vars {
			env[name] = base * float64(i+1)
		}
		av, err := expr.Eval(a, env)
		if err != nil {
			continue
		}
		bv, err := expr.Eval(b, env)
		if err != nil {
			continue
		}
		if !withinTolerance(av, bv, samplingTol) {
			return false
		}
		succeeded++
	}
	return succeeded > 0
}
