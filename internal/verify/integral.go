package verify

import (
	"context"

	"github.com/abhisek/mathjudge/internal/expr"
	"github.com/abhisek/mathjudge/internal/oracle"
)

// checkIntegral verifies a candidate antiderivative F against the
// integrand f by computing F' locally and comparing it to f, first by
// canonical form and then by deterministic sampling. When the local rule
// set cannot differentiate F, or the comparison is inconclusive, the call
// escalates to the remote oracle. Oracle failure of any kind degrades to
// an incorrect result with the ai_unavailable reason; it never surfaces
// as an error.
func (v *Verifier) checkIntegral(ctx context.Context, rawUser, user, integrand string) Result {
	cleanIntegrand := Clean(integrand)
	if cleanIntegrand == "" {
		return Result{Correct: false, Method: MethodSymbolic, Message: MsgMissingIntegrand}
	}

	details := &Details{
		UserAnswer:     rawUser,
		NormalizedUser: user,
		ExpectedAnswer: cleanIntegrand,
	}

	f, err := expr.Parse(user)
	if err != nil {
		return v.escalate(ctx, user, cleanIntegrand, details)
	}
	g, err := expr.Parse(cleanIntegrand)
	if err != nil {
		return v.escalate(ctx, user, cleanIntegrand, details)
	}

	variable := integrationVariable(f)

	df, err := expr.Derivative(f, variable)
	if err != nil {
		// Rule set exhausted; the designed trigger for the oracle.
		return v.escalate(ctx, user, cleanIntegrand, details)
	}
	details.Derivative = expr.Canonical(expr.Simplify(df))

	if details.Derivative == expr.Canonical(expr.Simplify(g)) {
		return Result{Correct: true, Method: MethodSymbolic, Details: details}
	}

	if derivativeSamplesAgree(df, g, variable) {
		return Result{Correct: true, Method: MethodSymbolic, Details: details}
	}

	return v.escalate(ctx, user, cleanIntegrand, details)
}

// integrationVariable picks the differentiation variable: x when present
// among F's free variables, otherwise the first free variable in
// left-to-right order, defaulting to x.
func integrationVariable(f expr.Expr) string {
	free := expr.FreeSymbols(f)
	for _, name := range free {
		if name == "x" {
			return "x"
		}
	}
	if len(free) > 0 {
		return free[0]
	}
	return "x"
}

// derivativeSamplesAgree samples the single variable over the fixed
// scalars and compares F' with f pointwise, skipping values where either
// side fails to evaluate.
func derivativeSamplesAgree(df, g expr.Expr, variable string) bool {
	succeeded := 0
	for _, val := range sampleScalars {
		env := map[string]float64{variable: val}
		dv, err := expr.Eval(df, env)
		if err != nil {
			continue
		}
		gv, err := expr.Eval(g, env)
		if err != nil {
			continue
		}
		if !withinTolerance(dv, gv, samplingTol) {
			return false
		}
		succeeded++
	}
	return succeeded > 0
}

// escalate asks the remote oracle to verify by differentiation. The
// transport never propagates: any failure becomes ai_unavailable.
func (v *Verifier) escalate(ctx context.Context, user, integrand string, details *Details) Result {
	if v.Oracle == nil {
		return Result{Correct: false, Method: MethodAiDerivative, Message: MsgAiUnavailable, Details: details}
	}

	res, err := v.Oracle.CheckDerivative(ctx, oracle.CheckRequest{
		UserAnswer: user,
		Integrand:  integrand,
	})
	if err != nil || res == nil {
		return Result{Correct: false, Method: MethodAiDerivative, Message: MsgAiUnavailable, Details: details}
	}

	if res.Derivative != "" {
		details.Derivative = res.Derivative
	}
	out := Result{Correct: res.IsCorrect, Method: MethodAiDerivative, Details: details}
	if !res.IsCorrect {
		out.Message = MsgIncorrect
		if res.Message != "" {
			out.Message = res.Message
		}
	}
	return out
}
