package oracle

import (
	"encoding/json"
	"fmt"
)

// The LLM-backed providers all ask the same question and expect the same
// structured answer; only the SDK plumbing differs per provider.

const checkSystemPrompt = `You are a precise calculus grader. You verify whether a candidate ` +
	`antiderivative is correct by differentiating it and comparing the result ` +
	`to the given integrand. Expressions use plain notation: operators + - * / ^, ` +
	`functions sqrt, sin, cos, tan, exp, ln, abs, constants pi and e. ` +
	`Additive integration constants must be ignored. Respond with JSON only.`

// checkResultSchemaName identifies the response schema for caching and for
// providers that name their structured output.
const checkResultSchemaName = "derivative-check"

// checkResultSchema is the JSON Schema the oracle response must satisfy.
var checkResultSchema = map[string]any{
	"type":        "object",
	"description": "Verdict on whether a candidate antiderivative matches an integrand.",
	"properties": map[string]any{
		"isCorrect": map[string]any{
			"type":        "boolean",
			"description": "True when d/dx of the candidate equals the integrand.",
		},
		"derivative": map[string]any{
			"type":        "string",
			"description": "The computed derivative of the candidate, plain notation.",
		},
		"message": map[string]any{
			"type":        "string",
			"description": "Short reason code when incorrect.",
		},
	},
	"required":             []any{"isCorrect"},
	"additionalProperties": false,
}

// buildCheckPrompt renders the user message for one verification request.
func buildCheckPrompt(req CheckRequest) string {
	return fmt.Sprintf(`Differentiate the candidate answer and decide whether it is an antiderivative of the integrand.

Candidate answer: %s
Integrand: %s

Return JSON: {"isCorrect": bool, "derivative": "...", "message": "..."}`,
		req.UserAnswer, req.Integrand)
}

// parseCheckResult validates raw LLM output against the response schema
// and decodes it.
func parseCheckResult(raw json.RawMessage) (*CheckResult, error) {
	if err := validateCheckResponse(raw); err != nil {
		return nil, err
	}
	var res CheckResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, &ErrInvalidResponse{Content: raw, Err: err}
	}
	return &res, nil
}
