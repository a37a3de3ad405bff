// Package oracle implements the remote "verify by differentiation"
// escalation used by the integral check when local symbolic methods are
// inconclusive.
//
// A Provider either proxies the dedicated verification service (the
// /math/verify-integral wire protocol) or asks an LLM to differentiate
// the candidate answer and compare it to the integrand. Providers are
// selected by configuration and wrapped with retry and event-logging
// middleware, so callers only ever see the Provider interface.
package oracle

import "context"

// Provider is the oracle abstraction consumed by the verifier.
type Provider interface {
	// CheckDerivative decides whether req.UserAnswer is an antiderivative
	// of req.Integrand. A returned error means the oracle could not
	// answer; the verifier maps every error to "ai_unavailable".
	CheckDerivative(ctx context.Context, req CheckRequest) (*CheckResult, error)

	// Name identifies the provider for logging, e.g. "service", "openai".
	Name() string
}

// CheckRequest is a single verification question for the oracle.
type CheckRequest struct {
	// UserAnswer is the cleaned candidate antiderivative.
	UserAnswer string `json:"userAnswer"`

	// Integrand is the cleaned function being integrated.
	Integrand string `json:"integrand"`
}

// CheckResult is the oracle's verdict.
type CheckResult struct {
	IsCorrect bool `json:"isCorrect"`

	// Message is an optional machine-readable reason code.
	Message string `json:"message,omitempty"`

	// Derivative is the oracle's computed derivative of the candidate,
	// in plain notation, when it reports one.
	Derivative string `json:"derivative,omitempty"`
}
