package oracle

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/abhisek/mathjudge/internal/store"
)

// LoggingProvider is a decorator that records every oracle call as an event.
type LoggingProvider struct {
	inner Provider
	repo  store.EventRepo
}

// WithLogging wraps a Provider with event logging. A nil repo disables
// recording and returns the provider unchanged.
func WithLogging(p Provider, repo store.EventRepo) Provider {
	if repo == nil {
		return p
	}
	return &LoggingProvider{inner: p, repo: repo}
}

func (l *LoggingProvider) CheckDerivative(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	start := time.Now()

	res, err := l.inner.CheckDerivative(ctx, req)

	data := store.OracleEventData{
		Provider:   l.inner.Name(),
		UserAnswer: req.UserAnswer,
		Integrand:  req.Integrand,
		LatencyMs:  time.Since(start).Milliseconds(),
		Success:    err == nil,
	}
	if res != nil {
		data.IsCorrect = res.IsCorrect
		data.Derivative = res.Derivative
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// Log the event but don't fail the request if logging fails.
	if logErr := l.repo.AppendOracle(ctx, data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log oracle event: %v\n", logErr)
	}

	return res, err
}

func (l *LoggingProvider) Name() string {
	return l.inner.Name()
}
