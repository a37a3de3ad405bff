package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ServiceProvider talks to the dedicated verification service.
//
// Wire protocol: POST {base}/math/verify-integral with body
// {"userAnswer": ..., "integrand": ...}; the service answers
// {"success": bool, "data": {"isCorrect": bool, "message"?, "derivative"?}}.
// Any non-success response or transport failure is ErrUnavailable.
type ServiceProvider struct {
	baseURL string
	client  *http.Client
}

// NewServiceProvider creates a provider for the service at cfg.BaseURL.
func NewServiceProvider(cfg ServiceConfig, timeout time.Duration) (*ServiceProvider, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("oracle service base URL is required")
	}
	return &ServiceProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}, nil
}

type serviceResponse struct {
	Success bool `json:"success"`
	Data    *struct {
		IsCorrect  bool   `json:"isCorrect"`
		Message    string `json:"message"`
		Derivative string `json:"derivative"`
	} `json:"data"`
}

func (p *ServiceProvider) CheckDerivative(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &ErrUnavailable{Err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/math/verify-integral", bytes.NewReader(body))
	if err != nil {
		return nil, &ErrUnavailable{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &ErrUnavailable{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &ErrRateLimit{RetryAfter: retryAfter(resp), Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ErrUnavailable{Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ErrUnavailable{Err: fmt.Errorf("read response: %w", err)}
	}

	var sr serviceResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return nil, &ErrInvalidResponse{Content: raw, Err: err}
	}
	if !sr.Success || sr.Data == nil {
		return nil, &ErrUnavailable{Err: fmt.Errorf("service reported failure")}
	}

	return &CheckResult{
		IsCorrect:  sr.Data.IsCorrect,
		Message:    sr.Data.Message,
		Derivative: sr.Data.Derivative,
	}, nil
}

func (p *ServiceProvider) Name() string { return "service" }

// retryAfter parses the Retry-After header, in seconds, when present.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	var secs int
	if _, err := fmt.Sscanf(h, "%d", &secs); err != nil {
		return 0
	}
	return time.Duration(secs) * time.Second
}
