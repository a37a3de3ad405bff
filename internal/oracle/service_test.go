package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestServiceProvider_Success(t *testing.T) {
	var gotReq CheckRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/math/verify-integral" {
			t.Errorf("path = %s, want /math/verify-integral", r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"isCorrect":true,"derivative":"sin(x)"}}`))
	}))
	defer srv.Close()

	p, err := NewServiceProvider(ServiceConfig{BaseURL: srv.URL}, 5*time.Second)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	res, err := p.CheckDerivative(context.Background(), CheckRequest{
		UserAnswer: "-cos(x)",
		Integrand:  "sin(x)",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsCorrect {
		t.Error("expected correct result")
	}
	if res.Derivative != "sin(x)" {
		t.Errorf("derivative = %q, want sin(x)", res.Derivative)
	}
	if gotReq.UserAnswer != "-cos(x)" || gotReq.Integrand != "sin(x)" {
		t.Errorf("request body = %+v", gotReq)
	}
}

func TestServiceProvider_Incorrect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"isCorrect":false,"message":"derivative mismatch"}}`))
	}))
	defer srv.Close()

	p, _ := NewServiceProvider(ServiceConfig{BaseURL: srv.URL}, 5*time.Second)
	res, err := p.CheckDerivative(context.Background(), CheckRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsCorrect {
		t.Error("expected incorrect result")
	}
	if res.Message != "derivative mismatch" {
		t.Errorf("message = %q", res.Message)
	}
}

func TestServiceProvider_RateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p, _ := NewServiceProvider(ServiceConfig{BaseURL: srv.URL}, 5*time.Second)
	_, err := p.CheckDerivative(context.Background(), CheckRequest{})

	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %v", err)
	}
	if rl.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %v, want 7s", rl.RetryAfter)
	}
}

func TestServiceProvider_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p, _ := NewServiceProvider(ServiceConfig{BaseURL: srv.URL}, 5*time.Second)
	_, err := p.CheckDerivative(context.Background(), CheckRequest{})

	var unavail *ErrUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestServiceProvider_ReportedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	p, _ := NewServiceProvider(ServiceConfig{BaseURL: srv.URL}, 5*time.Second)
	_, err := p.CheckDerivative(context.Background(), CheckRequest{})

	var unavail *ErrUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestServiceProvider_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":`))
	}))
	defer srv.Close()

	p, _ := NewServiceProvider(ServiceConfig{BaseURL: srv.URL}, 5*time.Second)
	_, err := p.CheckDerivative(context.Background(), CheckRequest{})

	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestServiceProvider_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	p, _ := NewServiceProvider(ServiceConfig{BaseURL: srv.URL}, time.Second)
	_, err := p.CheckDerivative(context.Background(), CheckRequest{})

	var unavail *ErrUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestServiceProvider_RequiresBaseURL(t *testing.T) {
	if _, err := NewServiceProvider(ServiceConfig{}, time.Second); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}

func TestServiceProvider_TrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/math/verify-integral" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"data":{"isCorrect":true}}`))
	}))
	defer srv.Close()

	p, _ := NewServiceProvider(ServiceConfig{BaseURL: srv.URL + "/"}, time.Second)
	if _, err := p.CheckDerivative(context.Background(), CheckRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
