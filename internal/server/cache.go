package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/mathjudge/internal/verify"
)

// ResultCache memoizes verification results in redis. Verification is
// deterministic for a fixed input (modulo oracle availability), so the
// key is a digest of the four request fields. Any redis error falls
// through to recomputation.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewResultCache creates a cache with the given TTL.
func NewResultCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ResultCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResultCache{client: client, ttl: ttl, logger: logger}
}

func cacheKey(req VerifyRequest) string {
	h := sha256.New()
	for _, part := range []string{req.UserAnswer, req.CorrectAnswer, req.QuestionType, req.Integrand} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return "verify:" + hex.EncodeToString(h.Sum(nil))
}

// Get returns a cached result if present.
func (c *ResultCache) Get(ctx context.Context, req VerifyRequest) (verify.Result, bool) {
	data, err := c.client.Get(ctx, cacheKey(req)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache get", "error", err)
		}
		return verify.Result{}, false
	}
	var res verify.Result
	if err := json.Unmarshal([]byte(data), &res); err != nil {
		return verify.Result{}, false
	}
	return res, true
}

// Set stores a result. Oracle-unavailable results are not cached so a
// recovered oracle is retried on the next identical request.
func (c *ResultCache) Set(ctx context.Context, req VerifyRequest, res verify.Result) {
	if res.Message == verify.MsgAiUnavailable {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(req), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set", "error", err)
	}
}
