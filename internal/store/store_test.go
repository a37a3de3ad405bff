package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendVerification(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendVerification(ctx, VerificationEventData{
		QuestionType: "blank",
		Method:       "numeric",
		Correct:      true,
		LatencyMs:    3,
	})
	require.NoError(t, err)

	events, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "blank", events[0].QuestionType)
	assert.Equal(t, "numeric", events[0].Method)
	assert.True(t, events[0].Correct)
	assert.NotEmpty(t, events[0].ID)
	assert.False(t, events[0].CreatedAt.IsZero())
}

func TestAppendOracle(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendOracle(ctx, OracleEventData{
		Provider:   "service",
		UserAnswer: "-cos(x)",
		Integrand:  "sin(x)",
		Derivative: "sin(x)",
		IsCorrect:  true,
		Success:    true,
		LatencyMs:  120,
	})
	require.NoError(t, err)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.OracleCalls)
	assert.Equal(t, int64(0), stats.OracleFails)
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	fixtures := []VerificationEventData{
		{QuestionType: "blank", Method: "exact", Correct: true},
		{QuestionType: "blank", Method: "numeric", Correct: true},
		{QuestionType: "answer", Method: "numeric", Correct: false},
		{QuestionType: "integral", Method: "symbolic", Correct: true},
	}
	for _, f := range fixtures {
		require.NoError(t, repo.AppendVerification(ctx, f))
	}
	require.NoError(t, repo.AppendOracle(ctx, OracleEventData{
		Provider: "service", Success: false, ErrorMessage: "timeout",
	}))

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(3), stats.Correct)
	assert.Equal(t, int64(2), stats.ByMethod["numeric"])
	assert.Equal(t, int64(1), stats.ByMethod["exact"])
	assert.Equal(t, int64(1), stats.ByMethod["symbolic"])
	assert.Equal(t, int64(1), stats.OracleCalls)
	assert.Equal(t, int64(1), stats.OracleFails)
}

func TestRecentLimit(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.AppendVerification(ctx, VerificationEventData{
			QuestionType: "blank", Method: "exact", Correct: true,
		}))
	}

	events, err := repo.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestDefaultDBPathEnvOverride(t *testing.T) {
	t.Setenv("MATHJUDGE_DB", "/tmp/custom.db")
	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", p)
}

func TestDefaultDBPathXDG(t *testing.T) {
	t.Setenv("MATHJUDGE_DB", "")
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "mathjudge", "mathjudge.db"), p)
}
