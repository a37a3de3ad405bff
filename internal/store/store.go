// Package store provides the optional append-only event log of
// verification and oracle calls. The verification engine itself never
// requires it; callers pass a nil EventRepo to disable recording.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// VerificationEvent records one verification call.
type VerificationEvent struct {
	ID           string `gorm:"primaryKey"`
	CreatedAt    time.Time
	QuestionType string `gorm:"index"`
	Method       string `gorm:"index"`
	Correct      bool
	Message      string
	LatencyMs    int64
}

// OracleEvent records one remote-oracle call.
type OracleEvent struct {
	ID           string `gorm:"primaryKey"`
	CreatedAt    time.Time
	Provider     string `gorm:"index"`
	UserAnswer   string
	Integrand    string
	Derivative   string
	IsCorrect    bool
	Success      bool
	LatencyMs    int64
	ErrorMessage string
}

// VerificationEventData is the payload for AppendVerification.
type VerificationEventData struct {
	QuestionType string
	Method       string
	Correct      bool
	Message      string
	LatencyMs    int64
}

// OracleEventData is the payload for AppendOracle.
type OracleEventData struct {
	Provider     string
	UserAnswer   string
	Integrand    string
	Derivative   string
	IsCorrect    bool
	Success      bool
	LatencyMs    int64
	ErrorMessage string
}

// Stats aggregates the verification log.
type Stats struct {
	Total       int64
	Correct     int64
	ByMethod    map[string]int64
	OracleCalls int64
	OracleFails int64
}

// EventRepo is the event-log interface consumed by the rest of the system.
type EventRepo interface {
	AppendVerification(ctx context.Context, data VerificationEventData) error
	AppendOracle(ctx context.Context, data OracleEventData) error
	Stats(ctx context.Context) (*Stats, error)
	Recent(ctx context.Context, n int) ([]VerificationEvent, error)
}

// Store holds the database handle and provides access to the event log.
type Store struct {
	db *gorm.DB
}

// Open creates a new Store connected to the SQLite database at path.
// It creates the parent directory if needed and runs auto-migration.
func Open(path string) (*Store, error) {
	if err := ensureDir(path); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&VerificationEvent{}, &OracleEvent{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// EventRepo returns the event log backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db}
}

type eventRepo struct {
	db *gorm.DB
}

func (r *eventRepo) AppendVerification(ctx context.Context, data VerificationEventData) error {
	ev := VerificationEvent{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now(),
		QuestionType: data.QuestionType,
		Method:       data.Method,
		Correct:      data.Correct,
		Message:      data.Message,
		LatencyMs:    data.LatencyMs,
	}
	return r.db.WithContext(ctx).Create(&ev).Error
}

func (r *eventRepo) AppendOracle(ctx context.Context, data OracleEventData) error {
	ev := OracleEvent{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now(),
		Provider:     data.Provider,
		UserAnswer:   data.UserAnswer,
		Integrand:    data.Integrand,
		Derivative:   data.Derivative,
		IsCorrect:    data.IsCorrect,
		Success:      data.Success,
		LatencyMs:    data.LatencyMs,
		ErrorMessage: data.ErrorMessage,
	}
	return r.db.WithContext(ctx).Create(&ev).Error
}

func (r *eventRepo) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByMethod: map[string]int64{}}
	db := r.db.WithContext(ctx)

	if err := db.Model(&VerificationEvent{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&VerificationEvent{}).Where("correct = ?", true).Count(&stats.Correct).Error; err != nil {
		return nil, err
	}

	type methodCount struct {
		Method string
		N      int64
	}
	var counts []methodCount
	if err := db.Model(&VerificationEvent{}).
		Select("method, count(*) as n").
		Group("method").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		stats.ByMethod[c.Method] = c.N
	}

	if err := db.Model(&OracleEvent{}).Count(&stats.OracleCalls).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&OracleEvent{}).Where("success = ?", false).Count(&stats.OracleFails).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *eventRepo) Recent(ctx context.Context, n int) ([]VerificationEvent, error) {
	var events []VerificationEvent
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(n).
		Find(&events).Error
	return events, err
}

// DefaultDBPath returns the database path, honoring MATHJUDGE_DB and
// XDG_DATA_HOME before falling back to ~/.local/share/mathjudge.
func DefaultDBPath() (string, error) {
	if p := os.Getenv("MATHJUDGE_DB"); p != "" {
		return p, nil
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "mathjudge", "mathjudge.db"), nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
