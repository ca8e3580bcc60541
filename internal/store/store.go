// Package store persists scoring runs. The engine itself never touches
// storage; the CLI and server use a Store to keep run history.
package store

import (
	"context"
	"time"

	"github.com/lodeline/orescore/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	CreatedAfter time.Time `json:"created_after,omitempty"`
	Limit        int       `json:"limit,omitempty"`
	Offset       int       `json:"offset,omitempty"`
}

// Store defines the persistence interface for scoring runs.
type Store interface {
	SaveRun(ctx context.Context, run *model.ScoringRun) error
	GetRun(ctx context.Context, runID string) (*model.ScoringRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.ScoringRun, error)

	Migrate(ctx context.Context) error
	Close() error
}
