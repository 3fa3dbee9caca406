// Package store defines the persistence boundary for run history.
package store

import (
	"context"

	"goassume/internal/store/model"
)

// Store keeps a record of past diagnostic runs.
type Store interface {
	SaveRun(ctx context.Context, run *model.Run) error
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)
	GetRun(ctx context.Context, id string) (*model.Run, error)
	Close() error
}
