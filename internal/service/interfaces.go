// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/sentiment-pulse/internal/model"
)

// ProgressFunc is called as mentions are written, with the number saved so far.
type ProgressFunc func(saved int)

// Storage defines the contract for our persistence layer.
// Only raw mentions are stored; analysis results are always recomputed.
type Storage interface {
	// Snapshot operations
	CreateSnapshot(ctx context.Context, name, source string, mentions []model.Mention, progress ProgressFunc) (*model.Snapshot, error)
	GetSnapshot(ctx context.Context, ref string) (*model.Snapshot, error)
	ListSnapshots(ctx context.Context) ([]model.Snapshot, error)
	DeleteSnapshot(ctx context.Context, ref string) error

	// Mention operations
	LoadMentions(ctx context.Context, ref string) ([]model.Mention, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
