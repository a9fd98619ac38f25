package repository

import (
	"context"

	"github.com/sentinelsec/sentinel/internal/domain"
)

// WorkgroupRepo is the node store of the hierarchy. It knows nothing about
// structural invariants; those live in the hierarchy package.
type WorkgroupRepo interface {
	Create(ctx context.Context, w *domain.Workgroup) error
	GetByID(ctx context.Context, id string) (*domain.Workgroup, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Workgroup, error)
	ListRoots(ctx context.Context) ([]*domain.Workgroup, error)
	// Update writes the workgroup only if its stored version still equals
	// expectedVersion, incrementing the version in the same statement.
	// Returns ErrVersionConflict on a stale expected version.
	Update(ctx context.Context, w *domain.Workgroup, expectedVersion int) error
	Delete(ctx context.Context, id string) error
}

type AssetRepo interface {
	Create(ctx context.Context, a *domain.Asset) error
	GetByID(ctx context.Context, id string) (*domain.Asset, error)
	ListByWorkgroup(ctx context.Context, workgroupID string) ([]*domain.Asset, error)
	ListUnassigned(ctx context.Context) ([]*domain.Asset, error)
	Update(ctx context.Context, a *domain.Asset) error
	// ReassignWorkgroup moves every asset of one workgroup to another
	// (or to unassigned when toID is nil) in a single statement.
	ReassignWorkgroup(ctx context.Context, fromID string, toID *string) (int, error)
	Delete(ctx context.Context, id string) error
}
