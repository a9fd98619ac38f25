package service

import (
	"context"

	"github.com/sentinelsec/sentinel/internal/domain"
)

// CreateWorkgroupRequest carries the caller-supplied fields for a new
// workgroup. ActorID attributes the mutation; the engine records it opaquely
// and never authorizes against it.
type CreateWorkgroupRequest struct {
	Name        string
	Description string
	ActorID     string
}

// UpdateWorkgroupRequest renames a workgroup and/or edits its description
// under optimistic concurrency. Nil fields are left unchanged.
type UpdateWorkgroupRequest struct {
	ID              string
	ExpectedVersion int
	Name            *string
	Description     *string
	ActorID         string
}

// MoveWorkgroupRequest reparents a workgroup. NewParentID nil moves it to
// root level.
type MoveWorkgroupRequest struct {
	ID              string
	ExpectedVersion int
	NewParentID     *string
	ActorID         string
}

// DeleteResult reports what a delete-with-promotion touched.
type DeleteResult struct {
	ChildrenPromoted int
	AssetsReassigned int
}

// WorkgroupService is the sole writer of the hierarchy. Every mutation runs
// as a single transaction; validation reads happen inside that transaction.
type WorkgroupService interface {
	CreateRoot(ctx context.Context, req CreateWorkgroupRequest) (*domain.Workgroup, error)
	CreateChild(ctx context.Context, parentID string, req CreateWorkgroupRequest) (*domain.Workgroup, error)
	Update(ctx context.Context, req UpdateWorkgroupRequest) (*domain.Workgroup, error)
	Move(ctx context.Context, req MoveWorkgroupRequest) (*domain.Workgroup, error)
	Delete(ctx context.Context, id, actorID string) (*DeleteResult, error)

	GetByID(ctx context.Context, id string) (*domain.Workgroup, error)
	ListChildren(ctx context.Context, id string) ([]*domain.Workgroup, error)
	Ancestors(ctx context.Context, id string) ([]*domain.Workgroup, error)
	ListRoots(ctx context.Context) ([]*domain.Workgroup, error)
	DescendantCount(ctx context.Context, id string) (int, error)
	Subtree(ctx context.Context, id string) ([]*domain.Workgroup, error)
}

type AssetService interface {
	Create(ctx context.Context, a *domain.Asset) error
	GetByID(ctx context.Context, id string) (*domain.Asset, error)
	ListByWorkgroup(ctx context.Context, workgroupID string) ([]*domain.Asset, error)
	ListUnassigned(ctx context.Context) ([]*domain.Asset, error)
	Assign(ctx context.Context, assetID string, workgroupID *string) error
	Delete(ctx context.Context, id string) error
}
