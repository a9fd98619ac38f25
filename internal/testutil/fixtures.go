package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/sentinelsec/sentinel/internal/domain"
)

// Workgroup options
type WorkgroupOption func(*domain.Workgroup)

func WithParent(id string) WorkgroupOption {
	return func(w *domain.Workgroup) {
		w.ParentID = &id
	}
}

func WithDescription(d string) WorkgroupOption {
	return func(w *domain.Workgroup) {
		w.Description = d
	}
}

func WithVersion(v int) WorkgroupOption {
	return func(w *domain.Workgroup) {
		w.Version = v
	}
}

func NewTestWorkgroup(name string, opts ...WorkgroupOption) *domain.Workgroup {
	now := time.Now().UTC()
	w := &domain.Workgroup{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Asset options
type AssetOption func(*domain.Asset)

func WithAssetKind(k domain.AssetKind) AssetOption {
	return func(a *domain.Asset) {
		a.Kind = k
	}
}

func WithCriticality(c domain.Criticality) AssetOption {
	return func(a *domain.Asset) {
		a.Criticality = c
	}
}

func WithWorkgroup(id string) AssetOption {
	return func(a *domain.Asset) {
		a.WorkgroupID = &id
	}
}

func NewTestAsset(name string, opts ...AssetOption) *domain.Asset {
	now := time.Now().UTC()
	a := &domain.Asset{
		ID:          uuid.New().String(),
		Name:        name,
		Kind:        domain.AssetHost,
		Criticality: domain.CriticalityMedium,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
