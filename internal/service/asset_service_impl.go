package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sentinelsec/sentinel/internal/domain"
	"github.com/sentinelsec/sentinel/internal/repository"
)

type assetService struct {
	assets repository.AssetRepo
	groups repository.WorkgroupRepo
}

func NewAssetService(assets repository.AssetRepo, groups repository.WorkgroupRepo) AssetService {
	return &assetService{assets: assets, groups: groups}
}

func (s *assetService) Create(ctx context.Context, a *domain.Asset) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Kind == "" {
		a.Kind = domain.AssetHost
	}
	if a.Criticality == "" {
		a.Criticality = domain.CriticalityMedium
	}
	if err := a.ValidateFields(); err != nil {
		return err
	}
	if a.WorkgroupID != nil {
		if _, err := s.groups.GetByID(ctx, *a.WorkgroupID); err != nil {
			return err
		}
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	return s.assets.Create(ctx, a)
}

func (s *assetService) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	return s.assets.GetByID(ctx, id)
}

func (s *assetService) ListByWorkgroup(ctx context.Context, workgroupID string) ([]*domain.Asset, error) {
	if _, err := s.groups.GetByID(ctx, workgroupID); err != nil {
		return nil, err
	}
	return s.assets.ListByWorkgroup(ctx, workgroupID)
}

func (s *assetService) ListUnassigned(ctx context.Context) ([]*domain.Asset, error) {
	return s.assets.ListUnassigned(ctx)
}

func (s *assetService) Assign(ctx context.Context, assetID string, workgroupID *string) error {
	a, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		return err
	}
	if workgroupID != nil {
		if _, err := s.groups.GetByID(ctx, *workgroupID); err != nil {
			return err
		}
	}
	a.WorkgroupID = workgroupID
	a.UpdatedAt = time.Now().UTC()
	return s.assets.Update(ctx, a)
}

func (s *assetService) Delete(ctx context.Context, id string) error {
	return s.assets.Delete(ctx, id)
}
