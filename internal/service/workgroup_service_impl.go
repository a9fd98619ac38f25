package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sentinelsec/sentinel/internal/db"
	"github.com/sentinelsec/sentinel/internal/domain"
	"github.com/sentinelsec/sentinel/internal/hierarchy"
	"github.com/sentinelsec/sentinel/internal/repository"
)

type workgroupService struct {
	groups   repository.WorkgroupRepo
	uow      db.UnitOfWork
	observer MutationObserver
}

// NewWorkgroupService creates the mutation service. The groups repo serves
// reads outside transactions; every mutation opens its own transaction and
// builds tx-scoped repositories from it.
func NewWorkgroupService(groups repository.WorkgroupRepo, uow db.UnitOfWork, observers ...MutationObserver) WorkgroupService {
	return &workgroupService{
		groups:   groups,
		uow:      uow,
		observer: mutationObserverOrNoop(observers),
	}
}

func (s *workgroupService) CreateRoot(ctx context.Context, req CreateWorkgroupRequest) (*domain.Workgroup, error) {
	w := newWorkgroup(req)
	if err := w.ValidateFields(); err != nil {
		return nil, err
	}

	start := time.Now()
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txGroups := repository.NewSQLiteWorkgroupRepo(tx)
		v := hierarchy.NewValidator(txGroups)
		if err := v.ValidateSiblingUniqueness(ctx, w.Name, nil, ""); err != nil {
			return err
		}
		return txGroups.Create(ctx, w)
	})
	s.emit(ctx, "workgroup.create", w.ID, req.ActorID, start, err, nil)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *workgroupService) CreateChild(ctx context.Context, parentID string, req CreateWorkgroupRequest) (*domain.Workgroup, error) {
	w := newWorkgroup(req)
	if err := w.ValidateFields(); err != nil {
		return nil, err
	}

	start := time.Now()
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txGroups := repository.NewSQLiteWorkgroupRepo(tx)
		v := hierarchy.NewValidator(txGroups)

		parent, err := txGroups.GetByID(ctx, parentID)
		if err != nil {
			return err
		}
		if err := v.ValidateCreateChild(ctx, parent, w.Name); err != nil {
			return err
		}
		w.ParentID = &parent.ID
		return txGroups.Create(ctx, w)
	})
	s.emit(ctx, "workgroup.create", w.ID, req.ActorID, start, err, nil)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *workgroupService) Update(ctx context.Context, req UpdateWorkgroupRequest) (*domain.Workgroup, error) {
	var updated *domain.Workgroup

	start := time.Now()
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txGroups := repository.NewSQLiteWorkgroupRepo(tx)
		v := hierarchy.NewValidator(txGroups)

		w, err := txGroups.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.Name != nil && !domain.SameName(w.Name, *req.Name) {
			if err := v.ValidateSiblingUniqueness(ctx, *req.Name, w.ParentID, w.ID); err != nil {
				return err
			}
		}
		if req.Name != nil {
			w.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			w.Description = *req.Description
		}
		if err := w.ValidateFields(); err != nil {
			return err
		}

		w.UpdatedAt = time.Now().UTC()
		if err := txGroups.Update(ctx, w, req.ExpectedVersion); err != nil {
			return err
		}
		updated = w
		return nil
	})
	s.emit(ctx, "workgroup.update", req.ID, req.ActorID, start, err, nil)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *workgroupService) Move(ctx context.Context, req MoveWorkgroupRequest) (*domain.Workgroup, error) {
	var moved *domain.Workgroup

	start := time.Now()
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txGroups := repository.NewSQLiteWorkgroupRepo(tx)
		v := hierarchy.NewValidator(txGroups)

		w, err := txGroups.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		var newParent *domain.Workgroup
		if req.NewParentID != nil {
			newParent, err = txGroups.GetByID(ctx, *req.NewParentID)
			if err != nil {
				return err
			}
		}
		if err := v.ValidateMove(ctx, w, newParent); err != nil {
			return err
		}

		// Children stay attached to w; their effective depth changes only
		// through the recomputed ancestor walk.
		w.ParentID = req.NewParentID
		w.UpdatedAt = time.Now().UTC()
		if err := txGroups.Update(ctx, w, req.ExpectedVersion); err != nil {
			return err
		}
		moved = w
		return nil
	})
	s.emit(ctx, "workgroup.move", req.ID, req.ActorID, start, err, nil)
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// Delete removes a workgroup, promoting its direct children to the deleted
// group's own parent and reassigning its direct assets the same way. This is
// the one multi-record transaction in the engine: either every promotion,
// the reassignment and the deletion commit, or none do. Each child is
// promoted under its own version check, so a concurrent edit to a child
// aborts the whole delete with a version conflict.
func (s *workgroupService) Delete(ctx context.Context, id, actorID string) (*DeleteResult, error) {
	result := &DeleteResult{}

	start := time.Now()
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txGroups := repository.NewSQLiteWorkgroupRepo(tx)
		txAssets := repository.NewSQLiteAssetRepo(tx)

		w, err := txGroups.GetByID(ctx, id)
		if err != nil {
			return err
		}

		children, err := txGroups.ListChildren(ctx, id)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		for _, child := range children {
			child.ParentID = w.ParentID
			child.UpdatedAt = now
			if err := txGroups.Update(ctx, child, child.Version); err != nil {
				return err
			}
		}
		result.ChildrenPromoted = len(children)

		reassigned, err := txAssets.ReassignWorkgroup(ctx, id, w.ParentID)
		if err != nil {
			return err
		}
		result.AssetsReassigned = reassigned

		return txGroups.Delete(ctx, id)
	})
	s.emit(ctx, "workgroup.delete", id, actorID, start, err, map[string]any{
		"children_promoted": result.ChildrenPromoted,
		"assets_reassigned": result.AssetsReassigned,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *workgroupService) GetByID(ctx context.Context, id string) (*domain.Workgroup, error) {
	return s.groups.GetByID(ctx, id)
}

func (s *workgroupService) ListChildren(ctx context.Context, id string) ([]*domain.Workgroup, error) {
	if _, err := s.groups.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.groups.ListChildren(ctx, id)
}

func (s *workgroupService) Ancestors(ctx context.Context, id string) ([]*domain.Workgroup, error) {
	return hierarchy.NewWalker(s.groups).Ancestors(ctx, id)
}

func (s *workgroupService) ListRoots(ctx context.Context) ([]*domain.Workgroup, error) {
	return s.groups.ListRoots(ctx)
}

func (s *workgroupService) DescendantCount(ctx context.Context, id string) (int, error) {
	return hierarchy.NewWalker(s.groups).DescendantCount(ctx, id)
}

func (s *workgroupService) Subtree(ctx context.Context, id string) ([]*domain.Workgroup, error) {
	return hierarchy.NewWalker(s.groups).Descendants(ctx, id)
}

func newWorkgroup(req CreateWorkgroupRequest) *domain.Workgroup {
	now := time.Now().UTC()
	return &domain.Workgroup{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *workgroupService) emit(ctx context.Context, operation, workgroupID, actorID string, start time.Time, err error, fields map[string]any) {
	s.observer.ObserveMutation(ctx, MutationEvent{
		Operation:   operation,
		WorkgroupID: workgroupID,
		ActorID:     actorID,
		Duration:    time.Since(start),
		Success:     err == nil,
		Err:         err,
		Fields:      fields,
		StartedAt:   start,
	})
}
