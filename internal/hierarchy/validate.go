package hierarchy

import (
	"context"
	"fmt"

	"github.com/sentinelsec/sentinel/internal/domain"
)

// Validator holds the structural invariants of the hierarchy as pure
// decision functions: each either passes silently or returns one of the
// domain violation errors. It never writes; callers run it against the same
// snapshot (transaction) they intend to write through.
type Validator struct {
	store  Reader
	walker *Walker
}

func NewValidator(store Reader) *Validator {
	return &Validator{store: store, walker: NewWalker(store)}
}

// Walker exposes the validator's traversal engine.
func (v *Validator) Walker() *Walker {
	return v.walker
}

// ValidateCreateChild decides whether a child with the proposed name may be
// created under parent.
func (v *Validator) ValidateCreateChild(ctx context.Context, parent *domain.Workgroup, name string) error {
	depth, err := v.walker.Depth(ctx, parent.ID)
	if err != nil {
		return err
	}
	if depth >= MaxDepth {
		return fmt.Errorf("parent %q is at depth %d, a child would exceed the maximum depth of %d: %w",
			parent.Name, depth, MaxDepth, domain.ErrDepthExceeded)
	}
	return v.ValidateSiblingUniqueness(ctx, name, &parent.ID, "")
}

// ValidateSiblingUniqueness checks the proposed name against the candidate
// sibling set: children of parentID, or the root set when parentID is nil.
// excludeID skips the workgroup being renamed or moved itself. Comparison is
// case-insensitive.
func (v *Validator) ValidateSiblingUniqueness(ctx context.Context, name string, parentID *string, excludeID string) error {
	var siblings []*domain.Workgroup
	var err error
	if parentID == nil {
		siblings, err = v.store.ListRoots(ctx)
	} else {
		siblings, err = v.store.ListChildren(ctx, *parentID)
	}
	if err != nil {
		return fmt.Errorf("loading sibling set: %w", err)
	}

	for _, s := range siblings {
		if s.ID == excludeID {
			continue
		}
		if domain.SameName(s.Name, name) {
			return fmt.Errorf("name %q collides with sibling workgroup %q (%s): %w",
				name, s.Name, s.ID, domain.ErrNameConflict)
		}
	}
	return nil
}

// ValidateNoCycle rejects reparenting node under itself or under any
// workgroup inside its own subtree.
func (v *Validator) ValidateNoCycle(ctx context.Context, node, newParent *domain.Workgroup) error {
	if newParent.ID == node.ID {
		return fmt.Errorf("workgroup %q: %w", node.Name, domain.ErrSelfParent)
	}
	inSubtree, err := v.walker.IsDescendantOf(ctx, newParent.ID, node.ID)
	if err != nil {
		return err
	}
	if inSubtree {
		return fmt.Errorf("proposed parent %q is a descendant of %q: %w",
			newParent.Name, node.Name, domain.ErrCircularReference)
	}
	return nil
}

// ValidateMove decides whether node may be reparented under newParent
// (nil meaning move to root level): no cycle, the whole subtree stays within
// the depth bound, and the name stays unique among the new siblings.
func (v *Validator) ValidateMove(ctx context.Context, node, newParent *domain.Workgroup) error {
	if newParent != nil {
		if err := v.ValidateNoCycle(ctx, node, newParent); err != nil {
			return err
		}
	}

	subtreeDepth, err := v.walker.SubtreeDepth(ctx, node.ID)
	if err != nil {
		return err
	}
	resultingDepth := subtreeDepth
	if newParent != nil {
		parentDepth, err := v.walker.Depth(ctx, newParent.ID)
		if err != nil {
			return err
		}
		resultingDepth = parentDepth + subtreeDepth
	}
	if resultingDepth > MaxDepth {
		return fmt.Errorf("moving %q would place its deepest descendant at depth %d, maximum is %d: %w",
			node.Name, resultingDepth, MaxDepth, domain.ErrDepthExceeded)
	}

	var parentID *string
	if newParent != nil {
		parentID = &newParent.ID
	}
	return v.ValidateSiblingUniqueness(ctx, node.Name, parentID, node.ID)
}
