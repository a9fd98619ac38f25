package hierarchy

import (
	"context"
	"errors"
	"fmt"

	"github.com/sentinelsec/sentinel/internal/domain"
)

// MaxDepth is the maximum depth of the workgroup hierarchy. A root sits at
// depth 1.
const MaxDepth = 5

// maxWalk caps every traversal loop. A parent chain longer than this means
// the acyclicity invariant was violated in storage — a bug, not user error —
// so traversals fail loudly instead of looping.
const maxWalk = MaxDepth + 1

// ErrTraversalLimit signals a parent chain or subtree deeper than the engine
// allows, which indicates corrupted hierarchy data.
var ErrTraversalLimit = errors.New("hierarchy traversal limit exceeded")

// Reader is the read-only slice of the workgroup store the walker needs.
// repository.WorkgroupRepo satisfies it.
type Reader interface {
	GetByID(ctx context.Context, id string) (*domain.Workgroup, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Workgroup, error)
	ListRoots(ctx context.Context) ([]*domain.Workgroup, error)
}

// Walker implements the read-only traversal operations over a workgroup
// store snapshot. It never mutates anything and is safe for any number of
// concurrent callers.
type Walker struct {
	store Reader
}

func NewWalker(store Reader) *Walker {
	return &Walker{store: store}
}

// Ancestors returns the parent chain of the given workgroup ordered from
// root to immediate parent, excluding the workgroup itself. The walk issues
// O(depth) single-row lookups against the parent index.
func (wk *Walker) Ancestors(ctx context.Context, id string) ([]*domain.Workgroup, error) {
	node, err := wk.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var chain []*domain.Workgroup
	cur := node
	for hops := 0; cur.ParentID != nil; hops++ {
		if hops >= maxWalk {
			return nil, fmt.Errorf("ancestors of workgroup %s: %w", id, ErrTraversalLimit)
		}
		parent, err := wk.store.GetByID(ctx, *cur.ParentID)
		if err != nil {
			return nil, fmt.Errorf("walking parent chain of workgroup %s: %w", id, err)
		}
		chain = append(chain, parent)
		cur = parent
	}

	// The walk collects immediate-parent-first; callers want root-first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Depth returns 1 for a root workgroup, else 1 + the parent's depth.
func (wk *Walker) Depth(ctx context.Context, id string) (int, error) {
	ancestors, err := wk.Ancestors(ctx, id)
	if err != nil {
		return 0, err
	}
	return len(ancestors) + 1, nil
}

// Descendants returns the entire subtree below the given workgroup in
// breadth-first order, excluding the workgroup itself.
func (wk *Walker) Descendants(ctx context.Context, id string) ([]*domain.Workgroup, error) {
	if _, err := wk.store.GetByID(ctx, id); err != nil {
		return nil, err
	}

	var result []*domain.Workgroup
	frontier := []string{id}
	for level := 0; len(frontier) > 0; level++ {
		if level >= maxWalk {
			return nil, fmt.Errorf("descendants of workgroup %s: %w", id, ErrTraversalLimit)
		}
		var next []string
		for _, parentID := range frontier {
			children, err := wk.store.ListChildren(ctx, parentID)
			if err != nil {
				return nil, fmt.Errorf("expanding children of workgroup %s: %w", parentID, err)
			}
			for _, c := range children {
				result = append(result, c)
				next = append(next, c.ID)
			}
		}
		frontier = next
	}
	return result, nil
}

// DescendantCount returns the size of the subtree below the workgroup.
func (wk *Walker) DescendantCount(ctx context.Context, id string) (int, error) {
	descendants, err := wk.Descendants(ctx, id)
	if err != nil {
		return 0, err
	}
	return len(descendants), nil
}

// IsDescendantOf reports whether candidateID lies within the subtree rooted
// at nodeID, counting nodeID itself. Used for cycle prevention on moves.
func (wk *Walker) IsDescendantOf(ctx context.Context, candidateID, nodeID string) (bool, error) {
	if candidateID == nodeID {
		return true, nil
	}
	ancestors, err := wk.Ancestors(ctx, candidateID)
	if err != nil {
		return false, err
	}
	for _, a := range ancestors {
		if a.ID == nodeID {
			return true, nil
		}
	}
	return false, nil
}

// SubtreeDepth returns the maximum depth of any workgroup within the given
// workgroup's own subtree, relative to that workgroup. A leaf has subtree
// depth 1.
func (wk *Walker) SubtreeDepth(ctx context.Context, id string) (int, error) {
	if _, err := wk.store.GetByID(ctx, id); err != nil {
		return 0, err
	}

	depth := 0
	frontier := []string{id}
	for len(frontier) > 0 {
		depth++
		if depth > maxWalk {
			return 0, fmt.Errorf("subtree depth of workgroup %s: %w", id, ErrTraversalLimit)
		}
		var next []string
		for _, parentID := range frontier {
			children, err := wk.store.ListChildren(ctx, parentID)
			if err != nil {
				return 0, fmt.Errorf("expanding children of workgroup %s: %w", parentID, err)
			}
			for _, c := range children {
				next = append(next, c.ID)
			}
		}
		frontier = next
	}
	return depth, nil
}
