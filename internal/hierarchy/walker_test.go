package hierarchy

import (
	"context"
	"database/sql"
	"testing"

	"github.com/sentinelsec/sentinel/internal/domain"
	"github.com/sentinelsec/sentinel/internal/repository"
	"github.com/sentinelsec/sentinel/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedTree builds:
//
//	Engineering
//	├─ Backend
//	│  └─ API
//	└─ Frontend
//	Operations
func seedTree(t *testing.T) (*sql.DB, *repository.SQLiteWorkgroupRepo, map[string]*domain.Workgroup) {
	t.Helper()
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteWorkgroupRepo(db)
	ctx := context.Background()

	groups := map[string]*domain.Workgroup{}
	add := func(name string, parent *domain.Workgroup) *domain.Workgroup {
		var opts []testutil.WorkgroupOption
		if parent != nil {
			opts = append(opts, testutil.WithParent(parent.ID))
		}
		w := testutil.NewTestWorkgroup(name, opts...)
		require.NoError(t, repo.Create(ctx, w))
		groups[name] = w
		return w
	}

	eng := add("Engineering", nil)
	backend := add("Backend", eng)
	add("API", backend)
	add("Frontend", eng)
	add("Operations", nil)

	return db, repo, groups
}

func TestWalker_Ancestors_RootToParentOrder(t *testing.T) {
	_, repo, groups := seedTree(t)
	wk := NewWalker(repo)
	ctx := context.Background()

	ancestors, err := wk.Ancestors(ctx, groups["API"].ID)
	require.NoError(t, err)
	require.Len(t, ancestors, 2)
	assert.Equal(t, "Engineering", ancestors[0].Name)
	assert.Equal(t, "Backend", ancestors[1].Name)

	ancestors, err = wk.Ancestors(ctx, groups["Engineering"].ID)
	require.NoError(t, err)
	assert.Empty(t, ancestors, "a root has no ancestors")
}

func TestWalker_Ancestors_NotFound(t *testing.T) {
	_, repo, _ := seedTree(t)
	wk := NewWalker(repo)

	_, err := wk.Ancestors(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWalker_Depth(t *testing.T) {
	_, repo, groups := seedTree(t)
	wk := NewWalker(repo)
	ctx := context.Background()

	for name, want := range map[string]int{
		"Engineering": 1,
		"Backend":     2,
		"API":         3,
		"Frontend":    2,
		"Operations":  1,
	} {
		depth, err := wk.Depth(ctx, groups[name].ID)
		require.NoError(t, err)
		assert.Equal(t, want, depth, "depth of %s", name)
	}
}

func TestWalker_Descendants(t *testing.T) {
	_, repo, groups := seedTree(t)
	wk := NewWalker(repo)
	ctx := context.Background()

	descendants, err := wk.Descendants(ctx, groups["Engineering"].ID)
	require.NoError(t, err)
	names := make([]string, len(descendants))
	for i, d := range descendants {
		names[i] = d.Name
	}
	// Breadth-first: both children before the grandchild.
	assert.Equal(t, []string{"Backend", "Frontend", "API"}, names)

	descendants, err = wk.Descendants(ctx, groups["API"].ID)
	require.NoError(t, err)
	assert.Empty(t, descendants)

	count, err := wk.DescendantCount(ctx, groups["Engineering"].ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestWalker_Descendants_Idempotent(t *testing.T) {
	_, repo, groups := seedTree(t)
	wk := NewWalker(repo)
	ctx := context.Background()

	first, err := wk.Descendants(ctx, groups["Engineering"].ID)
	require.NoError(t, err)
	second, err := wk.Descendants(ctx, groups["Engineering"].ID)
	require.NoError(t, err)
	assert.Equal(t, first, second, "reads have no side effects")
}

func TestWalker_IsDescendantOf(t *testing.T) {
	_, repo, groups := seedTree(t)
	wk := NewWalker(repo)
	ctx := context.Background()

	cases := []struct {
		candidate, node string
		want            bool
	}{
		{"API", "Engineering", true},
		{"API", "Backend", true},
		{"API", "API", true}, // a node counts as inside its own subtree
		{"Backend", "API", false},
		{"Frontend", "Backend", false},
		{"Operations", "Engineering", false},
	}
	for _, tc := range cases {
		got, err := wk.IsDescendantOf(ctx, groups[tc.candidate].ID, groups[tc.node].ID)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s within subtree of %s", tc.candidate, tc.node)
	}
}

func TestWalker_SubtreeDepth(t *testing.T) {
	_, repo, groups := seedTree(t)
	wk := NewWalker(repo)
	ctx := context.Background()

	for name, want := range map[string]int{
		"Engineering": 3,
		"Backend":     2,
		"API":         1,
		"Operations":  1,
	} {
		depth, err := wk.SubtreeDepth(ctx, groups[name].ID)
		require.NoError(t, err)
		assert.Equal(t, want, depth, "subtree depth of %s", name)
	}
}

// TestWalker_TraversalLimit_CorruptedCycle plants a cycle directly in
// storage, bypassing the validation engine, and verifies the walker fails
// loudly instead of looping.
func TestWalker_TraversalLimit_CorruptedCycle(t *testing.T) {
	db, repo, groups := seedTree(t)
	wk := NewWalker(repo)
	ctx := context.Background()

	// Engineering -> Backend -> API, then point Engineering at API.
	_, err := db.Exec(`UPDATE workgroups SET parent_id = ? WHERE id = ?`,
		groups["API"].ID, groups["Engineering"].ID)
	require.NoError(t, err)

	_, err = wk.Ancestors(ctx, groups["API"].ID)
	assert.ErrorIs(t, err, ErrTraversalLimit)

	_, err = wk.Depth(ctx, groups["Backend"].ID)
	assert.ErrorIs(t, err, ErrTraversalLimit)

	_, err = wk.Descendants(ctx, groups["Engineering"].ID)
	assert.ErrorIs(t, err, ErrTraversalLimit)

	_, err = wk.SubtreeDepth(ctx, groups["Engineering"].ID)
	assert.ErrorIs(t, err, ErrTraversalLimit)
}
