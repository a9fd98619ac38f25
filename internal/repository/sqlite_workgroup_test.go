package repository

import (
	"context"
	"testing"

	"github.com/sentinelsec/sentinel/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWorkgroupRepo(t *testing.T) *SQLiteWorkgroupRepo {
	t.Helper()
	db := testutil.NewTestDB(t)
	return NewSQLiteWorkgroupRepo(db)
}

func TestWorkgroupRepo_CreateAndGetByID(t *testing.T) {
	repo := setupWorkgroupRepo(t)
	ctx := context.Background()

	root := testutil.NewTestWorkgroup("Engineering", testutil.WithDescription("All engineering teams"))
	require.NoError(t, repo.Create(ctx, root))

	child := testutil.NewTestWorkgroup("Backend", testutil.WithParent(root.ID))
	require.NoError(t, repo.Create(ctx, child))

	got, err := repo.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, child.ID, got.ID)
	assert.Equal(t, "Backend", got.Name)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, root.ID, *got.ParentID)
	assert.Equal(t, 0, got.Version)

	gotRoot, err := repo.GetByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Nil(t, gotRoot.ParentID)
	assert.Equal(t, "All engineering teams", gotRoot.Description)
}

func TestWorkgroupRepo_GetByID_NotFound(t *testing.T) {
	repo := setupWorkgroupRepo(t)
	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkgroupRepo_ListChildrenAndRoots(t *testing.T) {
	repo := setupWorkgroupRepo(t)
	ctx := context.Background()

	rootB := testutil.NewTestWorkgroup("Operations")
	rootA := testutil.NewTestWorkgroup("Engineering")
	require.NoError(t, repo.Create(ctx, rootB))
	require.NoError(t, repo.Create(ctx, rootA))

	childB := testutil.NewTestWorkgroup("backend", testutil.WithParent(rootA.ID))
	childA := testutil.NewTestWorkgroup("API", testutil.WithParent(rootA.ID))
	require.NoError(t, repo.Create(ctx, childB))
	require.NoError(t, repo.Create(ctx, childA))

	roots, err := repo.ListRoots(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, "Engineering", roots[0].Name, "roots sorted case-insensitively by name")
	assert.Equal(t, "Operations", roots[1].Name)

	children, err := repo.ListChildren(ctx, rootA.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "API", children[0].Name)
	assert.Equal(t, "backend", children[1].Name)

	children, err = repo.ListChildren(ctx, rootB.ID)
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestWorkgroupRepo_Update_IncrementsVersion(t *testing.T) {
	repo := setupWorkgroupRepo(t)
	ctx := context.Background()

	w := testutil.NewTestWorkgroup("Engineering")
	require.NoError(t, repo.Create(ctx, w))

	w.Name = "Platform Engineering"
	require.NoError(t, repo.Update(ctx, w, 0))
	assert.Equal(t, 1, w.Version, "in-memory version advances with the store")

	got, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Platform Engineering", got.Name)
	assert.Equal(t, 1, got.Version)
}

func TestWorkgroupRepo_Update_StaleVersionConflicts(t *testing.T) {
	repo := setupWorkgroupRepo(t)
	ctx := context.Background()

	w := testutil.NewTestWorkgroup("Engineering")
	require.NoError(t, repo.Create(ctx, w))
	require.NoError(t, repo.Update(ctx, w, 0)) // now version 1

	stale := *w
	stale.Name = "Loser"
	err := repo.Update(ctx, &stale, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.Contains(t, err.Error(), "expected version 0")

	// Loser's write left no trace.
	got, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Engineering", got.Name)
	assert.Equal(t, 1, got.Version)
}

func TestWorkgroupRepo_Update_MissingRowIsNotFound(t *testing.T) {
	repo := setupWorkgroupRepo(t)

	w := testutil.NewTestWorkgroup("Ghost")
	err := repo.Update(context.Background(), w, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkgroupRepo_Delete(t *testing.T) {
	repo := setupWorkgroupRepo(t)
	ctx := context.Background()

	w := testutil.NewTestWorkgroup("Engineering")
	require.NoError(t, repo.Create(ctx, w))
	require.NoError(t, repo.Delete(ctx, w.ID))

	_, err := repo.GetByID(ctx, w.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Delete(ctx, w.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkgroupRepo_SchemaRejectsDuplicateSibling(t *testing.T) {
	repo := setupWorkgroupRepo(t)
	ctx := context.Background()

	root := testutil.NewTestWorkgroup("Engineering")
	require.NoError(t, repo.Create(ctx, root))

	a := testutil.NewTestWorkgroup("Backend", testutil.WithParent(root.ID))
	require.NoError(t, repo.Create(ctx, a))

	// The validation engine checks first; the unique index is the backstop.
	b := testutil.NewTestWorkgroup("BACKEND", testutil.WithParent(root.ID))
	err := repo.Create(ctx, b)
	require.Error(t, err)
}

func TestWorkgroupRepo_SchemaRejectsDeletingParentWithChildren(t *testing.T) {
	repo := setupWorkgroupRepo(t)
	ctx := context.Background()

	root := testutil.NewTestWorkgroup("Engineering")
	require.NoError(t, repo.Create(ctx, root))
	child := testutil.NewTestWorkgroup("Backend", testutil.WithParent(root.ID))
	require.NoError(t, repo.Create(ctx, child))

	// Promotion must happen first; the FK rejects an orphaning delete.
	err := repo.Delete(ctx, root.ID)
	require.Error(t, err)
}
