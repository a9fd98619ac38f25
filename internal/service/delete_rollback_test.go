package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	dbpkg "github.com/sentinelsec/sentinel/internal/db"
	"github.com/sentinelsec/sentinel/internal/repository"
	"github.com/sentinelsec/sentinel/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDelete_RollbackOnFailure injects a storage failure at the final delete
// statement, after the child promotions and the asset reassignment already
// executed inside the transaction. Nothing may remain visible.
func TestDelete_RollbackOnFailure(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteWorkgroupRepo(db)
	svc := NewWorkgroupService(repo, testutil.NewTestUoW(db))
	ctx := context.Background()

	eng := mustCreateRoot(t, svc, "Engineering")
	backend := mustCreateChild(t, svc, eng.ID, "Backend")
	frontend := mustCreateChild(t, svc, eng.ID, "Frontend")

	// Exec order inside Delete: two promotions, asset reassign, node delete.
	failing := &testutil.FailOnNthExecUoW{
		DB:     db,
		FailOn: 4,
		Err:    fmt.Errorf("disk full"),
	}
	failingSvc := NewWorkgroupService(repo, failing)

	_, err := failingSvc.Delete(ctx, eng.ID, "admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	// The whole transaction rolled back: parent still exists, children
	// still attached.
	got, err := svc.GetByID(ctx, eng.ID)
	require.NoError(t, err)
	assert.Equal(t, "Engineering", got.Name)

	for _, child := range []string{backend.ID, frontend.ID} {
		c, err := svc.GetByID(ctx, child)
		require.NoError(t, err)
		require.NotNil(t, c.ParentID, "promotion must not survive the rollback")
		assert.Equal(t, eng.ID, *c.ParentID)
		assert.Equal(t, 0, c.Version, "rolled-back promotion must not bump versions")
	}
}

// bumpBeforeExecUoW bumps a workgroup's version inside the transaction just
// before the first write statement runs, simulating a concurrent edit that
// lands between the delete's child read and its promotion write.
type bumpBeforeExecUoW struct {
	db     *sql.DB
	bumpID string
}

func (u *bumpBeforeExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx dbpkg.DBTX) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	wrapped := &bumpBeforeExec{DBTX: tx, bumpID: u.bumpID}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type bumpBeforeExec struct {
	dbpkg.DBTX
	bumpID string
	bumped bool
}

func (b *bumpBeforeExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if !b.bumped {
		b.bumped = true
		if _, err := b.DBTX.ExecContext(ctx,
			`UPDATE workgroups SET version = version + 1 WHERE id = ?`, b.bumpID); err != nil {
			return nil, err
		}
	}
	return b.DBTX.ExecContext(ctx, query, args...)
}

// TestDelete_AbortsOnConcurrentChildEdit verifies that a child whose version
// moved after the delete transaction read it aborts the whole delete with a
// version conflict, leaving the tree untouched.
func TestDelete_AbortsOnConcurrentChildEdit(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewSQLiteWorkgroupRepo(db)
	svc := NewWorkgroupService(repo, testutil.NewTestUoW(db))
	ctx := context.Background()

	eng := mustCreateRoot(t, svc, "Engineering")
	backend := mustCreateChild(t, svc, eng.ID, "Backend")

	conflicting := NewWorkgroupService(repo, &bumpBeforeExecUoW{db: db, bumpID: backend.ID})
	_, err := conflicting.Delete(ctx, eng.ID, "admin")
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrVersionConflict)

	// Nothing changed.
	got, err := svc.GetByID(ctx, eng.ID)
	require.NoError(t, err)
	assert.Equal(t, "Engineering", got.Name)

	child, err := svc.GetByID(ctx, backend.ID)
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, eng.ID, *child.ParentID)
}
