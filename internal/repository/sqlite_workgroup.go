package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sentinelsec/sentinel/internal/db"
	"github.com/sentinelsec/sentinel/internal/domain"
)

// workgroupColumns is the canonical SELECT column list for workgroups.
const workgroupColumns = `id, parent_id, name, description, version, created_at, updated_at`

// SQLiteWorkgroupRepo implements WorkgroupRepo using a SQLite database.
// It accepts db.DBTX so the same type serves both the pooled *sql.DB and
// tx-scoped repositories inside a unit of work.
type SQLiteWorkgroupRepo struct {
	db db.DBTX
}

// NewSQLiteWorkgroupRepo creates a new SQLiteWorkgroupRepo.
func NewSQLiteWorkgroupRepo(db db.DBTX) *SQLiteWorkgroupRepo {
	return &SQLiteWorkgroupRepo{db: db}
}

func (r *SQLiteWorkgroupRepo) Create(ctx context.Context, w *domain.Workgroup) error {
	query := `INSERT INTO workgroups (id, parent_id, name, description, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		w.ID,
		w.ParentID, // *string: nil becomes SQL NULL
		w.Name,
		w.Description,
		w.Version,
		w.CreatedAt.Format(time.RFC3339),
		w.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting workgroup: %w", err)
	}
	return nil
}

func (r *SQLiteWorkgroupRepo) GetByID(ctx context.Context, id string) (*domain.Workgroup, error) {
	query := `SELECT ` + workgroupColumns + ` FROM workgroups WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanWorkgroup(row)
}

func (r *SQLiteWorkgroupRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.Workgroup, error) {
	query := `SELECT ` + workgroupColumns + ` FROM workgroups WHERE parent_id = ? ORDER BY lower(name)`
	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing child workgroups: %w", err)
	}
	defer rows.Close()
	return r.scanWorkgroups(rows)
}

func (r *SQLiteWorkgroupRepo) ListRoots(ctx context.Context) ([]*domain.Workgroup, error) {
	query := `SELECT ` + workgroupColumns + ` FROM workgroups WHERE parent_id IS NULL ORDER BY lower(name)`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing root workgroups: %w", err)
	}
	defer rows.Close()
	return r.scanWorkgroups(rows)
}

// Update performs the optimistic-locked write: the version comparison and
// increment happen inside the single UPDATE statement, so concurrent writers
// starting from the same version cannot both succeed. On success the
// in-memory Version is advanced to the stored value.
func (r *SQLiteWorkgroupRepo) Update(ctx context.Context, w *domain.Workgroup, expectedVersion int) error {
	query := `UPDATE workgroups SET parent_id = ?, name = ?, description = ?,
		version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, query,
		w.ParentID,
		w.Name,
		w.Description,
		w.UpdatedAt.Format(time.RFC3339),
		w.ID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("updating workgroup: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		// Distinguish a missing row from a stale version.
		var stored int
		err := r.db.QueryRowContext(ctx, `SELECT version FROM workgroups WHERE id = ?`, w.ID).Scan(&stored)
		if err == sql.ErrNoRows {
			return fmt.Errorf("workgroup %s: %w", w.ID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("checking workgroup version: %w", err)
		}
		return fmt.Errorf("workgroup %s: expected version %d, stored version %d: %w",
			w.ID, expectedVersion, stored, ErrVersionConflict)
	}
	w.Version = expectedVersion + 1
	return nil
}

func (r *SQLiteWorkgroupRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM workgroups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting workgroup: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("workgroup %s: %w", id, ErrNotFound)
	}
	return nil
}

// scanWorkgroup scans a single workgroup from a *sql.Row.
func (r *SQLiteWorkgroupRepo) scanWorkgroup(row *sql.Row) (*domain.Workgroup, error) {
	var w domain.Workgroup
	var parentID sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(&w.ID, &parentID, &w.Name, &w.Description, &w.Version, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("workgroup: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning workgroup: %w", err)
	}

	return r.populateWorkgroup(&w, parentID, createdAtStr, updatedAtStr)
}

// scanWorkgroups scans multiple workgroups from *sql.Rows.
func (r *SQLiteWorkgroupRepo) scanWorkgroups(rows *sql.Rows) ([]*domain.Workgroup, error) {
	var groups []*domain.Workgroup
	for rows.Next() {
		var w domain.Workgroup
		var parentID sql.NullString
		var createdAtStr, updatedAtStr string

		err := rows.Scan(&w.ID, &parentID, &w.Name, &w.Description, &w.Version, &createdAtStr, &updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("scanning workgroup row: %w", err)
		}

		group, err := r.populateWorkgroup(&w, parentID, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating workgroups: %w", err)
	}
	return groups, nil
}

// populateWorkgroup fills in parsed fields after scanning raw strings.
func (r *SQLiteWorkgroupRepo) populateWorkgroup(w *domain.Workgroup, parentID sql.NullString, createdAtStr, updatedAtStr string) (*domain.Workgroup, error) {
	w.ParentID = nullableString(parentID)

	var err error
	w.CreatedAt, err = parseTime(createdAtStr, "created_at")
	if err != nil {
		return nil, err
	}
	w.UpdatedAt, err = parseTime(updatedAtStr, "updated_at")
	if err != nil {
		return nil, err
	}
	return w, nil
}
