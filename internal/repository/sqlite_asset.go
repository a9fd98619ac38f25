package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sentinelsec/sentinel/internal/db"
	"github.com/sentinelsec/sentinel/internal/domain"
)

// assetColumns is the canonical SELECT column list for assets.
const assetColumns = `id, workgroup_id, name, kind, criticality, created_at, updated_at`

// SQLiteAssetRepo implements AssetRepo using a SQLite database.
type SQLiteAssetRepo struct {
	db db.DBTX
}

// NewSQLiteAssetRepo creates a new SQLiteAssetRepo.
func NewSQLiteAssetRepo(db db.DBTX) *SQLiteAssetRepo {
	return &SQLiteAssetRepo{db: db}
}

func (r *SQLiteAssetRepo) Create(ctx context.Context, a *domain.Asset) error {
	query := `INSERT INTO assets (id, workgroup_id, name, kind, criticality, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.WorkgroupID,
		a.Name,
		string(a.Kind),
		string(a.Criticality),
		a.CreatedAt.Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting asset: %w", err)
	}
	return nil
}

func (r *SQLiteAssetRepo) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanAsset(row)
}

func (r *SQLiteAssetRepo) ListByWorkgroup(ctx context.Context, workgroupID string) ([]*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE workgroup_id = ? ORDER BY lower(name)`
	rows, err := r.db.QueryContext(ctx, query, workgroupID)
	if err != nil {
		return nil, fmt.Errorf("listing assets by workgroup: %w", err)
	}
	defer rows.Close()
	return r.scanAssets(rows)
}

func (r *SQLiteAssetRepo) ListUnassigned(ctx context.Context) ([]*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE workgroup_id IS NULL ORDER BY lower(name)`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing unassigned assets: %w", err)
	}
	defer rows.Close()
	return r.scanAssets(rows)
}

func (r *SQLiteAssetRepo) Update(ctx context.Context, a *domain.Asset) error {
	query := `UPDATE assets SET workgroup_id = ?, name = ?, kind = ?, criticality = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		a.WorkgroupID,
		a.Name,
		string(a.Kind),
		string(a.Criticality),
		a.UpdatedAt.Format(time.RFC3339),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating asset: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking asset update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("asset %s: %w", a.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteAssetRepo) ReassignWorkgroup(ctx context.Context, fromID string, toID *string) (int, error) {
	query := `UPDATE assets SET workgroup_id = ?, updated_at = ? WHERE workgroup_id = ?`
	res, err := r.db.ExecContext(ctx, query, toID, time.Now().UTC().Format(time.RFC3339), fromID)
	if err != nil {
		return 0, fmt.Errorf("reassigning assets: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking reassign result: %w", err)
	}
	return int(affected), nil
}

func (r *SQLiteAssetRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting asset: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking asset delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("asset %s: %w", id, ErrNotFound)
	}
	return nil
}

// scanAsset scans a single asset from a *sql.Row.
func (r *SQLiteAssetRepo) scanAsset(row *sql.Row) (*domain.Asset, error) {
	var a domain.Asset
	var workgroupID sql.NullString
	var kindStr, critStr, createdAtStr, updatedAtStr string

	err := row.Scan(&a.ID, &workgroupID, &a.Name, &kindStr, &critStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("asset: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning asset: %w", err)
	}

	return r.populateAsset(&a, workgroupID, kindStr, critStr, createdAtStr, updatedAtStr)
}

// scanAssets scans multiple assets from *sql.Rows.
func (r *SQLiteAssetRepo) scanAssets(rows *sql.Rows) ([]*domain.Asset, error) {
	var assets []*domain.Asset
	for rows.Next() {
		var a domain.Asset
		var workgroupID sql.NullString
		var kindStr, critStr, createdAtStr, updatedAtStr string

		err := rows.Scan(&a.ID, &workgroupID, &a.Name, &kindStr, &critStr, &createdAtStr, &updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("scanning asset row: %w", err)
		}

		asset, err := r.populateAsset(&a, workgroupID, kindStr, critStr, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assets: %w", err)
	}
	return assets, nil
}

// populateAsset fills in parsed fields after scanning raw strings.
func (r *SQLiteAssetRepo) populateAsset(a *domain.Asset, workgroupID sql.NullString, kindStr, critStr, createdAtStr, updatedAtStr string) (*domain.Asset, error) {
	a.WorkgroupID = nullableString(workgroupID)
	a.Kind = domain.AssetKind(kindStr)
	a.Criticality = domain.Criticality(critStr)

	var err error
	a.CreatedAt, err = parseTime(createdAtStr, "created_at")
	if err != nil {
		return nil, err
	}
	a.UpdatedAt, err = parseTime(updatedAtStr, "updated_at")
	if err != nil {
		return nil, err
	}
	return a, nil
}
