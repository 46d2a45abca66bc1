package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-asset/pkg/simpleasset"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements simpleasset.Repository using PostgreSQL.
//
// Identifier allocation uses two independent sequences (asset.file_id_seq,
// asset.asset_id_seq), both starting at 0 and never cycling, which preserves
// the monotonic never-reused contract of the in-memory repository. Expected
// schema:
//
//	CREATE SCHEMA IF NOT EXISTS asset;
//	CREATE SEQUENCE asset.file_id_seq MINVALUE 0 START WITH 0 NO CYCLE;
//	CREATE SEQUENCE asset.asset_id_seq MINVALUE 0 START WITH 0 NO CYCLE;
//	CREATE TABLE asset.files (
//	    id              BIGINT PRIMARY KEY DEFAULT nextval('asset.file_id_seq'),
//	    title           TEXT NOT NULL,
//	    extension       TEXT NOT NULL,
//	    tags            TEXT[] NOT NULL DEFAULT '{}',
//	    storage_backend TEXT NOT NULL DEFAULT '',
//	    created_at      TIMESTAMPTZ NOT NULL,
//	    updated_at      TIMESTAMPTZ NOT NULL
//	);
//	CREATE TABLE asset.assets (
//	    id         BIGINT PRIMARY KEY DEFAULT nextval('asset.asset_id_seq'),
//	    title      TEXT NOT NULL,
//	    file_id    BIGINT NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL
//	);
//
// asset.assets.file_id carries no foreign key on purpose: a removed file
// leaves asset references dangling silently, matching the in-memory store.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// File operations

func (r *Repository) CreateFile(ctx context.Context, title string, ext simpleasset.Extension, backendName string) (*simpleasset.File, error) {
	now := time.Now().UTC()

	query := `
		INSERT INTO asset.files (title, extension, storage_backend, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id uint64
	if err := r.db.QueryRow(ctx, query, title, string(ext), backendName, now, now).Scan(&id); err != nil {
		return nil, r.handlePostgresError("create file", err)
	}

	fileID := simpleasset.FileID(id)
	return &simpleasset.File{
		ID:                 fileID,
		Title:              title,
		Extension:          ext,
		ObjectKey:          simpleasset.StorageKey(fileID, ext),
		StorageBackendName: backendName,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

func (r *Repository) GetFile(ctx context.Context, id simpleasset.FileID) (*simpleasset.File, error) {
	query := `
		SELECT id, title, extension, tags, storage_backend, created_at, updated_at
		FROM asset.files
		WHERE id = $1`

	file, err := scanFile(r.db.QueryRow(ctx, query, uint64(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleasset.ErrFileNotFound
		}
		return nil, r.handlePostgresError("get file", err)
	}

	return file, nil
}

func (r *Repository) UpdateFile(ctx context.Context, file *simpleasset.File) error {
	query := `
		UPDATE asset.files
		SET title = $2, tags = $3, updated_at = $4
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, uint64(file.ID), file.Title, tagsToStrings(file.Tags), time.Now().UTC())
	if err != nil {
		return r.handlePostgresError("update file", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleasset.ErrFileNotFound
	}

	return nil
}

func (r *Repository) RemoveFile(ctx context.Context, id simpleasset.FileID) (*simpleasset.File, error) {
	query := `
		DELETE FROM asset.files
		WHERE id = $1
		RETURNING id, title, extension, tags, storage_backend, created_at, updated_at`

	file, err := scanFile(r.db.QueryRow(ctx, query, uint64(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleasset.ErrFileNotFound
		}
		return nil, r.handlePostgresError("remove file", err)
	}

	return file, nil
}

func (r *Repository) CountFiles(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM asset.files`).Scan(&count); err != nil {
		return 0, r.handlePostgresError("count files", err)
	}
	return count, nil
}

func (r *Repository) ListFiles(ctx context.Context) ([]*simpleasset.File, error) {
	query := `
		SELECT id, title, extension, tags, storage_backend, created_at, updated_at
		FROM asset.files`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list files", err)
	}
	defer rows.Close()

	var result []*simpleasset.File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, r.handlePostgresError("list files", err)
		}
		result = append(result, file)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list files", err)
	}

	return result, nil
}

// Asset operations

func (r *Repository) CreateAsset(ctx context.Context, title string, fileID simpleasset.FileID) (*simpleasset.Asset, error) {
	now := time.Now().UTC()

	query := `
		INSERT INTO asset.assets (title, file_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id uint64
	if err := r.db.QueryRow(ctx, query, title, uint64(fileID), now).Scan(&id); err != nil {
		return nil, r.handlePostgresError("create asset", err)
	}

	return &simpleasset.Asset{
		ID:        simpleasset.AssetID(id),
		Title:     title,
		FileID:    fileID,
		CreatedAt: now,
	}, nil
}

func (r *Repository) GetAsset(ctx context.Context, id simpleasset.AssetID) (*simpleasset.Asset, error) {
	query := `
		SELECT id, title, file_id, created_at
		FROM asset.assets
		WHERE id = $1`

	asset, err := scanAsset(r.db.QueryRow(ctx, query, uint64(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleasset.ErrAssetNotFound
		}
		return nil, r.handlePostgresError("get asset", err)
	}

	return asset, nil
}

func (r *Repository) CountAssets(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM asset.assets`).Scan(&count); err != nil {
		return 0, r.handlePostgresError("count assets", err)
	}
	return count, nil
}

func (r *Repository) ListAssets(ctx context.Context) ([]*simpleasset.Asset, error) {
	query := `
		SELECT id, title, file_id, created_at
		FROM asset.assets`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list assets", err)
	}
	defer rows.Close()

	var result []*simpleasset.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, r.handlePostgresError("list assets", err)
		}
		result = append(result, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list assets", err)
	}

	return result, nil
}

// Scan helpers

func scanFile(row pgx.Row) (*simpleasset.File, error) {
	var (
		id   uint64
		ext  string
		tags []string
		file simpleasset.File
	)

	if err := row.Scan(&id, &file.Title, &ext, &tags, &file.StorageBackendName, &file.CreatedAt, &file.UpdatedAt); err != nil {
		return nil, err
	}

	file.ID = simpleasset.FileID(id)
	file.Extension = simpleasset.Extension(ext)
	file.ObjectKey = simpleasset.StorageKey(file.ID, file.Extension)
	file.Tags = stringsToTags(tags)

	return &file, nil
}

func scanAsset(row pgx.Row) (*simpleasset.Asset, error) {
	var (
		id     uint64
		fileID uint64
		asset  simpleasset.Asset
	)

	if err := row.Scan(&id, &asset.Title, &fileID, &asset.CreatedAt); err != nil {
		return nil, err
	}

	asset.ID = simpleasset.AssetID(id)
	asset.FileID = simpleasset.FileID(fileID)

	return &asset, nil
}

func tagsToStrings(tags []simpleasset.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

func stringsToTags(ss []string) []simpleasset.Tag {
	if len(ss) == 0 {
		return nil
	}
	out := make([]simpleasset.Tag, len(ss))
	for i, s := range ss {
		out[i] = simpleasset.Tag(s)
	}
	return out
}
