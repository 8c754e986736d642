package file

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	domain "file-storage-api/internal/domain/file"
)

// created_at is kept as RFC 3339 text so it sorts and round-trips exactly.
const timeLayout = time.RFC3339Nano

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init provisions the files table if it is missing.
func (r *Repository) Init(ctx context.Context) error {
	for _, q := range []string{CreateFilesTable, CreateFilesEmailIndex} {
		if _, err := r.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("init files table: %w", err)
		}
	}
	return nil
}

func (r *Repository) FetchByPublicID(ctx context.Context, publicID string) (*domain.File, error) {
	var (
		f         domain.File
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, SelectFileByPublicID, publicID).Scan(
		&f.PublicID,
		&f.PrivateID,

		&f.Email,
		&f.Label,
		&f.OriginalFilename,
		&f.FileExtension,
		&f.ContentType,
		&f.FileSize,

		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if f.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}

	return &f, nil
}

func (r *Repository) CreateFile(ctx context.Context, req *domain.File) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(
		ctx,
		InsertFile,
		req.PublicID, req.PrivateID, req.Email, req.Label, req.OriginalFilename,
		req.FileExtension, req.ContentType, req.FileSize, req.CreatedAt.UTC().Format(timeLayout),
	); err != nil {
		return fmt.Errorf("insert file: %w", err)
	}

	return tx.Commit()
}

func (r *Repository) DeleteFile(ctx context.Context, publicID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, DeleteFileByPublicID, publicID)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if n == 0 {
		return domain.NotFound("File not found")
	}

	return tx.Commit()
}

func (r *Repository) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }
