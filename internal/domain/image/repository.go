package image

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines catalog data access. Each operation is independently
// atomic against the store; there are no cross-operation transactions.
type Repository interface {
	ListAll(ctx context.Context) ([]*ImageRecord, error)
	Search(ctx context.Context, query string) ([]*ImageRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ImageRecord, error)
	GetBySlug(ctx context.Context, slug string) (*ImageRecord, error)
	Create(ctx context.Context, record *ImageRecord) (uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementDownloadCount(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
	TotalDownloads(ctx context.Context) (int64, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new image repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListAll(ctx context.Context) ([]*ImageRecord, error) {
	query := `SELECT * FROM images ORDER BY created_at DESC`
	var records []*ImageRecord
	err := r.db.SelectContext(ctx, &records, query)
	return records, err
}

func (r *repository) Search(ctx context.Context, q string) ([]*ImageRecord, error) {
	query := `
		SELECT * FROM images
		WHERE title ILIKE $1
		   OR description ILIKE $1
		   OR category ILIKE $1
		   OR EXISTS (SELECT 1 FROM unnest(keywords) AS kw WHERE kw ILIKE $1)
		ORDER BY created_at DESC
	`
	var records []*ImageRecord
	err := r.db.SelectContext(ctx, &records, query, "%"+q+"%")
	return records, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*ImageRecord, error) {
	query := `SELECT * FROM images WHERE id = $1`
	var record ImageRecord
	err := r.db.GetContext(ctx, &record, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetBySlug returns the first match only; slug collisions are resolved
// silently in favor of the newest record.
func (r *repository) GetBySlug(ctx context.Context, slug string) (*ImageRecord, error) {
	query := `SELECT * FROM images WHERE slug = $1 ORDER BY created_at DESC LIMIT 1`
	var record ImageRecord
	err := r.db.GetContext(ctx, &record, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) Create(ctx context.Context, record *ImageRecord) (uuid.UUID, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt == 0 {
		record.CreatedAt = time.Now().UnixMilli()
	}
	query := `
		INSERT INTO images (id, url, thumbnail_url, delete_url, title, description, category, keywords, slug, author, created_at, download_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.URL,
		record.ThumbnailURL,
		record.DeleteURL,
		record.Title,
		record.Description,
		record.Category,
		record.Keywords,
		record.Slug,
		record.Author,
		record.CreatedAt,
		record.DownloadCount,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM images WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// IncrementDownloadCount bumps the counter in the database, not via
// read-modify-write, so concurrent downloads cannot lose updates.
func (r *repository) IncrementDownloadCount(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE images SET download_count = download_count + 1 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *repository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM images`
	var count int
	err := r.db.GetContext(ctx, &count, query)
	return count, err
}

func (r *repository) TotalDownloads(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(SUM(download_count), 0) FROM images`
	var total int64
	err := r.db.GetContext(ctx, &total, query)
	return total, err
}
