package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/content-service/internal/models"
)

// MediaRepository stores uploaded file records in PostgreSQL
type MediaRepository struct {
	db DBTX
}

// NewMediaRepository creates a media repository on db
func NewMediaRepository(db DBTX) *MediaRepository {
	return &MediaRepository{db: db}
}

// Create inserts a media record and fills in its ID and UploadedAt
func (r *MediaRepository) Create(ctx context.Context, media *models.Media) error {
	query := `
		INSERT INTO media (filename, path, uploader_id)
		VALUES ($1, $2, $3)
		RETURNING id, uploaded_at`
	err := r.db.QueryRowContext(ctx, query, media.Filename, media.Path, media.UploaderID).
		Scan(&media.ID, &media.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to create media: %w", err)
	}
	return nil
}

// Get retrieves a media record by id
func (r *MediaRepository) Get(ctx context.Context, id int64) (*models.Media, error) {
	query := `
		SELECT id, filename, path, uploader_id, uploaded_at
		FROM media
		WHERE id = $1`
	m := &models.Media{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.Filename, &m.Path, &m.UploaderID, &m.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find media: %w", err)
	}
	return m, nil
}

// List returns all media records ordered by id
func (r *MediaRepository) List(ctx context.Context) ([]models.Media, error) {
	query := `
		SELECT id, filename, path, uploader_id, uploaded_at
		FROM media
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	defer rows.Close()

	items := []models.Media{}
	for rows.Next() {
		var m models.Media
		if err := rows.Scan(&m.ID, &m.Filename, &m.Path, &m.UploaderID, &m.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan media: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	return items, nil
}

// Delete removes a media record by id
func (r *MediaRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}
	return checkAffected(res)
}

// Count returns the number of media records
func (r *MediaRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count media: %w", err)
	}
	return n, nil
}
