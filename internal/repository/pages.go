package repository

import (
	"context"

	"github.com/Dan9191/content-service/internal/models"
)

// PageRepository stores pages in PostgreSQL
type PageRepository struct {
	t contentTable
}

// NewPageRepository creates a page repository on db
func NewPageRepository(db DBTX) *PageRepository {
	return &PageRepository{t: contentTable{db: db, table: "pages", noun: "page"}}
}

// Create inserts page and fills in its ID and CreatedAt
func (r *PageRepository) Create(ctx context.Context, page *models.Page) error {
	rec := contentRecord(*page)
	if err := r.t.create(ctx, &rec); err != nil {
		return err
	}
	page.ID, page.CreatedAt = rec.ID, rec.CreatedAt
	return nil
}

// Get retrieves a page with its author's username
func (r *PageRepository) Get(ctx context.Context, id int64) (*models.Page, error) {
	rec, err := r.t.get(ctx, id)
	if err != nil {
		return nil, err
	}
	page := models.Page(*rec)
	return &page, nil
}

// List returns all pages ordered by id
func (r *PageRepository) List(ctx context.Context) ([]models.Page, error) {
	recs, err := r.t.list(ctx)
	if err != nil {
		return nil, err
	}
	pages := make([]models.Page, len(recs))
	for i, rec := range recs {
		pages[i] = models.Page(rec)
	}
	return pages, nil
}

// Update saves title and content; the owner is left as stored
func (r *PageRepository) Update(ctx context.Context, page *models.Page) error {
	rec := contentRecord(*page)
	return r.t.update(ctx, &rec)
}

// Delete removes a page by id
func (r *PageRepository) Delete(ctx context.Context, id int64) error {
	return r.t.delete(ctx, id)
}

// Count returns the number of pages
func (r *PageRepository) Count(ctx context.Context) (int, error) {
	return r.t.count(ctx)
}
