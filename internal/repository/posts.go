package repository

import (
	"context"

	"github.com/Dan9191/content-service/internal/models"
)

// PostRepository stores posts in PostgreSQL
type PostRepository struct {
	t contentTable
}

// NewPostRepository creates a post repository on db
func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{t: contentTable{db: db, table: "posts", noun: "post"}}
}

// Create inserts post and fills in its ID and CreatedAt
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	rec := contentRecord(*post)
	if err := r.t.create(ctx, &rec); err != nil {
		return err
	}
	post.ID, post.CreatedAt = rec.ID, rec.CreatedAt
	return nil
}

// Get retrieves a post with its author's username
func (r *PostRepository) Get(ctx context.Context, id int64) (*models.Post, error) {
	rec, err := r.t.get(ctx, id)
	if err != nil {
		return nil, err
	}
	post := models.Post(*rec)
	return &post, nil
}

// List returns all posts ordered by id
func (r *PostRepository) List(ctx context.Context) ([]models.Post, error) {
	recs, err := r.t.list(ctx)
	if err != nil {
		return nil, err
	}
	posts := make([]models.Post, len(recs))
	for i, rec := range recs {
		posts[i] = models.Post(rec)
	}
	return posts, nil
}

// Update saves title and content; the owner is left as stored
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	rec := contentRecord(*post)
	return r.t.update(ctx, &rec)
}

// Delete removes a post by id
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	return r.t.delete(ctx, id)
}

// Count returns the number of posts
func (r *PostRepository) Count(ctx context.Context) (int, error) {
	return r.t.count(ctx)
}
