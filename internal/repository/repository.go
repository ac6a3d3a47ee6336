package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dan9191/content-service/internal/models"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when no row matches the lookup
	ErrNotFound = errors.New("not found")
	// ErrUsernameTaken is returned when a unique username constraint is violated
	ErrUsernameTaken = errors.New("username already taken")
)

// pqUniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const pqUniqueViolation = "23505"

// DBTX is the subset of database/sql used by the repositories.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UserStore persists login accounts
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id int64) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// PostStore persists blog posts. Update never changes the owner.
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	Get(ctx context.Context, id int64) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// PageStore persists static pages. Update never changes the owner.
type PageStore interface {
	Create(ctx context.Context, page *models.Page) error
	Get(ctx context.Context, id int64) (*models.Page, error)
	List(ctx context.Context) ([]models.Page, error)
	Update(ctx context.Context, page *models.Page) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// MediaStore persists uploaded file records
type MediaStore interface {
	Create(ctx context.Context, media *models.Media) error
	Get(ctx context.Context, id int64) (*models.Media, error)
	List(ctx context.Context) ([]models.Media, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// Repository groups the PostgreSQL-backed stores
type Repository struct {
	Users *UserRepository
	Posts *PostRepository
	Pages *PageRepository
	Media *MediaRepository
}

// NewRepository initializes a new repository
func NewRepository(db DBTX) *Repository {
	return &Repository{
		Users: NewUserRepository(db),
		Posts: NewPostRepository(db),
		Pages: NewPageRepository(db),
		Media: NewMediaRepository(db),
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// checkAffected maps a zero-row update or delete to ErrNotFound
func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
