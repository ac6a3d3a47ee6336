package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// contentRecord mirrors the field layout of models.Post and models.Page so
// either can be produced by a plain conversion.
type contentRecord struct {
	ID        int64
	Title     string
	Content   string
	CreatedAt time.Time
	AuthorID  int64
	Author    string
}

// contentTable holds the SQL shared by the posts and pages tables. table is
// always a package constant, never user input.
type contentTable struct {
	db    DBTX
	table string
	noun  string
}

func (t contentTable) selectQuery(where string) string {
	return fmt.Sprintf(`
		SELECT c.id, c.title, c.content, c.created_at, c.author_id, u.username
		FROM %s c
		JOIN users u ON u.id = c.author_id
		%s
		ORDER BY c.id`, t.table, where)
}

func (t contentTable) list(ctx context.Context) ([]contentRecord, error) {
	rows, err := t.db.QueryContext(ctx, t.selectQuery(""))
	if err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", t.noun, err)
	}
	defer rows.Close()

	records := []contentRecord{}
	for rows.Next() {
		var c contentRecord
		if err := rows.Scan(&c.ID, &c.Title, &c.Content, &c.CreatedAt, &c.AuthorID, &c.Author); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", t.noun, err)
		}
		records = append(records, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", t.noun, err)
	}
	return records, nil
}

func (t contentTable) get(ctx context.Context, id int64) (*contentRecord, error) {
	c := &contentRecord{}
	err := t.db.QueryRowContext(ctx, t.selectQuery("WHERE c.id = $1"), id).
		Scan(&c.ID, &c.Title, &c.Content, &c.CreatedAt, &c.AuthorID, &c.Author)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", t.noun, err)
	}
	return c, nil
}

func (t contentTable) create(ctx context.Context, c *contentRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (title, content, author_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`, t.table)
	err := t.db.QueryRowContext(ctx, query, c.Title, c.Content, c.AuthorID).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", t.noun, err)
	}
	return nil
}

// update never touches author_id or created_at
func (t contentTable) update(ctx context.Context, c *contentRecord) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, content = $2
		WHERE id = $3`, t.table)
	res, err := t.db.ExecContext(ctx, query, c.Title, c.Content, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", t.noun, err)
	}
	return checkAffected(res)
}

func (t contentTable) delete(ctx context.Context, id int64) error {
	res, err := t.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.table), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", t.noun, err)
	}
	return checkAffected(res)
}

func (t contentTable) count(ctx context.Context) (int, error) {
	var n int
	if err := t.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, t.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %ss: %w", t.noun, err)
	}
	return n, nil
}
