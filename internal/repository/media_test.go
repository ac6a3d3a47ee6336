package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dan9191/content-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMediaRepository(db)
	at := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO media (filename, path, uploader_id) VALUES ($1, $2, $3) RETURNING id, uploaded_at")).
		WithArgs("cat.png", "static/uploads/cat.png", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "uploaded_at"}).AddRow(int64(10), at))

	m := &models.Media{Filename: "cat.png", Path: "static/uploads/cat.png", UploaderID: 1}
	require.NoError(t, repo.Create(context.Background(), m))
	assert.Equal(t, int64(10), m.ID)
	assert.Equal(t, at, m.UploadedAt)
}

func TestMediaGetAndCount(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMediaRepository(db)
	at := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM media WHERE id = $1")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "filename", "path", "uploader_id", "uploaded_at"}).
			AddRow(int64(10), "cat.png", "static/uploads/cat.png", int64(1), at))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM media")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(4)))

	m, err := repo.Get(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "cat.png", m.Filename)

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestMediaDelete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMediaRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM media WHERE id = $1")).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 10))
}
