package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dan9191/content-service/internal/models"
	"github.com/Dan9191/content-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var uploader = &models.User{ID: 1, Username: "admin", IsAdmin: true}

func upload(svc *Service, name string, body []byte) (*models.Media, error) {
	return svc.Upload(context.Background(), uploader, bytes.NewReader(body), name, int64(len(body)))
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestUpload_Success(t *testing.T) {
	svc, store := newTestService(t)

	media, err := upload(svc, "cat.png", []byte("png bytes"))
	require.NoError(t, err)

	assert.Equal(t, "cat.png", media.Filename)
	assert.Equal(t, filepath.Join(svc.config.UploadFolder, "cat.png"), media.Path)
	assert.Equal(t, uploader.ID, media.UploaderID)

	data, err := os.ReadFile(media.Path)
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(data))

	n, err := store.Media().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUpload_NoFileSelected(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := upload(svc, "", []byte("x"))
	assert.ErrorIs(t, err, ErrNoFileSelected)
}

func TestUpload_UnsupportedFileType(t *testing.T) {
	svc, _ := newTestService(t)
	for _, name := range []string{"virus.exe", "README", "photo.png.exe", "trailing."} {
		_, err := upload(svc, name, []byte("x"))
		assert.ErrorIs(t, err, ErrUnsupportedFileType, name)
	}
	assert.Empty(t, dirEntries(t, svc.config.UploadFolder))
}

func TestUpload_ExtensionCaseInsensitive(t *testing.T) {
	svc, _ := newTestService(t)
	media, err := upload(svc, "SHOUT.JPG", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "SHOUT.JPG", media.Filename)
}

func TestUpload_DeclaredSizeTooLarge(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.Upload(context.Background(), uploader, strings.NewReader("small"), "big.png", 20*1024*1024)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	assert.Empty(t, dirEntries(t, svc.config.UploadFolder))
	n, _ := store.Media().Count(context.Background())
	assert.Zero(t, n)
}

func TestUpload_StreamLongerThanDeclared(t *testing.T) {
	svc, store := newTestService(t)
	svc.config.MaxContentLength = 8

	_, err := svc.Upload(context.Background(), uploader, bytes.NewReader(make([]byte, 64)), "liar.png", 4)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	assert.Empty(t, dirEntries(t, svc.config.UploadFolder))
	n, _ := store.Media().Count(context.Background())
	assert.Zero(t, n)
}

func TestUpload_ExactlyAtCeiling(t *testing.T) {
	svc, _ := newTestService(t)
	svc.config.MaxContentLength = 8

	_, err := upload(svc, "edge.gif", make([]byte, 8))
	assert.NoError(t, err)
}

func TestUpload_PathTraversalIsSanitized(t *testing.T) {
	svc, _ := newTestService(t)

	media, err := upload(svc, "../../etc/passwd.png", []byte("x"))
	require.NoError(t, err)

	assert.Equal(t, "etc_passwd.png", media.Filename)
	assert.False(t, strings.ContainsAny(media.Filename, `/\`))
	assert.Equal(t, filepath.Clean(svc.config.UploadFolder), filepath.Dir(media.Path))
	assert.Equal(t, []string{"etc_passwd.png"}, dirEntries(t, svc.config.UploadFolder))
}

func TestUpload_NameThatSanitizesAway(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := upload(svc, "../.png", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidFilename)
	assert.Empty(t, dirEntries(t, svc.config.UploadFolder))
}

func TestUpload_DuplicateNameGetsSuffix(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := upload(svc, "cat.png", []byte("one"))
	require.NoError(t, err)
	second, err := upload(svc, "cat.png", []byte("two"))
	require.NoError(t, err)

	assert.Equal(t, "cat.png", first.Filename)
	assert.Equal(t, "cat_1.png", second.Filename)

	data, err := os.ReadFile(first.Path)
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
}

func TestUpload_DatabaseFailureLeavesNoFile(t *testing.T) {
	svc, store := newTestService(t)
	store.MediaCreateErr = errors.New("insert failed")

	_, err := upload(svc, "cat.png", []byte("x"))
	require.Error(t, err)

	assert.Empty(t, dirEntries(t, svc.config.UploadFolder))
}

func TestUpload_WriteFailureCreatesNoRow(t *testing.T) {
	svc, store := newTestService(t)
	// a regular file where the upload directory should be
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	svc.config.UploadFolder = blocker

	_, err := upload(svc, "cat.png", []byte("x"))
	require.Error(t, err)

	n, _ := store.Media().Count(context.Background())
	assert.Zero(t, n)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestUpload_ReadFailureRemovesPartialFile(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.Upload(context.Background(), uploader, failingReader{}, "cat.png", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write upload")

	assert.Empty(t, dirEntries(t, svc.config.UploadFolder))
	n, _ := store.Media().Count(context.Background())
	assert.Zero(t, n)
}

func TestMediaAdmin_DeleteRemovesRowAndFile(t *testing.T) {
	svc, _ := newTestService(t)
	media, err := upload(svc, "cat.png", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, svc.MediaAdmin().Delete(context.Background(), media.ID))

	_, err = svc.MediaAdmin().Get(context.Background(), media.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = os.Stat(media.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestMediaAdmin_DeleteMissing(t *testing.T) {
	svc, _ := newTestService(t)
	assert.ErrorIs(t, svc.MediaAdmin().Delete(context.Background(), 77), repository.ErrNotFound)
}
