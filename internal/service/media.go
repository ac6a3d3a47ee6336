package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Dan9191/content-service/internal/models"
	"github.com/Dan9191/content-service/internal/utils"
	"github.com/sirupsen/logrus"
)

// maxNameAttempts bounds the suffixes tried when a stored name is taken
const maxNameAttempts = 100

// AllowedExtension reports whether ext (without dot) may be uploaded
func (s *Service) AllowedExtension(ext string) bool {
	return s.allowed[strings.ToLower(ext)]
}

// MaxUploadSize returns the upload ceiling in bytes
func (s *Service) MaxUploadSize() int64 {
	return s.config.MaxContentLength
}

// Upload validates an incoming file, writes it under the upload folder and
// records it as a Media row owned by uploader. size is the size declared by
// the client; the stream is also capped while copying. If the row cannot be
// inserted the written file is removed again.
func (s *Service) Upload(ctx context.Context, uploader *models.User, file io.Reader, filename string, size int64) (*models.Media, error) {
	if filename == "" {
		return nil, ErrNoFileSelected
	}
	if !s.AllowedExtension(utils.Extension(filename)) {
		return nil, ErrUnsupportedFileType
	}
	if size > s.config.MaxContentLength {
		return nil, ErrFileTooLarge
	}

	name := utils.SecureFilename(filename)
	if name == "" || !s.AllowedExtension(utils.Extension(name)) {
		return nil, ErrInvalidFilename
	}

	dst, path, err := s.createUnique(name)
	if err != nil {
		return nil, err
	}

	n, err := io.Copy(dst, io.LimitReader(file, s.config.MaxContentLength+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err == nil && n > s.config.MaxContentLength {
		err = ErrFileTooLarge
	}
	if err != nil {
		s.removeFile(path)
		if errors.Is(err, ErrFileTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	media := &models.Media{
		Filename:   filepath.Base(path),
		Path:       path,
		UploaderID: uploader.ID,
	}
	if err := s.stores.Media.Create(ctx, media); err != nil {
		s.removeFile(path)
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":  uploader.ID,
		"media_id": media.ID,
		"filename": media.Filename,
		"bytes":    n,
	}).Info("File uploaded")
	return media, nil
}

// createUnique opens a new file for name inside the upload folder. A name
// already on disk gets a numeric suffix so no existing Media row loses its
// file.
func (s *Service) createUnique(name string) (*os.File, string, error) {
	dir := filepath.Clean(s.config.UploadFolder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 0; i < maxNameAttempts; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
		}
		path := filepath.Join(dir, candidate)
		if filepath.Dir(path) != dir {
			return nil, "", ErrInvalidFilename
		}

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file: %w", err)
		}
		return f, path, nil
	}
	return nil, "", fmt.Errorf("failed to create file: too many uploads named %q", name)
}

func (s *Service) removeFile(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.WithError(err).WithField("path", path).Error("Failed to remove upload")
	}
}

// MediaAdmin exposes media records to the admin panel. Deleting a record
// also removes its file.
type MediaAdmin struct {
	s *Service
}

// MediaAdmin returns the admin adapter for media
func (s *Service) MediaAdmin() *MediaAdmin {
	return &MediaAdmin{s: s}
}

// List returns all media records
func (m *MediaAdmin) List(ctx context.Context) ([]models.Media, error) {
	return m.s.stores.Media.List(ctx)
}

// Get returns one media record
func (m *MediaAdmin) Get(ctx context.Context, id int64) (*models.Media, error) {
	return m.s.stores.Media.Get(ctx, id)
}

// Delete removes the media row and then its file
func (m *MediaAdmin) Delete(ctx context.Context, id int64) error {
	media, err := m.s.stores.Media.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := m.s.stores.Media.Delete(ctx, id); err != nil {
		return err
	}
	if m.s.insideUploads(media.Path) {
		m.s.removeFile(media.Path)
	}
	return nil
}

func (s *Service) insideUploads(path string) bool {
	return filepath.Dir(filepath.Clean(path)) == filepath.Clean(s.config.UploadFolder)
}
