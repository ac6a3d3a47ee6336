package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Dan9191/content-service/internal/authctx"
	"github.com/Dan9191/content-service/internal/models"
	"github.com/Dan9191/content-service/internal/service"
	"github.com/gorilla/csrf"
)

const (
	// multipartOverhead is allowed on top of the file ceiling for the
	// multipart envelope and other form fields
	multipartOverhead = 1 << 20
	// parseMemory is kept in memory while parsing, the rest spills to disk
	parseMemory = 8 << 20
)

type uploadResponse struct {
	Message string        `json:"message"`
	Media   *models.Media `json:"media"`
	URL     string        `json:"url"`
}

// UploadForm renders the upload page
func (h *Handler) UploadForm(w http.ResponseWriter, r *http.Request) {
	accept := make([]string, 0, len(h.cfg.AllowedExtensions))
	for _, ext := range h.cfg.AllowedExtensions {
		accept = append(accept, "."+ext)
	}
	h.render(w, uploadTemplate, http.StatusOK, uploadPageData{
		User:      authctx.User(r.Context()).Username,
		MaxBytes:  h.svc.MaxUploadSize(),
		Accept:    strings.Join(accept, ","),
		CSRFField: csrf.TemplateField(r),
	})
}

// parseUpload caps the request body and parses the multipart form before
// the CSRF check reads its token field, so the form is never parsed without
// the size limit.
func (h *Handler) parseUpload(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit := h.svc.MaxUploadSize() + multipartOverhead
		if r.ContentLength > limit {
			h.fail(w, r, service.ErrFileTooLarge)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)

		if err := r.ParseMultipartForm(parseMemory); err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.As(err, &tooLarge):
				h.fail(w, r, service.ErrFileTooLarge)
			case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
				h.fail(w, r, service.ErrNoFileSelected)
			default:
				writeError(w, http.StatusBadRequest, "invalid upload")
			}
			return
		}
		defer r.MultipartForm.RemoveAll()

		next.ServeHTTP(w, r)
	})
}

// Upload accepts a multipart file field named "file". The form has already
// been parsed by parseUpload.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		h.fail(w, r, service.ErrNoFileSelected)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer file.Close()

	media, err := h.svc.Upload(r.Context(), authctx.User(r.Context()), file, header.Filename, header.Size)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{
		Message: "File uploaded successfully",
		Media:   media,
		URL:     "/uploads/" + media.Filename,
	})
}
