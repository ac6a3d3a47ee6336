package models

import "time"

// Media represents an uploaded file stored under the upload directory
type Media struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	Path       string    `json:"-"` // server filesystem path, never sent to clients
	UploaderID int64     `json:"uploader_id"`
	UploadedAt time.Time `json:"uploaded_at"`
}
