package service

import "errors"

var (
	// Authentication and authorization
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMissingCredentials = errors.New("username and password are required")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid token")

	// Upload validation
	ErrNoFileSelected      = errors.New("no file selected")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrInvalidFilename     = errors.New("invalid filename")

	// Admin input validation
	ErrTitleRequired = errors.New("title is required")
)
