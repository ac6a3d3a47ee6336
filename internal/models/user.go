package models

// User represents an account that can log in to the admin panel
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // Not serialized
	IsAdmin      bool   `json:"is_admin"`
}

// UserInput is an admin create or edit of a user. On edit, an empty Username
// or a nil IsAdmin keeps the stored value; Password is only read on create.
type UserInput struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	IsAdmin  *bool  `json:"is_admin,omitempty"`
}
