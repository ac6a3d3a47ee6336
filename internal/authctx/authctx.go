// Package authctx carries the authorized user of a request through its
// context.
package authctx

import (
	"context"

	"github.com/Dan9191/content-service/internal/models"
)

type userKey struct{}

// WithUser returns a copy of ctx carrying user
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// User returns the user stored by WithUser, or nil
func User(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey{}).(*models.User)
	return user
}
