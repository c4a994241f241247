package auth

import (
	"context"
	"errors"
)

// UserContext carries the authenticated identity through a request
type UserContext struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

// IsAdmin reports whether the identity carries the admin role
func (u *UserContext) IsAdmin() bool {
	return u.Role == "admin"
}

type contextKey struct{}

// ErrNoUserInContext is returned when a request carries no identity
var ErrNoUserInContext = errors.New("no user in context")

// SetUserInContext attaches the identity to the context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// GetUserFromContext extracts the identity set by the auth middleware
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(contextKey{}).(*UserContext)
	if !ok || user == nil {
		return nil, ErrNoUserInContext
	}
	return user, nil
}
