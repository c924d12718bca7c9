package accounts

import (
	"context"

	"github.com/goliatone/go-router"
)

// UserLocalsKey is the router locals key the Protected middleware stores the
// resolved account under.
const UserLocalsKey = "current_user"

var userCtxKey = &contextKey{"user"}

type contextKey struct {
	name string
}

// WithContext sets the User in the given context
func WithContext(r context.Context, user *User) context.Context {
	return context.WithValue(r, userCtxKey, user)
}

// FromContext finds the user from the context.
func FromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok
}

// CurrentUser extracts the resolved account from the router context
func CurrentUser(ctx router.Context) (*User, bool) {
	raw := ctx.Locals(UserLocalsKey)
	if raw == nil {
		return nil, false
	}
	user, ok := raw.(*User)
	return user, ok
}
