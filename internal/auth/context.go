package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/user"
)

// Identity is the authenticated operator of a request.
type Identity struct {
	UserID uuid.UUID
	Role   user.Role
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// UserID returns the caller's ID, or uuid.Nil outside Middleware.
func UserID(ctx context.Context) uuid.UUID {
	id, _ := FromContext(ctx)
	return id.UserID
}
