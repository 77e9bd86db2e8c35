package session

import (
	"context"

	"github.com/Jigar634859/skyportal/internal/domain"
)

type userKey struct{}

// ContextWithUser attaches the authenticated caller of a single request.
func ContextWithUser(ctx context.Context, user domain.UserProfile) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

func UserFromContext(ctx context.Context) (domain.UserProfile, bool) {
	user, ok := ctx.Value(userKey{}).(domain.UserProfile)
	return user, ok
}

// Caller resolves the acting user: the request identity first, then the
// held user credential.
func (s *Store) Caller(ctx context.Context) (domain.UserProfile, bool) {
	if user, ok := UserFromContext(ctx); ok {
		return user, true
	}
	if s == nil {
		return domain.UserProfile{}, false
	}
	return s.CurrentUser()
}
