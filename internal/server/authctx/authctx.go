// Package authctx carries the signed-in back-office user through a request.
package authctx

import (
	"context"

	"acai-backend/internal/domain"
)

type staffKey struct{}

// Staff is the back-office user named by a verified access token.
type Staff struct {
	ID    int64
	Email string
	Role  domain.UserRole
}

// HasRole reports whether the user holds any of roles. No roles means any
// signed-in user.
func (s Staff) HasRole(roles ...domain.UserRole) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}

func WithStaff(ctx context.Context, s Staff) context.Context {
	return context.WithValue(ctx, staffKey{}, s)
}

// StaffFrom returns the user stored by WithStaff.
func StaffFrom(ctx context.Context) (Staff, bool) {
	s, ok := ctx.Value(staffKey{}).(Staff)
	return s, ok
}
