package authctx

import (
	"context"
	"testing"

	"acai-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaffRoundTrip(t *testing.T) {
	_, ok := StaffFrom(context.Background())
	assert.False(t, ok)

	ctx := WithStaff(context.Background(), Staff{ID: 3, Email: "gerente@acai.test", Role: domain.RoleManager})
	s, ok := StaffFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(3), s.ID)
	assert.True(t, s.HasRole(domain.RoleAdmin, domain.RoleManager))
	assert.False(t, s.HasRole(domain.RoleAdmin))
	assert.True(t, s.HasRole())
}
