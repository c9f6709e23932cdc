package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"acai-backend/internal/config"
	"acai-backend/internal/domain"
	"acai-backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memUsers struct {
	byID    map[int64]*domain.User
	nextID  int64
	markErr error
}

func newMemUsers() *memUsers { return &memUsers{byID: map[int64]*domain.User{}} }

func (m *memUsers) Create(_ context.Context, p repository.CreateUserParams) (*domain.User, error) {
	m.nextID++
	u := &domain.User{ID: m.nextID, Name: p.Name, Email: p.Email, Role: p.Role, PasswordHash: p.PasswordHash, IsGoogle: p.IsGoogle}
	m.byID[u.ID] = u
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) MarkGoogle(_ context.Context, id int64) error {
	if m.markErr != nil {
		return m.markErr
	}
	if u, ok := m.byID[id]; ok {
		u.IsGoogle = true
		return nil
	}
	return repository.ErrNotFound
}

type stubVerifier struct {
	email string
	err   error
}

func (s stubVerifier) Verify(context.Context, string) (string, error) { return s.email, s.err }

func testAuth(users *memUsers) AuthService {
	return AuthService{
		Config: config.Config{
			JWTSecret:       "test-secret",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
			AdminEmail:      "dono@acai.test",
			AdminPassword:   "s3nha",
			AdminName:       "Dono",
		},
		Users: users,
	}
}

func TestEnsureAdminThenLogin(t *testing.T) {
	users := newMemUsers()
	svc := testAuth(users)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx))
	require.NoError(t, svc.EnsureAdmin(ctx))
	assert.Len(t, users.byID, 1)

	res, err := svc.Login(ctx, LoginInput{Email: " dono@acai.test ", Password: "s3nha"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, res.User.Role)

	tok, err := jwt.Parse(res.AccessToken, func(*jwt.Token) (interface{}, error) { return []byte("test-secret"), nil })
	require.NoError(t, err)
	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, "access", claims["token_type"])
	assert.Equal(t, "1", claims["sub"])
}

func TestLoginRejectsBadPassword(t *testing.T) {
	users := newMemUsers()
	svc := testAuth(users)
	require.NoError(t, svc.EnsureAdmin(context.Background()))

	_, err := svc.Login(context.Background(), LoginInput{Email: "dono@acai.test", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), LoginInput{Email: "ninguem@acai.test", Password: "s3nha"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	users := newMemUsers()
	svc := testAuth(users)
	ctx := context.Background()
	require.NoError(t, svc.EnsureAdmin(ctx))
	res, err := svc.Login(ctx, LoginInput{Email: "dono@acai.test", Password: "s3nha"})
	require.NoError(t, err)

	again, err := svc.Refresh(ctx, RefreshInput{RefreshToken: res.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, again.User.ID)

	_, err = svc.Refresh(ctx, RefreshInput{RefreshToken: res.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGoogleLoginOnlyForExistingUsers(t *testing.T) {
	users := newMemUsers()
	hash, _ := bcrypt.GenerateFromPassword([]byte("x"), bcrypt.MinCost)
	_, _ = users.Create(context.Background(), repository.CreateUserParams{Email: "gerente@acai.test", Role: domain.RoleManager, PasswordHash: ptr(string(hash))})

	svc := testAuth(users)
	svc.Google = stubVerifier{email: "gerente@acai.test"}
	res, err := svc.LoginWithGoogle(context.Background(), GoogleLoginInput{IDToken: "tok", Email: "forjado@acai.test"})
	require.NoError(t, err)
	assert.Equal(t, "gerente@acai.test", res.User.Email)
	assert.True(t, res.User.IsGoogle)

	svc.Google = stubVerifier{email: "estranho@gmail.com"}
	_, err = svc.LoginWithGoogle(context.Background(), GoogleLoginInput{IDToken: "tok"})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	svc.Google = stubVerifier{err: errors.New("expired")}
	_, err = svc.LoginWithGoogle(context.Background(), GoogleLoginInput{IDToken: "tok"})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGoogleLoginNeedsVerifier(t *testing.T) {
	users := newMemUsers()
	_, _ = users.Create(context.Background(), repository.CreateUserParams{Email: "dono@acai.test", Role: domain.RoleAdmin})

	svc := testAuth(users)
	_, err := svc.LoginWithGoogle(context.Background(), GoogleLoginInput{Email: "dono@acai.test"})
	assert.ErrorIs(t, err, ErrGoogleDisabled)
}

func TestGoogleLoginSurvivesFlagFailure(t *testing.T) {
	users := newMemUsers()
	users.markErr = errors.New("read-only replica")
	_, _ = users.Create(context.Background(), repository.CreateUserParams{Email: "dono@acai.test", Role: domain.RoleAdmin})

	svc := testAuth(users)
	svc.Logger = nil
	svc.Google = stubVerifier{email: "dono@acai.test"}
	res, err := svc.LoginWithGoogle(context.Background(), GoogleLoginInput{IDToken: "tok"})
	require.NoError(t, err)
	assert.False(t, res.User.IsGoogle)
	assert.NotEmpty(t, res.AccessToken)
}
