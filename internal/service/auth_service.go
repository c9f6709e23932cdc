package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"acai-backend/internal/config"
	"acai-backend/internal/domain"
	"acai-backend/internal/repository"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotAuthorized      = errors.New("account not authorized")
	ErrGoogleDisabled     = errors.New("google sign-in is not configured")
)

// UserStore is the subset of the user repository the auth flow needs.
type UserStore interface {
	Create(ctx context.Context, p repository.CreateUserParams) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	MarkGoogle(ctx context.Context, id int64) error
}

// TokenVerifier checks a federated ID token and returns the verified email.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (email string, err error)
}

type AuthService struct {
	Config config.Config
	Users  UserStore
	Logger *slog.Logger
	Google TokenVerifier
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         domain.User
	ExpiresAt    time.Time
}

type LoginInput struct {
	Email    string
	Password string
}

type GoogleLoginInput struct {
	IDToken string
	Email   string
	Name    string
}

type RefreshInput struct {
	RefreshToken string
}

// EnsureAdmin creates the bootstrap administrator when it does not exist.
// It is a no-op when no admin credentials are configured.
func (s AuthService) EnsureAdmin(ctx context.Context) error {
	email := strings.TrimSpace(s.Config.AdminEmail)
	if email == "" || s.Config.AdminPassword == "" {
		return nil
	}
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s.Config.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.Users.Create(ctx, repository.CreateUserParams{
		Name:         s.Config.AdminName,
		Email:        email,
		Role:         domain.RoleAdmin,
		PasswordHash: ptr(string(hash)),
	})
	if err != nil && !repository.IsDuplicate(err) {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("bootstrap admin ensured", "email", email)
	}
	return nil
}

func (s AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.Users.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

// LoginWithGoogle signs in an existing back-office user with a Google or
// Firebase ID token. Only the verified email counts; unknown emails are
// rejected and nobody self-registers.
func (s AuthService) LoginWithGoogle(ctx context.Context, in GoogleLoginInput) (*AuthResult, error) {
	if s.Google == nil {
		return nil, ErrGoogleDisabled
	}
	email, err := s.Google.Verify(ctx, in.IDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotAuthorized
		}
		return nil, err
	}
	if !user.IsGoogle {
		if err := s.Users.MarkGoogle(ctx, user.ID); err != nil {
			if s.Logger != nil {
				s.Logger.Warn("failed to flag google account", "user_id", user.ID, "err", err)
			}
		} else {
			user.IsGoogle = true
		}
	}
	return s.issueTokens(user)
}

func (s AuthService) Refresh(ctx context.Context, in RefreshInput) (*AuthResult, error) {
	token, err := jwt.Parse(in.RefreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.Config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if claims["token_type"] != "refresh" {
		return nil, ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return s.issueTokens(user)
}

// Session returns the user behind an authenticated request.
func (s AuthService) Session(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (s AuthService) issueTokens(user *domain.User) (*AuthResult, error) {
	now := time.Now()
	accessExp := now.Add(s.Config.AccessTokenTTL)
	refreshExp := now.Add(s.Config.RefreshTokenTTL)

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        fmt.Sprintf("%d", user.ID),
		"email":      user.Email,
		"role":       user.Role,
		"token_type": "access",
		"exp":        accessExp.Unix(),
		"iat":        now.Unix(),
	}).SignedString([]byte(s.Config.JWTSecret))
	if err != nil {
		return nil, err
	}

	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        fmt.Sprintf("%d", user.ID),
		"token_type": "refresh",
		"exp":        refreshExp.Unix(),
		"iat":        now.Unix(),
	}).SignedString([]byte(s.Config.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         *user,
		ExpiresAt:    accessExp,
	}, nil
}

// FirebaseVerifier validates Firebase Auth ID tokens.
type FirebaseVerifier struct {
	Client *fbauth.Client
}

func (v FirebaseVerifier) Verify(ctx context.Context, idToken string) (string, error) {
	tok, err := v.Client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}
	email, _ := tok.Claims["email"].(string)
	return email, nil
}

// GoogleIDVerifier validates plain Google ID tokens for an OAuth client.
type GoogleIDVerifier struct {
	ClientID string
}

func (v GoogleIDVerifier) Verify(ctx context.Context, idToken string) (string, error) {
	payload, err := idtoken.Validate(ctx, idToken, v.ClientID)
	if err != nil {
		return "", err
	}
	email, _ := payload.Claims["email"].(string)
	return email, nil
}

func ptr[T any](v T) *T { return &v }
