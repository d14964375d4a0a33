package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/guttosm/catering-service/config"
	"github.com/guttosm/catering-service/internal/apperrors"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/repository"
)

// Staff sign-in errors. Their messages are safe to show the client.
var (
	ErrInvalidCredentials = apperrors.New(apperrors.CodeUnauthorized, "Invalid email or password")
	ErrInvalidToken       = apperrors.New(apperrors.CodeUnauthorized, "Invalid or expired token")
	ErrTokenBlacklisted   = apperrors.New(apperrors.CodeUnauthorized, "Token has been revoked")
	ErrUserExists         = apperrors.New(apperrors.CodeConflict, "user already exists")
)

type TokenPair = dto.TokenPair
type Claims = dto.Claims

// ClaimsWithJWT is the signed payload: staff identity plus registered claims.
type ClaimsWithJWT struct {
	dto.Claims
	jwt.RegisteredClaims
}

// AuthService signs kitchen staff in and out of the admin console.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*dto.TokenPair, *model.User, error)
	// RefreshToken trades a refresh token for a new pair. The old refresh
	// token stops working.
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenPair, error)
	ValidateToken(ctx context.Context, tokenString string) (*dto.Claims, error)
	// Logout revokes the access token and drops the refresh token. Both are
	// attempted even if one fails.
	Logout(ctx context.Context, accessToken, refreshToken string) error
	// EnsureAdmin creates the bootstrap admin account when no active admin exists.
	EnsureAdmin(ctx context.Context, email, password string) (bool, error)
}

// AuthServiceImpl checks passwords against the user store and leaves token
// bookkeeping to a TokenService.
type AuthServiceImpl struct {
	users  repository.UserRepositoryInterface
	tokens TokenService
}

func NewAuthService(users repository.UserRepositoryInterface, tokens repository.TokenRepositoryInterface, cfg config.AuthConfig) AuthService {
	return NewAuthServiceWithTokenService(users, NewTokenService(tokens, NewTokenConfigFromAuthConfig(cfg)))
}

func NewAuthServiceWithTokenService(users repository.UserRepositoryInterface, tokens TokenService) AuthService {
	return &AuthServiceImpl{users: users, tokens: tokens}
}

// decoyHash is compared against when the email is unknown so a miss costs
// the same bcrypt work as a wrong password.
var decoyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("decoy-password"), bcrypt.DefaultCost)
	return h
})

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*dto.TokenPair, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("find staff by email: %w", err)
	}

	hash := decoyHash()
	if user.CanSignIn() {
		hash = []byte(user.Password)
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil || !user.CanSignIn() {
		return nil, nil, ErrInvalidCredentials
	}

	// One live refresh token per staff member.
	if err := s.tokens.InvalidateUserTokens(ctx, user.ID); err != nil {
		return nil, nil, fmt.Errorf("drop previous refresh tokens: %w", err)
	}
	pair, err := s.tokens.GenerateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

func (s *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	claims, err := s.tokens.ConsumeRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("find staff by id: %w", err)
	}
	if !user.CanSignIn() {
		return nil, ErrInvalidCredentials
	}
	return s.tokens.GenerateTokenPair(ctx, user)
}

func (s *AuthServiceImpl) ValidateToken(ctx context.Context, tokenString string) (*dto.Claims, error) {
	return s.tokens.ValidateAccessToken(ctx, tokenString)
}

func (s *AuthServiceImpl) Logout(ctx context.Context, accessToken, refreshToken string) error {
	var errs []error
	if accessToken != "" {
		if err := s.tokens.InvalidateAccessToken(ctx, accessToken); err != nil {
			errs = append(errs, fmt.Errorf("revoke access token: %w", err))
		}
	}
	if refreshToken != "" {
		// A refresh token that is already gone needs no further work.
		if _, err := s.tokens.ConsumeRefreshToken(ctx, refreshToken); err != nil && !errors.Is(err, ErrInvalidToken) {
			errs = append(errs, fmt.Errorf("drop refresh token: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		log.Warn().Err(err).Msg("logout incomplete")
		return err
	}
	return nil
}

// EnsureAdmin reports whether it created an account. An existing active
// admin leaves the store untouched.
func (s *AuthServiceImpl) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, nil
	}

	admins, err := s.users.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if admins > 0 {
		return false, nil
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("find staff by email: %w", err)
	}
	if existing != nil {
		return false, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	username, _, _ := strings.Cut(email, "@")
	admin := &model.User{
		Email:    email,
		Username: username,
		Password: string(hash),
		Name:     "Administrator",
		Roles:    []string{model.RoleAdmin},
		Active:   true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}

	log.Info().Str("email", email).Msg("seeded admin account")
	return true, nil
}
