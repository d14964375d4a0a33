package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/catering-service/config"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/repository"
)

const (
	tokenIssuer = "catering-service"

	// Access and refresh tokens carry different audiences so one can never
	// stand in for the other, even when both secrets are equal.
	audienceAccess  = "catering-admin"
	audienceRefresh = "catering-admin-refresh"
)

// TokenService issues and checks admin console tokens.
type TokenService interface {
	GenerateTokenPair(ctx context.Context, user *model.User) (*dto.TokenPair, error)
	// ValidateAccessToken rejects revoked, expired and foreign tokens.
	ValidateAccessToken(ctx context.Context, tokenString string) (*dto.Claims, error)
	// ConsumeRefreshToken verifies a refresh token and removes it from the
	// store, so each refresh token is honoured once.
	ConsumeRefreshToken(ctx context.Context, tokenString string) (*dto.Claims, error)
	// InvalidateAccessToken revokes a token until it would have expired.
	InvalidateAccessToken(ctx context.Context, tokenString string) error
	InvalidateUserTokens(ctx context.Context, userID primitive.ObjectID) error
}

// TokenConfig holds the signing keys and lifetimes.
type TokenConfig struct {
	SecretKey        string
	RefreshSecretKey string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
}

// NewTokenConfigFromAuthConfig maps the auth settings onto a TokenConfig.
func NewTokenConfigFromAuthConfig(authConfig config.AuthConfig) TokenConfig {
	return TokenConfig{
		SecretKey:        authConfig.JWTSecretKey,
		RefreshSecretKey: authConfig.JWTRefreshSecret,
		AccessTokenTTL:   authConfig.AccessTokenTTL,
		RefreshTokenTTL:  authConfig.RefreshTokenTTL,
	}
}

// TokenServiceImpl signs HS256 tokens and keeps refresh and revocation
// digests in the token repository.
type TokenServiceImpl struct {
	access    signer
	refresh   signer
	tokenRepo repository.TokenRepositoryInterface
	now       func() time.Time
}

type signer struct {
	key      []byte
	ttl      time.Duration
	audience string
}

// NewTokenService creates a token service.
func NewTokenService(tokenRepo repository.TokenRepositoryInterface, cfg TokenConfig) TokenService {
	return &TokenServiceImpl{
		access:    signer{key: []byte(cfg.SecretKey), ttl: cfg.AccessTokenTTL, audience: audienceAccess},
		refresh:   signer{key: []byte(cfg.RefreshSecretKey), ttl: cfg.RefreshTokenTTL, audience: audienceRefresh},
		tokenRepo: tokenRepo,
		now:       time.Now,
	}
}

func (s *TokenServiceImpl) GenerateTokenPair(ctx context.Context, user *model.User) (*dto.TokenPair, error) {
	if user == nil || user.ID.IsZero() {
		return nil, errors.New("cannot issue tokens without a user id")
	}

	access, _, err := s.sign(s.access, user)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, refreshExpiry, err := s.sign(s.refresh, user)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	err = s.tokenRepo.Save(ctx, &model.StaffToken{
		UserID:    user.ID,
		Hash:      tokenHash(refresh),
		Kind:      model.TokenRefresh,
		ExpiresAt: refreshExpiry,
	})
	if err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &dto.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.access.ttl.Seconds()),
	}, nil
}

func (s *TokenServiceImpl) ValidateAccessToken(ctx context.Context, tokenString string) (*dto.Claims, error) {
	claims, err := s.parse(s.access, tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}
	revoked, err := s.tokenRepo.IsRevoked(ctx, tokenHash(tokenString))
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrTokenBlacklisted
	}
	return &claims.Claims, nil
}

func (s *TokenServiceImpl) ConsumeRefreshToken(ctx context.Context, tokenString string) (*dto.Claims, error) {
	claims, err := s.parse(s.refresh, tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}
	stored, err := s.tokenRepo.TakeRefresh(ctx, tokenHash(tokenString))
	if err != nil {
		return nil, fmt.Errorf("take refresh token: %w", err)
	}
	if stored == nil || stored.UserID != claims.UserID {
		return nil, ErrInvalidToken
	}
	return &claims.Claims, nil
}

// InvalidateAccessToken is a no-op for tokens that have already expired.
func (s *TokenServiceImpl) InvalidateAccessToken(ctx context.Context, tokenString string) error {
	claims, err := s.parse(s.access, tokenString)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return s.tokenRepo.Save(ctx, &model.StaffToken{
		UserID:    claims.UserID,
		Hash:      tokenHash(tokenString),
		Kind:      model.TokenRevoked,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

func (s *TokenServiceImpl) InvalidateUserTokens(ctx context.Context, userID primitive.ObjectID) error {
	return s.tokenRepo.DropRefresh(ctx, userID)
}

func tokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// sign issues a token for user. Every token gets a random ID so two tokens
// issued within the same second still differ; stored digests are unique.
func (s *TokenServiceImpl) sign(sg signer, user *model.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(sg.ttl)

	claims := &ClaimsWithJWT{
		Claims: dto.Claims{
			UserID: user.ID,
			Email:  user.Email,
			Name:   user.Name,
			Roles:  user.Roles,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   user.ID.Hex(),
			Audience:  jwt.ClaimStrings{sg.audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sg.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *TokenServiceImpl) parse(sg signer, tokenString string) (*ClaimsWithJWT, error) {
	claims := &ClaimsWithJWT{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return sg.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(sg.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
