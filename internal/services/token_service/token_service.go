package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lightbox/internal/domain/models"
	"lightbox/internal/lib/jwt"
	"lightbox/internal/lib/logger/sl"
	"lightbox/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenNotInStorage = errors.New("token not found in storage")
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

type TokenService struct {
	log        *slog.Logger
	repo       repository.TokenRepository
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(log *slog.Logger, repo repository.TokenRepository, secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}

	return &TokenService{
		log:        log,
		repo:       repo,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateTokens выпускает пару и сохраняет refresh-токен в redis
func (s *TokenService) GenerateTokens(ctx context.Context, user models.User) (*models.TokenPair, error) {
	const op = "services.TokenService.GenerateTokens"

	log := s.log.With(slog.String("op", op), slog.String("user_id", user.ID.String()))

	accessToken, err := jwt.NewToken(user, s.secret, s.accessTTL)
	if err != nil {
		log.Error("failed to sign access token", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := jwt.NewToken(user, s.secret, s.refreshTTL)
	if err != nil {
		log.Error("failed to sign refresh token", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.SaveRefreshToken(ctx, user.ID.String(), refreshToken, s.refreshTTL); err != nil {
		log.Error("failed to save refresh token", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshTokens проверяет refresh-токен, удаляет его и выпускает новую пару
func (s *TokenService) RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	const op = "services.TokenService.RefreshTokens"

	log := s.log.With(slog.String("op", op))

	claims, err := jwt.ParseToken(refreshToken, s.secret)
	if err != nil {
		log.Warn("refresh token rejected", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	userID := claims.UserID.String()

	exists, err := s.repo.GetRefreshToken(ctx, userID, refreshToken)
	if err != nil {
		log.Error("failed to read refresh token", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		log.Warn("refresh token not in storage", slog.String("user_id", userID))
		return nil, fmt.Errorf("%s: %w", op, ErrTokenNotInStorage)
	}

	if err := s.repo.DeleteRefreshToken(ctx, userID, refreshToken); err != nil {
		log.Error("failed to delete refresh token", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GenerateTokens(ctx, models.User{
		ID:      claims.UserID,
		Email:   claims.Email,
		IsAdmin: claims.IsAdmin,
	})
}

// RevokeAll выход со всех устройств
func (s *TokenService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	const op = "services.TokenService.RevokeAll"

	if err := s.repo.DeleteAllUserTokens(ctx, userID.String()); err != nil {
		s.log.Error("failed to revoke tokens", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
