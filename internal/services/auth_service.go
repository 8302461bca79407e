package services

import (
	"context"
	"errors"
	"fmt"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
)

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo repositories.UserRepository
	tokens   *TokenIssuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, tokens *TokenIssuer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// RegisterUser creates an account for email. The repository hashes the
// password while persisting the user.
func (s *AuthService) RegisterUser(ctx context.Context, email, password string) (*models.User, error) {
	email = models.NormalizeEmail(email)

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, NewConflictError(MsgEmailExists)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user := &models.User{Email: email, Password: password}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, NewConflictError(MsgEmailExists)
		}
		zap.L().Error("Failed to register user", zap.String("email", email), zap.Error(err))
		return nil, NewUnexpectedError(err)
	}
	return user, nil
}

// LoginUser authenticates a user and returns a signed token if successful.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", NewBadRequestError(MsgInvalidCredentials)
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.ValidPassword(password) {
		return "", NewBadRequestError(MsgInvalidCredentials)
	}

	return s.tokens.Issue(user.ID)
}

// ValidateToken parses and validates a token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	return s.tokens.Validate(tokenString)
}
