package service

import (
	"context"
	"log/slog"

	"splitledger/internal/auth"
	"splitledger/internal/models"
)

// AuthService handles account registration and login.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

// Register creates a new account and returns it with a session token.
func (s *AuthService) Register(ctx context.Context, username, password, firstName, lastName string) (*models.Account, string, error) {
	slog.Info("Register request", "username", username)

	if username == "" {
		return nil, "", auth.ErrInvalidCredentials
	}

	account, err := s.authenticator.Register(ctx, username, password, firstName, lastName)
	if err != nil {
		slog.Warn("Registration failed", "username", username, "error", err)
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(account)
	if err != nil {
		slog.Error("Failed to generate token", "account_id", account.ID, "error", err)
		return nil, "", err
	}

	slog.Info("Account registered", "account_id", account.ID, "username", account.Username)
	return account, token, nil
}

// Login authenticates an account and returns it with a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Account, string, error) {
	slog.Info("Login request", "username", username)

	if username == "" || password == "" {
		return nil, "", auth.ErrInvalidCredentials
	}

	account, err := s.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		slog.Warn("Login failed", "username", username, "error", err)
		return nil, "", auth.ErrInvalidCredentials
	}

	token, err := s.jwtManager.Generate(account)
	if err != nil {
		slog.Error("Failed to generate token", "account_id", account.ID, "error", err)
		return nil, "", err
	}

	slog.Info("Login successful", "account_id", account.ID, "username", account.Username)
	return account, token, nil
}
