package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deskroute/deskroute/internal/domain"
	"github.com/deskroute/deskroute/internal/identity/jwt"
	"github.com/deskroute/deskroute/internal/identity/password"
	"github.com/google/uuid"
)

// Metric outcomes.
const (
	outcomeSuccess            = "success"
	outcomeEmailExists        = "email_exists"
	outcomeWeakPassword       = "weak_password"
	outcomeInvalidCredentials = "invalid_credentials"
	outcomeError              = "error"
)

// Service provides registration, login and token verification.
type Service struct {
	repo   Repository
	hasher *password.Hasher
	tokens *jwt.Service
}

// NewService creates a new identity service.
func NewService(repo Repository, hasher *password.Hasher, tokens *jwt.Service) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
	}
}

// RegisterInput is the validated registration request.
type RegisterInput struct {
	Email    string
	Password string
	Role     domain.Role
}

// RegisterOutput carries the created user and its access token.
type RegisterOutput struct {
	User        *domain.User
	AccessToken string
}

// Register creates a new account and issues an access token.
//
// Flow: normalize email, reject if an account exists, validate password
// strength, hash, insert. A concurrent registration losing the race on the
// unique email index surfaces the same ErrEmailExists as the pre-check.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	email := NormalizeEmail(input.Email)

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		recordSignup(outcomeError)
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		recordSignup(outcomeEmailExists)
		return nil, ErrEmailExists
	}

	if err := ValidatePassword(input.Password); err != nil {
		recordSignup(outcomeWeakPassword)
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		recordSignup(outcomeError)
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.DefaultRole
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailExists) {
			recordSignup(outcomeEmailExists)
			return nil, ErrEmailExists
		}
		recordSignup(outcomeError)
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.Email, user.Role)
	if err != nil {
		recordSignup(outcomeError)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	recordSignup(outcomeSuccess)
	return &RegisterOutput{User: user, AccessToken: token}, nil
}

// LoginInput is the validated login request.
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput carries the access token for an authenticated session.
type LoginOutput struct {
	AccessToken string
}

// Login authenticates an account and issues an access token. An unknown
// email and a wrong password both return ErrInvalidCredentials; callers
// cannot tell which check failed. The token role comes from the stored
// record, never from request input.
func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	email := NormalizeEmail(input.Email)

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			recordLogin(outcomeInvalidCredentials)
			return nil, ErrInvalidCredentials
		}
		recordLogin(outcomeError)
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		recordLogin(outcomeInvalidCredentials)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email, user.Role)
	if err != nil {
		recordLogin(outcomeError)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	recordLogin(outcomeSuccess)
	return &LoginOutput{AccessToken: token}, nil
}

// ValidateToken verifies an access token and returns its subject and role.
// Implements the httputil.TokenValidator interface.
func (s *Service) ValidateToken(_ context.Context, token string) (string, domain.Role, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return "", "", err
	}
	return claims.Subject, claims.Role, nil
}

// GetUserByEmail returns the user record for a normalized email.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.GetUserByEmail(ctx, NormalizeEmail(email))
}
