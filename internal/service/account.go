package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cartelera/cartelera/internal/domain"
	"github.com/cartelera/cartelera/internal/store"
	"github.com/cartelera/cartelera/internal/validate"
	"github.com/cartelera/cartelera/pkg/cryptox"
	"github.com/cartelera/cartelera/pkg/idx"
	"github.com/cartelera/cartelera/pkg/jwtx"
	"github.com/cartelera/cartelera/pkg/slogx"
)

var (
	// ErrDuplicateIdentity reports a registration with a name that is
	// already taken.
	ErrDuplicateIdentity = errors.New("identity name already registered")

	// ErrInvalidCredentials reports a failed login. Absent user and wrong
	// password both map here so responses carry no user-enumeration oracle.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries every field violation found in a payload.
type ValidationError struct {
	Violations []validate.Violation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d violation(s)", len(e.Violations))
}

// AccountService orchestrates registration and login: input validation,
// credential hashing, persistence and token issuance.
type AccountService struct {
	Store  store.Store
	Rules  *validate.Rules
	Signer *jwtx.Signer
}

// Register creates a new identity and returns a signed token for it.
//
// The existing-name check and the insert are not transactional; two
// concurrent registrations can both pass the check. The users table's
// uniqueness constraint resolves that race, and the resulting store
// conflict maps to ErrDuplicateIdentity as well.
func (s *AccountService) Register(ctx context.Context, in validate.RegisterInput) (string, error) {
	log := slogx.FromContext(ctx)

	norm, violations := s.Rules.Registration(in)
	if len(violations) > 0 {
		return "", &ValidationError{Violations: violations}
	}

	_, err := s.Store.Users().GetUserByName(ctx, norm.Name)
	if err == nil {
		log.Warn("registration attempted with taken name", slog.String("name", norm.Name))
		return "", ErrDuplicateIdentity
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to look up user", slog.Any("error", err))
		return "", fmt.Errorf("looking up user: %w", err)
	}

	hash, err := cryptox.HashPassword(norm.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return "", fmt.Errorf("hashing password: %w", err)
	}

	user := domain.User{
		ID:           idx.New().String(),
		Name:         norm.Name,
		Email:        norm.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("registration lost uniqueness race", slog.String("name", norm.Name))
			return "", ErrDuplicateIdentity
		}
		log.Error("failed to create user", slog.Any("error", err))
		return "", fmt.Errorf("creating user: %w", err)
	}

	token, err := s.Signer.Issue(user.Name, user.Email)
	if err != nil {
		log.Error("failed to issue token", slog.Any("error", err))
		return "", fmt.Errorf("issuing token: %w", err)
	}

	log.Debug("user registered", slog.String("user_id", user.ID), slog.String("name", user.Name))
	return token, nil
}

// Login verifies credentials and returns a fresh signed token.
func (s *AccountService) Login(ctx context.Context, in validate.LoginInput) (string, error) {
	log := slogx.FromContext(ctx)

	norm, violations := s.Rules.Login(in)
	if len(violations) > 0 {
		return "", &ValidationError{Violations: violations}
	}

	user, err := s.Store.Users().GetUserByName(ctx, norm.Name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("login attempted for unknown name", slog.String("name", norm.Name))
			return "", ErrInvalidCredentials
		}
		log.Error("failed to look up user", slog.Any("error", err))
		return "", fmt.Errorf("looking up user: %w", err)
	}

	// A corrupt stored hash also lands here: verification failures of any
	// kind degrade to access denied, never to a crash or a distinct error.
	if err := cryptox.VerifyPassword(norm.Password, user.PasswordHash); err != nil {
		log.Info("login password verification failed",
			slog.String("name", norm.Name), slog.Any("error", err))
		return "", ErrInvalidCredentials
	}

	token, err := s.Signer.Issue(user.Name, user.Email)
	if err != nil {
		log.Error("failed to issue token", slog.Any("error", err))
		return "", fmt.Errorf("issuing token: %w", err)
	}

	return token, nil
}
