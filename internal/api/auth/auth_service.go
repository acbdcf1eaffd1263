package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rfcorreia/go-identity-service/internal/store"
	"github.com/rfcorreia/go-identity-service/internal/types"
)

// Bootstrap admin created when the directory is empty at startup.
const (
	DefaultAdminEmail    = "admin@example.com"
	defaultAdminPassword = "admin123"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService implements the register, login and bootstrap use cases.
// Password hashes never leave this boundary: every return value is a
// sanitized PublicUser.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*types.PublicUser, error)

	// Login returns a signed token and the sanitized user. An unknown
	// email, an inactive account and a wrong password are
	// indistinguishable to the caller.
	Login(ctx context.Context, email, password string) (string, *types.PublicUser, error)

	// Bootstrap creates the default administrator when, and only when,
	// the directory is empty.
	Bootstrap(ctx context.Context) error
}

type AuthServiceImpl struct {
	logger *slog.Logger
	store  store.UserStore
	tokens *TokenService
}

func NewAuthService(userStore store.UserStore, tokens *TokenService, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		store:  userStore,
		tokens: tokens,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, req RegisterRequest) (*types.PublicUser, error) {
	if req.FullName == "" || req.BirthDate == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: fullName, birthDate, email and password are required", types.ErrValidation)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, types.User{
		FullName:     req.FullName,
		BirthDate:    req.BirthDate,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         types.RoleUser,
		IsActive:     true,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "User registered",
		slog.Int64("user_id", created.ID),
		slog.String("email", created.Email),
	)
	public := created.Public()
	return &public, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, *types.PublicUser, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", types.ErrValidation)
	}

	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return "", nil, fmt.Errorf("%w: login rejected", types.ErrUnauthenticated)
		}
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, fmt.Errorf("%w: login rejected", types.ErrUnauthenticated)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return "", nil, fmt.Errorf("%w: login rejected", types.ErrUnauthenticated)
	}

	token, err := s.tokens.Issue(types.Identity{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	})
	if err != nil {
		return "", nil, err
	}

	s.logger.InfoContext(ctx, "User logged in", slog.Int64("user_id", user.ID))
	public := user.Public()
	return token, &public, nil
}

func (s *AuthServiceImpl) Bootstrap(ctx context.Context) error {
	count, err := s.store.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := HashPassword(defaultAdminPassword)
	if err != nil {
		return err
	}

	admin, err := s.store.Create(ctx, types.User{
		FullName:     "Administrator",
		BirthDate:    "1990-01-01",
		Email:        DefaultAdminEmail,
		PasswordHash: hash,
		Role:         types.RoleAdmin,
		IsActive:     true,
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Default admin account created",
		slog.Int64("user_id", admin.ID),
		slog.String("email", admin.Email),
	)
	return nil
}
