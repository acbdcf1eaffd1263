package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rfcorreia/go-identity-service/internal/api/auth"
	"github.com/rfcorreia/go-identity-service/internal/store"
	"github.com/rfcorreia/go-identity-service/internal/types"
)

var _ UserService = (*UserServiceImpl)(nil)

// UserService implements the authenticated user-record use cases. Each
// operation gates on the access decisions before touching the
// directory, and only sanitized records leave it.
type UserService interface {
	// GetUserByID returns types.ErrForbidden unless the identity is an
	// admin or the record's owner, and types.ErrNotFound for an
	// unknown ID.
	GetUserByID(ctx context.Context, identity types.Identity, id int64) (*types.PublicUser, error)

	// ListUsers is admin-only.
	ListUsers(ctx context.Context, identity types.Identity) ([]types.PublicUser, error)

	// BlockUser flips the record inactive. Blocking an already blocked
	// user succeeds. Same access rule as GetUserByID.
	BlockUser(ctx context.Context, identity types.Identity, id int64) error
}

type UserServiceImpl struct {
	logger *slog.Logger
	store  store.UserStore
}

func NewUserService(userStore store.UserStore, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		logger: logger,
		store:  userStore,
	}
}

func (s *UserServiceImpl) GetUserByID(ctx context.Context, identity types.Identity, id int64) (*types.PublicUser, error) {
	if !auth.CanReadUser(identity, id) {
		return nil, fmt.Errorf("%w: user %d may not read user %d", types.ErrForbidden, identity.ID, id)
	}

	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, identity types.Identity) ([]types.PublicUser, error) {
	if !auth.CanListUsers(identity) {
		return nil, fmt.Errorf("%w: admin role required", types.ErrForbidden)
	}

	users, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	public := make([]types.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	return public, nil
}

func (s *UserServiceImpl) BlockUser(ctx context.Context, identity types.Identity, id int64) error {
	if !auth.CanBlockUser(identity, id) {
		return fmt.Errorf("%w: user %d may not block user %d", types.ErrForbidden, identity.ID, id)
	}

	if err := s.store.Deactivate(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "User blocked",
		slog.Int64("user_id", id),
		slog.Int64("blocked_by", identity.ID),
	)
	return nil
}
