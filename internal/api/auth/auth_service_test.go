package auth

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rfcorreia/go-identity-service/internal/types"
)

// MockUserStore is a mock implementation of the store.UserStore interface.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user types.User) (*types.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*types.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*types.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserStore) List(ctx context.Context) ([]types.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.User), args.Error(1)
}

func (m *MockUserStore) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newTestAuthService(store *MockUserStore) *AuthServiceImpl {
	return NewAuthService(store, newTestTokenService(), slog.Default())
}

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStore := new(MockUserStore)
		service := newTestAuthService(mockStore)
		ctx := context.Background()

		mockStore.On("Create", ctx, mock.MatchedBy(func(u types.User) bool {
			return u.Email == "jane@example.com" &&
				u.Role == types.RoleUser &&
				u.IsActive &&
				u.PasswordHash != "" &&
				u.PasswordHash != "password123"
		})).Return(&types.User{
			ID:           2,
			FullName:     "Jane Doe",
			BirthDate:    "1992-03-04",
			Email:        "jane@example.com",
			PasswordHash: "$2a$10$stored",
			Role:         types.RoleUser,
			IsActive:     true,
		}, nil).Once()

		user, err := service.Register(ctx, RegisterRequest{
			FullName:  "Jane Doe",
			BirthDate: "1992-03-04",
			Email:     "jane@example.com",
			Password:  "password123",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(2), user.ID)
		assert.Equal(t, types.RoleUser, user.Role)
		mockStore.AssertExpectations(t)
	})

	t.Run("CallerSuppliedRoleIgnored", func(t *testing.T) {
		mockStore := new(MockUserStore)
		service := newTestAuthService(mockStore)
		ctx := context.Background()

		mockStore.On("Create", ctx, mock.MatchedBy(func(u types.User) bool {
			return u.Role == types.RoleUser
		})).Return(&types.User{ID: 3, Email: "mallory@example.com", Role: types.RoleUser, IsActive: true}, nil).Once()

		user, err := service.Register(ctx, RegisterRequest{
			FullName:  "Mallory",
			BirthDate: "1991-01-01",
			Email:     "mallory@example.com",
			Password:  "password123",
			Role:      "admin",
		})

		require.NoError(t, err)
		assert.Equal(t, types.RoleUser, user.Role)
		mockStore.AssertExpectations(t)
	})

	t.Run("MissingField", func(t *testing.T) {
		mockStore := new(MockUserStore)
		service := newTestAuthService(mockStore)

		_, err := service.Register(context.Background(), RegisterRequest{
			FullName: "No Email",
			Password: "password123",
		})

		assert.ErrorIs(t, err, types.ErrValidation)
		mockStore.AssertNotCalled(t, "Create")
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		mockStore := new(MockUserStore)
		service := newTestAuthService(mockStore)
		ctx := context.Background()

		mockStore.On("Create", ctx, mock.AnythingOfType("types.User")).
			Return(nil, types.ErrDuplicateEmail).Once()

		_, err := service.Register(ctx, RegisterRequest{
			FullName:  "Jane Doe",
			BirthDate: "1992-03-04",
			Email:     "jane@example.com",
			Password:  "password123",
		})

		assert.ErrorIs(t, err, types.ErrDuplicateEmail)
		mockStore.AssertExpectations(t)
	})
}

func TestLogin(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	activeUser := &types.User{
		ID:           5,
		FullName:     "Jane Doe",
		BirthDate:    "1992-03-04",
		Email:        "jane@example.com",
		PasswordHash: string(hashed),
		Role:         types.RoleUser,
		IsActive:     true,
	}

	t.Run("Success", func(t *testing.T) {
		mockStore := new(MockUserStore)
		service := newTestAuthService(mockStore)
		ctx := context.Background()

		mockStore.On("GetByEmail", ctx, "jane@example.com").Return(activeUser, nil).Once()

		token, user, err := service.Login(ctx, "jane@example.com", "password123")

		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, int64(5), user.ID)

		// The issued token verifies back to the same identity.
		identity, err := newTestTokenService().Verify(token)
		require.NoError(t, err)
		assert.Equal(t, int64(5), identity.ID)
		assert.Equal(t, types.RoleUser, identity.Role)
		mockStore.AssertExpectations(t)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		mockStore := new(MockUserStore)
		service := newTestAuthService(mockStore)
		ctx := context.Background()

		mockStore.On("GetByEmail", ctx, "jane@example.com").Return(activeUser, nil).Once()

		_, _, err := service.Login(ctx, "jane@example.com", "wrong")

		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockStore.AssertExpectations(t)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		mockStore := new(MockUserStore)
		service := newTestAuthService(mockStore)
		ctx := context.Background()

		mockStore.On("GetByEmail", ctx, "ghost@example.com").Return(nil, types.ErrNotFound).Once()

		_, _, err := service.Login(ctx, "ghost@example.com", "password123")

		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockStore.AssertExpectations(t)
	})

	t.Run("InactiveUser", func(t *testing.T) {
		mockStore := new(MockUserStore)
		service := newTestAuthService(mockStore)
		ctx := context.Background()

		blocked := *activeUser
		blocked.IsActive = false
		mockStore.On("GetByEmail", ctx, "jane@example.com").Return(&blocked, nil).Once()

		_, _, err := service.Login(ctx, "jane@example.com", "password123")

		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockStore.AssertExpectations(t)
	})

	t.Run("MissingFields", func(t *testing.T) {
		mockStore := new(MockUserStore)
		service := newTestAuthService(mockStore)

		_, _, err := service.Login(context.Background(), "", "")

		assert.ErrorIs(t, err, types.ErrValidation)
		mockStore.AssertNotCalled(t, "GetByEmail")
	})
}

func TestBootstrap(t *testing.T) {
	t.Run("EmptyDirectoryCreatesAdmin", func(t *testing.T) {
		mockStore := new(MockUserStore)
		service := newTestAuthService(mockStore)
		ctx := context.Background()

		mockStore.On("Count", ctx).Return(0, nil).Once()
		mockStore.On("Create", ctx, mock.MatchedBy(func(u types.User) bool {
			return u.Email == DefaultAdminEmail &&
				u.Role == types.RoleAdmin &&
				u.IsActive &&
				VerifyPassword("admin123", u.PasswordHash)
		})).Return(&types.User{ID: 1, Email: DefaultAdminEmail, Role: types.RoleAdmin, IsActive: true}, nil).Once()

		err := service.Bootstrap(ctx)

		assert.NoError(t, err)
		mockStore.AssertExpectations(t)
	})

	t.Run("NonEmptyDirectoryIsNoOp", func(t *testing.T) {
		mockStore := new(MockUserStore)
		service := newTestAuthService(mockStore)
		ctx := context.Background()

		mockStore.On("Count", ctx).Return(3, nil).Once()

		err := service.Bootstrap(ctx)

		assert.NoError(t, err)
		mockStore.AssertNotCalled(t, "Create")
	})
}
