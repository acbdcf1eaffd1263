package user

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rfcorreia/go-identity-service/internal/api/auth"
	"github.com/rfcorreia/go-identity-service/internal/types"
)

// MockUserService is a mock implementation of the UserService interface.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, identity types.Identity, id int64) (*types.PublicUser, error) {
	args := m.Called(ctx, identity, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PublicUser), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, identity types.Identity) ([]types.PublicUser, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.PublicUser), args.Error(1)
}

func (m *MockUserService) BlockUser(ctx context.Context, identity types.Identity, id int64) error {
	args := m.Called(ctx, identity, id)
	return args.Error(0)
}

// newTestRouter dispatches through chi so URL params resolve like in
// production.
func newTestRouter(handler *UserHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/api/auth/users", handler.ListUsers)
	r.Get("/api/auth/users/{id}", handler.GetUserByID)
	r.Patch("/api/auth/users/{id}/block", handler.BlockUser)
	return r
}

func authed(req *http.Request, identity types.Identity) *http.Request {
	return req.WithContext(auth.WithIdentity(req.Context(), identity))
}

func TestGetUserByIDHandler(t *testing.T) {
	mockService := new(MockUserService)
	router := newTestRouter(NewUserHandler(mockService, slog.Default()))
	admin := types.Identity{ID: 1, Email: "admin@example.com", Role: types.RoleAdmin}

	t.Run("Success", func(t *testing.T) {
		req := authed(httptest.NewRequest(http.MethodGet, "/api/auth/users/5", nil), admin)
		w := httptest.NewRecorder()

		mockService.On("GetUserByID", mock.Anything, admin, int64(5)).
			Return(&types.PublicUser{ID: 5, Email: "jane@example.com", Role: types.RoleUser, IsActive: true}, nil).Once()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		user := response["user"].(map[string]interface{})
		assert.Equal(t, float64(5), user["id"])
		assert.NotContains(t, user, "passwordHash")
		mockService.AssertExpectations(t)
	})

	t.Run("BadID", func(t *testing.T) {
		req := authed(httptest.NewRequest(http.MethodGet, "/api/auth/users/abc", nil), admin)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("NoIdentity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/users/5", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Forbidden", func(t *testing.T) {
		other := types.Identity{ID: 9, Email: "other@example.com", Role: types.RoleUser}
		req := authed(httptest.NewRequest(http.MethodGet, "/api/auth/users/5", nil), other)
		w := httptest.NewRecorder()

		mockService.On("GetUserByID", mock.Anything, other, int64(5)).
			Return(nil, types.ErrForbidden).Once()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		req := authed(httptest.NewRequest(http.MethodGet, "/api/auth/users/99", nil), admin)
		w := httptest.NewRecorder()

		mockService.On("GetUserByID", mock.Anything, admin, int64(99)).
			Return(nil, types.ErrNotFound).Once()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestListUsersHandler(t *testing.T) {
	mockService := new(MockUserService)
	router := newTestRouter(NewUserHandler(mockService, slog.Default()))
	admin := types.Identity{ID: 1, Email: "admin@example.com", Role: types.RoleAdmin}

	t.Run("Success", func(t *testing.T) {
		req := authed(httptest.NewRequest(http.MethodGet, "/api/auth/users", nil), admin)
		w := httptest.NewRecorder()

		mockService.On("ListUsers", mock.Anything, admin).
			Return([]types.PublicUser{
				{ID: 1, Email: "admin@example.com", Role: types.RoleAdmin, IsActive: true},
				{ID: 2, Email: "jane@example.com", Role: types.RoleUser, IsActive: true},
			}, nil).Once()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response["users"], 2)
		mockService.AssertExpectations(t)
	})

	t.Run("NonAdmin", func(t *testing.T) {
		jane := types.Identity{ID: 2, Email: "jane@example.com", Role: types.RoleUser}
		req := authed(httptest.NewRequest(http.MethodGet, "/api/auth/users", nil), jane)
		w := httptest.NewRecorder()

		mockService.On("ListUsers", mock.Anything, jane).
			Return(nil, types.ErrForbidden).Once()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestBlockUserHandler(t *testing.T) {
	mockService := new(MockUserService)
	router := newTestRouter(NewUserHandler(mockService, slog.Default()))
	admin := types.Identity{ID: 1, Email: "admin@example.com", Role: types.RoleAdmin}

	t.Run("Success", func(t *testing.T) {
		req := authed(httptest.NewRequest(http.MethodPatch, "/api/auth/users/5/block", nil), admin)
		w := httptest.NewRecorder()

		mockService.On("BlockUser", mock.Anything, admin, int64(5)).Return(nil).Once()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "User blocked successfully", response["message"])
		mockService.AssertExpectations(t)
	})

	t.Run("BadID", func(t *testing.T) {
		req := authed(httptest.NewRequest(http.MethodPatch, "/api/auth/users/abc/block", nil), admin)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		req := authed(httptest.NewRequest(http.MethodPatch, "/api/auth/users/99/block", nil), admin)
		w := httptest.NewRecorder()

		mockService.On("BlockUser", mock.Anything, admin, int64(99)).
			Return(types.ErrNotFound).Once()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockService.AssertExpectations(t)
	})
}
