package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/frotaops/fleet-manager/internal/auth"
	"github.com/frotaops/fleet-manager/internal/models"
)

// MockUserCollection is a mock implementation of db.UserCollection
type MockUserCollection struct {
	mock.Mock
}

func (m *MockUserCollection) InsertUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUsers(ctx context.Context, filter bson.M) ([]models.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserCollection) UpdateUser(ctx context.Context, id string, user models.User) error {
	args := m.Called(ctx, id, user)
	return args.Error(0)
}

func (m *MockUserCollection) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserCollection) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newAuthHandler(t *testing.T, users *MockUserCollection) (*AuthHandler, *auth.Service) {
	t.Helper()
	service, err := auth.NewService()
	require.NoError(t, err)
	return NewAuthHandler(service, users), service
}

func TestLogin(t *testing.T) {
	users := new(MockUserCollection)
	h, service := newAuthHandler(t, users)

	hash, err := service.HashPassword("senha-forte-123")
	require.NoError(t, err)
	stored := &models.User{
		ID:           "507f1f77bcf86cd799439011",
		Name:         "Ana Souza",
		Email:        "ana@frotaops.com",
		PasswordHash: hash,
		Role:         models.RoleGestor,
		Status:       models.UserActive,
		CostCenter:   models.ParseCostCenterRef("12 - Fleet A"),
	}

	t.Run("successful login", func(t *testing.T) {
		users.On("FindUserByEmail", mock.Anything, "ana@frotaops.com").Return(stored, nil).Once()
		users.On("UpdateLastLogin", mock.Anything, stored.ID).Return(nil).Once()

		body, _ := json.Marshal(models.LoginRequest{Email: "ana@frotaops.com", Password: "senha-forte-123"})
		w := do(h.Login, httptest.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(body)))
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, "ana@frotaops.com", resp.User.Email)

		// The token carries the cost center for downstream scoping.
		claims, err := service.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, models.RoleGestor, claims.Role)
		assert.Equal(t, "12 - Fleet A", claims.CostCenter)

		users.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		users.On("FindUserByEmail", mock.Anything, "ana@frotaops.com").Return(stored, nil).Once()

		body, _ := json.Marshal(models.LoginRequest{Email: "ana@frotaops.com", Password: "errada"})
		w := do(h.Login, httptest.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(body)))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		users.On("FindUserByEmail", mock.Anything, "ninguem@frotaops.com").Return(nil, errors.New("not found")).Once()

		body, _ := json.Marshal(models.LoginRequest{Email: "ninguem@frotaops.com", Password: "senha-forte-123"})
		w := do(h.Login, httptest.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(body)))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deactivated account", func(t *testing.T) {
		inactive := *stored
		inactive.Status = models.UserInactive
		users.On("FindUserByEmail", mock.Anything, "ana@frotaops.com").Return(&inactive, nil).Once()

		body, _ := json.Marshal(models.LoginRequest{Email: "ana@frotaops.com", Password: "senha-forte-123"})
		w := do(h.Login, httptest.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(body)))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		body, _ := json.Marshal(models.LoginRequest{Email: "ana@frotaops.com"})
		w := do(h.Login, httptest.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRegister(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		users := new(MockUserCollection)
		h, _ := newAuthHandler(t, users)

		created := &models.User{
			ID:     "507f1f77bcf86cd799439012",
			Name:   "Carlos Silva",
			Email:  "carlos@frotaops.com",
			Role:   models.RoleMotorista,
			Status: models.UserActive,
		}
		users.On("FindUserByEmail", mock.Anything, "carlos@frotaops.com").Return(nil, errors.New("not found")).Once()
		users.On("InsertUser", mock.Anything, mock.AnythingOfType("models.User")).Return(nil).Once()
		users.On("FindUserByEmail", mock.Anything, "carlos@frotaops.com").Return(created, nil).Once()

		body, _ := json.Marshal(models.RegisterRequest{
			Name:     "Carlos Silva",
			Email:    "carlos@frotaops.com",
			Password: "senha-forte-123",
			Role:     models.RoleMotorista,
		})
		w := do(h.Register, httptest.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(body)))
		require.Equal(t, http.StatusCreated, w.Code)

		var resp models.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, models.RoleMotorista, resp.User.Role)
		users.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		users := new(MockUserCollection)
		h, _ := newAuthHandler(t, users)

		existing := &models.User{ID: "x", Email: "ana@frotaops.com"}
		users.On("FindUserByEmail", mock.Anything, "ana@frotaops.com").Return(existing, nil).Once()

		body, _ := json.Marshal(models.RegisterRequest{
			Name:     "Ana Souza",
			Email:    "ana@frotaops.com",
			Password: "senha-forte-123",
			Role:     models.RoleGestor,
		})
		w := do(h.Register, httptest.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(body)))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("invalid role", func(t *testing.T) {
		users := new(MockUserCollection)
		h, _ := newAuthHandler(t, users)

		body, _ := json.Marshal(models.RegisterRequest{
			Name:     "Ana Souza",
			Email:    "ana@frotaops.com",
			Password: "senha-forte-123",
			Role:     "SUPERADMIN",
		})
		w := do(h.Register, httptest.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("weak password", func(t *testing.T) {
		users := new(MockUserCollection)
		h, _ := newAuthHandler(t, users)

		body, _ := json.Marshal(models.RegisterRequest{
			Name:     "Ana Souza",
			Email:    "ana@frotaops.com",
			Password: "123",
			Role:     models.RoleGestor,
		})
		w := do(h.Register, httptest.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetProfile(t *testing.T) {
	users := new(MockUserCollection)
	h, _ := newAuthHandler(t, users)

	stored := &models.User{
		ID:    "507f1f77bcf86cd799439011",
		Name:  "Ana Souza",
		Email: "ana@frotaops.com",
		Role:  models.RoleGestor,
	}

	t.Run("returns the authenticated user", func(t *testing.T) {
		users.On("FindUserByID", mock.Anything, "test-user").Return(stored, nil).Once()

		req := asUser(httptest.NewRequest("GET", "/api/auth/profile", nil), models.RoleGestor, "")
		w := do(h.GetProfile, req)
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ana@frotaops.com", resp.Email)
	})

	t.Run("no claims in context", func(t *testing.T) {
		w := do(h.GetProfile, httptest.NewRequest("GET", "/api/auth/profile", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
