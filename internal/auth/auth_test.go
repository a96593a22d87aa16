package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/frotaops/fleet-manager/internal/models"
)

func TestNewService(t *testing.T) {
	service, err := NewService()
	assert.NoError(t, err)
	assert.NotNil(t, service)
	assert.NotEmpty(t, service.jwtSecret)
	assert.Equal(t, 24*time.Hour, service.tokenExp)
}

func TestService_HashPassword(t *testing.T) {
	service, _ := NewService()

	password := "testpassword123"
	hash, err := service.HashPassword(password)

	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)
}

func TestService_CheckPassword(t *testing.T) {
	service, _ := NewService()

	password := "testpassword123"
	hash, _ := service.HashPassword(password)

	// Test correct password
	assert.True(t, service.CheckPassword(password, hash))

	// Test incorrect password
	assert.False(t, service.CheckPassword("wrongpassword", hash))
}

func TestService_GenerateToken(t *testing.T) {
	service, _ := NewService()

	user := &models.User{
		ID:         "user-1",
		Email:      "gestor@frotaops.com",
		Role:       models.RoleGestor,
		CostCenter: models.ParseCostCenterRef("12 - Fleet A"),
	}

	token, err := service.GenerateToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestService_ValidateToken(t *testing.T) {
	service, _ := NewService()

	user := &models.User{
		ID:         "user-1",
		Email:      "gestor@frotaops.com",
		Role:       models.RoleGestor,
		CostCenter: models.ParseCostCenterRef("12 - Fleet A"),
	}

	token, _ := service.GenerateToken(user)

	// Test valid token
	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Role, claims.Role)
	assert.Equal(t, "12 - Fleet A", claims.CostCenter)

	// Test invalid token
	_, err = service.ValidateToken("invalid-token")
	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestService_ValidateToken_BearerPrefix(t *testing.T) {
	service, _ := NewService()

	user := &models.User{ID: "user-1", Email: "a@b.com", Role: models.RoleAdmin}
	token, _ := service.GenerateToken(user)

	claims, err := service.ValidateToken("Bearer " + token)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Empty(t, claims.CostCenter)
}

func TestService_ExtractTokenFromHeader(t *testing.T) {
	service, _ := NewService()

	tests := []struct {
		name    string
		header  string
		wantErr bool
	}{
		{"valid header", "Bearer some-token", false},
		{"missing header", "", true},
		{"missing scheme", "some-token", true},
		{"wrong scheme", "Basic abc", true},
		{"empty token", "Bearer ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ExtractTokenFromHeader(tt.header)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScopedUser(t *testing.T) {
	assert.Nil(t, ScopedUser(nil))

	claims := &models.Claims{
		UserID:     "user-1",
		Email:      "gestor@frotaops.com",
		Role:       models.RoleGestor,
		CostCenter: "12 - Fleet A",
	}
	user := ScopedUser(claims)
	assert.Equal(t, models.RoleGestor, user.Role)
	assert.Equal(t, "12", user.CostCenter.LeadingToken())
	assert.False(t, user.IsAdmin())
}

func TestService_ValidatePassword(t *testing.T) {
	service, _ := NewService()

	assert.Error(t, service.ValidatePassword("short"))
	assert.NoError(t, service.ValidatePassword("longenough"))
}

func TestService_ValidateEmail(t *testing.T) {
	service, _ := NewService()

	assert.NoError(t, service.ValidateEmail("user@frotaops.com"))
	assert.Error(t, service.ValidateEmail("not-an-email"))
}
