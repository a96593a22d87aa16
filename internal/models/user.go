package models

import "time"

// Role represents user roles in the system.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleGestor    Role = "GESTOR"
	RoleOperador  Role = "OPERADOR"
	RoleMotorista Role = "MOTORISTA"
)

// User statuses.
const (
	UserActive   = "ACTIVE"
	UserInactive = "INACTIVE"
)

// User represents an application user. Non-ADMIN users only see data whose
// cost-center leading token matches their assigned cost-center token.
type User struct {
	ID           string        `bson:"_id,omitempty" json:"id"`
	Name         string        `bson:"name" json:"name"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"password_hash" json:"-"`
	Role         Role          `bson:"role" json:"role"`
	Status       string        `bson:"status" json:"status"`
	CostCenter   CostCenterRef `bson:"cost_center" json:"cost_center"`
	LastLogin    *time.Time    `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updated_at"`
}

// IsValidRole checks if a role is valid.
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleGestor, RoleOperador, RoleMotorista:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether the user sees the whole fleet.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       Role   `json:"role"`
	CostCenter string `json:"cost_center"`
}

// LoginResponse represents a successful login response.
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Claims represents JWT claims.
type Claims struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	CostCenter string `json:"cost_center"` // raw reference label
	Exp        int64  `json:"exp"`
}
