package models

import "github.com/golang-jwt/jwt/v5"

// UserRole enumerates roles issued by the external auth system.
type UserRole string

const (
	RoleAdmin  UserRole = "ADMIN"
	RoleStaff  UserRole = "STAFF"
	RoleViewer UserRole = "VIEWER"
)

// JWTClaims carries the identity attached to each request. Tokens are issued
// by the external auth service; this API only verifies them.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}
