package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents operator roles issued by the external identity provider.
type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleSupervisor UserRole = "SUPERVISOR"
	RoleAnalyst    UserRole = "ANALYST"
)

// JWTClaims represents the access-token payload issued by the identity
// provider. This service only validates and reads it.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	FullName string   `json:"full_name"`
	Role     UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Identity converts claims into the identity recorded on audit events.
func (c *JWTClaims) Identity() ValidatorIdentity {
	return ValidatorIdentity{ID: c.UserID, Name: c.FullName}
}
