package auth

import "time"

// Config drives token verification.
type Config struct {
	Secret string
	// Issuer, when set, must match the iss claim.
	Issuer string
	// Leeway tolerates clock skew on exp/nbf.
	Leeway time.Duration
}

// Role is the caller's authorization level.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Claims are extracted from the JWT token.
type Claims struct {
	UserID    int64
	Role      Role
	ExpiresAt time.Time
}

// IsAdmin reports whether the caller may use the back office.
func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
