package model

import "time"

// Operator is an admin-panel account. PasswordHash is a bcrypt digest and is
// empty for operators provisioned through Google login only.
type Operator struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	GoogleID     string     `json:"-"`
	IsAdmin      bool       `json:"is_admin"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}
