package domain

import "time"

// User is a registered account, either a dog owner or a walker.
type User struct {
	ID           int64     `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsOwner reports whether u may own dogs and post walk requests.
func (u *User) IsOwner() bool { return u.Role == RoleOwner }

// IsWalker reports whether u may apply to walk requests.
func (u *User) IsWalker() bool { return u.Role == RoleWalker }
