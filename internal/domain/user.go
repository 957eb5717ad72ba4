package domain

import "strings"

// Role separates administrators from division accounts.
type Role string

const (
	RoleAdmin       Role = "Admin"
	RoleRegularUser Role = "Pengguna"
)

// User is a directory account. Regular users belong to exactly one division.
type User struct {
	ID       int64
	Username string
	Name     string
	Role     Role
	Division string
	// Password is plaintext on the spreadsheet backend.
	Password string
}

// IsAdmin reports whether the user administers the helpdesk.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// ParseRole normalizes a stored role label. Anything that is not the admin
// label is treated as a regular account.
func ParseRole(raw string) Role {
	if strings.EqualFold(strings.TrimSpace(raw), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleRegularUser
}

// SameUsername compares usernames case-insensitively.
func SameUsername(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
