package auth

import (
	"github.com/trezcool/feedesk/core"
)

// Roles
const (
	RoleAdmin      = "admin"
	RoleAccountant = "accountant"
)

// Areas
const (
	AdminHome      = "/admin"
	AccountantHome = "/accountant"
	LoginPage      = "/login"
)

// Persisted storage keys
const (
	TokenKey = "token"
	UserKey  = "user"
)

type User struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	CampusID string `json:"campus_id,omitempty"`
}

func (u User) IsAdmin() bool      { return u.Role == RoleAdmin }
func (u User) IsAccountant() bool { return u.Role == RoleAccountant }

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

func (c *Credentials) Clean() {
	c.Email = core.CleanString(c.Email, true /* lower */)
	c.Role = core.CleanString(c.Role, true /* lower */)
}

// LoginResponse is the body of POST /global/login. Token and User are absent on failure.
type LoginResponse struct {
	Token   string `json:"token,omitempty"`
	User    *User  `json:"user,omitempty"`
	Role    string `json:"role"`
	Message string `json:"message"`
}

type Session struct {
	Token string `json:"-"`
	User  User   `json:"user"`
	Role  string `json:"role"`
}

// Home is where the session lands after login.
func (s Session) Home() string {
	home, _ := Destination(s.Role)
	return home
}

// Destination maps a role to its area of the dashboard.
func Destination(role string) (string, error) {
	switch role {
	case RoleAdmin:
		return AdminHome, nil
	case RoleAccountant:
		return AccountantHome, nil
	default:
		return "", ErrUnknownRole
	}
}
