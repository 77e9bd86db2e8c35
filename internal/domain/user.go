package domain

import (
	"net/mail"
	"strings"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type UserProfile struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserAccount is a registered identity kept by the local backend.
type UserAccount struct {
	UserProfile
	Phone        string `json:"phone,omitempty"`
	PasswordHash string `json:"passwordHash"`
}

type Credential struct {
	Role  Role         `json:"role"`
	Token string       `json:"token"`
	User  *UserProfile `json:"user,omitempty"`
}

type AuthResult struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

func (in RegisterInput) Validate() error {
	if err := ValidateEmail(in.Email); err != nil {
		return err
	}
	if len(in.Password) < 6 {
		return Invalid("password must be at least 6 characters")
	}
	return nil
}

// DisplayName falls back to the local part of the email.
func (in RegisterInput) DisplayName() string {
	if strings.TrimSpace(in.Name) != "" {
		return in.Name
	}
	return NameFromEmail(in.Email)
}

func NameFromEmail(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}

func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return Invalid("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Invalid("malformed email %q", email)
	}
	return nil
}
