// Package token issues and verifies the HS256 bearer tokens handed out on
// login. Callers outside this package treat tokens as opaque strings.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Jigar634859/skyportal/internal/domain"
)

type Claims struct {
	Role  domain.Role
	User  *domain.UserProfile
	Admin string
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *Issuer) IssueAdmin(username string) (string, error) {
	return i.sign(jwt.MapClaims{
		"sub":  username,
		"role": string(domain.RoleAdmin),
	})
}

func (i *Issuer) IssueUser(user domain.UserProfile) (string, error) {
	return i.sign(jwt.MapClaims{
		"sub":   strconv.FormatInt(user.ID, 10),
		"role":  string(domain.RoleUser),
		"email": user.Email,
		"name":  user.Name,
	})
}

func (i *Issuer) sign(claims jwt.MapClaims) (string, error) {
	now := i.now().UTC()
	claims["iat"] = now.Unix()
	if i.ttl > 0 {
		claims["exp"] = now.Add(i.ttl).Unix()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies raw and returns its claims. Any failure is ErrInvalidCredentials.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims", domain.ErrInvalidCredentials)
	}

	sub, _ := mc["sub"].(string)
	role, _ := mc["role"].(string)
	switch domain.Role(role) {
	case domain.RoleAdmin:
		return &Claims{Role: domain.RoleAdmin, Admin: sub}, nil
	case domain.RoleUser:
		id, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad subject", domain.ErrInvalidCredentials)
		}
		email, _ := mc["email"].(string)
		name, _ := mc["name"].(string)
		return &Claims{
			Role: domain.RoleUser,
			User: &domain.UserProfile{ID: id, Email: email, Name: name},
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidCredentials, role)
}
