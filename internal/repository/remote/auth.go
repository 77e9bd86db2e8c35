package remote

import (
	"context"
	"net/http"

	"github.com/Jigar634859/skyportal/internal/domain"
	"github.com/Jigar634859/skyportal/internal/repository"
	"github.com/Jigar634859/skyportal/internal/wire"
)

type AuthRepository struct {
	c *Client
}

func NewAuthRepository(c *Client) *AuthRepository {
	return &AuthRepository{c: c}
}

func (r *AuthRepository) AdminLogin(ctx context.Context, username, password string) (string, error) {
	var resp wire.TokenResponse
	req := wire.AdminLoginRequest{Username: username, Password: password}
	if err := r.c.do(ctx, http.MethodPost, wire.PathAdminLogin, nil, req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (r *AuthRepository) UserLogin(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	var resp domain.AuthResult
	req := wire.UserLoginRequest{Email: email, Password: password}
	if err := r.c.do(ctx, http.MethodPost, wire.PathUserLogin, nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *AuthRepository) UserRegister(ctx context.Context, input domain.RegisterInput) (*domain.AuthResult, error) {
	var resp domain.AuthResult
	if err := r.c.do(ctx, http.MethodPost, wire.PathUserRegister, nil, input, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

var _ repository.AuthRepository = (*AuthRepository)(nil)
