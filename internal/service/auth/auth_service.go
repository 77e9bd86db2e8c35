package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Jigar634859/skyportal/internal/domain"
	"github.com/Jigar634859/skyportal/internal/repository"
	"github.com/Jigar634859/skyportal/internal/session"
)

type AuthUseCase interface {
	AdminLogin(ctx context.Context, username, password string) (string, error)
	UserLogin(ctx context.Context, email, password string) (*domain.AuthResult, error)
	UserRegister(ctx context.Context, input domain.RegisterInput) (*domain.AuthResult, error)
	Logout(ctx context.Context, scope session.Scope) error
}

// AuthService signs callers in and keeps the issued credentials in the
// session store. With a nil store credentials are only returned, which is
// what the API server wants.
type AuthService struct {
	repo     repository.AuthRepository
	sessions *session.Store
	logger   *zap.Logger
}

type Option func(*AuthService)

func WithLogger(logger *zap.Logger) Option {
	return func(s *AuthService) { s.logger = logger }
}

func NewAuthService(repo repository.AuthRepository, sessions *session.Store, opts ...Option) *AuthService {
	s := &AuthService{repo: repo, sessions: sessions, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AuthService) AdminLogin(ctx context.Context, username, password string) (string, error) {
	token, err := s.repo.AdminLogin(ctx, strings.TrimSpace(username), password)
	if err != nil {
		s.logger.Info("admin login rejected", zap.String("username", username), zap.Error(err))
		return "", err
	}
	if s.sessions != nil {
		if err := s.sessions.SetAdmin(ctx, token); err != nil {
			return "", err
		}
	}
	return token, nil
}

func (s *AuthService) UserLogin(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	email = strings.TrimSpace(email)
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	result, err := s.repo.UserLogin(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.remember(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *AuthService) UserRegister(ctx context.Context, input domain.RegisterInput) (*domain.AuthResult, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	result, err := s.repo.UserRegister(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.remember(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *AuthService) Logout(ctx context.Context, scope session.Scope) error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.Logout(ctx, scope)
}

func (s *AuthService) remember(ctx context.Context, result *domain.AuthResult) error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.SetUser(ctx, result.Token, result.User)
}

var _ AuthUseCase = (*AuthService)(nil)
