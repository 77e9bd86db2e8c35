package local

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Jigar634859/skyportal/internal/domain"
	"github.com/Jigar634859/skyportal/internal/repository"
	"github.com/Jigar634859/skyportal/internal/token"
)

type AuthConfig struct {
	AdminUsername string
	AdminPassword string
	// DemoMode accepts any well-formed email on user login and skips the
	// duplicate check on registration.
	DemoMode   bool
	BcryptCost int
}

// demoUserID is the identity every demo login receives.
const demoUserID = 1

type AuthRepository struct {
	db     *DB
	issuer *token.Issuer
	cfg    AuthConfig
}

func NewAuthRepository(db *DB, issuer *token.Issuer, cfg AuthConfig) *AuthRepository {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthRepository{db: db, issuer: issuer, cfg: cfg}
}

func (r *AuthRepository) AdminLogin(_ context.Context, username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(r.cfg.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(r.cfg.AdminPassword)) == 1
	if !userOK || !passOK || r.cfg.AdminUsername == "" {
		return "", fmt.Errorf("admin login: %w", domain.ErrInvalidCredentials)
	}
	return r.issuer.IssueAdmin(username)
}

func (r *AuthRepository) UserLogin(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	if r.cfg.DemoMode {
		r.db.logger.Warn("demo mode: user login accepted without password check", zap.String("email", email))
		return r.result(domain.UserProfile{ID: demoUserID, Email: email, Name: domain.NameFromEmail(email)})
	}

	var account *domain.UserAccount
	err := r.db.view(ctx, func(st *state) {
		if i := st.userIndex(email); i >= 0 {
			u := st.users[i]
			account = &u
		}
	})
	if err != nil {
		return nil, err
	}
	if account == nil || bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("user login: %w", domain.ErrInvalidCredentials)
	}
	return r.result(account.UserProfile)
}

func (r *AuthRepository) UserRegister(ctx context.Context, input domain.RegisterInput) (*domain.AuthResult, error) {
	if r.cfg.DemoMode {
		if err := domain.ValidateEmail(input.Email); err != nil {
			return nil, err
		}
		return r.result(domain.UserProfile{
			ID:    r.db.now().UnixMilli(),
			Email: input.Email,
			Name:  input.DisplayName(),
		})
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), r.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var account domain.UserAccount
	err = r.db.update(ctx, func(st *state) ([]string, error) {
		if st.userIndex(input.Email) >= 0 {
			return nil, fmt.Errorf("register %s: %w", input.Email, domain.ErrEmailInUse)
		}
		id := st.nextUserID
		account = domain.UserAccount{
			UserProfile:  domain.UserProfile{ID: id, Email: input.Email, Name: input.DisplayName()},
			Phone:        input.Phone,
			PasswordHash: string(hash),
		}
		st.users = append(st.users, account)
		st.nextUserID = id + 1
		return []string{KeyUsers, KeyNextUserID}, nil
	})
	if err != nil {
		return nil, err
	}
	r.db.logger.Info("user registered", zap.Int64("user_id", account.ID))
	return r.result(account.UserProfile)
}

func (r *AuthRepository) result(user domain.UserProfile) (*domain.AuthResult, error) {
	tok, err := r.issuer.IssueUser(user)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{Token: tok, User: user}, nil
}

func (st *state) userIndex(email string) int {
	for i, u := range st.users {
		if strings.EqualFold(u.Email, email) {
			return i
		}
	}
	return -1
}

var _ repository.AuthRepository = (*AuthRepository)(nil)
