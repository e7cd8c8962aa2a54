// Package auth implements registration, login and the opaque token lifecycle:
// a token is issued on register or login, resolved on each authenticated
// request and deleted on logout. Tokens never expire on their own.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/product-catalog/internal/config"
	"github.com/product-catalog/internal/model"
	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	UserLookup
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

type TokenStore interface {
	GetOrCreate(ctx context.Context, userID int64, key string) (*model.Token, error)
	FindUserByKey(ctx context.Context, key string) (*model.User, error)
	DeleteByUserID(ctx context.Context, userID int64) error
}

// Authority issues, resolves and revokes tokens.
type Authority struct {
	users      UserStore
	tokens     TokenStore
	validator  *Validator
	bcryptCost int
	log        *slog.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthority(users UserStore, tokens TokenStore, cfg config.AuthConfig, log *slog.Logger) *Authority {
	return &Authority{
		users:      users,
		tokens:     tokens,
		validator:  NewValidator(users, cfg.PasswordMinLength),
		bcryptCost: cfg.BcryptCost,
		log:        log,
	}
}

// Register validates req, creates the user and issues its first token.
func (a *Authority) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	req, err := a.validator.ValidateRegistration(ctx, req)
	if err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), a.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := a.users.Create(ctx, &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	})
	if err != nil {
		if _, ok := model.IsValidationError(err); ok {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := a.IssueOrGetToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	a.log.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return user, token, nil
}

// Login validates req, checks the credentials and returns the user's token,
// creating one if the user has none.
func (a *Authority) Login(ctx context.Context, req model.LoginRequest) (*model.User, string, error) {
	req, err := a.validator.ValidateLogin(req)
	if err != nil {
		return nil, "", err
	}

	user, err := a.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, "", err
	}

	token, err := a.IssueOrGetToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate returns model.ErrInvalidCredentials for both an unknown user
// and a wrong password. Unknown users still pay for a bcrypt comparison.
func (a *Authority) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(a.dummy(), []byte(password))
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}
	return user, nil
}

// IssueOrGetToken is idempotent: repeated calls return the same key until
// the token is revoked.
func (a *Authority) IssueOrGetToken(ctx context.Context, user *model.User) (string, error) {
	key, err := generateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	token, err := a.tokens.GetOrCreate(ctx, user.ID, key)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token.Key, nil
}

// Revoke deletes the user's token. It returns model.ErrTokenNotFound when
// the user holds none.
func (a *Authority) Revoke(ctx context.Context, user *model.User) error {
	if err := a.tokens.DeleteByUserID(ctx, user.ID); err != nil {
		if errors.Is(err, model.ErrTokenNotFound) {
			return err
		}
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	a.log.InfoContext(ctx, "token revoked", "user_id", user.ID)
	return nil
}

// Resolve maps a presented token key to its owner.
func (a *Authority) Resolve(ctx context.Context, key string) (*model.User, error) {
	if len(key) != model.TokenKeyLength {
		return nil, model.ErrTokenNotFound
	}

	user, err := a.tokens.FindUserByKey(ctx, key)
	if err != nil {
		if errors.Is(err, model.ErrTokenNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}
	return user, nil
}

func (a *Authority) dummy() []byte {
	a.dummyOnce.Do(func() {
		a.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), a.bcryptCost)
	})
	return a.dummyHash
}

func generateKey() (string, error) {
	bytes := make([]byte, model.TokenKeyLength/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
