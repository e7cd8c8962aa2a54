package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/product-catalog/internal/config"
	"github.com/product-catalog/internal/logging"
	"github.com/product-catalog/internal/model"
	"github.com/product-catalog/internal/storage/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthority(t *testing.T) (*Authority, *memstore.UserStore, *memstore.TokenStore) {
	t.Helper()
	users := memstore.NewUserStore()
	tokens := memstore.NewTokenStore(users)
	cfg := config.AuthConfig{PasswordMinLength: 6, BcryptCost: bcrypt.MinCost}
	return NewAuthority(users, tokens, cfg, logging.Discard()), users, tokens
}

func validRegistration() model.RegisterRequest {
	return model.RegisterRequest{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "secret123",
		FirstName: "Alice",
		LastName:  "Smith",
	}
}

func TestRegister_IssuesToken(t *testing.T) {
	a, _, tokens := newTestAuthority(t)

	user, token, err := a.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Len(t, token, model.TokenKeyLength)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.Equal(t, 1, tokens.Len())
}

func TestRegister_TrimsFields(t *testing.T) {
	a, _, _ := newTestAuthority(t)

	req := validRegistration()
	req.Username = "  alice  "
	req.FirstName = " Alice "

	user, _, err := a.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "Alice", user.FirstName)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	a, users, _ := newTestAuthority(t)
	ctx := context.Background()

	first, _, err := a.Register(ctx, validRegistration())
	require.NoError(t, err)

	again := validRegistration()
	again.Email = "other@example.com"
	_, _, err = a.Register(ctx, again)

	ve, ok := model.IsValidationError(err)
	require.True(t, ok, "want validation error, got %v", err)
	assert.Contains(t, ve.Fields, "username")

	stored, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, "alice@example.com", stored.Email)
}

func TestRegister_ConcurrentSameUsername(t *testing.T) {
	a, _, _ := newTestAuthority(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := validRegistration()
			req.Email = string(rune('a'+i)) + "@example.com"
			_, _, errs[i] = a.Register(ctx, req)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		_, ok := model.IsValidationError(err)
		assert.True(t, ok, "losers must fail validation, got %v", err)
	}
	assert.Equal(t, 1, succeeded)
}

func TestLogin_ReturnsSameTokenAsRegister(t *testing.T) {
	a, _, _ := newTestAuthority(t)
	ctx := context.Background()

	_, registered, err := a.Register(ctx, validRegistration())
	require.NoError(t, err)

	user, token, err := a.Login(ctx, model.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, registered, token)
}

func TestLogin_InvalidCredentialsAreIndistinguishable(t *testing.T) {
	a, _, _ := newTestAuthority(t)
	ctx := context.Background()

	_, _, err := a.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, _, wrongPassword := a.Login(ctx, model.LoginRequest{Username: "alice", Password: "nope-nope"})
	_, _, unknownUser := a.Login(ctx, model.LoginRequest{Username: "bob", Password: "secret123"})

	assert.ErrorIs(t, wrongPassword, model.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, model.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLogin_PasswordIsNotTrimmed(t *testing.T) {
	a, _, _ := newTestAuthority(t)
	ctx := context.Background()

	req := validRegistration()
	req.Password = " secret123 "
	_, _, err := a.Register(ctx, req)
	require.NoError(t, err)

	_, _, err = a.Login(ctx, model.LoginRequest{Username: "alice", Password: "secret123"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, _, err = a.Login(ctx, model.LoginRequest{Username: " alice ", Password: " secret123 "})
	assert.NoError(t, err)
}

func TestLogin_BlankFields(t *testing.T) {
	a, _, _ := newTestAuthority(t)

	_, _, err := a.Login(context.Background(), model.LoginRequest{Username: "  ", Password: ""})

	ve, ok := model.IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "username")
	assert.Contains(t, ve.Fields, "password")
}

func TestIssueOrGetToken_Idempotent(t *testing.T) {
	a, _, _ := newTestAuthority(t)
	ctx := context.Background()

	user, _, err := a.Register(ctx, validRegistration())
	require.NoError(t, err)

	first, err := a.IssueOrGetToken(ctx, user)
	require.NoError(t, err)
	second, err := a.IssueOrGetToken(ctx, user)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRevoke_Lifecycle(t *testing.T) {
	a, _, _ := newTestAuthority(t)
	ctx := context.Background()

	user, token, err := a.Register(ctx, validRegistration())
	require.NoError(t, err)

	resolved, err := a.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	require.NoError(t, a.Revoke(ctx, user))
	assert.ErrorIs(t, a.Revoke(ctx, user), model.ErrTokenNotFound)

	_, err = a.Resolve(ctx, token)
	assert.ErrorIs(t, err, model.ErrTokenNotFound)

	// a later login issues a fresh token
	_, fresh, err := a.Login(ctx, model.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEqual(t, token, fresh)
}

func TestResolve_MalformedKey(t *testing.T) {
	a, _, _ := newTestAuthority(t)

	_, err := a.Resolve(context.Background(), "short")
	assert.ErrorIs(t, err, model.ErrTokenNotFound)
}

type failingTokens struct{}

func (failingTokens) GetOrCreate(context.Context, int64, string) (*model.Token, error) {
	return nil, errors.New("db down")
}

func (failingTokens) FindUserByKey(context.Context, string) (*model.User, error) {
	return nil, errors.New("db down")
}

func (failingTokens) DeleteByUserID(context.Context, int64) error { return errors.New("db down") }

func TestRevoke_StoreFailureIsNotTokenNotFound(t *testing.T) {
	users := memstore.NewUserStore()
	a := NewAuthority(users, failingTokens{}, config.AuthConfig{PasswordMinLength: 6, BcryptCost: bcrypt.MinCost}, logging.Discard())
	ctx := context.Background()

	err := a.Revoke(ctx, &model.User{ID: 1})
	require.Error(t, err)
	assert.False(t, errors.Is(err, model.ErrTokenNotFound))

	_, err = a.Resolve(ctx, "0123456789abcdef0123456789abcdef01234567")
	require.Error(t, err)
	assert.False(t, errors.Is(err, model.ErrTokenNotFound))
}
