package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papermintx/stylemarket/internal/auth"
	"github.com/papermintx/stylemarket/internal/domain"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
}

func (f *fakeUserRepo) Save(_ context.Context, u *domain.User) error {
	if f.byEmail == nil {
		f.byEmail = map[string]*domain.User{}
	}
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.byEmail)), nil
}

func newAuthUC(key string) *AuthUC {
	return &AuthUC{
		Users:       &fakeUserRepo{},
		Tokens:      auth.NewManager("test-secret", time.Hour),
		RegisterKey: key,
	}
}

func TestFirstRegisterNeedsNoKey(t *testing.T) {
	uc := newAuthUC("topsecret")

	u, err := uc.Register(context.Background(), "Admin@Example.com", "password123", "")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", u.Email)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	assert.NotEqual(t, "password123", u.PasswordHash)
}

func TestSecondRegisterNeedsKey(t *testing.T) {
	uc := newAuthUC("topsecret")
	_, err := uc.Register(context.Background(), "a@example.com", "password123", "")
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), "b@example.com", "password123", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Register(context.Background(), "b@example.com", "password123", "topsecret")
	assert.NoError(t, err)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	uc := newAuthUC("k")
	_, err := uc.Register(context.Background(), "a@example.com", "password123", "")
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), "a@example.com", "password123", "k")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	uc := newAuthUC("")
	_, err := uc.Register(context.Background(), "a@example.com", "short", "")
	assert.Error(t, err)
}

func TestLoginRoundTrip(t *testing.T) {
	uc := newAuthUC("")
	_, err := uc.Register(context.Background(), "a@example.com", "password123", "")
	require.NoError(t, err)

	tok, role, err := uc.Login(context.Background(), "a@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)

	claims, err := uc.Tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	uc := newAuthUC("")
	_, err := uc.Register(context.Background(), "a@example.com", "password123", "")
	require.NoError(t, err)

	_, _, err = uc.Login(context.Background(), "a@example.com", "nope")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, _, err = uc.Login(context.Background(), "missing@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
