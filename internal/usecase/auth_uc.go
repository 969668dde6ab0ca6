package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/papermintx/stylemarket/internal/auth"
	"github.com/papermintx/stylemarket/internal/domain"
)

type AuthUC struct {
	Users  domain.UserRepo
	Tokens *auth.Manager
	// RegisterKey gates self-registration once any admin account exists.
	RegisterKey string
}

// Login verifies the password and returns a signed token plus the role.
func (uc *AuthUC) Login(ctx context.Context, email, password string) (string, string, error) {
	u, err := uc.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", "", domain.ErrUnauthorized
		}
		return "", "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", "", domain.ErrUnauthorized
	}
	tok, err := uc.Tokens.Issue(u.Email, u.Role)
	if err != nil {
		return "", "", err
	}
	return tok, u.Role, nil
}

// Register creates an admin account. The first account ever needs no key;
// after that the caller must present the register key.
func (uc *AuthUC) Register(ctx context.Context, email, password, key string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return nil, errors.New("email and a password of at least 8 characters are required")
	}

	n, err := uc.Users.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 && (uc.RegisterKey == "" || key != uc.RegisterKey) {
		return nil, domain.ErrUnauthorized
	}

	if _, err := uc.Users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicate
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:           uuid.New(),
		Username:     strings.SplitN(email, "@", 2)[0],
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := uc.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
