package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin     = "admin"
	tokenLifetime = 24 * time.Hour
)

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
}

// AdminAccount is the single account allowed to change tournaments.
type AdminAccount struct {
	Username     string
	PasswordHash string
}

type authService struct {
	admin     AdminAccount
	jwtSecret []byte
	now       func() time.Time
}

func NewAuthService(admin AdminAccount, jwtSecret string) AuthService {
	return &authService{
		admin:     admin,
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
	}
}

func (s *authService) Login(_ context.Context, input LoginInput) (*LoginResult, error) {
	userOK := subtle.ConstantTimeCompare([]byte(input.Username), []byte(s.admin.Username)) == 1

	// Хеш сравнивается всегда, чтобы время ответа не выдавало имя пользователя.
	err := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(input.Password))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}
	if err != nil || !userOK {
		return nil, ErrAuthInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(tokenLifetime)
	claims := jwt.MapClaims{
		"sub":  s.admin.Username,
		"role": RoleAdmin,
		"exp":  expiresAt.Unix(),
		"iat":  now.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt}, nil
}
