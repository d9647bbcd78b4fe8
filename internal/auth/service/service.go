// Package service implements admin authentication.
package service

import (
	"context"
	"time"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/auth/repository"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/apperr"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/config"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Users is the persistence surface the auth service needs.
type Users interface {
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.User, error)
}

// Session is an issued access token with its expiry.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        repository.User
}

type Service struct {
	users Users
	cfg   config.AuthServiceConfig
	log   *logger.Logger
}

func New(users Users, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{users: users, cfg: cfg, log: log}
}

// Login verifies credentials and issues an access token. Unknown email and
// wrong password return the same error; don't leak which one it was.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			s.log.AuthEvent("login", email, false, "unknown email")
			return Session{}, apperr.Unauthorized("invalid credentials")
		}
		return Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.AuthEvent("login", email, false, "bad password")
		return Session{}, apperr.Unauthorized("invalid credentials")
	}

	expiresAt := time.Now().Add(s.cfg.GetAccessTokenTTL())
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID.String(),
		"type":  "access",
		"roles": user.Roles,
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	})

	signed, err := token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
	if err != nil {
		return Session{}, apperr.Wrap(apperr.KindInternal, "sign token", err)
	}

	s.log.AuthEvent("login", email, true, "")
	return Session{AccessToken: signed, ExpiresAt: expiresAt, User: user}, nil
}

// Me returns the account behind an authenticated request.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (repository.User, error) {
	return s.users.GetByID(ctx, userID)
}
