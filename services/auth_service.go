package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tea-techniques-api/models"
	"tea-techniques-api/repositories"
)

type AuthService interface {
	// Login verifies credentials and opens a server-stored session,
	// returning the opaque token for the session cookie.
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	Logout(ctx context.Context, token string) error
	// GetSession resolves a cookie token to a live session, expiring
	// stale rows on the way.
	GetSession(ctx context.Context, token string) (*models.Session, error)
	// EnsureAdmin creates or updates a staff user with the given
	// credentials.
	EnsureAdmin(ctx context.Context, username, email, password string) (*models.User, error)
}

type authService struct {
	store      *repositories.Store
	sessionTTL time.Duration
}

func NewAuthService(store *repositories.Store, sessionTTL time.Duration) AuthService {
	return &authService{store: store, sessionTTL: sessionTTL}
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.store.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", models.NewAuthenticationFailed("Invalid credentials")
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", models.NewAuthenticationFailed("Invalid credentials")
	}

	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.store.Sessions.Create(ctx, session); err != nil {
		return nil, "", err
	}
	return user, session.Token, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	return s.store.Sessions.DeleteByToken(ctx, token)
}

func (s *authService) GetSession(ctx context.Context, token string) (*models.Session, error) {
	session, err := s.store.Sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.Expired() {
		_ = s.store.Sessions.DeleteByToken(ctx, token)
		return nil, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (s *authService) EnsureAdmin(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Users.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &models.User{Username: username, Email: email, Password: string(hash), IsStaff: true}
		if err := s.store.Users.Create(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if err != nil {
		return nil, err
	}

	user.Password = string(hash)
	user.IsStaff = true
	if email != "" {
		user.Email = email
	}
	if err := s.store.Users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
