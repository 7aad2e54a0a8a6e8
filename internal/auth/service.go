package auth

import (
	"context"
	"errors"
	"strings"

	"task-marketplace-api/internal/domain"
	"task-marketplace-api/internal/models"
	"task-marketplace-api/internal/store"

	"github.com/google/uuid"
)

const (
	minPasswordLength = 6
	maxUsernameLength = 50
)

// Session is the result of a successful register or login.
type Session struct {
	Token   string         `json:"token"`
	Profile models.Profile `json:"profile"`
}

// Service registers and authenticates profiles.
type Service struct {
	store  *store.Store
	tokens *Tokens
}

// NewService creates an auth service.
func NewService(st *store.Store, tokens *Tokens) *Service {
	return &Service{store: st, tokens: tokens}
}

// Tokens returns the token manager used to sign sessions.
func (s *Service) Tokens() *Tokens { return s.tokens }

// Register creates a profile and signs a token for it.
func (s *Service) Register(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return Session{}, domain.Invalid(domain.ReasonInvalidInput, "username is required")
	case len(username) > maxUsernameLength:
		return Session{}, domain.Invalid(domain.ReasonInvalidInput, "username must be at most %d characters", maxUsernameLength)
	case len(password) < minPasswordLength:
		return Session{}, domain.Invalid(domain.ReasonInvalidInput, "password must be at least %d characters", minPasswordLength)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Session{}, domain.Wrap("hash password", err)
	}
	p := models.Profile{ID: uuid.NewString(), Username: username, PasswordHash: hash}
	if err := s.store.CreateProfile(ctx, &p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return Session{}, domain.Invalid(domain.ReasonUsernameTaken, "username is already taken")
		}
		return Session{}, domain.Wrap("create profile", err)
	}
	return s.session(p)
}

// Login checks the credentials and signs a token.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	p, err := s.store.GetProfileByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrNotFound) {
		return Session{}, domain.Invalid(domain.ReasonInvalidCredentials, "invalid username or password")
	}
	if err != nil {
		return Session{}, domain.Wrap("load profile", err)
	}
	if !CheckPassword(p.PasswordHash, password) {
		return Session{}, domain.Invalid(domain.ReasonInvalidCredentials, "invalid username or password")
	}
	return s.session(p)
}

func (s *Service) session(p models.Profile) (Session, error) {
	token, err := s.tokens.Generate(p.ID, p.Username)
	if err != nil {
		return Session{}, domain.Wrap("sign token", err)
	}
	return Session{Token: token, Profile: p}, nil
}
