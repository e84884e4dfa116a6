package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"resortbooking/internal/domain"
	"resortbooking/internal/modules/session"
	"resortbooking/internal/pkg/jwt"
	"resortbooking/internal/pkg/validator"
	"resortbooking/internal/repository"
)

const minPasswordLen = 6

// Service is the identity provider. With the local provider it owns e-mail/password accounts
// and issues JWTs; with an external verifier it only resolves tokens.
type Service struct {
	users    UserRepository
	tokens   TokenIssuer
	verifier session.Verifier
	log      *logrus.Logger

	mu        sync.RWMutex
	listeners map[int]func(session.Change)
	nextID    int
}

func NewService(users UserRepository, tokens TokenIssuer, log *logrus.Logger) *Service {
	return &Service{
		users:     users,
		tokens:    tokens,
		log:       log,
		listeners: make(map[int]func(session.Change)),
	}
}

// UseVerifier hands token verification to an external provider. Sign-up and sign-in are then
// refused.
func (s *Service) UseVerifier(v session.Verifier) {
	s.verifier = v
}

func (s *Service) external() bool {
	return s.verifier != nil
}

func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*Session, error) {
	if s.external() {
		return nil, ErrExternalProvider
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validator.Var(email, "required,email") {
		return nil, ErrInvalidEmail
	}
	if len(req.Password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         domain.RoleGuest,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID}).Info("auth: account created")
	return s.issue(user)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if s.external() {
		return nil, ErrExternalProvider
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if !validator.Var(email, "required,email") {
		return nil, ErrInvalidEmail
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *Service) issue(user *domain.User) (*Session, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return &Session{User: user, Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Verify implements session.Verifier.
func (s *Service) Verify(ctx context.Context, token string) (*session.Credential, error) {
	if s.external() {
		return s.verifier.Verify(ctx, token)
	}

	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrInvalidToken) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	cred := &session.Credential{
		Identity: domain.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   domain.UserRole(claims.Role),
		},
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		cred.ExpiresAt = claims.ExpiresAt.Time
	}
	return cred, nil
}

// CurrentUser resolves the account behind token. Users known only to an external provider
// are described from the token itself.
func (s *Service) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	cred, err := s.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, cred.Identity.UserID)
	switch {
	case err == nil:
		user.PasswordHash = ""
		return user, nil
	case errors.Is(err, repository.ErrNotFound) && s.external():
		id := cred.Identity
		return &domain.User{ID: id.UserID, Email: id.Email, Name: id.Name, Role: id.Role}, nil
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrUnauthorized
	}
	return nil, err
}

// SignOut tells every subscriber that clientKey is anonymous again.
func (s *Service) SignOut(_ context.Context, clientKey string, st session.State) {
	s.notify(session.Change{
		ClientKey: clientKey,
		Previous:  st,
		Current:   session.AnonymousState(),
	})
}

// OnAuthStateChange registers cb and returns a function that removes it.
func (s *Service) OnAuthStateChange(cb func(session.Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = cb
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Service) notify(ch session.Change) {
	s.mu.RLock()
	cbs := make([]func(session.Change), 0, len(s.listeners))
	for _, cb := range s.listeners {
		cbs = append(cbs, cb)
	}
	s.mu.RUnlock()

	for _, cb := range cbs {
		cb(ch)
	}
}
