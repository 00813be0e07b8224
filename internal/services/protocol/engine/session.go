package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/louisbranch/lifeprotocol/internal/services/protocol/domain"
	"github.com/louisbranch/lifeprotocol/internal/services/protocol/storage"
	"golang.org/x/crypto/bcrypt"
)

// AuthResult is the outcome of an authentication attempt. User is set only
// on success.
type AuthResult struct {
	Success bool
	Message string
	User    *domain.User
}

// Authenticate signs login in, creating the account and its partition when
// the login is unknown. A wrong password is reported in the result, not as
// an error.
func (s *Service) Authenticate(ctx context.Context, login string, password string, localeHint string) (AuthResult, error) {
	if err := s.ready(); err != nil {
		return AuthResult{}, err
	}
	ctx, span := tracer.Start(ctx, "protocol.Authenticate")
	defer span.End()

	login = domain.NormalizeLogin(login)
	locale := s.translator.Resolve(firstNonBlank(localeHint, s.cfg.DefaultLocale))
	if login == "" || password == "" {
		return AuthResult{Message: s.translator.Translate(locale, "session.credentials_required", nil)}, nil
	}

	unlock := s.locks.Lock(login)
	defer unlock()

	user, err := s.store.GetUser(ctx, login)
	if errors.Is(err, storage.ErrNotFound) {
		created, err := s.createUserLocked(ctx, login, password, locale)
		if err != nil {
			span.RecordError(err)
			return AuthResult{}, err
		}
		log.Printf("protocol: created user %s", login)
		return AuthResult{
			Success: true,
			Message: s.translator.Translate(created.Locale, "session.created", nil),
			User:    &created,
		}, nil
	}
	if err != nil {
		span.RecordError(err)
		return AuthResult{}, fmt.Errorf("get user %s: %w", login, err)
	}

	if !passwordMatches(user.PasswordHash, password) {
		return AuthResult{Message: s.translator.Translate(locale, "session.wrong_password", nil)}, nil
	}
	return AuthResult{
		Success: true,
		Message: s.translator.Translate(user.Locale, "session.welcome_back", nil),
		User:    &user,
	}, nil
}

func (s *Service) createUserLocked(ctx context.Context, login string, password string, locale string) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.PasswordCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		Login:        login,
		PasswordHash: string(hash),
		Locale:       locale,
		CreatedAt:    s.now(),
	}
	if err := s.store.PutUser(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("put user %s: %w", login, err)
	}
	if _, err := s.withPartitionLocked(ctx, login, domain.TriggerScheduled, nil); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// ResolveLogin maps a blank or unknown login to the guest partition.
func (s *Service) ResolveLogin(ctx context.Context, candidate string) string {
	login := domain.NormalizeLogin(candidate)
	if login == "" || login == domain.GuestLogin || s.store == nil {
		return domain.GuestLogin
	}
	if _, err := s.store.GetUser(ctx, login); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("protocol: resolve login %s: %v", login, err)
		}
		return domain.GuestLogin
	}
	return login
}

// RequireAuth returns the user for valid credentials and ErrUnauthorized
// otherwise.
func (s *Service) RequireAuth(ctx context.Context, login string, password string) (domain.User, error) {
	if err := s.ready(); err != nil {
		return domain.User{}, err
	}
	login = domain.NormalizeLogin(login)
	if login == "" || password == "" {
		return domain.User{}, domain.ErrUnauthorized
	}
	user, err := s.store.GetUser(ctx, login)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.User{}, domain.ErrUnauthorized
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user %s: %w", login, err)
	}
	if !passwordMatches(user.PasswordHash, password) {
		return domain.User{}, domain.ErrUnauthorized
	}
	return user, nil
}

// UpdateLanguage stores a new locale for an authenticated user and its
// partition.
func (s *Service) UpdateLanguage(ctx context.Context, login string, password string, language string) (domain.User, error) {
	user, err := s.RequireAuth(ctx, login, password)
	if err != nil {
		return domain.User{}, err
	}
	locale := s.translator.Resolve(language)

	unlock := s.locks.Lock(user.Login)
	defer unlock()

	user.Locale = locale
	if err := s.store.PutUser(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("put user %s: %w", user.Login, err)
	}
	_, err = s.withPartitionLocked(ctx, user.Login, domain.TriggerScheduled, func(p *domain.Partition) (bool, error) {
		if p.Locale == locale {
			return false, nil
		}
		p.Locale = locale
		return true, nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// EnsureGuest creates the guest account and partition when missing.
func (s *Service) EnsureGuest(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	unlock := s.locks.Lock(domain.GuestLogin)
	defer unlock()

	_, err := s.store.GetUser(ctx, domain.GuestLogin)
	if errors.Is(err, storage.ErrNotFound) {
		if _, err := s.createUserLocked(ctx, domain.GuestLogin, domain.GuestPassword, s.defaultLocale()); err != nil {
			return fmt.Errorf("ensure guest: %w", err)
		}
		log.Printf("protocol: created guest account")
		return nil
	}
	if err != nil {
		return fmt.Errorf("ensure guest: %w", err)
	}
	_, err = s.withPartitionLocked(ctx, domain.GuestLogin, domain.TriggerScheduled, nil)
	return err
}

func passwordMatches(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
