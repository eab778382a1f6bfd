// Package session owns the console's authentication state.
//
// A Session is constructed once at startup and handed to every component that
// needs it. It is the only writer of the credential store.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/ports"
)

// State names the two states of the session machine.
type State string

const (
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

// Snapshot is an immutable copy of the session state.
type Snapshot struct {
	State         State           `json:"state"`
	Authenticated bool            `json:"authenticated"`
	Role          domain.Role     `json:"role,omitempty"`
	Identity      domain.Identity `json:"-"`
	Subject       string          `json:"subject,omitempty"`
}

type Session struct {
	store ports.CredentialStore
	auth  ports.AuthBackend
	log   zerolog.Logger
	now   func() time.Time

	mu            sync.RWMutex
	authenticated bool
	token         string
	role          domain.Role
	identity      domain.Identity
}

var _ ports.SessionService = (*Session)(nil)

func New(store ports.CredentialStore, auth ports.AuthBackend, log zerolog.Logger) *Session {
	return &Session{store: store, auth: auth, log: log, now: time.Now}
}

// Initialize loads a previously persisted credential. A stored role wins over
// the credential's role claim; a decoded role is written back to the store.
// Claim decoding problems leave the session authenticated without a role.
func (s *Session) Initialize(ctx context.Context) error {
	token, ok, err := s.store.Get(ctx, ports.KeyToken)
	if err != nil {
		s.reset()
		return fmt.Errorf("load credential: %w", err)
	}
	if !ok || token == "" {
		s.reset()
		return nil
	}

	var role domain.Role
	if raw, ok, err := s.store.Get(ctx, ports.KeyRole); err != nil {
		s.log.Warn().Err(err).Msg("could not read stored role")
	} else if ok {
		if r, valid := domain.ParseRole(raw); valid {
			role = r
		} else {
			s.log.Warn().Str("role", raw).Msg("ignoring unknown stored role")
		}
	}

	var identity domain.Identity
	claims, err := DecodeClaims(token)
	if err != nil {
		s.log.Warn().Err(err).Msg("credential claims unreadable, continuing without role")
	} else {
		identity = domain.Identity{Subject: claims.Subject}
		if claims.Expired(s.now()) {
			s.log.Warn().Time("expires_at", claims.ExpiresAt).Msg("stored credential has expired")
		}
		if role == "" && claims.Role != "" {
			role = claims.Role
			if err := s.store.Set(ctx, ports.KeyRole, role.String()); err != nil {
				s.log.Warn().Err(err).Msg("could not persist decoded role")
			}
		}
	}
	if role == "" {
		s.log.Warn().Msg("no role available for stored credential")
	}

	s.mu.Lock()
	s.authenticated = true
	s.token = token
	s.role = role
	s.identity = identity
	s.mu.Unlock()

	s.log.Info().Str("subject", identity.Subject).Str("role", role.String()).Msg("session restored")
	return nil
}

// Login authenticates against the backend. On any failure the session and
// the store are left as they were.
func (s *Session) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return domain.ErrInvalidCredentials
	}

	res, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if res.Token == "" {
		return fmt.Errorf("login: response carried no credential: %w", domain.ErrTransport)
	}

	role := res.Role
	identity := domain.Identity{Subject: username}
	if claims, err := DecodeClaims(res.Token); err != nil {
		s.log.Warn().Err(err).Msg("issued credential claims unreadable")
	} else {
		if claims.Subject != "" {
			identity.Subject = claims.Subject
		}
		if role == "" {
			role = claims.Role
		}
	}

	if err := s.persist(ctx, res.Token, role); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	s.mu.Lock()
	s.authenticated = true
	s.token = res.Token
	s.role = role
	s.identity = identity
	s.mu.Unlock()

	s.log.Info().Str("subject", identity.Subject).Str("role", role.String()).Msg("logged in")
	return nil
}

// persist writes token and role, undoing partial writes on failure.
func (s *Session) persist(ctx context.Context, token string, role domain.Role) error {
	prevToken, hadToken, _ := s.store.Get(ctx, ports.KeyToken)
	prevRole, hadRole, _ := s.store.Get(ctx, ports.KeyRole)

	restore := func() {
		if hadToken {
			_ = s.store.Set(ctx, ports.KeyToken, prevToken)
		} else {
			_ = s.store.Delete(ctx, ports.KeyToken)
		}
		if hadRole {
			_ = s.store.Set(ctx, ports.KeyRole, prevRole)
		} else {
			_ = s.store.Delete(ctx, ports.KeyRole)
		}
	}

	if err := s.store.Set(ctx, ports.KeyToken, token); err != nil {
		restore()
		return fmt.Errorf("persist credential: %w", err)
	}
	var err error
	if role != "" {
		err = s.store.Set(ctx, ports.KeyRole, role.String())
	} else {
		err = s.store.Delete(ctx, ports.KeyRole)
	}
	if err != nil {
		restore()
		return fmt.Errorf("persist role: %w", err)
	}
	return nil
}

// Logout clears the persisted credential and role. It cannot fail; store
// errors are logged.
func (s *Session) Logout(ctx context.Context) {
	if err := s.store.Delete(ctx, ports.KeyToken, ports.KeyRole); err != nil {
		s.log.Warn().Err(err).Msg("could not clear stored credential")
	}
	s.reset()
	s.log.Info().Msg("logged out")
}

// Reject resets the session after the backend refused its credential.
func (s *Session) Reject(ctx context.Context, cause error) {
	if !s.Authenticated() {
		return
	}
	s.log.Warn().Err(cause).Msg("backend rejected credential")
	s.Logout(ctx)
}

func (s *Session) reset() {
	s.mu.Lock()
	s.authenticated = false
	s.token = ""
	s.role = ""
	s.identity = domain.Identity{}
	s.mu.Unlock()
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *Session) Role() domain.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

func (s *Session) Identity() domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Token returns the bearer credential, or "" when anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := StateAnonymous
	if s.authenticated {
		st = StateAuthenticated
	}
	return Snapshot{
		State:         st,
		Authenticated: s.authenticated,
		Role:          s.role,
		Identity:      s.identity,
		Subject:       s.identity.Subject,
	}
}

// IsRejection reports whether err means the backend refused the session's
// credential. A failed login attempt is not a rejection.
func IsRejection(err error) bool {
	return errors.Is(err, domain.ErrNotAuthenticated) && !errors.Is(err, domain.ErrInvalidCredentials)
}
