package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubStore struct {
	data   map[string]string
	setErr map[string]error
	getErr error
}

func newStubStore() *stubStore {
	return &stubStore{data: map[string]string{}, setErr: map[string]error{}}
}

func (s *stubStore) Get(_ context.Context, key string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *stubStore) Set(_ context.Context, key, value string) error {
	if err := s.setErr[key]; err != nil {
		return err
	}
	s.data[key] = value
	return nil
}

func (s *stubStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

type stubAuth struct {
	result ports.LoginResult
	err    error
	calls  int
}

func (a *stubAuth) Login(_ context.Context, _, _ string) (ports.LoginResult, error) {
	a.calls++
	return a.result, a.err
}

func (a *stubAuth) Register(context.Context, domain.Registration) error { return nil }

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

var nop = zerolog.Nop()

// ---------------------------------------------------------------------------
// Initialize
// ---------------------------------------------------------------------------

func TestInitialize_NoCredential(t *testing.T) {
	s := New(newStubStore(), &stubAuth{}, nop)
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Authenticated() || s.Role() != "" {
		t.Fatalf("expected anonymous session, got %+v", s.Snapshot())
	}
	if s.Snapshot().State != StateAnonymous {
		t.Fatalf("expected anonymous state")
	}
}

func TestInitialize_StoredRoleWins(t *testing.T) {
	store := newStubStore()
	store.data[ports.KeyToken] = signed(t, jwt.MapClaims{"sub": "alice", "role": "USER"})
	store.data[ports.KeyRole] = "ADMIN"

	s := New(store, &stubAuth{}, nop)
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Authenticated() || s.Role() != domain.RoleAdmin {
		t.Fatalf("expected ADMIN, got %+v", s.Snapshot())
	}
	if s.Identity().Subject != "alice" {
		t.Fatalf("expected subject alice, got %q", s.Identity().Subject)
	}
}

func TestInitialize_RoleDecodedFromClaimsAndPersisted(t *testing.T) {
	store := newStubStore()
	store.data[ports.KeyToken] = signed(t, jwt.MapClaims{"sub": "root", "role": "SUPER_ADMIN"})

	s := New(store, &stubAuth{}, nop)
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Role() != domain.RoleSuperAdmin {
		t.Fatalf("expected SUPER_ADMIN, got %q", s.Role())
	}
	if store.data[ports.KeyRole] != "SUPER_ADMIN" {
		t.Fatalf("decoded role not written back: %q", store.data[ports.KeyRole])
	}
}

func TestInitialize_MalformedCredentialIsAuthenticatedWithoutRole(t *testing.T) {
	store := newStubStore()
	store.data[ports.KeyToken] = "not-a-jwt"

	s := New(store, &stubAuth{}, nop)
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("decode failure must not be fatal: %v", err)
	}
	if !s.Authenticated() {
		t.Fatalf("expected authenticated")
	}
	if s.Role() != "" {
		t.Fatalf("expected no role, got %q", s.Role())
	}
}

func TestInitialize_UnknownRoleClaimIgnored(t *testing.T) {
	store := newStubStore()
	store.data[ports.KeyToken] = signed(t, jwt.MapClaims{"sub": "x", "role": "OWNER"})

	s := New(store, &stubAuth{}, nop)
	_ = s.Initialize(context.Background())
	if s.Role() != "" {
		t.Fatalf("expected no role, got %q", s.Role())
	}
	if _, ok := store.data[ports.KeyRole]; ok {
		t.Fatalf("unknown role must not be persisted")
	}
}

func TestInitialize_StoreFailure(t *testing.T) {
	store := newStubStore()
	store.getErr = errors.New("disk gone")

	s := New(store, &stubAuth{}, nop)
	if err := s.Initialize(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if s.Authenticated() {
		t.Fatalf("expected anonymous after store failure")
	}
}

// ---------------------------------------------------------------------------
// Login / Logout
// ---------------------------------------------------------------------------

func TestLogin_Success(t *testing.T) {
	store := newStubStore()
	tok := signed(t, jwt.MapClaims{"sub": "alice", "role": "USER"})
	s := New(store, &stubAuth{result: ports.LoginResult{Token: tok, Role: domain.RoleAdmin}}, nop)

	if err := s.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Authenticated() || s.Role() != domain.RoleAdmin || s.Token() != tok {
		t.Fatalf("unexpected state %+v", s.Snapshot())
	}
	if store.data[ports.KeyToken] != tok || store.data[ports.KeyRole] != "ADMIN" {
		t.Fatalf("credential not persisted: %+v", store.data)
	}
}

func TestLogin_RoleFromClaimsWhenResponseOmitsIt(t *testing.T) {
	tok := signed(t, jwt.MapClaims{"sub": "bob", "role": "SUPER_ADMIN"})
	s := New(newStubStore(), &stubAuth{result: ports.LoginResult{Token: tok}}, nop)

	if err := s.Login(context.Background(), "bob", "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Role() != domain.RoleSuperAdmin {
		t.Fatalf("expected SUPER_ADMIN, got %q", s.Role())
	}
}

func TestLogin_FailureLeavesStateUntouched(t *testing.T) {
	tests := []struct {
		name string
		auth *stubAuth
	}{
		{"rejected", &stubAuth{err: domain.ErrInvalidCredentials}},
		{"transport", &stubAuth{err: &domain.TransportError{Op: "login", StatusCode: 503}}},
		{"no token", &stubAuth{result: ports.LoginResult{Role: domain.RoleAdmin}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStubStore()
			s := New(store, tt.auth, nop)

			if err := s.Login(context.Background(), "alice", "secret"); err == nil {
				t.Fatalf("expected error")
			}
			if s.Authenticated() || s.Role() != "" {
				t.Fatalf("state mutated: %+v", s.Snapshot())
			}
			if len(store.data) != 0 {
				t.Fatalf("store mutated: %+v", store.data)
			}
		})
	}
}

func TestLogin_PersistFailureRollsBack(t *testing.T) {
	store := newStubStore()
	store.setErr[ports.KeyRole] = errors.New("quota")
	tok := signed(t, jwt.MapClaims{"sub": "alice"})
	s := New(store, &stubAuth{result: ports.LoginResult{Token: tok, Role: domain.RoleUser}}, nop)

	if err := s.Login(context.Background(), "alice", "secret"); err == nil {
		t.Fatalf("expected error")
	}
	if s.Authenticated() {
		t.Fatalf("must not be partially authenticated")
	}
	if _, ok := store.data[ports.KeyToken]; ok {
		t.Fatalf("token write not rolled back")
	}
}

func TestLogin_EmptyCredentialsNeverCallBackend(t *testing.T) {
	auth := &stubAuth{}
	s := New(newStubStore(), auth, nop)
	if err := s.Login(context.Background(), "", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if auth.calls != 0 {
		t.Fatalf("backend called")
	}
}

func TestLogout_ThenInitializeIsAnonymous(t *testing.T) {
	store := newStubStore()
	tok := signed(t, jwt.MapClaims{"sub": "alice", "role": "ADMIN"})
	s := New(store, &stubAuth{result: ports.LoginResult{Token: tok}}, nop)
	if err := s.Login(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	s.Logout(context.Background())
	if s.Authenticated() || s.Role() != "" || s.Token() != "" {
		t.Fatalf("logout left state behind: %+v", s.Snapshot())
	}

	fresh := New(store, &stubAuth{}, nop)
	if err := fresh.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if fresh.Snapshot().State != StateAnonymous {
		t.Fatalf("expected anonymous, got %+v", fresh.Snapshot())
	}
}

func TestReject_ResetsAuthenticatedSession(t *testing.T) {
	store := newStubStore()
	store.data[ports.KeyToken] = signed(t, jwt.MapClaims{"sub": "alice", "role": "USER"})
	s := New(store, &stubAuth{}, nop)
	_ = s.Initialize(context.Background())

	s.Reject(context.Background(), &domain.TransportError{Op: "list users", StatusCode: 401})
	if s.Authenticated() {
		t.Fatalf("expected reset")
	}
	if len(store.data) != 0 {
		t.Fatalf("store not cleared: %+v", store.data)
	}
}

func TestDecodeClaims_Expiry(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	c, err := DecodeClaims(signed(t, jwt.MapClaims{"sub": "a", "exp": past.Unix()}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !c.Expired(time.Now()) {
		t.Fatalf("expected expired")
	}
	if (Claims{}).Expired(time.Now()) {
		t.Fatalf("no expiry means not expired")
	}
}

func TestIsRejection(t *testing.T) {
	if !IsRejection(&domain.TransportError{Op: "list users", StatusCode: 401}) {
		t.Fatalf("401 on a data call is a rejection")
	}
	failedLogin := fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, &domain.TransportError{Op: "login", StatusCode: 401})
	if IsRejection(failedLogin) {
		t.Fatalf("failed login must not reset the session")
	}
	if IsRejection(&domain.TransportError{Op: "x", StatusCode: 500}) {
		t.Fatalf("500 is not a rejection")
	}
}
