package guard

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bodega/pkg/logging"
	"github.com/Skotchmaster/bodega/pkg/tokens"
)

type memStore struct {
	mu       sync.Mutex
	sessions map[string]string
	revoked  map[string]bool
	err      error
}

func newMemStore() *memStore {
	return &memStore{sessions: map[string]string{}, revoked: map[string]bool{}}
}

func (m *memStore) CreateSession(_ context.Context, jti, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sessions[jti] = hash
	return nil
}

func (m *memStore) SessionActive(_ context.Context, jti, hash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	h, ok := m.sessions[jti]
	return ok && h == hash && !m.revoked[jti], nil
}

func (m *memStore) RevokeSession(_ context.Context, jti string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.revoked[jti] = true
	return nil
}

var testSecret = []byte("test-session-secret")

func newTestGuard(t *testing.T) (*Guard, *memStore) {
	t.Helper()
	store := newMemStore()
	g, err := New("admin123", testSecret, store)
	require.NoError(t, err)
	return g, store
}

func TestNew_RequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := New("admin123", nil, newMemStore())
	require.Error(t, err)
}

func TestLogin_WrongPasswordLeavesLoggingToCaller(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := logging.IntoContext(context.Background(), logging.NewWithWriter(&buf, "debug"))

	g, _ := newTestGuard(t)
	_, _, err := g.Login(ctx, "nope")
	require.ErrorIs(t, err, ErrWrongPassword)
	assert.Empty(t, buf.String())
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	g, store := newTestGuard(t)
	tok, s, err := g.Login(context.Background(), "nope")
	require.ErrorIs(t, err, ErrWrongPassword)
	assert.Empty(t, tok)
	assert.False(t, s.Authenticated())
	assert.Empty(t, store.sessions)
}

func TestLogin_InitLogout(t *testing.T) {
	t.Parallel()

	g, _ := newTestGuard(t)
	ctx := context.Background()

	tok, s, err := g.Login(ctx, "admin123")
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	assert.Equal(t, Authenticated, s.State)

	claims, err := tokens.SessionClaimsFromToken(tok, testSecret)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt, "sessions do not expire")

	restored, err := g.Init(ctx, tok)
	require.NoError(t, err)
	assert.True(t, restored.Authenticated())
	assert.Equal(t, s.ID, restored.ID)
	assert.WithinDuration(t, s.IssuedAt, restored.IssuedAt, time.Second)

	out, err := g.Logout(ctx, restored)
	require.NoError(t, err)
	assert.Equal(t, Anonymous, out.State)

	after, err := g.Init(ctx, tok)
	require.NoError(t, err)
	assert.False(t, after.Authenticated(), "revoked token must not authenticate")
}

func TestInit_Anonymous(t *testing.T) {
	t.Parallel()

	g, _ := newTestGuard(t)
	ctx := context.Background()

	unknown, err := tokens.NewSessionToken(testSecret, "never-stored", time.Now())
	require.NoError(t, err)
	forged, err := tokens.NewSessionToken([]byte("other"), "x", time.Now())
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "wrong secret", token: forged},
		{name: "unknown jti", token: unknown},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := g.Init(ctx, tt.token)
			require.NoError(t, err)
			assert.Equal(t, Anonymous, s.State)
		})
	}
}

func TestInit_StoreFailure(t *testing.T) {
	t.Parallel()

	g, store := newTestGuard(t)
	ctx := context.Background()
	tok, _, err := g.Login(ctx, "admin123")
	require.NoError(t, err)

	store.mu.Lock()
	store.err = errors.New("db down")
	store.mu.Unlock()

	_, err = g.Init(ctx, tok)
	require.Error(t, err)
}

func TestLogout_AnonymousIsNoop(t *testing.T) {
	t.Parallel()

	g, _ := newTestGuard(t)
	s, err := g.Logout(context.Background(), Session{})
	require.NoError(t, err)
	assert.Equal(t, Anonymous, s.State)
	assert.Equal(t, "anonymous", s.State.String())
}
