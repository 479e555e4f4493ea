// Package guard owns the admin session: a password login that issues a
// signed token, and a revocation list that ends it.
package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkghash "github.com/Skotchmaster/bodega/pkg/hash"
	"github.com/Skotchmaster/bodega/pkg/logging"
	"github.com/Skotchmaster/bodega/pkg/tokens"
)

var ErrWrongPassword = errors.New("guard: wrong password")

// WrongPasswordMessage is what the login form shows on a mismatch.
const WrongPasswordMessage = "Clave incorrecta"

type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

type Session struct {
	State    State
	ID       string
	IssuedAt time.Time
}

func (s Session) Authenticated() bool { return s.State == Authenticated }

type Store interface {
	CreateSession(ctx context.Context, jti, tokenHash string) error
	SessionActive(ctx context.Context, jti, tokenHash string) (bool, error)
	RevokeSession(ctx context.Context, jti string) error
}

type Guard struct {
	passwordHash string
	secret       []byte
	store        Store
	now          func() time.Time
}

func New(password string, secret []byte, store Store) (*Guard, error) {
	if len(secret) == 0 {
		return nil, errors.New("guard: empty session secret")
	}
	h, err := pkghash.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("guard: hash password: %w", err)
	}
	return &Guard{
		passwordHash: h,
		secret:       secret,
		store:        store,
		now:          func() time.Time { return time.Now().UTC() },
	}, nil
}

// Login checks password and opens a new session. The returned token has no
// expiry and stays valid until Logout.
func (g *Guard) Login(ctx context.Context, password string) (string, Session, error) {
	l := logging.FromContext(ctx).With("svc", "guard.login")

	if !pkghash.CheckPassword(g.passwordHash, password) {
		return "", Session{}, ErrWrongPassword
	}

	jti := uuid.NewString()
	issued := g.now()
	tok, err := tokens.NewSessionToken(g.secret, jti, issued)
	if err != nil {
		return "", Session{}, fmt.Errorf("guard: sign session: %w", err)
	}
	if err := g.store.CreateSession(ctx, jti, pkghash.Sha256Hex(tok)); err != nil {
		return "", Session{}, fmt.Errorf("guard: store session: %w", err)
	}

	l.Info("login_success", "session", jti)
	return tok, Session{State: Authenticated, ID: jti, IssuedAt: issued}, nil
}

// Init restores the session a token stands for. Unknown, forged or revoked
// tokens give an anonymous session without an error; only store failures
// are returned.
func (g *Guard) Init(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, nil
	}
	claims, err := tokens.SessionClaimsFromToken(token, g.secret)
	if err != nil {
		logging.FromContext(ctx).Debug("session_rejected", "error", err)
		return Session{}, nil
	}

	ok, err := g.store.SessionActive(ctx, claims.ID, pkghash.Sha256Hex(token))
	if err != nil {
		return Session{}, fmt.Errorf("guard: lookup session: %w", err)
	}
	if !ok {
		return Session{}, nil
	}

	s := Session{State: Authenticated, ID: claims.ID}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	return s, nil
}

func (g *Guard) Logout(ctx context.Context, s Session) (Session, error) {
	if !s.Authenticated() {
		return Session{}, nil
	}
	if err := g.store.RevokeSession(ctx, s.ID); err != nil {
		return s, fmt.Errorf("guard: revoke session: %w", err)
	}
	logging.FromContext(ctx).Info("logout_success", "session", s.ID)
	return Session{}, nil
}
