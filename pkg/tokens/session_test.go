package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("test-session-secret")
	jti := uuid.NewString()
	issued := time.Now().UTC().Truncate(time.Second)

	tok, err := NewSessionToken(secret, jti, issued)
	require.NoError(t, err)

	claims, err := SessionClaimsFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Nil(t, claims.ExpiresAt)
	assert.True(t, issued.Equal(claims.IssuedAt.Time))
}

func TestSessionClaimsFromToken_Rejects(t *testing.T) {
	t.Parallel()

	secret := []byte("test-session-secret")
	good, err := NewSessionToken(secret, uuid.NewString(), time.Now())
	require.NoError(t, err)

	noRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ID: "x"}).SignedString(secret)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret []byte
	}{
		{name: "garbage", token: "not-a-jwt", secret: secret},
		{name: "wrong secret", token: good, secret: []byte("other")},
		{name: "missing role", token: noRole, secret: secret},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := SessionClaimsFromToken(tt.token, tt.secret)
			require.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}
