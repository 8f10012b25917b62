package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	user := &User{ID: 7, Username: "petugas1", Role: RoleOperator}

	token, expiresAt, err := svc.GenerateAccessToken("sess-abc", user)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	sess, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-abc", sess.SessionID)
	assert.Equal(t, "7", sess.UserID)
	assert.Equal(t, "petugas1", sess.Username)
	assert.Contains(t, sess.Roles, RoleOperator)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	signer := NewJWTService(DefaultJWTConfig("secret-a"))
	verifier := NewJWTService(DefaultJWTConfig("secret-b"))

	token, _, err := signer.GenerateAccessToken("sess-abc", &User{ID: 1, Username: "x"})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	cfg := DefaultJWTConfig("test-secret")
	cfg.AccessTokenTTL = -time.Minute
	svc := NewJWTService(cfg)

	token, _, err := svc.GenerateAccessToken("sess-abc", &User{ID: 1, Username: "x"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
