package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/smartnotes/internal/common"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	userID := "user-123"

	tok, err := GenerateToken(userID, secret, time.Hour)
	require.NoError(t, err)

	gotUserID, err := GetUserIDFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, userID, gotUserID)
}

func TestGetUserIDFromToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken("u1", secret, -1*time.Second)
	require.NoError(t, err)

	_, err = GetUserIDFromToken(tok, secret)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestGetUserIDFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u2", []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	_, err = GetUserIDFromToken(tok, []byte("wrong-secret"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestGetUserIDFromToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := GetUserIDFromToken("not.a.jwt", []byte("k"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestGetUserIDFromToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: "u1"})
	s, err := token.SignedString(secret)
	require.NoError(t, err)

	_, err = GetUserIDFromToken(s, secret)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestGetUserIDFromToken_RejectsUnlockGrant(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	grant, _, err := GenerateUnlockGrant("u1", "stamp", secret, time.Minute)
	require.NoError(t, err)

	_, err = GetUserIDFromToken(grant, secret)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestUnlockGrant(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	stamp := PinStamp("$2a$10$hash", secret)
	grant, expires, err := GenerateUnlockGrant("u1", stamp, secret, 10*time.Minute)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), expires, 2*time.Second)

	assert.NoError(t, VerifyUnlockGrant(grant, "u1", stamp, secret))
	assert.ErrorIs(t, VerifyUnlockGrant(grant, "u2", stamp, secret), common.ErrInvalidToken)
	assert.Error(t, VerifyUnlockGrant(grant, "u1", stamp, []byte("other")))

	session, err := GenerateToken("u1", secret, time.Hour)
	require.NoError(t, err)
	assert.ErrorIs(t, VerifyUnlockGrant(session, "u1", stamp, secret), common.ErrInvalidToken,
		"a session token is not an unlock grant")

	expired, _, err := GenerateUnlockGrant("u1", stamp, secret, -time.Minute)
	require.NoError(t, err)
	assert.ErrorIs(t, VerifyUnlockGrant(expired, "u1", stamp, secret), common.ErrTokenExpired)
}

func TestUnlockGrant_BoundToPin(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	stamp := PinStamp("$2a$10$first", secret)
	grant, _, err := GenerateUnlockGrant("u1", stamp, secret, time.Minute)
	require.NoError(t, err)

	assert.ErrorIs(t, VerifyUnlockGrant(grant, "u1", PinStamp("$2a$10$second", secret), secret), common.ErrInvalidToken,
		"a changed PIN invalidates the grant")
	assert.ErrorIs(t, VerifyUnlockGrant(grant, "u1", PinStamp("", secret), secret), common.ErrInvalidToken,
		"a cleared PIN invalidates the grant")

	empty, _, err := GenerateUnlockGrant("u1", "", secret, time.Minute)
	require.NoError(t, err)
	assert.ErrorIs(t, VerifyUnlockGrant(empty, "u1", "", secret), common.ErrInvalidToken)
}

func TestPinStamp(t *testing.T) {
	t.Parallel()

	assert.Empty(t, PinStamp("", []byte("k")))
	a := PinStamp("hash", []byte("k"))
	assert.Len(t, a, 32)
	assert.Equal(t, a, PinStamp("hash", []byte("k")))
	assert.NotEqual(t, a, PinStamp("hash", []byte("other")))
	assert.NotEqual(t, a, PinStamp("hash2", []byte("k")))
}

func TestUnlockedContext(t *testing.T) {
	ctx := context.Background()
	assert.False(t, IsUnlocked(ctx))
	assert.True(t, IsUnlocked(WithUnlocked(ctx)))
}

func TestClientAddrContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ClientAddr(ctx))
	assert.Equal(t, "10.0.0.7", ClientAddr(WithClientAddr(ctx, "10.0.0.7")))
}
