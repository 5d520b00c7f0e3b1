package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseSessionID(t *testing.T) {
	keys, err := NewKeys("test-secret")
	require.NoError(t, err)

	token, err := keys.SignSessionID("session-123", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sessionID, err := keys.ParseSessionID(token)
	require.NoError(t, err)
	assert.Equal(t, "session-123", sessionID)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	keys, err := NewKeys("test-secret")
	require.NoError(t, err)

	token, err := keys.SignSessionID("session-123", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = keys.ParseSessionID(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsTokenFromOtherKeys(t *testing.T) {
	keys, err := NewKeys("test-secret")
	require.NoError(t, err)
	otherKeys, err := NewKeys("other-secret")
	require.NoError(t, err)

	token, err := otherKeys.SignSessionID("session-123", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = keys.ParseSessionID(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	keys, err := NewKeys("test-secret")
	require.NoError(t, err)

	token, err := keys.SignSessionID("session-123", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = keys.ParseSessionID(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewKeysRejectsEmptySecret(t *testing.T) {
	_, err := NewKeys("")
	require.Error(t, err)
}
