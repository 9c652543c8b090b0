package auth

import (
	"strings"
	"testing"
	"time"

	"recipebox/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hashed)

	ok, legacy := CheckPassword(hashed, "secret")
	assert.True(t, ok)
	assert.False(t, legacy)

	ok, _ = CheckPassword(hashed, "Secret")
	assert.False(t, ok)
}

func TestHashPasswordBeyondBcryptLimit(t *testing.T) {
	long := strings.Repeat("a", 100)
	hashed, err := HashPassword(long)
	require.NoError(t, err)

	ok, legacy := CheckPassword(hashed, long)
	assert.True(t, ok)
	assert.False(t, legacy)

	ok, _ = CheckPassword(hashed, long[:99]+"b")
	assert.False(t, ok)
	ok, _ = CheckPassword(hashed, long[:72])
	assert.False(t, ok)
}

func TestCheckPasswordLegacyPlaintext(t *testing.T) {
	ok, legacy := CheckPassword("secret", "secret")
	assert.True(t, ok)
	assert.True(t, legacy)

	ok, _ = CheckPassword("secret", "secret ")
	assert.False(t, ok)
}

func TestTokensRoundTrip(t *testing.T) {
	tk := NewTokens("k", time.Hour)
	signed, exp, err := tk.Issue("a@x.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	email, err := tk.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
}

func TestTokensRejects(t *testing.T) {
	tk := NewTokens("k", time.Hour)
	signed, _, err := tk.Issue("a@x.com")
	require.NoError(t, err)

	_, err = NewTokens("other", time.Hour).Parse(signed)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)

	_, err = tk.Parse("not-a-token")
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)

	expired := NewTokens("k", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Issue("a@x.com")
	require.NoError(t, err)
	_, err = tk.Parse(old)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}
