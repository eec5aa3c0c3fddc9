package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_ParseBearer(t *testing.T) {
	v := NewVerifier("s3cret")
	token, err := v.Issue("user-42", time.Hour)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		id, err := v.ParseBearer("Bearer " + token)
		require.NoError(t, err)
		assert.Equal(t, "user-42", id)
	})

	t.Run("scheme is case-insensitive", func(t *testing.T) {
		id, err := v.ParseBearer("bearer " + token)
		require.NoError(t, err)
		assert.Equal(t, "user-42", id)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := v.ParseBearer("  ")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("malformed header", func(t *testing.T) {
		_, err := v.ParseBearer("Token " + token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewVerifier("other").ParseBearer("Bearer " + token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		old, err := v.Issue("user-42", -time.Minute)
		require.NoError(t, err)
		_, err = v.ParseBearer("Bearer " + old)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestVerifier_SubjectFallback(t *testing.T) {
	v := NewVerifier("s3cret")
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "legacy"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	id, err := v.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "legacy", id)
}

func TestVerifier_RejectsNoneAlg(t *testing.T) {
	v := NewVerifier("s3cret")
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "x"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, UserIDFromContext(ctx))
	assert.Equal(t, "u1", UserIDFromContext(WithUserID(ctx, "u1")))
}
