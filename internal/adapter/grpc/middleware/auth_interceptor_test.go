package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/lukegrady1/Roomify/internal/platform/auth"
	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func TestAuthInterceptor(t *testing.T) {
	v := auth.NewVerifier("secret")
	token, err := v.Issue("u1", time.Hour)
	require.NoError(t, err)

	const method = "/roomify.search.v1.SearchService/Search"
	interceptor := AuthInterceptor(v, logger.NewNop())

	var (
		seen  string
		calls int
	)
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		calls++
		seen = auth.UserIDFromContext(ctx)
		return "ok", nil
	}
	call := func(ctx context.Context) (interface{}, error) {
		seen, calls = "", 0
		return interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: method}, handler)
	}
	withToken := func(value string) context.Context {
		return metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", value))
	}

	t.Run("anonymous", func(t *testing.T) {
		resp, err := call(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
		assert.Empty(t, seen)
	})

	t.Run("valid token", func(t *testing.T) {
		_, err := call(withToken("Bearer " + token))
		require.NoError(t, err)
		assert.Equal(t, "u1", seen)
	})

	t.Run("invalid token runs anonymously", func(t *testing.T) {
		resp, err := call(withToken("Bearer broken"))
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
		assert.Equal(t, 1, calls)
		assert.Empty(t, seen)
	})

	t.Run("expired token runs anonymously", func(t *testing.T) {
		expired, err := v.Issue("u1", -time.Minute)
		require.NoError(t, err)

		_, err = call(withToken("Bearer " + expired))
		require.NoError(t, err)
		assert.Empty(t, seen)
	})
}
