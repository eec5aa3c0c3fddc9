package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestRecoveryInterceptor(t *testing.T) {
	interceptor := RecoveryInterceptor(logger.NewNop())
	info := &grpc.UnaryServerInfo{FullMethod: "/roomify.search.v1.SearchService/Search"}

	t.Run("passes through", func(t *testing.T) {
		resp, err := interceptor(context.Background(), "req", info, func(ctx context.Context, req interface{}) (interface{}, error) {
			return req, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "req", resp)
	})

	t.Run("keeps handler errors", func(t *testing.T) {
		want := status.Error(codes.InvalidArgument, "bad")
		_, err := interceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
			return nil, want
		})
		assert.True(t, errors.Is(err, want))
	})

	t.Run("panic becomes internal", func(t *testing.T) {
		var resp interface{}
		var err error
		assert.NotPanics(t, func() {
			resp, err = interceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
				var items []int
				return items[3], nil
			})
		})
		assert.Nil(t, resp)
		assert.Equal(t, codes.Internal, status.Code(err))
	})
}
