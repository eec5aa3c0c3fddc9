package middleware

import (
	"context"

	"github.com/lukegrady1/Roomify/internal/platform/auth"
	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// AuthInterceptor resolves the caller from the "authorization" metadata.
// Every search method is public, so a missing or unverifiable token runs
// the call anonymously.
func AuthInterceptor(v *auth.Verifier, log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		var header string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get("authorization"); len(values) > 0 {
				header = values[0]
			}
		}
		if header == "" {
			return handler(ctx, req)
		}

		userID, err := v.ParseBearer(header)
		if err != nil {
			log.Warn("AuthInterceptor: ignoring token, calling anonymously", zap.String("method", info.FullMethod), zap.Error(err))
			return handler(ctx, req)
		}
		return handler(auth.WithUserID(ctx, userID), req)
	}
}
