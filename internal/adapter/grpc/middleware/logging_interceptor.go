package middleware

import (
	"context"
	"time"

	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LoggingInterceptor logs each unary call once it completes.
func LoggingInterceptor(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.Duration("duration", time.Since(start)),
			zap.String("status_code", code.String()),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
		}

		switch code {
		case codes.OK:
			log.Info("gRPC request completed", fields...)
		case codes.Internal, codes.Unknown, codes.Unavailable:
			log.Error("gRPC request failed", append(fields, zap.Error(err))...)
		default:
			log.Warn("gRPC request rejected", append(fields, zap.Error(err))...)
		}
		return resp, err
	}
}
