package grpc

import (
	"github.com/lukegrady1/Roomify/internal/adapter/grpc/middleware"
	"github.com/lukegrady1/Roomify/internal/platform/auth"
	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// NewGRPCServer builds a server with tracing, panic recovery, logging and
// auth, and
// registers the health service. The returned health server starts in
// NOT_SERVING; main flips it once the listener is up.
func NewGRPCServer(log *logger.Logger, verifier *auth.Verifier) (*grpc.Server, *health.Server) {
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			middleware.RecoveryInterceptor(log.Named("grpc")),
			middleware.LoggingInterceptor(log.Named("grpc")),
			middleware.AuthInterceptor(verifier, log),
		),
	)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	grpc_health_v1.RegisterHealthServer(server, healthServer)

	log.Info("gRPC server configured", zap.String("service", serviceName))
	return server, healthServer
}

// ServiceName is the fully qualified name used for health checks.
func ServiceName() string { return serviceName }
