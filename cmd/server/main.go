package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lukegrady1/Roomify/internal/adapter/campusapi"
	grpcAdapter "github.com/lukegrady1/Roomify/internal/adapter/grpc"
	httpAdapter "github.com/lukegrady1/Roomify/internal/adapter/http"
	natsAdapter "github.com/lukegrady1/Roomify/internal/adapter/messaging/nats"
	"github.com/lukegrady1/Roomify/internal/adapter/repository/cache"
	mongoRepo "github.com/lukegrady1/Roomify/internal/adapter/repository/mongodb"
	pgRepo "github.com/lukegrady1/Roomify/internal/adapter/repository/postgres"
	"github.com/lukegrady1/Roomify/internal/adapter/storage/s3"
	"github.com/lukegrady1/Roomify/internal/config"
	"github.com/lukegrady1/Roomify/internal/platform/auth"
	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"github.com/lukegrady1/Roomify/internal/platform/metrics"
	"github.com/lukegrady1/Roomify/internal/platform/tracer"
	"github.com/lukegrady1/Roomify/internal/search/campus"
	"github.com/lukegrady1/Roomify/internal/search/domain"
	"github.com/lukegrady1/Roomify/internal/search/engine"
	"github.com/lukegrady1/Roomify/internal/search/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

const shutdownTimeout = 10 * time.Second

// appDeps are the collaborators main opens before the use cases exist.
// cache, publisher and live may be nil.
type appDeps struct {
	listings  domain.ListingStore
	favorites domain.FavoriteRepository
	cache     domain.SearchCache
	publisher domain.EventPublisher
	directory *campus.Directory
	live      domain.CampusProvider
	metrics   *metrics.MetricsManager
}

type app struct {
	search    *usecase.SearchUsecase
	favorites *usecase.FavoriteUsecase
	verifier  *auth.Verifier
	log       *logger.Logger
}

func newApp(cfg *config.Config, deps appDeps, log *logger.Logger) *app {
	campuses := campus.NewService(deps.directory, deps.live, cfg.CampusAPITimeout, log)
	return &app{
		search: usecase.NewSearchUsecase(newEngine(cfg, campuses), campuses, deps.listings, deps.favorites,
			deps.cache, deps.publisher, deps.metrics,
			usecase.Config{
				StoreTimeout:       cfg.StoreTimeout,
				CacheTTL:           cfg.SearchCacheTTL,
				ExcludeOwnListings: cfg.ExcludeOwnListings,
				DefaultPageSize:    cfg.DefaultPageSize,
				MaxPageSize:        cfg.MaxPageSize,
			}, log),
		favorites: usecase.NewFavoriteUsecase(deps.favorites, deps.listings, log),
		verifier:  auth.NewVerifier(cfg.JWTSecret),
		log:       log,
	}
}

func newEngine(cfg *config.Config, campuses engine.CampusLookup) *engine.Engine {
	var proximity engine.ProximityFilter = engine.SameRegion{}
	if cfg.ProximityStrategy == config.ProximityWithinRadius {
		proximity = engine.WithinRadius{Miles: cfg.ProximityRadiusMiles}
	}
	var availability engine.AvailabilityPolicy = engine.IgnoreDates{}
	if cfg.EnforceAvailability {
		availability = engine.OverlapDates{}
	}
	return engine.New(campuses, engine.WithProximity(proximity), engine.WithAvailability(availability))
}

func (a *app) httpHandler() http.Handler {
	return httpAdapter.NewRouter(httpAdapter.NewHandler(a.search, a.favorites, a.log), a.verifier, a.log)
}

func (a *app) grpcServer() (*grpc.Server, *health.Server) {
	server, healthServer := grpcAdapter.NewGRPCServer(a.log, a.verifier)
	grpcAdapter.RegisterSearchServiceServer(server, grpcAdapter.NewSearchHandler(a.search, a.log))
	return server, healthServer
}

type stores struct {
	listings  domain.ListingStore
	favorites domain.FavoriteRepository
	close     func()
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not loaded (%v), using the process environment\n", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Logger()).With(zap.String("service", cfg.ServiceName))
	defer func() { _ = appLogger.Sync() }()
	cfg.LogSummary(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp := tracer.Init(ctx, cfg.ServiceName, cfg.OTExporterOTLPEndpoint, appLogger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Failed to shut down tracer provider", zap.Error(err))
		}
	}()

	metricsManager := metrics.NewMetricsManager("roomify_search")
	if cfg.PrometheusMetricsPort != "" {
		go func() {
			if err := metrics.StartMetricsServer(cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Prometheus metrics server failed", zap.Error(err))
			}
		}()
	}

	st, err := openStores(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open listing store", zap.String("driver", cfg.ListingStoreDriver), zap.Error(err))
	}
	defer st.close()

	var searchCache domain.SearchCache
	if cfg.RedisAddress != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB, appLogger)
		if err != nil {
			appLogger.Warn("Redis unavailable, search cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			searchCache = cache.NewSearchCache(client, appLogger)
		}
	}

	var publisher domain.EventPublisher
	if cfg.NATSURL != "" {
		p, err := natsAdapter.NewPublisher(cfg.NATSURL, cfg.ServiceName, appLogger)
		if err != nil {
			appLogger.Warn("NATS unavailable, search events disabled", zap.Error(err))
		} else {
			defer p.Close()
			publisher = p
		}
	}

	var dataset campus.DatasetSource
	if cfg.MinioEndpoint != "" {
		ds, err := s3.NewDatasetStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey,
			cfg.MinioBucket, cfg.CampusDatasetObject, cfg.MinioUseSSL, appLogger)
		if err != nil {
			appLogger.Warn("MinIO client not created, using bundled campuses", zap.Error(err))
		} else {
			dataset = ds
		}
	}
	loadCtx, cancelLoad := context.WithTimeout(ctx, 10*time.Second)
	directory := campus.LoadDirectory(loadCtx, dataset, appLogger)
	cancelLoad()

	var live domain.CampusProvider
	if cfg.CampusAPIKey != "" {
		live = campusapi.New(cfg.CampusAPIURL, cfg.CampusAPIKey, cfg.CampusAPITimeout, appLogger)
	}

	a := newApp(cfg, appDeps{
		listings:  st.listings,
		favorites: st.favorites,
		cache:     searchCache,
		publisher: publisher,
		directory: directory,
		live:      live,
		metrics:   metricsManager,
	}, appLogger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           a.httpHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		appLogger.Fatal("Failed to listen for gRPC", zap.String("port", cfg.GRPCPort), zap.Error(err))
	}
	grpcServer, healthServer := a.grpcServer()
	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", cfg.GRPCPort))
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			appLogger.Fatal("gRPC server failed", zap.Error(err))
		}
	}()
	healthServer.SetServingStatus(grpcAdapter.ServiceName(), grpc_health_v1.HealthCheckResponse_SERVING)

	<-ctx.Done()
	appLogger.Info("Shutdown signal received")

	healthServer.SetServingStatus(grpcAdapter.ServiceName(), grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Servers stopped")
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	switch cfg.ListingStoreDriver {
	case config.StorePostgres:
		pool, err := pgRepo.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := pgRepo.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info("Connected to PostgreSQL")
		return &stores{
			listings:  pgRepo.NewListingRepository(pool, log),
			favorites: pgRepo.NewFavoriteRepository(pool, log),
			close:     pool.Close,
		}, nil
	default:
		client, err := mongoRepo.Connect(ctx, cfg.MongoURI, 10*time.Second)
		if err != nil {
			return nil, err
		}
		disconnect := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				log.Error("Error disconnecting from MongoDB", zap.Error(err))
			}
		}
		db := client.Database(cfg.MongoDatabase)
		listings, err := mongoRepo.NewListingRepository(db, log)
		if err != nil {
			disconnect()
			return nil, err
		}
		favorites, err := mongoRepo.NewFavoriteRepository(db, log)
		if err != nil {
			disconnect()
			return nil, err
		}
		log.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))
		return &stores{listings: listings, favorites: favorites, close: disconnect}, nil
	}
}
