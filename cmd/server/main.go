package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/jt828/go-graphql-tracing/internal/bootstrap"
	"github.com/jt828/go-graphql-tracing/internal/config"
	"github.com/jt828/go-graphql-tracing/internal/interceptor"
	"github.com/jt828/go-graphql-tracing/internal/resolver"
	"github.com/jt828/go-graphql-tracing/internal/schema"
	"github.com/jt828/go-graphql-tracing/internal/service"
	"github.com/jt828/go-graphql-tracing/internal/transport"
	"github.com/jt828/go-graphql-tracing/pkg/observability"
	"github.com/jt828/go-graphql-tracing/pkg/observability/implementation"
	"github.com/jt828/go-graphql-tracing/pkg/tracing"
	"github.com/jt828/go-graphql-tracing/pkg/tracing/graphqlgo"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

const healthCheckInterval = 10 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	obs, err := implementation.NewObservability(ctx, implementation.Config{
		ServiceName: cfg.ServiceName,
		MetricsAddr: cfg.Server.MetricsAddr,
		Log: implementation.LogConfig{
			Level:       cfg.Log.Level,
			Development: cfg.Log.Development,
		},
		Tracing: implementation.TracingConfig{
			Endpoint:           cfg.Tracing.Endpoint,
			Insecure:           cfg.Tracing.Insecure,
			RequestSampleRatio: cfg.Tracing.RequestSampleRatio,
			FieldSampleRatio:   cfg.Tracing.FieldSampleRatio,
		},
	})
	if err != nil {
		panic(err)
	}
	log := obs.Logger()
	reg := implementation.PromRegistry(obs.Meter())
	if reg == nil {
		log.Fatal("prometheus registry not available")
	}

	grpcMetrics := grpc_prometheus.NewServerMetrics()
	reg.MustRegister(grpcMetrics)

	if err := obs.Start(ctx); err != nil {
		log.Error("failed to start observability", observability.Err(err))
	}

	idGen, err := bootstrap.InitializeSnowflake()
	if err != nil {
		log.Fatal("failed to initialize snowflake", observability.Err(err))
	}
	dbs, err := bootstrap.InitializeDatabase(cfg.Database, obs)
	if err != nil {
		log.Fatal("failed to initialize database", observability.Err(err))
	}

	tracingInterceptor, err := tracing.NewTracingInterceptor(
		obs.RequestTracer(),
		obs.FieldTracer(),
		tracing.WithLogger(log.With(observability.String("component", "tracing"))),
		tracing.WithMeter(obs.Meter()),
	)
	if err != nil {
		log.Fatal("failed to create tracing interceptor", observability.Err(err))
	}
	gqlTracer, err := graphqlgo.NewTracer(tracingInterceptor, graphqlgo.WithTrivialFields(cfg.Tracing.TrivialFields))
	if err != nil {
		log.Fatal("failed to create graphql tracer", observability.Err(err))
	}

	userSvc := service.NewUserService(dbs.UnitOfWorkFactory)
	ledgerSvc := service.NewLedgerService(dbs.UnitOfWorkFactory)
	gqlSchema, err := schema.New(
		resolver.NewResolver(userSvc, ledgerSvc),
		gqlTracer,
		schema.Config{MaxParallelism: cfg.Server.MaxParallelism},
	)
	if err != nil {
		log.Fatal("failed to parse graphql schema", observability.Err(err))
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           transport.NewRouter(gqlSchema, idGen, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpcMetrics.UnaryServerInterceptor(),
			interceptor.ErrorInterceptor(log),
		),
		grpc.StreamInterceptor(grpcMetrics.StreamServerInterceptor()),
	)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	grpcMetrics.InitializeMetrics(grpcServer)

	checkDatabase := func() {
		sqlDB, err := dbs.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			log.Warn("database ping failed, server marked as not serving", observability.Err(err))
			healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
			return
		}
		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	}
	checkDatabase()

	go func() {
		ticker := time.NewTicker(healthCheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				checkDatabase()
			}
		}
	}()

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		log.Fatal("failed to listen", observability.Err(err), observability.String("addr", cfg.Server.GRPCAddr))
	}

	go func() {
		log.Info("gRPC health server running", observability.String("addr", cfg.Server.GRPCAddr))
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal("failed to serve grpc", observability.Err(err))
		}
	}()

	go func() {
		log.Info("GraphQL server running", observability.String("addr", cfg.Server.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to serve http", observability.Err(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down servers...")
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shut down http server", observability.Err(err))
	}
	grpcServer.GracefulStop()
	log.Info("servers stopped")

	if sqlDB, err := dbs.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if err := obs.Close(shutdownCtx); err != nil {
		log.Error("failed to close observability", observability.Err(err))
	}
}
