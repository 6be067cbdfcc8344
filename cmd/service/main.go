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

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/soheilhy/cmux"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/exchange-chat-service/internal/client/centrifugo"
	"github.com/s21platform/exchange-chat-service/internal/client/events"
	"github.com/s21platform/exchange-chat-service/internal/config"
	"github.com/s21platform/exchange-chat-service/internal/infra"
	"github.com/s21platform/exchange-chat-service/internal/pkg/jwt"
	"github.com/s21platform/exchange-chat-service/internal/pkg/metrics"
	"github.com/s21platform/exchange-chat-service/internal/pkg/tx"
	"github.com/s21platform/exchange-chat-service/internal/pkg/validator"
	db "github.com/s21platform/exchange-chat-service/internal/repository/postgres"
	"github.com/s21platform/exchange-chat-service/internal/repository/redis"
	"github.com/s21platform/exchange-chat-service/internal/rest"
	"github.com/s21platform/exchange-chat-service/internal/seed"
	"github.com/s21platform/exchange-chat-service/internal/service"
	"github.com/s21platform/exchange-chat-service/internal/store"
	"github.com/s21platform/exchange-chat-service/pkg/api"
)

func main() {
	cfg := config.MustLoad()
	logger := logger_lib.New(cfg.Logger.Host, cfg.Logger.Port, cfg.Service.Name, cfg.Platform.Env)

	dbRepo := db.New(cfg)
	defer dbRepo.Close()

	redisRepo := redis.New(cfg)
	defer redisRepo.Close()

	centrifugeClient := centrifugo.New(cfg)
	defer centrifugeClient.Close()

	eventProducer := events.New(cfg)
	defer eventProducer.Close()

	seeds, err := seed.Load(cfg.Seeds.Path)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to load seed conversations: %v", err))
		return
	}
	logger.Info(fmt.Sprintf("loaded %d seed conversations", seeds.Len()))

	chatMetrics := metrics.New(prometheus.DefaultRegisterer)

	chatService := service.New(dbRepo, store.New(), seeds, centrifugeClient, eventProducer, redisRepo, chatMetrics)
	handler := rest.New(chatService, validator.New(), jwt.New(cfg.Centrifuge.JWTSecret))

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			infra.LoggerGRPC(logger),
			tx.TxMiddlewareGRPC(dbRepo),
		),
	)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(cfg.Service.Name, healthpb.HealthCheckResponse_SERVING)

	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return infra.AuthInterceptorHTTP(next)
		})
		r.Use(func(next http.Handler) http.Handler {
			return infra.LoggerHTTP(next, logger)
		})
		r.Use(func(next http.Handler) http.Handler {
			return tx.TxMiddlewareHTTP(dbRepo)(next)
		})

		api.HandlerWithOptions(handler, api.ChiServerOptions{
			BaseRouter:       r,
			ErrorHandlerFunc: rest.ParamErrorHandler,
		})
	})

	httpServer := &http.Server{
		Handler: router,
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.Service.Port))
	if err != nil {
		logger.Error(fmt.Sprintf("failed to start TCP listener: %v", err))
		return
	}

	m := cmux.New(listener)

	grpcListener := m.MatchWithWriters(cmux.HTTP2MatchHeaderFieldSendSettings("content-type", "application/grpc"))
	httpListener := m.Match(cmux.HTTP1Fast())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server error: %v", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %v", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := m.Serve(); err != nil && !errors.Is(err, net.ErrClosed) {
			return fmt.Errorf("cannot start service: %v", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		if err := httpServer.Shutdown(context.Background()); err != nil {
			logger.Error(fmt.Sprintf("failed to shutdown HTTP server: %v", err))
		}
		m.Close()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("server error: %v", err))
	}
}
