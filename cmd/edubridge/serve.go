package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/RigelNana/edubridge/config"
	"github.com/RigelNana/edubridge/database"
	"github.com/RigelNana/edubridge/handler"
	"github.com/RigelNana/edubridge/handler/rpc"
	"github.com/RigelNana/edubridge/middleware"
	"github.com/RigelNana/edubridge/pkg/metrics"
	"github.com/RigelNana/edubridge/repository"
	"github.com/RigelNana/edubridge/router"
	"github.com/RigelNana/edubridge/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const serviceName = "edubridge"

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, closeLog, err := bootstrap()
	if err != nil {
		return err
	}
	defer closeLog()

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(&cfg.Database, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	defer sqlDB.Close()

	blobs, err := service.NewMinIOBlobStore(ctx, &cfg.MinIO)
	if err != nil {
		return err
	}
	logger.WithField("bucket", cfg.MinIO.BucketName).Info("blob store ready")

	engine := buildEngine(cfg, db, blobs, logger)

	apiServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	metricsServer := metrics.NewMetricsServer(cfg.Metrics.Port)
	health := rpc.NewHealthServer(serviceName, logger)
	grpcLis, err := net.Listen("tcp", ":"+cfg.GRPC.HealthPort)
	if err != nil {
		return fmt.Errorf("listen grpc health: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.WithField("port", cfg.Server.Port).Info("HTTP API listening")
		return serveHTTP(apiServer)
	})
	g.Go(func() error {
		logger.WithField("port", cfg.Metrics.Port).Info("metrics server listening")
		return serveHTTP(metricsServer)
	})
	g.Go(func() error {
		logger.WithField("port", cfg.GRPC.HealthPort).Info("gRPC health server listening")
		return health.Serve(grpcLis)
	})
	g.Go(func() error {
		health.Watch(gctx, 15*time.Second, sqlDB.PingContext)
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				metrics.RecordDBStats(serviceName, sqlDB.Stats())
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		health.GracefulStop()
		return errors.Join(
			apiServer.Shutdown(shutdownCtx),
			metricsServer.Shutdown(shutdownCtx),
		)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func serveHTTP(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func buildEngine(cfg *config.Config, db *gorm.DB, blobs service.BlobStore, logger *logrus.Logger) *gin.Engine {
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	ledgerRepo := repository.NewEduPointsRepository(db)

	userSvc := service.NewUserService(userRepo, logger)
	taskSvc := service.NewTaskService(userRepo, taskRepo, submissionRepo, logger)
	submissionSvc := service.NewSubmissionService(userRepo, taskRepo, submissionRepo, portfolioRepo, blobs, logger)
	portfolioSvc := service.NewPortfolioService(userRepo, taskRepo, submissionRepo, portfolioRepo, logger)
	pointsSvc := service.NewEduPointsService(userRepo, ledgerRepo, logger)

	resolver := service.NewIdentityResolver(&cfg.Auth, logger)

	return router.Setup(router.Handlers{
		Users:       handler.NewUserHandler(userSvc, logger),
		Tasks:       handler.NewTaskHandler(taskSvc, logger),
		Submissions: handler.NewSubmissionHandler(submissionSvc, logger, cfg.Server.MaxUploadBytes),
		Portfolio:   handler.NewPortfolioHandler(portfolioSvc, logger),
		EduPoints:   handler.NewEduPointsHandler(pointsSvc, logger),
	}, middleware.BearerAuth(resolver), logger, cfg.Server.MaxUploadBytes)
}
