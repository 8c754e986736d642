package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"file-storage-api/config"
	"file-storage-api/internal/application/ports"
	"file-storage-api/internal/application/services"
	domain "file-storage-api/internal/domain/file"
	"file-storage-api/internal/infrastructure/blob/fs"
	"file-storage-api/internal/infrastructure/db/postgres"
	pgFile "file-storage-api/internal/infrastructure/db/postgres/file"
	"file-storage-api/internal/infrastructure/db/sqlite"
	sqliteFile "file-storage-api/internal/infrastructure/db/sqlite/file"
	"file-storage-api/internal/infrastructure/metrics"
	"file-storage-api/internal/infrastructure/mq"
	"file-storage-api/internal/infrastructure/s3"
	"file-storage-api/internal/interface/api/rest"
	"file-storage-api/internal/interface/api/rest/middleware"
	"file-storage-api/pkg/rmqconsumer"
)

type fileRepository interface {
	domain.Repository
	Init(ctx context.Context) error
}

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	repo       fileRepository
	blobs      ports.BlobStore
	closers    []func()
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	mq         ports.RabbitMQ
	mqConsumer ports.RMQConsumer
}

func NewApp(ctx context.Context) (*App, error) {
	// logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}
	defer logger.Sync()

	// config; a missing .env is fine, the environment may carry everything
	if err = godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Fatal("error loading .env file", zap.Error(err))
	}
	cfg := config.Load()

	a := &App{
		logger:   logger,
		cfg:      cfg,
		mCounter: metrics.NewCounter(),
	}

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	a.router = gin.New()
	a.router.Use(gin.Recovery())
	a.router.Use(middleware.RequestLogGin(logger, a.mCounter))

	// httpServer; CORS sits in front of gin so preflights never hit routing
	a.httpSrv = &http.Server{
		Addr:              net.JoinHostPort(cfg.App.Host, cfg.App.Port),
		Handler:           middleware.CORS(cfg.App.AllowedOrigins)(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// metadata store
	if err = a.initRepository(ctx); err != nil {
		a.Close()
		logger.Fatal("failed to init metadata store", zap.String("driver", cfg.DB.Driver), zap.Error(err))
	}

	// blob store
	if err = a.initBlobStore(ctx); err != nil {
		a.Close()
		logger.Fatal("failed to init blob store", zap.String("driver", cfg.Blob.Driver), zap.Error(err))
	}

	// rabbitMQ, optional
	if cfg.MQEnabled() {
		if err = a.initMQ(ctx); err != nil {
			a.Close()
			logger.Fatal("failed to init rabbitMQ", zap.Error(err))
		}
	} else {
		logger.Info("RABBITMQ_HOST not set, file events disabled")
	}

	logger.Info("application configured",
		zap.String("db_driver", cfg.DB.Driver),
		zap.String("blob_driver", cfg.Blob.Driver),
		zap.String("blob_location", a.blobs.Status(ctx).Location),
		zap.Strings("cors_origins", cfg.App.AllowedOrigins),
		zap.Int64("max_upload_bytes", cfg.App.MaxUploadBytes),
	)

	return a, nil
}

func (a *App) initRepository(ctx context.Context) error {
	dsn, err := a.cfg.DBDSN()
	if err != nil {
		return err
	}

	switch a.cfg.DB.Driver {
	case config.DBDriverPostgres:
		pool, err := postgres.New(ctx, a.logger, dsn)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, pool.Close)
		a.repo = pgFile.NewRepository(pool)
	default:
		db, err := sqlite.New(ctx, a.logger, dsn)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		a.repo = sqliteFile.NewRepository(db)
	}

	return a.repo.Init(ctx)
}

func (a *App) initBlobStore(ctx context.Context) error {
	switch a.cfg.Blob.Driver {
	case config.BlobDriverS3:
		c, err := s3.New(ctx, a.logger, a.cfg.S3)
		if err != nil {
			return err
		}
		a.blobs = c
	case config.BlobDriverFS, "":
		s, err := fs.New(a.cfg.App.UploadDir, a.logger)
		if err != nil {
			return err
		}
		a.blobs = s
	default:
		return fmt.Errorf("unknown blob driver %q", a.cfg.Blob.Driver)
	}

	return nil
}

func (a *App) initMQ(ctx context.Context) error {
	rabbitDsn, err := a.cfg.AMQPDSN()
	if err != nil {
		return err
	}

	rbMQ := mq.New(a.cfg.MQ, a.logger)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	a.mq = rbMQ
	if err = rbMQ.Init(); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	// rmqConsumer
	rmqConsumer := rmqconsumer.New(a.cfg.MQ, a.logger, rbMQ.GetConn())
	if err = rmqConsumer.Connect(rabbitDsn); err != nil {
		return fmt.Errorf("consumer connect: %w", err)
	}
	if err = rmqConsumer.Init(); err != nil {
		return fmt.Errorf("consumer init: %w", err)
	}
	a.mqConsumer = rmqConsumer

	return nil
}

func (a *App) Close() {
	if a.mq != nil && a.mq.GetConn() != nil {
		_ = a.mq.GetConn().Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	if a.mq != nil {
		g.Go(func() error {
			a.mq.PublisherWorker(ctx)
			return nil
		})
	}

	if a.mqConsumer != nil {
		g.Go(func() error {
			a.mqConsumer.DeliveryWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if a.httpSrv != nil {
		if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
			return err
		}
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// events
	var events ports.FileEvents = mq.Nop{}
	if a.mq != nil {
		events = a.mq
	}

	// services
	fileService := services.NewFileService(a.blobs, a.repo, events, a.mCounter, a.logger)

	// controllers
	rest.NewFileController(a.router, fileService, a.logger, a.cfg.App.MaxUploadBytes)

	// ops
	rest.NewOpsController(a.router, a.repo, a.blobs, a.logger, a.cfg.App.Version, a.cfg.App.AllowedOrigins)
}

func (a *App) Logger() *zap.Logger { return a.logger }
