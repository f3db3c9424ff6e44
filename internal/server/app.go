// Package server initializes and runs the application server. It wires the
// database, object storage, Redis rate limiting and the HTTP API together,
// runs the expiry sweep on a timer and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/muliswilliam/secureshare/internal/logging"
	"github.com/muliswilliam/secureshare/internal/server/blobstore"
	"github.com/muliswilliam/secureshare/internal/server/config"
	"github.com/muliswilliam/secureshare/internal/server/httpapi"
	"github.com/muliswilliam/secureshare/internal/server/notify"
	"github.com/muliswilliam/secureshare/internal/server/repositories/repomanager"
	"github.com/muliswilliam/secureshare/internal/server/services"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	messageService *services.MessageService
	httpServer     *http.Server
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	blobs := blobstore.NewS3Store(blobstore.S3Config{
		RootUser:      c.S3RootUser,
		RootPassword:  c.S3RootPassword,
		Bucket:        c.S3Bucket,
		Region:        c.S3Region,
		BaseEndpoint:  c.S3BaseEndpoint,
		URLExpiration: c.BlobURLExpiration,
	})

	notifier := notify.NewLogNotifier(logger)
	messageService := services.NewMessageService(db, rm, notifier, logger)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})
	limiter := httpapi.NewRateLimiter(redisClient, c.RateLimitPerMinute, time.Minute, logger)

	handler := httpapi.NewHandler(messageService, blobs, c, logger)
	httpServer := &http.Server{
		Addr:    c.EndpointAddrHTTP,
		Handler: httpapi.NewRouter(handler, limiter),
	}

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		messageService: messageService,
		httpServer:     httpServer,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	app.logger.Info(ctx, "http server listening", "addr", app.config.EndpointAddrHTTP)

	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// runSweeper expires overdue messages on a fixed interval until the context
// is cancelled.
func (app *App) runSweeper(ctx context.Context) {
	ticker := time.NewTicker(app.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if _, err := app.messageService.Sweep(ctx, now.UTC()); err != nil {
				app.logger.Error(ctx, "sweep failed", "error", err)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runSweeper(ctx)
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "http shutdown error", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, "db close error", "error", err)
	}

	wg.Wait()
}
