package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/danielhkuo/quickly-schedule/cache"
	"github.com/danielhkuo/quickly-schedule/cliparse"
	"github.com/danielhkuo/quickly-schedule/db"
	"github.com/danielhkuo/quickly-schedule/logging"
	"github.com/danielhkuo/quickly-schedule/middleware"
	"github.com/danielhkuo/quickly-schedule/router"
	"github.com/danielhkuo/quickly-schedule/schedules"
	"github.com/danielhkuo/quickly-schedule/store"
)

func main() {
	os.Exit(serve(os.Args[1:]))
}

// serve returns the process exit code. Deferred calls, including the logger
// flush, have run by the time main exits.
func serve(args []string) int {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error parsing flags:", err)
		return 1
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, "quickly-schedule")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error building logger:", err)
		return 1
	}
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg cliparse.Config, logger *zap.Logger) error {
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn, cfg.DatabaseType); err != nil {
		return err
	}
	logger.Info("database schema ready", zap.String("type", cfg.DatabaseType))

	opts := []schedules.Option{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			// Reads fall back to the store while Redis is away.
			logger.Warn("redis unreachable at startup", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		opts = append(opts, schedules.WithCache(cache.NewRedisCache(rdb, cfg.CacheTTL)))
		logger.Info("schedule cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
	}

	svc := schedules.NewService(store.New(dbConn), logger, opts...)
	mux := router.NewRouter(svc, cfg, logger)

	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	logger.Info("listening", zap.Int("port", cfg.Port))
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	logger.Info("server closed")
	return nil
}
