package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/oes-interview/engine/common/id"
	"github.com/oes-interview/engine/common/logger"
	"github.com/oes-interview/engine/common/otel"
	"github.com/oes-interview/engine/core/config"
	"github.com/oes-interview/engine/hook"
	"github.com/oes-interview/engine/internal/http/handler"
	"github.com/oes-interview/engine/internal/http/middleware"
	httprouter "github.com/oes-interview/engine/internal/http/router"
	"github.com/oes-interview/engine/interview"
	"github.com/oes-interview/engine/token"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	_ = godotenv.Load()
	cfg := config.Load()

	// OTel must init before logger (logger uses trace context in every handler).
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "interview engine starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	if err := cfg.RequireEncryptionKeyFile(); err != nil {
		slog.ErrorContext(ctx, "invalid configuration", "error", err)
		os.Exit(1)
	}
	key, err := loadEncryptionKey(cfg.EncryptionKeyFile)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load encryption key", "error", err)
		os.Exit(1)
	}

	interviewCfg, err := interview.Load(cfg.ConfigFile, slog.Default())
	if err != nil {
		slog.ErrorContext(ctx, "failed to load interview configuration", "error", err)
		os.Exit(1)
	}
	for _, w := range interviewCfg.Warnings {
		slog.WarnContext(ctx, w)
	}

	var dispatcher *hook.Dispatcher
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		slog.InfoContext(ctx, "redis connected", "addr", cfg.RedisAddr)
		dispatcher = &hook.Dispatcher{
			Executable: hook.ExecRunner{},
			HTTP:       hook.HTTPClient{},
			Cache:      &hook.IdempotencyCache{Client: redisClient},
		}
	} else {
		slog.InfoContext(ctx, "hook idempotency cache disabled (no REDIS_ADDR configured)")
		dispatcher = &hook.Dispatcher{
			Executable: hook.ExecRunner{},
			HTTP:       hook.HTTPClient{},
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	updateHandler := &handler.UpdateHandler{Config: interviewCfg, Key: key, Hooks: dispatcher}
	router := setupRouter(cfg, updateHandler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, update *handler.UpdateHandler) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span -> Recovery catches panics -> Logger logs with trace context.
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, update)

	return router
}

func loadEncryptionKey(path string) (*[token.KeySize]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	if len(decoded) != token.KeySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", token.KeySize, len(decoded))
	}
	var key [token.KeySize]byte
	copy(key[:], decoded)
	return &key, nil
}

const banner = `
 ___       _                 _
|_ _|_ __ | |_ ___ _ ____   _(_) _____      __
 | || '_ \| __/ _ \ '__\ \ / / |/ _ \ \ /\ / /
 | || | | | ||  __/ |   \ V /| |  __/\ V  V /
|___|_| |_|\__\___|_|    \_/ |_|\___| \_/\_/
`
