package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"cvforge/internal/api"
	"cvforge/internal/auth"
	"cvforge/internal/config"
	"cvforge/internal/database"
	"cvforge/internal/storage"
	"cvforge/internal/store"
)

func main() {
	cfg := config.MustLoad()
	gin.SetMode(cfg.API.GinMode)

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)
	logger.Info("api bootstrapping",
		slog.String("db_host", cfg.Database.Host),
		slog.Int("db_port", cfg.Database.Port),
		slog.String("db_name", cfg.Database.Name),
		slog.String("identity_mode", cfg.Identity.Mode),
	)

	ctx := context.Background()

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}
	templates := store.NewGormTemplateStore(db)
	seeded, err := templates.Seed(ctx, database.DefaultTemplates)
	if err != nil {
		log.Fatalf("seed templates: %v", err)
	}
	logger.Info("database ready", slog.Int64("templates_seeded", seeded))

	verifier, closeVerifier, err := buildVerifier(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("init identity verifier: %v", err)
	}
	defer closeVerifier()

	deps := api.Dependencies{
		CVs:       store.NewGormCVStore(db),
		Users:     store.NewGormUserStore(db),
		Templates: templates,
		Verifier:  verifier,
	}

	if cfg.MinIO.Enabled() {
		storageClient, err := storage.NewClient(ctx, cfg.MinIO)
		if err != nil {
			log.Fatalf("init storage client: %v", err)
		}
		deps.Previews = storageClient
		logger.Info("storage client ready", slog.String("bucket", cfg.MinIO.Bucket))
	}

	router := api.NewRouter(cfg, logger)
	api.RegisterRoutes(router, deps)

	address := fmt.Sprintf(":%d", cfg.API.Port)
	logger.Info("api listening", slog.String("addr", address))
	if err := router.Run(address); err != nil {
		log.Fatalf("failed to start api server: %v", err)
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// buildVerifier 根据配置选择身份校验方式；配置了 Redis 时在外层加一层缓存。
func buildVerifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (auth.Verifier, func(), error) {
	var (
		verifier auth.Verifier
		err      error
	)
	switch cfg.Identity.Mode {
	case config.IdentityModeJWT:
		verifier, err = buildJWTVerifier(cfg.Identity)
	default:
		verifier, err = auth.NewRemoteVerifier(cfg.Identity.URL, cfg.Identity.APIKey, cfg.Identity.RequestTimeout)
	}
	if err != nil {
		return nil, nil, err
	}

	if !cfg.Redis.Enabled() || cfg.Identity.CacheTTL <= 0 {
		return verifier, func() {}, nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// 缓存不可用时仍可直接访问身份服务
		logger.Warn("redis unavailable, identity cache disabled", slog.Any("error", err))
		_ = redisClient.Close()
		return verifier, func() {}, nil
	}
	logger.Info("identity cache enabled",
		slog.String("redis_addr", cfg.Redis.Addr()),
		slog.Duration("ttl", cfg.Identity.CacheTTL),
	)

	closeFn := func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}
	return auth.NewCachedVerifier(verifier, redisClient, cfg.Identity.CacheTTL, logger), closeFn, nil
}

func buildJWTVerifier(cfg config.IdentityConfig) (auth.Verifier, error) {
	if cfg.JWTPublicKeyFile != "" {
		pem, err := os.ReadFile(cfg.JWTPublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt public key: %w", err)
		}
		return auth.NewRS256Verifier(pem)
	}
	return auth.NewHS256Verifier([]byte(cfg.JWTSecret))
}
