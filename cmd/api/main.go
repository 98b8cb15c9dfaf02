package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mediconsult/consult-scheduler/internal/catalog"
	"github.com/mediconsult/consult-scheduler/internal/config"
	dbpkg "github.com/mediconsult/consult-scheduler/internal/db"
	"github.com/mediconsult/consult-scheduler/internal/locker"
	"github.com/mediconsult/consult-scheduler/internal/middleware"
	"github.com/mediconsult/consult-scheduler/internal/routes"
)

func main() {

	_ = godotenv.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	registry, err := catalog.NewRegistry(db)
	if err != nil {
		log.Fatal("failed to load consultation type catalog", zap.Error(err))
	}

	locks := newLocker(cfg, log)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, registry, locks, log)

	log.Info("server running", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

// newLocker picks redis when configured, otherwise the in-process lock
// (sufficient for a single node).
func newLocker(cfg *config.Config, log *zap.Logger) locker.Locker {
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, using in-process generation lock")
		return locker.NewMemory()
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal("invalid REDIS_URL", zap.Error(err))
	}
	return locker.NewRedis(redis.NewClient(opts), log)
}
