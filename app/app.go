package app

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"labtrack/cache"
	"labtrack/db"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Shorthand aliases for handlers.
type Ctx = gin.Context
type H = gin.H

// App aggregates the process-wide dependencies.
type App struct {
	Router  *gin.Engine
	DB      *gorm.DB
	Repo    *db.Repo
	RDB     *redis.Client
	Reports *cache.ReportCache
	Log     *zap.Logger
	Config  Config
}

// Config is read once from the environment at startup.
type Config struct {
	DatabaseURL string
	RedisAddr   string
	RedisPwd    string
	WebOrigin   string
	Port        string
	OverdueDays int
	Env         string
}

// OverdueThreshold converts the configured day count to a duration for the
// read-time overdue computation.
func (c Config) OverdueThreshold() time.Duration {
	return time.Duration(c.OverdueDays) * 24 * time.Hour
}

func MustNew() *App {
	cfg := loadConfig()

	var logg *zap.Logger
	var err error
	if cfg.Env == "dev" {
		logg, err = zap.NewDevelopment()
	} else {
		logg, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	conn, err := db.Open(cfg.DatabaseURL, logg)
	if err != nil {
		logg.Fatal("open database", zap.Error(err))
	}

	// Redis is optional: without it the dashboard cache degrades to a
	// pass-through and every read hits the database.
	var rdb *redis.Client
	var reports *cache.ReportCache
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logg.Warn("redis unreachable, dashboard cache disabled", zap.Error(err))
			_ = rdb.Close()
			rdb = nil
		} else {
			reports = cache.NewReportCache(rdb, 30*time.Second)
		}
	}

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logg))
	useCORS(r, cfg.WebOrigin)

	return &App{
		Router: r, DB: conn, Repo: db.NewRepo(conn),
		RDB: rdb, Reports: reports, Log: logg, Config: cfg,
	}
}

func (a *App) Close() {
	if a.RDB != nil {
		_ = a.RDB.Close()
	}
	_ = a.Log.Sync()
}

func loadConfig() Config {
	_ = godotenv.Load()
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}
	days := 7
	if v := os.Getenv("OVERDUE_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}
	return Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisPwd:    os.Getenv("REDIS_PASSWORD"),
		WebOrigin:   get("WEB_ORIGIN", "http://localhost:5173"),
		Port:        get("PORT", "8080"),
		OverdueDays: days,
		Env:         get("APP_ENV", "production"),
	}
}
