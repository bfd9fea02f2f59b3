package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"librarium/internal/auth"
	"librarium/internal/cache"
	"librarium/internal/config"
	"librarium/internal/handlers"
	"librarium/internal/models"
	"librarium/internal/repositories"
	"librarium/internal/services"
	"librarium/internal/util"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	util.InitLogger(cfg.LogLevel)

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		slog.Error("connect database", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("get generic DB", "error", err)
		os.Exit(1)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Author{},
		&models.Book{},
		&models.Loan{},
	); err != nil {
		slog.Error("auto migrate", "error", err)
		os.Exit(1)
	}

	userRepo := repositories.NewUserRepository(db)
	authorRepo := repositories.NewAuthorRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	loanRepo := repositories.NewLoanRepository(db)

	jwtTTL, _ := cfg.ParseJWTTTL()
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, jwtTTL)

	var snapshotCache services.SnapshotCache
	if cfg.RedisAddr != "" {
		cacheTTL, _ := cfg.ParseSnapshotCacheTTL()
		snapshotCache = cache.NewSnapshotCache(cfg.RedisAddr, cfg.RedisPassword, cacheTTL)
		slog.Info("dashboard snapshot cache enabled", "redis", cfg.RedisAddr, "ttl", cacheTTL)
	}

	authService := services.NewAuthService(userRepo, tokens)
	userService := services.NewUserService(db, userRepo, loanRepo)
	authorService := services.NewAuthorService(db, authorRepo, bookRepo, loanRepo)
	bookService := services.NewBookService(db, authorRepo, bookRepo, loanRepo)
	ledgerService := services.NewLedgerService(db, userRepo, bookRepo, loanRepo)
	statsService := services.NewStatsService(userRepo, authorRepo, bookRepo, loanRepo, snapshotCache)

	router := gin.Default()
	api := handlers.NewAPI(authService, userService, authorService, bookService, ledgerService, statsService, tokens)
	handlers.RegisterRoutes(router, api)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	slog.Info("starting server", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
