package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/KRN-011/OwnDiary-Backend/internal/auth"
	"github.com/KRN-011/OwnDiary-Backend/internal/broker"
	"github.com/KRN-011/OwnDiary-Backend/internal/category"
	"github.com/KRN-011/OwnDiary-Backend/internal/config"
	"github.com/KRN-011/OwnDiary-Backend/internal/expense"
	"github.com/KRN-011/OwnDiary-Backend/internal/logger"
	"github.com/KRN-011/OwnDiary-Backend/internal/reports"
	"github.com/KRN-011/OwnDiary-Backend/internal/respond"
	"github.com/KRN-011/OwnDiary-Backend/internal/router"
	"github.com/KRN-011/OwnDiary-Backend/internal/trade"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// database/sql ping gives a readable startup failure before the pool
	// lazily connects.
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("opening database")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("pinging database")
	}
	_ = db.Close()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("creating pgx pool")
	}
	defer pool.Close()

	app := fiber.New(fiber.Config{
		ErrorHandler: respond.ErrorHandler,
	})

	app.Use(router.CorsMiddleware(cfg.CORSOrigin))
	app.Use(requestLogger(log))

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, tokens)

	categoryRepo := category.NewRepository(pool)
	categoryHandler := category.NewHandler(categoryRepo)

	expenseRepo := expense.NewRepository(pool)
	expenseHandler := expense.NewHandler(expenseRepo, categoryRepo, expense.NewAnalytics(expenseRepo))

	tradeRepo := trade.NewRepository(pool)
	tradeHandler := trade.NewHandler(tradeRepo, trade.NewAnalytics(tradeRepo))

	brokerRepo := broker.NewRepository(pool)
	brokerHandler := broker.NewHandler(brokerRepo)

	reportsHandler := reports.NewHandler(expenseRepo)

	r := &router.Router{
		AuthHandler:     authHandler,
		CategoryHandler: categoryHandler,
		ExpenseHandler:  expenseHandler,
		TradeHandler:    tradeHandler,
		BrokerHandler:   brokerHandler,
		ReportsHandler:  reportsHandler,
		AuthMW:          auth.Middleware(tokens),
		AuthLimiter:     router.RateLimitAuth(cfg.AuthRateMax, cfg.AuthRateWindow),
		WriteLimiter:    router.RateLimitWrite(),
	}
	r.RegisterRoutes(app)

	log.Info().Str("port", cfg.Port).Msg("listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func requestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("duration", time.Since(start)).
			Msg("request")
		return err
	}
}
