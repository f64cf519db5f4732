package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/geocoder89/accounthub/internal/account"
	"github.com/geocoder89/accounthub/internal/auth"
	"github.com/geocoder89/accounthub/internal/config"
	"github.com/geocoder89/accounthub/internal/http/handlers"
	"github.com/geocoder89/accounthub/internal/http/middlewares"
	"github.com/geocoder89/accounthub/internal/observability"
	"github.com/geocoder89/accounthub/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, rdb *redis.Client, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" && cfg.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware("accounthub"))
	r.Use(prom.GinHandleMiddleware())

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up the store, credentials and the account service

	usersRepo := postgres.NewUsersRepo(pool, prom)
	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL())
	svc := account.NewService(usersRepo, jwtManager, cfg.BcryptCost)

	authMW := middlewares.NewAuthMiddleware(jwtManager, usersRepo)
	r.Use(authMW.Authenticate())

	authHandler := handlers.NewAuthHandler(svc, prom)
	usersHandler := handlers.NewUsersHandler(svc)

	// anonymous mutations, rate limited by client IP when redis is wired
	signup := gin.HandlersChain{authHandler.SignUp}
	login := gin.HandlersChain{authHandler.Login}

	if rdb != nil {
		rl := middlewares.NewRateLimiter(rdb, cfg.RateLimit, cfg.RateWindow())
		limited := rl.Middleware(middlewares.KeyByIP)
		signup = gin.HandlersChain{limited, authHandler.SignUp}
		login = gin.HandlersChain{limited, authHandler.Login}
	}

	r.POST("/signup", signup...)
	r.POST("/login", login...)

	// authenticated surface; the service raises Unauthorized itself when no
	// caller was resolved
	r.GET("/users", usersHandler.ListUsers)
	r.GET("/users/:id", usersHandler.GetUserByID)
	r.GET("/me", usersHandler.CurrentUser)
	r.PUT("/users/:id", usersHandler.EditUser)

	return r
}
