// Command server runs the SkillForge learning platform API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apichallenges "github.com/skillforge-app/skillforge-backend/internal/api/challenges"
	apigamification "github.com/skillforge-app/skillforge-backend/internal/api/gamification"
	apiprofiles "github.com/skillforge-app/skillforge-backend/internal/api/profiles"
	apiprojects "github.com/skillforge-app/skillforge-backend/internal/api/projects"
	"github.com/skillforge-app/skillforge-backend/internal/cache"
	"github.com/skillforge-app/skillforge-backend/internal/config"
	"github.com/skillforge-app/skillforge-backend/internal/identity"
	"github.com/skillforge-app/skillforge-backend/internal/repository"
	"github.com/skillforge-app/skillforge-backend/internal/seed"
	"github.com/skillforge-app/skillforge-backend/internal/service/challenges"
	"github.com/skillforge-app/skillforge-backend/internal/service/gamification"
	"github.com/skillforge-app/skillforge-backend/internal/service/profiles"
	"github.com/skillforge-app/skillforge-backend/internal/service/projects"
	"github.com/skillforge-app/skillforge-backend/internal/service/scheduler"
	"github.com/skillforge-app/skillforge-backend/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log.Info().
		Str("environment", cfg.Server.Environment).
		Int("port", cfg.Server.Port).
		Msg("Starting SkillForge API")

	db, err := repository.NewDB(&cfg.Database.Postgres, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	store := repository.NewStore(db)

	if cfg.Seed.Enabled {
		data, err := seed.Load(cfg.Seed.Path)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Seed.Path).Msg("Failed to load seed data")
		}
		if err := seed.Apply(data, store, log); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply seed data")
		}
	}

	var catalogCache cache.Cache
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisCache(&cfg.Database.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		catalogCache = redisCache
		log.Info().
			Str("host", cfg.Database.Redis.Host).
			Msg("Reference-data cache enabled")
	}

	engine := gamification.NewService(store, log)
	challengeService := challenges.NewService(store, engine, log)
	projectService := projects.NewService(store, engine, log)
	profileService := profiles.NewService(store, log)
	identityProvider := identity.NewHeaderProvider(store.Users)

	sweep := scheduler.NewService(&cfg.Scheduler, engine, log)
	if err := sweep.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start badge sweep scheduler")
	}
	defer sweep.Stop()

	router := buildRouter(cfg, db, engine, challengeService, projectService, profileService, identityProvider, catalogCache, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()
	log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

func buildRouter(
	cfg *config.Config,
	db *repository.DB,
	engine *gamification.Service,
	challengeService *challenges.Service,
	projectService *projects.Service,
	profileService *profiles.Service,
	identityProvider identity.Provider,
	catalogCache cache.Cache,
	log *logger.Logger,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	catalogTTL := time.Duration(cfg.Cache.CatalogTTLSec) * time.Second
	gamificationHandler := apigamification.NewHandler(engine, catalogCache, catalogTTL, log)
	challengeHandler := apichallenges.NewHandler(challengeService, identityProvider, log)
	projectHandler := apiprojects.NewHandler(projectService, identityProvider, log)
	profileHandler := apiprofiles.NewHandler(profileService, identityProvider, log)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/gamification/leaderboard", gamificationHandler.GetLeaderboard)
		v1.GET("/gamification/badges", gamificationHandler.GetBadgeCatalog)
		v1.GET("/users/:id/badges", gamificationHandler.GetUserBadges)

		v1.GET("/challenges", challengeHandler.ListChallenges)
		v1.GET("/challenges/:slug", challengeHandler.GetChallenge)
		v1.POST("/challenges/:id/submit", challengeHandler.SubmitChallenge)

		v1.GET("/projects", projectHandler.ListProjects)
		v1.GET("/projects/:slug", projectHandler.GetProject)
		v1.POST("/projects/:id/submissions", projectHandler.SubmitProject)
		v1.GET("/submissions", projectHandler.ListMySubmissions)
		v1.GET("/submissions/pending", projectHandler.ListPendingSubmissions)
		v1.PUT("/submissions/:id/review", projectHandler.ReviewSubmission)

		v1.GET("/profile", profileHandler.GetProfile)
		v1.PUT("/profile", profileHandler.UpdateProfile)
		v1.GET("/profile/stats", profileHandler.GetStats)
	}

	return router
}
