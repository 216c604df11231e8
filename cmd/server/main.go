package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/xivapi/common-backend/docs"
	"github.com/xivapi/common-backend/internal/api"
	"github.com/xivapi/common-backend/internal/api/handler"
	"github.com/xivapi/common-backend/internal/core/ports"
	"github.com/xivapi/common-backend/internal/core/service"
	"github.com/xivapi/common-backend/internal/infrastructure/config"
	"github.com/xivapi/common-backend/internal/infrastructure/db/mongo"
	"github.com/xivapi/common-backend/internal/infrastructure/db/redis"
	"github.com/xivapi/common-backend/internal/infrastructure/discord"
	"github.com/xivapi/common-backend/internal/infrastructure/jobs"
	"github.com/xivapi/common-backend/internal/infrastructure/queue"
	"github.com/xivapi/common-backend/pkg/logger"
)

const (
	serviceName     = "common-backend"
	shutdownTimeout = 10 * time.Second
)

// @title        Common Backend API
// @version      1.0
// @description  Accounts, SSO sessions, patron benefits and maintenance flags.
// @BasePath     /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: serviceName,
		Env:     cfg.Env,
		Pretty:  cfg.IsDevelopment(),
	})

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mongo")
	}
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}

	users := mongo.NewUserRepository(db)
	alertRepo := mongo.NewAlertRepository(db)

	auth := service.NewAuthService(service.AuthDeps{
		Users:    users,
		Sessions: mongo.NewSessionRepository(db),
		Logins:   mongo.NewLoginStore(mongoClient, db),
		Alerts:   alertRepo,
		SSO: discord.NewSSO(discord.SSOConfig{
			ClientID:     cfg.Discord.ClientID,
			ClientSecret: cfg.Discord.ClientSecret,
			RedirectURL:  cfg.Discord.RedirectURL,
		}),
		Roles: discord.NewRoleClient(cfg.Discord.RoleAPIURL, cfg.Discord.RoleAPIToken, nil),
	}, service.AuthConfig{
		StateSecret: cfg.Session.StateSecret,
		StateTTL:    cfg.Session.StateTTL,
		TokenKey:    cfg.Session.TokenKey,
	}, log.With().Str("component", "auth").Logger())

	notifier := startNotifier(ctx, cfg, log)
	reporter := service.NewErrorReporter(service.ReporterConfig{
		ProductName:   cfg.Site.ProductName,
		Env:           cfg.Env,
		DeployRoot:    cfg.Site.DeployRoot,
		LocalMarker:   cfg.Site.LocalMarker,
		Channel:       cfg.Discord.ErrorChannel,
		SuppressCodes: cfg.Errors.SuppressCodes,
	}, redis.NewErrorDedup(rdb, cfg.Errors.DedupPrefix, cfg.Errors.DedupTTL), notifier,
		log.With().Str("component", "error_reporter").Logger())

	e := api.NewRouter(api.Dependencies{
		Auth:         auth,
		Alerts:       service.NewAlertService(alertRepo, log),
		Maintenance:  service.NewMaintenanceService(mongo.NewMaintenanceRepository(db), log),
		Reporter:     reporter,
		Readiness:    handler.NewReadinessHandler(db, rdb),
		ShowErrors:   cfg.Site.ShowErrors,
		SecureCookie: cfg.Session.SecureCookie,
		Log:          log,
	})

	scheduler := jobs.NewScheduler(cfg.Jobs.TierSyncSchedule, users, auth, log.With().Str("component", "jobs").Logger())
	if err := scheduler.Start(); err != nil {
		log.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		log.Warn().Msg("tier sync still running at shutdown")
	}

	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect error")
	}
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close error")
	}

	log.Info().Msg("server exited cleanly")
}

// startNotifier returns the async Discord notifier, or nil when no bot is
// configured. A nil notifier disables error notifications.
func startNotifier(ctx context.Context, cfg *config.Config, log zerolog.Logger) ports.Notifier {
	if cfg.Discord.BotToken == "" || cfg.Discord.ErrorChannel == "" {
		log.Warn().Msg("discord bot not configured, error notifications disabled")
		return nil
	}

	bot, err := discord.NewNotifier(cfg.Discord.BotToken)
	if err != nil {
		log.Error().Err(err).Msg("discord notifier unavailable")
		return nil
	}

	d := queue.NewDispatcher(cfg.Notify.Workers, bot, cfg.Notify.SendTimeout, log.With().Str("component", "notify").Logger())
	d.Start(ctx)
	return d
}
