package app

import (
	"context"
	"fmt"
	"io"

	"github.com/campusdesk/admissions/src/config"
	"github.com/campusdesk/admissions/src/database"
	"github.com/campusdesk/admissions/src/handlers"
	"github.com/campusdesk/admissions/src/logging"
	"github.com/campusdesk/admissions/src/middleware"
	"github.com/campusdesk/admissions/src/repositories"
	"github.com/campusdesk/admissions/src/services"
	"github.com/campusdesk/admissions/src/templates"
	"github.com/rs/zerolog"
)

// Version is reported by /info
const Version = "1.0.0"

// App is the application context. Every collaborator is built once here
// and handed to the handlers explicitly.
type App struct {
	Config *config.Config
	DB     *database.Database

	Students    repositories.StudentRepository
	Admins      repositories.AdminRepository
	Revocations repositories.SessionRevocationRepository

	Mailer        services.Mailer
	Dispatcher    *services.NotificationDispatcher
	Analytics     *services.AnalyticsService
	AdminService  *services.AdminService
	Registrations *services.RegistrationService
	Approvals     *services.ApprovalService
	Cleanup       *services.CleanupService

	Sessions        *middleware.SessionManager
	LoginLimiter    *middleware.RateLimiter
	RegisterLimiter *middleware.RateLimiter

	closers []io.Closer
	logger  zerolog.Logger
}

// New connects to the store and wires every service
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{
		Config: cfg,
		logger: logging.NewLogger("app"),
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = db

	a.Students = repositories.NewStudentRepository(db.GetPool())
	a.Admins = repositories.NewAdminRepository(db.GetPool())

	if cfg.RedisURL != "" {
		redisRepo, err := repositories.NewRedisSessionRepository(ctx, cfg.RedisURL)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize redis session store: %w", err)
		}
		a.Revocations = redisRepo
		a.closers = append(a.closers, redisRepo)
		a.logger.Info().Msg("Session revocations stored in Redis")
	} else {
		a.Revocations = repositories.NewSessionRepository(db.GetPool())
		a.Cleanup = services.NewCleanupService(a.Revocations, services.DefaultCleanupInterval)
	}

	a.Analytics, err = services.NewAnalyticsService(services.AnalyticsConfig{
		PostHogAPIKey: cfg.PostHogAPIKey,
		PostHogHost:   cfg.PostHogHost,
		Enabled:       cfg.PostHogEnabled,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize analytics service: %w", err)
	}
	a.closers = append(a.closers, a.Analytics)

	a.Mailer = NewMailer(cfg)
	a.Dispatcher = services.NewNotificationDispatcher(a.Mailer, cfg.MailTimeout)

	emailConfig, err := templates.LoadEmailConfig()
	if err != nil {
		a.logger.Warn().Err(err).Msg("Using default email config")
		emailConfig = templates.DefaultEmailConfig()
	}

	a.AdminService = services.NewAdminService(a.Admins, a.Analytics)
	a.Registrations = services.NewRegistrationService(a.Students, a.Analytics)
	a.Approvals = services.NewApprovalService(a.Students, a.Dispatcher, a.Analytics, services.ApprovalOptions{
		RenotifyOnReapproval: cfg.RenotifyOnReapproval,
		EmailConfig:          emailConfig,
	})

	a.Sessions, err = middleware.NewSessionManager(middleware.SessionConfig{
		Secret:       cfg.SecretKey,
		TTL:          cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
	}, a.Revocations, a.AdminService)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.LoginLimiter = middleware.NewRateLimiter(middleware.RateLimitConfig{
		Name:              "login",
		RequestsPerMinute: cfg.LoginRatePerMinute,
	})
	a.RegisterLimiter = middleware.NewRateLimiter(middleware.RateLimitConfig{
		Name:              "register",
		RequestsPerMinute: cfg.RegisterRatePerMinute,
	})

	a.logger.Info().
		Str("mailer", a.Mailer.Name()).
		Bool("renotify_on_reapproval", cfg.RenotifyOnReapproval).
		Bool("analytics", a.Analytics.Enabled()).
		Msg("Application initialized")

	return a, nil
}

// NewMailer selects the mailer for the configured provider
func NewMailer(cfg *config.Config) services.Mailer {
	switch cfg.MailProvider {
	case config.MailProviderMailgun:
		return services.NewMailgunMailer(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailFrom, cfg.MailgunEU)
	case config.MailProviderSMTP:
		return services.NewSMTPMailer(services.SMTPConfig{
			Host:     cfg.MailServer,
			Port:     cfg.MailPort,
			Username: cfg.MailUsername,
			Password: cfg.MailPassword,
			From:     cfg.MailFrom,
			UseTLS:   cfg.MailUseTLS,
		})
	default:
		return services.NewLogMailer()
	}
}

// SeedAdmin ensures the configured admin account exists
func (a *App) SeedAdmin(ctx context.Context) error {
	created, err := a.AdminService.SeedDefaultAdmin(ctx, a.Config.AdminUsername, a.Config.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	if !created {
		a.logger.Debug().Str("admin", a.Config.AdminUsername).Msg("Admin already present")
	}
	return nil
}

// Start launches background workers
func (a *App) Start(ctx context.Context) {
	if a.Cleanup != nil {
		a.Cleanup.Start(ctx)
	}
}

// Routes returns the HTTP route table bound to this application
func (a *App) Routes() handlers.Routes {
	return handlers.Routes{
		Registration: handlers.NewRegistrationHandler(a.Registrations),
		Admin:        handlers.NewAdminHandler(a.AdminService, a.Sessions),
		Panel:        handlers.NewPanelHandler(a.Approvals),
		Health: handlers.NewHealthHandler(a.DB, handlers.ServiceInfo{
			Name:    logging.ServiceName,
			Version: Version,
			Mailer:  a.Mailer.Name(),
		}),
		Sessions:        a.Sessions,
		LoginLimiter:    a.LoginLimiter,
		RegisterLimiter: a.RegisterLimiter,
		CookieSecure:    a.Config.CookieSecure,
	}
}

// Close stops workers and releases connections
func (a *App) Close() {
	if a.Cleanup != nil {
		a.Cleanup.Stop()
	}
	if a.LoginLimiter != nil {
		a.LoginLimiter.Stop()
	}
	if a.RegisterLimiter != nil {
		a.RegisterLimiter.Stop()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn().Err(err).Msg("Close failed")
		}
	}
	a.closers = nil
	if a.DB != nil {
		a.DB.Close()
	}
}
