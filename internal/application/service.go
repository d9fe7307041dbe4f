// Package application holds the use cases of the back office: authentication,
// password recovery, session lifecycle, account administration and audit
// review. It speaks only to ports; every adapter-specific concern stays out.
package application

import (
	"log/slog"
	"time"

	"github.com/wblproducoes/mvc08/internal/ports"
	"github.com/wblproducoes/mvc08/internal/ratelimit"
)

// Deps bundles everything the service needs. All fields except Mailer are
// required; a nil Mailer disables reset emails (useful in tests).
type Deps struct {
	Users      ports.UserRepository
	Sessions   ports.SessionRepository
	AccessLogs ports.AccessLogRepository
	Statuses   ports.LookupRepository
	Levels     ports.LookupRepository
	Genders    ports.LookupRepository
	Hasher     ports.PasswordHasher
	Limiter    *ratelimit.Limiter
	Mailer     ports.MailEnqueuer
	Logger     *slog.Logger
}

// Options tunes the time-based behaviors.
type Options struct {
	SessionTTL    time.Duration
	IdleTimeout   time.Duration
	ResetTokenTTL time.Duration
	ResetBaseURL  string
}

const (
	defaultSessionTTL    = 12 * time.Hour
	defaultIdleTimeout   = 30 * time.Minute
	defaultResetTokenTTL = time.Hour
)

// Service implements the back-office use cases.
type Service struct {
	users      ports.UserRepository
	sessions   ports.SessionRepository
	accessLogs ports.AccessLogRepository
	statuses   ports.LookupRepository
	levels     ports.LookupRepository
	genders    ports.LookupRepository
	hasher     ports.PasswordHasher
	limiter    *ratelimit.Limiter
	mailer     ports.MailEnqueuer
	logger     *slog.Logger

	sessionTTL    time.Duration
	idleTimeout   time.Duration
	resetTokenTTL time.Duration
	resetBaseURL  string

	nowFn func() time.Time
}

// NewService wires the use cases. Zero Options fields fall back to defaults.
func NewService(deps Deps, opts Options) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = defaultIdleTimeout
	}
	if opts.ResetTokenTTL <= 0 {
		opts.ResetTokenTTL = defaultResetTokenTTL
	}
	return &Service{
		users:         deps.Users,
		sessions:      deps.Sessions,
		accessLogs:    deps.AccessLogs,
		statuses:      deps.Statuses,
		levels:        deps.Levels,
		genders:       deps.Genders,
		hasher:        deps.Hasher,
		limiter:       deps.Limiter,
		mailer:        deps.Mailer,
		logger:        deps.Logger.With(slog.String("layer", "application")),
		sessionTTL:    opts.SessionTTL,
		idleTimeout:   opts.IdleTimeout,
		resetTokenTTL: opts.ResetTokenTTL,
		resetBaseURL:  opts.ResetBaseURL,
		nowFn:         time.Now,
	}
}
