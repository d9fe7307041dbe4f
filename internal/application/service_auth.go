package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/wblproducoes/mvc08/internal/domain"
	"github.com/wblproducoes/mvc08/internal/metrics"
)

// Login runs the full authentication sequence: throttle gate, credential
// check, account-status check, session issue. Failed attempts against the
// credential check count toward the throttle; a blocked address never
// reaches the credential store.
func (s *Service) Login(ctx context.Context, params LoginParams) (LoginResult, error) {
	if s.limiter.IsBlocked(ctx, ActionLogin, params.Meta.IPAddress) {
		metrics.LoginAttempts.WithLabelValues("rate_limited").Inc()
		return LoginResult{}, &domain.RateLimitedError{
			RetryAfter: s.limiter.AvailableIn(ctx, ActionLogin, params.Meta.IPAddress),
		}
	}

	// Usernames are stored lowercase; normalize the login form the same way
	// so the account answers to the exact string it was created with.
	username := strings.TrimSpace(strings.ToLower(params.Username))
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Unknown username gets the same message as a wrong password and
			// does not consume an attempt: the throttle guards the password
			// oracle, not the username space.
			s.recordEvent(ctx, nil, domain.EventLogin, false, "unknown username", params.Meta)
			metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
			return LoginResult{}, domain.ErrInvalidCredentials
		}
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return LoginResult{}, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := s.hasher.Compare(user.PasswordHash, params.Password)
	if err != nil {
		// Malformed stored hash. Treated as a mismatch for the caller but
		// worth an operator signal.
		s.logger.ErrorContext(ctx, "stored password hash is malformed",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}
	if !ok {
		s.recordEvent(ctx, &user.ID, domain.EventLogin, false, "wrong password", params.Meta)
		s.limiter.Hit(ctx, ActionLogin, params.Meta.IPAddress)
		metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
		return LoginResult{}, domain.ErrInvalidCredentials
	}

	if !user.Active() {
		s.recordEvent(ctx, &user.ID, domain.EventLogin, false, "account inactive", params.Meta)
		metrics.LoginAttempts.WithLabelValues("inactive").Inc()
		return LoginResult{}, domain.ErrAccountInactive
	}

	session, err := s.issueSession(ctx, user, params.Meta)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return LoginResult{}, err
	}

	now := s.nowFn()
	if err := s.users.UpdateLastAccess(ctx, user.ID, now); err != nil {
		s.logger.WarnContext(ctx, "last access update failed",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}
	user.LastAccess = &now

	s.recordEvent(ctx, &user.ID, domain.EventLogin, true, "", params.Meta)
	s.limiter.Clear(ctx, ActionLogin, params.Meta.IPAddress)
	metrics.LoginAttempts.WithLabelValues("success").Inc()

	s.logger.InfoContext(ctx, "login succeeded",
		slog.String("operation", "login"),
		slog.Int64("user_id", user.ID),
	)
	return LoginResult{User: user, Session: session}, nil
}

func (s *Service) issueSession(ctx context.Context, user domain.User, meta RequestMeta) (domain.Session, error) {
	csrfToken, _, err := newToken()
	if err != nil {
		return domain.Session{}, err
	}
	now := s.nowFn()
	session := domain.Session{
		SessionID:      uuid.New(),
		UserID:         user.ID,
		Username:       user.Username,
		Name:           user.Name,
		LevelID:        user.LevelID,
		CSRFToken:      csrfToken,
		IPAddress:      meta.IPAddress,
		UserAgent:      meta.UserAgent,
		CreatedAt:      now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(s.sessionTTL),
	}
	created, err := s.sessions.Create(ctx, session)
	if err != nil {
		return domain.Session{}, fmt.Errorf("create session: %w", err)
	}
	return created, nil
}

// ValidateSession resolves a cookie's session id to a live session and
// touches its activity timestamp. Revoked, expired and idle sessions all
// map to ErrUnauthorized.
func (s *Service) ValidateSession(ctx context.Context, sessionID uuid.UUID) (domain.Session, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Session{}, domain.ErrUnauthorized
		}
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}

	now := s.nowFn()
	switch {
	case session.RevokedAt != nil:
		return domain.Session{}, domain.ErrUnauthorized
	case now.After(session.ExpiresAt):
		return domain.Session{}, domain.ErrUnauthorized
	case now.Sub(session.LastActivityAt) > s.idleTimeout:
		return domain.Session{}, domain.ErrUnauthorized
	}

	if err := s.sessions.TouchActivity(ctx, sessionID, now); err != nil {
		s.logger.WarnContext(ctx, "session activity touch failed",
			slog.String("session_id", sessionID.String()),
			slog.String("error", err.Error()),
		)
	}
	session.LastActivityAt = now
	return session, nil
}

// Logout revokes the session and records the event. Logout of an already
// dead session is not an error.
func (s *Service) Logout(ctx context.Context, session domain.Session, meta RequestMeta) error {
	s.recordEvent(ctx, &session.UserID, domain.EventLogout, true, "", meta)
	if err := s.sessions.Revoke(ctx, session.SessionID, s.nowFn()); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("revoke session: %w", err)
	}
	s.logger.InfoContext(ctx, "logout",
		slog.String("operation", "logout"),
		slog.Int64("user_id", session.UserID),
	)
	return nil
}
