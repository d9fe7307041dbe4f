package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wblproducoes/mvc08/internal/domain"
	"github.com/wblproducoes/mvc08/internal/ports"
)

// RequestPasswordReset issues a single-use reset token for the account
// behind the email and queues the notification. An unknown email is an
// explicit ErrNotFound: the product treats the back office as a closed
// population where enumeration resistance matters less than operator
// feedback. Requests are throttled per address like logins.
func (s *Service) RequestPasswordReset(ctx context.Context, params ResetRequestParams) error {
	if s.limiter.IsBlocked(ctx, ActionPasswordReset, params.Meta.IPAddress) {
		return &domain.RateLimitedError{
			RetryAfter: s.limiter.AvailableIn(ctx, ActionPasswordReset, params.Meta.IPAddress),
		}
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}

	// Every request consumes an attempt, hit or miss. Minting tokens for a
	// known address sends real mail, so the issue path is throttled as a
	// whole rather than only on enumeration misses.
	s.limiter.Hit(ctx, ActionPasswordReset, params.Meta.IPAddress)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.recordEvent(ctx, nil, domain.EventPasswordResetRequest, false, "unknown email", params.Meta)
			return fmt.Errorf("%w: no account with that email", domain.ErrNotFound)
		}
		return fmt.Errorf("lookup email: %w", err)
	}

	token, tokenHash, err := newToken()
	if err != nil {
		return err
	}
	expiresAt := s.nowFn().Add(s.resetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	s.recordEvent(ctx, &user.ID, domain.EventPasswordResetRequest, true, "", params.Meta)

	if s.mailer != nil {
		mail := ports.PasswordResetMail{
			To:       user.Email,
			Name:     user.Name,
			Token:    token,
			ResetURL: s.resetBaseURL + "?token=" + token,
		}
		if err := s.mailer.EnqueuePasswordReset(ctx, mail); err != nil {
			// Delivery is best-effort; the token is already valid and the
			// operator can re-request.
			s.logger.ErrorContext(ctx, "reset mail enqueue failed",
				slog.Int64("user_id", user.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "password reset requested",
		slog.String("operation", "password_reset_request"),
		slog.Int64("user_id", user.ID),
	)
	return nil
}

// CompletePasswordReset consumes the emailed token and sets the new
// password. Unknown, expired and already-used tokens are indistinguishable
// to the caller.
func (s *Service) CompletePasswordReset(ctx context.Context, params ResetCompleteParams) error {
	token := strings.TrimSpace(params.Token)
	if token == "" {
		return domain.ErrTokenExpiredOrInvalid
	}
	if err := domain.ValidatePassword(params.NewPassword); err != nil {
		return err
	}

	passwordHash, err := s.hasher.Hash(params.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	userID, err := s.users.ConsumeResetToken(ctx, hashToken(token), passwordHash, s.nowFn())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.recordEvent(ctx, nil, domain.EventPasswordResetComplete, false, "invalid or expired token", params.Meta)
			return domain.ErrTokenExpiredOrInvalid
		}
		return fmt.Errorf("consume reset token: %w", err)
	}

	// Existing sessions were opened under the old password; drop them.
	if err := s.sessions.RevokeAllByUser(ctx, userID, s.nowFn()); err != nil {
		s.logger.WarnContext(ctx, "session revocation after reset failed",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.recordEvent(ctx, &userID, domain.EventPasswordResetComplete, true, "", params.Meta)
	s.logger.InfoContext(ctx, "password reset completed",
		slog.String("operation", "password_reset_complete"),
		slog.Int64("user_id", userID),
	)
	return nil
}
