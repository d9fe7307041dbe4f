package application

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/wblproducoes/mvc08/internal/domain"
	"github.com/wblproducoes/mvc08/internal/metrics"
)

// recordEvent appends one audit row. A write failure is logged and counted
// but never propagated: the audit log must not change the outcome of the
// operation it records.
func (s *Service) recordEvent(ctx context.Context, userID *int64, event domain.EventType, success bool, details string, meta RequestMeta) {
	entry := domain.AccessLogEntry{
		UserID:    userID,
		Timestamp: s.nowFn(),
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		EventType: event,
		Success:   success,
		Details:   details,
	}
	if _, err := s.accessLogs.Record(ctx, entry); err != nil {
		metrics.AuditWriteFailures.Inc()
		s.logger.ErrorContext(ctx, "access log write failed",
			slog.String("operation", "record_event"),
			slog.String("event", event.String()),
			slog.String("error", err.Error()),
		)
	}
}

// newToken returns a 32-byte random token as hex plus its sha256 hash.
// Only the hash is persisted; the plaintext goes out in the email.
func newToken() (plaintext, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}
	plaintext = hex.EncodeToString(buf)
	return plaintext, hashToken(plaintext), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
