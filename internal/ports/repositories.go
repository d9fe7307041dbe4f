package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wblproducoes/mvc08/internal/domain"
)

// CreateUserParams captures the fields an admin supplies when creating an account.
// The hash is computed by the application layer; repositories never see plaintext.
type CreateUserParams struct {
	Name         string
	Username     string
	Email        string
	PasswordHash string
	StatusID     int64
	LevelID      int64
	GenderID     int64
}

// UpdateUserParams carries a partial update; nil fields are left untouched.
type UpdateUserParams struct {
	Name     *string
	Email    *string
	StatusID *int64
	LevelID  *int64
	GenderID *int64
}

// UserFilter narrows admin list queries. Search matches name, email and
// username with a substring scan, mirroring the back-office search box.
type UserFilter struct {
	Search   string
	StatusID int64
	LevelID  int64
}

// UserRepository defines persistence for accounts.
// Lookups exclude soft-deleted rows unless a method says otherwise.
type UserRepository interface {
	Create(ctx context.Context, params CreateUserParams) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	List(ctx context.Context, filter UserFilter, limit, offset int) ([]domain.User, int64, error)
	Update(ctx context.Context, id int64, params UpdateUserParams) error
	UpdateLastAccess(ctx context.Context, id int64, at time.Time) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string, updatedAt time.Time) error

	// SetResetToken stores the hashed single-use token and its expiry on the row.
	SetResetToken(ctx context.Context, id int64, tokenHash string, expiresAt time.Time) error
	// ConsumeResetToken atomically resolves an unexpired token hash, replaces the
	// password and clears the token columns. domain.ErrNotFound means unknown,
	// expired or already-used.
	ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (int64, error)

	SoftDelete(ctx context.Context, id int64, deletedAt time.Time) error
	Restore(ctx context.Context, id int64) error
	// HardDelete permanently removes a row that was already soft-deleted.
	HardDelete(ctx context.Context, id int64) error
}

// SessionRepository manages the server-side session store.
type SessionRepository interface {
	Create(ctx context.Context, session domain.Session) (domain.Session, error)
	GetByID(ctx context.Context, sessionID uuid.UUID) (domain.Session, error)
	TouchActivity(ctx context.Context, sessionID uuid.UUID, touchedAt time.Time) error
	Revoke(ctx context.Context, sessionID uuid.UUID, revokedAt time.Time) error
	RevokeAllByUser(ctx context.Context, userID int64, revokedAt time.Time) error
}

// AccessLogFilter narrows access-log review queries.
type AccessLogFilter struct {
	Search    string
	EventType domain.EventType
	Success   *bool
}

// AccessLogRepository is the append-only audit store. Record never mutates
// or deletes existing rows; retention is an external concern.
type AccessLogRepository interface {
	Record(ctx context.Context, entry domain.AccessLogEntry) (int64, error)
	List(ctx context.Context, filter AccessLogFilter, limit, offset int) ([]domain.AccessLogEntry, int64, error)
	GetByID(ctx context.Context, id int64) (domain.AccessLogEntry, error)
}

// LookupRepository serves the small status/levels/genders reference tables.
type LookupRepository interface {
	List(ctx context.Context) ([]domain.Lookup, error)
	GetByID(ctx context.Context, id int64) (domain.Lookup, error)
}
