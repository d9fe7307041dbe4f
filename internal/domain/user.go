package domain

import (
	"time"

	"github.com/google/uuid"
)

// MasterUserID is the seeded administrator account.
// It must always exist and can never be deleted or deactivated.
const MasterUserID int64 = 1

// StatusActive is the status id that allows a user to authenticate.
const StatusActive int64 = 1

// User is the back-office account aggregate.
// Username and email are unique among rows whose DeletedAt is null;
// soft-deleted rows release both for reuse.
type User struct {
	ID           int64
	Name         string
	Username     string
	Email        string
	PasswordHash string
	StatusID     int64
	LevelID      int64
	GenderID     int64
	LastAccess   *time.Time

	ResetTokenHash    string
	ResetTokenExpires *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Active reports whether the account may sign in.
func (u User) Active() bool {
	return u.StatusID == StatusActive && u.DeletedAt == nil
}

// Session is one authenticated browsing session.
// The cookie carries only SessionID; everything else stays server-side
// so logout and expiry take effect immediately.
type Session struct {
	SessionID      uuid.UUID
	UserID         int64
	Username       string
	Name           string
	LevelID        int64
	CSRFToken      string
	IPAddress      string
	UserAgent      string
	CreatedAt      time.Time
	LastActivityAt time.Time
	ExpiresAt      time.Time
	RevokedAt      *time.Time
}

// EventType classifies an access-log row.
type EventType int16

const (
	EventLogin EventType = iota + 1
	EventLogout
	EventPasswordResetRequest
	EventPasswordResetComplete
)

// String returns the display name used by the access-log screens.
func (e EventType) String() string {
	switch e {
	case EventLogin:
		return "Login"
	case EventLogout:
		return "Logout"
	case EventPasswordResetRequest:
		return "Password Reset Request"
	case EventPasswordResetComplete:
		return "Password Reset Complete"
	default:
		return "Unknown"
	}
}

// AccessLogEntry is one append-only audit row.
// UserID is nil when the event could not be tied to an account
// (for example a login attempt with an unknown username).
type AccessLogEntry struct {
	ID        int64
	UserID    *int64
	Timestamp time.Time
	IPAddress string
	UserAgent string
	EventType EventType
	Success   bool
	Details   string

	// Joined display fields, populated only by list/get queries.
	UserName     string
	UserUsername string
}

// Lookup is a row of one of the small reference tables
// (status, levels, genders) backing the admin screens.
type Lookup struct {
	ID        int64
	Name      string
	Translate string
	CreatedAt time.Time
}
