package application

import (
	"github.com/wblproducoes/mvc08/internal/domain"
)

// Throttled actions. The limiter keys on action + client address, so each
// action gets an independent allowance.
const (
	ActionLogin         = "login"
	ActionPasswordReset = "password_reset"
)

// RequestMeta carries the client attribution recorded with every audited
// operation.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// LoginParams is the credential pair plus attribution for one login attempt.
type LoginParams struct {
	Username string
	Password string
	Meta     RequestMeta
}

// LoginResult is returned on a successful login. The transport turns the
// session into a cookie and hands the CSRF token to the client.
type LoginResult struct {
	User    domain.User
	Session domain.Session
}

// ResetRequestParams starts a password recovery.
type ResetRequestParams struct {
	Email string
	Meta  RequestMeta
}

// ResetCompleteParams finishes a password recovery with the emailed token.
type ResetCompleteParams struct {
	Token       string
	NewPassword string
	Meta        RequestMeta
}

// CreateUserParams is the admin create-account form.
type CreateUserParams struct {
	Name     string
	Username string
	Email    string
	Password string
	StatusID int64
	LevelID  int64
	GenderID int64
}

// UpdateUserParams is the admin edit-account form; nil fields are unchanged.
type UpdateUserParams struct {
	Name     *string
	Email    *string
	StatusID *int64
	LevelID  *int64
	GenderID *int64
}

// Page bounds a list query. Zero values get sane defaults.
type Page struct {
	Limit  int
	Offset int
}

const (
	defaultPageLimit = 25
	maxPageLimit     = 100
)

func (p Page) clamp() Page {
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// ListUsersParams filters the paginated user list.
type ListUsersParams struct {
	Search   string
	StatusID int64
	LevelID  int64
	Page     Page
}

// UserList is one page of users plus the unfiltered-by-page total.
type UserList struct {
	Users []domain.User
	Total int64
}

// ListAccessLogsParams filters the audit review list.
type ListAccessLogsParams struct {
	Search    string
	EventType domain.EventType
	Success   *bool
	Page      Page
}

// AccessLogList is one page of audit rows plus the total.
type AccessLogList struct {
	Entries []domain.AccessLogEntry
	Total   int64
}
