package postgres

import (
	"time"

	"github.com/google/uuid"
)

type userModel struct {
	ID                int64      `gorm:"column:id;primaryKey"`
	Name              string     `gorm:"column:name"`
	Username          string     `gorm:"column:username"`
	Email             string     `gorm:"column:email"`
	PasswordHash      string     `gorm:"column:password_hash"`
	StatusID          int64      `gorm:"column:status_id"`
	LevelID           int64      `gorm:"column:level_id"`
	GenderID          int64      `gorm:"column:gender_id"`
	LastAccess        *time.Time `gorm:"column:last_access"`
	ResetTokenHash    *string    `gorm:"column:password_reset_token_hash"`
	ResetTokenExpires *time.Time `gorm:"column:password_reset_expires"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
	DeletedAt         *time.Time `gorm:"column:deleted_at"`
}

func (userModel) TableName() string { return "users" }

type sessionModel struct {
	SessionID      uuid.UUID  `gorm:"column:session_id;type:uuid;primaryKey"`
	UserID         int64      `gorm:"column:user_id"`
	Username       string     `gorm:"column:username"`
	Name           string     `gorm:"column:name"`
	LevelID        int64      `gorm:"column:level_id"`
	CSRFToken      string     `gorm:"column:csrf_token"`
	IPAddress      *string    `gorm:"column:ip_address"`
	UserAgent      string     `gorm:"column:user_agent"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	LastActivityAt time.Time  `gorm:"column:last_activity_at"`
	ExpiresAt      time.Time  `gorm:"column:expires_at"`
	RevokedAt      *time.Time `gorm:"column:revoked_at"`
}

func (sessionModel) TableName() string { return "sessions" }

type accessLogModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	UserID    *int64    `gorm:"column:user_id"`
	DhAccess  time.Time `gorm:"column:dh_access"`
	IPAddress *string   `gorm:"column:ip_address"`
	UserAgent string    `gorm:"column:user_agent"`
	EventType int16     `gorm:"column:event_type"`
	Success   bool      `gorm:"column:success"`
	Details   string    `gorm:"column:details"`

	// Populated via LEFT JOIN for the review screens.
	UserName     *string `gorm:"column:user_name;->"`
	UserUsername *string `gorm:"column:user_username;->"`
}

func (accessLogModel) TableName() string { return "user_access_logs" }

type lookupModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	Translate string    `gorm:"column:translate"`
	CreatedAt time.Time `gorm:"column:created_at"`
}
