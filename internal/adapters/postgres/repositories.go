package postgres

import (
	"gorm.io/gorm"

	"github.com/wblproducoes/mvc08/internal/ports"
)

// Repositories groups the Postgres-backed port implementations.
type Repositories struct {
	Users      ports.UserRepository
	Sessions   ports.SessionRepository
	AccessLogs ports.AccessLogRepository
	Statuses   ports.LookupRepository
	Levels     ports.LookupRepository
	Genders    ports.LookupRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:      &userRepository{db: db},
		Sessions:   &sessionRepository{db: db},
		AccessLogs: &accessLogRepository{db: db},
		Statuses:   &lookupRepository{db: db, table: "status"},
		Levels:     &lookupRepository{db: db, table: "levels"},
		Genders:    &lookupRepository{db: db, table: "genders"},
	}
}
