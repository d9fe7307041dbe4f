package postgres

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/wblproducoes/mvc08/internal/domain"
)

func toDomainUser(row userModel) domain.User {
	resetHash := ""
	if row.ResetTokenHash != nil {
		resetHash = *row.ResetTokenHash
	}
	return domain.User{
		ID:                row.ID,
		Name:              row.Name,
		Username:          row.Username,
		Email:             row.Email,
		PasswordHash:      row.PasswordHash,
		StatusID:          row.StatusID,
		LevelID:           row.LevelID,
		GenderID:          row.GenderID,
		LastAccess:        row.LastAccess,
		ResetTokenHash:    resetHash,
		ResetTokenExpires: row.ResetTokenExpires,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
		DeletedAt:         row.DeletedAt,
	}
}

func toDomainSession(row sessionModel) domain.Session {
	ip := ""
	if row.IPAddress != nil {
		ip = *row.IPAddress
	}
	return domain.Session{
		SessionID:      row.SessionID,
		UserID:         row.UserID,
		Username:       row.Username,
		Name:           row.Name,
		LevelID:        row.LevelID,
		CSRFToken:      row.CSRFToken,
		IPAddress:      ip,
		UserAgent:      row.UserAgent,
		CreatedAt:      row.CreatedAt,
		LastActivityAt: row.LastActivityAt,
		ExpiresAt:      row.ExpiresAt,
		RevokedAt:      row.RevokedAt,
	}
}

func toDomainAccessLog(row accessLogModel) domain.AccessLogEntry {
	entry := domain.AccessLogEntry{
		ID:        row.ID,
		UserID:    row.UserID,
		Timestamp: row.DhAccess,
		UserAgent: row.UserAgent,
		EventType: domain.EventType(row.EventType),
		Success:   row.Success,
		Details:   row.Details,
	}
	if row.IPAddress != nil {
		entry.IPAddress = *row.IPAddress
	}
	if row.UserName != nil {
		entry.UserName = *row.UserName
	}
	if row.UserUsername != nil {
		entry.UserUsername = *row.UserUsername
	}
	return entry
}

func toDomainLookup(row lookupModel) domain.Lookup {
	return domain.Lookup{
		ID:        row.ID,
		Name:      row.Name,
		Translate: row.Translate,
		CreatedAt: row.CreatedAt,
	}
}

func nullableString(v string) *string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
