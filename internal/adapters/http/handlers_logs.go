package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wblproducoes/mvc08/internal/application"
	"github.com/wblproducoes/mvc08/internal/domain"
)

type accessLogView struct {
	ID        int64  `json:"id"`
	UserID    *int64 `json:"userId"`
	UserName  string `json:"userName,omitempty"`
	Username  string `json:"username,omitempty"`
	Timestamp string `json:"timestamp"`
	IPAddress string `json:"ipAddress"`
	UserAgent string `json:"userAgent"`
	EventType int16  `json:"eventType"`
	EventName string `json:"eventName"`
	Success   bool   `json:"success"`
	Details   string `json:"details,omitempty"`
}

func toAccessLogView(e domain.AccessLogEntry) accessLogView {
	return accessLogView{
		ID:        e.ID,
		UserID:    e.UserID,
		UserName:  e.UserName,
		Username:  e.UserUsername,
		Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
		IPAddress: e.IPAddress,
		UserAgent: e.UserAgent,
		EventType: int16(e.EventType),
		EventName: e.EventType.String(),
		Success:   e.Success,
		Details:   e.Details,
	}
}

func (h *Handler) listAccessLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := application.ListAccessLogsParams{
		Search: q.Get("search"),
		Page:   pageFromQuery(r),
	}
	if raw := q.Get("event_type"); raw != "" {
		if v, err := parseInt64(raw); err == nil {
			params.EventType = domain.EventType(v)
		}
	}
	if raw := q.Get("success"); raw != "" {
		success := raw == "true" || raw == "1"
		params.Success = &success
	}

	list, err := h.service.ListAccessLogs(r.Context(), params)
	if err != nil {
		writeMappedError(r.Context(), w, "list_access_logs", err)
		return
	}
	views := make([]accessLogView, 0, len(list.Entries))
	for _, e := range list.Entries {
		views = append(views, toAccessLogView(e))
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"logs":  views,
		"total": list.Total,
	})
}

func (h *Handler) getAccessLog(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeMappedError(r.Context(), w, "get_access_log", fmt.Errorf("%w: invalid log id", domain.ErrInvalidInput))
		return
	}
	entry, err := h.service.GetAccessLog(r.Context(), id)
	if err != nil {
		writeMappedError(r.Context(), w, "get_access_log", err)
		return
	}
	writeSuccess(w, http.StatusOK, toAccessLogView(entry))
}
