package http

import (
	"net/http"
	"time"

	"github.com/wblproducoes/mvc08/internal/domain"
)

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	if h.readyCheck != nil {
		if err := h.readyCheck(); err != nil {
			logHTTPOperationError(r.Context(), "readyz", http.StatusServiceUnavailable, "NOT_READY", err.Error(), err)
			writeError(w, http.StatusServiceUnavailable, "NOT_READY", "backing stores unavailable")
			return
		}
	}
	writeMessage(w, http.StatusOK, "ready")
}

type sessionView struct {
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	LevelID   int64  `json:"levelId"`
	CSRFToken string `json:"csrfToken"`
	ExpiresAt string `json:"expiresAt"`
}

func toSessionView(s domain.Session) sessionView {
	return sessionView{
		UserID:    s.UserID,
		Username:  s.Username,
		Name:      s.Name,
		LevelID:   s.LevelID,
		CSRFToken: s.CSRFToken,
		ExpiresAt: s.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

// currentSession returns the authenticated principal, giving single-page
// clients a way to restore state (and the CSRF token) after a reload.
func (h *Handler) currentSession(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		writeMappedError(r.Context(), w, "current_session", domain.ErrUnauthorized)
		return
	}
	writeSuccess(w, http.StatusOK, toSessionView(session))
}
