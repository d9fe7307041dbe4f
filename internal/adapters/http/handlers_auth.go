package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/wblproducoes/mvc08/internal/application"
	"github.com/wblproducoes/mvc08/internal/domain"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "login", err)
		return
	}

	res, err := h.service.Login(r.Context(), application.LoginParams{
		Username: req.Username,
		Password: req.Password,
		Meta:     requestMeta(r),
	})
	if err != nil {
		writeMappedError(r.Context(), w, "login", err)
		return
	}

	h.setSessionCookie(w, res.Session.SessionID, res.Session.ExpiresAt)
	writeSuccess(w, http.StatusOK, toSessionView(res.Session))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		writeMappedError(r.Context(), w, "logout", domain.ErrUnauthorized)
		return
	}
	if err := h.service.Logout(r.Context(), session, requestMeta(r)); err != nil {
		writeMappedError(r.Context(), w, "logout", err)
		return
	}
	h.clearSessionCookie(w)
	writeMessage(w, http.StatusOK, "logged out")
}

type resetRequestRequest struct {
	Email string `json:"email"`
}

func (h *Handler) passwordResetRequest(w http.ResponseWriter, r *http.Request) {
	var req resetRequestRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "password_reset_request", err)
		return
	}
	err := h.service.RequestPasswordReset(r.Context(), application.ResetRequestParams{
		Email: req.Email,
		Meta:  requestMeta(r),
	})
	if err != nil {
		writeMappedError(r.Context(), w, "password_reset_request", err)
		return
	}
	writeMessage(w, http.StatusOK, "reset instructions sent")
}

type resetCompleteRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) passwordReset(w http.ResponseWriter, r *http.Request) {
	var req resetCompleteRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "password_reset", err)
		return
	}
	err := h.service.CompletePasswordReset(r.Context(), application.ResetCompleteParams{
		Token:       req.Token,
		NewPassword: req.NewPassword,
		Meta:        requestMeta(r),
	})
	if err != nil {
		writeMappedError(r.Context(), w, "password_reset", err)
		return
	}
	writeMessage(w, http.StatusOK, "password updated")
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, sessionID uuid.UUID, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    sessionID.String(),
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
