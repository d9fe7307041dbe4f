package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wblproducoes/mvc08/internal/application"
	"github.com/wblproducoes/mvc08/internal/domain"
)

// userView is the wire shape for an account. Password material and reset
// tokens never leave the server.
type userView struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	StatusID   int64  `json:"statusId"`
	LevelID    int64  `json:"levelId"`
	GenderID   int64  `json:"genderId"`
	LastAccess string `json:"lastAccess,omitempty"`
	CreatedAt  string `json:"createdAt"`
}

func toUserView(u domain.User) userView {
	view := userView{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		StatusID:  u.StatusID,
		LevelID:   u.LevelID,
		GenderID:  u.GenderID,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
	if u.LastAccess != nil {
		view.LastAccess = u.LastAccess.UTC().Format(time.RFC3339)
	}
	return view
}

func userIDParam(r *http.Request) (int64, error) {
	id, err := parseInt64(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid user id", domain.ErrInvalidInput)
	}
	return id, nil
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := application.ListUsersParams{
		Search: q.Get("search"),
		Page:   pageFromQuery(r),
	}
	if raw := q.Get("status_id"); raw != "" {
		if id, err := parseInt64(raw); err == nil {
			params.StatusID = id
		}
	}
	if raw := q.Get("level_id"); raw != "" {
		if id, err := parseInt64(raw); err == nil {
			params.LevelID = id
		}
	}

	list, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		writeMappedError(r.Context(), w, "list_users", err)
		return
	}
	views := make([]userView, 0, len(list.Users))
	for _, u := range list.Users {
		views = append(views, toUserView(u))
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"users": views,
		"total": list.Total,
	})
}

type createUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	StatusID int64  `json:"statusId"`
	LevelID  int64  `json:"levelId"`
	GenderID int64  `json:"genderId"`
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_user", err)
		return
	}
	user, err := h.service.CreateUser(r.Context(), application.CreateUserParams{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		StatusID: req.StatusID,
		LevelID:  req.LevelID,
		GenderID: req.GenderID,
	})
	if err != nil {
		writeMappedError(r.Context(), w, "create_user", err)
		return
	}
	writeSuccess(w, http.StatusCreated, toUserView(user))
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeMappedError(r.Context(), w, "get_user", err)
		return
	}
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		writeMappedError(r.Context(), w, "get_user", err)
		return
	}
	writeSuccess(w, http.StatusOK, toUserView(user))
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	StatusID *int64  `json:"statusId"`
	LevelID  *int64  `json:"levelId"`
	GenderID *int64  `json:"genderId"`
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeMappedError(r.Context(), w, "update_user", err)
		return
	}
	var req updateUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_user", err)
		return
	}
	user, err := h.service.UpdateUser(r.Context(), id, application.UpdateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		StatusID: req.StatusID,
		LevelID:  req.LevelID,
		GenderID: req.GenderID,
	})
	if err != nil {
		writeMappedError(r.Context(), w, "update_user", err)
		return
	}
	writeSuccess(w, http.StatusOK, toUserView(user))
}

type changePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeMappedError(r.Context(), w, "change_password", err)
		return
	}
	var req changePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "change_password", err)
		return
	}
	if err := h.service.ChangePassword(r.Context(), id, req.NewPassword); err != nil {
		writeMappedError(r.Context(), w, "change_password", err)
		return
	}
	writeMessage(w, http.StatusOK, "password updated")
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeMappedError(r.Context(), w, "delete_user", err)
		return
	}
	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		writeMappedError(r.Context(), w, "delete_user", err)
		return
	}
	writeMessage(w, http.StatusOK, "user deleted")
}

func (h *Handler) restoreUser(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeMappedError(r.Context(), w, "restore_user", err)
		return
	}
	if err := h.service.RestoreUser(r.Context(), id); err != nil {
		writeMappedError(r.Context(), w, "restore_user", err)
		return
	}
	writeMessage(w, http.StatusOK, "user restored")
}

func (h *Handler) purgeUser(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeMappedError(r.Context(), w, "purge_user", err)
		return
	}
	if err := h.service.PurgeUser(r.Context(), id); err != nil {
		writeMappedError(r.Context(), w, "purge_user", err)
		return
	}
	writeMessage(w, http.StatusOK, "user permanently removed")
}
