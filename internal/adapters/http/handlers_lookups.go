package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wblproducoes/mvc08/internal/domain"
)

type lookupView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Translate string `json:"translate"`
}

func toLookupView(l domain.Lookup) lookupView {
	return lookupView{ID: l.ID, Name: l.Name, Translate: l.Translate}
}

func (h *Handler) writeLookupList(w http.ResponseWriter, r *http.Request, operation string,
	list func(context.Context) ([]domain.Lookup, error)) {
	rows, err := list(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, operation, err)
		return
	}
	views := make([]lookupView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toLookupView(row))
	}
	writeSuccess(w, http.StatusOK, views)
}

func (h *Handler) writeLookup(w http.ResponseWriter, r *http.Request, operation string,
	get func(context.Context, int64) (domain.Lookup, error)) {
	id, err := parseInt64(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeMappedError(r.Context(), w, operation, fmt.Errorf("%w: invalid id", domain.ErrInvalidInput))
		return
	}
	row, err := get(r.Context(), id)
	if err != nil {
		writeMappedError(r.Context(), w, operation, err)
		return
	}
	writeSuccess(w, http.StatusOK, toLookupView(row))
}

func (h *Handler) listStatuses(w http.ResponseWriter, r *http.Request) {
	h.writeLookupList(w, r, "list_statuses", h.service.ListStatuses)
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	h.writeLookup(w, r, "get_status", h.service.GetStatus)
}

func (h *Handler) listLevels(w http.ResponseWriter, r *http.Request) {
	h.writeLookupList(w, r, "list_levels", h.service.ListLevels)
}

func (h *Handler) getLevel(w http.ResponseWriter, r *http.Request) {
	h.writeLookup(w, r, "get_level", h.service.GetLevel)
}

func (h *Handler) listGenders(w http.ResponseWriter, r *http.Request) {
	h.writeLookupList(w, r, "list_genders", h.service.ListGenders)
}

func (h *Handler) getGender(w http.ResponseWriter, r *http.Request) {
	h.writeLookup(w, r, "get_gender", h.service.GetGender)
}
