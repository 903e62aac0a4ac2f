package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/studyshare/internal/server/models"
)

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	m := memberFrom(r.Context())
	p, err := h.members.Profile(r.Context(), m.ID, m.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	var upd models.ProfileUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.members.UpdateProfile(r.Context(), memberFrom(r.Context()).ID, upd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

func (h *Handler) userProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.members.Profile(r.Context(), pathVar(r, "id"), viewerID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, p)
}
