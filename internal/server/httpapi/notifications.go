package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/studyshare/internal/server/models"
)

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	page, err := h.notifications.List(r.Context(), memberFrom(r.Context()).ID, queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, page)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.notifications.MarkRead(r.Context(), pathVar(r, "id"), memberFrom(r.Context()).ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, n)
}

func (h *Handler) registerDevice(w http.ResponseWriter, r *http.Request) {
	var tok models.DeviceToken
	if err := decodeJSON(w, r, &tok); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.notifications.RegisterDevice(r.Context(), memberFrom(r.Context()).ID, tok); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMessage(w, "Device registered")
}
