package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/studyshare/internal/server/models"
)

func (h *Handler) adminStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Statistics(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}

func (h *Handler) adminMembers(w http.ResponseWriter, r *http.Request) {
	ms, err := h.admin.Members(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, ms)
}

func (h *Handler) setBanStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		BanStatus models.BanStatus `json:"banStatus"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	m, err := h.admin.SetBanStatus(r.Context(), memberFrom(r.Context()), pathVar(r, "id"), in.BanStatus)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, m)
}

func (h *Handler) pendingDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.admin.PendingDocuments(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, docs)
}

func (h *Handler) setDocumentStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status models.DocumentStatus `json:"status"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	doc, err := h.admin.SetDocumentStatus(r.Context(), pathVar(r, "id"), in.Status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, doc)
}
