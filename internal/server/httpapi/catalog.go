package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/studyshare/internal/server/models"
	"github.com/google/uuid"
)

func (h *Handler) faculties(w http.ResponseWriter, r *http.Request) {
	fs, err := h.catalog.Faculties(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, fs)
}

func (h *Handler) facultyInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.catalog.FacultyInfo(r.Context(), pathVar(r, "id"), viewerID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, info)
}

// subjects serves GET /subjects?facultyId=. An unknown or malformed faculty
// yields an empty list.
func (h *Handler) subjects(w http.ResponseWriter, r *http.Request) {
	facultyID := r.URL.Query().Get("facultyId")
	if facultyID != "" {
		if _, err := uuid.Parse(facultyID); err != nil {
			writeData(w, http.StatusOK, []models.Subject{})
			return
		}
	}
	ss, err := h.catalog.Subjects(r.Context(), facultyID, viewerID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, ss)
}

func (h *Handler) subjectInfo(w http.ResponseWriter, r *http.Request) {
	s, err := h.catalog.SubjectInfo(r.Context(), pathVar(r, "id"), viewerID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, s)
}

func (h *Handler) subjectSuggestions(w http.ResponseWriter, r *http.Request) {
	ss, err := h.catalog.SubjectSuggestions(r.Context(), r.URL.Query().Get("keyword"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, ss)
}

var targetTypes = map[string]models.TargetType{
	"faculties": models.TargetFaculty,
	"subjects":  models.TargetSubject,
	"users":     models.TargetMember,
}

func subscriptionTarget(r *http.Request) models.Target {
	return models.Target{Type: targetTypes[pathVar(r, "target")], ID: pathVar(r, "id")}
}

func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	if err := h.subscriptions.Subscribe(r.Context(), memberFrom(r.Context()), subscriptionTarget(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMessage(w, "Subscribed")
}

func (h *Handler) unsubscribe(w http.ResponseWriter, r *http.Request) {
	if err := h.subscriptions.Unsubscribe(r.Context(), memberFrom(r.Context()), subscriptionTarget(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMessage(w, "Unsubscribed")
}
