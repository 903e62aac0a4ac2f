package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/studyshare/internal/server/models"
)

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	page, err := h.documents.List(r.Context(), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, page)
}

func (h *Handler) searchDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.documents.Search(r.Context(), q.Get("keyword"), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, page)
}

func (h *Handler) documentSuggestions(w http.ResponseWriter, r *http.Request) {
	titles, err := h.documents.Suggestions(r.Context(), r.URL.Query().Get("keyword"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, titles)
}

func (h *Handler) facultyDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documents.ByFaculty(r.Context(), pathVar(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, docs)
}

func (h *Handler) subjectDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documents.BySubject(r.Context(), pathVar(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, docs)
}

func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.documents.Get(r.Context(), pathVar(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, doc)
}

func (h *Handler) createDocument(w http.ResponseWriter, r *http.Request) {
	var in models.NewDocument
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	ticket, err := h.documents.Create(r.Context(), memberFrom(r.Context()), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, ticket)
}

func (h *Handler) downloadDocument(w http.ResponseWriter, r *http.Request) {
	link, err := h.documents.Download(r.Context(), pathVar(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, link)
}

func (h *Handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.documents.Delete(r.Context(), memberFrom(r.Context()), pathVar(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMessage(w, "Document deleted")
}
