package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// uuid path segments; anything else falls through to the 404 handler.
const uuidVar = "{id:[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}}"

// NewRouter mounts every endpoint under /api.
func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, "OK")
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/signup", h.signup).Methods("POST")
	api.HandleFunc("/auth/verify-otp", h.verifyOTP).Methods("POST")
	api.HandleFunc("/auth/resend-otp", h.resendOTP).Methods("POST")
	api.HandleFunc("/auth/login", h.login).Methods("POST")
	api.HandleFunc("/auth/forgot-password", h.forgotPassword).Methods("POST")
	api.HandleFunc("/auth/verify-reset-otp", h.verifyResetOTP).Methods("POST")
	api.HandleFunc("/auth/reset-password", h.resetPassword).Methods("POST")
	api.HandleFunc("/auth/logout", h.requireAuth(h.logout)).Methods("POST")

	api.HandleFunc("/users/me", h.requireAuth(h.me)).Methods("GET")
	api.HandleFunc("/users/me", h.requireAuth(h.updateMe)).Methods("PATCH")
	api.HandleFunc("/users/"+uuidVar, h.optionalAuth(h.userProfile)).Methods("GET")

	api.HandleFunc("/documents", h.listDocuments).Methods("GET")
	api.HandleFunc("/documents", h.requireAuth(h.createDocument)).Methods("POST")
	api.HandleFunc("/documents/search", h.searchDocuments).Methods("GET")
	api.HandleFunc("/documents/suggestions", h.documentSuggestions).Methods("GET")
	api.HandleFunc("/documents/faculty/"+uuidVar, h.facultyDocuments).Methods("GET")
	api.HandleFunc("/documents/subject/"+uuidVar, h.subjectDocuments).Methods("GET")
	api.HandleFunc("/documents/"+uuidVar, h.getDocument).Methods("GET")
	api.HandleFunc("/documents/"+uuidVar, h.requireAuth(h.deleteDocument)).Methods("DELETE")
	api.HandleFunc("/documents/"+uuidVar+"/download", h.requireAuth(h.downloadDocument)).Methods("GET")

	api.HandleFunc("/faculties", h.faculties).Methods("GET")
	api.HandleFunc("/faculties/"+uuidVar, h.optionalAuth(h.facultyInfo)).Methods("GET")
	api.HandleFunc("/subjects", h.optionalAuth(h.subjects)).Methods("GET")
	api.HandleFunc("/subjects/suggestions", h.subjectSuggestions).Methods("GET")
	api.HandleFunc("/subjects/"+uuidVar, h.optionalAuth(h.subjectInfo)).Methods("GET")

	sub := "/{target:faculties|subjects|users}/" + uuidVar + "/subscription"
	api.HandleFunc(sub, h.requireAuth(h.subscribe)).Methods("POST")
	api.HandleFunc(sub, h.requireAuth(h.unsubscribe)).Methods("DELETE")

	api.HandleFunc("/notifications", h.requireAuth(h.listNotifications)).Methods("GET")
	api.HandleFunc("/notifications/fcm-token", h.requireAuth(h.registerDevice)).Methods("POST")
	api.HandleFunc("/notifications/"+uuidVar+"/read", h.requireAuth(h.markRead)).Methods("PATCH")

	api.HandleFunc("/admin/statistics", h.requireAdmin(h.adminStatistics)).Methods("GET")
	api.HandleFunc("/admin/members", h.requireAdmin(h.adminMembers)).Methods("GET")
	api.HandleFunc("/admin/members/"+uuidVar+"/ban-status", h.requireAdmin(h.setBanStatus)).Methods("PATCH")
	api.HandleFunc("/admin/documents/pending", h.requireAdmin(h.pendingDocuments)).Methods("GET")
	api.HandleFunc("/admin/document/"+uuidVar+"/status", h.requireAdmin(h.setDocumentStatus)).Methods("PATCH")

	return withRequestID(h.accessLog(r))
}
