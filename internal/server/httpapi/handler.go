// Package httpapi is the REST surface of the server: a gorilla/mux router
// under /api whose JSON shapes match the client's api package.
package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/studyshare/internal/logging"
	"github.com/gorilla/mux"
)

type Handler struct {
	members       MemberService
	documents     DocumentService
	catalog       CatalogService
	subscriptions SubscriptionService
	notifications NotificationService
	admin         AdminService
	logger        logging.Logger
}

func NewHandler(s Services, logger logging.Logger) *Handler {
	return &Handler{
		members:       s.Members,
		documents:     s.Documents,
		catalog:       s.Catalog,
		subscriptions: s.Subscriptions,
		notifications: s.Notifications,
		admin:         s.Admin,
		logger:        logger.With("module", "httpapi"),
	}
}

// fail writes err as a JSON error. Server side failures are logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := mapError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "request_id", requestIDFrom(r.Context()),
			"path", r.URL.Path, "error", err)
	}
	writeError(w, status, msg)
}

func pathVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

// queryInt returns the named integer query parameter, or 0.
func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return n
}
