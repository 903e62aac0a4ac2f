package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/studyshare/internal/common"
	"github.com/dmitrijs2005/studyshare/internal/server/services"
)

const maxBodyBytes = 1 << 20

type envelope struct {
	Data any `json:"data"`
}

type errorBody struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeData wraps v in the {"data": ...} envelope.
func writeData(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, envelope{Data: v})
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeData(w, http.StatusOK, messageBody{Message: msg})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Message: msg, StatusCode: status})
}

// mapError chooses the status and user facing message for err. Anything
// it does not recognise is a 500 with a generic message.
func mapError(err error) (int, string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "Invalid request body"
	case errors.Is(err, services.ErrInvalidOTP):
		return http.StatusBadRequest, "Invalid or expired code"
	case errors.Is(err, services.ErrInvalidResetToken):
		return http.StatusBadRequest, "Invalid or expired reset token"

	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "Token expired"
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"

	case errors.Is(err, services.ErrNotVerified):
		return http.StatusForbidden, "Email is not verified"
	case errors.Is(err, services.ErrBanned):
		return http.StatusForbidden, "Your account has been banned"
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, "Forbidden"

	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Not found"

	case errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict, "Email is already registered"
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, "Already exists"
	}
	return http.StatusInternalServerError, "Internal server error"
}

var errBadRequest = errors.New("bad request body")

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errBadRequest
	}
	return nil
}
