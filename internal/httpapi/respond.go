package httpapi

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/kongyujesse/portfolio-backend/internal/domain"
)

type errorBody struct {
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func decode(request *http.Request, target any) error {
	return json.NewDecoder(request.Body).Decode(target)
}

// writeError answers validation failures with 400 and logs anything else as
// an internal error.
func (handlers *Handlers) writeError(writer http.ResponseWriter, request *http.Request, err error, operation string) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		writeJSON(writer, http.StatusBadRequest, errorBody{Message: validation.Message, Errors: validation.Fields})
		return
	}
	handlers.logger.Error(operation+" failed", "path", request.URL.Path, "error", err)
	writeMessage(writer, http.StatusInternalServerError, "Server error")
}

func writeMessage(writer http.ResponseWriter, status int, message string) {
	writeJSON(writer, status, errorBody{Message: message})
}

func requestIP(request *http.Request) string {
	forwardedFor := strings.TrimSpace(strings.Split(request.Header.Get("X-Forwarded-For"), ",")[0])
	if forwardedFor != "" {
		return forwardedFor
	}

	realIP := strings.TrimSpace(request.Header.Get("X-Real-IP"))
	if realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(request.RemoteAddr))
	if err != nil {
		return request.RemoteAddr
	}
	return host
}

func writeJSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(payload)
}
