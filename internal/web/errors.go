package web

// errors.go renders every error the same way:
//  1. the technical error is logged with the request id
//  2. core.MapError turns it into a message, an action and a code
//  3. the message is written as JSON, MessagePack or an HTML page, by
//     request type

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/fmcsa/internal/core"
	"github.com/JonMunkholm/fmcsa/internal/logging"
	"github.com/JonMunkholm/fmcsa/internal/table"
	"github.com/JonMunkholm/fmcsa/internal/web/templates"
)

// ErrorResponse is the API error body.
type ErrorResponse struct {
	Error   string `json:"error" msgpack:"error"`
	Message string `json:"message" msgpack:"message"`
	Action  string `json:"action,omitempty" msgpack:"action,omitempty"`
	Code    string `json:"code" msgpack:"code"`
}

// respondError logs err and writes a user-facing response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	// Errors without a known code are unexpected whatever the status.
	if statusCode >= http.StatusInternalServerError || !core.IsUserFacing(err) {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	if wantsData(r) {
		s.respondData(w, r, statusCode, ErrorResponse{
			Error:   userMsg.Message,
			Message: userMsg.Message,
			Action:  userMsg.Action,
			Code:    userMsg.Code,
		})
		return
	}
	s.respondErrorHTML(w, r, userMsg, statusCode)
}

// respondErrorHTML writes a full error page.
func (s *Server) respondErrorHTML(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := templates.ErrorPage(s.layout.Title, msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error page", "error", err)
	}
}

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	var schemaErr *core.SchemaError
	switch {
	case errors.Is(err, core.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, table.ErrPageSize):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrSourceUnavailable),
		errors.Is(err, core.ErrInvalidCSV),
		errors.As(err, &schemaErr):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// wantsData reports whether the client expects JSON or MessagePack rather
// than HTML.
func wantsData(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") || wantsMsgpack(r)
}
