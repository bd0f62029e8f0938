package http

import (
	"errors"
	"net/http"
	"strings"

	"entrepreedge/internal/core"
	"entrepreedge/internal/log"
	"entrepreedge/internal/middleware/trace"
	"entrepreedge/internal/ports"
	"entrepreedge/internal/segments"
	"entrepreedge/internal/services"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case core.IsValidationError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ports.ErrNotFound), errors.Is(err, segments.ErrUnknownSegment):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAsyncUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the status for err. Server errors are logged and
// their details hidden from the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	message := err.Error()
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		s.structured.LogError(r.Context(), "Request failed", err, op,
			log.NewFields().WithRequestID(trace.GetRequestID(r.Context())).WithHTTPRequest(r.Method, r.URL.Path, "", "", ""))
		message = "internal error"
	} else {
		message = strings.TrimPrefix(message, errBadRequest.Error()+": ")
	}
	ErrorResponse(status, message).RequestID(trace.GetRequestID(r.Context())).Write(w)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	NewJSONResponse().Status(status).Body(body).Write(w)
}
