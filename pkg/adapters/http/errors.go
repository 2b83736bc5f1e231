package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/aretw0/cnftree/pkg/domain"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error *domain.RemoteError `json:"error"`
}

func invalidRequest(format string, args ...any) *domain.RemoteError {
	return &domain.RemoteError{Kind: domain.KindInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

// StatusFor maps a transformation error onto an HTTP status code.
func StatusFor(err error) int {
	switch domain.Kind(err) {
	case domain.KindSyntax, domain.KindCyclicInclude:
		return http.StatusUnprocessableEntity
	case domain.KindIO:
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return http.StatusNotFound
		case errors.Is(err, fs.ErrPermission):
			return http.StatusForbidden
		}
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, re *domain.RemoteError) {
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "status", status, "kind", re.Kind, "error", re.Message)
	} else {
		s.logger.WarnContext(r.Context(), "request rejected", "status", status, "kind", re.Kind, "error", re.Message)
	}
	if err := writeJSON(w, status, ErrorResponse{Error: re}); err != nil {
		s.logger.ErrorContext(r.Context(), "error response encode failed", "error", err)
	}
}
