// internal/render/renderer.go

// Package render provides the default terminal response renderer for
// authentication failures.
package render

import (
	"encoding/json"
	"net/http"

	"authgate/internal/auth"
	"authgate/internal/observability/logging"
)

// errorBody is the wire format of a rendered failure
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

// JSONRenderer renders auth failures as JSON responses
type JSONRenderer struct {
	logger *logging.Logger
}

// NewJSONRenderer creates a new JSON renderer
func NewJSONRenderer(logger *logging.Logger) *JSONRenderer {
	return &JSONRenderer{
		logger: logger.WithModule("render"),
	}
}

// Render implements auth.ErrorRenderer. It writes a terminal response and
// does not invoke any further handler.
func (jr *JSONRenderer) Render(w http.ResponseWriter, r *http.Request, authErr *auth.Error) {
	body := errorBody{
		Error:   string(authErr.Kind),
		Message: authErr.Message,
		Path:    r.URL.Path,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(authErr.Status())
	if err := json.NewEncoder(w).Encode(body); err != nil {
		jr.logger.Error("Failed to write error response", logging.Err(err))
	}
}
