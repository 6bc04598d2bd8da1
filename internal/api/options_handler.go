package api

import (
	"net/http"

	"github.com/styleshift/styleshift-api/internal/api/shared"
	"github.com/styleshift/styleshift-api/internal/domain"
)

// OptionsHandler serves the built-in style preset catalogue.
type OptionsHandler struct{}

// NewOptionsHandler creates an OptionsHandler.
func NewOptionsHandler() *OptionsHandler {
	return &OptionsHandler{}
}

// Options handles GET /api/options requests. An optional category query
// parameter narrows the catalogue to one group.
func (h *OptionsHandler) Options(w http.ResponseWriter, r *http.Request) {
	options := domain.StyleOptions
	if category := r.URL.Query().Get("category"); category != "" {
		options = domain.StyleOptionsByCategory(domain.StyleCategory(category))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, options)
}
