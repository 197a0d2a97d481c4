// backend/internal/revision/handler.go
package revision

import (
	"encoding/json"
	"net/http"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List serves GET /api/revision. ?due=true narrows to topics due today.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var (
		items []Item
		err   error
	)
	if r.URL.Query().Get("due") == "true" {
		items, err = h.service.Due(r.Context())
	} else {
		items, err = h.service.List(r.Context())
	}
	if err != nil {
		http.Error(w, "Revision list unavailable", http.StatusServiceUnavailable)
		return
	}

	json.NewEncoder(w).Encode(items)
}
