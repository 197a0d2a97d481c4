// backend/internal/dashboard/handler.go
package dashboard

import (
	"encoding/json"
	"log"
	"net/http"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.service.Summary(r.Context())
	if err != nil {
		log.Printf("Error building dashboard: %v", err)
		http.Error(w, "Dashboard unavailable", http.StatusServiceUnavailable)
		return
	}
	json.NewEncoder(w).Encode(sum)
}
