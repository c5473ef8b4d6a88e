package triage

import (
	"encoding/json"
	"net/http"

	"github.com/deskroute/deskroute/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// Handler handles HTTP requests for the triage module.
type Handler struct{}

// NewHandler creates a new triage handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes registers triage routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/classify_ticket", h.ClassifyTicket)
}

// ClassifyRequest represents the classification request body.
type ClassifyRequest struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// ClassifyResponse represents the classification response body.
type ClassifyResponse struct {
	Department Department `json:"department"`
	Confidence float64    `json:"confidence"`
}

// ClassifyTicket handles POST /classify_ticket.
func (h *Handler) ClassifyTicket(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	result := Classify(req.Subject, req.Description)
	recordClassification(result.Department)

	httputil.JSON(w, http.StatusOK, ClassifyResponse{
		Department: result.Department,
		Confidence: result.Confidence,
	})
}
