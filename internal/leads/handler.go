package leads

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/evrodrive/leadgate/internal/observability/metrics"
	"github.com/evrodrive/leadgate/pkg/logging"
)

// Handler handles HTTP requests for lead submission
type Handler struct {
	service *Service
	metrics *metrics.LeadMetrics
	logger  *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(service *Service, m *metrics.LeadMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

// SubmitResponse is the success body for a submission.
type SubmitResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

// ErrorResponse carries a user-displayable error message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SubmitLead handles POST /leads requests.
//
// Anything other than POST gets a plain-text 405; validation, verification
// and persistence failures all collapse into a 400 with the error message in
// the body, which is what the form displays.
func (h *Handler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		h.metrics.ObserveSubmission("method_not_allowed", time.Since(start).Seconds())
		return
	}

	var req SubmitLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode submission", "error", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		h.metrics.ObserveSubmission("bad_request", time.Since(start).Seconds())
		return
	}

	lead, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		h.metrics.ObserveSubmission("rejected", time.Since(start).Seconds())
		return
	}

	writeJSON(w, http.StatusOK, SubmitResponse{OK: true, ID: lead.ID})
	h.metrics.ObserveSubmission("accepted", time.Since(start).Seconds())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
