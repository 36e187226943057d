package leads

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/evrodrive/leadgate/pkg/logging"
)

// csvColumns is the fixed export layout the sales team imports elsewhere.
var csvColumns = []string{"Created", "First Name", "Last Name", "Email", "Model", "Country", "Budget", "Language"}

// AdminHandler serves the internal lead listing and CSV export.
type AdminHandler struct {
	repo   Repository
	logger *logging.Logger
}

// NewAdminHandler creates a new admin leads handler
func NewAdminHandler(repo Repository, logger *logging.Logger) *AdminHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminHandler{
		repo:   repo,
		logger: logger,
	}
}

// ListLeadsResponse is the response for listing leads
type ListLeadsResponse struct {
	Leads []*Lead `json:"leads"`
	Count int     `json:"count"`
}

// ListLeads handles GET /admin/leads requests, newest first.
func (h *AdminHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.repo.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ListLeadsResponse{Leads: leads, Count: len(leads)})
}

// ExportCSV handles GET /admin/leads/export requests and streams the fixed
// column set as a downloadable CSV.
func (h *AdminHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	leads, err := h.repo.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to export leads", "error", err)
		http.Error(w, "failed to export leads", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="leads.csv"`)

	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		h.logger.Error("failed to write csv header", "error", err)
		return
	}
	for _, lead := range leads {
		budget := ""
		if lead.Budget != nil {
			budget = strconv.FormatFloat(*lead.Budget, 'f', -1, 64)
		}
		row := []string{
			lead.CreatedAt.UTC().Format(time.RFC3339),
			lead.FirstName,
			lead.LastName,
			lead.Email,
			lead.DisplayModel(),
			lead.Country,
			budget,
			lead.PreferredLanguage,
		}
		if err := cw.Write(row); err != nil {
			h.logger.Error("failed to write csv row", "error", err, "lead_id", lead.ID)
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.Error("csv export failed", "error", err)
	}
}
