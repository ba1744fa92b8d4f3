package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"finoffice-backend/internal/repositories"
	"finoffice-backend/internal/services"

	"github.com/gorilla/mux"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

// EmployeeReport returns an employee's pipeline summary, as JSON or as a PDF
// when ?format=pdf is given.
func (h *ReportHandler) EmployeeReport(w http.ResponseWriter, r *http.Request) {
	employeeID := mux.Vars(r)["employeeId"]
	if !canActOn(r, employeeID) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	report, err := h.Service.EmployeeReport(context.Background(), employeeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			http.Error(w, "Employee not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to build report", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "pdf" {
		pdf, err := h.Service.GeneratePDF(report)
		if err != nil {
			http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=report_%s.pdf", employeeID))
		w.Write(pdf)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}
