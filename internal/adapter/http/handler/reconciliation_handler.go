package handler

import (
	"net/http"

	"github.com/iho/sarraf/internal/adapter/http/dto"
	"github.com/iho/sarraf/internal/usecase"
)

// ReconciliationHandler handles consistency check HTTP requests.
type ReconciliationHandler struct {
	reconciliationUC *usecase.ReconciliationUseCase
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciliationUC *usecase.ReconciliationUseCase) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationUC: reconciliationUC}
}

// CheckConsistency scans for entries whose balance diverges from their
// movement history.
func (h *ReconciliationHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.CheckConsistency(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromReport(report))
}
