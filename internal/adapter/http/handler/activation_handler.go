package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iho/sarraf/internal/adapter/http/dto"
	"github.com/iho/sarraf/internal/domain"
	"github.com/iho/sarraf/internal/usecase"
)

// ActivationHandler handles activation code HTTP requests.
type ActivationHandler struct {
	activationUC *usecase.ActivationUseCase
}

// NewActivationHandler creates a new ActivationHandler.
func NewActivationHandler(activationUC *usecase.ActivationUseCase) *ActivationHandler {
	return &ActivationHandler{activationUC: activationUC}
}

// Claim claims a one-time activation code for an account. A losing racer
// gets 409 with the code's current state so the caller can see who won.
func (h *ActivationHandler) Claim(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorOrFail(w, r); !ok {
		return
	}

	var req dto.ClaimCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	code, err := h.activationUC.ClaimCode(r.Context(), req.Code, req.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyClaimed) && code != nil {
			writeJSON(w, http.StatusConflict, dto.ClaimCodeFromDomain(code))
			return
		}

		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ClaimCodeFromDomain(code))
}
