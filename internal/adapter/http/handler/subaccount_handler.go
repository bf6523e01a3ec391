package handler

import (
	"encoding/json"
	"net/http"

	"github.com/iho/sarraf/internal/adapter/http/dto"
	"github.com/iho/sarraf/internal/usecase"
)

// SubAccountHandler handles sub-account transaction HTTP requests.
type SubAccountHandler struct {
	subAccountUC *usecase.SubAccountUseCase
}

// NewSubAccountHandler creates a new SubAccountHandler.
func NewSubAccountHandler(subAccountUC *usecase.SubAccountUseCase) *SubAccountHandler {
	return &SubAccountHandler{subAccountUC: subAccountUC}
}

// Execute runs a sub-account transaction with its mirrored owner effect.
func (h *SubAccountHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}

	var req dto.SubTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.subAccountUC.Execute(r.Context(), req.ToUseCaseInput(actor))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, &dto.SubTransactionResponse{
		SubMovement:   dto.MovementFromDomain(result.SubMovement),
		OwnerMovement: dto.MovementFromDomain(result.OwnerMovement),
	})
}
