package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/sarraf/internal/adapter/http/dto"
	"github.com/iho/sarraf/internal/usecase"
)

// HawalaHandler handles money transfer HTTP requests.
type HawalaHandler struct {
	hawalaUC *usecase.HawalaUseCase
}

// NewHawalaHandler creates a new HawalaHandler.
func NewHawalaHandler(hawalaUC *usecase.HawalaUseCase) *HawalaHandler {
	return &HawalaHandler{hawalaUC: hawalaUC}
}

// Send records an outgoing transfer.
func (h *HawalaHandler) Send(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, h.hawalaUC.Send)
}

// Receive records an incoming transfer payout.
func (h *HawalaHandler) Receive(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, h.hawalaUC.Receive)
}

func (h *HawalaHandler) execute(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, input usecase.HawalaInput) (*usecase.HawalaResult, error),
) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}

	var req dto.HawalaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := op(r.Context(), req.ToUseCaseInput(actor))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.HawalaFromDomain(result.Hawala, result.Movement))
}

// GetByReference retrieves a hawala by its transfer reference.
func (h *HawalaHandler) GetByReference(w http.ResponseWriter, r *http.Request) {
	hawala, err := h.hawalaUC.GetByReference(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.HawalaFromDomain(hawala, nil))
}

// ListByAccount lists hawalas for an account, newest first.
func (h *HawalaHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	hawalas, err := h.hawalaUC.ListByAccount(r.Context(), accountID, limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.HawalasFromDomain(hawalas))
}
