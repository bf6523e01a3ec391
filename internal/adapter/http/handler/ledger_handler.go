package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/sarraf/internal/adapter/http/dto"
	"github.com/iho/sarraf/internal/domain"
	"github.com/iho/sarraf/internal/usecase"
)

// LedgerHandler handles balance and movement HTTP requests.
type LedgerHandler struct {
	mutationUC *usecase.MutationUseCase
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(mutationUC *usecase.MutationUseCase) *LedgerHandler {
	return &LedgerHandler{mutationUC: mutationUC}
}

// GetBalance returns the entry for a (holder, currency) pair. A pair that
// was never touched reads as zero.
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	holder, ok := holderFromURL(w, r)
	if !ok {
		return
	}

	currency := chi.URLParam(r, "currency")

	entry, err := h.mutationUC.GetBalance(r.Context(), holder, currency)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(entry))
}

// Mutate applies a single credit or debit.
func (h *LedgerHandler) Mutate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}

	var req dto.MutateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	movement, err := h.mutationUC.Mutate(r.Context(), req.ToUseCaseInput(actor))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.MovementFromDomain(movement))
}

// ListMovements lists movements for an entry, newest first.
func (h *LedgerHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	holder, ok := holderFromURL(w, r)
	if !ok {
		return
	}

	currency := chi.URLParam(r, "currency")
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	movements, err := h.mutationUC.ListMovements(r.Context(), holder, currency, limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementsFromDomain(movements))
}

// GetMovement returns a single movement by ID.
func (h *LedgerHandler) GetMovement(w http.ResponseWriter, r *http.Request) {
	movement, err := h.mutationUC.GetMovement(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementFromDomain(movement))
}

// Reverse applies a new movement opposite to an existing one.
func (h *LedgerHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}

	var req dto.ReverseRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	movement, err := h.mutationUC.Reverse(r.Context(), chi.URLParam(r, "id"), actor, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.MovementFromDomain(movement))
}

// holderFromURL reads the holder kind and ID from the route.
func holderFromURL(w http.ResponseWriter, r *http.Request) (domain.Holder, bool) {
	kind := domain.HolderKind(chi.URLParam(r, "holderKind"))
	if kind != domain.HolderAccount && kind != domain.HolderSubAccount {
		writeError(w, http.StatusBadRequest, "invalid holder kind", string(kind))
		return domain.Holder{}, false
	}

	id := chi.URLParam(r, "holderID")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing holder ID", "")
		return domain.Holder{}, false
	}

	return domain.Holder{Kind: kind, ID: id}, true
}
