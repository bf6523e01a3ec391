package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/sarraf/internal/adapter/http/dto"
	"github.com/iho/sarraf/internal/usecase"
)

// ExchangeHandler handles currency exchange HTTP requests.
type ExchangeHandler struct {
	exchangeUC *usecase.ExchangeUseCase
}

// NewExchangeHandler creates a new ExchangeHandler.
func NewExchangeHandler(exchangeUC *usecase.ExchangeUseCase) *ExchangeHandler {
	return &ExchangeHandler{exchangeUC: exchangeUC}
}

// Execute runs a currency trade.
func (h *ExchangeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}

	var req dto.ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.exchangeUC.Execute(r.Context(), req.ToUseCaseInput(actor))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ExchangeFromDomain(result.Exchange, result.Movements))
}

// Get retrieves an exchange by ID.
func (h *ExchangeHandler) Get(w http.ResponseWriter, r *http.Request) {
	exchange, err := h.exchangeUC.GetExchange(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ExchangeFromDomain(exchange, nil))
}

// ListByAccount lists exchanges for an account, newest first.
func (h *ExchangeHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	exchanges, err := h.exchangeUC.ListExchangesByAccount(r.Context(), accountID, limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ExchangesFromDomain(exchanges))
}
