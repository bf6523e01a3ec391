package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/sarraf/internal/domain"
	"github.com/iho/sarraf/internal/usecase"
)

// BalanceResponse represents a ledger entry in API responses.
type BalanceResponse struct {
	HolderKind    string          `json:"holder_kind"`
	HolderID      string          `json:"holder_id"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	TotalCredits  decimal.Decimal `json:"total_credits"`
	TotalDebits   decimal.Decimal `json:"total_debits"`
	MovementCount int64           `json:"movement_count"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BalanceFromDomain converts a ledger entry to a response.
func BalanceFromDomain(e *domain.LedgerEntry) *BalanceResponse {
	return &BalanceResponse{
		HolderKind:    string(e.Holder.Kind),
		HolderID:      e.Holder.ID,
		Currency:      e.Currency,
		Balance:       e.Balance,
		TotalCredits:  e.TotalCredits,
		TotalDebits:   e.TotalDebits,
		MovementCount: e.MovementCount,
		UpdatedAt:     e.UpdatedAt,
	}
}

// MovementResponse represents a movement in API responses.
type MovementResponse struct {
	ID            string          `json:"id"`
	HolderKind    string          `json:"holder_kind"`
	HolderID      string          `json:"holder_id"`
	Currency      string          `json:"currency"`
	Label         string          `json:"label"`
	Direction     string          `json:"direction"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	ActorID       string          `json:"actor_id"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// MovementFromDomain converts a movement to a response.
func MovementFromDomain(m *domain.Movement) *MovementResponse {
	return &MovementResponse{
		ID:            m.ID,
		HolderKind:    string(m.Holder.Kind),
		HolderID:      m.Holder.ID,
		Currency:      m.Currency,
		Label:         string(m.Label),
		Direction:     string(m.Direction),
		Amount:        m.Amount,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		ActorID:       m.Actor.ID,
		Description:   m.Description,
		CreatedAt:     m.CreatedAt,
	}
}

// MovementsFromDomain converts movements to responses.
func MovementsFromDomain(movements []*domain.Movement) []*MovementResponse {
	result := make([]*MovementResponse, len(movements))
	for i, m := range movements {
		result[i] = MovementFromDomain(m)
	}
	return result
}

// ExchangeResponse represents a committed trade.
type ExchangeResponse struct {
	ID           string              `json:"id"`
	AccountID    string              `json:"account_id"`
	SubAccountID *string             `json:"subaccount_id,omitempty"`
	SellCurrency string              `json:"sell_currency"`
	SellAmount   decimal.Decimal     `json:"sell_amount"`
	BuyCurrency  string              `json:"buy_currency"`
	BuyAmount    decimal.Decimal     `json:"buy_amount"`
	CreatedAt    time.Time           `json:"created_at"`
	Movements    []*MovementResponse `json:"movements,omitempty"`
}

// ExchangeFromDomain converts an exchange to a response.
func ExchangeFromDomain(e *domain.Exchange, movements []*domain.Movement) *ExchangeResponse {
	return &ExchangeResponse{
		ID:           e.ID,
		AccountID:    e.AccountID,
		SubAccountID: e.SubAccountID,
		SellCurrency: e.SellCurrency,
		SellAmount:   e.SellAmount,
		BuyCurrency:  e.BuyCurrency,
		BuyAmount:    e.BuyAmount,
		CreatedAt:    e.CreatedAt,
		Movements:    MovementsFromDomain(movements),
	}
}

// ExchangesFromDomain converts exchanges to responses.
func ExchangesFromDomain(exchanges []*domain.Exchange) []*ExchangeResponse {
	result := make([]*ExchangeResponse, len(exchanges))
	for i, e := range exchanges {
		result[i] = ExchangeFromDomain(e, nil)
	}
	return result
}

// HawalaResponse represents a committed transfer leg.
type HawalaResponse struct {
	ID           string            `json:"id"`
	Reference    string            `json:"reference"`
	Kind         string            `json:"kind"`
	AccountID    string            `json:"account_id"`
	Currency     string            `json:"currency"`
	Amount       decimal.Decimal   `json:"amount"`
	SenderName   string            `json:"sender_name,omitempty"`
	ReceiverName string            `json:"receiver_name,omitempty"`
	MovementID   string            `json:"movement_id"`
	CreatedAt    time.Time         `json:"created_at"`
	Movement     *MovementResponse `json:"movement,omitempty"`
}

// HawalaFromDomain converts a hawala to a response.
func HawalaFromDomain(h *domain.Hawala, movement *domain.Movement) *HawalaResponse {
	resp := &HawalaResponse{
		ID:           h.ID,
		Reference:    h.Reference,
		Kind:         string(h.Kind),
		AccountID:    h.AccountID,
		Currency:     h.Currency,
		Amount:       h.Amount,
		SenderName:   h.SenderName,
		ReceiverName: h.ReceiverName,
		MovementID:   h.MovementID,
		CreatedAt:    h.CreatedAt,
	}
	if movement != nil {
		resp.Movement = MovementFromDomain(movement)
	}
	return resp
}

// HawalasFromDomain converts hawalas to responses.
func HawalasFromDomain(hawalas []*domain.Hawala) []*HawalaResponse {
	result := make([]*HawalaResponse, len(hawalas))
	for i, h := range hawalas {
		result[i] = HawalaFromDomain(h, nil)
	}
	return result
}

// SubTransactionResponse represents the committed pair of movements.
type SubTransactionResponse struct {
	SubMovement   *MovementResponse `json:"sub_movement"`
	OwnerMovement *MovementResponse `json:"owner_movement"`
}

// ClaimCodeResponse represents an activation code state after a claim.
type ClaimCodeResponse struct {
	Code   string     `json:"code"`
	IsUsed bool       `json:"is_used"`
	UsedBy *string    `json:"used_by,omitempty"`
	UsedAt *time.Time `json:"used_at,omitempty"`
}

// ClaimCodeFromDomain converts an activation code to a response.
func ClaimCodeFromDomain(c *domain.ActivationCode) *ClaimCodeResponse {
	return &ClaimCodeResponse{
		Code:   c.Code,
		IsUsed: c.IsUsed,
		UsedBy: c.UsedBy,
		UsedAt: c.UsedAt,
	}
}

// MismatchResponse represents one inconsistent entry.
type MismatchResponse struct {
	HolderKind  string          `json:"holder_kind"`
	HolderID    string          `json:"holder_id"`
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
	MovementSum decimal.Decimal `json:"movement_sum"`
}

// ConsistencyResponse represents a consistency check report.
type ConsistencyResponse struct {
	Consistent    bool                `json:"consistent"`
	Discrepancies []*MismatchResponse `json:"discrepancies"`
	CheckedAt     time.Time           `json:"checked_at"`
}

// ConsistencyFromReport converts a reconciliation report to a response.
func ConsistencyFromReport(report *usecase.ReconciliationReport) *ConsistencyResponse {
	discrepancies := make([]*MismatchResponse, len(report.Discrepancies))
	for i, d := range report.Discrepancies {
		discrepancies[i] = &MismatchResponse{
			HolderKind:  string(d.Holder.Kind),
			HolderID:    d.Holder.ID,
			Currency:    d.Currency,
			Balance:     d.Balance,
			MovementSum: d.MovementSum,
		}
	}

	return &ConsistencyResponse{
		Consistent:    report.Consistent,
		Discrepancies: discrepancies,
		CheckedAt:     report.CheckedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
