package domain

import "time"

// Event types
const (
	EventTypeMovementApplied  = "movement.applied"
	EventTypeMovementReversed = "movement.reversed"
	EventTypeExchangeExecuted = "exchange.executed"
	EventTypeHawalaSent       = "hawala.sent"
	EventTypeHawalaReceived   = "hawala.received"
	EventTypeSubTransaction   = "subaccount.transaction"
	EventTypeCodeClaimed      = "code.claimed"
)

// Aggregate types
const (
	AggregateTypeMovement = "movement"
	AggregateTypeExchange = "exchange"
	AggregateTypeHawala   = "hawala"
	AggregateTypeCode     = "activation_code"
)

// OutboxEvent is an event written in the same transaction as the state it
// describes. A dispatcher outside the ledger core drains unpublished rows;
// the core itself runs no background workers.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// MovementAppliedEvent payload
type MovementAppliedEvent struct {
	MovementID    string `json:"movement_id"`
	HolderKind    string `json:"holder_kind"`
	HolderID      string `json:"holder_id"`
	Currency      string `json:"currency"`
	Direction     string `json:"direction"`
	Amount        string `json:"amount"`
	BalanceAfter  string `json:"balance_after"`
	BalanceBefore string `json:"balance_before"`
}

// ExchangeExecutedEvent payload
type ExchangeExecutedEvent struct {
	ExchangeID   string  `json:"exchange_id"`
	AccountID    string  `json:"account_id"`
	SubAccountID *string `json:"subaccount_id,omitempty"`
	SellCurrency string  `json:"sell_currency"`
	SellAmount   string  `json:"sell_amount"`
	BuyCurrency  string  `json:"buy_currency"`
	BuyAmount    string  `json:"buy_amount"`
}

// HawalaEvent payload (sent and received)
type HawalaEvent struct {
	HawalaID  string `json:"hawala_id"`
	Reference string `json:"reference"`
	AccountID string `json:"account_id"`
	Currency  string `json:"currency"`
	Amount    string `json:"amount"`
}

// CodeClaimedEvent payload
type CodeClaimedEvent struct {
	Code      string `json:"code"`
	ClaimedBy string `json:"claimed_by"`
}
