package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/sarraf/internal/domain"
	"github.com/iho/sarraf/internal/usecase"
)

// MutateRequest represents a single credit or debit.
type MutateRequest struct {
	HolderKind  string          `json:"holder_kind"`
	HolderID    string          `json:"holder_id"`
	Currency    string          `json:"currency"`
	Amount      decimal.Decimal `json:"amount"`
	Direction   string          `json:"direction"`
	Label       string          `json:"label"`
	Description string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *MutateRequest) ToUseCaseInput(actor domain.Actor) usecase.MutateInput {
	return usecase.MutateInput{
		Holder: domain.Holder{
			Kind: domain.HolderKind(r.HolderKind),
			ID:   r.HolderID,
		},
		Currency:    r.Currency,
		Amount:      r.Amount,
		Direction:   domain.Direction(r.Direction),
		Label:       domain.Label(r.Label),
		Actor:       actor,
		Description: r.Description,
	}
}

// ReverseRequest represents a reversal of an existing movement.
type ReverseRequest struct {
	Description string `json:"description,omitempty"`
}

// ExchangeRequest represents a currency trade.
type ExchangeRequest struct {
	AccountID    string          `json:"account_id"`
	SubAccountID *string         `json:"subaccount_id,omitempty"`
	SellCurrency string          `json:"sell_currency"`
	SellAmount   decimal.Decimal `json:"sell_amount"`
	BuyCurrency  string          `json:"buy_currency"`
	BuyAmount    decimal.Decimal `json:"buy_amount"`
	Description  string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ExchangeRequest) ToUseCaseInput(actor domain.Actor) usecase.ExchangeInput {
	return usecase.ExchangeInput{
		AccountID:    r.AccountID,
		SubAccountID: r.SubAccountID,
		SellCurrency: r.SellCurrency,
		SellAmount:   r.SellAmount,
		BuyCurrency:  r.BuyCurrency,
		BuyAmount:    r.BuyAmount,
		Actor:        actor,
		Description:  r.Description,
	}
}

// HawalaRequest represents one transfer leg.
type HawalaRequest struct {
	AccountID    string          `json:"account_id"`
	Currency     string          `json:"currency"`
	Amount       decimal.Decimal `json:"amount"`
	SenderName   string          `json:"sender_name,omitempty"`
	ReceiverName string          `json:"receiver_name,omitempty"`
	Reference    string          `json:"reference,omitempty"`
	Description  string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *HawalaRequest) ToUseCaseInput(actor domain.Actor) usecase.HawalaInput {
	return usecase.HawalaInput{
		AccountID:    r.AccountID,
		Currency:     r.Currency,
		Amount:       r.Amount,
		SenderName:   r.SenderName,
		ReceiverName: r.ReceiverName,
		Reference:    r.Reference,
		Actor:        actor,
		Description:  r.Description,
	}
}

// SubTransactionRequest represents a sub-account operation with its mirrored
// owner effect.
type SubTransactionRequest struct {
	SubAccountID string          `json:"subaccount_id"`
	Currency     string          `json:"currency"`
	Amount       decimal.Decimal `json:"amount"`
	Kind         string          `json:"kind"`
	Description  string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SubTransactionRequest) ToUseCaseInput(actor domain.Actor) usecase.SubTransactionInput {
	return usecase.SubTransactionInput{
		SubAccountID: r.SubAccountID,
		Currency:     r.Currency,
		Amount:       r.Amount,
		Kind:         domain.SubTransactionKind(r.Kind),
		Actor:        actor,
		Description:  r.Description,
	}
}

// ClaimCodeRequest represents an activation code claim.
type ClaimCodeRequest struct {
	Code      string `json:"code"`
	AccountID string `json:"account_id"`
}
