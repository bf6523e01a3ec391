package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Exchange is the business record of one currency trade. SubAccountID is
// nil for a walk-in person trade; set when the counterparty is a customer
// or exchanger sub-account, in which case the trade is mirrored on the
// sub-account's own ledger.
type Exchange struct {
	ID           string
	AccountID    string
	SubAccountID *string
	SellCurrency string
	SellAmount   decimal.Decimal
	BuyCurrency  string
	BuyAmount    decimal.Decimal
	CreatedAt    time.Time
}

// Validate checks the trade shape. Amounts and the exchange rate they imply
// are supplied by the caller and assumed already priced.
func (e *Exchange) Validate() error {
	if NormalizeCurrency(e.SellCurrency) == NormalizeCurrency(e.BuyCurrency) {
		return ErrSameCurrency
	}

	if err := ValidateAmount(e.SellAmount); err != nil {
		return err
	}

	return ValidateAmount(e.BuyAmount)
}
