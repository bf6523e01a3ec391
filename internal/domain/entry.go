package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// HolderKind discriminates between a primary account's own ledger and the
// ledger of a sub-account (customer or exchanger) it owns.
type HolderKind string

const (
	HolderAccount    HolderKind = "account"
	HolderSubAccount HolderKind = "subaccount"
)

// Holder identifies the owner of a ledger entry.
type Holder struct {
	Kind HolderKind
	ID   string
}

// Key returns a deterministic string key for the holder and currency.
// Orchestrators sort on it before acquiring row locks.
func (h Holder) Key(currency string) string {
	return fmt.Sprintf("%s:%s:%s", h.Kind, h.ID, currency)
}

// LedgerEntry is the running balance of one (holder, currency) pair.
// Balance may be negative; no floor is enforced anywhere in the mutation
// path. All writes go through the mutation use case.
type LedgerEntry struct {
	Holder        Holder
	Currency      string
	Balance       decimal.Decimal
	TotalCredits  decimal.Decimal
	TotalDebits   decimal.Decimal
	MovementCount int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewLedgerEntry returns a zeroed entry for a (holder, currency) pair.
// Entries are created lazily on first reference.
func NewLedgerEntry(holder Holder, currency string, now time.Time) *LedgerEntry {
	return &LedgerEntry{
		Holder:       holder,
		Currency:     currency,
		Balance:      decimal.Zero,
		TotalCredits: decimal.Zero,
		TotalDebits:  decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Net returns total credits minus total debits. For an entry that started
// at zero this equals Balance.
func (e *LedgerEntry) Net() decimal.Decimal {
	return e.TotalCredits.Sub(e.TotalDebits)
}
