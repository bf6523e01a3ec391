package domain

import "time"

// SubAccountKind distinguishes customer and exchanger sub-accounts. Both
// behave identically in the ledger.
type SubAccountKind string

const (
	SubAccountCustomer  SubAccountKind = "customer"
	SubAccountExchanger SubAccountKind = "exchanger"
)

// SubAccount is a customer or exchanger ledger created and owned by a
// primary account. Its entries mirror effects onto the owner's entries.
type SubAccount struct {
	ID             string
	OwnerAccountID string
	Kind           SubAccountKind
	Name           string
	Active         bool
	CreatedAt      time.Time
}

// Account is the directory view of a primary account. The ledger never
// creates accounts; it only resolves them.
type Account struct {
	ID     string
	Name   string
	Active bool
}

// SubTransactionKind is the closed set of sub-account operations. Each kind
// fixes both the sub-account direction and the mirrored owner direction.
type SubTransactionKind string

const (
	SubTransactionDeposit    SubTransactionKind = "deposit"
	SubTransactionWithdrawal SubTransactionKind = "withdrawal"
	SubTransactionTakeMoney  SubTransactionKind = "take_money"
	SubTransactionGiveMoney  SubTransactionKind = "give_money"
)

// Directions returns the (sub-account, owner) direction pair for the kind.
//
// The owner's balance is its own cash position. For deposit/give-money the
// owner is credited alongside the sub-account; for withdrawal the owner is
// debited alongside it; take-money debits the sub-account while crediting
// the owner. This table is the contract; do not rederive it from intuition.
func (k SubTransactionKind) Directions() (sub, owner Direction, err error) {
	switch k {
	case SubTransactionDeposit, SubTransactionGiveMoney:
		return DirectionCredit, DirectionCredit, nil
	case SubTransactionWithdrawal:
		return DirectionDebit, DirectionDebit, nil
	case SubTransactionTakeMoney:
		return DirectionDebit, DirectionCredit, nil
	default:
		return "", "", ErrUnknownTransactionKind
	}
}

// Label returns the movement label recorded for the kind.
func (k SubTransactionKind) Label() Label {
	switch k {
	case SubTransactionDeposit:
		return LabelSubAccountDeposit
	case SubTransactionWithdrawal:
		return LabelSubAccountWithdrawal
	case SubTransactionTakeMoney:
		return LabelTakeMoney
	default:
		return LabelGiveMoney
	}
}
