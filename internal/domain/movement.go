package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the sign of a movement. The ledger only cares about sign;
// the richer business label is stored for display.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// Sign returns +1 for credit and -1 for debit.
func (d Direction) Sign() decimal.Decimal {
	if d == DirectionDebit {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// Valid reports whether the direction is one of the two known values.
func (d Direction) Valid() bool {
	return d == DirectionCredit || d == DirectionDebit
}

// Label is the closed set of business operations that produce movements.
type Label string

const (
	LabelDeposit              Label = "deposit"
	LabelWithdrawal           Label = "withdrawal"
	LabelExchangeSell         Label = "exchange_sell"
	LabelExchangeBuy          Label = "exchange_buy"
	LabelHawalaSend           Label = "hawala_send"
	LabelHawalaReceive        Label = "hawala_receive"
	LabelSubAccountDeposit    Label = "subaccount_deposit"
	LabelSubAccountWithdrawal Label = "subaccount_withdrawal"
	LabelTakeMoney            Label = "take_money"
	LabelGiveMoney            Label = "give_money"
	LabelReversal             Label = "reversal"
)

// Valid reports whether the label belongs to the closed set.
func (l Label) Valid() bool {
	switch l {
	case LabelDeposit, LabelWithdrawal, LabelExchangeSell, LabelExchangeBuy,
		LabelHawalaSend, LabelHawalaReceive, LabelSubAccountDeposit,
		LabelSubAccountWithdrawal, LabelTakeMoney, LabelGiveMoney, LabelReversal:
		return true
	}
	return false
}

// ActorRole tags who performed a movement.
type ActorRole string

const (
	RoleOwner    ActorRole = "owner"
	RoleEmployee ActorRole = "employee"
	RoleSystem   ActorRole = "system"
)

// Actor identifies who caused a movement: the account owner or a named
// delegate. Resolved by the caller; the ledger only stamps it.
type Actor struct {
	ID   string
	Name string
	Role ActorRole
}

// SystemActor is stamped on movements with no resolved caller, such as
// administrative reversals issued from the CLI.
var SystemActor = Actor{ID: "system", Name: "system", Role: RoleSystem}

// Movement is one immutable debit or credit applied to a ledger entry,
// with before/after balance snapshots.
type Movement struct {
	ID            string
	Holder        Holder
	Currency      string
	Label         Label
	Direction     Direction
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Actor         Actor
	Description   string
	CreatedAt     time.Time
}

// SignedAmount returns the amount with the direction's sign applied.
func (m *Movement) SignedAmount() decimal.Decimal {
	return m.Amount.Mul(m.Direction.Sign())
}

// CheckSnapshot verifies balance_after == balance_before + signed amount.
func (m *Movement) CheckSnapshot() error {
	expected := m.BalanceBefore.Add(m.SignedAmount())
	if !m.BalanceAfter.Equal(expected) {
		return fmt.Errorf("%w: movement %s: before %s %s %s != after %s",
			ErrInconsistentSnapshot, m.ID, m.BalanceBefore, m.Direction, m.Amount, m.BalanceAfter)
	}
	return nil
}
