package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// HawalaKind distinguishes the sending and receiving leg of a transfer.
type HawalaKind string

const (
	HawalaSend    HawalaKind = "send"
	HawalaReceive HawalaKind = "receive"
)

// Hawala is the business record of one money-transfer leg. On send the
// office collects cash from the sender (a credit on its own ledger); on
// receive it pays cash out (a debit).
type Hawala struct {
	ID           string
	Reference    string
	Kind         HawalaKind
	AccountID    string
	Currency     string
	Amount       decimal.Decimal
	SenderName   string
	ReceiverName string
	MovementID   string
	CreatedAt    time.Time
}
