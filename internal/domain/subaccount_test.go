package domain

import (
	"errors"
	"testing"
)

func TestSubTransactionKindDirections(t *testing.T) {
	tests := []struct {
		kind      SubTransactionKind
		wantSub   Direction
		wantOwner Direction
	}{
		{SubTransactionDeposit, DirectionCredit, DirectionCredit},
		{SubTransactionGiveMoney, DirectionCredit, DirectionCredit},
		{SubTransactionWithdrawal, DirectionDebit, DirectionDebit},
		{SubTransactionTakeMoney, DirectionDebit, DirectionCredit},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			sub, owner, err := tt.kind.Directions()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sub != tt.wantSub {
				t.Errorf("sub direction: expected %s, got %s", tt.wantSub, sub)
			}
			if owner != tt.wantOwner {
				t.Errorf("owner direction: expected %s, got %s", tt.wantOwner, owner)
			}
		})
	}
}

func TestSubTransactionKindDirectionsUnknown(t *testing.T) {
	_, _, err := SubTransactionKind("loan").Directions()
	if !errors.Is(err, ErrUnknownTransactionKind) {
		t.Fatalf("expected ErrUnknownTransactionKind, got %v", err)
	}
}

func TestSubTransactionKindLabel(t *testing.T) {
	tests := []struct {
		kind SubTransactionKind
		want Label
	}{
		{SubTransactionDeposit, LabelSubAccountDeposit},
		{SubTransactionWithdrawal, LabelSubAccountWithdrawal},
		{SubTransactionTakeMoney, LabelTakeMoney},
		{SubTransactionGiveMoney, LabelGiveMoney},
	}

	for _, tt := range tests {
		if got := tt.kind.Label(); got != tt.want {
			t.Errorf("%s: expected label %s, got %s", tt.kind, tt.want, got)
		}
	}
}
