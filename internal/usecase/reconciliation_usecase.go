package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/sarraf/internal/domain"
)

// ReconciliationUseCase verifies the core ledger invariant: every entry's
// balance equals the signed sum of the movements that reference it.
type ReconciliationUseCase struct {
	ledgerRepo   LedgerRepository
	movementRepo MovementRepository
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(ledgerRepo LedgerRepository, movementRepo MovementRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		ledgerRepo:   ledgerRepo,
		movementRepo: movementRepo,
	}
}

// ReconciliationReport summarizes a consistency check run.
type ReconciliationReport struct {
	Consistent    bool
	Discrepancies []EntryMismatch
	CheckedAt     time.Time
}

// CheckConsistency scans for entries whose balance diverges from their
// movement history. An empty discrepancy list means the ledger holds.
func (uc *ReconciliationUseCase) CheckConsistency(ctx context.Context) (*ReconciliationReport, error) {
	const maxReported = 100

	mismatches, err := uc.ledgerRepo.CheckConsistency(ctx, maxReported)
	if err != nil {
		return nil, err
	}

	return &ReconciliationReport{
		Consistent:    len(mismatches) == 0,
		Discrepancies: mismatches,
		CheckedAt:     time.Now().UTC(),
	}, nil
}

// ReconcileEntry recomputes one entry's balance from its movements.
func (uc *ReconciliationUseCase) ReconcileEntry(ctx context.Context, holder domain.Holder, currency string) (*EntryMismatch, error) {
	currency = domain.NormalizeCurrency(currency)

	entry, found, err := uc.ledgerRepo.Get(ctx, holder, currency)
	if err != nil {
		return nil, err
	}

	balance := decimal.Zero
	if found {
		balance = entry.Balance
	}

	sum, err := uc.movementRepo.SumSigned(ctx, holder, currency)
	if err != nil {
		return nil, err
	}

	if balance.Equal(sum) {
		return nil, nil
	}

	return &EntryMismatch{
		Holder:      holder,
		Currency:    currency,
		Balance:     balance,
		MovementSum: sum,
	}, nil
}
