package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/sarraf/internal/domain"
	"github.com/iho/sarraf/internal/infrastructure/metrics"
)

// SubAccountUseCase orchestrates customer/exchanger transactions. Every
// operation produces exactly two movements: one on the sub-account's entry
// and one mirrored on the owning account's entry for the same currency,
// with the sign pair fixed by the transaction kind.
type SubAccountUseCase struct {
	txManager   TransactionManager
	mutations   *MutationUseCase
	subAccounts SubAccountDirectory
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewSubAccountUseCase creates a new SubAccountUseCase.
func NewSubAccountUseCase(
	txManager TransactionManager,
	mutations *MutationUseCase,
	subAccounts SubAccountDirectory,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
) *SubAccountUseCase {
	return &SubAccountUseCase{
		txManager:   txManager,
		mutations:   mutations,
		subAccounts: subAccounts,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		metrics:     m,
	}
}

// SubTransactionInput represents one sub-account operation.
type SubTransactionInput struct {
	SubAccountID string
	Currency     string
	Amount       decimal.Decimal
	Kind         domain.SubTransactionKind
	Actor        domain.Actor
	Description  string
}

// SubTransactionResult is the committed pair of movements.
type SubTransactionResult struct {
	SubMovement   *domain.Movement
	OwnerMovement *domain.Movement
}

// Execute runs the transaction. Either both movements commit or neither
// does. Balances may go negative on either side; no floor exists.
func (uc *SubAccountUseCase) Execute(ctx context.Context, input SubTransactionInput) (*SubTransactionResult, error) {
	currency := domain.NormalizeCurrency(input.Currency)

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	subDirection, ownerDirection, err := input.Kind.Directions()
	if err != nil {
		return nil, err
	}

	sub, err := uc.subAccounts.GetSubAccount(ctx, input.SubAccountID)
	if err != nil {
		return nil, err
	}
	if !sub.Active {
		return nil, domain.ErrUnknownSubAccount
	}

	subHolder := domain.Holder{Kind: domain.HolderSubAccount, ID: sub.ID}
	ownerHolder := domain.Holder{Kind: domain.HolderAccount, ID: sub.OwnerAccountID}

	// The mirrored movement lands on the owner's own entry, so the owner
	// must exist and support the currency.
	if err := uc.mutations.resolveHolder(ctx, ownerHolder, currency); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.mutations.lockEntries(txCtx, tx, []entryKey{
		{Holder: subHolder, Currency: currency},
		{Holder: ownerHolder, Currency: currency},
	}); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	label := input.Kind.Label()

	subMovement, err := uc.mutations.applyInTx(txCtx, tx, now, MutateInput{
		Holder:      subHolder,
		Currency:    currency,
		Amount:      input.Amount,
		Direction:   subDirection,
		Label:       label,
		Actor:       input.Actor,
		Description: input.Description,
	})
	if err != nil {
		return nil, err
	}

	ownerMovement, err := uc.mutations.applyInTx(txCtx, tx, now, MutateInput{
		Holder:      ownerHolder,
		Currency:    currency,
		Amount:      input.Amount,
		Direction:   ownerDirection,
		Label:       label,
		Actor:       input.Actor,
		Description: fmt.Sprintf("mirror of sub-account %s %s", sub.ID, input.Kind),
	})
	if err != nil {
		return nil, err
	}

	if err := uc.emitEvent(txCtx, tx, input, sub, subMovement, ownerMovement, now); err != nil {
		return nil, err
	}

	uc.writeAudit(txCtx, tx, input, subMovement, now)

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.mutations.afterCommit(ctx, subMovement, ownerMovement)

	if uc.metrics != nil {
		uc.metrics.SubTransactions.WithLabelValues(string(input.Kind)).Inc()
	}

	return &SubTransactionResult{SubMovement: subMovement, OwnerMovement: ownerMovement}, nil
}

func (uc *SubAccountUseCase) emitEvent(
	ctx context.Context,
	tx Transaction,
	input SubTransactionInput,
	sub *domain.SubAccount,
	subMovement, ownerMovement *domain.Movement,
	now time.Time,
) error {
	if uc.outboxRepo == nil {
		return nil
	}

	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   subMovement.ID,
		AggregateType: domain.AggregateTypeMovement,
		EventType:     domain.EventTypeSubTransaction,
		Payload: map[string]any{
			"kind":              string(input.Kind),
			"subaccount_id":     sub.ID,
			"owner_account_id":  sub.OwnerAccountID,
			"currency":          subMovement.Currency,
			"amount":            input.Amount.String(),
			"sub_movement_id":   subMovement.ID,
			"owner_movement_id": ownerMovement.ID,
		},
		CreatedAt: now,
	})
}

func (uc *SubAccountUseCase) writeAudit(ctx context.Context, tx Transaction, input SubTransactionInput, subMovement *domain.Movement, now time.Time) {
	if uc.auditRepo == nil {
		return
	}

	_ = uc.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      input.Actor.ID,
		ActorName:    input.Actor.Name,
		ActorRole:    input.Actor.Role,
		Action:       string(domain.AuditActionSubTransaction),
		ResourceType: domain.AggregateTypeMovement,
		ResourceID:   subMovement.ID,
		AfterState:   domain.MarshalState(subMovement),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	})
}
