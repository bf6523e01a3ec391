package usecase

import (
	"context"
	"time"

	"github.com/iho/sarraf/internal/domain"
	"github.com/iho/sarraf/internal/infrastructure/metrics"
)

// ActivationUseCase claims one-time registration codes. The claim is a
// conditional update whose affected-row count decides the winner; a naive
// read-then-write here would let two callers both see the code unused.
type ActivationUseCase struct {
	txManager  TransactionManager
	codeRepo   CodeRepository
	accounts   AccountDirectory
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewActivationUseCase creates a new ActivationUseCase.
func NewActivationUseCase(
	txManager TransactionManager,
	codeRepo CodeRepository,
	accounts AccountDirectory,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
) *ActivationUseCase {
	return &ActivationUseCase{
		txManager:  txManager,
		codeRepo:   codeRepo,
		accounts:   accounts,
		outboxRepo: outboxRepo,
		auditRepo:  auditRepo,
		idGen:      idGen,
		metrics:    m,
	}
}

// ClaimCode marks a code used by the claimant. At most one caller ever
// succeeds for a given code; losers get ErrAlreadyClaimed together with the
// current state of the code so they can name the holder.
func (uc *ActivationUseCase) ClaimCode(ctx context.Context, code, accountID string) (*domain.ActivationCode, error) {
	if err := domain.ValidateCode(code); err != nil {
		return nil, err
	}

	account, err := uc.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.Active {
		return nil, domain.ErrUnknownAccount
	}

	// Existence check before the conditional update so an unknown code is
	// distinguishable from a lost race.
	if _, err := uc.codeRepo.GetByCode(ctx, code); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()

	claimed, err := uc.codeRepo.Claim(txCtx, tx, code, accountID, now)
	if err != nil {
		return nil, err
	}

	if !claimed {
		if uc.metrics != nil {
			uc.metrics.ClaimConflicts.Inc()
		}

		current, err := uc.codeRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}

		return current, domain.ErrAlreadyClaimed
	}

	if err := uc.emitEvent(txCtx, tx, code, accountID, now); err != nil {
		return nil, err
	}

	uc.writeAudit(txCtx, tx, code, accountID, now)

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CodesClaimed.Inc()
	}

	return &domain.ActivationCode{
		Code:   code,
		IsUsed: true,
		UsedBy: &accountID,
		UsedAt: &now,
	}, nil
}

func (uc *ActivationUseCase) emitEvent(ctx context.Context, tx Transaction, code, accountID string, now time.Time) error {
	if uc.outboxRepo == nil {
		return nil
	}

	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   code,
		AggregateType: domain.AggregateTypeCode,
		EventType:     domain.EventTypeCodeClaimed,
		Payload: map[string]any{
			"code":       code,
			"claimed_by": accountID,
		},
		CreatedAt: now,
	})
}

func (uc *ActivationUseCase) writeAudit(ctx context.Context, tx Transaction, code, accountID string, now time.Time) {
	if uc.auditRepo == nil {
		return
	}

	_ = uc.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      accountID,
		ActorRole:    domain.RoleOwner,
		Action:       string(domain.AuditActionCodeClaim),
		ResourceType: domain.AggregateTypeCode,
		ResourceID:   code,
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	})
}
