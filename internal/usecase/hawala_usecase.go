package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iho/sarraf/internal/domain"
	"github.com/iho/sarraf/internal/infrastructure/metrics"
)

// HawalaUseCase orchestrates money-transfer settlement on the office's own
// ledger. Sending collects cash from the sender, so the office balance is
// credited; receiving pays cash out, so it is debited. Each leg is one
// movement plus one business record in one transaction.
type HawalaUseCase struct {
	txManager  TransactionManager
	mutations  *MutationUseCase
	hawalaRepo HawalaRepository
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewHawalaUseCase creates a new HawalaUseCase.
func NewHawalaUseCase(
	txManager TransactionManager,
	mutations *MutationUseCase,
	hawalaRepo HawalaRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
) *HawalaUseCase {
	return &HawalaUseCase{
		txManager:  txManager,
		mutations:  mutations,
		hawalaRepo: hawalaRepo,
		outboxRepo: outboxRepo,
		auditRepo:  auditRepo,
		idGen:      idGen,
		metrics:    m,
	}
}

// HawalaInput represents one transfer leg.
type HawalaInput struct {
	AccountID    string
	Currency     string
	Amount       decimal.Decimal
	SenderName   string
	ReceiverName string
	// Reference links the receive leg to a transfer initiated elsewhere.
	// Empty on send; a fresh reference is issued.
	Reference   string
	Actor       domain.Actor
	Description string
}

// HawalaResult is the committed leg with its ledger movement.
type HawalaResult struct {
	Hawala   *domain.Hawala
	Movement *domain.Movement
}

// Send records an outgoing transfer: the office collects the principal in
// cash, crediting its own entry for the transfer currency.
func (uc *HawalaUseCase) Send(ctx context.Context, input HawalaInput) (*HawalaResult, error) {
	return uc.execute(ctx, input, domain.HawalaSend)
}

// Receive records an incoming transfer payout: the office hands the
// principal to the receiver, debiting its own entry.
func (uc *HawalaUseCase) Receive(ctx context.Context, input HawalaInput) (*HawalaResult, error) {
	return uc.execute(ctx, input, domain.HawalaReceive)
}

func (uc *HawalaUseCase) execute(ctx context.Context, input HawalaInput, kind domain.HawalaKind) (*HawalaResult, error) {
	currency := domain.NormalizeCurrency(input.Currency)

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	holder := domain.Holder{Kind: domain.HolderAccount, ID: input.AccountID}
	if err := uc.mutations.resolveHolder(ctx, holder, currency); err != nil {
		return nil, err
	}

	direction := domain.DirectionCredit
	label := domain.LabelHawalaSend
	if kind == domain.HawalaReceive {
		direction = domain.DirectionDebit
		label = domain.LabelHawalaReceive
	}

	reference := input.Reference
	if reference == "" {
		reference = uuid.NewString()
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()

	movement, err := uc.mutations.applyInTx(txCtx, tx, now, MutateInput{
		Holder:      holder,
		Currency:    currency,
		Amount:      input.Amount,
		Direction:   direction,
		Label:       label,
		Actor:       input.Actor,
		Description: input.Description,
	})
	if err != nil {
		return nil, err
	}

	hawala := &domain.Hawala{
		ID:           uc.idGen.Generate(),
		Reference:    reference,
		Kind:         kind,
		AccountID:    input.AccountID,
		Currency:     currency,
		Amount:       input.Amount,
		SenderName:   input.SenderName,
		ReceiverName: input.ReceiverName,
		MovementID:   movement.ID,
		CreatedAt:    now,
	}

	if err := uc.hawalaRepo.Create(txCtx, tx, hawala); err != nil {
		return nil, err
	}

	if err := uc.emitEvent(txCtx, tx, hawala, now); err != nil {
		return nil, err
	}

	uc.writeAudit(txCtx, tx, hawala, input.Actor, now)

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.mutations.afterCommit(ctx, movement)

	if uc.metrics != nil {
		uc.metrics.HawalaOperations.WithLabelValues(string(kind)).Inc()
	}

	return &HawalaResult{Hawala: hawala, Movement: movement}, nil
}

func (uc *HawalaUseCase) emitEvent(ctx context.Context, tx Transaction, hawala *domain.Hawala, now time.Time) error {
	if uc.outboxRepo == nil {
		return nil
	}

	eventType := domain.EventTypeHawalaSent
	if hawala.Kind == domain.HawalaReceive {
		eventType = domain.EventTypeHawalaReceived
	}

	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   hawala.ID,
		AggregateType: domain.AggregateTypeHawala,
		EventType:     eventType,
		Payload: map[string]any{
			"hawala_id":  hawala.ID,
			"reference":  hawala.Reference,
			"account_id": hawala.AccountID,
			"currency":   hawala.Currency,
			"amount":     hawala.Amount.String(),
		},
		CreatedAt: now,
	})
}

func (uc *HawalaUseCase) writeAudit(ctx context.Context, tx Transaction, hawala *domain.Hawala, actor domain.Actor, now time.Time) {
	if uc.auditRepo == nil {
		return
	}

	action := domain.AuditActionHawalaSend
	if hawala.Kind == domain.HawalaReceive {
		action = domain.AuditActionHawalaReceive
	}

	_ = uc.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      actor.ID,
		ActorName:    actor.Name,
		ActorRole:    actor.Role,
		Action:       string(action),
		ResourceType: domain.AggregateTypeHawala,
		ResourceID:   hawala.ID,
		AfterState:   domain.MarshalState(hawala),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	})
}

// GetByReference retrieves a hawala record by its transfer reference.
func (uc *HawalaUseCase) GetByReference(ctx context.Context, reference string) (*domain.Hawala, error) {
	return uc.hawalaRepo.GetByReference(ctx, reference)
}

// ListByAccount lists hawala records for an account, newest first.
func (uc *HawalaUseCase) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Hawala, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.hawalaRepo.ListByAccount(ctx, accountID, limit, offset)
}
