package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/sarraf/internal/domain"
	"github.com/iho/sarraf/internal/infrastructure/metrics"
)

// ExchangeUseCase orchestrates currency trades. A person trade touches the
// owner's sell and buy entries; a sub-account trade additionally mirrors
// the opposite side onto the sub-account's entries. All movements commit as
// one unit.
type ExchangeUseCase struct {
	txManager    TransactionManager
	mutations    *MutationUseCase
	exchangeRepo ExchangeRepository
	accounts     AccountDirectory
	subAccounts  SubAccountDirectory
	outboxRepo   OutboxRepository
	auditRepo    AuditRepository
	idGen        IDGenerator
	metrics      *metrics.Metrics
}

// NewExchangeUseCase creates a new ExchangeUseCase.
func NewExchangeUseCase(
	txManager TransactionManager,
	mutations *MutationUseCase,
	exchangeRepo ExchangeRepository,
	accounts AccountDirectory,
	subAccounts SubAccountDirectory,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
) *ExchangeUseCase {
	return &ExchangeUseCase{
		txManager:    txManager,
		mutations:    mutations,
		exchangeRepo: exchangeRepo,
		accounts:     accounts,
		subAccounts:  subAccounts,
		outboxRepo:   outboxRepo,
		auditRepo:    auditRepo,
		idGen:        idGen,
		metrics:      m,
	}
}

// ExchangeInput represents one currency trade.
type ExchangeInput struct {
	AccountID    string
	SubAccountID *string
	SellCurrency string
	SellAmount   decimal.Decimal
	BuyCurrency  string
	BuyAmount    decimal.Decimal
	Actor        domain.Actor
	Description  string
}

// ExchangeResult is the committed trade with every movement it produced.
type ExchangeResult struct {
	Exchange  *domain.Exchange
	Movements []*domain.Movement
}

// Execute runs the trade. On any failure none of the constituent movements
// is retained.
func (uc *ExchangeUseCase) Execute(ctx context.Context, input ExchangeInput) (*ExchangeResult, error) {
	sellCurrency := domain.NormalizeCurrency(input.SellCurrency)
	buyCurrency := domain.NormalizeCurrency(input.BuyCurrency)

	exchange := &domain.Exchange{
		ID:           uc.idGen.Generate(),
		AccountID:    input.AccountID,
		SubAccountID: input.SubAccountID,
		SellCurrency: sellCurrency,
		SellAmount:   input.SellAmount,
		BuyCurrency:  buyCurrency,
		BuyAmount:    input.BuyAmount,
	}

	if err := exchange.Validate(); err != nil {
		return nil, err
	}

	ownerHolder := domain.Holder{Kind: domain.HolderAccount, ID: input.AccountID}
	if err := uc.mutations.resolveHolder(ctx, ownerHolder, sellCurrency); err != nil {
		return nil, err
	}
	if err := uc.mutations.resolveHolder(ctx, ownerHolder, buyCurrency); err != nil {
		return nil, err
	}

	var subHolder *domain.Holder
	if input.SubAccountID != nil {
		sub, err := uc.subAccounts.GetSubAccount(ctx, *input.SubAccountID)
		if err != nil {
			return nil, err
		}
		if !sub.Active {
			return nil, domain.ErrUnknownSubAccount
		}
		if sub.OwnerAccountID != input.AccountID {
			return nil, domain.ErrForeignSubAccount
		}

		subHolder = &domain.Holder{Kind: domain.HolderSubAccount, ID: sub.ID}
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	keys := []entryKey{
		{Holder: ownerHolder, Currency: sellCurrency},
		{Holder: ownerHolder, Currency: buyCurrency},
	}
	if subHolder != nil {
		keys = append(keys,
			entryKey{Holder: *subHolder, Currency: sellCurrency},
			entryKey{Holder: *subHolder, Currency: buyCurrency},
		)
	}

	if err := uc.mutations.lockEntries(txCtx, tx, keys); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	exchange.CreatedAt = now

	var movements []*domain.Movement

	// The sub-account receives what the owner sells and gives up what the
	// owner buys; the owner side is identical to the person case.
	if subHolder != nil {
		subMovements, err := uc.applyPair(txCtx, tx, now, input, *subHolder,
			domain.DirectionCredit, domain.DirectionDebit)
		if err != nil {
			return nil, err
		}

		movements = append(movements, subMovements...)
	}

	ownerMovements, err := uc.applyPair(txCtx, tx, now, input, ownerHolder,
		domain.DirectionDebit, domain.DirectionCredit)
	if err != nil {
		return nil, err
	}

	movements = append(movements, ownerMovements...)

	if err := uc.exchangeRepo.Create(txCtx, tx, exchange); err != nil {
		return nil, err
	}

	if err := uc.emitEvent(txCtx, tx, exchange, now); err != nil {
		return nil, err
	}

	uc.writeAudit(txCtx, tx, exchange, input.Actor, now)

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.mutations.afterCommit(ctx, movements...)

	if uc.metrics != nil {
		uc.metrics.ExchangesExecuted.Inc()
	}

	return &ExchangeResult{Exchange: exchange, Movements: movements}, nil
}

// applyPair applies the sell-side and buy-side movements for one holder.
func (uc *ExchangeUseCase) applyPair(
	ctx context.Context,
	tx Transaction,
	now time.Time,
	input ExchangeInput,
	holder domain.Holder,
	sellDirection, buyDirection domain.Direction,
) ([]*domain.Movement, error) {
	sell, err := uc.mutations.applyInTx(ctx, tx, now, MutateInput{
		Holder:      holder,
		Currency:    input.SellCurrency,
		Amount:      input.SellAmount,
		Direction:   sellDirection,
		Label:       domain.LabelExchangeSell,
		Actor:       input.Actor,
		Description: input.Description,
	})
	if err != nil {
		return nil, err
	}

	buy, err := uc.mutations.applyInTx(ctx, tx, now, MutateInput{
		Holder:      holder,
		Currency:    input.BuyCurrency,
		Amount:      input.BuyAmount,
		Direction:   buyDirection,
		Label:       domain.LabelExchangeBuy,
		Actor:       input.Actor,
		Description: input.Description,
	})
	if err != nil {
		return nil, err
	}

	return []*domain.Movement{sell, buy}, nil
}

func (uc *ExchangeUseCase) emitEvent(ctx context.Context, tx Transaction, exchange *domain.Exchange, now time.Time) error {
	if uc.outboxRepo == nil {
		return nil
	}

	payload := map[string]any{
		"exchange_id":   exchange.ID,
		"account_id":    exchange.AccountID,
		"sell_currency": exchange.SellCurrency,
		"sell_amount":   exchange.SellAmount.String(),
		"buy_currency":  exchange.BuyCurrency,
		"buy_amount":    exchange.BuyAmount.String(),
	}
	if exchange.SubAccountID != nil {
		payload["subaccount_id"] = *exchange.SubAccountID
	}

	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   exchange.ID,
		AggregateType: domain.AggregateTypeExchange,
		EventType:     domain.EventTypeExchangeExecuted,
		Payload:       payload,
		CreatedAt:     now,
	})
}

func (uc *ExchangeUseCase) writeAudit(ctx context.Context, tx Transaction, exchange *domain.Exchange, actor domain.Actor, now time.Time) {
	if uc.auditRepo == nil {
		return
	}

	_ = uc.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      actor.ID,
		ActorName:    actor.Name,
		ActorRole:    actor.Role,
		Action:       string(domain.AuditActionExchangeExecute),
		ResourceType: domain.AggregateTypeExchange,
		ResourceID:   exchange.ID,
		AfterState:   domain.MarshalState(exchange),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	})
}

// GetExchange retrieves an exchange record by ID.
func (uc *ExchangeUseCase) GetExchange(ctx context.Context, id string) (*domain.Exchange, error) {
	return uc.exchangeRepo.GetByID(ctx, id)
}

// ListExchangesByAccount lists trades for an account, newest first.
func (uc *ExchangeUseCase) ListExchangesByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Exchange, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.exchangeRepo.ListByAccount(ctx, accountID, limit, offset)
}
