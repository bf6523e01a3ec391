package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/sarraf/internal/domain"
	"github.com/iho/sarraf/internal/infrastructure/metrics"
)

// MutationUseCase is the balance mutation service. Every balance write in
// the system funnels through it: one locked entry update plus one appended
// movement per call, committed together or not at all.
type MutationUseCase struct {
	txManager    TransactionManager
	ledgerRepo   LedgerRepository
	movementRepo MovementRepository
	accounts     AccountDirectory
	subAccounts  SubAccountDirectory
	outboxRepo   OutboxRepository
	auditRepo    AuditRepository
	idGen        IDGenerator
	cache        Cache
	metrics      *metrics.Metrics
}

// NewMutationUseCase creates a new MutationUseCase. outboxRepo, auditRepo,
// cache and metrics may be nil.
func NewMutationUseCase(
	txManager TransactionManager,
	ledgerRepo LedgerRepository,
	movementRepo MovementRepository,
	accounts AccountDirectory,
	subAccounts SubAccountDirectory,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	cache Cache,
	m *metrics.Metrics,
) *MutationUseCase {
	return &MutationUseCase{
		txManager:    txManager,
		ledgerRepo:   ledgerRepo,
		movementRepo: movementRepo,
		accounts:     accounts,
		subAccounts:  subAccounts,
		outboxRepo:   outboxRepo,
		auditRepo:    auditRepo,
		idGen:        idGen,
		cache:        cache,
		metrics:      m,
	}
}

// MutateInput represents one balance mutation.
type MutateInput struct {
	Holder      domain.Holder
	Currency    string
	Amount      decimal.Decimal
	Direction   domain.Direction
	Label       domain.Label
	Actor       domain.Actor
	Description string
}

func (in *MutateInput) validate() error {
	if err := domain.ValidateAmount(in.Amount); err != nil {
		return err
	}

	if !in.Direction.Valid() {
		return domain.ErrInvalidDirection
	}

	if !in.Label.Valid() {
		return domain.ErrInvalidLabel
	}

	if err := domain.ValidateCurrency(in.Currency); err != nil {
		return err
	}

	return domain.ValidateDescription(in.Description)
}

// Mutate applies a single credit or debit in its own transaction.
func (uc *MutationUseCase) Mutate(ctx context.Context, input MutateInput) (*domain.Movement, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	if err := uc.resolveHolder(ctx, input.Holder, input.Currency); err != nil {
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

	movement, err := uc.applyInTx(txCtx, tx, now, input)
	if err != nil {
		return nil, err
	}

	if err := uc.emitMovementEvent(txCtx, tx, movement, now); err != nil {
		return nil, err
	}

	uc.writeAudit(txCtx, tx, domain.AuditActionMutationApply, movement, now)

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, movement)

	return movement, nil
}

// applyInTx performs the locked read, delta and movement append inside the
// caller's transaction. Orchestrators call it once per affected key after
// pre-locking all keys in sorted order.
func (uc *MutationUseCase) applyInTx(ctx context.Context, tx Transaction, now time.Time, input MutateInput) (*domain.Movement, error) {
	currency := domain.NormalizeCurrency(input.Currency)

	entry, err := uc.ledgerRepo.GetOrCreateForUpdate(ctx, tx, input.Holder, currency)
	if err != nil {
		return nil, err
	}

	balanceBefore := entry.Balance
	signed := input.Amount.Mul(input.Direction.Sign())

	updated, err := uc.ledgerRepo.ApplyDelta(ctx, tx, input.Holder, currency, signed, now)
	if err != nil {
		return nil, err
	}

	movement := &domain.Movement{
		ID:            uc.idGen.Generate(),
		Holder:        input.Holder,
		Currency:      currency,
		Label:         input.Label,
		Direction:     input.Direction,
		Amount:        input.Amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  updated.Balance,
		Actor:         input.Actor,
		Description:   input.Description,
		CreatedAt:     now,
	}

	if err := movement.CheckSnapshot(); err != nil {
		return nil, err
	}

	if err := uc.movementRepo.Append(ctx, tx, movement); err != nil {
		return nil, err
	}

	return movement, nil
}

// lockEntries acquires row locks for every affected key in deterministic
// order so two orchestrators touching the same keys cannot deadlock.
func (uc *MutationUseCase) lockEntries(ctx context.Context, tx Transaction, keys []entryKey) error {
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Holder.Key(keys[i].Currency) < keys[j].Holder.Key(keys[j].Currency)
	})

	for _, k := range keys {
		if _, err := uc.ledgerRepo.GetOrCreateForUpdate(ctx, tx, k.Holder, domain.NormalizeCurrency(k.Currency)); err != nil {
			return err
		}
	}

	return nil
}

type entryKey struct {
	Holder   domain.Holder
	Currency string
}

// resolveHolder rejects unknown accounts, unknown sub-accounts and
// unsupported currencies before any write is attempted.
func (uc *MutationUseCase) resolveHolder(ctx context.Context, holder domain.Holder, currency string) error {
	switch holder.Kind {
	case domain.HolderAccount:
		account, err := uc.accounts.GetAccount(ctx, holder.ID)
		if err != nil {
			return err
		}
		if !account.Active {
			return domain.ErrUnknownAccount
		}

		supported, err := uc.accounts.SupportsCurrency(ctx, holder.ID, domain.NormalizeCurrency(currency))
		if err != nil {
			return err
		}
		if !supported {
			return fmt.Errorf("%w: %s", domain.ErrUnsupportedCurrency, currency)
		}

		return nil
	case domain.HolderSubAccount:
		sub, err := uc.subAccounts.GetSubAccount(ctx, holder.ID)
		if err != nil {
			return err
		}
		if !sub.Active {
			return domain.ErrUnknownSubAccount
		}

		return nil
	default:
		return domain.ErrUnknownAccount
	}
}

// GetBalance returns the ledger entry for a (holder, currency) pair without
// side effects. A never-touched pair reads as a zeroed entry.
func (uc *MutationUseCase) GetBalance(ctx context.Context, holder domain.Holder, currency string) (*domain.LedgerEntry, error) {
	currency = domain.NormalizeCurrency(currency)

	if err := domain.ValidateCurrency(currency); err != nil {
		return nil, err
	}

	if entry, ok := uc.cachedBalance(ctx, holder, currency); ok {
		return entry, nil
	}

	entry, found, err := uc.ledgerRepo.Get(ctx, holder, currency)
	if err != nil {
		return nil, err
	}

	if !found {
		entry = domain.NewLedgerEntry(holder, currency, time.Now().UTC())
	}

	uc.storeBalance(ctx, entry)

	return entry, nil
}

// GetMovement retrieves a single movement by ID.
func (uc *MutationUseCase) GetMovement(ctx context.Context, id string) (*domain.Movement, error) {
	return uc.movementRepo.GetByID(ctx, id)
}

// ListMovements lists movements for an entry, newest first.
func (uc *MutationUseCase) ListMovements(ctx context.Context, holder domain.Holder, currency string, limit, offset int) ([]*domain.Movement, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.movementRepo.ListByEntry(ctx, holder, domain.NormalizeCurrency(currency), limit, offset)
}

// Reverse applies a new movement opposite to an existing one. History is
// never mutated; an operator-initiated deletion of a past transaction is
// just another mutation, and it may drive the balance negative because no
// floor policy exists to consult.
func (uc *MutationUseCase) Reverse(ctx context.Context, movementID string, actor domain.Actor, description string) (*domain.Movement, error) {
	original, err := uc.movementRepo.GetByID(ctx, movementID)
	if err != nil {
		return nil, err
	}

	direction := domain.DirectionCredit
	if original.Direction == domain.DirectionCredit {
		direction = domain.DirectionDebit
	}

	if description == "" {
		description = fmt.Sprintf("reversal of movement %s", original.ID)
	}

	return uc.Mutate(ctx, MutateInput{
		Holder:      original.Holder,
		Currency:    original.Currency,
		Amount:      original.Amount,
		Direction:   direction,
		Label:       domain.LabelReversal,
		Actor:       actor,
		Description: description,
	})
}

func (uc *MutationUseCase) emitMovementEvent(ctx context.Context, tx Transaction, movement *domain.Movement, now time.Time) error {
	if uc.outboxRepo == nil {
		return nil
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   movement.ID,
		AggregateType: domain.AggregateTypeMovement,
		EventType:     domain.EventTypeMovementApplied,
		Payload: map[string]any{
			"movement_id":    movement.ID,
			"holder_kind":    string(movement.Holder.Kind),
			"holder_id":      movement.Holder.ID,
			"currency":       movement.Currency,
			"direction":      string(movement.Direction),
			"amount":         movement.Amount.String(),
			"balance_before": movement.BalanceBefore.String(),
			"balance_after":  movement.BalanceAfter.String(),
		},
		CreatedAt: now,
	}

	return uc.outboxRepo.Create(ctx, tx, event)
}

func (uc *MutationUseCase) writeAudit(ctx context.Context, tx Transaction, action domain.AuditAction, movement *domain.Movement, now time.Time) {
	if uc.auditRepo == nil {
		return
	}

	_ = uc.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      movement.Actor.ID,
		ActorName:    movement.Actor.Name,
		ActorRole:    movement.Actor.Role,
		Action:       string(action),
		ResourceType: domain.AggregateTypeMovement,
		ResourceID:   movement.ID,
		AfterState:   domain.MarshalState(movement),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	})
}

// afterCommit invalidates the cached balance and records metrics. Runs only
// on the success path.
func (uc *MutationUseCase) afterCommit(ctx context.Context, movements ...*domain.Movement) {
	for _, m := range movements {
		if uc.cache != nil {
			_ = uc.cache.Delete(ctx, balanceCacheKey(m.Holder, m.Currency))
		}

		if uc.metrics != nil {
			uc.metrics.MovementsApplied.WithLabelValues(string(m.Label), string(m.Direction)).Inc()
		}
	}
}

func (uc *MutationUseCase) cachedBalance(ctx context.Context, holder domain.Holder, currency string) (*domain.LedgerEntry, bool) {
	if uc.cache == nil {
		return nil, false
	}

	raw, err := uc.cache.Get(ctx, balanceCacheKey(holder, currency))
	if err != nil {
		return nil, false
	}

	var cached cachedEntry
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, false
	}

	return cached.toEntry(holder, currency), true
}

func (uc *MutationUseCase) storeBalance(ctx context.Context, entry *domain.LedgerEntry) {
	if uc.cache == nil {
		return
	}

	raw, err := json.Marshal(newCachedEntry(entry))
	if err != nil {
		return
	}

	_ = uc.cache.Set(ctx, balanceCacheKey(entry.Holder, entry.Currency), string(raw), BalanceCacheTTL)
}

func balanceCacheKey(holder domain.Holder, currency string) string {
	return "balance:" + holder.Key(currency)
}

// cachedEntry is the wire form of a ledger entry in the balance cache.
type cachedEntry struct {
	Balance       decimal.Decimal `json:"balance"`
	TotalCredits  decimal.Decimal `json:"total_credits"`
	TotalDebits   decimal.Decimal `json:"total_debits"`
	MovementCount int64           `json:"movement_count"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func newCachedEntry(entry *domain.LedgerEntry) cachedEntry {
	return cachedEntry{
		Balance:       entry.Balance,
		TotalCredits:  entry.TotalCredits,
		TotalDebits:   entry.TotalDebits,
		MovementCount: entry.MovementCount,
		CreatedAt:     entry.CreatedAt,
		UpdatedAt:     entry.UpdatedAt,
	}
}

func (c cachedEntry) toEntry(holder domain.Holder, currency string) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		Holder:        holder,
		Currency:      currency,
		Balance:       c.Balance,
		TotalCredits:  c.TotalCredits,
		TotalDebits:   c.TotalDebits,
		MovementCount: c.MovementCount,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
