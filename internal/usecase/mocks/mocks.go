package mocks

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/sarraf/internal/domain"
	"github.com/iho/sarraf/internal/usecase"
)

// MockLedgerRepository is an in-memory mock of LedgerRepository.
type MockLedgerRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.LedgerEntry

	GetFunc                  func(ctx context.Context, holder domain.Holder, currency string) (*domain.LedgerEntry, bool, error)
	GetOrCreateForUpdateFunc func(ctx context.Context, tx usecase.Transaction, holder domain.Holder, currency string) (*domain.LedgerEntry, error)
	ApplyDeltaFunc           func(ctx context.Context, tx usecase.Transaction, holder domain.Holder, currency string, signedAmount decimal.Decimal, updatedAt time.Time) (*domain.LedgerEntry, error)
	CheckConsistencyFunc     func(ctx context.Context, limit int) ([]usecase.EntryMismatch, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{
		entries: make(map[string]*domain.LedgerEntry),
	}
}

// Seed installs an entry directly, bypassing the locking path.
func (m *MockLedgerRepository) Seed(entry *domain.LedgerEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.Holder.Key(entry.Currency)] = entry
}

// Entry returns the stored entry for assertions.
func (m *MockLedgerRepository) Entry(holder domain.Holder, currency string) *domain.LedgerEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[holder.Key(currency)]
}

func (m *MockLedgerRepository) Get(ctx context.Context, holder domain.Holder, currency string) (*domain.LedgerEntry, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, holder, currency)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[holder.Key(currency)]
	if !ok {
		return nil, false, nil
	}
	copied := *entry
	return &copied, true, nil
}

func (m *MockLedgerRepository) GetOrCreateForUpdate(ctx context.Context, tx usecase.Transaction, holder domain.Holder, currency string) (*domain.LedgerEntry, error) {
	if m.GetOrCreateForUpdateFunc != nil {
		return m.GetOrCreateForUpdateFunc(ctx, tx, holder, currency)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := holder.Key(currency)
	entry, ok := m.entries[key]
	if !ok {
		entry = domain.NewLedgerEntry(holder, currency, time.Now().UTC())
		m.entries[key] = entry
	}
	copied := *entry
	return &copied, nil
}

func (m *MockLedgerRepository) ApplyDelta(ctx context.Context, tx usecase.Transaction, holder domain.Holder, currency string, signedAmount decimal.Decimal, updatedAt time.Time) (*domain.LedgerEntry, error) {
	if m.ApplyDeltaFunc != nil {
		return m.ApplyDeltaFunc(ctx, tx, holder, currency, signedAmount, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[holder.Key(currency)]
	if !ok {
		entry = domain.NewLedgerEntry(holder, currency, updatedAt)
		m.entries[holder.Key(currency)] = entry
	}
	entry.Balance = entry.Balance.Add(signedAmount)
	if signedAmount.IsPositive() {
		entry.TotalCredits = entry.TotalCredits.Add(signedAmount)
	} else {
		entry.TotalDebits = entry.TotalDebits.Add(signedAmount.Neg())
	}
	entry.MovementCount++
	entry.UpdatedAt = updatedAt
	copied := *entry
	return &copied, nil
}

func (m *MockLedgerRepository) CheckConsistency(ctx context.Context, limit int) ([]usecase.EntryMismatch, error) {
	if m.CheckConsistencyFunc != nil {
		return m.CheckConsistencyFunc(ctx, limit)
	}
	return nil, nil
}

// MockMovementRepository is an in-memory mock of MovementRepository.
type MockMovementRepository struct {
	mu        sync.RWMutex
	movements []*domain.Movement

	AppendFunc      func(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error
	GetByIDFunc     func(ctx context.Context, id string) (*domain.Movement, error)
	ListByEntryFunc func(ctx context.Context, holder domain.Holder, currency string, limit, offset int) ([]*domain.Movement, error)
	SumSignedFunc   func(ctx context.Context, holder domain.Holder, currency string) (decimal.Decimal, error)
}

func NewMockMovementRepository() *MockMovementRepository {
	return &MockMovementRepository{}
}

// All returns every appended movement in append order.
func (m *MockMovementRepository) All() []*domain.Movement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Movement, len(m.movements))
	copy(out, m.movements)
	return out
}

func (m *MockMovementRepository) Append(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, tx, movement)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movements = append(m.movements, movement)
	return nil
}

func (m *MockMovementRepository) GetByID(ctx context.Context, id string) (*domain.Movement, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, movement := range m.movements {
		if movement.ID == id {
			return movement, nil
		}
	}
	return nil, domain.ErrMovementNotFound
}

func (m *MockMovementRepository) ListByEntry(ctx context.Context, holder domain.Holder, currency string, limit, offset int) ([]*domain.Movement, error) {
	if m.ListByEntryFunc != nil {
		return m.ListByEntryFunc(ctx, holder, currency, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matched []*domain.Movement
	for i := len(m.movements) - 1; i >= 0; i-- {
		movement := m.movements[i]
		if movement.Holder == holder && movement.Currency == currency {
			matched = append(matched, movement)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (m *MockMovementRepository) SumSigned(ctx context.Context, holder domain.Holder, currency string) (decimal.Decimal, error) {
	if m.SumSignedFunc != nil {
		return m.SumSignedFunc(ctx, holder, currency)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, movement := range m.movements {
		if movement.Holder == holder && movement.Currency == currency {
			sum = sum.Add(movement.SignedAmount())
		}
	}
	return sum, nil
}

// MockAccountDirectory is an in-memory mock of AccountDirectory.
type MockAccountDirectory struct {
	mu         sync.RWMutex
	accounts   map[string]*domain.Account
	currencies map[string]map[string]bool

	GetAccountFunc       func(ctx context.Context, id string) (*domain.Account, error)
	SupportsCurrencyFunc func(ctx context.Context, accountID, currency string) (bool, error)
}

func NewMockAccountDirectory() *MockAccountDirectory {
	return &MockAccountDirectory{
		accounts:   make(map[string]*domain.Account),
		currencies: make(map[string]map[string]bool),
	}
}

// Seed registers an account with its supported currencies.
func (m *MockAccountDirectory) Seed(account *domain.Account, currencies ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	set := make(map[string]bool, len(currencies))
	for _, c := range currencies {
		set[c] = true
	}
	m.currencies[account.ID] = set
}

func (m *MockAccountDirectory) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetAccountFunc != nil {
		return m.GetAccountFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if account, ok := m.accounts[id]; ok {
		return account, nil
	}
	return nil, domain.ErrUnknownAccount
}

func (m *MockAccountDirectory) SupportsCurrency(ctx context.Context, accountID, currency string) (bool, error) {
	if m.SupportsCurrencyFunc != nil {
		return m.SupportsCurrencyFunc(ctx, accountID, currency)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currencies[accountID][currency], nil
}

// MockSubAccountDirectory is an in-memory mock of SubAccountDirectory.
type MockSubAccountDirectory struct {
	mu          sync.RWMutex
	subAccounts map[string]*domain.SubAccount

	GetSubAccountFunc func(ctx context.Context, id string) (*domain.SubAccount, error)
}

func NewMockSubAccountDirectory() *MockSubAccountDirectory {
	return &MockSubAccountDirectory{
		subAccounts: make(map[string]*domain.SubAccount),
	}
}

func (m *MockSubAccountDirectory) Seed(sub *domain.SubAccount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subAccounts[sub.ID] = sub
}

func (m *MockSubAccountDirectory) GetSubAccount(ctx context.Context, id string) (*domain.SubAccount, error) {
	if m.GetSubAccountFunc != nil {
		return m.GetSubAccountFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sub, ok := m.subAccounts[id]; ok {
		return sub, nil
	}
	return nil, domain.ErrUnknownSubAccount
}

// MockCodeRepository is an in-memory mock of CodeRepository.
type MockCodeRepository struct {
	mu    sync.Mutex
	codes map[string]*domain.ActivationCode

	GetByCodeFunc func(ctx context.Context, code string) (*domain.ActivationCode, error)
	ClaimFunc     func(ctx context.Context, tx usecase.Transaction, code, accountID string, usedAt time.Time) (bool, error)
}

func NewMockCodeRepository() *MockCodeRepository {
	return &MockCodeRepository{
		codes: make(map[string]*domain.ActivationCode),
	}
}

func (m *MockCodeRepository) Seed(code *domain.ActivationCode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[code.Code] = code
}

func (m *MockCodeRepository) GetByCode(ctx context.Context, code string) (*domain.ActivationCode, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.codes[code]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, domain.ErrCodeNotFound
}

func (m *MockCodeRepository) Claim(ctx context.Context, tx usecase.Transaction, code, accountID string, usedAt time.Time) (bool, error) {
	if m.ClaimFunc != nil {
		return m.ClaimFunc(ctx, tx, code, accountID, usedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.codes[code]
	if !ok || c.IsUsed {
		return false, nil
	}
	c.IsUsed = true
	c.UsedBy = &accountID
	c.UsedAt = &usedAt
	return true, nil
}

// MockHawalaRepository is an in-memory mock of HawalaRepository.
type MockHawalaRepository struct {
	mu      sync.RWMutex
	hawalas []*domain.Hawala

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, hawala *domain.Hawala) error
	GetByReferenceFunc func(ctx context.Context, reference string) (*domain.Hawala, error)
	ListByAccountFunc  func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Hawala, error)
}

func NewMockHawalaRepository() *MockHawalaRepository {
	return &MockHawalaRepository{}
}

func (m *MockHawalaRepository) All() []*domain.Hawala {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Hawala, len(m.hawalas))
	copy(out, m.hawalas)
	return out
}

func (m *MockHawalaRepository) Create(ctx context.Context, tx usecase.Transaction, hawala *domain.Hawala) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, hawala)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hawalas = append(m.hawalas, hawala)
	return nil
}

func (m *MockHawalaRepository) GetByReference(ctx context.Context, reference string) (*domain.Hawala, error) {
	if m.GetByReferenceFunc != nil {
		return m.GetByReferenceFunc(ctx, reference)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, h := range m.hawalas {
		if h.Reference == reference {
			return h, nil
		}
	}
	return nil, domain.ErrHawalaNotFound
}

func (m *MockHawalaRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Hawala, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matched []*domain.Hawala
	for i := len(m.hawalas) - 1; i >= 0; i-- {
		if m.hawalas[i].AccountID == accountID {
			matched = append(matched, m.hawalas[i])
		}
	}
	return matched, nil
}

// MockExchangeRepository is an in-memory mock of ExchangeRepository.
type MockExchangeRepository struct {
	mu        sync.RWMutex
	exchanges []*domain.Exchange

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, exchange *domain.Exchange) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.Exchange, error)
	ListByAccountFunc func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Exchange, error)
}

func NewMockExchangeRepository() *MockExchangeRepository {
	return &MockExchangeRepository{}
}

func (m *MockExchangeRepository) All() []*domain.Exchange {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Exchange, len(m.exchanges))
	copy(out, m.exchanges)
	return out
}

func (m *MockExchangeRepository) Create(ctx context.Context, tx usecase.Transaction, exchange *domain.Exchange) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, exchange)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exchanges = append(m.exchanges, exchange)
	return nil
}

func (m *MockExchangeRepository) GetByID(ctx context.Context, id string) (*domain.Exchange, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.exchanges {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, domain.ErrExchangeNotFound
}

func (m *MockExchangeRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Exchange, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matched []*domain.Exchange
	for i := len(m.exchanges) - 1; i >= 0; i-- {
		if m.exchanges[i].AccountID == accountID {
			matched = append(matched, m.exchanges[i])
		}
	}
	return matched, nil
}

// MockOutboxRepository is an in-memory mock of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) All() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.OutboxEvent, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var unpublished []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			unpublished = append(unpublished, e)
		}
		if len(unpublished) == limit {
			break
		}
	}
	return unpublished, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published || !e.CreatedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// MockAuditRepository is an in-memory mock of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) All() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.AuditLog, len(m.logs))
	copy(out, m.logs)
	return out
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matched []*domain.AuditLog
	for _, log := range m.logs {
		if filter.ActorID != "" && log.ActorID != filter.ActorID {
			continue
		}
		if filter.Action != "" && log.Action != filter.Action {
			continue
		}
		matched = append(matched, log)
	}
	return matched, nil
}

// MockTransaction is a mock of Transaction recording lifecycle calls.
type MockTransaction struct {
	mu         sync.Mutex
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock of TransactionManager handing out MockTransactions.
type MockTransactionManager struct {
	mu  sync.Mutex
	txs []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.txs = append(m.txs, tx)
	return tx, nil
}

// Transactions returns every transaction handed out.
func (m *MockTransactionManager) Transactions() []*MockTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*MockTransaction, len(m.txs))
	copy(out, m.txs)
	return out
}

// MockIDGenerator returns sequential IDs for deterministic assertions.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int
	Prefix  string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{Prefix: "id"}
}

func (m *MockIDGenerator) Generate() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return m.Prefix + "-" + strconv.Itoa(m.counter)
}
