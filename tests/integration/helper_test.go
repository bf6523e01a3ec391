package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rs/zerolog"

	adaptershttp "github.com/iho/sarraf/internal/adapter/http"
	"github.com/iho/sarraf/internal/adapter/http/handler"
	"github.com/iho/sarraf/internal/adapter/repository/postgres"
	redisrepo "github.com/iho/sarraf/internal/adapter/repository/redis"
	infraredis "github.com/iho/sarraf/internal/infrastructure/redis"
	"github.com/iho/sarraf/internal/usecase"
	"github.com/iho/sarraf/tests/testutil"
)

// testStack wires the full service against real Postgres and Redis.
type testStack struct {
	DB     *testutil.TestDB
	Router http.Handler

	MutationUC   *usecase.MutationUseCase
	ExchangeUC   *usecase.ExchangeUseCase
	HawalaUC     *usecase.HawalaUseCase
	SubAccountUC *usecase.SubAccountUseCase
	ActivationUC *usecase.ActivationUseCase
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)
	testDB.TruncateAll(ctx)

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { _ = redisClient.Close() })

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	accounts := postgres.NewAccountDirectory(pool)
	subAccounts := postgres.NewSubAccountDirectory(pool)
	codeRepo := postgres.NewCodeRepository(pool)
	hawalaRepo := postgres.NewHawalaRepository(pool)
	exchangeRepo := postgres.NewExchangeRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	idGen := postgres.NewULIDGenerator()

	mutationUC := usecase.NewMutationUseCase(
		txManager, ledgerRepo, movementRepo, accounts, subAccounts,
		outboxRepo, auditRepo, idGen, nil, nil)
	exchangeUC := usecase.NewExchangeUseCase(
		txManager, mutationUC, exchangeRepo, accounts, subAccounts,
		outboxRepo, auditRepo, idGen, nil)
	hawalaUC := usecase.NewHawalaUseCase(
		txManager, mutationUC, hawalaRepo, outboxRepo, auditRepo, idGen, nil)
	subAccountUC := usecase.NewSubAccountUseCase(
		txManager, mutationUC, subAccounts, outboxRepo, auditRepo, idGen, nil)
	activationUC := usecase.NewActivationUseCase(
		txManager, codeRepo, accounts, outboxRepo, auditRepo, idGen, nil)
	reconciliationUC := usecase.NewReconciliationUseCase(ledgerRepo, movementRepo)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		LedgerHandler:         handler.NewLedgerHandler(mutationUC),
		ExchangeHandler:       handler.NewExchangeHandler(exchangeUC),
		HawalaHandler:         handler.NewHawalaHandler(hawalaUC),
		SubAccountHandler:     handler.NewSubAccountHandler(subAccountUC),
		ActivationHandler:     handler.NewActivationHandler(activationUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		HealthHandler:         handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:      redisrepo.NewIdempotencyStore(redisClient),
		Logger:                zerolog.Nop(),
	})

	return &testStack{
		DB:           testDB,
		Router:       router,
		MutationUC:   mutationUC,
		ExchangeUC:   exchangeUC,
		HawalaUC:     hawalaUC,
		SubAccountUC: subAccountUC,
		ActivationUC: activationUC,
	}
}

// do sends a JSON request through the router with a test actor attached.
func (s *testStack) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, reader)
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-Actor-ID", "test-employee")
	r.Header.Set("X-Actor-Name", "Test Employee")
	w := httptest.NewRecorder()

	s.Router.ServeHTTP(w, r)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
	}
	return out
}
