package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/sarraf/internal/adapter/http/dto"
	"github.com/iho/sarraf/internal/adapter/http/handler"
	"github.com/iho/sarraf/internal/domain"
	"github.com/iho/sarraf/internal/usecase"
	"github.com/iho/sarraf/internal/usecase/mocks"
)

func newLedgerRouter(accounts *mocks.MockAccountDirectory) (http.Handler, *mocks.MockLedgerRepository) {
	ledgerRepo := mocks.NewMockLedgerRepository()

	uc := usecase.NewMutationUseCase(
		mocks.NewMockTransactionManager(),
		ledgerRepo,
		mocks.NewMockMovementRepository(),
		accounts,
		mocks.NewMockSubAccountDirectory(),
		nil,
		nil,
		mocks.NewMockIDGenerator(),
		nil,
		nil,
	)

	h := handler.NewLedgerHandler(uc)

	r := chi.NewRouter()
	r.Get("/balances/{holderKind}/{holderID}/{currency}", h.GetBalance)
	r.Post("/movements", h.Mutate)

	return r, ledgerRepo
}

func withActor(r *http.Request) *http.Request {
	actor := domain.Actor{ID: "emp-1", Name: "Karim", Role: domain.RoleEmployee}
	return r.WithContext(domain.ContextWithActor(r.Context(), actor))
}

func TestGetBalanceHandler(t *testing.T) {
	router, ledgerRepo := newLedgerRouter(mocks.NewMockAccountDirectory())

	holder := domain.Holder{Kind: domain.HolderAccount, ID: "acc-1"}
	ledgerRepo.Seed(&domain.LedgerEntry{
		Holder:   holder,
		Currency: "USD",
		Balance:  decimal.NewFromInt(750),
	})

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"existing entry", "/balances/account/acc-1/USD", http.StatusOK},
		{"untouched pair reads zero", "/balances/account/acc-1/EUR", http.StatusOK},
		{"invalid holder kind", "/balances/wallet/acc-1/USD", http.StatusBadRequest},
		{"unknown currency", "/balances/account/acc-1/XYZ", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, r)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}

	r := httptest.NewRequest(http.MethodGet, "/balances/account/acc-1/USD", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	var resp dto.BalanceResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !resp.Balance.Equal(decimal.NewFromInt(750)) {
		t.Errorf("expected balance 750, got %s", resp.Balance)
	}
}

func TestMutateHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		withActor  bool
		setupMocks func(accounts *mocks.MockAccountDirectory)
		wantStatus int
	}{
		{
			name: "successful credit",
			body: dto.MutateRequest{
				HolderKind: "account",
				HolderID:   "acc-1",
				Currency:   "USD",
				Amount:     decimal.NewFromInt(100),
				Direction:  "credit",
				Label:      "deposit",
			},
			withActor: true,
			setupMocks: func(accounts *mocks.MockAccountDirectory) {
				accounts.Seed(&domain.Account{ID: "acc-1", Name: "Main", Active: true}, "USD")
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "missing actor",
			body: dto.MutateRequest{
				HolderKind: "account",
				HolderID:   "acc-1",
				Currency:   "USD",
				Amount:     decimal.NewFromInt(100),
				Direction:  "credit",
				Label:      "deposit",
			},
			withActor:  false,
			setupMocks: func(accounts *mocks.MockAccountDirectory) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed body",
			body:       "not json",
			withActor:  true,
			setupMocks: func(accounts *mocks.MockAccountDirectory) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown account",
			body: dto.MutateRequest{
				HolderKind: "account",
				HolderID:   "ghost",
				Currency:   "USD",
				Amount:     decimal.NewFromInt(100),
				Direction:  "credit",
				Label:      "deposit",
			},
			withActor:  true,
			setupMocks: func(accounts *mocks.MockAccountDirectory) {},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "invalid amount",
			body: dto.MutateRequest{
				HolderKind: "account",
				HolderID:   "acc-1",
				Currency:   "USD",
				Amount:     decimal.NewFromInt(-5),
				Direction:  "credit",
				Label:      "deposit",
			},
			withActor: true,
			setupMocks: func(accounts *mocks.MockAccountDirectory) {
				accounts.Seed(&domain.Account{ID: "acc-1", Name: "Main", Active: true}, "USD")
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := mocks.NewMockAccountDirectory()
			tt.setupMocks(accounts)
			router, _ := newLedgerRouter(accounts)

			var raw []byte
			switch b := tt.body.(type) {
			case string:
				raw = []byte(b)
			default:
				var err error
				raw, err = json.Marshal(b)
				if err != nil {
					t.Fatalf("failed to marshal body: %v", err)
				}
			}

			r := httptest.NewRequest(http.MethodPost, "/movements", bytes.NewReader(raw))
			r.Header.Set("Content-Type", "application/json")
			if tt.withActor {
				r = withActor(r)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, r)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}

			if tt.wantStatus == http.StatusCreated {
				var resp dto.MovementResponse
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to parse response: %v", err)
				}
				if resp.ActorID != "emp-1" {
					t.Errorf("expected actor stamp emp-1, got %q", resp.ActorID)
				}
			}
		})
	}
}

func TestClaimHandler(t *testing.T) {
	codes := mocks.NewMockCodeRepository()
	accounts := mocks.NewMockAccountDirectory()
	accounts.Seed(&domain.Account{ID: "acc-1", Name: "Main", Active: true})
	accounts.Seed(&domain.Account{ID: "acc-2", Name: "Branch", Active: true})
	codes.Seed(&domain.ActivationCode{Code: "WELCOME2026"})

	uc := usecase.NewActivationUseCase(
		mocks.NewMockTransactionManager(),
		codes,
		accounts,
		nil,
		nil,
		mocks.NewMockIDGenerator(),
		nil,
	)
	h := handler.NewActivationHandler(uc)

	claim := func(accountID string) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(dto.ClaimCodeRequest{Code: "WELCOME2026", AccountID: accountID})
		r := withActor(httptest.NewRequest(http.MethodPost, "/codes/claim", bytes.NewReader(raw)))
		w := httptest.NewRecorder()
		h.Claim(w, r)
		return w
	}

	w := claim("acc-1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	w = claim("acc-2")
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d: %s", http.StatusConflict, w.Code, w.Body.String())
	}

	var resp dto.ClaimCodeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse conflict body: %v", err)
	}
	if resp.UsedBy == nil || *resp.UsedBy != "acc-1" {
		t.Error("conflict response must name the winning claimant")
	}
}
