package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/sarraf/internal/domain"
	"github.com/iho/sarraf/internal/usecase"
	"github.com/iho/sarraf/internal/usecase/mocks"
)

type exchangeFixture struct {
	*mutationFixture
	uc        *usecase.ExchangeUseCase
	exchanges *mocks.MockExchangeRepository
}

func newExchangeFixture() *exchangeFixture {
	base := newMutationFixture()
	f := &exchangeFixture{
		mutationFixture: base,
		exchanges:       mocks.NewMockExchangeRepository(),
	}

	f.uc = usecase.NewExchangeUseCase(
		base.txManager,
		base.uc,
		f.exchanges,
		base.accounts,
		base.subAccounts,
		base.outbox,
		base.audit,
		mocks.NewMockIDGenerator(),
		nil,
	)

	return f
}

func strPtr(s string) *string { return &s }

func TestExchangeExecute(t *testing.T) {
	tests := []struct {
		name       string
		input      usecase.ExchangeInput
		setupMocks func(f *exchangeFixture)
		errorType  error
	}{
		{
			name: "person trade",
			input: usecase.ExchangeInput{
				AccountID:    "acc-1",
				SellCurrency: "USD",
				SellAmount:   decimal.NewFromInt(500),
				BuyCurrency:  "AFN",
				BuyAmount:    decimal.NewFromInt(35000),
				Actor:        testActor(),
			},
			setupMocks: func(f *exchangeFixture) {
				f.accounts.Seed(&domain.Account{ID: "acc-1", Name: "Main", Active: true}, "USD", "AFN")
			},
		},
		{
			name: "same currency rejected",
			input: usecase.ExchangeInput{
				AccountID:    "acc-1",
				SellCurrency: "usd",
				SellAmount:   decimal.NewFromInt(100),
				BuyCurrency:  "USD",
				BuyAmount:    decimal.NewFromInt(100),
				Actor:        testActor(),
			},
			setupMocks: func(f *exchangeFixture) {
				f.accounts.Seed(&domain.Account{ID: "acc-1", Name: "Main", Active: true}, "USD")
			},
			errorType: domain.ErrSameCurrency,
		},
		{
			name: "invalid sell amount",
			input: usecase.ExchangeInput{
				AccountID:    "acc-1",
				SellCurrency: "USD",
				SellAmount:   decimal.Zero,
				BuyCurrency:  "AFN",
				BuyAmount:    decimal.NewFromInt(100),
				Actor:        testActor(),
			},
			setupMocks: func(f *exchangeFixture) {
				f.accounts.Seed(&domain.Account{ID: "acc-1", Name: "Main", Active: true}, "USD", "AFN")
			},
			errorType: domain.ErrInvalidAmount,
		},
		{
			name: "unknown account",
			input: usecase.ExchangeInput{
				AccountID:    "ghost",
				SellCurrency: "USD",
				SellAmount:   decimal.NewFromInt(100),
				BuyCurrency:  "AFN",
				BuyAmount:    decimal.NewFromInt(7000),
				Actor:        testActor(),
			},
			setupMocks: func(f *exchangeFixture) {},
			errorType:  domain.ErrUnknownAccount,
		},
		{
			name: "buy currency unsupported",
			input: usecase.ExchangeInput{
				AccountID:    "acc-1",
				SellCurrency: "USD",
				SellAmount:   decimal.NewFromInt(100),
				BuyCurrency:  "JPY",
				BuyAmount:    decimal.NewFromInt(15000),
				Actor:        testActor(),
			},
			setupMocks: func(f *exchangeFixture) {
				f.accounts.Seed(&domain.Account{ID: "acc-1", Name: "Main", Active: true}, "USD", "AFN")
			},
			errorType: domain.ErrUnsupportedCurrency,
		},
		{
			name: "foreign sub-account",
			input: usecase.ExchangeInput{
				AccountID:    "acc-1",
				SubAccountID: strPtr("sub-9"),
				SellCurrency: "USD",
				SellAmount:   decimal.NewFromInt(100),
				BuyCurrency:  "AFN",
				BuyAmount:    decimal.NewFromInt(7000),
				Actor:        testActor(),
			},
			setupMocks: func(f *exchangeFixture) {
				f.accounts.Seed(&domain.Account{ID: "acc-1", Name: "Main", Active: true}, "USD", "AFN")
				f.subAccounts.Seed(&domain.SubAccount{ID: "sub-9", OwnerAccountID: "acc-2", Active: true})
			},
			errorType: domain.ErrForeignSubAccount,
		},
		{
			name: "inactive sub-account",
			input: usecase.ExchangeInput{
				AccountID:    "acc-1",
				SubAccountID: strPtr("sub-1"),
				SellCurrency: "USD",
				SellAmount:   decimal.NewFromInt(100),
				BuyCurrency:  "AFN",
				BuyAmount:    decimal.NewFromInt(7000),
				Actor:        testActor(),
			},
			setupMocks: func(f *exchangeFixture) {
				f.accounts.Seed(&domain.Account{ID: "acc-1", Name: "Main", Active: true}, "USD", "AFN")
				f.subAccounts.Seed(&domain.SubAccount{ID: "sub-1", OwnerAccountID: "acc-1", Active: false})
			},
			errorType: domain.ErrUnknownSubAccount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newExchangeFixture()
			tt.setupMocks(f)

			result, err := f.uc.Execute(context.Background(), tt.input)

			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Fatalf("expected error %v, got %v", tt.errorType, err)
				}
				if len(f.exchanges.All()) != 0 {
					t.Error("no exchange record may survive a failed trade")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Exchange == nil {
				t.Fatal("expected exchange record")
			}
			if len(f.exchanges.All()) != 1 {
				t.Fatalf("expected one stored exchange, got %d", len(f.exchanges.All()))
			}
		})
	}
}

func TestExchangePersonTradeMovements(t *testing.T) {
	f := newExchangeFixture()
	f.accounts.Seed(&domain.Account{ID: "acc-1", Name: "Main", Active: true}, "USD", "AFN")

	holder := accountHolder("acc-1")
	f.ledgerRepo.Seed(&domain.LedgerEntry{Holder: holder, Currency: "USD", Balance: decimal.NewFromInt(1000)})

	result, err := f.uc.Execute(context.Background(), usecase.ExchangeInput{
		AccountID:    "acc-1",
		SellCurrency: "USD",
		SellAmount:   decimal.NewFromInt(500),
		BuyCurrency:  "AFN",
		BuyAmount:    decimal.NewFromInt(35000),
		Actor:        testActor(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Movements) != 2 {
		t.Fatalf("expected 2 movements for a person trade, got %d", len(result.Movements))
	}

	sell, buy := result.Movements[0], result.Movements[1]
	if sell.Label != domain.LabelExchangeSell || sell.Direction != domain.DirectionDebit {
		t.Errorf("sell leg: got label=%s direction=%s", sell.Label, sell.Direction)
	}
	if buy.Label != domain.LabelExchangeBuy || buy.Direction != domain.DirectionCredit {
		t.Errorf("buy leg: got label=%s direction=%s", buy.Label, buy.Direction)
	}

	usdEntry := f.ledgerRepo.Entry(holder, "USD")
	if !usdEntry.Balance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected USD balance 500, got %s", usdEntry.Balance)
	}
	afnEntry := f.ledgerRepo.Entry(holder, "AFN")
	if !afnEntry.Balance.Equal(decimal.NewFromInt(35000)) {
		t.Errorf("expected AFN balance 35000, got %s", afnEntry.Balance)
	}
}

func TestExchangeSubAccountTradeMovements(t *testing.T) {
	f := newExchangeFixture()
	f.accounts.Seed(&domain.Account{ID: "acc-1", Name: "Main", Active: true}, "USD", "AFN")
	f.subAccounts.Seed(&domain.SubAccount{ID: "sub-1", OwnerAccountID: "acc-1", Active: true})

	result, err := f.uc.Execute(context.Background(), usecase.ExchangeInput{
		AccountID:    "acc-1",
		SubAccountID: strPtr("sub-1"),
		SellCurrency: "USD",
		SellAmount:   decimal.NewFromInt(100),
		BuyCurrency:  "AFN",
		BuyAmount:    decimal.NewFromInt(7000),
		Actor:        testActor(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Movements) != 4 {
		t.Fatalf("expected 4 movements for a sub-account trade, got %d", len(result.Movements))
	}

	owner := accountHolder("acc-1")
	sub := domain.Holder{Kind: domain.HolderSubAccount, ID: "sub-1"}

	// Sub-account receives what the owner sells and gives up what the
	// owner buys.
	if e := f.ledgerRepo.Entry(sub, "USD"); !e.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected sub USD balance 100, got %s", e.Balance)
	}
	if e := f.ledgerRepo.Entry(sub, "AFN"); !e.Balance.Equal(decimal.NewFromInt(-7000)) {
		t.Errorf("expected sub AFN balance -7000, got %s", e.Balance)
	}
	if e := f.ledgerRepo.Entry(owner, "USD"); !e.Balance.Equal(decimal.NewFromInt(-100)) {
		t.Errorf("expected owner USD balance -100, got %s", e.Balance)
	}
	if e := f.ledgerRepo.Entry(owner, "AFN"); !e.Balance.Equal(decimal.NewFromInt(7000)) {
		t.Errorf("expected owner AFN balance 7000, got %s", e.Balance)
	}
}

func TestExchangeRollbackOnCreateFailure(t *testing.T) {
	f := newExchangeFixture()
	f.accounts.Seed(&domain.Account{ID: "acc-1", Name: "Main", Active: true}, "USD", "AFN")

	createErr := errors.New("insert failed")
	f.exchanges.CreateFunc = func(ctx context.Context, tx usecase.Transaction, exchange *domain.Exchange) error {
		return createErr
	}

	_, err := f.uc.Execute(context.Background(), usecase.ExchangeInput{
		AccountID:    "acc-1",
		SellCurrency: "USD",
		SellAmount:   decimal.NewFromInt(100),
		BuyCurrency:  "AFN",
		BuyAmount:    decimal.NewFromInt(7000),
		Actor:        testActor(),
	})
	if !errors.Is(err, createErr) {
		t.Fatalf("expected create error, got %v", err)
	}

	for _, tx := range f.txManager.Transactions() {
		if tx.Committed {
			t.Error("transaction must not commit when the exchange insert fails")
		}
	}
}

func TestGetExchange(t *testing.T) {
	f := newExchangeFixture()

	if _, err := f.uc.GetExchange(context.Background(), "ghost"); !errors.Is(err, domain.ErrExchangeNotFound) {
		t.Fatalf("expected ErrExchangeNotFound, got %v", err)
	}
}
