package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iho/sarraf/internal/domain"
	"github.com/iho/sarraf/internal/usecase"
	"github.com/iho/sarraf/internal/usecase/mocks"
)

type activationFixture struct {
	uc        *usecase.ActivationUseCase
	txManager *mocks.MockTransactionManager
	codes     *mocks.MockCodeRepository
	accounts  *mocks.MockAccountDirectory
	outbox    *mocks.MockOutboxRepository
	audit     *mocks.MockAuditRepository
}

func newActivationFixture() *activationFixture {
	f := &activationFixture{
		txManager: mocks.NewMockTransactionManager(),
		codes:     mocks.NewMockCodeRepository(),
		accounts:  mocks.NewMockAccountDirectory(),
		outbox:    mocks.NewMockOutboxRepository(),
		audit:     mocks.NewMockAuditRepository(),
	}

	f.uc = usecase.NewActivationUseCase(
		f.txManager,
		f.codes,
		f.accounts,
		f.outbox,
		f.audit,
		mocks.NewMockIDGenerator(),
		nil,
	)

	return f
}

func TestClaimCode(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		accountID  string
		setupMocks func(f *activationFixture)
		errorType  error
	}{
		{
			name:      "successful claim",
			code:      "WELCOME2026",
			accountID: "acc-1",
			setupMocks: func(f *activationFixture) {
				f.accounts.Seed(&domain.Account{ID: "acc-1", Name: "Main", Active: true})
				f.codes.Seed(&domain.ActivationCode{Code: "WELCOME2026"})
			},
		},
		{
			name:      "malformed code",
			code:      "short",
			accountID: "acc-1",
			setupMocks: func(f *activationFixture) {
				f.accounts.Seed(&domain.Account{ID: "acc-1", Name: "Main", Active: true})
			},
			errorType: domain.ErrInvalidCode,
		},
		{
			name:      "unknown code",
			code:      "NOSUCHCODE1",
			accountID: "acc-1",
			setupMocks: func(f *activationFixture) {
				f.accounts.Seed(&domain.Account{ID: "acc-1", Name: "Main", Active: true})
			},
			errorType: domain.ErrCodeNotFound,
		},
		{
			name:      "unknown account",
			code:      "WELCOME2026",
			accountID: "ghost",
			setupMocks: func(f *activationFixture) {
				f.codes.Seed(&domain.ActivationCode{Code: "WELCOME2026"})
			},
			errorType: domain.ErrUnknownAccount,
		},
		{
			name:      "inactive account",
			code:      "WELCOME2026",
			accountID: "acc-1",
			setupMocks: func(f *activationFixture) {
				f.accounts.Seed(&domain.Account{ID: "acc-1", Name: "Main", Active: false})
				f.codes.Seed(&domain.ActivationCode{Code: "WELCOME2026"})
			},
			errorType: domain.ErrUnknownAccount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newActivationFixture()
			tt.setupMocks(f)

			claimed, err := f.uc.ClaimCode(context.Background(), tt.code, tt.accountID)

			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Fatalf("expected error %v, got %v", tt.errorType, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !claimed.IsUsed {
				t.Error("expected code to be marked used")
			}
			if claimed.UsedBy == nil || *claimed.UsedBy != tt.accountID {
				t.Errorf("expected code claimed by %s", tt.accountID)
			}
			if claimed.UsedAt == nil {
				t.Error("expected claim timestamp")
			}
		})
	}
}

func TestClaimCodeAlreadyClaimed(t *testing.T) {
	f := newActivationFixture()
	f.accounts.Seed(&domain.Account{ID: "acc-1", Name: "Main", Active: true})
	f.accounts.Seed(&domain.Account{ID: "acc-2", Name: "Branch", Active: true})
	f.codes.Seed(&domain.ActivationCode{Code: "WELCOME2026"})

	ctx := context.Background()

	if _, err := f.uc.ClaimCode(ctx, "WELCOME2026", "acc-1"); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}

	current, err := f.uc.ClaimCode(ctx, "WELCOME2026", "acc-2")
	if !errors.Is(err, domain.ErrAlreadyClaimed) {
		t.Fatalf("expected ErrAlreadyClaimed, got %v", err)
	}

	// The loser still learns who holds the code.
	if current == nil {
		t.Fatal("expected current code state alongside the error")
	}
	if current.UsedBy == nil || *current.UsedBy != "acc-1" {
		t.Error("expected the code to name the first claimant")
	}
}

func TestClaimCodeNoCommitOnLoss(t *testing.T) {
	f := newActivationFixture()
	f.accounts.Seed(&domain.Account{ID: "acc-1", Name: "Main", Active: true})

	usedBy := "acc-9"
	f.codes.Seed(&domain.ActivationCode{Code: "WELCOME2026", IsUsed: true, UsedBy: &usedBy})

	_, err := f.uc.ClaimCode(context.Background(), "WELCOME2026", "acc-1")
	if !errors.Is(err, domain.ErrAlreadyClaimed) {
		t.Fatalf("expected ErrAlreadyClaimed, got %v", err)
	}

	for _, tx := range f.txManager.Transactions() {
		if tx.Committed {
			t.Error("losing claim must not commit")
		}
	}
	if len(f.outbox.All()) != 0 {
		t.Error("losing claim must not emit events")
	}
}
