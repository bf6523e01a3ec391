package integration

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/sarraf/internal/adapter/http/dto"
)

func TestHawala(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	accountID := stack.DB.CreateTestAccount(ctx, "main-till", "USD")

	var reference string

	t.Run("send credits the office", func(t *testing.T) {
		w := stack.do(t, http.MethodPost, "/api/v1/hawalas/send", dto.HawalaRequest{
			AccountID:    accountID,
			Currency:     "USD",
			Amount:       decimal.NewFromInt(1000),
			SenderName:   "Ahmad",
			ReceiverName: "Mahmoud",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}

		resp := decodeJSON[dto.HawalaResponse](t, w)
		if resp.Kind != "send" {
			t.Errorf("expected send kind, got %s", resp.Kind)
		}
		if resp.Reference == "" {
			t.Fatal("expected a generated reference")
		}
		if resp.Movement == nil || resp.Movement.Direction != "credit" {
			t.Error("send leg must credit the office entry")
		}

		reference = resp.Reference
	})

	t.Run("lookup by reference", func(t *testing.T) {
		w := stack.do(t, http.MethodGet, "/api/v1/hawalas/"+reference, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		resp := decodeJSON[dto.HawalaResponse](t, w)
		if resp.Reference != reference {
			t.Errorf("expected reference %s, got %s", reference, resp.Reference)
		}
	})

	t.Run("receive debits the office", func(t *testing.T) {
		w := stack.do(t, http.MethodPost, "/api/v1/hawalas/receive", dto.HawalaRequest{
			AccountID:    accountID,
			Currency:     "USD",
			Amount:       decimal.NewFromInt(400),
			SenderName:   "Karim",
			ReceiverName: "Omar",
			Reference:    "INBOUND-REF-42",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}

		resp := decodeJSON[dto.HawalaResponse](t, w)
		if resp.Kind != "receive" {
			t.Errorf("expected receive kind, got %s", resp.Kind)
		}
		if resp.Reference != "INBOUND-REF-42" {
			t.Errorf("expected the supplied reference, got %s", resp.Reference)
		}
		if resp.Movement == nil || resp.Movement.Direction != "debit" {
			t.Error("receive leg must debit the office entry")
		}
	})

	t.Run("office balance reflects both legs", func(t *testing.T) {
		w := stack.do(t, http.MethodGet, fmt.Sprintf("/api/v1/balances/account/%s/USD", accountID), nil)
		balance := decodeJSON[dto.BalanceResponse](t, w)
		if !balance.Balance.Equal(decimal.NewFromInt(600)) {
			t.Errorf("expected balance 600, got %s", balance.Balance)
		}
	})

	t.Run("unknown reference returns 404", func(t *testing.T) {
		w := stack.do(t, http.MethodGet, "/api/v1/hawalas/no-such-reference", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
		}
	})

	t.Run("list by account", func(t *testing.T) {
		w := stack.do(t, http.MethodGet, fmt.Sprintf("/api/v1/accounts/%s/hawalas", accountID), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		hawalas := decodeJSON[[]*dto.HawalaResponse](t, w)
		if len(hawalas) != 2 {
			t.Errorf("expected 2 hawalas, got %d", len(hawalas))
		}
	})
}
