package integration

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/iho/sarraf/internal/adapter/http/dto"
)

func TestClaimCode(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	accountID := stack.DB.CreateTestAccount(ctx, "main-till", "USD")
	otherID := stack.DB.CreateTestAccount(ctx, "branch-till", "USD")
	stack.DB.CreateTestCode(ctx, "WELCOME2026")

	t.Run("first claim wins", func(t *testing.T) {
		w := stack.do(t, http.MethodPost, "/api/v1/codes/claim", dto.ClaimCodeRequest{
			Code:      "WELCOME2026",
			AccountID: accountID,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		resp := decodeJSON[dto.ClaimCodeResponse](t, w)
		if !resp.IsUsed || resp.UsedBy == nil || *resp.UsedBy != accountID {
			t.Errorf("expected code claimed by %s, got %+v", accountID, resp)
		}
	})

	t.Run("second claim gets 409 with holder", func(t *testing.T) {
		w := stack.do(t, http.MethodPost, "/api/v1/codes/claim", dto.ClaimCodeRequest{
			Code:      "WELCOME2026",
			AccountID: otherID,
		})
		if w.Code != http.StatusConflict {
			t.Fatalf("expected status %d, got %d: %s", http.StatusConflict, w.Code, w.Body.String())
		}

		resp := decodeJSON[dto.ClaimCodeResponse](t, w)
		if resp.UsedBy == nil || *resp.UsedBy != accountID {
			t.Error("conflict response must name the first claimant")
		}
	})

	t.Run("malformed code rejected", func(t *testing.T) {
		w := stack.do(t, http.MethodPost, "/api/v1/codes/claim", dto.ClaimCodeRequest{
			Code:      "bad",
			AccountID: accountID,
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
	})

	t.Run("unknown code returns 404", func(t *testing.T) {
		w := stack.do(t, http.MethodPost, "/api/v1/codes/claim", dto.ClaimCodeRequest{
			Code:      "NOSUCHCODE1",
			AccountID: accountID,
		})
		if w.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
		}
	})
}

func TestClaimCodeRace(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	stack.DB.CreateTestCode(ctx, "RACECODE2026")

	const racers = 10
	accountIDs := make([]string, racers)
	for i := range accountIDs {
		accountIDs[i] = stack.DB.CreateTestAccount(ctx, "racer", "USD")
	}

	var wg sync.WaitGroup
	codes := make([]int, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := stack.do(t, http.MethodPost, "/api/v1/codes/claim", dto.ClaimCodeRequest{
				Code:      "RACECODE2026",
				AccountID: accountIDs[i],
			})
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, code := range codes {
		switch code {
		case http.StatusOK:
			winners++
		case http.StatusConflict:
		default:
			t.Errorf("unexpected status %d", code)
		}
	}

	if winners != 1 {
		t.Errorf("expected exactly one winner, got %d", winners)
	}
}
