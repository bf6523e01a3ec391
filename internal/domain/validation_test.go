package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  decimal.Decimal
		wantErr error
	}{
		{"positive integer", decimal.NewFromInt(100), nil},
		{"two decimal places", decimal.RequireFromString("99.99"), nil},
		{"zero", decimal.Zero, ErrInvalidAmount},
		{"negative", decimal.NewFromInt(-5), ErrInvalidAmount},
		{"three decimal places", decimal.RequireFromString("10.001"), ErrInvalidScale},
		{"over maximum", decimal.RequireFromString("1000000000001"), ErrInvalidAmount},
		{"at maximum", decimal.RequireFromString("1000000000000"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(tt.amount)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateCurrency(t *testing.T) {
	for _, currency := range []string{"AFN", "USD", "EUR", "PKR", "usd", " eur "} {
		if err := ValidateCurrency(currency); err != nil {
			t.Errorf("expected %q to be valid: %v", currency, err)
		}
	}

	for _, currency := range []string{"", "XYZ", "DOLLAR", "BTC"} {
		if err := ValidateCurrency(currency); !errors.Is(err, ErrUnknownCurrency) {
			t.Errorf("expected %q to be rejected, got %v", currency, err)
		}
	}
}

func TestNormalizeCurrency(t *testing.T) {
	if got := NormalizeCurrency(" usd "); got != "USD" {
		t.Errorf("expected USD, got %q", got)
	}
}

func TestValidateCode(t *testing.T) {
	if err := ValidateCode("ABCD1234"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	tests := []string{
		"SHORT",                  // too short
		"abcd1234",               // lowercase
		"ABCD-1234",              // punctuation
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", // too long
	}
	for _, code := range tests {
		if err := ValidateCode(code); !errors.Is(err, ErrInvalidCode) {
			t.Errorf("expected %q to be rejected, got %v", code, err)
		}
	}
}

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, 0, 50, 0},
		{-1, -1, 50, 0},
		{20, 10, 20, 10},
		{5000, 0, 1000, 0},
	}

	for _, tt := range tests {
		limit, offset := ValidatePagination(tt.limit, tt.offset)
		if limit != tt.wantLimit || offset != tt.wantOffset {
			t.Errorf("ValidatePagination(%d, %d) = (%d, %d), want (%d, %d)",
				tt.limit, tt.offset, limit, offset, tt.wantLimit, tt.wantOffset)
		}
	}
}

func TestValidateDescription(t *testing.T) {
	if err := ValidateDescription("cash deposit at counter"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	long := make([]byte, MaxDescriptionLength+1)
	for i := range long {
		long[i] = 'a'
	}
	if err := ValidateDescription(string(long)); err == nil {
		t.Error("expected overlong description to be rejected")
	}
}
