package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxMovementAmount    = "1000000000000" // 1 trillion
	AmountScale          = 2
	MinCodeLength        = 8
	MaxCodeLength        = 32
	MaxDescriptionLength = 1024
)

// Currencies the exchange office trades in (ISO 4217).
var validCurrencies = map[string]bool{
	"AFN": true, "USD": true, "EUR": true, "GBP": true,
	"PKR": true, "IRR": true, "AED": true, "SAR": true,
	"TRY": true, "INR": true, "CNY": true, "RUB": true,
	"CAD": true, "AUD": true, "JPY": true, "CHF": true,
}

var codeRegex = regexp.MustCompile(`^[A-Z0-9]+$`)

// ValidateAmount checks that an amount is positive, within bounds, and has
// at most two decimal places.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if !amount.Equal(amount.Round(AmountScale)) {
		return fmt.Errorf("%w: %s", ErrInvalidScale, amount)
	}

	maxAmount, _ := decimal.NewFromString(MaxMovementAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrInvalidAmount, MaxMovementAmount)
	}

	return nil
}

// ValidateCurrency checks a currency code against the supported set.
func ValidateCurrency(currency string) error {
	if !validCurrencies[strings.ToUpper(strings.TrimSpace(currency))] {
		return fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}
	return nil
}

// NormalizeCurrency upper-cases and trims a currency code.
func NormalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}

// ValidateCode checks the shape of an activation code before touching
// storage.
func ValidateCode(code string) error {
	if len(code) < MinCodeLength || len(code) > MaxCodeLength {
		return fmt.Errorf("%w: length must be between %d and %d", ErrInvalidCode, MinCodeLength, MaxCodeLength)
	}

	if !codeRegex.MatchString(code) {
		return fmt.Errorf("%w: only uppercase letters and digits allowed", ErrInvalidCode)
	}

	return nil
}

// ValidateDescription bounds free-text descriptions.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("description exceeds %d characters", MaxDescriptionLength)
	}
	return nil
}

// ValidatePagination clamps pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
