package domain

import "errors"

var (
	// Mutation errors
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidScale         = errors.New("amount has more than two decimal places")
	ErrInvalidDirection     = errors.New("direction must be credit or debit")
	ErrInvalidLabel         = errors.New("unknown movement label")
	ErrUnknownAccount       = errors.New("account not found or inactive")
	ErrUnknownSubAccount    = errors.New("sub-account not found or inactive")
	ErrUnknownCurrency      = errors.New("unknown currency code")
	ErrUnsupportedCurrency  = errors.New("currency not supported by this account")
	ErrMovementNotFound     = errors.New("movement not found")
	ErrInconsistentSnapshot = errors.New("movement snapshot does not match balance delta")

	// Orchestrator errors
	ErrSameCurrency           = errors.New("cannot exchange a currency for itself")
	ErrUnknownTransactionKind = errors.New("unknown sub-account transaction kind")
	ErrForeignSubAccount      = errors.New("sub-account is not owned by this account")
	ErrHawalaNotFound         = errors.New("hawala not found")
	ErrExchangeNotFound       = errors.New("exchange not found")

	// Claim errors
	ErrCodeNotFound   = errors.New("activation code not found")
	ErrInvalidCode    = errors.New("invalid activation code format")
	ErrAlreadyClaimed = errors.New("activation code already claimed")

	// Concurrency and persistence
	ErrConcurrentConflict = errors.New("concurrent conflict, safe to retry")

	// Actor resolution
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrNoActor      = errors.New("no actor resolved for request")
)
