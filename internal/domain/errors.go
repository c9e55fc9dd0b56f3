package domain

import (
	"errors"
	"fmt"
)

var (
	ErrPostNotFound        = errors.New("post not found")
	ErrPostNotForSale      = errors.New("post is not for sale")
	ErrPostAlreadySold     = errors.New("post has already been sold")
	ErrSelfPurchase        = errors.New("buyer cannot purchase own post")
	ErrPlatformIsBuyer     = errors.New("platform treasury wallet cannot act as buyer")
	ErrInvalidWallet       = errors.New("malformed wallet address")
	ErrBidTooLow           = errors.New("bid below current price plus step")
	ErrAuctionNotActive    = errors.New("auction is not active")
	ErrAuctionEnded        = errors.New("auction has ended")
	ErrFlashSaleExpired    = errors.New("flash sale has ended")
	ErrFlashSaleExhausted  = errors.New("flash sale redemption limit reached")
	ErrAlreadyRedeemed     = errors.New("buyer already redeemed this flash sale")
	ErrUserCancelled       = errors.New("cancelled by user")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrBlockhashExpired    = errors.New("blockhash expired")
	ErrDuplicateSignature  = errors.New("settlement already recorded for signature")
	ErrConfirmationUnknown = errors.New("confirmation status unknown, check later")
)

// LedgerRejectedError is a definitive rejection by the external ledger.
// It is surfaced with the specific reason and never retried automatically.
type LedgerRejectedError struct {
	Reason string
	Err    error
}

func (e *LedgerRejectedError) Error() string {
	return fmt.Sprintf("ledger rejected transaction: %s", e.Reason)
}

func (e *LedgerRejectedError) Unwrap() error { return e.Err }

// ReconciliationError means money moved but the bookkeeping write failed.
// The signature is preserved so recording can be retried without a second
// transfer. This is the only error class the caller must treat as
// "do not let the user pay twice".
type ReconciliationError struct {
	TxSignature string
	Err         error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("payment confirmed (signature %s) but recording failed: %v", e.TxSignature, e.Err)
}

func (e *ReconciliationError) Unwrap() error { return e.Err }

// TransientNetworkError wraps a failure worth retrying within the bounded
// retry policy.
type TransientNetworkError struct {
	Err error
}

func (e *TransientNetworkError) Error() string {
	return fmt.Sprintf("transient network error: %v", e.Err)
}

func (e *TransientNetworkError) Unwrap() error { return e.Err }

func IsTransient(err error) bool {
	var t *TransientNetworkError
	return errors.As(err, &t)
}
