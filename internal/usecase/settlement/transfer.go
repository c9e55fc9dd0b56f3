package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/soluna-labs/soluna-access-service/internal/domain"
)

// base58 alphabet used by ledger addresses; 0, O, I and l are excluded.
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

func validWallet(addr string) bool {
	if len(addr) < 32 || len(addr) > 44 {
		return false
	}
	for _, c := range addr {
		found := false
		for _, a := range base58Alphabet {
			if c == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func buildLegs(dist domain.Distribution, platformWallet string) []domain.TransferLeg {
	legs := make([]domain.TransferLeg, 0, 3)
	if dist.CreatorAmount > 0 {
		legs = append(legs, domain.TransferLeg{ToWallet: dist.CreatorWallet, Lamports: dist.CreatorAmount})
	}
	if dist.PlatformAmount > 0 {
		legs = append(legs, domain.TransferLeg{ToWallet: platformWallet, Lamports: dist.PlatformAmount})
	}
	if dist.ReferrerAmount > 0 && dist.ReferrerWallet != "" {
		legs = append(legs, domain.TransferLeg{ToWallet: dist.ReferrerWallet, Lamports: dist.ReferrerAmount})
	}
	return legs
}

// validateTransferParties runs the Building-stage guards: well-formed
// addresses everywhere, and the buyer wallet distinct from every receiving
// wallet. The platform treasury acting as buyer gets its own guard because
// that failure mode must never pass silently.
func (uc *DefaultSettlementUsecase) validateTransferParties(from string, legs []domain.TransferLeg) error {
	if !validWallet(from) {
		return fmt.Errorf("%w: buyer wallet %q", domain.ErrInvalidWallet, from)
	}
	if from == uc.PlatformWallet {
		return domain.ErrPlatformIsBuyer
	}
	for _, leg := range legs {
		if !validWallet(leg.ToWallet) {
			return fmt.Errorf("%w: recipient wallet %q", domain.ErrInvalidWallet, leg.ToWallet)
		}
		if leg.ToWallet == from {
			return domain.ErrSelfPurchase
		}
	}
	return nil
}

// executeTransfer drives one settlement attempt through the ledger:
// Building -> Simulated -> Submitted -> Confirmed. It returns the
// transaction signature once a positive confirmation is observed.
//
// A fresh blockhash is fetched immediately before every submission attempt;
// blockhashes expire, so reusing one across retries would guarantee a
// rejection. Transient submission errors retry within the bounded policy,
// permanent rejections abort immediately.
func (uc *DefaultSettlementUsecase) executeTransfer(ctx context.Context, kind, from string, legs []domain.TransferLeg, memo string, progress ProgressFunc) (string, error) {
	report(progress, StageBuilding)
	if err := uc.validateTransferParties(from, legs); err != nil {
		return "", err
	}

	tx := &domain.TransferTx{
		FromWallet: from,
		Legs:       legs,
		Memo:       memo,
	}

	// Dry run. The simulator can reject transactions that would succeed at
	// execution time, so a failure here is logged and nothing more.
	if blockhash, err := uc.Chain.GetLatestBlockhash(ctx); err == nil {
		tx.Blockhash = blockhash
		if simErr := uc.Chain.Simulate(ctx, tx); simErr != nil {
			slog.Warn("transfer simulation failed, proceeding to submission",
				"memo", memo, "error", simErr.Error())
		}
	}

	signature, err := uc.submitWithRetry(ctx, tx)
	if err != nil {
		return "", err
	}
	report(progress, StageSubmitted)

	report(progress, StageConfirming)
	submittedAt := time.Now()
	if err := uc.awaitConfirmation(ctx, signature); err != nil {
		return signature, err
	}
	uc.Metrics.ConfirmationDuration.WithLabelValues(kind).Observe(time.Since(submittedAt).Seconds())
	return signature, nil
}

func (uc *DefaultSettlementUsecase) submitWithRetry(ctx context.Context, tx *domain.TransferTx) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= uc.Retry.MaxAttempts; attempt++ {
		if err := uc.sleep(ctx, uc.Retry.Delay(attempt)); err != nil {
			return "", err
		}

		blockhash, err := uc.Chain.GetLatestBlockhash(ctx)
		if err != nil {
			lastErr = err
			if !domain.IsTransient(err) {
				return "", err
			}
			uc.Metrics.SubmitAttemptsTotal.WithLabelValues("blockhash_error").Inc()
			continue
		}
		tx.Blockhash = blockhash

		signature, err := uc.Chain.Submit(ctx, tx)
		if err == nil {
			uc.Metrics.SubmitAttemptsTotal.WithLabelValues("ok").Inc()
			return signature, nil
		}
		lastErr = err

		var rejected *domain.LedgerRejectedError
		if errors.As(err, &rejected) || errors.Is(err, domain.ErrUserCancelled) || !domain.IsTransient(err) {
			uc.Metrics.SubmitAttemptsTotal.WithLabelValues("rejected").Inc()
			return "", err
		}
		uc.Metrics.SubmitAttemptsTotal.WithLabelValues("transient_error").Inc()
		slog.Warn("transient submission failure", "attempt", attempt, "error", err.Error())
	}
	return "", fmt.Errorf("submission failed after %d attempts: %w", uc.Retry.MaxAttempts, lastErr)
}

// awaitConfirmation polls the signature status. A signature that is not yet
// visible counts as still pending, not failed; only an explicit failure
// status fails the settlement. Exhausting the poll budget yields
// ErrConfirmationUnknown, never a fabricated failure.
func (uc *DefaultSettlementUsecase) awaitConfirmation(ctx context.Context, signature string) error {
	if err := uc.sleep(ctx, uc.Confirm.SettleDelay); err != nil {
		return err
	}

	for poll := 0; poll < uc.Confirm.MaxPolls; poll++ {
		status, err := uc.Chain.GetSignatureStatus(ctx, signature)
		if err != nil {
			slog.Warn("signature status check failed", "signature", signature, "error", err.Error())
		} else {
			switch status {
			case domain.SignatureConfirmed:
				return nil
			case domain.SignatureFailed:
				return &domain.LedgerRejectedError{Reason: "transaction failed on ledger"}
			case domain.SignaturePending, domain.SignatureNotFound:
				// Not visible yet. Finality takes multiple confirmations.
			}
		}
		if err := uc.sleep(ctx, uc.Confirm.PollInterval); err != nil {
			return err
		}
	}
	return domain.ErrConfirmationUnknown
}

// sleep waits the given duration unless the caller abandons the settlement,
// which surfaces as a user cancellation.
func (uc *DefaultSettlementUsecase) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		if ctx.Err() != nil {
			return domain.ErrUserCancelled
		}
		return nil
	}
	select {
	case <-ctx.Done():
		return domain.ErrUserCancelled
	case <-time.After(d):
		return nil
	}
}
