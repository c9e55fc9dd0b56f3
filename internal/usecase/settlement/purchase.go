package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/soluna-labs/soluna-access-service/internal/domain"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/kafka"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func newAttemptID() string {
	gen, err := nanoid.Standard(15)
	if err != nil {
		return uuid.New().String()
	}
	return gen()
}

// InitiatePurchase settles a paid unlock or a fixed-price sellable buy:
// price resolution (with advisory flash-sale hold), fee split, on-ledger
// transfer, then atomic recording. Records are written only after a
// positive confirmation; a recording failure after confirmation comes back
// as ReconciliationError with the signature preserved in the receipt.
func (uc *DefaultSettlementUsecase) InitiatePurchase(ctx context.Context, input *PurchaseInput, progress ProgressFunc) (*Receipt, error) {
	start := time.Now()
	receipt := &Receipt{AttemptID: newAttemptID(), Status: domain.SettlementBuilding}

	post, err := uc.PostRepo.GetPostByID(ctx, input.PostID)
	if err != nil {
		return receipt, status.Error(codes.NotFound, "post not found")
	}
	if err := uc.validatePurchasable(post, input.BuyerID); err != nil {
		return receipt, err
	}

	wallets, err := uc.Wallets.GetCreatorWallet(ctx, post.CreatorID)
	if err != nil {
		return receipt, status.Errorf(codes.FailedPrecondition, "creator wallet unavailable: %v", err)
	}

	now := time.Now()
	flashSaleUsed := uc.holdFlashSaleSlot(ctx, post, input.BuyerID, now)

	price := uc.Pricing.FinalPrice(post, now)
	if !flashSaleUsed && post.FlashSale != nil {
		// Hold denied or window closed: the discount silently degrades to
		// the base price.
		price = post.PriceLamports
	}
	dist := uc.Pricing.Distribute(price, wallets)

	receipt.PricePaid = price
	receipt.Currency = post.Currency
	receipt.Distribution = dist

	signature, err := uc.executeTransfer(ctx, "purchase", input.BuyerWallet, buildLegs(dist, uc.PlatformWallet), "purchase:"+post.ID, progress)
	receipt.TxSignature = signature
	if err != nil {
		uc.releaseFlashSaleSlot(ctx, post, input.BuyerID, flashSaleUsed)
		receipt.Status = failureStatus(err)
		uc.Metrics.SettlementsTotal.WithLabelValues("purchase", "failed").Inc()
		report(progress, StageFailed)
		return receipt, err
	}
	receipt.Status = domain.SettlementConfirmed

	if err := uc.recordPurchase(ctx, post, input, receipt, flashSaleUsed, now); err != nil {
		uc.Metrics.ReconciliationTotal.WithLabelValues("purchase").Inc()
		report(progress, StageFailed)
		return receipt, err
	}
	receipt.Status = domain.SettlementRecorded

	uc.releaseFlashSaleSlot(ctx, post, input.BuyerID, flashSaleUsed)
	uc.Metrics.SettlementsTotal.WithLabelValues("purchase", "recorded").Inc()
	uc.Metrics.SettlementAmountTotal.WithLabelValues("purchase", post.Currency).Add(float64(price))
	uc.Metrics.SettlementDuration.WithLabelValues("purchase").Observe(time.Since(start).Seconds())

	uc.publishAsync(kafka.SettlementEvent{
		Kind:        "purchase",
		PostID:      post.ID,
		CreatorID:   post.CreatorID,
		BuyerID:     input.BuyerID,
		Amount:      price,
		Currency:    post.Currency,
		TxSignature: signature,
		Status:      string(domain.SettlementRecorded),
	})

	report(progress, StageDone)
	return receipt, nil
}

// RetryPurchaseRecording re-runs only the recording step of a settlement
// whose transfer already confirmed. It re-checks the signature on the
// ledger and then persists with the existing signature; a new transfer is
// never submitted from here.
func (uc *DefaultSettlementUsecase) RetryPurchaseRecording(ctx context.Context, input *PurchaseInput, receipt *Receipt) (*Receipt, error) {
	if receipt == nil || receipt.TxSignature == "" {
		return nil, status.Error(codes.InvalidArgument, "no transaction signature to retry recording for")
	}

	sigStatus, err := uc.Chain.GetSignatureStatus(ctx, receipt.TxSignature)
	if err != nil {
		return receipt, &domain.ReconciliationError{TxSignature: receipt.TxSignature, Err: err}
	}
	if sigStatus != domain.SignatureConfirmed {
		return receipt, status.Errorf(codes.FailedPrecondition,
			"signature %s is not confirmed (%s), refusing to record", receipt.TxSignature, sigStatus)
	}

	post, err := uc.PostRepo.GetPostByID(ctx, input.PostID)
	if err != nil {
		return receipt, &domain.ReconciliationError{TxSignature: receipt.TxSignature, Err: err}
	}

	// A retry coming over the wire may carry only the signature and price.
	// The split is deterministic for a given price, so rebuild it.
	if receipt.Distribution.Total() == 0 && receipt.PricePaid > 0 {
		wallets, err := uc.Wallets.GetCreatorWallet(ctx, post.CreatorID)
		if err != nil {
			return receipt, &domain.ReconciliationError{TxSignature: receipt.TxSignature, Err: err}
		}
		receipt.Distribution = uc.Pricing.Distribute(receipt.PricePaid, wallets)
	}

	flashSaleUsed := post.FlashSale != nil && receipt.PricePaid < post.PriceLamports
	if err := uc.recordPurchase(ctx, post, input, receipt, flashSaleUsed, time.Now()); err != nil {
		uc.Metrics.ReconciliationTotal.WithLabelValues("purchase_retry").Inc()
		return receipt, err
	}
	receipt.Status = domain.SettlementRecorded
	uc.Metrics.SettlementsTotal.WithLabelValues("purchase", "recorded_on_retry").Inc()
	return receipt, nil
}

func (uc *DefaultSettlementUsecase) validatePurchasable(post *domain.Post, buyerID string) error {
	if buyerID == post.CreatorID {
		return domain.ErrSelfPurchase
	}
	if post.Sellable != nil {
		if post.Sellable.SellType == domain.SellAuction {
			return status.Error(codes.FailedPrecondition, "auction posts are settled through bids")
		}
		if post.IsSold() {
			return domain.ErrPostAlreadySold
		}
	}
	if post.PriceLamports <= 0 {
		return status.Error(codes.FailedPrecondition, "post has no price")
	}
	return nil
}

// holdFlashSaleSlot takes the advisory reservation when a discount window
// is open. The hold only shapes the quoted price; the authoritative check
// happens again inside the redemption transaction at recording time.
func (uc *DefaultSettlementUsecase) holdFlashSaleSlot(ctx context.Context, post *domain.Post, buyerID string, now time.Time) bool {
	if post.FlashSale == nil {
		return false
	}
	if used, err := uc.Ledger.CountRedemptions(ctx, post.FlashSale.ID); err == nil {
		post.FlashSale.UsedCount = used
	}
	if !post.FlashSale.Active(now) {
		return false
	}

	// Buyer-level uniqueness: one discount per buyer per sale, ever. The
	// redis hold expires after a purchase, so the ledger row is what blocks
	// a repeat buyer from being quoted the discount again.
	redeemed, err := uc.Ledger.HasRedeemed(ctx, post.FlashSale.ID, buyerID)
	if err != nil {
		slog.Warn("redemption check unavailable, charging base price",
			"flash_sale_id", post.FlashSale.ID, "buyer_id", buyerID, "error", err.Error())
		return false
	}
	if redeemed {
		return false
	}

	held, err := uc.Holds.Hold(ctx, post.FlashSale.ID, buyerID, uc.HoldTTL)
	if err != nil {
		// Advisory only: a cache outage must not block a purchase.
		slog.Warn("flash sale hold unavailable", "flash_sale_id", post.FlashSale.ID, "error", err.Error())
		return true
	}
	return held
}

func (uc *DefaultSettlementUsecase) releaseFlashSaleSlot(ctx context.Context, post *domain.Post, buyerID string, held bool) {
	if !held || post.FlashSale == nil {
		return
	}
	if err := uc.Holds.Release(ctx, post.FlashSale.ID, buyerID); err != nil {
		slog.Warn("failed to release flash sale hold", "flash_sale_id", post.FlashSale.ID, "error", err.Error())
	}
}

// recordPurchase persists the outcome of a confirmed transfer: the
// redemption (validated atomically against the cap and buyer uniqueness),
// the purchase row keyed by signature, and the sold flip for fixed-price
// sellables. Any failure here wraps into ReconciliationError because the
// money has already moved.
func (uc *DefaultSettlementUsecase) recordPurchase(ctx context.Context, post *domain.Post, input *PurchaseInput, receipt *Receipt, flashSaleUsed bool, now time.Time) error {
	if flashSaleUsed && post.FlashSale != nil {
		_, err := uc.Ledger.Redeem(ctx, &domain.Redemption{
			ID:                uuid.New().String(),
			FlashSaleID:       post.FlashSale.ID,
			BuyerID:           input.BuyerID,
			PriceAtRedemption: receipt.PricePaid,
			CreatedAt:         now,
		})
		switch {
		case err == nil:
			uc.Metrics.RedemptionsTotal.WithLabelValues("granted").Inc()
		case errors.Is(err, domain.ErrAlreadyRedeemed):
			// Benign only when this exact settlement was recorded before.
			// Otherwise the buyer slipped past the redemption check and the
			// purchase stands at the price actually paid.
			if prior, getErr := uc.PurchaseRepo.GetByTxSignature(ctx, receipt.TxSignature); getErr != nil || prior == nil {
				uc.Metrics.RedemptionsTotal.WithLabelValues("denied").Inc()
				slog.Warn("buyer already redeemed this flash sale, recording at price paid",
					"flash_sale_id", post.FlashSale.ID, "buyer_id", input.BuyerID)
			}
		case errors.Is(err, domain.ErrFlashSaleExhausted), errors.Is(err, domain.ErrFlashSaleExpired):
			// The discount was honored on-ledger but lost the slot race.
			// The purchase stands at the price actually paid.
			uc.Metrics.RedemptionsTotal.WithLabelValues("denied").Inc()
			slog.Warn("flash sale slot lost between hold and recording",
				"flash_sale_id", post.FlashSale.ID, "buyer_id", input.BuyerID, "error", err.Error())
		default:
			return &domain.ReconciliationError{TxSignature: receipt.TxSignature, Err: err}
		}
	}

	purchase := &domain.Purchase{
		ID:           uuid.New().String(),
		PostID:       post.ID,
		BuyerID:      input.BuyerID,
		PricePaid:    receipt.PricePaid,
		Currency:     post.Currency,
		TxSignature:  receipt.TxSignature,
		Distribution: receipt.Distribution,
		CreatedAt:    now,
	}
	recorded, err := uc.PurchaseRepo.RecordPurchase(ctx, purchase)
	if err != nil {
		return &domain.ReconciliationError{TxSignature: receipt.TxSignature, Err: err}
	}
	receipt.Purchase = recorded

	if post.Sellable != nil && post.Sellable.SellType == domain.SellFixedPrice {
		if err := uc.markSoldTo(ctx, post.ID, input.BuyerID, receipt, now); err != nil {
			return err
		}
	}
	return nil
}

// markSoldTo flips the post to this buyer. ErrPostAlreadySold is benign only
// when the stored sold_to_id is this buyer, meaning a retried recording after
// a partial failure. Sold to anyone else means this buyer paid and lost the
// race, and that stays a ReconciliationError until the refund happens; it
// must never be reported as a successful settlement.
func (uc *DefaultSettlementUsecase) markSoldTo(ctx context.Context, postID, buyerID string, receipt *Receipt, now time.Time) error {
	err := uc.PostRepo.MarkSold(ctx, postID, buyerID, receipt.PricePaid, now)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrPostAlreadySold) {
		current, readErr := uc.PostRepo.GetPostByID(ctx, postID)
		if readErr == nil && current.SoldToID == buyerID {
			return nil
		}
		return &domain.ReconciliationError{TxSignature: receipt.TxSignature, Err: fmt.Errorf("post sold to another buyer: %w", err)}
	}
	return &domain.ReconciliationError{TxSignature: receipt.TxSignature, Err: fmt.Errorf("marking post sold: %w", err)}
}

func (uc *DefaultSettlementUsecase) publishAsync(event kafka.SettlementEvent) {
	if uc.Publisher == nil {
		return
	}
	go func() {
		if err := uc.Publisher.PublishSettlement(event); err != nil {
			slog.Error("failed to publish settlement event", "kind", event.Kind, "error", err.Error())
		}
	}()
}

func failureStatus(err error) domain.SettlementStatus {
	switch {
	case errors.Is(err, domain.ErrConfirmationUnknown):
		return domain.SettlementSubmitted
	case errors.Is(err, domain.ErrBlockhashExpired):
		return domain.SettlementExpired
	case errors.Is(err, domain.ErrUserCancelled):
		return domain.SettlementFailed
	}
	var rejected *domain.LedgerRejectedError
	if errors.As(err, &rejected) {
		return domain.SettlementRejected
	}
	return domain.SettlementFailed
}
