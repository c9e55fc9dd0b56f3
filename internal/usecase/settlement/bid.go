package settlement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/soluna-labs/soluna-access-service/internal/domain"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/kafka"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// PlaceBid settles a deposit for an auction bid and records the bid. The
// minimum-bid check runs twice: once up front against the highest known bid
// so losers fail before any money moves, and again inside the row-locked
// ledger transaction which is the authoritative decision.
func (uc *DefaultSettlementUsecase) PlaceBid(ctx context.Context, input *BidInput, progress ProgressFunc) (*Receipt, error) {
	start := time.Now()
	receipt := &Receipt{AttemptID: newAttemptID(), Status: domain.SettlementBuilding}

	post, err := uc.PostRepo.GetPostByID(ctx, input.PostID)
	if err != nil {
		return receipt, status.Error(codes.NotFound, "post not found")
	}
	if post.Sellable == nil || post.Sellable.SellType != domain.SellAuction || post.Auction == nil {
		return receipt, domain.ErrPostNotForSale
	}
	if input.BidderID == post.CreatorID {
		return receipt, domain.ErrSelfPurchase
	}

	now := time.Now()
	switch post.Auction.Status {
	case domain.AuctionActive:
		if !post.AuctionOpen(now) {
			uc.Metrics.BidsTotal.WithLabelValues("rejected_ended").Inc()
			return receipt, domain.ErrAuctionEnded
		}
	case domain.AuctionEnded, domain.AuctionSold, domain.AuctionExpired:
		uc.Metrics.BidsTotal.WithLabelValues("rejected_ended").Inc()
		return receipt, domain.ErrAuctionEnded
	default:
		uc.Metrics.BidsTotal.WithLabelValues("rejected_not_active").Inc()
		return receipt, domain.ErrAuctionNotActive
	}

	// Advisory floor check against the latest recorded bid.
	if highest, err := uc.Ledger.HighestBid(ctx, post.ID); err == nil {
		if highest != nil {
			post.Auction.CurrentBid = highest.Amount
		}
	}
	if input.Amount < uc.Pricing.MinNextBid(post) {
		uc.Metrics.BidsTotal.WithLabelValues("rejected_too_low").Inc()
		return receipt, domain.ErrBidTooLow
	}

	receipt.PricePaid = input.Amount
	receipt.Currency = post.Currency

	// The deposit escrows into the platform treasury; the creator split
	// happens at auction settlement, not per bid.
	if uc.BidDepositLamports > 0 {
		legs := []domain.TransferLeg{{ToWallet: uc.PlatformWallet, Lamports: uc.BidDepositLamports}}
		signature, err := uc.executeTransfer(ctx, "bid", input.BidderWallet, legs, "bid:"+post.ID, progress)
		receipt.TxSignature = signature
		if err != nil {
			receipt.Status = failureStatus(err)
			uc.Metrics.BidsTotal.WithLabelValues("deposit_failed").Inc()
			report(progress, StageFailed)
			return receipt, err
		}
		receipt.Status = domain.SettlementConfirmed
	}

	bid := &domain.Bid{
		ID:          uuid.New().String(),
		AuctionID:   post.ID,
		BidderID:    input.BidderID,
		Wallet:      input.BidderWallet,
		Amount:      input.Amount,
		TxSignature: receipt.TxSignature,
		PlacedAt:    now,
	}
	recorded, err := uc.Ledger.PlaceBid(ctx, bid)
	if err != nil {
		if receipt.TxSignature != "" {
			// Deposit confirmed but the bid lost the row-locked race or the
			// write failed. The signature is preserved for the refund path.
			uc.Metrics.ReconciliationTotal.WithLabelValues("bid").Inc()
			report(progress, StageFailed)
			return receipt, &domain.ReconciliationError{TxSignature: receipt.TxSignature, Err: err}
		}
		uc.Metrics.BidsTotal.WithLabelValues("rejected_at_record").Inc()
		report(progress, StageFailed)
		return receipt, err
	}
	receipt.Bid = recorded
	receipt.Status = domain.SettlementRecorded

	uc.Metrics.BidsTotal.WithLabelValues("accepted").Inc()
	uc.Metrics.SettlementDuration.WithLabelValues("bid").Observe(time.Since(start).Seconds())

	uc.publishAsync(kafka.SettlementEvent{
		Kind:        "bid",
		PostID:      post.ID,
		CreatorID:   post.CreatorID,
		BuyerID:     input.BidderID,
		Amount:      input.Amount,
		Currency:    post.Currency,
		TxSignature: receipt.TxSignature,
		Status:      string(domain.SettlementRecorded),
	})

	report(progress, StageDone)
	return receipt, nil
}
