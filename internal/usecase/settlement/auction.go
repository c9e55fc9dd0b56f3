package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/soluna-labs/soluna-access-service/internal/domain"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/kafka"
)

// SettleExpiredAuctions closes every auction whose deadline has passed.
// Auctions with at least one bid become SOLD to the highest bidder at the
// bid amount; auctions without bids become EXPIRED. The sweep is safe to run
// concurrently with lazy expiry on the read path because only status and
// sold fields change, both behind conditional updates.
func (uc *DefaultSettlementUsecase) SettleExpiredAuctions(ctx context.Context) error {
	now := time.Now()
	posts, err := uc.PostRepo.FindExpiredActiveAuctions(ctx, now)
	if err != nil {
		return fmt.Errorf("listing expired auctions: %w", err)
	}

	var firstErr error
	for _, post := range posts {
		if err := uc.settleAuction(ctx, post, now); err != nil {
			slog.Error("auction settlement failed", "post_id", post.ID, "error", err.Error())
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (uc *DefaultSettlementUsecase) settleAuction(ctx context.Context, post *domain.Post, now time.Time) error {
	if post.Auction == nil {
		return nil
	}

	winner, err := uc.Ledger.HighestBid(ctx, post.ID)
	if err != nil {
		return fmt.Errorf("resolving highest bid for auction on post %s: %w", post.ID, err)
	}

	if winner == nil {
		if err := uc.PostRepo.UpdateAuctionStatus(ctx, post.ID, domain.AuctionExpired); err != nil {
			return err
		}
		slog.Info("auction expired without bids", "post_id", post.ID)
		return nil
	}

	if err := uc.PostRepo.MarkSold(ctx, post.ID, winner.BidderID, winner.Amount, now); err != nil {
		return fmt.Errorf("marking auctioned post sold: %w", err)
	}
	if err := uc.PostRepo.UpdateAuctionStatus(ctx, post.ID, domain.AuctionSold); err != nil {
		return err
	}

	uc.Metrics.SettlementsTotal.WithLabelValues("auction", "recorded").Inc()
	uc.Metrics.SettlementAmountTotal.WithLabelValues("auction", post.Currency).Add(float64(winner.Amount))

	uc.publishAsync(kafka.SettlementEvent{
		Kind:      "auction_sold",
		PostID:    post.ID,
		CreatorID: post.CreatorID,
		BuyerID:   winner.BidderID,
		Amount:    winner.Amount,
		Currency:  post.Currency,
		Status:    string(domain.AuctionSold),
	})

	slog.Info("auction settled",
		"post_id", post.ID, "winner_id", winner.BidderID, "amount", winner.Amount)
	return nil
}
