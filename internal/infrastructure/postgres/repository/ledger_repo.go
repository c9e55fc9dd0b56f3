package repository

import (
	"context"
	"errors"
	"time"

	"github.com/soluna-labs/soluna-access-service/internal/domain"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/postgres/mappers"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultRedemptionLedger is the authoritative writer for the two contended
// counters: flash-sale used_count and the auction's current highest bid.
// Every mutation re-validates inside a transaction holding the parent row
// lock, so concurrent settlements serialize on the database.
type DefaultRedemptionLedger struct {
	DB *gorm.DB
}

func NewDefaultRedemptionLedger(db *gorm.DB) *DefaultRedemptionLedger {
	return &DefaultRedemptionLedger{DB: db}
}

func (r *DefaultRedemptionLedger) Redeem(ctx context.Context, red *domain.Redemption) (*domain.Redemption, error) {
	redModel := mappers.ToModelRedemption(red)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sale models.FlashSaleModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&sale, "id = ?", red.FlashSaleID).Error; err != nil {
			return err
		}

		now := red.CreatedAt
		if now.IsZero() {
			now = time.Now()
		}
		if now.Before(sale.StartAt) || !now.Before(sale.EndAt) {
			return domain.ErrFlashSaleExpired
		}
		if sale.MaxRedemptions > 0 && sale.UsedCount >= sale.MaxRedemptions {
			return domain.ErrFlashSaleExhausted
		}

		var existing int64
		if err := tx.Model(&models.RedemptionModel{}).
			Where("flash_sale_id = ? AND buyer_id = ?", red.FlashSaleID, red.BuyerID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return domain.ErrAlreadyRedeemed
		}

		if err := tx.Create(redModel).Error; err != nil {
			return err
		}

		return tx.Model(&models.FlashSaleModel{}).
			Where("id = ?", red.FlashSaleID).
			Update("used_count", gorm.Expr("used_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	return mappers.ToDomainRedemption(redModel), nil
}

func (r *DefaultRedemptionLedger) PlaceBid(ctx context.Context, bid *domain.Bid) (*domain.Bid, error) {
	bidModel := mappers.ToModelBid(bid)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.PostModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&post, "id = ?", bid.AuctionID).Error; err != nil {
			return err
		}

		if post.AuctionStatus != string(domain.AuctionActive) {
			return domain.ErrAuctionNotActive
		}
		now := bid.PlacedAt
		if now.IsZero() {
			now = time.Now()
		}
		if !now.Before(post.AuctionEndAt) {
			return domain.ErrAuctionEnded
		}

		floor := post.AuctionStartPrice
		if post.AuctionCurrentBid > 0 {
			floor = post.AuctionCurrentBid + post.AuctionStepPrice
		}
		if bid.Amount < floor {
			return domain.ErrBidTooLow
		}

		if err := tx.Create(bidModel).Error; err != nil {
			return err
		}

		return tx.Model(&models.PostModel{}).
			Where("id = ?", bid.AuctionID).
			Updates(map[string]interface{}{
				"auction_current_bid": bid.Amount,
				"auction_bidder_id":   bid.BidderID,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	return mappers.ToDomainBid(bidModel), nil
}

func (r *DefaultRedemptionLedger) HighestBid(ctx context.Context, auctionID string) (*domain.Bid, error) {
	var bidModel models.BidModel
	err := r.DB.WithContext(ctx).
		Where("auction_id = ? AND withdrawn = ?", auctionID, false).
		Order("amount DESC").
		First(&bidModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.ToDomainBid(&bidModel), nil
}

func (r *DefaultRedemptionLedger) HasRedeemed(ctx context.Context, flashSaleID, buyerID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.RedemptionModel{}).
		Where("flash_sale_id = ? AND buyer_id = ?", flashSaleID, buyerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *DefaultRedemptionLedger) CountRedemptions(ctx context.Context, flashSaleID string) (int32, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.RedemptionModel{}).
		Where("flash_sale_id = ?", flashSaleID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int32(count), nil
}
