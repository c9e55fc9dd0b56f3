package models

import "time"

type RedemptionModel struct {
	ID string `gorm:"primaryKey;type:uuid"`

	// One redemption per buyer per sale, enforced by the database rather
	// than application code.
	FlashSaleID string `gorm:"type:uuid;uniqueIndex:idx_redemption_buyer;not null"`
	BuyerID     string `gorm:"type:uuid;uniqueIndex:idx_redemption_buyer;not null"`

	PriceAtRedemption int64
	CreatedAt         time.Time
}

type BidModel struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	AuctionID   string `gorm:"type:uuid;index:idx_bid_auction"`
	BidderID    string `gorm:"type:uuid;index:idx_bid_bidder"`
	Wallet      string
	Amount      int64 `gorm:"index:idx_bid_amount"`
	TxSignature string
	Withdrawn   bool
	PlacedAt    time.Time
}
