package models

import (
	"time"

	"github.com/soluna-labs/soluna-access-service/internal/domain"
)

type PostModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	CreatorID string `gorm:"type:uuid;index:idx_creator"`
	Title     string
	MediaURL  string

	AccessRule    domain.AccessRule `gorm:"index:idx_access_rule"`
	PriceLamports int64
	Currency      string

	RequiredTier *string
	IsPremium    bool

	// Sellable overlay, null sell_type means the post is not sellable.
	SellType             *string
	Quantity             int32
	AuctionStartPrice    int64
	AuctionStepPrice     int64
	AuctionDurationHours int32
	AuctionDepositAmount int64

	AuctionStatus     string    `gorm:"index:idx_auction_status"`
	AuctionCurrentBid int64
	AuctionBidderID   string
	AuctionEndAt      time.Time `gorm:"index:idx_auction_end"`

	FlashSale *FlashSaleModel `gorm:"foreignKey:PostID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	SoldAt    *time.Time
	SoldToID  string
	SoldPrice int64

	CreatedAt time.Time `gorm:"index:idx_post_created_at"`
	UpdatedAt time.Time
}

type FlashSaleModel struct {
	ID              string `gorm:"primaryKey;type:uuid"`
	PostID          string `gorm:"type:uuid;uniqueIndex:idx_flash_post"`
	DiscountPercent int32
	StartAt         time.Time
	EndAt           time.Time
	MaxRedemptions  int32
	UsedCount       int32
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
