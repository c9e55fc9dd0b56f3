package request

type ResolveAccessRequest struct {
	PostID   string `json:"post_id"`
	ViewerID string `json:"viewer_id"`
}

type CreatePostRequest struct {
	CreatorID     string `json:"creator_id"`
	Title         string `json:"title"`
	MediaURL      string `json:"media_url"`
	AccessRule    string `json:"access_rule"`
	PriceLamports int64  `json:"price_lamports"`
	Currency      string `json:"currency"`
	RequiredTier  string `json:"required_tier,omitempty"`
	IsPremium     bool   `json:"is_premium,omitempty"`

	SellType             string `json:"sell_type,omitempty"`
	Quantity             int32  `json:"quantity,omitempty"`
	AuctionStartPrice    int64  `json:"auction_start_price,omitempty"`
	AuctionStepPrice     int64  `json:"auction_step_price,omitempty"`
	AuctionDurationHours int32  `json:"auction_duration_hours,omitempty"`
	AuctionDepositAmount int64  `json:"auction_deposit_amount,omitempty"`

	FlashSale *FlashSaleRequest `json:"flash_sale,omitempty"`
}

type FlashSaleRequest struct {
	DiscountPercent int32  `json:"discount_percent"`
	StartAt         string `json:"start_at"`
	EndAt           string `json:"end_at"`
	MaxRedemptions  int32  `json:"max_redemptions"`
}
