package domain

import "time"

type AccessRule string

const (
	AccessFree        AccessRule = "FREE"
	AccessSubscribers AccessRule = "SUBSCRIBERS"
	AccessPremium     AccessRule = "PREMIUM"
	AccessVIP         AccessRule = "VIP"
	AccessPaid        AccessRule = "PAID"
)

type Tier string

const (
	TierBasic   Tier = "BASIC"
	TierPremium Tier = "PREMIUM"
	TierVIP     Tier = "VIP"
)

// tierRank orders subscription tiers. Unknown tiers rank below Basic.
var tierRank = map[Tier]int{
	TierBasic:   1,
	TierPremium: 2,
	TierVIP:     3,
}

func (t Tier) Rank() int {
	return tierRank[t]
}

func (t Tier) Covers(required Tier) bool {
	return t.Rank() >= required.Rank()
}

type SellType string

const (
	SellFixedPrice SellType = "FIXED_PRICE"
	SellAuction    SellType = "AUCTION"
)

type AuctionStatus string

const (
	AuctionDraft     AuctionStatus = "DRAFT"
	AuctionScheduled AuctionStatus = "SCHEDULED"
	AuctionActive    AuctionStatus = "ACTIVE"
	AuctionEnded     AuctionStatus = "ENDED"
	AuctionSold      AuctionStatus = "SOLD"
	AuctionCancelled AuctionStatus = "CANCELLED"
	AuctionExpired   AuctionStatus = "EXPIRED"
)

// Sellable marks a post whose underlying item is purchasable. It is a
// commerce overlay: viewing stays governed by the post's access rule.
type Sellable struct {
	SellType             SellType
	Quantity             int32
	AuctionStartPrice    int64
	AuctionStepPrice     int64
	AuctionDurationHours int32
	AuctionDepositAmount int64
}

type FlashSale struct {
	ID              string
	PostID          string
	DiscountPercent int32
	StartAt         time.Time
	EndAt           time.Time
	MaxRedemptions  int32 // 0 means unbounded
	UsedCount       int32
}

// Active reports whether the discount window is open at the given moment.
// An exhausted or expired sale is not an error, the base price applies.
func (fs *FlashSale) Active(now time.Time) bool {
	if fs == nil {
		return false
	}
	if now.Before(fs.StartAt) || !now.Before(fs.EndAt) {
		return false
	}
	if fs.MaxRedemptions > 0 && fs.UsedCount >= fs.MaxRedemptions {
		return false
	}
	return true
}

type AuctionState struct {
	Status        AuctionStatus
	CurrentBid    int64
	CurrentBidder string
	EndAt         time.Time
}

type Post struct {
	ID        string
	CreatorID string
	Title     string
	MediaURL  string

	AccessRule    AccessRule
	PriceLamports int64
	Currency      string

	// RequiredTier is the unified tier gate. IsPremium is the historical
	// flag that predates it and still has to be honored on old rows.
	RequiredTier *Tier
	IsPremium    bool

	Sellable  *Sellable
	FlashSale *FlashSale
	Auction   *AuctionState

	SoldAt    *time.Time
	SoldToID  string
	SoldPrice int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizedTier collapses the legacy dual representation into one canonical
// tier value: explicit requiredTier wins, then tier-flavored access rules,
// then the legacy isPremium flag (which always meant VIP).
func (p *Post) NormalizedTier() *Tier {
	if p.RequiredTier != nil {
		return p.RequiredTier
	}
	switch p.AccessRule {
	case AccessPremium:
		t := TierPremium
		return &t
	case AccessVIP:
		t := TierVIP
		return &t
	}
	if p.IsPremium && p.PriceLamports == 0 {
		t := TierVIP
		return &t
	}
	return nil
}

func (p *Post) IsSold() bool {
	if p.SoldAt != nil {
		return true
	}
	return p.Auction != nil && p.Auction.Status == AuctionSold
}

// AuctionOpen reports whether bids are currently accepted. Expiry is
// evaluated lazily against the clock, never via a timer.
func (p *Post) AuctionOpen(now time.Time) bool {
	if p.Sellable == nil || p.Sellable.SellType != SellAuction || p.Auction == nil {
		return false
	}
	return p.Auction.Status == AuctionActive && now.Before(p.Auction.EndAt)
}
