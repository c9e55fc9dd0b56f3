package domain

import "time"

// Distribution is the exact split of a settled payment. The three amounts
// always sum to the final price: the creator share is derived by
// subtraction, never computed as an independent percentage.
type Distribution struct {
	CreatorWallet  string
	CreatorAmount  int64
	PlatformAmount int64
	ReferrerWallet string
	ReferrerAmount int64
}

func (d Distribution) Total() int64 {
	return d.CreatorAmount + d.PlatformAmount + d.ReferrerAmount
}

// Purchase is created only after a confirmed on-ledger transfer. The
// transaction signature is the natural idempotency key.
type Purchase struct {
	ID           string
	PostID       string
	BuyerID      string
	PricePaid    int64
	Currency     string
	TxSignature  string
	Distribution Distribution
	CreatedAt    time.Time
}

type Subscription struct {
	ID           string
	CreatorID    string
	SubscriberID string
	Tier         Tier
	PricePaid    int64
	TxSignature  string
	StartedAt    time.Time
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

type Redemption struct {
	ID                string
	FlashSaleID       string
	BuyerID           string
	PriceAtRedemption int64
	CreatedAt         time.Time
}

type Bid struct {
	ID          string
	AuctionID   string
	BidderID    string
	Wallet      string
	Amount      int64
	TxSignature string
	Withdrawn   bool
	PlacedAt    time.Time
}

// CreatorWallet resolves where a creator's share goes, plus the optional
// referrer attached to the creator at signup.
type CreatorWallet struct {
	CreatorID      string
	Wallet         string
	ReferrerWallet string
}
