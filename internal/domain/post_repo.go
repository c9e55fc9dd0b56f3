package domain

import (
	"context"
	"time"
)

type PostRepository interface {
	CreatePost(ctx context.Context, post *Post) error
	GetPostByID(ctx context.Context, postID string) (*Post, error)
	GetPostsByCreatorID(ctx context.Context, creatorID string, page, limit int) ([]*Post, int64, error)
	// MarkSold flips the post to sold only if it is not sold yet; the
	// conditional update is what keeps two racing buyers from both winning.
	MarkSold(ctx context.Context, postID, buyerID string, price int64, soldAt time.Time) error
	UpdateAuctionStatus(ctx context.Context, postID string, status AuctionStatus) error
	FindExpiredActiveAuctions(ctx context.Context, now time.Time) ([]*Post, error)
}

type PurchaseRepository interface {
	// RecordPurchase is idempotent on the transaction signature: a second
	// call with the same signature returns the existing record untouched.
	RecordPurchase(ctx context.Context, purchase *Purchase) (*Purchase, error)
	GetByTxSignature(ctx context.Context, signature string) (*Purchase, error)
	HasPurchased(ctx context.Context, postID, buyerID string) (bool, error)
}

type SubscriptionRepository interface {
	RecordSubscription(ctx context.Context, sub *Subscription) (*Subscription, error)
	GetActiveSubscription(ctx context.Context, subscriberID, creatorID string, now time.Time) (*Subscription, error)
}

// RedemptionLedger owns the two mutable shared counters of the system: the
// flash-sale usedCount and the auction's current highest bid. All mutation
// goes through these atomic operations; nothing else writes them.
type RedemptionLedger interface {
	// Redeem atomically re-validates the window, the redemption cap and
	// buyer uniqueness, inserts the redemption and bumps usedCount, all in
	// one transaction.
	Redeem(ctx context.Context, red *Redemption) (*Redemption, error)
	// PlaceBid re-reads the highest bid and the auction deadline inside the
	// inserting transaction, rejecting late or underpriced bids.
	PlaceBid(ctx context.Context, bid *Bid) (*Bid, error)
	HighestBid(ctx context.Context, auctionID string) (*Bid, error)
	CountRedemptions(ctx context.Context, flashSaleID string) (int32, error)
	HasRedeemed(ctx context.Context, flashSaleID, buyerID string) (bool, error)
}

// ReservationCache is the advisory, UI-facing hold on a flash-sale slot.
// It bounds the reserved-but-unconfirmed window with a TTL and never
// substitutes for the authoritative check inside Redeem.
type ReservationCache interface {
	Hold(ctx context.Context, flashSaleID, buyerID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, flashSaleID, buyerID string) error
}

type WalletDirectory interface {
	GetCreatorWallet(ctx context.Context, creatorID string) (*CreatorWallet, error)
}
