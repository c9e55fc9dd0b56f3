package settlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/soluna-labs/soluna-access-service/internal/domain"
)

func auctionPost(now time.Time) *domain.Post {
	return &domain.Post{
		ID:        "post-1",
		CreatorID: "creator",
		Currency:  "SOL",
		Sellable: &domain.Sellable{
			SellType:          domain.SellAuction,
			AuctionStartPrice: 1_000_000_000,
			AuctionStepPrice:  100_000_000,
		},
		Auction: &domain.AuctionState{
			Status: domain.AuctionActive,
			EndAt:  now.Add(time.Hour),
		},
	}
}

func TestPlaceBidHappyPath(t *testing.T) {
	f := newFixture(auctionPost(time.Now()))

	receipt, err := f.uc.PlaceBid(context.Background(), &BidInput{
		PostID:       "post-1",
		BidderID:     "bidder",
		BidderWallet: buyerWallet,
		Amount:       1_000_000_000,
	}, nil)
	if err != nil {
		t.Fatalf("PlaceBid failed: %v", err)
	}
	if receipt.Status != domain.SettlementRecorded {
		t.Errorf("status = %s, want recorded", receipt.Status)
	}
	if receipt.Bid == nil || receipt.Bid.Amount != 1_000_000_000 {
		t.Error("bid was not recorded with the right amount")
	}
	// No deposit configured: nothing should hit the chain.
	if len(f.chain.submittedHashes) != 0 {
		t.Error("bid without deposit must not submit a transaction")
	}
}

func TestPlaceBidRejections(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		post    func() *domain.Post
		input   *BidInput
		seed    *domain.Bid
		wantErr error
	}{
		{
			name: "below start price",
			post: func() *domain.Post { return auctionPost(now) },
			input: &BidInput{
				PostID: "post-1", BidderID: "bidder", BidderWallet: buyerWallet,
				Amount: 900_000_000,
			},
			wantErr: domain.ErrBidTooLow,
		},
		{
			name: "below current bid plus step",
			post: func() *domain.Post { return auctionPost(now) },
			input: &BidInput{
				PostID: "post-1", BidderID: "bidder", BidderWallet: buyerWallet,
				Amount: 1_050_000_000,
			},
			seed:    &domain.Bid{ID: "b0", AuctionID: "post-1", BidderID: "other", Amount: 1_000_000_000},
			wantErr: domain.ErrBidTooLow,
		},
		{
			name: "deadline passed",
			post: func() *domain.Post {
				post := auctionPost(now)
				post.Auction.EndAt = now.Add(-time.Minute)
				return post
			},
			input: &BidInput{
				PostID: "post-1", BidderID: "bidder", BidderWallet: buyerWallet,
				Amount: 2_000_000_000,
			},
			wantErr: domain.ErrAuctionEnded,
		},
		{
			name: "auction not started",
			post: func() *domain.Post {
				post := auctionPost(now)
				post.Auction.Status = domain.AuctionScheduled
				return post
			},
			input: &BidInput{
				PostID: "post-1", BidderID: "bidder", BidderWallet: buyerWallet,
				Amount: 2_000_000_000,
			},
			wantErr: domain.ErrAuctionNotActive,
		},
		{
			name: "creator bidding on own auction",
			post: func() *domain.Post { return auctionPost(now) },
			input: &BidInput{
				PostID: "post-1", BidderID: "creator", BidderWallet: buyerWallet,
				Amount: 2_000_000_000,
			},
			wantErr: domain.ErrSelfPurchase,
		},
		{
			name: "fixed-price post takes no bids",
			post: func() *domain.Post {
				post := auctionPost(now)
				post.Sellable.SellType = domain.SellFixedPrice
				post.Auction = nil
				return post
			},
			input: &BidInput{
				PostID: "post-1", BidderID: "bidder", BidderWallet: buyerWallet,
				Amount: 2_000_000_000,
			},
			wantErr: domain.ErrPostNotForSale,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.post())
			if tt.seed != nil {
				f.ledger.bids = append(f.ledger.bids, tt.seed)
			}
			_, err := f.uc.PlaceBid(context.Background(), tt.input, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPlaceBidDepositReconciliation(t *testing.T) {
	f := newFixture(auctionPost(time.Now()))
	f.uc.BidDepositLamports = 10_000_000
	f.ledger.bidErr = errors.New("db down")

	_, err := f.uc.PlaceBid(context.Background(), &BidInput{
		PostID:       "post-1",
		BidderID:     "bidder",
		BidderWallet: buyerWallet,
		Amount:       1_000_000_000,
	}, nil)

	var reconciliation *domain.ReconciliationError
	if !errors.As(err, &reconciliation) {
		t.Fatalf("err = %v, want ReconciliationError after deposit confirmed", err)
	}
	if reconciliation.TxSignature == "" {
		t.Error("reconciliation must carry the deposit signature")
	}
}

func TestSettleExpiredAuctions(t *testing.T) {
	now := time.Now()

	withBids := auctionPost(now)
	withBids.ID = "post-sold"
	withBids.Auction.EndAt = now.Add(-time.Minute)

	noBids := auctionPost(now)
	noBids.ID = "post-empty"
	noBids.Auction.EndAt = now.Add(-time.Minute)

	stillOpen := auctionPost(now)
	stillOpen.ID = "post-open"

	f := newFixture(withBids, noBids, stillOpen)
	f.ledger.bids = []*domain.Bid{
		{ID: "b1", AuctionID: "post-sold", BidderID: "low", Amount: 1_000_000_000},
		{ID: "b2", AuctionID: "post-sold", BidderID: "high", Amount: 1_200_000_000},
	}

	if err := f.uc.SettleExpiredAuctions(context.Background()); err != nil {
		t.Fatalf("SettleExpiredAuctions failed: %v", err)
	}

	sold, _ := f.postRepo.GetPostByID(context.Background(), "post-sold")
	if sold.Auction.Status != domain.AuctionSold {
		t.Errorf("auction with bids: status = %s, want SOLD", sold.Auction.Status)
	}
	if sold.SoldToID != "high" || sold.SoldPrice != 1_200_000_000 {
		t.Errorf("sold to %s at %d, want high at 1_200_000_000", sold.SoldToID, sold.SoldPrice)
	}

	empty, _ := f.postRepo.GetPostByID(context.Background(), "post-empty")
	if empty.Auction.Status != domain.AuctionExpired {
		t.Errorf("auction without bids: status = %s, want EXPIRED", empty.Auction.Status)
	}
	if empty.IsSold() {
		t.Error("auction without bids must not be sold")
	}

	open, _ := f.postRepo.GetPostByID(context.Background(), "post-open")
	if open.Auction.Status != domain.AuctionActive {
		t.Errorf("open auction: status = %s, must stay ACTIVE", open.Auction.Status)
	}
}
