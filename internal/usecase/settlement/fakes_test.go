package settlement

import (
	"context"
	"sync"
	"time"

	"github.com/soluna-labs/soluna-access-service/internal/domain"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/metrics"
	"github.com/soluna-labs/soluna-access-service/internal/usecase"
)

// Shared across the package: the prometheus default registry rejects
// duplicate metric names.
var testMetrics = metrics.NewSettlementMetrics()

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[string]*domain.Post
}

func newFakePostRepo(posts ...*domain.Post) *fakePostRepo {
	repo := &fakePostRepo{posts: make(map[string]*domain.Post)}
	for _, p := range posts {
		repo.posts[p.ID] = p
	}
	return repo
}

func (r *fakePostRepo) CreatePost(ctx context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[post.ID] = post
	return nil
}

func (r *fakePostRepo) GetPostByID(ctx context.Context, postID string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return post, nil
}

func (r *fakePostRepo) GetPostsByCreatorID(ctx context.Context, creatorID string, page, limit int) ([]*domain.Post, int64, error) {
	return nil, 0, nil
}

func (r *fakePostRepo) MarkSold(ctx context.Context, postID, buyerID string, price int64, soldAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return domain.ErrPostNotFound
	}
	if post.SoldAt != nil {
		return domain.ErrPostAlreadySold
	}
	ts := soldAt
	post.SoldAt = &ts
	post.SoldToID = buyerID
	post.SoldPrice = price
	return nil
}

func (r *fakePostRepo) UpdateAuctionStatus(ctx context.Context, postID string, status domain.AuctionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return domain.ErrPostNotFound
	}
	if post.Auction != nil {
		post.Auction.Status = status
	}
	return nil
}

func (r *fakePostRepo) FindExpiredActiveAuctions(ctx context.Context, now time.Time) ([]*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var expired []*domain.Post
	for _, post := range r.posts {
		if post.Auction != nil && post.Auction.Status == domain.AuctionActive && !now.Before(post.Auction.EndAt) {
			expired = append(expired, post)
		}
	}
	return expired, nil
}

type fakePurchaseRepo struct {
	mu          sync.Mutex
	bySignature map[string]*domain.Purchase
	recordErrs  []error
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{bySignature: make(map[string]*domain.Purchase)}
}

func (r *fakePurchaseRepo) RecordPurchase(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.recordErrs) > 0 {
		err := r.recordErrs[0]
		r.recordErrs = r.recordErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	if existing, ok := r.bySignature[purchase.TxSignature]; ok {
		return existing, nil
	}
	cp := *purchase
	r.bySignature[purchase.TxSignature] = &cp
	return &cp, nil
}

func (r *fakePurchaseRepo) GetByTxSignature(ctx context.Context, signature string) (*domain.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.bySignature[signature]; ok {
		return p, nil
	}
	return nil, domain.ErrPostNotFound
}

func (r *fakePurchaseRepo) HasPurchased(ctx context.Context, postID, buyerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.bySignature {
		if p.PostID == postID && p.BuyerID == buyerID {
			return true, nil
		}
	}
	return false, nil
}

type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	subs []*domain.Subscription
}

func (r *fakeSubscriptionRepo) RecordSubscription(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, sub)
	return sub, nil
}

func (r *fakeSubscriptionRepo) GetActiveSubscription(ctx context.Context, subscriberID, creatorID string, now time.Time) (*domain.Subscription, error) {
	return nil, nil
}

type fakeLedgerRepo struct {
	mu          sync.Mutex
	redemptions map[string]*domain.Redemption
	bids        []*domain.Bid
	redeemErr   error
	bidErr      error
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{redemptions: make(map[string]*domain.Redemption)}
}

func (r *fakeLedgerRepo) Redeem(ctx context.Context, red *domain.Redemption) (*domain.Redemption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.redeemErr != nil {
		return nil, r.redeemErr
	}
	key := red.FlashSaleID + "/" + red.BuyerID
	if _, ok := r.redemptions[key]; ok {
		return nil, domain.ErrAlreadyRedeemed
	}
	r.redemptions[key] = red
	return red, nil
}

func (r *fakeLedgerRepo) PlaceBid(ctx context.Context, bid *domain.Bid) (*domain.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bidErr != nil {
		return nil, r.bidErr
	}
	r.bids = append(r.bids, bid)
	return bid, nil
}

func (r *fakeLedgerRepo) HighestBid(ctx context.Context, auctionID string) (*domain.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var highest *domain.Bid
	for _, bid := range r.bids {
		if bid.AuctionID == auctionID && !bid.Withdrawn && (highest == nil || bid.Amount > highest.Amount) {
			highest = bid
		}
	}
	return highest, nil
}

func (r *fakeLedgerRepo) HasRedeemed(ctx context.Context, flashSaleID, buyerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.redemptions[flashSaleID+"/"+buyerID]
	return ok, nil
}

func (r *fakeLedgerRepo) CountRedemptions(ctx context.Context, flashSaleID string) (int32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int32
	for _, red := range r.redemptions {
		if red.FlashSaleID == flashSaleID {
			count++
		}
	}
	return count, nil
}

type fakeReservationCache struct {
	mu    sync.Mutex
	holds map[string]bool
	deny  bool
}

func newFakeReservationCache() *fakeReservationCache {
	return &fakeReservationCache{holds: make(map[string]bool)}
}

func (c *fakeReservationCache) Hold(ctx context.Context, flashSaleID, buyerID string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deny {
		return false, nil
	}
	key := flashSaleID + "/" + buyerID
	if c.holds[key] {
		return false, nil
	}
	c.holds[key] = true
	return true, nil
}

func (c *fakeReservationCache) Release(ctx context.Context, flashSaleID, buyerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.holds, flashSaleID+"/"+buyerID)
	return nil
}

type fakeWalletDirectory struct {
	wallets map[string]*domain.CreatorWallet
}

func (d *fakeWalletDirectory) GetCreatorWallet(ctx context.Context, creatorID string) (*domain.CreatorWallet, error) {
	if w, ok := d.wallets[creatorID]; ok {
		return w, nil
	}
	return nil, domain.ErrPostNotFound
}

// fakeChain scripts the ledger client. Submit errors are consumed in order;
// once the script runs out submissions succeed. Every submission records the
// blockhash it was sent with.
type fakeChain struct {
	mu sync.Mutex

	blockhashSeq    int
	submitErrs      []error
	submittedHashes []string
	signatureSeq    int

	statuses  []domain.SignatureStatus
	statusIdx int
}

func (c *fakeChain) GetLatestBlockhash(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blockhashSeq++
	return "blockhash-" + string(rune('a'+c.blockhashSeq-1)), nil
}

func (c *fakeChain) Simulate(ctx context.Context, tx *domain.TransferTx) error {
	return nil
}

func (c *fakeChain) Submit(ctx context.Context, tx *domain.TransferTx) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submittedHashes = append(c.submittedHashes, tx.Blockhash)
	if len(c.submitErrs) > 0 {
		err := c.submitErrs[0]
		c.submitErrs = c.submitErrs[1:]
		if err != nil {
			return "", err
		}
	}
	c.signatureSeq++
	return "sig-" + string(rune('0'+c.signatureSeq)), nil
}

func (c *fakeChain) GetSignatureStatus(ctx context.Context, signature string) (domain.SignatureStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.statuses) == 0 {
		return domain.SignatureConfirmed, nil
	}
	if c.statusIdx >= len(c.statuses) {
		return c.statuses[len(c.statuses)-1], nil
	}
	status := c.statuses[c.statusIdx]
	c.statusIdx++
	return status, nil
}

const (
	buyerWallet    = "Buyer1111111111111111111111111111111111"
	creatorWallet  = "Creator111111111111111111111111111111111"
	referrerWallet = "Referrer11111111111111111111111111111111"
	treasuryWallet = "Treasury11111111111111111111111111111111"
)

type fixture struct {
	uc        *DefaultSettlementUsecase
	postRepo  *fakePostRepo
	purchases *fakePurchaseRepo
	subs      *fakeSubscriptionRepo
	ledger    *fakeLedgerRepo
	chain     *fakeChain
	holds     *fakeReservationCache
}

func newFixture(posts ...*domain.Post) *fixture {
	f := &fixture{
		postRepo:  newFakePostRepo(posts...),
		purchases: newFakePurchaseRepo(),
		subs:      &fakeSubscriptionRepo{},
		ledger:    newFakeLedgerRepo(),
		chain:     &fakeChain{},
		holds:     newFakeReservationCache(),
	}
	f.uc = NewDefaultSettlementUsecase(
		f.postRepo,
		f.purchases,
		f.subs,
		f.ledger,
		f.chain,
		&fakeWalletDirectory{wallets: map[string]*domain.CreatorWallet{
			"creator": {CreatorID: "creator", Wallet: creatorWallet},
		}},
		f.holds,
		nil,
		testMetrics,
		usecase.NewDefaultPricingUsecase(),
		treasuryWallet,
	)
	f.uc.Retry = RetryPolicy{MaxAttempts: 3, BaseDelay: 0, MaxDelay: 0, Multiplier: 1}
	f.uc.Confirm = ConfirmPolicy{SettleDelay: 0, PollInterval: 0, MaxPolls: 5}
	return f
}
