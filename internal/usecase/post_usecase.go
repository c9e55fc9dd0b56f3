package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/soluna-labs/soluna-access-service/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type PostUsecase interface {
	ResolveAccess(ctx context.Context, postID, viewerID string) (*domain.AccessResolution, error)
	GetPost(ctx context.Context, postID string) (*domain.Post, error)
	CreatePost(ctx context.Context, post *domain.Post) error
	ListCreatorPosts(ctx context.Context, creatorID string, page, limit int) ([]*domain.Post, int64, error)
}

// DefaultPostUsecase is the read-mostly projection combining a post with
// the viewer's latest purchase/subscription state and live redemption
// counts. It is recomputed on every read, never cached across a purchase.
type DefaultPostUsecase struct {
	PostRepo         domain.PostRepository
	PurchaseRepo     domain.PurchaseRepository
	SubscriptionRepo domain.SubscriptionRepository
	Ledger           domain.RedemptionLedger
	Access           AccessUsecase
	Pricing          PricingUsecase
}

func NewDefaultPostUsecase(
	postRepo domain.PostRepository,
	purchaseRepo domain.PurchaseRepository,
	subscriptionRepo domain.SubscriptionRepository,
	ledger domain.RedemptionLedger,
	access AccessUsecase,
	pricing PricingUsecase) *DefaultPostUsecase {

	return &DefaultPostUsecase{
		PostRepo:         postRepo,
		PurchaseRepo:     purchaseRepo,
		SubscriptionRepo: subscriptionRepo,
		Ledger:           ledger,
		Access:           access,
		Pricing:          pricing,
	}
}

func (uc *DefaultPostUsecase) GetPost(ctx context.Context, postID string) (*domain.Post, error) {
	post, err := uc.PostRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, status.Error(codes.NotFound, "post not found")
	}
	return post, nil
}

func (uc *DefaultPostUsecase) CreatePost(ctx context.Context, post *domain.Post) error {
	return uc.PostRepo.CreatePost(ctx, post)
}

func (uc *DefaultPostUsecase) ListCreatorPosts(ctx context.Context, creatorID string, page, limit int) ([]*domain.Post, int64, error) {
	return uc.PostRepo.GetPostsByCreatorID(ctx, creatorID, page, limit)
}

func (uc *DefaultPostUsecase) ResolveAccess(ctx context.Context, postID, viewerID string) (*domain.AccessResolution, error) {
	now := time.Now()

	post, err := uc.PostRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, status.Error(codes.NotFound, "post not found")
	}

	uc.refreshProjection(ctx, post, now)

	viewer := uc.buildViewerRelation(ctx, post, viewerID, now)
	state, action := uc.Access.Classify(post, viewer)

	resolution := &domain.AccessResolution{
		State:  state,
		Action: action,
	}
	if price := uc.Pricing.FinalPrice(post, now); price > 0 && action != domain.ActionNone {
		resolution.PriceDisplay = uc.Pricing.FormatPrice(price, post.Currency)
	}
	return resolution, nil
}

// refreshProjection pulls the live redemption count and lazily observes
// auction expiry. Nothing is persisted here: the sweeper and the bid
// transaction own the durable state transitions.
func (uc *DefaultPostUsecase) refreshProjection(ctx context.Context, post *domain.Post, now time.Time) {
	if post.FlashSale != nil {
		used, err := uc.Ledger.CountRedemptions(ctx, post.FlashSale.ID)
		if err != nil {
			slog.Warn("failed to refresh redemption count, using stored value",
				"flash_sale_id", post.FlashSale.ID, "error", err.Error())
		} else {
			post.FlashSale.UsedCount = used
		}
	}

	if post.Auction != nil && post.Auction.Status == domain.AuctionActive && !now.Before(post.Auction.EndAt) {
		if post.Auction.CurrentBid > 0 {
			post.Auction.Status = domain.AuctionEnded
		} else {
			post.Auction.Status = domain.AuctionExpired
		}
	}
}

func (uc *DefaultPostUsecase) buildViewerRelation(ctx context.Context, post *domain.Post, viewerID string, now time.Time) domain.ViewerRelation {
	viewer := domain.ViewerRelation{ViewerID: viewerID}
	if viewerID == "" {
		return viewer
	}
	if viewerID == post.CreatorID {
		viewer.IsOwner = true
		return viewer
	}

	purchased, err := uc.PurchaseRepo.HasPurchased(ctx, post.ID, viewerID)
	if err != nil {
		slog.Warn("failed to check purchase state", "post_id", post.ID, "viewer_id", viewerID, "error", err.Error())
	}
	viewer.HasPurchased = purchased

	sub, err := uc.SubscriptionRepo.GetActiveSubscription(ctx, viewerID, post.CreatorID, now)
	if err != nil {
		slog.Warn("failed to check subscription state", "viewer_id", viewerID, "creator_id", post.CreatorID, "error", err.Error())
	}
	if sub != nil {
		viewer.IsSubscribed = true
		tier := sub.Tier
		viewer.SubscriptionTier = &tier
	}
	return viewer
}
