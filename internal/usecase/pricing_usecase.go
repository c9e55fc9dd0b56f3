package usecase

import (
	"fmt"
	"time"

	"github.com/soluna-labs/soluna-access-service/internal/domain"
)

const LamportsPerSol = 1_000_000_000

// Fee schedule in basis points. The platform takes 10% of the final price,
// or 5% when the creator carries a valid referrer, who then takes the other
// 5%. The creator share is never computed independently: it is the
// remainder, so the three legs always sum to the price exactly.
const (
	platformFeeBps             = 1000
	platformFeeWithReferrerBps = 500
	referrerFeeBps             = 500
)

type PricingUsecase interface {
	FinalPrice(post *domain.Post, now time.Time) int64
	Distribute(price int64, wallet *domain.CreatorWallet) domain.Distribution
	MinNextBid(post *domain.Post) int64
	FormatPrice(lamports int64, currency string) string
}

type DefaultPricingUsecase struct{}

func NewDefaultPricingUsecase() *DefaultPricingUsecase {
	return &DefaultPricingUsecase{}
}

// FinalPrice computes the effective price of a post at the given moment.
// For an auction it is the current highest bid, or the start price when no
// bid has been placed. An expired or exhausted flash sale degrades silently
// to the base price.
func (uc *DefaultPricingUsecase) FinalPrice(post *domain.Post, now time.Time) int64 {
	if post.Sellable != nil && post.Sellable.SellType == domain.SellAuction {
		if post.Auction != nil && post.Auction.CurrentBid > 0 {
			return post.Auction.CurrentBid
		}
		return post.Sellable.AuctionStartPrice
	}

	price := post.PriceLamports
	if post.FlashSale.Active(now) {
		price = applyDiscount(price, post.FlashSale.DiscountPercent)
	}
	return price
}

func applyDiscount(price int64, discountPercent int32) int64 {
	if discountPercent <= 0 || discountPercent >= 100 {
		return price
	}
	return price * int64(100-discountPercent) / 100
}

func (uc *DefaultPricingUsecase) Distribute(price int64, wallet *domain.CreatorWallet) domain.Distribution {
	hasReferrer := wallet.ReferrerWallet != ""

	var platform, referrer int64
	if hasReferrer {
		platform = price * platformFeeWithReferrerBps / 10000
		referrer = price * referrerFeeBps / 10000
	} else {
		platform = price * platformFeeBps / 10000
	}

	dist := domain.Distribution{
		CreatorWallet:  wallet.Wallet,
		CreatorAmount:  price - platform - referrer,
		PlatformAmount: platform,
	}
	if hasReferrer {
		dist.ReferrerWallet = wallet.ReferrerWallet
		dist.ReferrerAmount = referrer
	}
	return dist
}

// MinNextBid is the lowest acceptable bid: the start price while the book
// is empty, then current bid plus the step.
func (uc *DefaultPricingUsecase) MinNextBid(post *domain.Post) int64 {
	if post.Sellable == nil || post.Sellable.SellType != domain.SellAuction {
		return 0
	}
	if post.Auction != nil && post.Auction.CurrentBid > 0 {
		return post.Auction.CurrentBid + post.Sellable.AuctionStepPrice
	}
	return post.Sellable.AuctionStartPrice
}

func (uc *DefaultPricingUsecase) FormatPrice(lamports int64, currency string) string {
	if currency == "" {
		currency = "SOL"
	}
	return fmt.Sprintf("%.2f %s", float64(lamports)/LamportsPerSol, currency)
}
