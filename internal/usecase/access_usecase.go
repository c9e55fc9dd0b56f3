package usecase

import (
	"log/slog"

	"github.com/soluna-labs/soluna-access-service/internal/domain"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/metrics"
)

type AccessUsecase interface {
	Classify(post *domain.Post, viewer domain.ViewerRelation) (domain.AccessState, domain.UnlockAction)
}

// DefaultAccessUsecase decides whether a post is visible to a viewer and
// which unlock action applies. It is a total function: malformed posts
// degrade to free visibility and are logged, a render is never failed over
// bad data.
type DefaultAccessUsecase struct {
	Metrics *metrics.SettlementMetrics
}

func NewDefaultAccessUsecase(m *metrics.SettlementMetrics) *DefaultAccessUsecase {
	if m == nil {
		m = metrics.NewSettlementMetrics()
	}
	return &DefaultAccessUsecase{Metrics: m}
}

func (uc *DefaultAccessUsecase) Classify(post *domain.Post, viewer domain.ViewerRelation) (domain.AccessState, domain.UnlockAction) {
	// Owner sees everything, no exceptions.
	if viewer.IsOwner {
		return domain.AccessVisible, domain.ActionNone
	}

	// Sellable is paid-to-own, not paid-to-view: the price on an unsold
	// sellable post transfers the item, it never gates viewing.
	sellableOverlay := post.Sellable != nil && !post.IsSold()

	paymentGated := post.AccessRule == domain.AccessPaid && !sellableOverlay
	if paymentGated && post.PriceLamports <= 0 {
		slog.Warn("data integrity: paid post without positive price, treating as free",
			"post_id", post.ID, "price_lamports", post.PriceLamports)
		uc.Metrics.ClassifierDegradedTotal.WithLabelValues("paid_without_price").Inc()
		return domain.AccessVisible, domain.ActionNone
	}

	switch {
	case paymentGated && !viewer.HasPurchased:
		return domain.AccessLocked, domain.ActionPurchase

	case !paymentGated && post.NormalizedTier() != nil:
		required := *post.NormalizedTier()
		if !viewer.IsSubscribed {
			return domain.AccessLocked, domain.ActionSubscribe
		}
		if viewer.SubscriptionTier == nil || !viewer.SubscriptionTier.Covers(required) {
			return domain.AccessLocked, domain.ActionUpgradeTier
		}

	case !paymentGated && post.AccessRule == domain.AccessSubscribers && !viewer.IsSubscribed:
		return domain.AccessLocked, domain.ActionSubscribe
	}

	if sellableOverlay {
		return domain.AccessVisible, domain.ActionBuySellable
	}
	return domain.AccessVisible, domain.ActionNone
}
