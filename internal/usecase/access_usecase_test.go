package usecase

import (
	"testing"
	"time"

	"github.com/soluna-labs/soluna-access-service/internal/domain"
)

func tierPtr(t domain.Tier) *domain.Tier { return &t }

func TestClassify(t *testing.T) {
	uc := NewDefaultAccessUsecase(testMetrics)

	tests := []struct {
		name       string
		post       *domain.Post
		viewer     domain.ViewerRelation
		wantState  domain.AccessState
		wantAction domain.UnlockAction
	}{
		{
			name:       "free post is visible to anonymous viewer",
			post:       &domain.Post{AccessRule: domain.AccessFree},
			viewer:     domain.ViewerRelation{},
			wantState:  domain.AccessVisible,
			wantAction: domain.ActionNone,
		},
		{
			name:       "owner sees paid post without purchasing",
			post:       &domain.Post{CreatorID: "creator", AccessRule: domain.AccessPaid, PriceLamports: 100_000_000},
			viewer:     domain.ViewerRelation{ViewerID: "creator", IsOwner: true},
			wantState:  domain.AccessVisible,
			wantAction: domain.ActionNone,
		},
		{
			name:       "paid post locked for stranger",
			post:       &domain.Post{AccessRule: domain.AccessPaid, PriceLamports: 100_000_000},
			viewer:     domain.ViewerRelation{ViewerID: "viewer"},
			wantState:  domain.AccessLocked,
			wantAction: domain.ActionPurchase,
		},
		{
			name:       "paid post visible after purchase",
			post:       &domain.Post{AccessRule: domain.AccessPaid, PriceLamports: 100_000_000},
			viewer:     domain.ViewerRelation{ViewerID: "viewer", HasPurchased: true},
			wantState:  domain.AccessVisible,
			wantAction: domain.ActionNone,
		},
		{
			name:       "subscriber-only post prompts subscribe",
			post:       &domain.Post{AccessRule: domain.AccessSubscribers},
			viewer:     domain.ViewerRelation{ViewerID: "viewer"},
			wantState:  domain.AccessLocked,
			wantAction: domain.ActionSubscribe,
		},
		{
			name:       "subscriber-only post visible to subscriber",
			post:       &domain.Post{AccessRule: domain.AccessSubscribers},
			viewer:     domain.ViewerRelation{ViewerID: "viewer", IsSubscribed: true, SubscriptionTier: tierPtr(domain.TierBasic)},
			wantState:  domain.AccessVisible,
			wantAction: domain.ActionNone,
		},
		{
			name:       "tier-gated post prompts subscribe for non-subscriber",
			post:       &domain.Post{AccessRule: domain.AccessFree, RequiredTier: tierPtr(domain.TierPremium)},
			viewer:     domain.ViewerRelation{ViewerID: "viewer"},
			wantState:  domain.AccessLocked,
			wantAction: domain.ActionSubscribe,
		},
		{
			name:       "tier-gated post prompts upgrade for lower tier",
			post:       &domain.Post{AccessRule: domain.AccessFree, RequiredTier: tierPtr(domain.TierVIP)},
			viewer:     domain.ViewerRelation{ViewerID: "viewer", IsSubscribed: true, SubscriptionTier: tierPtr(domain.TierPremium)},
			wantState:  domain.AccessLocked,
			wantAction: domain.ActionUpgradeTier,
		},
		{
			name:       "vip subscriber covers premium gate",
			post:       &domain.Post{AccessRule: domain.AccessPremium},
			viewer:     domain.ViewerRelation{ViewerID: "viewer", IsSubscribed: true, SubscriptionTier: tierPtr(domain.TierVIP)},
			wantState:  domain.AccessVisible,
			wantAction: domain.ActionNone,
		},
		{
			name:       "explicit required tier wins over access rule tier",
			post:       &domain.Post{AccessRule: domain.AccessVIP, RequiredTier: tierPtr(domain.TierPremium)},
			viewer:     domain.ViewerRelation{ViewerID: "viewer", IsSubscribed: true, SubscriptionTier: tierPtr(domain.TierPremium)},
			wantState:  domain.AccessVisible,
			wantAction: domain.ActionNone,
		},
		{
			name:       "legacy isPremium without price means vip gate",
			post:       &domain.Post{AccessRule: domain.AccessFree, IsPremium: true},
			viewer:     domain.ViewerRelation{ViewerID: "viewer", IsSubscribed: true, SubscriptionTier: tierPtr(domain.TierPremium)},
			wantState:  domain.AccessLocked,
			wantAction: domain.ActionUpgradeTier,
		},
		{
			name:       "malformed paid post degrades to visible",
			post:       &domain.Post{AccessRule: domain.AccessPaid, PriceLamports: 0},
			viewer:     domain.ViewerRelation{ViewerID: "viewer"},
			wantState:  domain.AccessVisible,
			wantAction: domain.ActionNone,
		},
		{
			name: "unsold sellable paid post stays visible with buy action",
			post: &domain.Post{
				AccessRule:    domain.AccessPaid,
				PriceLamports: 100_000_000,
				Sellable:      &domain.Sellable{SellType: domain.SellFixedPrice},
			},
			viewer:     domain.ViewerRelation{ViewerID: "viewer"},
			wantState:  domain.AccessVisible,
			wantAction: domain.ActionBuySellable,
		},
		{
			name: "sold sellable paid post falls back to payment gate",
			post: &domain.Post{
				AccessRule:    domain.AccessPaid,
				PriceLamports: 100_000_000,
				Sellable:      &domain.Sellable{SellType: domain.SellFixedPrice},
				SoldAt:        func() *time.Time { ts := time.Now(); return &ts }(),
			},
			viewer:     domain.ViewerRelation{ViewerID: "viewer"},
			wantState:  domain.AccessLocked,
			wantAction: domain.ActionPurchase,
		},
		{
			name: "sellable overlay does not bypass tier gate",
			post: &domain.Post{
				AccessRule:   domain.AccessFree,
				RequiredTier: tierPtr(domain.TierPremium),
				Sellable:     &domain.Sellable{SellType: domain.SellFixedPrice},
			},
			viewer:     domain.ViewerRelation{ViewerID: "viewer"},
			wantState:  domain.AccessLocked,
			wantAction: domain.ActionSubscribe,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, action := uc.Classify(tt.post, tt.viewer)
			if state != tt.wantState {
				t.Errorf("state = %s, want %s", state, tt.wantState)
			}
			if action != tt.wantAction {
				t.Errorf("action = %s, want %s", action, tt.wantAction)
			}
		})
	}
}

func TestNormalizedTier(t *testing.T) {
	tests := []struct {
		name string
		post *domain.Post
		want *domain.Tier
	}{
		{"no gate", &domain.Post{AccessRule: domain.AccessFree}, nil},
		{"required tier", &domain.Post{RequiredTier: tierPtr(domain.TierPremium)}, tierPtr(domain.TierPremium)},
		{"premium rule", &domain.Post{AccessRule: domain.AccessPremium}, tierPtr(domain.TierPremium)},
		{"vip rule", &domain.Post{AccessRule: domain.AccessVIP}, tierPtr(domain.TierVIP)},
		{"legacy premium flag", &domain.Post{IsPremium: true}, tierPtr(domain.TierVIP)},
		{"legacy flag ignored when priced", &domain.Post{IsPremium: true, PriceLamports: 1}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.post.NormalizedTier()
			switch {
			case got == nil && tt.want != nil:
				t.Errorf("got nil, want %s", *tt.want)
			case got != nil && tt.want == nil:
				t.Errorf("got %s, want nil", *got)
			case got != nil && *got != *tt.want:
				t.Errorf("got %s, want %s", *got, *tt.want)
			}
		})
	}
}
