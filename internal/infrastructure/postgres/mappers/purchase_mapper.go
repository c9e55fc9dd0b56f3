package mappers

import (
	"github.com/soluna-labs/soluna-access-service/internal/domain"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/postgres/models"
)

func ToDomainPurchase(model *models.PurchaseModel) *domain.Purchase {
	if model == nil {
		return nil
	}
	return &domain.Purchase{
		ID:          model.ID,
		PostID:      model.PostID,
		BuyerID:     model.BuyerID,
		PricePaid:   model.PricePaid,
		Currency:    model.Currency,
		TxSignature: model.TxSignature,
		Distribution: domain.Distribution{
			CreatorWallet:  model.CreatorWallet,
			CreatorAmount:  model.CreatorAmount,
			PlatformAmount: model.PlatformAmount,
			ReferrerWallet: model.ReferrerWallet,
			ReferrerAmount: model.ReferrerAmount,
		},
		CreatedAt: model.CreatedAt,
	}
}

func ToModelPurchase(purchase *domain.Purchase) *models.PurchaseModel {
	if purchase == nil {
		return nil
	}
	return &models.PurchaseModel{
		ID:             purchase.ID,
		PostID:         purchase.PostID,
		BuyerID:        purchase.BuyerID,
		PricePaid:      purchase.PricePaid,
		Currency:       purchase.Currency,
		TxSignature:    purchase.TxSignature,
		CreatorWallet:  purchase.Distribution.CreatorWallet,
		CreatorAmount:  purchase.Distribution.CreatorAmount,
		PlatformAmount: purchase.Distribution.PlatformAmount,
		ReferrerWallet: purchase.Distribution.ReferrerWallet,
		ReferrerAmount: purchase.Distribution.ReferrerAmount,
		CreatedAt:      purchase.CreatedAt,
	}
}

func ToDomainSubscription(model *models.SubscriptionModel) *domain.Subscription {
	if model == nil {
		return nil
	}
	return &domain.Subscription{
		ID:           model.ID,
		CreatorID:    model.CreatorID,
		SubscriberID: model.SubscriberID,
		Tier:         domain.Tier(model.Tier),
		PricePaid:    model.PricePaid,
		TxSignature:  model.TxSignature,
		StartedAt:    model.StartedAt,
		ExpiresAt:    model.ExpiresAt,
		CreatedAt:    model.CreatedAt,
	}
}

func ToModelSubscription(sub *domain.Subscription) *models.SubscriptionModel {
	if sub == nil {
		return nil
	}
	return &models.SubscriptionModel{
		ID:           sub.ID,
		CreatorID:    sub.CreatorID,
		SubscriberID: sub.SubscriberID,
		Tier:         string(sub.Tier),
		PricePaid:    sub.PricePaid,
		TxSignature:  sub.TxSignature,
		StartedAt:    sub.StartedAt,
		ExpiresAt:    sub.ExpiresAt,
		CreatedAt:    sub.CreatedAt,
	}
}
