package repository

import (
	"context"
	"errors"
	"time"

	"github.com/soluna-labs/soluna-access-service/internal/domain"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/postgres/mappers"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultPurchaseRepository struct {
	DB *gorm.DB
}

func NewDefaultPurchaseRepository(db *gorm.DB) *DefaultPurchaseRepository {
	return &DefaultPurchaseRepository{DB: db}
}

// RecordPurchase inserts the purchase unless a row with the same transaction
// signature exists, then reads back whichever row won. Retried recordings
// after a partial failure land on the existing row instead of a second
// insert.
func (r *DefaultPurchaseRepository) RecordPurchase(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error) {
	purchaseModel := mappers.ToModelPurchase(purchase)

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tx_signature"}},
			DoNothing: true,
		}).
		Create(purchaseModel).Error
	if err != nil {
		return nil, err
	}

	return r.GetByTxSignature(ctx, purchase.TxSignature)
}

func (r *DefaultPurchaseRepository) GetByTxSignature(ctx context.Context, signature string) (*domain.Purchase, error) {
	var purchaseModel models.PurchaseModel
	err := r.DB.WithContext(ctx).
		First(&purchaseModel, "tx_signature = ?", signature).Error
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainPurchase(&purchaseModel), nil
}

func (r *DefaultPurchaseRepository) HasPurchased(ctx context.Context, postID, buyerID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.PurchaseModel{}).
		Where("post_id = ? AND buyer_id = ?", postID, buyerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type DefaultSubscriptionRepository struct {
	DB *gorm.DB
}

func NewDefaultSubscriptionRepository(db *gorm.DB) *DefaultSubscriptionRepository {
	return &DefaultSubscriptionRepository{DB: db}
}

func (r *DefaultSubscriptionRepository) RecordSubscription(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error) {
	subModel := mappers.ToModelSubscription(sub)

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tx_signature"}},
			DoNothing: true,
		}).
		Create(subModel).Error
	if err != nil {
		return nil, err
	}

	var recorded models.SubscriptionModel
	if err := r.DB.WithContext(ctx).First(&recorded, "tx_signature = ?", sub.TxSignature).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainSubscription(&recorded), nil
}

func (r *DefaultSubscriptionRepository) GetActiveSubscription(ctx context.Context, subscriberID, creatorID string, now time.Time) (*domain.Subscription, error) {
	var subModel models.SubscriptionModel
	err := r.DB.WithContext(ctx).
		Where("subscriber_id = ? AND creator_id = ? AND expires_at > ?", subscriberID, creatorID, now).
		Order("expires_at DESC").
		First(&subModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.ToDomainSubscription(&subModel), nil
}
