package repository

import (
	"context"
	"errors"
	"time"

	"github.com/soluna-labs/soluna-access-service/internal/domain"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/postgres/mappers"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultPostRepository struct {
	DB *gorm.DB
}

func NewDefaultPostRepository(db *gorm.DB) *DefaultPostRepository {
	return &DefaultPostRepository{DB: db}
}

func (r *DefaultPostRepository) CreatePost(ctx context.Context, post *domain.Post) error {
	postModel := mappers.ToModelPost(post)
	if err := r.DB.WithContext(ctx).Create(postModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultPostRepository) GetPostByID(ctx context.Context, postID string) (*domain.Post, error) {
	var post models.PostModel
	err := r.DB.WithContext(ctx).
		Preload("FlashSale").
		First(&post, "id = ?", postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPostNotFound
		}
		return nil, err
	}

	return mappers.ToDomainPost(&post), nil
}

func (r *DefaultPostRepository) GetPostsByCreatorID(ctx context.Context, creatorID string, page, limit int) ([]*domain.Post, int64, error) {
	var postModels []models.PostModel
	var total int64

	baseQuery := r.DB.WithContext(ctx).
		Model(&models.PostModel{}).
		Where("creator_id = ?", creatorID)

	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := baseQuery.
		Preload("FlashSale").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&postModels).Error
	if err != nil {
		return nil, 0, err
	}

	posts := make([]*domain.Post, 0, len(postModels))
	for i := range postModels {
		posts = append(posts, mappers.ToDomainPost(&postModels[i]))
	}
	return posts, total, nil
}

// MarkSold flips the post to sold with a conditional update: the WHERE on
// sold_at IS NULL makes the first committed buyer win and everyone else see
// ErrPostAlreadySold, without an explicit row lock.
func (r *DefaultPostRepository) MarkSold(ctx context.Context, postID, buyerID string, price int64, soldAt time.Time) error {
	result := r.DB.WithContext(ctx).
		Model(&models.PostModel{}).
		Where("id = ? AND sold_at IS NULL", postID).
		Updates(map[string]interface{}{
			"sold_at":    soldAt,
			"sold_to_id": buyerID,
			"sold_price": price,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.DB.WithContext(ctx).Model(&models.PostModel{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrPostNotFound
		}
		return domain.ErrPostAlreadySold
	}
	return nil
}

func (r *DefaultPostRepository) UpdateAuctionStatus(ctx context.Context, postID string, status domain.AuctionStatus) error {
	return r.DB.WithContext(ctx).
		Model(&models.PostModel{}).
		Where("id = ?", postID).
		Update("auction_status", string(status)).Error
}

func (r *DefaultPostRepository) FindExpiredActiveAuctions(ctx context.Context, now time.Time) ([]*domain.Post, error) {
	var postModels []models.PostModel
	err := r.DB.WithContext(ctx).
		Where("sell_type = ? AND auction_status = ? AND auction_end_at <= ?",
			string(domain.SellAuction), string(domain.AuctionActive), now).
		Find(&postModels).Error
	if err != nil {
		return nil, err
	}

	posts := make([]*domain.Post, 0, len(postModels))
	for i := range postModels {
		posts = append(posts, mappers.ToDomainPost(&postModels[i]))
	}
	return posts, nil
}
