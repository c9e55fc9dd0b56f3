package mappers

import (
	"github.com/soluna-labs/soluna-access-service/internal/domain"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/postgres/models"
)

func ToDomainPost(model *models.PostModel) *domain.Post {
	if model == nil {
		return nil
	}

	post := &domain.Post{
		ID:            model.ID,
		CreatorID:     model.CreatorID,
		Title:         model.Title,
		MediaURL:      model.MediaURL,
		AccessRule:    model.AccessRule,
		PriceLamports: model.PriceLamports,
		Currency:      model.Currency,
		IsPremium:     model.IsPremium,
		SoldAt:        model.SoldAt,
		SoldToID:      model.SoldToID,
		SoldPrice:     model.SoldPrice,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}

	if model.RequiredTier != nil {
		tier := domain.Tier(*model.RequiredTier)
		post.RequiredTier = &tier
	}

	if model.SellType != nil {
		post.Sellable = &domain.Sellable{
			SellType:             domain.SellType(*model.SellType),
			Quantity:             model.Quantity,
			AuctionStartPrice:    model.AuctionStartPrice,
			AuctionStepPrice:     model.AuctionStepPrice,
			AuctionDurationHours: model.AuctionDurationHours,
			AuctionDepositAmount: model.AuctionDepositAmount,
		}
		if post.Sellable.SellType == domain.SellAuction {
			post.Auction = &domain.AuctionState{
				Status:        domain.AuctionStatus(model.AuctionStatus),
				CurrentBid:    model.AuctionCurrentBid,
				CurrentBidder: model.AuctionBidderID,
				EndAt:         model.AuctionEndAt,
			}
		}
	}

	post.FlashSale = ToDomainFlashSale(model.FlashSale)
	return post
}

func ToModelPost(post *domain.Post) *models.PostModel {
	if post == nil {
		return nil
	}

	model := &models.PostModel{
		ID:            post.ID,
		CreatorID:     post.CreatorID,
		Title:         post.Title,
		MediaURL:      post.MediaURL,
		AccessRule:    post.AccessRule,
		PriceLamports: post.PriceLamports,
		Currency:      post.Currency,
		IsPremium:     post.IsPremium,
		SoldAt:        post.SoldAt,
		SoldToID:      post.SoldToID,
		SoldPrice:     post.SoldPrice,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}

	if post.RequiredTier != nil {
		tier := string(*post.RequiredTier)
		model.RequiredTier = &tier
	}

	if post.Sellable != nil {
		sellType := string(post.Sellable.SellType)
		model.SellType = &sellType
		model.Quantity = post.Sellable.Quantity
		model.AuctionStartPrice = post.Sellable.AuctionStartPrice
		model.AuctionStepPrice = post.Sellable.AuctionStepPrice
		model.AuctionDurationHours = post.Sellable.AuctionDurationHours
		model.AuctionDepositAmount = post.Sellable.AuctionDepositAmount
	}

	if post.Auction != nil {
		model.AuctionStatus = string(post.Auction.Status)
		model.AuctionCurrentBid = post.Auction.CurrentBid
		model.AuctionBidderID = post.Auction.CurrentBidder
		model.AuctionEndAt = post.Auction.EndAt
	}

	model.FlashSale = ToModelFlashSale(post.FlashSale)
	return model
}

func ToDomainFlashSale(model *models.FlashSaleModel) *domain.FlashSale {
	if model == nil {
		return nil
	}
	return &domain.FlashSale{
		ID:              model.ID,
		PostID:          model.PostID,
		DiscountPercent: model.DiscountPercent,
		StartAt:         model.StartAt,
		EndAt:           model.EndAt,
		MaxRedemptions:  model.MaxRedemptions,
		UsedCount:       model.UsedCount,
	}
}

func ToModelFlashSale(sale *domain.FlashSale) *models.FlashSaleModel {
	if sale == nil {
		return nil
	}
	return &models.FlashSaleModel{
		ID:              sale.ID,
		PostID:          sale.PostID,
		DiscountPercent: sale.DiscountPercent,
		StartAt:         sale.StartAt,
		EndAt:           sale.EndAt,
		MaxRedemptions:  sale.MaxRedemptions,
		UsedCount:       sale.UsedCount,
	}
}
