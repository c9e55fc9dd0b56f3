package mappers

import (
	"github.com/soluna-labs/soluna-access-service/internal/domain"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/postgres/models"
)

func ToDomainRedemption(model *models.RedemptionModel) *domain.Redemption {
	if model == nil {
		return nil
	}
	return &domain.Redemption{
		ID:                model.ID,
		FlashSaleID:       model.FlashSaleID,
		BuyerID:           model.BuyerID,
		PriceAtRedemption: model.PriceAtRedemption,
		CreatedAt:         model.CreatedAt,
	}
}

func ToModelRedemption(red *domain.Redemption) *models.RedemptionModel {
	if red == nil {
		return nil
	}
	return &models.RedemptionModel{
		ID:                red.ID,
		FlashSaleID:       red.FlashSaleID,
		BuyerID:           red.BuyerID,
		PriceAtRedemption: red.PriceAtRedemption,
		CreatedAt:         red.CreatedAt,
	}
}

func ToDomainBid(model *models.BidModel) *domain.Bid {
	if model == nil {
		return nil
	}
	return &domain.Bid{
		ID:          model.ID,
		AuctionID:   model.AuctionID,
		BidderID:    model.BidderID,
		Wallet:      model.Wallet,
		Amount:      model.Amount,
		TxSignature: model.TxSignature,
		Withdrawn:   model.Withdrawn,
		PlacedAt:    model.PlacedAt,
	}
}

func ToModelBid(bid *domain.Bid) *models.BidModel {
	if bid == nil {
		return nil
	}
	return &models.BidModel{
		ID:          bid.ID,
		AuctionID:   bid.AuctionID,
		BidderID:    bid.BidderID,
		Wallet:      bid.Wallet,
		Amount:      bid.Amount,
		TxSignature: bid.TxSignature,
		Withdrawn:   bid.Withdrawn,
		PlacedAt:    bid.PlacedAt,
	}
}
