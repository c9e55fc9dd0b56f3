package repository

import (
	"context"
	"fmt"

	"github.com/soluna-labs/soluna-access-service/internal/domain"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultWalletDirectory struct {
	DB *gorm.DB
}

func NewDefaultWalletDirectory(db *gorm.DB) *DefaultWalletDirectory {
	return &DefaultWalletDirectory{DB: db}
}

func (r *DefaultWalletDirectory) GetCreatorWallet(ctx context.Context, creatorID string) (*domain.CreatorWallet, error) {
	var walletModel models.CreatorWalletModel
	err := r.DB.WithContext(ctx).
		First(&walletModel, "creator_id = ?", creatorID).Error
	if err != nil {
		return nil, fmt.Errorf("wallet lookup for creator %s: %w", creatorID, err)
	}
	return &domain.CreatorWallet{
		CreatorID:      walletModel.CreatorID,
		Wallet:         walletModel.Wallet,
		ReferrerWallet: walletModel.ReferrerWallet,
	}, nil
}
