package postgres

import (
	"log"

	"github.com/soluna-labs/soluna-access-service/internal/config"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.AccessConfig) *gorm.DB {
	dsn := cfg.AccessDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.PostModel{},
		&models.FlashSaleModel{},
		&models.PurchaseModel{},
		&models.SubscriptionModel{},
		&models.RedemptionModel{},
		&models.BidModel{},
		&models.CreatorWalletModel{},
	)

	return db
}
