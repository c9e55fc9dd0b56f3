package models

import "time"

type PurchaseModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	PostID    string `gorm:"type:uuid;index:idx_purchase_post"`
	BuyerID   string `gorm:"type:uuid;index:idx_purchase_buyer"`
	PricePaid int64
	Currency  string

	// TxSignature is the idempotency key: one confirmed transfer maps to
	// exactly one purchase row.
	TxSignature string `gorm:"uniqueIndex:idx_tx_signature;not null"`

	CreatorWallet  string
	CreatorAmount  int64
	PlatformAmount int64
	ReferrerWallet string
	ReferrerAmount int64

	CreatedAt time.Time `gorm:"index:idx_purchase_created_at"`
}

type SubscriptionModel struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	CreatorID    string `gorm:"type:uuid;index:idx_sub_pair"`
	SubscriberID string `gorm:"type:uuid;index:idx_sub_pair"`
	Tier         string
	PricePaid    int64
	TxSignature  string `gorm:"uniqueIndex:idx_sub_tx_signature;not null"`
	StartedAt    time.Time
	ExpiresAt    time.Time `gorm:"index:idx_sub_expires"`
	CreatedAt    time.Time
}

type CreatorWalletModel struct {
	CreatorID      string `gorm:"primaryKey;type:uuid"`
	Wallet         string `gorm:"not null"`
	ReferrerWallet string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
