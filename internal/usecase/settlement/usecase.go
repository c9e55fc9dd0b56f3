package settlement

import (
	"context"
	"time"

	"github.com/soluna-labs/soluna-access-service/internal/domain"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/kafka"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/metrics"
	"github.com/soluna-labs/soluna-access-service/internal/usecase"
)

type Stage string

const (
	StageBuilding   Stage = "building"
	StageSubmitted  Stage = "submitted"
	StageConfirming Stage = "confirming"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// ProgressFunc receives stage transitions while a settlement is in flight.
type ProgressFunc func(stage Stage)

type PurchaseInput struct {
	PostID      string
	BuyerID     string
	BuyerWallet string
}

type SubscriptionInput struct {
	CreatorID     string
	SubscriberID  string
	BuyerWallet   string
	Tier          domain.Tier
	PriceLamports int64
	DurationDays  int
}

type BidInput struct {
	PostID       string
	BidderID     string
	BidderWallet string
	Amount       int64
}

// Receipt is what a settlement attempt hands back to the caller. On a
// ReconciliationError the receipt still carries the confirmed signature and
// the exact amounts paid, so recording can be retried without a second
// transfer.
type Receipt struct {
	AttemptID    string
	TxSignature  string
	Status       domain.SettlementStatus
	PricePaid    int64
	Currency     string
	Distribution domain.Distribution
	Purchase     *domain.Purchase
	Subscription *domain.Subscription
	Bid          *domain.Bid
}

type SettlementUsecase interface {
	InitiatePurchase(ctx context.Context, input *PurchaseInput, progress ProgressFunc) (*Receipt, error)
	InitiateSubscription(ctx context.Context, input *SubscriptionInput, progress ProgressFunc) (*Receipt, error)
	PlaceBid(ctx context.Context, input *BidInput, progress ProgressFunc) (*Receipt, error)
	RetryPurchaseRecording(ctx context.Context, input *PurchaseInput, receipt *Receipt) (*Receipt, error)
	SettleExpiredAuctions(ctx context.Context) error
}

type DefaultSettlementUsecase struct {
	PostRepo         domain.PostRepository
	PurchaseRepo     domain.PurchaseRepository
	SubscriptionRepo domain.SubscriptionRepository
	Ledger           domain.RedemptionLedger
	Chain            domain.LedgerClient
	Wallets          domain.WalletDirectory
	Holds            domain.ReservationCache
	Publisher        *kafka.KafkaPublisher
	Metrics          *metrics.SettlementMetrics
	Pricing          usecase.PricingUsecase

	Retry   RetryPolicy
	Confirm ConfirmPolicy

	// PlatformWallet is the treasury address receiving the platform fee.
	// It must never appear on the paying side of a settlement.
	PlatformWallet string
	HoldTTL        time.Duration

	// BidDepositLamports escrows with every bid when set. Zero disables
	// bid deposits and bids settle off-ledger until the auction closes.
	BidDepositLamports int64
}

func NewDefaultSettlementUsecase(
	postRepo domain.PostRepository,
	purchaseRepo domain.PurchaseRepository,
	subscriptionRepo domain.SubscriptionRepository,
	ledger domain.RedemptionLedger,
	chain domain.LedgerClient,
	wallets domain.WalletDirectory,
	holds domain.ReservationCache,
	pub *kafka.KafkaPublisher,
	m *metrics.SettlementMetrics,
	pricing usecase.PricingUsecase,
	platformWallet string) *DefaultSettlementUsecase {

	if m == nil {
		m = metrics.NewSettlementMetrics()
	}
	return &DefaultSettlementUsecase{
		PostRepo:         postRepo,
		PurchaseRepo:     purchaseRepo,
		SubscriptionRepo: subscriptionRepo,
		Ledger:           ledger,
		Chain:            chain,
		Wallets:          wallets,
		Holds:            holds,
		Publisher:        pub,
		Metrics:          m,
		Pricing:          pricing,
		Retry:            DefaultRetryPolicy(),
		Confirm:          DefaultConfirmPolicy(),
		PlatformWallet:   platformWallet,
		HoldTTL:          5 * time.Minute,
	}
}

func report(progress ProgressFunc, stage Stage) {
	if progress != nil {
		progress(stage)
	}
}
