package settlement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/soluna-labs/soluna-access-service/internal/domain"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/kafka"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// InitiateSubscription settles a tier subscription payment. The split is the
// same as for purchases; what differs is the record written afterwards, a
// time-boxed subscription instead of a permanent purchase.
func (uc *DefaultSettlementUsecase) InitiateSubscription(ctx context.Context, input *SubscriptionInput, progress ProgressFunc) (*Receipt, error) {
	start := time.Now()
	receipt := &Receipt{AttemptID: newAttemptID(), Status: domain.SettlementBuilding}

	if input.SubscriberID == input.CreatorID {
		return receipt, domain.ErrSelfPurchase
	}
	if input.PriceLamports <= 0 {
		return receipt, status.Error(codes.InvalidArgument, "subscription price must be positive")
	}
	if input.Tier.Rank() == 0 {
		return receipt, status.Errorf(codes.InvalidArgument, "unknown tier %q", input.Tier)
	}
	days := input.DurationDays
	if days <= 0 {
		days = 30
	}

	wallets, err := uc.Wallets.GetCreatorWallet(ctx, input.CreatorID)
	if err != nil {
		return receipt, status.Errorf(codes.FailedPrecondition, "creator wallet unavailable: %v", err)
	}

	dist := uc.Pricing.Distribute(input.PriceLamports, wallets)
	receipt.PricePaid = input.PriceLamports
	receipt.Currency = "SOL"
	receipt.Distribution = dist

	signature, err := uc.executeTransfer(ctx, "subscription", input.BuyerWallet, buildLegs(dist, uc.PlatformWallet), "subscribe:"+input.CreatorID, progress)
	receipt.TxSignature = signature
	if err != nil {
		receipt.Status = failureStatus(err)
		uc.Metrics.SettlementsTotal.WithLabelValues("subscription", "failed").Inc()
		report(progress, StageFailed)
		return receipt, err
	}
	receipt.Status = domain.SettlementConfirmed

	now := time.Now()
	sub := &domain.Subscription{
		ID:           uuid.New().String(),
		CreatorID:    input.CreatorID,
		SubscriberID: input.SubscriberID,
		Tier:         input.Tier,
		PricePaid:    input.PriceLamports,
		TxSignature:  signature,
		StartedAt:    now,
		ExpiresAt:    now.AddDate(0, 0, days),
	}
	recorded, err := uc.SubscriptionRepo.RecordSubscription(ctx, sub)
	if err != nil {
		uc.Metrics.ReconciliationTotal.WithLabelValues("subscription").Inc()
		report(progress, StageFailed)
		return receipt, &domain.ReconciliationError{TxSignature: signature, Err: err}
	}
	receipt.Subscription = recorded
	receipt.Status = domain.SettlementRecorded

	uc.Metrics.SettlementsTotal.WithLabelValues("subscription", "recorded").Inc()
	uc.Metrics.SettlementAmountTotal.WithLabelValues("subscription", receipt.Currency).Add(float64(input.PriceLamports))
	uc.Metrics.SettlementDuration.WithLabelValues("subscription").Observe(time.Since(start).Seconds())

	uc.publishAsync(kafka.SettlementEvent{
		Kind:        "subscription",
		CreatorID:   input.CreatorID,
		BuyerID:     input.SubscriberID,
		Amount:      input.PriceLamports,
		Currency:    receipt.Currency,
		TxSignature: signature,
		Status:      string(domain.SettlementRecorded),
	})

	report(progress, StageDone)
	return receipt, nil
}
