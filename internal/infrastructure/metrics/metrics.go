package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SettlementMetrics covers the settlement pipeline and the classifier's
// degradation path.
type SettlementMetrics struct {
	SettlementsTotal        prometheus.CounterVec
	SettlementAmountTotal   prometheus.CounterVec
	SettlementDuration      prometheus.HistogramVec
	SubmitAttemptsTotal     prometheus.CounterVec
	ConfirmationDuration    prometheus.HistogramVec
	ReconciliationTotal     prometheus.CounterVec
	BidsTotal               prometheus.CounterVec
	RedemptionsTotal        prometheus.CounterVec
	ClassifierDegradedTotal prometheus.CounterVec
}

func NewSettlementMetrics() *SettlementMetrics {
	return &SettlementMetrics{
		SettlementsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlements_total",
				Help: "Settlement attempts by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),

		SettlementAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_amount_lamports_total",
				Help: "Total settled value in lamports",
			},
			[]string{"kind", "currency"},
		),

		SettlementDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "settlement_duration_seconds",
				Help:    "End-to-end settlement duration from building to recorded",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
			},
			[]string{"kind"},
		),

		SubmitAttemptsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_submit_attempts_total",
				Help: "Ledger submission attempts by result",
			},
			[]string{"result"},
		),

		ConfirmationDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "settlement_confirmation_seconds",
				Help:    "Time from submission to observed confirmation",
				Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60},
			},
			[]string{"kind"},
		),

		ReconciliationTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_reconciliation_errors_total",
				Help: "Confirmed payments whose recording failed and needs retry",
			},
			[]string{"kind"},
		),

		BidsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auction_bids_total",
				Help: "Auction bids by outcome",
			},
			[]string{"outcome"},
		),

		RedemptionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flash_sale_redemptions_total",
				Help: "Flash sale redemptions by outcome",
			},
			[]string{"outcome"},
		),

		ClassifierDegradedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "access_classifier_degraded_total",
				Help: "Posts classified in degraded mode due to malformed data",
			},
			[]string{"reason"},
		),
	}
}
