package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/soluna-labs/soluna-access-service/internal/config"
	"github.com/soluna-labs/soluna-access-service/internal/delivery/http/handlers"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/kafka"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/metrics"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/migrate"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/postgres"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/postgres/repository"
	redisCache "github.com/soluna-labs/soluna-access-service/internal/infrastructure/redis"
	"github.com/soluna-labs/soluna-access-service/internal/infrastructure/solana"
	"github.com/soluna-labs/soluna-access-service/internal/usecase"
	"github.com/soluna-labs/soluna-access-service/internal/usecase/settlement"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)

	if cfg.AccessDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.AccessDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	settlementPublisher, err := kafka.NewKafkaPublisher(kafka.KafkaConfig{
		Brokers:    cfg.Kafka.Brokers,
		Topic:      cfg.Kafka.Topic,
		Username:   cfg.Kafka.Username,
		Password:   cfg.Kafka.Password,
		TLSEnabled: cfg.Kafka.TLSEnabled,
	})
	if err != nil {
		log.Fatalf("failed to init kafka publisher: %v", err)
	}
	defer settlementPublisher.Close()

	holds := redisCache.NewReservationCache(cfg)
	defer holds.Close()

	chain := solana.NewClient(cfg.Solana.RPCEndpoint)
	settlementMetrics := metrics.NewSettlementMetrics()

	// Init repositories
	postRepo := repository.NewDefaultPostRepository(db)
	purchaseRepo := repository.NewDefaultPurchaseRepository(db)
	subscriptionRepo := repository.NewDefaultSubscriptionRepository(db)
	ledgerRepo := repository.NewDefaultRedemptionLedger(db)
	walletDirectory := repository.NewDefaultWalletDirectory(db)

	// Init usecases
	accessUc := usecase.NewDefaultAccessUsecase(settlementMetrics)
	pricingUc := usecase.NewDefaultPricingUsecase()
	postUc := usecase.NewDefaultPostUsecase(postRepo, purchaseRepo, subscriptionRepo, ledgerRepo, accessUc, pricingUc)
	settlementUc := settlement.NewDefaultSettlementUsecase(
		postRepo,
		purchaseRepo,
		subscriptionRepo,
		ledgerRepo,
		chain,
		walletDirectory,
		holds,
		settlementPublisher,
		settlementMetrics,
		pricingUc,
		cfg.Platform.TreasuryWallet,
	)
	settlementUc.BidDepositLamports = cfg.Platform.BidDepositLamports

	// Init handlers
	accessHandler := handlers.NewAccessHandler(postUc)
	settlementHandler := handlers.NewSettlementHandler(settlementUc)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /access/resolve", accessHandler.ResolveAccess)
	mux.HandleFunc("POST /posts", accessHandler.CreatePost)
	mux.HandleFunc("GET /creators/{creatorID}/posts", accessHandler.ListCreatorPosts)
	mux.HandleFunc("POST /purchases", settlementHandler.Purchase)
	mux.HandleFunc("POST /purchases/retry-recording", settlementHandler.RetryRecording)
	mux.HandleFunc("POST /subscriptions", settlementHandler.Subscribe)
	mux.HandleFunc("POST /bids", settlementHandler.Bid)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Auction sweeper
	sweepPeriod := time.Minute
	if cfg.Platform.AuctionSweepPeriod != "" {
		parsed, err := time.ParseDuration(cfg.Platform.AuctionSweepPeriod)
		if err != nil {
			log.Fatalf("invalid auction_sweep_period: %v", err)
		}
		sweepPeriod = parsed
	}
	go func() {
		ticker := time.NewTicker(sweepPeriod)
		defer ticker.Stop()
		for range ticker.C {
			if err := settlementUc.SettleExpiredAuctions(context.Background()); err != nil {
				slog.Error("auction sweep failed", "error", err.Error())
			}
		}
	}()

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	slog.Info("access service listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
