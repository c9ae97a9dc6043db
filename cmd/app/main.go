package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/servly/escrow-engine/pkg/config"
	"github.com/servly/escrow-engine/pkg/disputes"
	"github.com/servly/escrow-engine/pkg/events"
	"github.com/servly/escrow-engine/pkg/handlers"
	"github.com/servly/escrow-engine/pkg/middleware"
	"github.com/servly/escrow-engine/pkg/requests"
	dynamostore "github.com/servly/escrow-engine/pkg/storage/dynamodb"
	"github.com/servly/escrow-engine/pkg/wallet"
	"github.com/servly/escrow-engine/pkg/withdrawals"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// AWS Session
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	store := dynamostore.New(dynamodb.NewFromConfig(awsCfg), dynamostore.Tables{
		Wallets:        cfg.WalletsTable,
		Ledger:         cfg.LedgerTable,
		Requests:       cfg.RequestsTable,
		Offers:         cfg.OffersTable,
		Policies:       cfg.PoliciesTable,
		Disputes:       cfg.DisputesTable,
		DisputeReplies: cfg.DisputeRepliesTable,
		Withdrawals:    cfg.WithdrawalsTable,
	})

	// Events are advisory; run without a queue when none is configured.
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.EventsQueueURL != "" {
		publisher = events.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.EventsQueueURL)
	}

	walletSvc := wallet.NewService(store, publisher, logger)
	requestSvc := requests.NewService(store, walletSvc, cfg.PlatformFeePercent, logger)
	disputeSvc := disputes.NewService(store, walletSvc, publisher, cfg.PlatformFeePercent, cfg.DisputeWindow(), logger)
	withdrawalSvc := withdrawals.NewService(store, walletSvc, publisher, logger)

	handler := handlers.NewApiHandler(walletSvc, requestSvc, disputeSvc, withdrawalSvc, store)

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.NewStructuredLogger(logger))
	handler.Routes(router)

	logger.Info("starting server", "port", cfg.HTTPPort)

	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
