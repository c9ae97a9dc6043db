package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"

	"github.com/servly/escrow-engine/pkg/audit"
	"github.com/servly/escrow-engine/pkg/config"
	"github.com/servly/escrow-engine/pkg/events"
	dynamostore "github.com/servly/escrow-engine/pkg/storage/dynamodb"
)

var auditor *audit.Auditor

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

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

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.EventsQueueURL != "" {
		publisher = events.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.EventsQueueURL)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	auditor = audit.New(store, publisher, logger)
}

// HandleRequest is triggered by an EventBridge Schedule.
func HandleRequest(ctx context.Context) error {
	found, err := auditor.Run(ctx)
	if err != nil {
		return err
	}
	if len(found) > 0 {
		return fmt.Errorf("audit found %d ledger discrepancies", len(found))
	}
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
