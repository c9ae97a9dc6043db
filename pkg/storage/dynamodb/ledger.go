package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/servly/escrow-engine/pkg/models"
	"github.com/servly/escrow-engine/pkg/storage"
)

const (
	ledgerWalletIndex  = "wallet_id-index"
	ledgerRequestIndex = "request_id-index"
)

// GetTransaction retrieves a ledger record from DynamoDB by its ID.
func (s *Store) GetTransaction(ctx context.Context, txID string) (*models.Transaction, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": txID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.Ledger),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.ErrNotFound
	}

	var tx models.Transaction
	if err := attributevalue.UnmarshalMap(result.Item, &tx); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
	}

	return &tx, nil
}

// ListTransactionsByWallet retrieves a wallet's ledger records, newest first.
func (s *Store) ListTransactionsByWallet(ctx context.Context, walletID string, filter storage.TransactionFilter) ([]models.Transaction, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Ledger),
		IndexName:              aws.String(ledgerWalletIndex),
		KeyConditionExpression: aws.String("wallet_id = :wallet_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":wallet_id": &types.AttributeValueMemberS{Value: walletID},
		},
		ScanIndexForward: aws.Bool(false),
	}

	var filters []string
	names := map[string]string{}
	if filter.Type != "" {
		filters = append(filters, "#type = :type")
		names["#type"] = "type"
		input.ExpressionAttributeValues[":type"] = &types.AttributeValueMemberS{Value: string(filter.Type)}
	}
	if filter.Status != "" {
		filters = append(filters, "#status = :status")
		names["#status"] = "status"
		input.ExpressionAttributeValues[":status"] = &types.AttributeValueMemberS{Value: string(filter.Status)}
	}
	if len(filters) > 0 {
		expr := filters[0]
		for _, f := range filters[1:] {
			expr += " AND " + f
		}
		input.FilterExpression = aws.String(expr)
		input.ExpressionAttributeNames = names
	}
	if filter.Limit > 0 {
		input.Limit = aws.Int32(filter.Limit)
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}

	var txs []models.Transaction
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &txs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
	}

	return txs, nil
}

// GetOutstandingHold retrieves the PENDING escrow hold for a request.
// Acceptance writes at most one hold per request, so the first PENDING
// ESCROW_HOLD row is the hold.
func (s *Store) GetOutstandingHold(ctx context.Context, requestID string) (*models.Transaction, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Ledger),
		IndexName:              aws.String(ledgerRequestIndex),
		KeyConditionExpression: aws.String("related_request_id = :request_id"),
		FilterExpression:       aws.String("#type = :hold AND #status = :pending"),
		ExpressionAttributeNames: map[string]string{
			"#type":   "type",
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":request_id": &types.AttributeValueMemberS{Value: requestID},
			":hold":       &types.AttributeValueMemberS{Value: string(models.TxEscrowHold)},
			":pending":    &types.AttributeValueMemberS{Value: string(models.TxPending)},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding hold: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, storage.ErrNotFound
	}

	var tx models.Transaction
	if err := attributevalue.UnmarshalMap(result.Items[0], &tx); err != nil {
		return nil, fmt.Errorf("failed to unmarshal hold transaction: %w", err)
	}

	return &tx, nil
}

// BalanceAsOf recomputes a wallet's balance from COMPLETED ledger records at
// a point in time. Audit only; live balances come from the wallet record.
func (s *Store) BalanceAsOf(ctx context.Context, walletID string, at time.Time) (int64, error) {
	txs, err := s.ListTransactionsByWallet(ctx, walletID, storage.TransactionFilter{Status: models.TxCompleted})
	if err != nil {
		return 0, err
	}

	var sum int64
	for _, tx := range txs {
		if !tx.CreatedAt.After(at) {
			sum += tx.Amount
		}
	}
	return sum, nil
}

// ledgerPutItem builds the transact item appending one immutable ledger
// record. The id condition makes the append idempotent within a retry.
func (s *Store) ledgerPutItem(tx *models.Transaction) (transactItem, error) {
	txAV, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return transactItem{}, fmt.Errorf("failed to marshal ledger record: %w", err)
	}
	return transactItem{
		item: types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.Tables.Ledger),
				Item:                txAV,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		},
	}, nil
}

// holdFlipItem builds the transact item flipping an ESCROW_HOLD row from
// PENDING to COMPLETED. The status condition is what makes every disposal
// path single-shot: a hold can only be disposed once.
func (s *Store) holdFlipItem(holdTxID string, onCondFail func(ctx context.Context) error) transactItem {
	return transactItem{
		item: types.TransactWriteItem{
			Update: &types.Update{
				TableName: aws.String(s.Tables.Ledger),
				Key: map[string]types.AttributeValue{
					"id": &types.AttributeValueMemberS{Value: holdTxID},
				},
				UpdateExpression:    aws.String("SET #status = :completed"),
				ConditionExpression: aws.String("#status = :pending"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":completed": &types.AttributeValueMemberS{Value: string(models.TxCompleted)},
					":pending":   &types.AttributeValueMemberS{Value: string(models.TxPending)},
				},
			},
		},
		onCondFail: onCondFail,
	}
}
