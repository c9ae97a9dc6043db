package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/servly/escrow-engine/pkg/models"
	"github.com/servly/escrow-engine/pkg/storage"
)

const withdrawalWalletIndex = "wallet_id-index"

// CreateWithdrawal persists a new PENDING withdrawal request.
func (s *Store) CreateWithdrawal(ctx context.Context, wr *models.WithdrawalRequest) (*models.WithdrawalRequest, error) {
	wrAV, err := attributevalue.MarshalMap(wr)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal withdrawal request: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Withdrawals),
		Item:                wrAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to create withdrawal request in DynamoDB: %w", err)
	}

	return wr, nil
}

// GetWithdrawal retrieves a withdrawal request from DynamoDB by its ID.
func (s *Store) GetWithdrawal(ctx context.Context, withdrawalID string) (*models.WithdrawalRequest, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": withdrawalID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal withdrawal ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.Withdrawals),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal request from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, storage.ErrNotFound
	}

	var wr models.WithdrawalRequest
	if err := attributevalue.UnmarshalMap(result.Item, &wr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal withdrawal request: %w", err)
	}

	return &wr, nil
}

// RejectWithdrawal flips a PENDING request to REJECTED with the admin's note.
// No funds were held, so rejection releases nothing.
func (s *Store) RejectWithdrawal(ctx context.Context, withdrawalID, note string) error {
	item := s.withdrawalStatusItem(withdrawalID, models.WithdrawalPending, models.WithdrawalRejected, note, staticErr(storage.ErrAlreadyProcessed))
	if err := s.execTransact(ctx, []transactItem{item}); err != nil {
		return fmt.Errorf("reject withdrawal: %w", err)
	}
	return nil
}

// MarkWithdrawalPaid flips APPROVED -> COMPLETED once the external payout is
// confirmed.
func (s *Store) MarkWithdrawalPaid(ctx context.Context, withdrawalID string) error {
	item := s.withdrawalStatusItem(withdrawalID, models.WithdrawalApproved, models.WithdrawalCompleted, "", staticErr(storage.ErrAlreadyProcessed))
	if err := s.execTransact(ctx, []transactItem{item}); err != nil {
		return fmt.Errorf("mark withdrawal paid: %w", err)
	}
	return nil
}

// ListWithdrawalsByWallet retrieves a wallet's withdrawal requests, newest
// first.
func (s *Store) ListWithdrawalsByWallet(ctx context.Context, walletID string) ([]models.WithdrawalRequest, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Withdrawals),
		IndexName:              aws.String(withdrawalWalletIndex),
		KeyConditionExpression: aws.String("wallet_id = :wallet_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":wallet_id": &types.AttributeValueMemberS{Value: walletID},
		},
		ScanIndexForward: aws.Bool(false),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query withdrawal requests: %w", err)
	}

	var wrs []models.WithdrawalRequest
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &wrs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal withdrawal requests: %w", err)
	}

	return wrs, nil
}
