package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/servly/escrow-engine/pkg/models"
	"github.com/servly/escrow-engine/pkg/storage"
)

// CreateWallet creates a new wallet record in DynamoDB.
func (s *Store) CreateWallet(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	now := time.Now().UTC()
	wallet.Version = 1
	wallet.CreatedAt = now
	wallet.UpdatedAt = now

	walletAV, err := attributevalue.MarshalMap(wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wallet: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Wallets),
		Item:                walletAV,
		ConditionExpression: aws.String("attribute_not_exists(user_id)"), // Prevent overwriting existing wallets.
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("wallet for user ID %s already exists", wallet.UserID)
		}
		return nil, fmt.Errorf("failed to create wallet in DynamoDB: %w", err)
	}

	return wallet, nil
}

// GetWallet retrieves a user's wallet from DynamoDB by their user ID.
func (s *Store) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wallet user ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.Wallets),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.ErrWalletNotFound
	}

	var wallet models.Wallet
	if err := attributevalue.UnmarshalMap(result.Item, &wallet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet: %w", err)
	}

	return &wallet, nil
}

// SetWalletActive flips the wallet's active flag. Administrative corrections
// stay possible on an inactive wallet; only new holds and withdrawals check
// the flag.
func (s *Store) SetWalletActive(ctx context.Context, userID string, active bool) error {
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.Tables.Wallets),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
		UpdateExpression:    aws.String("SET is_active = :active, updated_at = :now"),
		ConditionExpression: aws.String("attribute_exists(user_id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":active": &types.AttributeValueMemberBOOL{Value: active},
			":now":    &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
		},
	}

	_, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return storage.ErrWalletNotFound
		}
		return fmt.Errorf("failed to update wallet active flag: %w", err)
	}

	return nil
}

// ListWallets retrieves all wallets from DynamoDB.
func (s *Store) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.Tables.Wallets),
	}

	result, err := s.Client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to scan wallets table: %w", err)
	}

	var wallets []models.Wallet
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &wallets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallets: %w", err)
	}

	return wallets, nil
}

// walletDeltaItem builds the transact item applying a balance delta to a
// wallet under its optimistic version. requireActive and requireAvailable
// add the business conditions for holds and withdrawals; they are zero-valued
// for credits and administrative corrections.
func (s *Store) walletDeltaItem(w *models.Wallet, totalDelta, availableDelta int64, requireActive bool, requireAvailable int64) transactItem {
	cond := "version = :version"
	values := map[string]types.AttributeValue{
		":td":      &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", totalDelta)},
		":ad":      &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", availableDelta)},
		":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", w.Version)},
		":inc":     &types.AttributeValueMemberN{Value: "1"},
		":now":     &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
	}
	if requireActive {
		cond += " AND is_active = :active"
		values[":active"] = &types.AttributeValueMemberBOOL{Value: true}
	}
	if requireAvailable > 0 {
		cond += " AND available_balance >= :need"
		values[":need"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", requireAvailable)}
	}

	return transactItem{
		item: types.TransactWriteItem{
			Update: &types.Update{
				TableName: aws.String(s.Tables.Wallets),
				Key: map[string]types.AttributeValue{
					"user_id": &types.AttributeValueMemberS{Value: w.UserID},
				},
				UpdateExpression:          aws.String("SET total_balance = total_balance + :td, available_balance = available_balance + :ad, version = version + :inc, updated_at = :now"),
				ConditionExpression:       aws.String(cond),
				ExpressionAttributeValues: values,
			},
		},
		onCondFail: s.classifyWalletFailure(w.UserID, requireActive, requireAvailable),
	}
}
