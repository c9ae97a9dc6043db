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

const requestClientIndex = "client_id-index"

// CreateRequest persists a new OPEN request.
func (s *Store) CreateRequest(ctx context.Context, req *models.Request) (*models.Request, error) {
	reqAV, err := attributevalue.MarshalMap(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Requests),
		Item:                reqAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to create request in DynamoDB: %w", err)
	}

	return req, nil
}

// GetRequest retrieves a request from DynamoDB by its ID.
func (s *Store) GetRequest(ctx context.Context, requestID string) (*models.Request, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": requestID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.Requests),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get request from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, storage.ErrNotFound
	}

	var req models.Request
	if err := attributevalue.UnmarshalMap(result.Item, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request: %w", err)
	}

	return &req, nil
}

// TransitionRequest flips a request's status conditioned on its expected
// current status. Used for the unfunded transitions; funded transitions ride
// inside the apply-operations.
func (s *Store) TransitionRequest(ctx context.Context, t storage.RequestTransition) error {
	item := s.requestTransitionItem(t, staticErr(storage.ErrAlreadyProcessed))
	if err := s.execTransact(ctx, []transactItem{item}); err != nil {
		return fmt.Errorf("request transition: %w", err)
	}
	return nil
}

// ListRequestsByClient retrieves a client's requests, newest first.
func (s *Store) ListRequestsByClient(ctx context.Context, clientID string) ([]models.Request, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Requests),
		IndexName:              aws.String(requestClientIndex),
		KeyConditionExpression: aws.String("client_id = :client_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":client_id": &types.AttributeValueMemberS{Value: clientID},
		},
		ScanIndexForward: aws.Bool(false),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}

	var reqs []models.Request
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &reqs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal requests: %w", err)
	}

	return reqs, nil
}

// requestTransitionItem builds the transact item flipping a request's status
// under a current-status condition.
func (s *Store) requestTransitionItem(t storage.RequestTransition, onCondFail func(ctx context.Context) error) transactItem {
	now := time.Now().UTC()
	expr := "SET #status = :to, updated_at = :now"
	values := map[string]types.AttributeValue{
		":to":   &types.AttributeValueMemberS{Value: string(t.To)},
		":from": &types.AttributeValueMemberS{Value: string(t.From)},
		":now":  &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)},
	}
	if t.AcceptedOfferID != "" {
		expr += ", accepted_offer_id = :offer_id"
		values[":offer_id"] = &types.AttributeValueMemberS{Value: t.AcceptedOfferID}
	}
	if t.To == models.RequestCompleted {
		expr += ", completed_at = :completed_at"
		values[":completed_at"] = &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)}
	}

	return transactItem{
		item: types.TransactWriteItem{
			Update: &types.Update{
				TableName: aws.String(s.Tables.Requests),
				Key: map[string]types.AttributeValue{
					"id": &types.AttributeValueMemberS{Value: t.ID},
				},
				UpdateExpression:          aws.String(expr),
				ConditionExpression:       aws.String("#status = :from"),
				ExpressionAttributeNames:  map[string]string{"#status": "status"},
				ExpressionAttributeValues: values,
			},
		},
		onCondFail: onCondFail,
	}
}
