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

const offerRequestIndex = "request_id-index"

// CreateOffer persists a new PENDING offer.
func (s *Store) CreateOffer(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	offerAV, err := attributevalue.MarshalMap(offer)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal offer: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Offers),
		Item:                offerAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to create offer in DynamoDB: %w", err)
	}

	return offer, nil
}

// GetOffer retrieves an offer from DynamoDB by its ID.
func (s *Store) GetOffer(ctx context.Context, offerID string) (*models.Offer, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": offerID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal offer ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.Offers),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get offer from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, storage.ErrNotFound
	}

	var offer models.Offer
	if err := attributevalue.UnmarshalMap(result.Item, &offer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal offer: %w", err)
	}

	return &offer, nil
}

// ListOffersByRequest retrieves all offers on a request.
func (s *Store) ListOffersByRequest(ctx context.Context, requestID string) ([]models.Offer, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Offers),
		IndexName:              aws.String(offerRequestIndex),
		KeyConditionExpression: aws.String("request_id = :request_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":request_id": &types.AttributeValueMemberS{Value: requestID},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}

	var offers []models.Offer
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &offers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal offers: %w", err)
	}

	return offers, nil
}

// RejectOffer flips a PENDING offer to REJECTED.
func (s *Store) RejectOffer(ctx context.Context, offerID string) error {
	item := s.offerRejectItem(offerID)
	if err := s.execTransact(ctx, []transactItem{item}); err != nil {
		return fmt.Errorf("reject offer: %w", err)
	}
	return nil
}

// SetWorkSubmitted flips the work_submitted flag on an ACCEPTED offer.
func (s *Store) SetWorkSubmitted(ctx context.Context, offerID string) error {
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.Tables.Offers),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: offerID},
		},
		UpdateExpression:    aws.String("SET work_submitted = :true, updated_at = :now"),
		ConditionExpression: aws.String("#status = :accepted"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":true":     &types.AttributeValueMemberBOOL{Value: true},
			":accepted": &types.AttributeValueMemberS{Value: string(models.OfferAccepted)},
			":now":      &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
		},
	}

	if _, err := s.Client.UpdateItem(ctx, input); err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return storage.ErrAlreadyProcessed
		}
		return fmt.Errorf("failed to mark work submitted: %w", err)
	}
	return nil
}

// offerAcceptItem builds the transact item flipping a PENDING offer to
// ACCEPTED and freezing its final price.
func (s *Store) offerAcceptItem(offerID string, finalPrice int64) transactItem {
	return transactItem{
		item: types.TransactWriteItem{
			Update: &types.Update{
				TableName: aws.String(s.Tables.Offers),
				Key: map[string]types.AttributeValue{
					"id": &types.AttributeValueMemberS{Value: offerID},
				},
				UpdateExpression:    aws.String("SET #status = :accepted, final_price = :final_price, updated_at = :now"),
				ConditionExpression: aws.String("#status = :pending"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":accepted":    &types.AttributeValueMemberS{Value: string(models.OfferAccepted)},
					":pending":     &types.AttributeValueMemberS{Value: string(models.OfferPending)},
					":final_price": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", finalPrice)},
					":now":         &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
				},
			},
		},
		onCondFail: staticErr(storage.ErrAlreadyAccepted),
	}
}

// offerRejectItem builds the transact item flipping a PENDING offer to
// REJECTED.
func (s *Store) offerRejectItem(offerID string) transactItem {
	return transactItem{
		item: types.TransactWriteItem{
			Update: &types.Update{
				TableName: aws.String(s.Tables.Offers),
				Key: map[string]types.AttributeValue{
					"id": &types.AttributeValueMemberS{Value: offerID},
				},
				UpdateExpression:    aws.String("SET #status = :rejected, updated_at = :now"),
				ConditionExpression: aws.String("#status = :pending"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":rejected": &types.AttributeValueMemberS{Value: string(models.OfferRejected)},
					":pending":  &types.AttributeValueMemberS{Value: string(models.OfferPending)},
					":now":      &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
				},
			},
		},
		onCondFail: staticErr(storage.ErrAlreadyProcessed),
	}
}
