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

const disputeRequestIndex = "request_id-index"

// OpenDispute atomically creates the dispute record and moves the parent
// request into DISPUTE. The request-status condition is what enforces one
// active dispute per request: a racing second open fails it.
func (s *Store) OpenDispute(ctx context.Context, dispute *models.Dispute, request storage.RequestTransition) (*models.Dispute, error) {
	disputeAV, err := attributevalue.MarshalMap(dispute)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal dispute: %w", err)
	}

	items := []transactItem{
		{
			item: types.TransactWriteItem{
				Put: &types.Put{
					TableName:           aws.String(s.Tables.Disputes),
					Item:                disputeAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
		},
		s.requestTransitionItem(request, staticErr(storage.ErrAlreadyProcessed)),
	}

	if err := s.execTransact(ctx, items); err != nil {
		return nil, fmt.Errorf("open dispute: %w", err)
	}

	return dispute, nil
}

// GetDispute retrieves a dispute from DynamoDB by its ID.
func (s *Store) GetDispute(ctx context.Context, disputeID string) (*models.Dispute, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": disputeID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal dispute ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.Disputes),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get dispute from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, storage.ErrNotFound
	}

	var dispute models.Dispute
	if err := attributevalue.UnmarshalMap(result.Item, &dispute); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dispute: %w", err)
	}

	return &dispute, nil
}

// GetDisputeByRequest retrieves the dispute attached to a request.
func (s *Store) GetDisputeByRequest(ctx context.Context, requestID string) (*models.Dispute, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Disputes),
		IndexName:              aws.String(disputeRequestIndex),
		KeyConditionExpression: aws.String("request_id = :request_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":request_id": &types.AttributeValueMemberS{Value: requestID},
		},
		ScanIndexForward: aws.Bool(false),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query disputes: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, storage.ErrNotFound
	}

	var dispute models.Dispute
	if err := attributevalue.UnmarshalMap(result.Items[0], &dispute); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dispute: %w", err)
	}

	return &dispute, nil
}

// StartDisputeReview flips OPEN -> IN_REVIEW.
func (s *Store) StartDisputeReview(ctx context.Context, disputeID string) error {
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.Tables.Disputes),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: disputeID},
		},
		UpdateExpression:    aws.String("SET #status = :in_review, updated_at = :now"),
		ConditionExpression: aws.String("#status = :open"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":in_review": &types.AttributeValueMemberS{Value: string(models.DisputeInReview)},
			":open":      &types.AttributeValueMemberS{Value: string(models.DisputeOpen)},
			":now":       &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
		},
	}

	if _, err := s.Client.UpdateItem(ctx, input); err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return storage.ErrAlreadyResolved
		}
		return fmt.Errorf("failed to start dispute review: %w", err)
	}
	return nil
}

// ResolveDisputeUnfunded records a resolution with no fund movement. Used
// when the hold was already disposed before the dispute was opened.
func (s *Store) ResolveDisputeUnfunded(ctx context.Context, t storage.DisputeTransition, request *storage.RequestTransition) error {
	items := []transactItem{s.disputeResolveItem(t)}
	if request != nil {
		items = append(items, s.requestTransitionItem(*request, staticErr(storage.ErrAlreadyProcessed)))
	}
	if err := s.execTransact(ctx, items); err != nil {
		return fmt.Errorf("resolve dispute: %w", err)
	}
	return nil
}

// CancelDispute flips an OPEN or IN_REVIEW dispute to CANCELED and restores
// the parent request's pre-dispute status in the same write.
func (s *Store) CancelDispute(ctx context.Context, disputeID string, request storage.RequestTransition) error {
	items := []transactItem{
		{
			item: types.TransactWriteItem{
				Update: &types.Update{
					TableName: aws.String(s.Tables.Disputes),
					Key: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: disputeID},
					},
					UpdateExpression:    aws.String("SET #status = :canceled, updated_at = :now"),
					ConditionExpression: aws.String("#status = :open OR #status = :in_review"),
					ExpressionAttributeNames: map[string]string{
						"#status": "status",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":canceled":  &types.AttributeValueMemberS{Value: string(models.DisputeCanceled)},
						":open":      &types.AttributeValueMemberS{Value: string(models.DisputeOpen)},
						":in_review": &types.AttributeValueMemberS{Value: string(models.DisputeInReview)},
						":now":       &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
					},
				},
			},
			onCondFail: staticErr(storage.ErrAlreadyResolved),
		},
		s.requestTransitionItem(request, staticErr(storage.ErrAlreadyProcessed)),
	}

	if err := s.execTransact(ctx, items); err != nil {
		return fmt.Errorf("cancel dispute: %w", err)
	}
	return nil
}

// AddDisputeReply appends a reply to the thread.
func (s *Store) AddDisputeReply(ctx context.Context, reply *models.DisputeReply) (*models.DisputeReply, error) {
	replyAV, err := attributevalue.MarshalMap(reply)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal dispute reply: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.DisputeReplies),
		Item:                replyAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to add dispute reply: %w", err)
	}

	return reply, nil
}

// ListDisputeReplies retrieves the reply thread in creation order.
func (s *Store) ListDisputeReplies(ctx context.Context, disputeID string) ([]models.DisputeReply, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.DisputeReplies),
		KeyConditionExpression: aws.String("dispute_id = :dispute_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":dispute_id": &types.AttributeValueMemberS{Value: disputeID},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query dispute replies: %w", err)
	}

	var replies []models.DisputeReply
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &replies); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dispute replies: %w", err)
	}

	return replies, nil
}

// disputeResolveItem builds the transact item recording a resolution on an
// IN_REVIEW dispute. The status condition makes resolveDispute idempotent:
// a retry against a terminal dispute fails with AlreadyResolved.
func (s *Store) disputeResolveItem(t storage.DisputeTransition) transactItem {
	return transactItem{
		item: types.TransactWriteItem{
			Update: &types.Update{
				TableName: aws.String(s.Tables.Disputes),
				Key: map[string]types.AttributeValue{
					"id": &types.AttributeValueMemberS{Value: t.ID},
				},
				UpdateExpression:    aws.String("SET #status = :to, resolution = :resolution, refund_amount = :refund_amount, refund_percentage = :refund_percentage, updated_at = :now"),
				ConditionExpression: aws.String("#status = :in_review"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":to":                &types.AttributeValueMemberS{Value: string(t.To)},
					":resolution":        &types.AttributeValueMemberS{Value: t.Resolution},
					":refund_amount":     &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", t.RefundAmount)},
					":refund_percentage": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", t.RefundPercentage)},
					":in_review":         &types.AttributeValueMemberS{Value: string(models.DisputeInReview)},
					":now":               &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
				},
			},
		},
		onCondFail: staticErr(storage.ErrAlreadyResolved),
	}
}
