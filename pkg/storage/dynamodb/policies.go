package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/servly/escrow-engine/pkg/models"
)

const policyServiceIndex = "service_id-index"

// PutMarginPolicy creates or replaces a margin policy. Policy changes never
// touch accepted offers; the final price was frozen at acceptance.
func (s *Store) PutMarginPolicy(ctx context.Context, policy *models.MarginPolicy) (*models.MarginPolicy, error) {
	policyAV, err := attributevalue.MarshalMap(policy)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal margin policy: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.Tables.Policies),
		Item:      policyAV,
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to put margin policy in DynamoDB: %w", err)
	}

	return policy, nil
}

// ListPoliciesByService retrieves all policies configured for a service.
func (s *Store) ListPoliciesByService(ctx context.Context, serviceID string) ([]models.MarginPolicy, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Policies),
		IndexName:              aws.String(policyServiceIndex),
		KeyConditionExpression: aws.String("service_id = :service_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":service_id": &types.AttributeValueMemberS{Value: serviceID},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query margin policies: %w", err)
	}

	var policies []models.MarginPolicy
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &policies); err != nil {
		return nil, fmt.Errorf("failed to unmarshal margin policies: %w", err)
	}

	return policies, nil
}
