package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/servly/escrow-engine/pkg/models"
	"github.com/servly/escrow-engine/pkg/storage"
)

// ApplyWithdrawalApproval books the withdrawal: debit both balances, append
// the WITHDRAWAL record, and flip the request PENDING -> APPROVED, all in one
// write. The balance is re-checked by the wallet item's condition, so two
// racing approvals cannot overdraw; the second fails either the balance
// condition or the status condition (AlreadyProcessed).
func (s *Store) ApplyWithdrawalApproval(ctx context.Context, p storage.WithdrawalApprovalParams) error {
	ledgerItem, err := s.ledgerPutItem(p.Tx)
	if err != nil {
		return err
	}

	items := []transactItem{
		s.walletDeltaItem(p.Wallet, -p.Amount, -p.Amount, true, p.Amount),
		ledgerItem,
		s.withdrawalStatusItem(p.WithdrawalID, models.WithdrawalPending, models.WithdrawalApproved, "", staticErr(storage.ErrAlreadyProcessed)),
	}

	if err := s.execTransact(ctx, items); err != nil {
		return fmt.Errorf("withdrawal approval: %w", err)
	}
	return nil
}

// withdrawalStatusItem builds the transact item flipping a withdrawal request
// between statuses under a current-status condition.
func (s *Store) withdrawalStatusItem(withdrawalID string, from, to models.WithdrawalStatus, note string, onCondFail func(ctx context.Context) error) transactItem {
	expr := "SET #status = :to, updated_at = :now"
	values := map[string]types.AttributeValue{
		":to":   &types.AttributeValueMemberS{Value: string(to)},
		":from": &types.AttributeValueMemberS{Value: string(from)},
		":now":  &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
	}
	if note != "" {
		expr += ", admin_notes = :note"
		values[":note"] = &types.AttributeValueMemberS{Value: note}
	}

	return transactItem{
		item: types.TransactWriteItem{
			Update: &types.Update{
				TableName: aws.String(s.Tables.Withdrawals),
				Key: map[string]types.AttributeValue{
					"id": &types.AttributeValueMemberS{Value: withdrawalID},
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
