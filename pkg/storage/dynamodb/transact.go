package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/servly/escrow-engine/pkg/storage"
)

// transactItem pairs a TransactWriteItem with a classifier invoked when that
// item's condition check fails. The classifier turns a positional
// cancellation reason into the business error the caller expects
// (InsufficientFunds, AlreadyAccepted, Busy, ...).
type transactItem struct {
	item       types.TransactWriteItem
	onCondFail func(ctx context.Context) error
}

// execTransact executes the items as one all-or-nothing write and maps a
// conditional cancellation back to the failing item's business error.
func (s *Store) execTransact(ctx context.Context, items []transactItem) error {
	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: make([]types.TransactWriteItem, len(items)),
	}
	for i, it := range items {
		input.TransactItems[i] = it.item
	}

	_, err := s.Client.TransactWriteItems(ctx, input)
	if err == nil {
		return nil
	}

	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for i, reason := range tce.CancellationReasons {
			if aws.ToString(reason.Code) != "ConditionalCheckFailed" || i >= len(items) {
				continue
			}
			if classify := items[i].onCondFail; classify != nil {
				return classify(ctx)
			}
			return storage.ErrBusy
		}
	}
	return fmt.Errorf("failed to execute transaction: %w", err)
}

// classifyWalletFailure re-reads the wallet after a conditional failure to
// tell a business rejection apart from a lost version race. needsActive and
// needsAvailable mirror the condition expression that just failed.
func (s *Store) classifyWalletFailure(userID string, needsActive bool, needsAvailable int64) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		wallet, err := s.GetWallet(ctx, userID)
		if err != nil {
			return storage.ErrBusy
		}
		if needsActive && !wallet.IsActive {
			return storage.ErrWalletInactive
		}
		if needsAvailable > 0 && wallet.AvailableBalance < needsAvailable {
			return storage.ErrInsufficientFunds
		}
		return storage.ErrBusy
	}
}

// staticErr returns a classifier that always maps the failure to err.
func staticErr(err error) func(ctx context.Context) error {
	return func(context.Context) error { return err }
}
