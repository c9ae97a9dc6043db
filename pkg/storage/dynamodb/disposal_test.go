package dynamodb

import (
	"context"
	"testing"

	dynamodbsdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/servly/escrow-engine/pkg/models"
	"github.com/servly/escrow-engine/pkg/storage"
	"github.com/servly/escrow-engine/pkg/storage/dynamodb/mocks"
)

func releaseParams() storage.DisposalParams {
	payer := &models.Wallet{UserID: "client-1", TotalBalance: 60000, AvailableBalance: 5000, IsActive: true, Version: 4}
	payee := &models.Wallet{UserID: "provider-1", TotalBalance: 0, AvailableBalance: 0, IsActive: true, Version: 1}
	return storage.DisposalParams{
		PayerWallet: payer,
		HoldTxID:    "tx-hold-1",
		HoldAmount:  55000,
		PayeeWallet: payee,
		ReleaseNet:  49500,
		ReleaseTx: &models.Transaction{
			ID: "tx-rel-1", WalletID: "provider-1", Amount: 55000,
			Type: models.TxEscrowRelease, Status: models.TxCompleted, RelatedRequestID: "req-1",
		},
		FeeTx: &models.Transaction{
			ID: "tx-fee-1", WalletID: "provider-1", Amount: -5500,
			Type: models.TxPlatformFee, Status: models.TxCompleted, RelatedRequestID: "req-1",
		},
		Request: &storage.RequestTransition{ID: "req-1", From: models.RequestInProgress, To: models.RequestCompleted},
	}
}

func TestApplyDisposal(t *testing.T) {
	t.Run("Full Release", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(input *dynamodbsdk.TransactWriteItemsInput) bool {
			// hold flip + payer + payee + release + fee + request flip
			return len(input.TransactItems) == 6
		})).Once().Return(&dynamodbsdk.TransactWriteItemsOutput{}, nil)

		err := store.ApplyDisposal(context.Background(), releaseParams())

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Repeat Release Is AlreadyProcessed", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		// The hold row was already flipped COMPLETED by the first disposal.
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, canceled(0, 6))

		err := store.ApplyDisposal(context.Background(), releaseParams())

		assert.ErrorIs(t, err, storage.ErrAlreadyProcessed)
		mockClient.AssertExpectations(t)
	})

	t.Run("Repeat Dispute Resolution Is AlreadyResolved", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		p := releaseParams()
		p.Dispute = &storage.DisputeTransition{ID: "disp-1", To: models.DisputeResolvedProvider, RefundPercentage: 0}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, canceled(0, 7))

		err := store.ApplyDisposal(context.Background(), p)

		assert.ErrorIs(t, err, storage.ErrAlreadyResolved)
		mockClient.AssertExpectations(t)
	})

	t.Run("Refund Only Skips Payee Leg", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		p := storage.DisposalParams{
			PayerWallet: &models.Wallet{UserID: "client-1", TotalBalance: 60000, AvailableBalance: 5000, IsActive: true, Version: 4},
			HoldTxID:    "tx-hold-1",
			HoldAmount:  55000,
			RefundAmount: 55000,
			RefundTx: &models.Transaction{
				ID: "tx-ref-1", WalletID: "client-1", Amount: 55000,
				Type: models.TxEscrowRefund, Status: models.TxCompleted, RelatedRequestID: "req-1",
			},
			Request: &storage.RequestTransition{ID: "req-1", From: models.RequestInProgress, To: models.RequestCanceled},
		}
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(input *dynamodbsdk.TransactWriteItemsInput) bool {
			// hold flip + payer + refund + request flip
			return len(input.TransactItems) == 4
		})).Once().Return(&dynamodbsdk.TransactWriteItemsOutput{}, nil)

		err := store.ApplyDisposal(context.Background(), p)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})
}
