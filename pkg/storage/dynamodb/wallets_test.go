package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dynamodbsdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/servly/escrow-engine/pkg/models"
	"github.com/servly/escrow-engine/pkg/storage"
	"github.com/servly/escrow-engine/pkg/storage/dynamodb/mocks"
)

func TestCreateWallet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		mockClient.On("PutItem", mock.Anything, mock.Anything).Once().Return(&dynamodbsdk.PutItemOutput{}, nil)

		wallet, err := store.CreateWallet(context.Background(), &models.Wallet{UserID: "user-1", Currency: "USD", IsActive: true})

		assert.NoError(t, err)
		assert.Equal(t, int64(1), wallet.Version)
		assert.False(t, wallet.CreatedAt.IsZero())
		mockClient.AssertExpectations(t)
	})

	t.Run("Already Exists", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		_, err := store.CreateWallet(context.Background(), &models.Wallet{UserID: "user-1"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
		mockClient.AssertExpectations(t)
	})
}

func TestGetWallet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		stored := &models.Wallet{UserID: "user-1", TotalBalance: 60000, AvailableBalance: 5000, IsActive: true, Version: 2}
		storedAV, _ := attributevalue.MarshalMap(stored)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodbsdk.GetItemOutput{Item: storedAV}, nil)

		wallet, err := store.GetWallet(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Equal(t, int64(60000), wallet.TotalBalance)
		assert.Equal(t, int64(55000), wallet.HeldBalance())
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodbsdk.GetItemOutput{}, nil)

		_, err := store.GetWallet(context.Background(), "missing")

		assert.ErrorIs(t, err, storage.ErrWalletNotFound)
		mockClient.AssertExpectations(t)
	})
}

func TestSetWalletActive(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Once().Return(&dynamodbsdk.UpdateItemOutput{}, nil)

		assert.NoError(t, store.SetWalletActive(context.Background(), "user-1", false))
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		err := store.SetWalletActive(context.Background(), "missing", false)

		assert.ErrorIs(t, err, storage.ErrWalletNotFound)
		mockClient.AssertExpectations(t)
	})
}

func TestListWallets(t *testing.T) {
	t.Run("Scan Failure", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, testTables())

		mockClient.On("Scan", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

		_, err := store.ListWallets(context.Background())

		assert.Error(t, err)
		mockClient.AssertExpectations(t)
	})
}
