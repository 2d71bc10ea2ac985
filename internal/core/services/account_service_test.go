package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fin-ledger/bankledger/internal/apperrors"
	"github.com/fin-ledger/bankledger/internal/core/domain"
	portssvc "github.com/fin-ledger/bankledger/internal/core/ports/services"
	"github.com/fin-ledger/bankledger/internal/core/services"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestGetAccountByID_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	accountID := uuid.NewString()
	expected := &domain.Account{AccountID: accountID, UserID: userID, Name: "Everyday"}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(expected, nil).Once()

	account, err := suite.service.GetAccountByID(ctx, userID, accountID)

	suite.NoError(err)
	suite.Equal(expected, account)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.GetAccountByID(ctx, uuid.NewString(), accountID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(account)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_OtherOwner() {
	ctx := context.Background()
	accountID := uuid.NewString()
	stored := &domain.Account{AccountID: accountID, UserID: uuid.NewString(), Name: "Not Yours"}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(stored, nil).Once()

	account, err := suite.service.GetAccountByID(ctx, uuid.NewString(), accountID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(account)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListAccounts_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	expected := []domain.Account{
		{AccountID: uuid.NewString(), UserID: userID, Name: "A"},
		{AccountID: uuid.NewString(), UserID: userID, Name: "B"},
	}

	suite.mockRepo.On("ListAccountsByUserID", ctx, userID).Return(expected, nil).Once()

	accounts, err := suite.service.ListAccounts(ctx, userID)

	suite.NoError(err)
	suite.Equal(expected, accounts)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListAccounts_RepoError() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockRepo.On("ListAccountsByUserID", ctx, userID).Return(nil, apperrors.ErrInternal).Once()

	accounts, err := suite.service.ListAccounts(ctx, userID)

	suite.ErrorIs(err, apperrors.ErrInternal)
	suite.Nil(accounts)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
