package services

import (
	"context"

	"github.com/fin-ledger/bankledger/internal/core/domain"
)

// AccountReaderSvc defines read operations for account data. Account creation
// lives on the ledger facade since it seeds a balance.
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account, failing with ErrForbidden when it
	// belongs to a different user.
	GetAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error)

	// ListAccounts retrieves all accounts owned by userID.
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
}
