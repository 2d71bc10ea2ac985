package repositories

import (
	"context"

	"github.com/fin-ledger/bankledger/internal/core/domain"
)

// TransactionReader defines read-only access to the ledger log. Writes go
// exclusively through LedgerTx.AppendTransactions.
type TransactionReader interface {
	// FindTransactionByID retrieves a single ledger entry.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByAccountIDs retrieves entries referencing any of the
	// given accounts, newest first. A limit <= 0 falls back to a default.
	ListTransactionsByAccountIDs(ctx context.Context, accountIDs []string, limit int) ([]domain.Transaction, error)
}

// TransactionRepositoryFacade combines all transaction-log repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
}
