package services

import (
	"context"

	"github.com/fin-ledger/bankledger/internal/core/domain"
	"github.com/fin-ledger/bankledger/internal/dto"
)

// LedgerWriterSvc defines the four balance-mutating ledger operations. These
// are the only mutators of account balances in the system; each runs inside a
// single atomic unit against the store.
type LedgerWriterSvc interface {
	// CreateAccount opens a new account for userID with a non-negative opening
	// balance. Fails with ErrInvalidAmount otherwise.
	CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error)

	// Deposit adds a positive amount to an account owned by userID and appends
	// the matching ledger entry.
	Deposit(ctx context.Context, userID string, req dto.DepositRequest) (*domain.Transaction, error)

	// Withdraw removes a positive amount from an account owned by userID,
	// failing with ErrInsufficientFunds if the freshest balance is too low.
	Withdraw(ctx context.Context, userID string, req dto.WithdrawRequest) (*domain.Transaction, error)

	// Transfer moves a positive amount between two same-owner accounts and
	// appends both linked ledger entries. Returns the source-side entry.
	Transfer(ctx context.Context, userID string, req dto.TransferRequest) (*domain.Transaction, error)
}

// LedgerReaderSvc defines read-only access to the ledger log.
type LedgerReaderSvc interface {
	// ListTransactions returns the entries across all of userID's accounts,
	// newest first. Never mutates state.
	ListTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)

	// GetTransactionByID retrieves a single ledger entry, failing with
	// ErrForbidden when its account belongs to a different user.
	GetTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error)
}

// LedgerSvcFacade combines all ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerWriterSvc
	LedgerReaderSvc
}
