package repositories

import (
	"context"

	"github.com/fin-ledger/bankledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerTx exposes the capabilities available inside one atomic unit of work.
// Everything invoked through it either commits as a whole or leaves no trace.
type LedgerTx interface {
	// LockAccounts acquires exclusive row locks on the given accounts where the
	// backing engine supports them (a no-op under engines that don't) and
	// returns the freshest committed state for each ID. Locks are always taken
	// in ascending ID order regardless of input order, so concurrent units
	// touching overlapping account sets cannot form a lock-wait cycle.
	// Returns ErrNotFound if any requested account is missing.
	LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ApplyBalanceChanges adds each signed delta to the matching account's
	// balance. Accounts must have been locked by LockAccounts first.
	ApplyBalanceChanges(ctx context.Context, changes map[string]decimal.Decimal) error

	// AppendTransactions persists immutable ledger entries. Existing rows are
	// never touched.
	AppendTransactions(ctx context.Context, entries []domain.Transaction) error
}

// LedgerRepository is the transactional boundary for ledger operations.
type LedgerRepository interface {
	// WithinTx runs fn inside a single atomic unit. If fn returns an error the
	// unit is rolled back in full; otherwise it is committed. A commit failure
	// after fn succeeded surfaces wrapped in ErrTransferFailed.
	WithinTx(ctx context.Context, fn func(ltx LedgerTx) error) error
}
