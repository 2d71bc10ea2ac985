package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/fin-ledger/bankledger/internal/apperrors"
	"github.com/fin-ledger/bankledger/internal/core/domain"
	portsrepo "github.com/fin-ledger/bankledger/internal/core/ports/repositories"
	"github.com/fin-ledger/bankledger/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxLedgerRepository is the transactional boundary for ledger operations
// against PostgreSQL. Each WithinTx call maps to one database transaction,
// with row locks taken via SELECT ... FOR UPDATE.
type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new transactional ledger repository.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepository {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepository
var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

// WithinTx runs fn inside a single database transaction. Any error from fn
// rolls the whole unit back; a commit failure after fn succeeded is reported
// as ErrTransferFailed since validation has already passed at that point.
func (r *PgxLedgerRepository) WithinTx(ctx context.Context, fn func(ltx portsrepo.LedgerTx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Ignored if the transaction commits successfully.
	defer r.Rollback(ctx, tx)

	if err := fn(&pgxLedgerTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: failed to commit atomic unit: %w", apperrors.ErrTransferFailed, err)
	}
	return nil
}

// pgxLedgerTx exposes the ledger capabilities bound to one open transaction.
type pgxLedgerTx struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

// LockAccounts selects the given rows FOR UPDATE, in ascending account_id
// order, and returns their freshest committed state. The stable ordering keeps
// concurrent units that touch overlapping account sets from deadlocking.
func (t *pgxLedgerTx) LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	ids := make([]string, len(accountIDs))
	copy(ids, accountIDs)
	sort.Strings(ids)

	query := `
		SELECT account_id, user_id, name, account_type, balance, created_at
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`

	rows, err := t.tx.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for update: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account)
	for rows.Next() {
		var modelAcc models.Account
		err := rows.Scan(
			&modelAcc.AccountID,
			&modelAcc.UserID,
			&modelAcc.Name,
			&modelAcc.AccountType,
			&modelAcc.Balance,
			&modelAcc.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		accountsMap[modelAcc.AccountID] = toDomainAccount(modelAcc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", err)
	}

	// Every requested account must exist and be locked before the unit proceeds.
	if len(accountsMap) != len(uniqueIDs(ids)) {
		missing := []string{}
		for _, id := range uniqueIDs(ids) {
			if _, found := accountsMap[id]; !found {
				missing = append(missing, id)
			}
		}
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %s", apperrors.ErrNotFound, strings.Join(missing, ", "))
	}

	return accountsMap, nil
}

// ApplyBalanceChanges updates balances for multiple accounts within the
// transaction. Rows must already be locked by LockAccounts.
func (t *pgxLedgerTx) ApplyBalanceChanges(ctx context.Context, changes map[string]decimal.Decimal) error {
	if len(changes) == 0 {
		return nil
	}

	query := `
		UPDATE accounts
		SET balance = balance + $2
		WHERE account_id = $1;
	`

	batch := &pgx.Batch{}
	accountIDs := make([]string, 0, len(changes))
	for accountID, delta := range changes {
		if !delta.IsZero() {
			batch.Queue(query, accountID, delta)
			accountIDs = append(accountIDs, accountID)
		}
	}

	if batch.Len() == 0 {
		return nil
	}

	br := t.tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = wrapIntegrityErr(fmt.Errorf("failed to update balance for account %s: %w", accountIDs[i], err), err)
			}
		} else if ct.RowsAffected() == 0 {
			// Should not happen for rows locked earlier in this unit.
			if batchErr == nil {
				batchErr = fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountIDs[i])
			}
		}
	}

	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance update batch: %w", err)
	}

	return batchErr
}

// AppendTransactions inserts immutable ledger entries within the transaction.
func (t *pgxLedgerTx) AppendTransactions(ctx context.Context, entries []domain.Transaction) error {
	if len(entries) == 0 {
		return nil
	}

	query := `
		INSERT INTO transactions (transaction_id, account_id, kind, amount, description, related_account_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`

	batch := &pgx.Batch{}
	for _, entry := range entries {
		modelTxn := toModelTransaction(entry)
		batch.Queue(query,
			modelTxn.TransactionID,
			modelTxn.AccountID,
			modelTxn.Kind,
			modelTxn.Amount,
			modelTxn.Description,
			modelTxn.RelatedAccountID,
			modelTxn.CreatedAt,
		)
	}

	br := t.tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return wrapIntegrityErr(fmt.Errorf("failed to append ledger entries: %w", err), err)
	}
	return nil
}

// wrapIntegrityErr tags integrity-constraint failures (class 23) with
// ErrTransferFailed so callers can distinguish a storage-level rejection from
// a plain infrastructure error.
func wrapIntegrityErr(wrapped, cause error) error {
	var pgErr *pgconn.PgError
	if errors.As(cause, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return fmt.Errorf("%w: %w", apperrors.ErrTransferFailed, wrapped)
	}
	return wrapped
}

// uniqueIDs returns the distinct IDs from a sorted slice.
func uniqueIDs(sorted []string) []string {
	out := make([]string, 0, len(sorted))
	for i, id := range sorted {
		if i == 0 || sorted[i-1] != id {
			out = append(out, id)
		}
	}
	return out
}
