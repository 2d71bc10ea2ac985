package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fin-ledger/bankledger/internal/apperrors"
	"github.com/fin-ledger/bankledger/internal/core/domain"
	portsrepo "github.com/fin-ledger/bankledger/internal/core/ports/repositories"
	"github.com/fin-ledger/bankledger/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultTransactionListLimit = 50

type PgxTransactionRepository struct {
	pool *pgxpool.Pool
}

// newPgxTransactionRepository creates a new read-side repository for the
// transaction log. Inserts happen only through the ledger transaction path.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{pool: pool}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// Helper to convert domain.Transaction to models.Transaction for DB storage
func toModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:    d.TransactionID,
		AccountID:        d.AccountID,
		Kind:             string(d.Kind),
		Amount:           d.Amount,
		Description:      d.Description,
		RelatedAccountID: d.RelatedAccountID,
		CreatedAt:        d.CreatedAt,
	}
}

// Helper to convert models.Transaction from DB to domain.Transaction
func toDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:    m.TransactionID,
		AccountID:        m.AccountID,
		Kind:             domain.TransactionKind(m.Kind),
		Amount:           m.Amount,
		Description:      m.Description,
		RelatedAccountID: m.RelatedAccountID,
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
		},
	}
}

// FindTransactionByID retrieves a single ledger entry.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT transaction_id, account_id, kind, amount, description, related_account_id, created_at
		FROM transactions
		WHERE transaction_id = $1;
	`
	var modelTxn models.Transaction
	err := r.pool.QueryRow(ctx, query, transactionID).Scan(
		&modelTxn.TransactionID,
		&modelTxn.AccountID,
		&modelTxn.Kind,
		&modelTxn.Amount,
		&modelTxn.Description,
		&modelTxn.RelatedAccountID,
		&modelTxn.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	domainTxn := toDomainTransaction(modelTxn)
	return &domainTxn, nil
}

// ListTransactionsByAccountIDs retrieves ledger entries referencing any of the
// given accounts, newest first. transaction_id breaks created_at ties so the
// ordering stays stable.
func (r *PgxTransactionRepository) ListTransactionsByAccountIDs(ctx context.Context, accountIDs []string, limit int) ([]domain.Transaction, error) {
	if len(accountIDs) == 0 {
		return []domain.Transaction{}, nil
	}
	if limit <= 0 {
		limit = defaultTransactionListLimit
	}

	query := `
		SELECT transaction_id, account_id, kind, amount, description, related_account_id, created_at
		FROM transactions
		WHERE account_id = ANY($1)
		ORDER BY created_at DESC, transaction_id DESC
		LIMIT $2;
	`

	rows, err := r.pool.Query(ctx, query, accountIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for accounts: %w", err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		var modelTxn models.Transaction
		err := rows.Scan(
			&modelTxn.TransactionID,
			&modelTxn.AccountID,
			&modelTxn.Kind,
			&modelTxn.Amount,
			&modelTxn.Description,
			&modelTxn.RelatedAccountID,
			&modelTxn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, toDomainTransaction(modelTxn))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return transactions, nil
}
