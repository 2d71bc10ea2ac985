package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the database representation of a ledger entry.
// Rows are append-only; there are no update columns.
type Transaction struct {
	TransactionID    string          `db:"transaction_id"`
	AccountID        string          `db:"account_id"`
	Kind             string          `db:"kind"`
	Amount           decimal.Decimal `db:"amount"` // numeric(12,2), always positive
	Description      string          `db:"description"`
	RelatedAccountID *string         `db:"related_account_id"` // nullable
	CreatedAt        time.Time       `db:"created_at"`
}
