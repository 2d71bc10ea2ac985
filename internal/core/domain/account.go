package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the kind of personal account. The set is closed for now
// but stored as text so new types can be added without a schema change.
type AccountType string

const (
	Checking AccountType = "CHECKING"
	Savings  AccountType = "SAVINGS"
)

// Account represents a money-holding account within the core domain.
// This is the primary representation used by services.
//
// Balance is mutated exclusively by ledger operations executing inside an
// atomic unit; every other access is read-only.
type Account struct {
	AccountID   string          `json:"accountID"` // Primary Key (UUID)
	UserID      string          `json:"userID"`    // FK -> users.user_id, the owner; immutable
	Name        string          `json:"name"`      // Owner-chosen name
	AccountType AccountType     `json:"accountType"`
	Balance     decimal.Decimal `json:"balance"` // Fixed-point, 2 fractional digits
	AuditFields
}
