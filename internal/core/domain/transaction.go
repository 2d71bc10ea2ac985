package domain

import "github.com/shopspring/decimal"

// TransactionKind indicates which ledger operation produced an entry.
type TransactionKind string

const (
	KindDeposit  TransactionKind = "deposit"
	KindWithdraw TransactionKind = "withdraw"
	KindTransfer TransactionKind = "transfer"
)

// Transaction is one immutable row of the append-only ledger. Amount is always
// the positive magnitude moved; the direction is implied by Kind.
//
// A transfer produces two linked rows created in the same atomic unit: the
// source leg with Kind=transfer and the destination leg with Kind=deposit,
// each carrying the counterparty in RelatedAccountID.
type Transaction struct {
	TransactionID    string          `json:"transactionID"`              // Primary Key (UUID)
	AccountID        string          `json:"accountID"`                  // FK -> Account.accountID (Not Null)
	Kind             TransactionKind `json:"kind"`                       // deposit, withdraw or transfer
	Amount           decimal.Decimal `json:"amount"`                     // Positive, 2 fractional digits
	Description      string          `json:"description"`                // Free-text annotation, optional
	RelatedAccountID *string         `json:"relatedAccountID,omitempty"` // Counterparty on transfer legs, nil otherwise
	AuditFields
}
