package dto

import (
	"time"

	"github.com/fin-ledger/bankledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DepositRequest defines the payload for a deposit operation.
type DepositRequest struct {
	AccountID   string          `json:"accountID" binding:"required,uuid"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"` // Optional
}

// WithdrawRequest defines the payload for a withdrawal operation.
type WithdrawRequest struct {
	AccountID   string          `json:"accountID" binding:"required,uuid"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"` // Optional
}

// TransferRequest defines the payload for a transfer between two accounts.
type TransferRequest struct {
	SourceAccountID      string          `json:"src" binding:"required,uuid"`
	DestinationAccountID string          `json:"dst" binding:"required,uuid"`
	Amount               decimal.Decimal `json:"amount" binding:"required"`
	Description          string          `json:"description"` // Optional
}

// TransactionResponse defines the data returned for a ledger entry.
type TransactionResponse struct {
	TransactionID    string                 `json:"transactionID"`
	AccountID        string                 `json:"accountID"`
	Kind             domain.TransactionKind `json:"kind"`
	Amount           decimal.Decimal        `json:"amount"`
	Description      string                 `json:"description"`
	RelatedAccountID *string                `json:"relatedAccountID,omitempty"`
	CreatedAt        time.Time              `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to a TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:    txn.TransactionID,
		AccountID:        txn.AccountID,
		Kind:             txn.Kind,
		Amount:           txn.Amount,
		Description:      txn.Description,
		RelatedAccountID: txn.RelatedAccountID,
		CreatedAt:        txn.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to DTOs.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		res[i] = ToTransactionResponse(&txn)
	}
	return res
}

// ListTransactionsParams defines query parameters for listing ledger entries.
type ListTransactionsParams struct {
	Limit int `form:"limit,default=50"`
}

// ListTransactionsResponse wraps the list of ledger entries.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}
