package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fin-ledger/bankledger/internal/apperrors"
	"github.com/fin-ledger/bankledger/internal/core/domain"
	portsrepo "github.com/fin-ledger/bankledger/internal/core/ports/repositories"
	portssvc "github.com/fin-ledger/bankledger/internal/core/ports/services"
	"github.com/fin-ledger/bankledger/internal/dto"
	"github.com/fin-ledger/bankledger/internal/middleware"
	"github.com/fin-ledger/bankledger/internal/utils/money"
)

// ledgerService implements the four balance-mutating operations. It holds no
// state of its own; every operation re-reads authoritative state under lock
// inside a single atomic unit provided by the ledger repository.
type ledgerService struct {
	ledgerRepo      portsrepo.LedgerRepository
	accountRepo     portsrepo.AccountRepositoryFacade
	transactionRepo portsrepo.TransactionRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepository, accountRepo portsrepo.AccountRepositoryFacade, transactionRepo portsrepo.TransactionRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo:      ledgerRepo,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateAccount opens a new account with a non-negative opening balance.
func (s *ledgerService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	opening, err := money.ValidateNonNegative(req.OpeningBalance)
	if err != nil {
		return nil, err
	}

	switch req.AccountType {
	case domain.Checking, domain.Savings:
	default:
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	account := domain.Account{
		AccountID:   uuid.NewString(),
		UserID:      userID,
		Name:        req.Name,
		AccountType: req.AccountType,
		Balance:     opening,
		AuditFields: domain.AuditFields{
			CreatedAt: time.Now().UTC(),
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account in repository", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
		return nil, err
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID), slog.String("user_id", userID))
	return &account, nil
}

// Deposit adds a positive amount to one of the caller's accounts and appends
// the matching ledger entry, all within one atomic unit.
func (s *ledgerService) Deposit(ctx context.Context, userID string, req dto.DepositRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amt, err := money.ValidatePositive(req.Amount)
	if err != nil {
		return nil, err
	}

	description := req.Description
	if description == "" {
		description = "Deposit"
	}

	var created *domain.Transaction
	err = s.ledgerRepo.WithinTx(ctx, func(ltx portsrepo.LedgerTx) error {
		accounts, err := ltx.LockAccounts(ctx, []string{req.AccountID})
		if err != nil {
			return err
		}
		account := accounts[req.AccountID]
		if account.UserID != userID {
			return fmt.Errorf("%w: account %s belongs to a different user", apperrors.ErrForbidden, req.AccountID)
		}

		if err := ltx.ApplyBalanceChanges(ctx, map[string]decimal.Decimal{account.AccountID: amt}); err != nil {
			return err
		}

		entry := domain.Transaction{
			TransactionID: uuid.NewString(),
			AccountID:     account.AccountID,
			Kind:          domain.KindDeposit,
			Amount:        amt,
			Description:   description,
			AuditFields: domain.AuditFields{
				CreatedAt: time.Now().UTC(),
			},
		}
		if err := ltx.AppendTransactions(ctx, []domain.Transaction{entry}); err != nil {
			return err
		}
		created = &entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Deposit completed", slog.String("transaction_id", created.TransactionID), slog.String("account_id", req.AccountID), slog.String("amount", amt.String()))
	return created, nil
}

// Withdraw removes a positive amount from one of the caller's accounts. The
// funds check runs against the balance re-read under lock, not against any
// state the caller may have read earlier.
func (s *ledgerService) Withdraw(ctx context.Context, userID string, req dto.WithdrawRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amt, err := money.ValidatePositive(req.Amount)
	if err != nil {
		return nil, err
	}

	description := req.Description
	if description == "" {
		description = "Withdraw"
	}

	var created *domain.Transaction
	err = s.ledgerRepo.WithinTx(ctx, func(ltx portsrepo.LedgerTx) error {
		accounts, err := ltx.LockAccounts(ctx, []string{req.AccountID})
		if err != nil {
			return err
		}
		account := accounts[req.AccountID]
		if account.UserID != userID {
			return fmt.Errorf("%w: account %s belongs to a different user", apperrors.ErrForbidden, req.AccountID)
		}
		if account.Balance.LessThan(amt) {
			return fmt.Errorf("%w: balance %s is less than %s", apperrors.ErrInsufficientFunds, account.Balance.String(), amt.String())
		}

		if err := ltx.ApplyBalanceChanges(ctx, map[string]decimal.Decimal{account.AccountID: amt.Neg()}); err != nil {
			return err
		}

		entry := domain.Transaction{
			TransactionID: uuid.NewString(),
			AccountID:     account.AccountID,
			Kind:          domain.KindWithdraw,
			Amount:        amt,
			Description:   description,
			AuditFields: domain.AuditFields{
				CreatedAt: time.Now().UTC(),
			},
		}
		if err := ltx.AppendTransactions(ctx, []domain.Transaction{entry}); err != nil {
			return err
		}
		created = &entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Withdrawal completed", slog.String("transaction_id", created.TransactionID), slog.String("account_id", req.AccountID), slog.String("amount", amt.String()))
	return created, nil
}

// Transfer moves a positive amount between two same-owner accounts. Both rows
// are locked in ascending ID order before any read, every validation runs
// against the locked state, and the two linked ledger entries commit together
// with the balance updates or not at all.
func (s *ledgerService) Transfer(ctx context.Context, userID string, req dto.TransferRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amt, err := money.ValidatePositive(req.Amount)
	if err != nil {
		return nil, err
	}
	if req.SourceAccountID == req.DestinationAccountID {
		return nil, apperrors.ErrSameAccount
	}

	var created *domain.Transaction
	err = s.ledgerRepo.WithinTx(ctx, func(ltx portsrepo.LedgerTx) error {
		accounts, err := ltx.LockAccounts(ctx, []string{req.SourceAccountID, req.DestinationAccountID})
		if err != nil {
			return err
		}
		src := accounts[req.SourceAccountID]
		dst := accounts[req.DestinationAccountID]

		if src.UserID != dst.UserID {
			return fmt.Errorf("%w: accounts %s and %s have different owners", apperrors.ErrCrossOwnerTransfer, src.AccountID, dst.AccountID)
		}
		if src.UserID != userID {
			return fmt.Errorf("%w: account %s belongs to a different user", apperrors.ErrForbidden, src.AccountID)
		}
		if src.Balance.LessThan(amt) {
			return fmt.Errorf("%w: balance %s is less than %s", apperrors.ErrInsufficientFunds, src.Balance.String(), amt.String())
		}

		changes := map[string]decimal.Decimal{
			src.AccountID: amt.Neg(),
			dst.AccountID: amt,
		}
		if err := ltx.ApplyBalanceChanges(ctx, changes); err != nil {
			return err
		}

		description := req.Description
		if description == "" {
			description = fmt.Sprintf("To %s", dst.AccountID)
		}

		now := time.Now().UTC()
		srcLeg := domain.Transaction{
			TransactionID:    uuid.NewString(),
			AccountID:        src.AccountID,
			Kind:             domain.KindTransfer,
			Amount:           amt,
			Description:      description,
			RelatedAccountID: &dst.AccountID,
			AuditFields: domain.AuditFields{
				CreatedAt: now,
			},
		}
		// The destination leg is recorded as a deposit from its own point of
		// view, structurally linked back to the source.
		dstLeg := domain.Transaction{
			TransactionID:    uuid.NewString(),
			AccountID:        dst.AccountID,
			Kind:             domain.KindDeposit,
			Amount:           amt,
			Description:      fmt.Sprintf("From %s", src.AccountID),
			RelatedAccountID: &src.AccountID,
			AuditFields: domain.AuditFields{
				CreatedAt: now,
			},
		}
		if err := ltx.AppendTransactions(ctx, []domain.Transaction{srcLeg, dstLeg}); err != nil {
			return err
		}
		created = &srcLeg
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Transfer completed",
		slog.String("transaction_id", created.TransactionID),
		slog.String("src_account_id", req.SourceAccountID),
		slog.String("dst_account_id", req.DestinationAccountID),
		slog.String("amount", amt.String()),
	)
	return created, nil
}

// GetTransactionByID fetches one ledger entry and verifies the caller owns
// the account it belongs to.
func (s *ledgerService) GetTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		logger.Warn("Failed to find transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, txn.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve transaction account: %w", err)
	}
	if account.UserID != userID {
		return nil, fmt.Errorf("%w: transaction %s belongs to a different user", apperrors.ErrForbidden, transactionID)
	}
	return txn, nil
}

// ListTransactions returns the ledger entries across all of the caller's
// accounts, newest first. Read-only.
func (s *ledgerService) ListTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.accountRepo.ListAccountsByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to list accounts for transaction listing", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to retrieve accounts: %w", err)
	}
	if len(accounts) == 0 {
		return []domain.Transaction{}, nil
	}

	accountIDs := make([]string, len(accounts))
	for i, acc := range accounts {
		accountIDs[i] = acc.AccountID
	}

	transactions, err := s.transactionRepo.ListTransactionsByAccountIDs(ctx, accountIDs, limit)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}
	return transactions, nil
}
