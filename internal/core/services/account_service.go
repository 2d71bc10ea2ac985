package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fin-ledger/bankledger/internal/apperrors"
	"github.com/fin-ledger/bankledger/internal/core/domain"
	portsrepo "github.com/fin-ledger/bankledger/internal/core/ports/repositories"
	portssvc "github.com/fin-ledger/bankledger/internal/core/ports/services"
	"github.com/fin-ledger/bankledger/internal/middleware"
)

type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

// Ensure accountService implements the portssvc.AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// GetAccountByID fetches a single account and verifies the caller owns it.
func (s *accountService) GetAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		logger.Warn("Failed to find account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}
	if account.UserID != userID {
		return nil, fmt.Errorf("%w: account %s belongs to a different user", apperrors.ErrForbidden, accountID)
	}
	return account, nil
}

// ListAccounts returns all accounts owned by the caller.
func (s *accountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.accountRepo.ListAccountsByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to retrieve accounts: %w", err)
	}
	return accounts, nil
}
