package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fin-ledger/bankledger/internal/apperrors"
	"github.com/fin-ledger/bankledger/internal/core/domain"
	portsrepo "github.com/fin-ledger/bankledger/internal/core/ports/repositories"
)

func seedAccount(t *testing.T, s *Store, balance string) domain.Account {
	t.Helper()
	acc := domain.Account{
		AccountID:   uuid.NewString(),
		UserID:      uuid.NewString(),
		Name:        "Seed",
		AccountType: domain.Checking,
		Balance:     decimal.RequireFromString(balance),
	}
	require.NoError(t, s.SaveAccount(context.Background(), acc))
	return acc
}

func TestWithinTxDiscardsStagedStateOnError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	acc := seedAccount(t, s, "100")

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ltx portsrepo.LedgerTx) error {
		_, err := ltx.LockAccounts(ctx, []string{acc.AccountID})
		require.NoError(t, err)
		require.NoError(t, ltx.ApplyBalanceChanges(ctx, map[string]decimal.Decimal{
			acc.AccountID: decimal.RequireFromString("-40"),
		}))
		require.NoError(t, ltx.AppendTransactions(ctx, []domain.Transaction{{
			TransactionID: uuid.NewString(),
			AccountID:     acc.AccountID,
			Kind:          domain.KindWithdraw,
			Amount:        decimal.RequireFromString("40"),
		}}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// Neither the balance change nor the entry survived the failed unit.
	got, err := s.FindAccountByID(ctx, acc.AccountID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("100")))

	entries, err := s.ListTransactionsByAccountIDs(ctx, []string{acc.AccountID}, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWithinTxAppliesStagedStateOnSuccess(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	acc := seedAccount(t, s, "100")

	err := s.WithinTx(ctx, func(ltx portsrepo.LedgerTx) error {
		_, err := ltx.LockAccounts(ctx, []string{acc.AccountID})
		require.NoError(t, err)
		require.NoError(t, ltx.ApplyBalanceChanges(ctx, map[string]decimal.Decimal{
			acc.AccountID: decimal.RequireFromString("15.25"),
		}))
		return ltx.AppendTransactions(ctx, []domain.Transaction{{
			TransactionID: uuid.NewString(),
			AccountID:     acc.AccountID,
			Kind:          domain.KindDeposit,
			Amount:        decimal.RequireFromString("15.25"),
		}})
	})
	require.NoError(t, err)

	got, err := s.FindAccountByID(ctx, acc.AccountID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("115.25")))

	entries, err := s.ListTransactionsByAccountIDs(ctx, []string{acc.AccountID}, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLockAccountsMissingAccount(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	acc := seedAccount(t, s, "10")

	err := s.WithinTx(ctx, func(ltx portsrepo.LedgerTx) error {
		_, err := ltx.LockAccounts(ctx, []string{acc.AccountID, uuid.NewString()})
		return err
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestApplyBalanceChangesRequiresLock(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	acc := seedAccount(t, s, "10")

	err := s.WithinTx(ctx, func(ltx portsrepo.LedgerTx) error {
		return ltx.ApplyBalanceChanges(ctx, map[string]decimal.Decimal{
			acc.AccountID: decimal.RequireFromString("1"),
		})
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSaveUserDuplicateEmail(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.SaveUser(ctx, domain.User{UserID: uuid.NewString(), Email: "a@example.com"}))
	err := s.SaveUser(ctx, domain.User{UserID: uuid.NewString(), Email: "a@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}
