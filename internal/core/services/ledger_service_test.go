package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fin-ledger/bankledger/internal/apperrors"
	"github.com/fin-ledger/bankledger/internal/core/domain"
	portssvc "github.com/fin-ledger/bankledger/internal/core/ports/services"
	"github.com/fin-ledger/bankledger/internal/core/services"
	"github.com/fin-ledger/bankledger/internal/dto"
	"github.com/fin-ledger/bankledger/internal/repositories/database/memory"
)

// newTestServices wires the full service container against a fresh in-memory
// store, returning both so tests can assert on persisted state directly.
func newTestServices(t *testing.T) (*portssvc.ServiceContainer, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	repos := memory.NewRepositoryProvider(store)
	return services.NewContainer(&repos), store
}

func createTestAccount(t *testing.T, svc *portssvc.ServiceContainer, userID, name, balance string) *domain.Account {
	t.Helper()
	acc, err := svc.Ledger.CreateAccount(context.Background(), userID, dto.CreateAccountRequest{
		Name:           name,
		AccountType:    domain.Checking,
		OpeningBalance: decimal.RequireFromString(balance),
	})
	require.NoError(t, err)
	return acc
}

func TestCreateAccount(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	userID := uuid.NewString()

	t.Run("Success", func(t *testing.T) {
		acc, err := svc.Ledger.CreateAccount(ctx, userID, dto.CreateAccountRequest{
			Name:           "Everyday",
			AccountType:    domain.Checking,
			OpeningBalance: decimal.RequireFromString("100.00"),
		})
		require.NoError(t, err)
		assert.Equal(t, userID, acc.UserID)
		assert.Equal(t, domain.Checking, acc.AccountType)
		assert.True(t, acc.Balance.Equal(decimal.RequireFromString("100")))
	})

	t.Run("Zero opening balance is allowed", func(t *testing.T) {
		acc, err := svc.Ledger.CreateAccount(ctx, userID, dto.CreateAccountRequest{
			Name:        "Rainy Day",
			AccountType: domain.Savings,
		})
		require.NoError(t, err)
		assert.True(t, acc.Balance.IsZero())
	})

	t.Run("Negative opening balance is rejected", func(t *testing.T) {
		_, err := svc.Ledger.CreateAccount(ctx, userID, dto.CreateAccountRequest{
			Name:           "Bad",
			AccountType:    domain.Checking,
			OpeningBalance: decimal.RequireFromString("-1"),
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	})

	t.Run("Opening balance is normalized to 2dp", func(t *testing.T) {
		acc, err := svc.Ledger.CreateAccount(ctx, userID, dto.CreateAccountRequest{
			Name:           "Fractional",
			AccountType:    domain.Checking,
			OpeningBalance: decimal.RequireFromString("10.005"),
		})
		require.NoError(t, err)
		assert.True(t, acc.Balance.Equal(decimal.RequireFromString("10")), "expected banker's rounding, got %s", acc.Balance)
	})

	t.Run("Unknown account type is rejected", func(t *testing.T) {
		_, err := svc.Ledger.CreateAccount(ctx, userID, dto.CreateAccountRequest{
			Name:        "Weird",
			AccountType: domain.AccountType("BROKERAGE"),
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestDeposit(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	userID := uuid.NewString()
	acc := createTestAccount(t, svc, userID, "Everyday", "50.00")

	t.Run("Success", func(t *testing.T) {
		txn, err := svc.Ledger.Deposit(ctx, userID, dto.DepositRequest{
			AccountID: acc.AccountID,
			Amount:    decimal.RequireFromString("25.50"),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.KindDeposit, txn.Kind)
		assert.Equal(t, "Deposit", txn.Description)
		assert.Nil(t, txn.RelatedAccountID)

		got, err := svc.Account.GetAccountByID(ctx, userID, acc.AccountID)
		require.NoError(t, err)
		assert.True(t, got.Balance.Equal(decimal.RequireFromString("75.50")))
	})

	t.Run("Custom description is preserved", func(t *testing.T) {
		txn, err := svc.Ledger.Deposit(ctx, userID, dto.DepositRequest{
			AccountID:   acc.AccountID,
			Amount:      decimal.RequireFromString("1.00"),
			Description: "Paycheck",
		})
		require.NoError(t, err)
		assert.Equal(t, "Paycheck", txn.Description)
	})

	t.Run("Zero amount is rejected", func(t *testing.T) {
		_, err := svc.Ledger.Deposit(ctx, userID, dto.DepositRequest{
			AccountID: acc.AccountID,
			Amount:    decimal.Zero,
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	})

	t.Run("Negative amount is rejected", func(t *testing.T) {
		_, err := svc.Ledger.Deposit(ctx, userID, dto.DepositRequest{
			AccountID: acc.AccountID,
			Amount:    decimal.RequireFromString("-5"),
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	})

	t.Run("Amount rounding to zero is rejected", func(t *testing.T) {
		_, err := svc.Ledger.Deposit(ctx, userID, dto.DepositRequest{
			AccountID: acc.AccountID,
			Amount:    decimal.RequireFromString("0.004"),
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	})

	t.Run("Unknown account", func(t *testing.T) {
		_, err := svc.Ledger.Deposit(ctx, userID, dto.DepositRequest{
			AccountID: uuid.NewString(),
			Amount:    decimal.RequireFromString("5"),
		})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Account owned by another user", func(t *testing.T) {
		_, err := svc.Ledger.Deposit(ctx, uuid.NewString(), dto.DepositRequest{
			AccountID: acc.AccountID,
			Amount:    decimal.RequireFromString("5"),
		})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestWithdraw(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	userID := uuid.NewString()
	acc := createTestAccount(t, svc, userID, "Everyday", "100.00")

	t.Run("Success", func(t *testing.T) {
		txn, err := svc.Ledger.Withdraw(ctx, userID, dto.WithdrawRequest{
			AccountID: acc.AccountID,
			Amount:    decimal.RequireFromString("40.00"),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.KindWithdraw, txn.Kind)
		assert.Equal(t, "Withdraw", txn.Description)

		got, err := svc.Account.GetAccountByID(ctx, userID, acc.AccountID)
		require.NoError(t, err)
		assert.True(t, got.Balance.Equal(decimal.RequireFromString("60")))
	})

	t.Run("Withdraw to exactly zero succeeds", func(t *testing.T) {
		_, err := svc.Ledger.Withdraw(ctx, userID, dto.WithdrawRequest{
			AccountID: acc.AccountID,
			Amount:    decimal.RequireFromString("60.00"),
		})
		require.NoError(t, err)

		got, err := svc.Account.GetAccountByID(ctx, userID, acc.AccountID)
		require.NoError(t, err)
		assert.True(t, got.Balance.IsZero())
	})

	t.Run("Insufficient funds", func(t *testing.T) {
		_, err := svc.Ledger.Withdraw(ctx, userID, dto.WithdrawRequest{
			AccountID: acc.AccountID,
			Amount:    decimal.RequireFromString("0.01"),
		})
		assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

		// Balance untouched by the failed attempt.
		got, err := svc.Account.GetAccountByID(ctx, userID, acc.AccountID)
		require.NoError(t, err)
		assert.True(t, got.Balance.IsZero())
	})

	t.Run("Account owned by another user", func(t *testing.T) {
		_, err := svc.Ledger.Withdraw(ctx, uuid.NewString(), dto.WithdrawRequest{
			AccountID: acc.AccountID,
			Amount:    decimal.RequireFromString("5"),
		})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestTransfer(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	userID := uuid.NewString()
	src := createTestAccount(t, svc, userID, "Everyday", "100.00")
	dst := createTestAccount(t, svc, userID, "Rainy Day", "10.00")

	t.Run("Success creates two linked entries", func(t *testing.T) {
		txn, err := svc.Ledger.Transfer(ctx, userID, dto.TransferRequest{
			SourceAccountID:      src.AccountID,
			DestinationAccountID: dst.AccountID,
			Amount:               decimal.RequireFromString("30.00"),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.KindTransfer, txn.Kind)
		assert.Equal(t, src.AccountID, txn.AccountID)
		require.NotNil(t, txn.RelatedAccountID)
		assert.Equal(t, dst.AccountID, *txn.RelatedAccountID)
		assert.Equal(t, fmt.Sprintf("To %s", dst.AccountID), txn.Description)

		entries, err := svc.Ledger.ListTransactions(ctx, userID, 10)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		var srcLeg, dstLeg *domain.Transaction
		for i := range entries {
			switch entries[i].AccountID {
			case src.AccountID:
				srcLeg = &entries[i]
			case dst.AccountID:
				dstLeg = &entries[i]
			}
		}
		require.NotNil(t, srcLeg)
		require.NotNil(t, dstLeg)

		// The destination leg reads as a deposit linked back to the source.
		assert.Equal(t, domain.KindDeposit, dstLeg.Kind)
		assert.Equal(t, fmt.Sprintf("From %s", src.AccountID), dstLeg.Description)
		require.NotNil(t, dstLeg.RelatedAccountID)
		assert.Equal(t, src.AccountID, *dstLeg.RelatedAccountID)
		assert.True(t, srcLeg.Amount.Equal(dstLeg.Amount))
		assert.True(t, srcLeg.CreatedAt.Equal(dstLeg.CreatedAt), "transfer legs must share one timestamp")

		// Money moved, none created.
		gotSrc, err := svc.Account.GetAccountByID(ctx, userID, src.AccountID)
		require.NoError(t, err)
		gotDst, err := svc.Account.GetAccountByID(ctx, userID, dst.AccountID)
		require.NoError(t, err)
		assert.True(t, gotSrc.Balance.Equal(decimal.RequireFromString("70")))
		assert.True(t, gotDst.Balance.Equal(decimal.RequireFromString("40")))
	})

	t.Run("Same account is rejected before any lookup", func(t *testing.T) {
		_, err := svc.Ledger.Transfer(ctx, userID, dto.TransferRequest{
			SourceAccountID:      src.AccountID,
			DestinationAccountID: src.AccountID,
			Amount:               decimal.RequireFromString("5"),
		})
		assert.ErrorIs(t, err, apperrors.ErrSameAccount)
	})

	t.Run("Insufficient funds leaves both balances untouched", func(t *testing.T) {
		_, err := svc.Ledger.Transfer(ctx, userID, dto.TransferRequest{
			SourceAccountID:      src.AccountID,
			DestinationAccountID: dst.AccountID,
			Amount:               decimal.RequireFromString("1000"),
		})
		assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

		gotSrc, err := svc.Account.GetAccountByID(ctx, userID, src.AccountID)
		require.NoError(t, err)
		gotDst, err := svc.Account.GetAccountByID(ctx, userID, dst.AccountID)
		require.NoError(t, err)
		assert.True(t, gotSrc.Balance.Equal(decimal.RequireFromString("70")))
		assert.True(t, gotDst.Balance.Equal(decimal.RequireFromString("40")))
	})

	t.Run("Unknown destination", func(t *testing.T) {
		_, err := svc.Ledger.Transfer(ctx, userID, dto.TransferRequest{
			SourceAccountID:      src.AccountID,
			DestinationAccountID: uuid.NewString(),
			Amount:               decimal.RequireFromString("5"),
		})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Cross-owner transfer is rejected", func(t *testing.T) {
		otherUser := uuid.NewString()
		other := createTestAccount(t, svc, otherUser, "Not Yours", "5.00")

		_, err := svc.Ledger.Transfer(ctx, userID, dto.TransferRequest{
			SourceAccountID:      src.AccountID,
			DestinationAccountID: other.AccountID,
			Amount:               decimal.RequireFromString("5"),
		})
		assert.ErrorIs(t, err, apperrors.ErrCrossOwnerTransfer)

		gotOther, err := svc.Account.GetAccountByID(ctx, otherUser, other.AccountID)
		require.NoError(t, err)
		assert.True(t, gotOther.Balance.Equal(decimal.RequireFromString("5")))
	})

	t.Run("Caller must own the accounts", func(t *testing.T) {
		_, err := svc.Ledger.Transfer(ctx, uuid.NewString(), dto.TransferRequest{
			SourceAccountID:      src.AccountID,
			DestinationAccountID: dst.AccountID,
			Amount:               decimal.RequireFromString("5"),
		})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestTransferConservation(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	userID := uuid.NewString()
	a := createTestAccount(t, svc, userID, "A", "500.00")
	b := createTestAccount(t, svc, userID, "B", "500.00")

	// Hammer transfers in both directions concurrently. Whatever interleaving
	// occurs, the total across both accounts must stay constant and no balance
	// may go negative.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.Ledger.Transfer(ctx, userID, dto.TransferRequest{
				SourceAccountID:      a.AccountID,
				DestinationAccountID: b.AccountID,
				Amount:               decimal.RequireFromString("37.13"),
			})
		}()
		go func() {
			defer wg.Done()
			_, _ = svc.Ledger.Transfer(ctx, userID, dto.TransferRequest{
				SourceAccountID:      b.AccountID,
				DestinationAccountID: a.AccountID,
				Amount:               decimal.RequireFromString("13.37"),
			})
		}()
	}
	wg.Wait()

	gotA, err := svc.Account.GetAccountByID(ctx, userID, a.AccountID)
	require.NoError(t, err)
	gotB, err := svc.Account.GetAccountByID(ctx, userID, b.AccountID)
	require.NoError(t, err)

	total := gotA.Balance.Add(gotB.Balance)
	assert.True(t, total.Equal(decimal.RequireFromString("1000")), "total drifted to %s", total)
	assert.False(t, gotA.Balance.IsNegative())
	assert.False(t, gotB.Balance.IsNegative())
}

func TestTransferDisjointPairsConcurrent(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	userID := uuid.NewString()
	a := createTestAccount(t, svc, userID, "A", "200.00")
	b := createTestAccount(t, svc, userID, "B", "0.00")
	c := createTestAccount(t, svc, userID, "C", "200.00")
	d := createTestAccount(t, svc, userID, "D", "0.00")

	// Transfers over disjoint account pairs run in parallel; every one of them
	// must succeed, with no interference between the pairs.
	const rounds = 20
	errsAB := make(chan error, rounds)
	errsCD := make(chan error, rounds)

	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Ledger.Transfer(ctx, userID, dto.TransferRequest{
				SourceAccountID:      a.AccountID,
				DestinationAccountID: b.AccountID,
				Amount:               decimal.RequireFromString("10.00"),
			})
			errsAB <- err
		}()
		go func() {
			defer wg.Done()
			_, err := svc.Ledger.Transfer(ctx, userID, dto.TransferRequest{
				SourceAccountID:      c.AccountID,
				DestinationAccountID: d.AccountID,
				Amount:               decimal.RequireFromString("10.00"),
			})
			errsCD <- err
		}()
	}
	wg.Wait()
	close(errsAB)
	close(errsCD)

	for err := range errsAB {
		assert.NoError(t, err)
	}
	for err := range errsCD {
		assert.NoError(t, err)
	}

	gotA, err := svc.Account.GetAccountByID(ctx, userID, a.AccountID)
	require.NoError(t, err)
	gotB, err := svc.Account.GetAccountByID(ctx, userID, b.AccountID)
	require.NoError(t, err)
	gotC, err := svc.Account.GetAccountByID(ctx, userID, c.AccountID)
	require.NoError(t, err)
	gotD, err := svc.Account.GetAccountByID(ctx, userID, d.AccountID)
	require.NoError(t, err)

	assert.True(t, gotA.Balance.IsZero(), "A drained to zero, got %s", gotA.Balance)
	assert.True(t, gotB.Balance.Equal(decimal.RequireFromString("200")), "B received everything, got %s", gotB.Balance)
	assert.True(t, gotC.Balance.IsZero(), "C drained to zero, got %s", gotC.Balance)
	assert.True(t, gotD.Balance.Equal(decimal.RequireFromString("200")), "D received everything, got %s", gotD.Balance)
}

func TestListTransactions(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	userID := uuid.NewString()
	acc := createTestAccount(t, svc, userID, "Everyday", "100.00")

	t.Run("No accounts yields empty list", func(t *testing.T) {
		entries, err := svc.Ledger.ListTransactions(ctx, uuid.NewString(), 10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("Entries from own accounts only, newest first", func(t *testing.T) {
		otherUser := uuid.NewString()
		other := createTestAccount(t, svc, otherUser, "Other", "100.00")

		for i := 0; i < 3; i++ {
			_, err := svc.Ledger.Deposit(ctx, userID, dto.DepositRequest{
				AccountID:   acc.AccountID,
				Amount:      decimal.RequireFromString("1"),
				Description: fmt.Sprintf("d%d", i),
			})
			require.NoError(t, err)
		}
		_, err := svc.Ledger.Deposit(ctx, otherUser, dto.DepositRequest{
			AccountID: other.AccountID,
			Amount:    decimal.RequireFromString("1"),
		})
		require.NoError(t, err)

		entries, err := svc.Ledger.ListTransactions(ctx, userID, 10)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		for _, e := range entries {
			assert.Equal(t, acc.AccountID, e.AccountID)
		}
		assert.Equal(t, "d2", entries[0].Description)
	})

	t.Run("Limit caps the result", func(t *testing.T) {
		entries, err := svc.Ledger.ListTransactions(ctx, userID, 2)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})
}

func TestGetTransactionByID(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	userID := uuid.NewString()
	acc := createTestAccount(t, svc, userID, "Everyday", "10.00")

	created, err := svc.Ledger.Deposit(ctx, userID, dto.DepositRequest{
		AccountID: acc.AccountID,
		Amount:    decimal.RequireFromString("5"),
	})
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		got, err := svc.Ledger.GetTransactionByID(ctx, userID, created.TransactionID)
		require.NoError(t, err)
		assert.Equal(t, created.TransactionID, got.TransactionID)
	})

	t.Run("Unknown transaction", func(t *testing.T) {
		_, err := svc.Ledger.GetTransactionByID(ctx, userID, uuid.NewString())
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Entry on another user's account", func(t *testing.T) {
		_, err := svc.Ledger.GetTransactionByID(ctx, uuid.NewString(), created.TransactionID)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}
