// Package memory provides a mutex-guarded, in-process implementation of the
// repository ports. It backs the test suite and local development; the
// PostgreSQL implementation is the production path.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/fin-ledger/bankledger/internal/apperrors"
	"github.com/fin-ledger/bankledger/internal/core/domain"
	portsrepo "github.com/fin-ledger/bankledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// Store holds all state behind a single RWMutex. The engine has no row locks,
// so LockAccounts is a no-op beyond the store-wide mutex: each atomic unit
// holds the write lock for its whole duration, which serializes every pair of
// units regardless of which accounts they touch.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	users    map[string]domain.User
	entries  []domain.Transaction
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]domain.Account),
		users:    make(map[string]domain.User),
	}
}

// NewRepositoryProvider wires the store into the repository ports.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     s,
		TransactionRepo: s,
		UserRepo:        s,
		LedgerRepo:      s,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade     = (*Store)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*Store)(nil)
	_ portsrepo.UserRepositoryFacade        = (*Store)(nil)
	_ portsrepo.LedgerRepository            = (*Store)(nil)
)

// --- LedgerRepository ---

// WithinTx runs fn under the store's write lock. Mutations are staged on a
// transaction view and applied only if fn succeeds; an error discards the
// staged state, so there is never a partial effect.
func (s *Store) WithinTx(ctx context.Context, fn func(ltx portsrepo.LedgerTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ltx := &memLedgerTx{
		store:  s,
		staged: make(map[string]domain.Account),
	}
	if err := fn(ltx); err != nil {
		return err
	}

	for id, acc := range ltx.staged {
		s.accounts[id] = acc
	}
	s.entries = append(s.entries, ltx.entries...)
	return nil
}

// memLedgerTx stages mutations for one atomic unit.
type memLedgerTx struct {
	store   *Store
	staged  map[string]domain.Account
	entries []domain.Transaction
}

var _ portsrepo.LedgerTx = (*memLedgerTx)(nil)

// LockAccounts returns the freshest state for each account. The store-wide
// mutex already excludes concurrent units, so no per-row lock is taken.
func (t *memLedgerTx) LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	ids := make([]string, len(accountIDs))
	copy(ids, accountIDs)
	sort.Strings(ids)

	out := make(map[string]domain.Account)
	missing := []string{}
	for i, id := range ids {
		if i > 0 && ids[i-1] == id {
			continue
		}
		acc, ok := t.staged[id]
		if !ok {
			acc, ok = t.store.accounts[id]
		}
		if !ok {
			missing = append(missing, id)
			continue
		}
		t.staged[id] = acc
		out[id] = acc
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %s", apperrors.ErrNotFound, strings.Join(missing, ", "))
	}
	return out, nil
}

// ApplyBalanceChanges adds each delta to the staged balance.
func (t *memLedgerTx) ApplyBalanceChanges(ctx context.Context, changes map[string]decimal.Decimal) error {
	for id, delta := range changes {
		acc, ok := t.staged[id]
		if !ok {
			return fmt.Errorf("%w: account %s not locked before balance update", apperrors.ErrNotFound, id)
		}
		acc.Balance = acc.Balance.Add(delta)
		t.staged[id] = acc
	}
	return nil
}

// AppendTransactions stages immutable ledger entries.
func (t *memLedgerTx) AppendTransactions(ctx context.Context, entries []domain.Transaction) error {
	t.entries = append(t.entries, entries...)
	return nil
}

// --- AccountRepositoryFacade ---

// SaveAccount persists a new account.
func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
	}
	s.accounts[account.AccountID] = account
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

// ListAccountsByUserID retrieves all accounts owned by a user, ordered by name.
func (s *Store) ListAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := []domain.Account{}
	for _, acc := range s.accounts {
		if acc.UserID == userID {
			accounts = append(accounts, acc)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts, nil
}

// --- TransactionRepositoryFacade ---

// FindTransactionByID retrieves a single ledger entry.
func (s *Store) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.entries {
		if s.entries[i].TransactionID == transactionID {
			txn := s.entries[i]
			return &txn, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// ListTransactionsByAccountIDs retrieves entries referencing any of the given
// accounts, newest first. Entries created in the same commit share a
// timestamp, so insertion order breaks ties.
func (s *Store) ListTransactionsByAccountIDs(ctx context.Context, accountIDs []string, limit int) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	wanted := make(map[string]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		wanted[id] = struct{}{}
	}

	out := []domain.Transaction{}
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if _, ok := wanted[s.entries[i].AccountID]; ok {
			out = append(out, s.entries[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// --- UserRepositoryFacade ---

// SaveUser persists a new user.
func (s *Store) SaveUser(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: user with email %s already exists", apperrors.ErrDuplicate, user.Email)
		}
	}
	s.users[user.UserID] = user
	return nil
}

// FindUserByID retrieves a user by their ID.
func (s *Store) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

// FindUserByEmail retrieves a user by email address.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, apperrors.ErrNotFound
}
