package services

import (
	portsrepo "github.com/fin-ledger/bankledger/internal/core/ports/repositories"
	portssvc "github.com/fin-ledger/bankledger/internal/core/ports/services"
)

// NewContainer wires every service against the given repository provider.
func NewContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Ledger:  NewLedgerService(repos.LedgerRepo, repos.AccountRepo, repos.TransactionRepo),
		Account: NewAccountService(repos.AccountRepo),
		User:    NewUserService(repos.UserRepo),
	}
}
