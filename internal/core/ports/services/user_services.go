package services

import (
	"context"

	"github.com/fin-ledger/bankledger/internal/core/domain"
	"github.com/fin-ledger/bankledger/internal/dto"
)

// UserSvcFacade defines operations on the owner registry.
type UserSvcFacade interface {
	// CreateUser registers a new account owner. Fails with ErrDuplicate when
	// the email is already taken.
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)

	// GetUserByID retrieves a user by their unique identifier.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}
