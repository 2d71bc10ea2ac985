package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fin-ledger/bankledger/internal/apperrors"
	"github.com/fin-ledger/bankledger/internal/core/domain"
	portsrepo "github.com/fin-ledger/bankledger/internal/core/ports/repositories"
	portssvc "github.com/fin-ledger/bankledger/internal/core/ports/services"
	"github.com/fin-ledger/bankledger/internal/dto"
	"github.com/fin-ledger/bankledger/internal/middleware"
)

type userService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

// Ensure userService implements the portssvc.UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*userService)(nil)

// CreateUser registers a new user. Duplicate emails surface as ErrDuplicate.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// The unique constraint still catches concurrent registrations.
	if _, err := s.userRepo.FindUserByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: user with email %s already exists", apperrors.ErrDuplicate, req.Email)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	user := domain.User{
		UserID: uuid.NewString(),
		Email:  req.Email,
		AuditFields: domain.AuditFields{
			CreatedAt: time.Now().UTC(),
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		logger.Error("Failed to save user in repository", slog.String("error", err.Error()), slog.String("email", req.Email))
		return nil, err
	}

	logger.Info("User created successfully", slog.String("user_id", user.UserID))
	return &user, nil
}

// GetUserByID fetches a single user by ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}
