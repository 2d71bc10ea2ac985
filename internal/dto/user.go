package dto

import (
	"time"

	"github.com/fin-ledger/bankledger/internal/core/domain"
)

// CreateUserRequest defines the data needed to register an account owner.
type CreateUserRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID    string    `json:"userID"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToUserResponse converts a domain.User to a UserResponse DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
