package dto

import (
	"github.com/SscSPs/accounting_core/internal/core/domain"
)

// CreateUserRequest defines the data needed to create a user.
type CreateUserRequest struct {
	Name    string  `json:"name" binding:"required,max=200"`
	Email   string  `json:"email" binding:"required,email,max=320"`
	Phone   *string `json:"phone,omitempty" binding:"omitempty,max=50"`
	Address *string `json:"address,omitempty" binding:"omitempty,max=500"`
	Notes   *string `json:"notes,omitempty" binding:"omitempty,max=2000"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	Name    *string `json:"name,omitempty" binding:"omitempty,max=200"`
	Email   *string `json:"email,omitempty" binding:"omitempty,email,max=320"`
	Phone   *string `json:"phone,omitempty" binding:"omitempty,max=50"`
	Address *string `json:"address,omitempty" binding:"omitempty,max=500"`
	Notes   *string `json:"notes,omitempty" binding:"omitempty,max=2000"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users  []UserResponse `json:"users"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// ToListUserResponse converts a slice of domain.User to ListUsersResponse DTO
func ToListUserResponse(users []domain.User, params ListUsersParams) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = ToUserResponse(&users[i])
	}
	return ListUsersResponse{
		Users:  userResponses,
		Limit:  params.Limit,
		Offset: params.Offset,
	}
}
