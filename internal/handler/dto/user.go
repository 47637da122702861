// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"github.com/roster/roster/internal/model"
	"github.com/roster/roster/internal/service"
)

// CreateUserRequest represents the request body for creating a user.
// Pointers distinguish absent fields from empty ones; a non-string value fails
// decoding.
type CreateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// ToInput converts the request to service input.
func (r CreateUserRequest) ToInput() service.CreateUserInput {
	return service.CreateUserInput{
		Name:  r.Name,
		Email: r.Email,
	}
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:    user.IDHex(),
		Name:  user.Name,
		Email: user.Email,
	}
}

// ToUserListResponse converts users to a JSON array, empty rather than null.
func ToUserListResponse(users []model.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i]))
	}
	return out
}
