// file: internals/features/users/auth/dto/auth_dto.go
package dto

import (
	"github.com/google/uuid"
)

type LoginDTO struct {
	// Identifier bisa username atau email
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required,min=8"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	UserName    string    `json:"user_name"`
	UserEmail   string    `json:"user_email"`
	UserIsAdmin bool      `json:"user_is_admin"`
}
