package dto

import (
	"lightbox/internal/domain/models"
)

// UserRegisterInput содержит данные для регистрации фотографа
type UserRegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,e164"` // Формат +71234567890
	Password string `json:"password" validate:"required,min=8,max=64"`
}

func (input UserRegisterInput) ToDomain(passwordHash []byte) models.User {
	return models.User{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: passwordHash,
	}
}

type RegisterResponse struct {
	ID string `json:"id" format:"uuid"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
