package dto

import "github.com/yigit/examcraft/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"teacher@school.fr"`
	Password string `json:"password" binding:"required" example:"s3cretpass"`
}

// RegisterRequest creates a teacher account
type RegisterRequest struct {
	Email       string  `json:"email" binding:"required,email" example:"teacher@school.fr"`
	Password    string  `json:"password" binding:"required,min=8" example:"s3cretpass"`
	FirstName   string  `json:"firstName" binding:"required,max=100" example:"Marie"`
	LastName    string  `json:"lastName" binding:"required,max=100" example:"Curie"`
	Institution *string `json:"institution,omitempty" binding:"omitempty,max=200" example:"Lycée Voltaire"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int    `json:"expiresIn" example:"604800"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID          string  `json:"id" example:"3f1c3b8e-8a3e-4a57-9d1e-2b8f3f5c6a10"`
	Email       string  `json:"email" example:"teacher@school.fr"`
	FirstName   string  `json:"firstName" example:"Marie"`
	LastName    string  `json:"lastName" example:"Curie"`
	Institution *string `json:"institution,omitempty" example:"Lycée Voltaire"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// NewUserResponse maps a user onto its public representation
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Institution: u.Institution,
	}
}
