package dto

import (
	"time"

	"quizia/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// GoogleUserInfo holds user information obtained from Google.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// AuthClaims defines the custom claims for JWT.
type AuthClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// RegisterRequest creates a credentials account.
// @Description Request body for registration
type RegisterRequest struct {
	Email    string `json:"email" example:"ana@example.com"`
	Name     string `json:"name" example:"Ana"`
	Password string `json:"password" example:"correct-horse"`
	Age      int    `json:"age" example:"27"`
}

// LoginRequest signs in with credentials.
// @Description Request body for login
type LoginRequest struct {
	Email    string `json:"email" example:"ana@example.com"`
	Password string `json:"password" example:"correct-horse"`
}

// TokenResponse represents the response containing access and refresh tokens.
// @Description Response body for authentication tokens
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshTokenRequest represents the request body for refreshing a token.
// @Description Request body for refreshing JWT tokens
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// MessageResponse represents a generic message response.
// @Description Generic message response
type MessageResponse struct {
	Message string `json:"message"`
}

// UserProfileResponse defines the structure for a user's profile information.
type UserProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Age       int       `json:"age,omitempty"`
	Provider  string    `json:"provider"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// Pagination defines parameters for paginated requests.
type Pagination struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// PaginationInfo defines pagination details for responses.
type PaginationInfo struct {
	TotalItems  int `json:"total_items"`
	Limit       int `json:"limit"`
	Offset      int `json:"offset"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

// NewPaginationInfo derives page numbers from a limit/offset window.
func NewPaginationInfo(total, limit, offset int) PaginationInfo {
	info := PaginationInfo{TotalItems: total, Limit: limit, Offset: offset}
	if limit > 0 {
		info.CurrentPage = offset/limit + 1
		info.TotalPages = (total + limit - 1) / limit
	}
	return info
}

// AnswerHistoryItem is one stored answer.
type AnswerHistoryItem struct {
	ID string `json:"id"`
	domain.GradedFeedbackItem
}

// AnswerHistoryResponse is the response for listing a user's answers.
type AnswerHistoryResponse struct {
	Answers        []AnswerHistoryItem `json:"answers"`
	PaginationInfo PaginationInfo      `json:"pagination_info"`
}
