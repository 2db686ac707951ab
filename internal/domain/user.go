package domain

import (
	"context"
	"errors"
	"time"
)

// ErrUserNotFound is returned by UserRepository lookups that match nothing.
var ErrUserNotFound = errors.New("user not found")

const (
	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
)

// User is the profile aggregate that owns cumulative points and history.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Provider     string
	GoogleID     string
	Age          int
	Points       int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a new User instance
func NewUser(email, name, provider string) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Name:      name,
		Provider:  provider,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the user
func (u *User) Validate() error {
	var errs ValidationErrors
	if u.Email == "" {
		errs = append(errs, NewMissingFieldError("email"))
	}
	if u.Provider == "" {
		errs = append(errs, NewMissingFieldError("provider"))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AnswerRecord is a persisted GradedFeedbackItem.
type AnswerRecord struct {
	ID     string
	UserID string
	GradedFeedbackItem
}

// LeaderboardEntry is one row of the public ranking.
type LeaderboardEntry struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Pagination bounds a list query.
type Pagination struct {
	Limit  int
	Offset int
}

// UserRepository is the persistence collaborator for users, scores and history.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error

	// AddPointsAndHistory increments the user's points and appends items in
	// one atomic step, returning the updated user.
	AddPointsAndHistory(ctx context.Context, userID string, delta int, items []GradedFeedbackItem) (*User, error)
	ListTopUsers(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	GetAnswerHistory(ctx context.Context, userID string, page Pagination) ([]AnswerRecord, int, error)
}

// TransactionManager runs fn inside a single database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
