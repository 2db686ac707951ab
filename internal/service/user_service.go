package service

import (
	"context"
	"errors"

	"quizia/internal/domain"
	"quizia/internal/dto"
)

const defaultHistoryPageSize = 20

// UserService defines the interface for user-related operations.
type UserService interface {
	GetUserProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error)
	GetAnswerHistory(ctx context.Context, userID string, pagination dto.Pagination) (*dto.AnswerHistoryResponse, error)
}

type userServiceImpl struct {
	userRepo domain.UserRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(userRepo domain.UserRepository) UserService {
	return &userServiceImpl{userRepo: userRepo}
}

func (s *userServiceImpl) GetUserProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NewNotFoundError("User profile not found")
		}
		return nil, domain.NewInternalError("Failed to get user profile", err)
	}

	return &dto.UserProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Age:       user.Age,
		Provider:  user.Provider,
		Points:    user.Points,
		CreatedAt: user.CreatedAt,
	}, nil
}

// GetAnswerHistory lists the user's graded answers, newest first.
func (s *userServiceImpl) GetAnswerHistory(ctx context.Context, userID string, pagination dto.Pagination) (*dto.AnswerHistoryResponse, error) {
	if pagination.Limit <= 0 {
		pagination.Limit = defaultHistoryPageSize
	}
	if pagination.Offset < 0 {
		pagination.Offset = 0
	}

	records, total, err := s.userRepo.GetAnswerHistory(ctx, userID, domain.Pagination{
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to get answer history", err)
	}

	items := make([]dto.AnswerHistoryItem, len(records))
	for i, r := range records {
		items[i] = dto.AnswerHistoryItem{ID: r.ID, GradedFeedbackItem: r.GradedFeedbackItem}
	}

	return &dto.AnswerHistoryResponse{
		Answers:        items,
		PaginationInfo: dto.NewPaginationInfo(total, pagination.Limit, pagination.Offset),
	}, nil
}
