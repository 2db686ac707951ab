package handler_test

import (
	"context"
	"time"

	"quizia/internal/domain"
	"quizia/internal/dto"

	"github.com/stretchr/testify/mock"
)

type MockQuizService struct {
	mock.Mock
}

func (m *MockQuizService) GenerateQuestions(ctx context.Context, email string, categories []string, count int) ([]domain.Question, error) {
	args := m.Called(ctx, email, categories, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

func (m *MockQuizService) SubmitQuiz(ctx context.Context, email string, questions []domain.Question, answers []string) (*dto.GradeQuizResponse, error) {
	args := m.Called(ctx, email, questions, answers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GradeQuizResponse), args.Error(1)
}

func (m *MockQuizService) Categories() []string {
	return m.Called().Get(0).([]string)
}

type MockLeaderboardService struct {
	mock.Mock
}

func (m *MockLeaderboardService) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboardService) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserProfileResponse), args.Error(1)
}

func (m *MockUserService) GetAnswerHistory(ctx context.Context, userID string, pagination dto.Pagination) (*dto.AnswerHistoryResponse, error) {
	args := m.Called(ctx, userID, pagination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AnswerHistoryResponse), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, *domain.User, error) {
	args := m.Called(ctx, req)
	tokens, _ := args.Get(0).(*dto.TokenResponse)
	user, _ := args.Get(1).(*domain.User)
	return tokens, user, args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, *domain.User, error) {
	args := m.Called(ctx, req)
	tokens, _ := args.Get(0).(*dto.TokenResponse)
	user, _ := args.Get(1).(*domain.User)
	return tokens, user, args.Error(2)
}

func (m *MockAuthService) GetGoogleLoginURL(state string) string {
	return m.Called(state).String(0)
}

func (m *MockAuthService) HandleGoogleCallback(ctx context.Context, code, receivedState, expectedState string) (*dto.TokenResponse, *domain.User, error) {
	args := m.Called(ctx, code, receivedState, expectedState)
	tokens, _ := args.Get(0).(*dto.TokenResponse)
	user, _ := args.Get(1).(*domain.User)
	return tokens, user, args.Error(2)
}

func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	args := m.Called(ctx, tokenString)
	claims, _ := args.Get(0).(*dto.AuthClaims)
	return claims, args.Error(1)
}

func (m *MockAuthService) CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error) {
	args := m.Called(ctx, user, ttl, tokenType)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshTokenString string) (*dto.TokenResponse, error) {
	args := m.Called(ctx, refreshTokenString)
	tokens, _ := args.Get(0).(*dto.TokenResponse)
	return tokens, args.Error(1)
}
