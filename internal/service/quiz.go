package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quizia/internal/config"
	"quizia/internal/domain"
	"quizia/internal/dto"
	"quizia/internal/logger"
	"quizia/internal/validation"

	"go.uber.org/zap"
)

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	// GenerateQuestions asks the model for count questions and extracts them.
	// An unusable response is re-requested once with a stricter prompt.
	GenerateQuestions(ctx context.Context, email string, categories []string, count int) ([]domain.Question, error)
	// SubmitQuiz grades answers and records the outcome for the user.
	SubmitQuiz(ctx context.Context, email string, questions []domain.Question, answers []string) (*dto.GradeQuizResponse, error)
	Categories() []string
}

type quizService struct {
	generator   domain.QuestionTextGenerator
	extractor   *domain.QuestionSetExtractor
	grader      *domain.QuizGrader
	userRepo    domain.UserRepository
	leaderboard LeaderboardService
	validator   *validation.Validator
	cfg         config.QuizConfig
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	generator domain.QuestionTextGenerator,
	extractor *domain.QuestionSetExtractor,
	grader *domain.QuizGrader,
	userRepo domain.UserRepository,
	leaderboard LeaderboardService,
	cfg *config.Config,
) QuizService {
	return &quizService{
		generator:   generator,
		extractor:   extractor,
		grader:      grader,
		userRepo:    userRepo,
		leaderboard: leaderboard,
		validator:   validation.NewValidator(cfg.Quiz),
		cfg:         cfg.Quiz,
	}
}

func (s *quizService) Categories() []string {
	return append([]string(nil), s.cfg.Categories...)
}

func (s *quizService) GenerateQuestions(ctx context.Context, email string, categories []string, count int) ([]domain.Question, error) {
	l := logger.Get()

	cleaned := make([]string, len(categories))
	for i, c := range categories {
		cleaned[i] = strings.TrimSpace(c)
	}
	if errs := s.validator.ValidateExtractQuestionsRequest(cleaned, count); len(errs) > 0 {
		return nil, errs
	}

	questions, err := s.generate(ctx, cleaned, count, false)
	var extractionErr *domain.ExtractionError
	if errors.As(err, &extractionErr) {
		l.Warn("Model response unusable, re-requesting with strict prompt",
			zap.String("email", email),
			zap.Stringer("kind", extractionErr.Kind),
			zap.Error(err))
		questions, err = s.generate(ctx, cleaned, count, true)
	}
	if err != nil {
		if errors.As(err, &extractionErr) {
			l.Error("Model response unusable after retry",
				zap.String("email", email),
				zap.Stringer("kind", extractionErr.Kind),
				zap.Int("raw_length", len(extractionErr.RawText)))
			return nil, newExtractionFailedError(extractionErr)
		}
		return nil, err
	}

	l.Info("Generated question set",
		zap.String("email", email),
		zap.Strings("categories", cleaned),
		zap.Int("requested", count),
		zap.Int("extracted", len(questions)))
	return questions, nil
}

func (s *quizService) generate(ctx context.Context, categories []string, count int, strict bool) ([]domain.Question, error) {
	raw, err := s.generator.GenerateQuestionsText(ctx, categories, count, strict)
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domain.NewLLMServiceError(err)
	}
	return s.extractor.Extract(raw)
}

func (s *quizService) SubmitQuiz(ctx context.Context, email string, questions []domain.Question, answers []string) (*dto.GradeQuizResponse, error) {
	l := logger.Get()

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NewNotFoundError("User not found")
		}
		return nil, domain.NewInternalError("Failed to load user", err)
	}

	result, err := s.grader.Grade(questions, answers)
	if err != nil {
		var gradingErr *domain.GradingError
		if errors.As(err, &gradingErr) {
			return nil, domain.NewError(domain.CodeLengthMismatch,
				fmt.Sprintf("Expected %d answers but received %d", gradingErr.Questions, gradingErr.Answers), err).
				WithContext("questions", gradingErr.Questions).
				WithContext("answers", gradingErr.Answers)
		}
		if errors.Is(err, domain.ErrNilQuestion) {
			return nil, domain.NewInvalidInputError("Every question must be present")
		}
		return nil, domain.NewInternalError("Failed to grade quiz", err)
	}

	updated, err := s.userRepo.AddPointsAndHistory(ctx, user.ID, result.TotalPoints, result.Feedback)
	if err != nil {
		l.Error("Failed to record quiz result",
			zap.String("userID", user.ID),
			zap.Int("points", result.TotalPoints),
			zap.Error(err))
		return nil, domain.NewInternalError("Failed to save quiz result", err)
	}

	if err := s.leaderboard.Invalidate(ctx); err != nil {
		l.Warn("Failed to invalidate leaderboard cache", zap.Error(err))
	}

	l.Info("Quiz graded",
		zap.String("userID", user.ID),
		zap.Int("points", result.TotalPoints),
		zap.Int("questions", result.TotalQuestions),
		zap.Int("total_points", updated.Points))

	return &dto.GradeQuizResponse{QuizResult: *result, UserPoints: updated.Points}, nil
}

func newExtractionFailedError(err *domain.ExtractionError) *domain.DomainError {
	return domain.NewError(domain.CodeExtractionFailed, "Could not read questions from the model response", err).
		WithContext("reason", err.Kind.String()).
		WithContext("raw_response", err.RawText)
}
