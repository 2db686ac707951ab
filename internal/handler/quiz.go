package handler

import (
	"quizia/internal/config"
	"quizia/internal/domain"
	"quizia/internal/dto"
	"quizia/internal/logger"
	"quizia/internal/middleware"
	"quizia/internal/service"
	"quizia/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service      service.QuizService
	validator    *validation.Validator
	defaultCount int
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService, cfg config.QuizConfig) *QuizHandler {
	return &QuizHandler{
		service:      service,
		validator:    validation.NewValidator(cfg),
		defaultCount: cfg.DefaultCount,
	}
}

// GetCategories godoc
// @Summary List quiz categories
// @Description Returns the categories questions can be generated from
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.CategoriesResponse
// @Router /categories [get]
func (h *QuizHandler) GetCategories(c *fiber.Ctx) error {
	return c.JSON(dto.CategoriesResponse{Categories: h.service.Categories()})
}

// ExtractQuestions godoc
// @Summary Generate a question set
// @Description Asks the language model for questions and returns the ones that could be extracted
// @Tags quiz
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.ExtractQuestionsRequest true "Categories and question count"
// @Success 200 {object} dto.ExtractQuestionsResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse "Model output could not be read; details carry raw_response"
// @Failure 503 {object} middleware.ErrorResponse
// @Router /extract-questions [post]
func (h *QuizHandler) ExtractQuestions(c *fiber.Ctx) error {
	var req dto.ExtractQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if req.Count == 0 {
		req.Count = h.defaultCount
	}

	questions, err := h.service.GenerateQuestions(c.UserContext(), middleware.UserEmail(c), req.Categories, req.Count)
	if err != nil {
		return err
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	return c.JSON(dto.ExtractQuestionsResponse{Questions: questions})
}

// GradeQuiz godoc
// @Summary Grade a quiz
// @Description Grades one answer per question, adds the points to the caller and records the history
// @Tags quiz
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.GradeQuizRequest true "Questions as served and the caller's answers"
// @Success 200 {object} dto.GradeQuizResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid body or answers/questions length mismatch"
// @Failure 401 {object} middleware.ErrorResponse
// @Router /grade-quiz [post]
func (h *QuizHandler) GradeQuiz(c *fiber.Ctx) error {
	var req dto.GradeQuizRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Debug("Rejected grade-quiz body", zap.Error(err))
		return domain.NewInvalidInputError("Invalid request body: " + err.Error())
	}
	if errs := h.validator.ValidateGradeQuizRequest(&req); len(errs) > 0 {
		return errs
	}

	result, err := h.service.SubmitQuiz(c.UserContext(), middleware.UserEmail(c), req.Questions, req.Answers)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// LeaderboardHandler serves the public ranking.
type LeaderboardHandler struct {
	service service.LeaderboardService
}

func NewLeaderboardHandler(service service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// GetLeaderboard godoc
// @Summary Points leaderboard
// @Description Users ordered by points, highest first
// @Tags leaderboard
// @Produce json
// @Param limit query int false "Number of entries (default from config, max 100)"
// @Success 200 {array} domain.LeaderboardEntry
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	entries, err := h.service.Top(c.UserContext(), middleware.Pagination(c).Limit)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return c.JSON(entries)
}
