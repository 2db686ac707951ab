package handler

import (
	"quizia/internal/middleware"
	"quizia/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMyProfile retrieves the profile of the currently authenticated user.
// @Summary Get My Profile
// @Description Retrieves the profile information and points of the logged-in user.
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.UserProfileResponse
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/me [get]
func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return missingUserContext(c)
	}

	profile, err := h.userService.GetUserProfile(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// GetMyAnswerHistory lists the caller's graded answers.
// @Summary Get My Answer History
// @Description Paginated list of graded answers, newest first.
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Items to skip"
// @Success 200 {object} dto.AnswerHistoryResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Router /users/me/history [get]
func (h *UserHandler) GetMyAnswerHistory(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return missingUserContext(c)
	}

	history, err := h.userService.GetAnswerHistory(c.UserContext(), userID, middleware.Pagination(c))
	if err != nil {
		return err
	}
	return c.JSON(history)
}

func missingUserContext(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(middleware.ErrorResponse{
		Code: "INVALID_USER_CONTEXT", Message: "User ID not found in context", Status: fiber.StatusUnauthorized,
	})
}
