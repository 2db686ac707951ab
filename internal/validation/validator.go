package validation

import (
	"regexp"
	"strings"

	"quizia/internal/config"
	"quizia/internal/domain"
	"quizia/internal/dto"
)

const (
	maxAnswerLength   = 2000
	maxCategoryLength = 100 // ANSWER_HISTORY.CATEGORY is VARCHAR2(100) bytes
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt ignores bytes past 72
	maxAge            = 130
	maxPageLimit      = 100
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validator provides request validation functionality
type Validator struct {
	categories map[string]bool
	maxCount   int
}

// NewValidator creates a validator bound to the configured quiz limits.
func NewValidator(quizCfg config.QuizConfig) *Validator {
	categories := make(map[string]bool, len(quizCfg.Categories))
	for _, c := range quizCfg.Categories {
		categories[c] = true
	}
	return &Validator{categories: categories, maxCount: quizCfg.MaxCount}
}

// ValidateExtractQuestionsRequest requires at least one known category and a
// count within 1..max.
func (v *Validator) ValidateExtractQuestionsRequest(categories []string, count int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if len(categories) == 0 {
		errors = append(errors, domain.NewMissingFieldError("categories"))
	}
	for _, c := range categories {
		if !v.categories[strings.TrimSpace(c)] {
			errors = append(errors, domain.ValidationError{
				Field:   "categories",
				Code:    domain.CodeInvalidCategory,
				Message: "unknown category: " + c,
			})
		}
	}

	if count < 1 || count > v.maxCount {
		errors = append(errors, domain.NewOutOfRangeError("count", count, 1, v.maxCount))
	}

	return errors
}

// ValidateGradeQuizRequest checks the submission shape. A length mismatch is
// left to the grader.
func (v *Validator) ValidateGradeQuizRequest(req *dto.GradeQuizRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if len(req.Questions) == 0 {
		errors = append(errors, domain.NewMissingFieldError("questions"))
	}
	if req.Answers == nil {
		errors = append(errors, domain.NewMissingFieldError("answers"))
	}
	for _, q := range req.Questions {
		if domain.IsNilQuestion(q) {
			continue
		}
		if n := len(q.Common().Category); n > maxCategoryLength {
			errors = append(errors, domain.NewOutOfRangeError("categoria", n, 0, maxCategoryLength))
			break
		}
	}
	for _, a := range req.Answers {
		if len(a) > maxAnswerLength {
			errors = append(errors, domain.NewOutOfRangeError("answers", len(a), 0, maxAnswerLength))
			break
		}
	}

	return errors
}

func (v *Validator) ValidateRegisterRequest(req *dto.RegisterRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	errors = append(errors, validateEmail(req.Email)...)

	if strings.TrimSpace(req.Name) == "" {
		errors = append(errors, domain.NewMissingFieldError("name"))
	}

	switch {
	case req.Password == "":
		errors = append(errors, domain.NewMissingFieldError("password"))
	case len(req.Password) < minPasswordLength || len(req.Password) > maxPasswordLength:
		errors = append(errors, domain.NewOutOfRangeError("password", len(req.Password), minPasswordLength, maxPasswordLength))
	}

	if req.Age < 0 || req.Age > maxAge {
		errors = append(errors, domain.NewOutOfRangeError("age", req.Age, 0, maxAge))
	}

	return errors
}

func (v *Validator) ValidateLoginRequest(req *dto.LoginRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.Email) == "" {
		errors = append(errors, domain.NewMissingFieldError("email"))
	}
	if req.Password == "" {
		errors = append(errors, domain.NewMissingFieldError("password"))
	}

	return errors
}

// ValidatePagination accepts a zero limit, meaning "use the default".
func (v *Validator) ValidatePagination(limit, offset int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if limit < 0 || limit > maxPageLimit {
		errors = append(errors, domain.NewOutOfRangeError("limit", limit, 1, maxPageLimit))
	}
	if offset < 0 {
		errors = append(errors, domain.ValidationError{Field: "offset", Code: domain.CodeOutOfRange, Message: "must not be negative"})
	}

	return errors
}

func validateEmail(email string) domain.ValidationErrors {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("email")}
	}
	if !emailPattern.MatchString(email) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("email", email)}
	}
	return nil
}
