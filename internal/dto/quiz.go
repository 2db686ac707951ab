package dto

import "quizia/internal/domain"

// ExtractQuestionsRequest asks for a freshly generated question set.
// @Description Request body for generating questions
type ExtractQuestionsRequest struct {
	Categories []string `json:"categories" example:"Historia,Ciencia"`
	Count      int      `json:"count" example:"10"`
}

// ExtractQuestionsResponse carries questions in their wire form, ready to be
// posted back to /api/grade-quiz.
// @Description Generated questions
type ExtractQuestionsResponse struct {
	Questions []domain.Question `json:"questions" swaggertype:"array,object"`
}

// GradeQuizRequest holds the questions as served and one answer per question.
// @Description Request body for grading a quiz
type GradeQuizRequest struct {
	Questions domain.QuestionList `json:"questions" swaggertype:"array,object"`
	Answers   []string            `json:"answers"`
}

// GradeQuizResponse is the grading outcome plus the caller's new point total.
// @Description Quiz grading result
type GradeQuizResponse struct {
	domain.QuizResult
	UserPoints int `json:"user_points"`
}

// CategoriesResponse lists the categories a quiz can be generated from.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}
