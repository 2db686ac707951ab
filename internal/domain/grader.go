package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrLengthMismatch = errors.New("questions and answers differ in length")
	ErrNilQuestion    = errors.New("nil question")
)

// GradingError is returned for caller mistakes; it must not be retried.
type GradingError struct {
	Questions int
	Answers   int
}

func (e *GradingError) Error() string {
	return fmt.Sprintf("grade quiz: %d questions but %d answers", e.Questions, e.Answers)
}

func (e *GradingError) Is(target error) bool { return target == ErrLengthMismatch }

// GradedFeedbackItem records the outcome for one question.
type GradedFeedbackItem struct {
	PromptText    string       `json:"prompt_text"`
	QuestionType  QuestionType `json:"question_type"`
	UserAnswer    string       `json:"user_answer"`
	CorrectAnswer string       `json:"correct_answer"`
	IsCorrect     bool         `json:"is_correct"`
	Category      string       `json:"category"`
	Options       []string     `json:"options,omitempty"`
	Timestamp     time.Time    `json:"timestamp"`
}

// QuizResult is the outcome of one grading pass. Feedback[i] describes
// questions[i]; callers must keep that order.
type QuizResult struct {
	TotalPoints    int                  `json:"total_points"`
	TotalQuestions int                  `json:"total_questions"`
	Feedback       []GradedFeedbackItem `json:"feedback"`
}

// QuizGrader stamps results with its clock and otherwise delegates to Grade.
type QuizGrader struct {
	now func() time.Time
}

func NewQuizGrader(now func() time.Time) *QuizGrader {
	if now == nil {
		now = time.Now
	}
	return &QuizGrader{now: now}
}

func (g *QuizGrader) Grade(questions []Question, answers []string) (*QuizResult, error) {
	return Grade(questions, answers, g.now().UTC())
}

// Grade compares answers[i] with questions[i]. Every feedback item of the
// pass shares gradedAt, so identical inputs give identical results.
func Grade(questions []Question, answers []string, gradedAt time.Time) (*QuizResult, error) {
	if len(questions) != len(answers) {
		return nil, &GradingError{Questions: len(questions), Answers: len(answers)}
	}

	result := &QuizResult{
		TotalQuestions: len(questions),
		Feedback:       make([]GradedFeedbackItem, len(questions)),
	}
	for i, q := range questions {
		if IsNilQuestion(q) {
			return nil, fmt.Errorf("grade quiz: question %d: %w", i, ErrNilQuestion)
		}
		base := q.Common()
		answer := answers[i]
		item := GradedFeedbackItem{
			PromptText:    base.PromptText,
			QuestionType:  q.Type(),
			UserAnswer:    answer,
			CorrectAnswer: base.CorrectAnswer,
			Category:      base.Category,
			Timestamp:     gradedAt,
		}

		switch v := q.(type) {
		case *MultipleChoiceQuestion:
			item.Options = v.Options
			item.IsCorrect = answer != "" && answer == v.CorrectAnswer
		case *ShortCodeQuestion:
			item.IsCorrect = answer != "" && normalizeCode(answer) == normalizeCode(v.CorrectAnswer)
		default:
			panic(fmt.Sprintf("grade: unhandled question variant %T", q))
		}

		if item.IsCorrect {
			result.TotalPoints++
		}
		result.Feedback[i] = item
	}
	return result, nil
}

// IsNilQuestion also catches nil pointers wrapped in the interface.
func IsNilQuestion(q Question) bool {
	switch v := q.(type) {
	case nil:
		return true
	case *MultipleChoiceQuestion:
		return v == nil
	case *ShortCodeQuestion:
		return v == nil
	}
	return false
}

func normalizeCode(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
