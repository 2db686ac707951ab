package domain

import "context"

// QuestionTextGenerator asks a generative model for quiz questions and
// returns its raw text, which still has to go through QuestionSetExtractor.
type QuestionTextGenerator interface {
	// GenerateQuestionsText requests count questions over categories. strict
	// tightens the output instructions and is used when re-requesting after
	// an unusable response.
	GenerateQuestionsText(ctx context.Context, categories []string, count int, strict bool) (string, error)
}
