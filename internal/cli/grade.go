package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"quizia/internal/domain"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewGradeCmd grades answers against a question file without touching the
// database.
func NewGradeCmd() *cobra.Command {
	var (
		questionsFile string
		answersFile   string
		output        string
	)

	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade answers against a saved question set",
		RunE: func(cmd *cobra.Command, args []string) error {
			rawQuestions, err := os.ReadFile(questionsFile)
			if err != nil {
				return err
			}
			var questions domain.QuestionList
			if err := json.Unmarshal(rawQuestions, &questions); err != nil {
				return fmt.Errorf("read questions: %w", err)
			}

			rawAnswers, err := os.ReadFile(answersFile)
			if err != nil {
				return err
			}
			// yaml.v3 also accepts a JSON array.
			var answers []string
			if err := yaml.Unmarshal(rawAnswers, &answers); err != nil {
				return fmt.Errorf("read answers: %w", err)
			}

			result, err := domain.NewQuizGrader(time.Now).Grade(questions, answers)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, result)
		},
	}
	cmd.Flags().StringVarP(&questionsFile, "questions", "q", "", "JSON file with the questions as served")
	cmd.Flags().StringVarP(&answersFile, "answers", "a", "", "JSON or YAML list with one answer per question")
	cmd.Flags().StringVarP(&output, "output", "o", formatJSON, "output format: json or yaml")
	_ = cmd.MarkFlagRequired("questions")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}
