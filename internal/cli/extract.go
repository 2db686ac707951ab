package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"quizia/internal/adapter/quizgen"
	"quizia/internal/config"
	"quizia/internal/domain"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// NewExtractCmd runs the extractor over a saved model response.
func NewExtractCmd(newLogger func() *zap.Logger) *cobra.Command {
	var (
		file   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract questions from a raw model response",
		Long:  "Reads a raw model response from --file (or stdin with \"-\") and prints the questions that survive extraction.",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			questions, err := domain.NewQuestionSetExtractor(newLogger()).Extract(string(raw))
			if err != nil {
				return describeExtractionError(err)
			}
			return writeQuestions(cmd.OutOrStdout(), output, questions)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "file holding the model response, \"-\" for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", formatJSON, "output format: json or yaml")
	return cmd
}

// NewGenerateCmd asks the configured model for questions and extracts them.
func NewGenerateCmd(newLogger func() *zap.Logger) *cobra.Command {
	var (
		categories []string
		count      int
		strict     bool
		output     string
		showRaw    bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a question set with the configured model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if count <= 0 {
				count = cfg.Quiz.DefaultCount
			}
			if len(categories) == 0 {
				categories = cfg.Quiz.Categories
			}

			llm, err := quizgen.NewLLM(cmd.Context(), cfg.LLM)
			if err != nil {
				return err
			}
			raw, err := quizgen.NewLLMQuestionGenerator(llm, cfg.LLM).GenerateQuestionsText(cmd.Context(), categories, count, strict)
			if err != nil {
				return err
			}
			if showRaw {
				fmt.Fprintln(cmd.ErrOrStderr(), raw)
			}

			questions, err := domain.NewQuestionSetExtractor(newLogger()).Extract(raw)
			if err != nil {
				return describeExtractionError(err)
			}
			return writeQuestions(cmd.OutOrStdout(), output, questions)
		},
	}
	cmd.Flags().StringSliceVarP(&categories, "categories", "c", nil, "categories to draw from (default: configured list)")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of questions (default: quiz.default_count)")
	cmd.Flags().BoolVar(&strict, "strict", false, "use the strict JSON-only prompt")
	cmd.Flags().StringVarP(&output, "output", "o", formatJSON, "output format: json or yaml")
	cmd.Flags().BoolVar(&showRaw, "raw", false, "echo the raw model response to stderr")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func describeExtractionError(err error) error {
	var extractionErr *domain.ExtractionError
	if errors.As(err, &extractionErr) {
		return fmt.Errorf("extraction failed (%s): %w", extractionErr.Kind, err)
	}
	return err
}

func writeQuestions(w io.Writer, format string, questions []domain.Question) error {
	wire := make([]domain.QuestionWire, len(questions))
	for i, q := range questions {
		wire[i] = domain.ToWire(q)
	}
	return writeOutput(w, format, wire)
}

// writeOutput renders v in the requested format. YAML goes through the JSON
// form so both outputs share the same keys.
func writeOutput(w io.Writer, format string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case formatJSON:
		_, err = fmt.Fprintln(w, string(data))
		return err
	case formatYAML:
		var generic interface{}
		if err := json.Unmarshal(data, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
