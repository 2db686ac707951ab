package quizgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quizia/internal/config"
	"quizia/internal/domain"
	"quizia/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

const questionPrompt = `Eres un generador de preguntas de quiz. Genera %d preguntas repartidas entre estas categorías: %s.

Cada pregunta es un objeto JSON con estas claves:
- "pregunta": el enunciado.
- "tipo_pregunta": "%s" para preguntas de opción múltiple o "%s" para preguntas que se responden con un fragmento corto de código.
- "opciones": lista de 4 opciones de texto. Solo para "%s".
- "respuesta_correcta": para "%s" debe ser exactamente una de las opciones; para "%s" es el código esperado.
- "categoria": una de las categorías indicadas.

Responde con un arreglo JSON de %d objetos.`

const strictSuffix = `

IMPORTANTE: responde únicamente con el arreglo JSON. No agregues texto, explicaciones ni bloques de markdown antes o después.`

// LLMQuestionGenerator implements domain.QuestionTextGenerator on any
// langchaingo model.
type LLMQuestionGenerator struct {
	llm llms.Model
	cfg config.LLMConfig
}

func NewLLMQuestionGenerator(llm llms.Model, cfg config.LLMConfig) *LLMQuestionGenerator {
	return &LLMQuestionGenerator{llm: llm, cfg: cfg}
}

var _ domain.QuestionTextGenerator = (*LLMQuestionGenerator)(nil)

// BuildPrompt renders the request for count questions over categories.
func BuildPrompt(categories []string, count int, strict bool) string {
	mc, code := string(domain.QuestionTypeMultipleChoice), string(domain.QuestionTypeShortCode)
	prompt := fmt.Sprintf(questionPrompt,
		count, strings.Join(categories, ", "),
		mc, code, mc, mc, code,
		count,
	)
	if strict {
		prompt += strictSuffix
	}
	return prompt
}

func (g *LLMQuestionGenerator) GenerateQuestionsText(ctx context.Context, categories []string, count int, strict bool) (string, error) {
	l := logger.Get()

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	prompt := BuildPrompt(categories, count, strict)
	l.Debug("Requesting questions from LLM",
		zap.Strings("categories", categories),
		zap.Int("count", count),
		zap.Bool("strict", strict))

	response, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, llms.WithTemperature(g.cfg.Temperature))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("LLM request timed out", zap.Error(err), zap.Duration("timeout", g.cfg.Timeout))
			return "", domain.NewLLMServiceError(fmt.Errorf("LLM request timed out: %w", err))
		}
		l.Error("Failed to get response from LLM", zap.Error(err))
		return "", domain.NewLLMServiceError(fmt.Errorf("LLM call failed: %w", err))
	}

	response = stripThinking(response)
	l.Debug("Raw LLM response received", zap.Int("length", len(response)))
	return response, nil
}

// stripThinking removes a leading <think>...</think> block emitted by
// reasoning models.
func stripThinking(s string) string {
	start := strings.Index(s, "<think>")
	if start == -1 {
		return s
	}
	end := strings.Index(s, "</think>")
	if end == -1 || end < start {
		return s
	}
	return strings.TrimSpace(s[:start] + s[end+len("</think>"):])
}
