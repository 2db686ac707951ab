package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// QuestionType discriminates the Question variants. The values are the
// tags the generation prompt asks the model to emit in "tipo_pregunta".
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "opcion_multiple"
	QuestionTypeShortCode      QuestionType = "codigo"
)

var (
	ErrUnrecognizedQuestionType = errors.New("unrecognized question type")
	ErrIncompleteQuestion       = errors.New("incomplete question")
)

// ParseQuestionType maps a wire tag onto a known QuestionType.
func ParseQuestionType(tag string) (QuestionType, error) {
	switch QuestionType(strings.TrimSpace(tag)) {
	case QuestionTypeMultipleChoice:
		return QuestionTypeMultipleChoice, nil
	case QuestionTypeShortCode:
		return QuestionTypeShortCode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnrecognizedQuestionType, tag)
	}
}

// Question is implemented only by *MultipleChoiceQuestion and *ShortCodeQuestion.
type Question interface {
	Common() QuestionBase
	Type() QuestionType
	sealed()
}

// QuestionBase holds the fields every variant carries.
type QuestionBase struct {
	PromptText    string
	CorrectAnswer string
	Category      string
}

func (b QuestionBase) Common() QuestionBase { return b }

// MultipleChoiceQuestion is answered by picking one of Options verbatim.
// A nil Options slice means the model supplied none.
type MultipleChoiceQuestion struct {
	QuestionBase
	Options []string
}

func (*MultipleChoiceQuestion) Type() QuestionType { return QuestionTypeMultipleChoice }
func (*MultipleChoiceQuestion) sealed()            {}

// ShortCodeQuestion is answered with free text (usually a code snippet).
type ShortCodeQuestion struct {
	QuestionBase
}

func (*ShortCodeQuestion) Type() QuestionType { return QuestionTypeShortCode }
func (*ShortCodeQuestion) sealed()            {}

// QuestionWire is the JSON shape shared by the model output and the browser.
type QuestionWire struct {
	PromptText    string   `json:"pregunta"`
	Options       []string `json:"opciones,omitempty"`
	CorrectAnswer string   `json:"respuesta_correcta"`
	Category      string   `json:"categoria"`
	QuestionType  string   `json:"tipo_pregunta"`
}

// ToWire renders q in its JSON shape.
func ToWire(q Question) QuestionWire {
	base := q.Common()
	w := QuestionWire{
		PromptText:    base.PromptText,
		CorrectAnswer: base.CorrectAnswer,
		Category:      base.Category,
		QuestionType:  string(q.Type()),
	}
	if mc, ok := q.(*MultipleChoiceQuestion); ok {
		w.Options = mc.Options
	}
	return w
}

// FromWire validates w and builds the matching variant. Options sent with a
// short-code question are discarded.
func FromWire(w QuestionWire) (Question, error) {
	var missing []string
	if strings.TrimSpace(w.PromptText) == "" {
		missing = append(missing, "pregunta")
	}
	if strings.TrimSpace(w.CorrectAnswer) == "" {
		missing = append(missing, "respuesta_correcta")
	}
	if strings.TrimSpace(w.Category) == "" {
		missing = append(missing, "categoria")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrIncompleteQuestion, strings.Join(missing, ", "))
	}

	qt, err := ParseQuestionType(w.QuestionType)
	if err != nil {
		return nil, err
	}

	base := QuestionBase{
		PromptText:    w.PromptText,
		CorrectAnswer: w.CorrectAnswer,
		Category:      w.Category,
	}
	switch qt {
	case QuestionTypeMultipleChoice:
		return &MultipleChoiceQuestion{QuestionBase: base, Options: w.Options}, nil
	case QuestionTypeShortCode:
		return &ShortCodeQuestion{QuestionBase: base}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnrecognizedQuestionType, w.QuestionType)
}

// DecodeQuestion parses one JSON element into a Question.
func DecodeQuestion(raw json.RawMessage) (Question, error) {
	var w QuestionWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompleteQuestion, err)
	}
	return FromWire(w)
}

func (q *MultipleChoiceQuestion) MarshalJSON() ([]byte, error) {
	return json.Marshal(ToWire(q))
}

func (q *ShortCodeQuestion) MarshalJSON() ([]byte, error) {
	return json.Marshal(ToWire(q))
}

// QuestionList decodes a JSON array of questions strictly: any invalid
// element fails the whole list. Used for request bodies, where the client
// echoes back questions it received from extraction.
type QuestionList []Question

func (l *QuestionList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(QuestionList, 0, len(raws))
	for i, raw := range raws {
		q, err := DecodeQuestion(raw)
		if err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
		out = append(out, q)
	}
	*l = out
	return nil
}
