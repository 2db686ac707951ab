package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// ExtractionErrorKind classifies why a model response could not be turned
// into questions.
type ExtractionErrorKind int

const (
	MalformedResponse ExtractionErrorKind = iota + 1
	NoValidQuestions
)

func (k ExtractionErrorKind) String() string {
	switch k {
	case MalformedResponse:
		return "malformed response"
	case NoValidQuestions:
		return "no valid questions"
	default:
		return "unknown extraction error"
	}
}

var (
	ErrMalformedResponse = errors.New("malformed model response")
	ErrNoValidQuestions  = errors.New("no valid questions in model response")
)

// ExtractionError carries the raw model text and the candidate that was
// handed to the JSON parser so failures can be diagnosed from logs.
type ExtractionError struct {
	Kind      ExtractionErrorKind
	RawText   string
	Candidate string
	Cause     error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extract questions: %s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("extract questions: %s", e.Kind)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// Is lets callers match on the kind with errors.Is(err, ErrMalformedResponse).
func (e *ExtractionError) Is(target error) bool {
	switch target {
	case ErrMalformedResponse:
		return e.Kind == MalformedResponse
	case ErrNoValidQuestions:
		return e.Kind == NoValidQuestions
	}
	return false
}

// fencedBlock matches the first ``` or ```json fenced region.
var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// QuestionSetExtractor isolates and validates the JSON question array
// embedded in free-form model output. It holds no state besides its logger.
type QuestionSetExtractor struct {
	logger *zap.Logger
}

func NewQuestionSetExtractor(logger *zap.Logger) *QuestionSetExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionSetExtractor{logger: logger}
}

// Extract returns the questions found in rawText. Elements that fail
// validation are dropped with a warning; the call fails only when nothing
// parseable or nothing valid remains.
func (x *QuestionSetExtractor) Extract(rawText string) ([]Question, error) {
	candidate, ok := isolateJSON(rawText)
	if !ok {
		return nil, &ExtractionError{
			Kind:      MalformedResponse,
			RawText:   rawText,
			Candidate: candidate,
			Cause:     errors.New("no JSON array or object found"),
		}
	}

	var top interface{}
	if err := json.Unmarshal([]byte(candidate), &top); err != nil {
		return nil, &ExtractionError{Kind: MalformedResponse, RawText: rawText, Candidate: candidate, Cause: err}
	}
	if _, isArray := top.([]interface{}); !isArray {
		return nil, &ExtractionError{
			Kind:      MalformedResponse,
			RawText:   rawText,
			Candidate: candidate,
			Cause:     fmt.Errorf("top-level JSON value is %T, want array", top),
		}
	}

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &elements); err != nil {
		return nil, &ExtractionError{Kind: MalformedResponse, RawText: rawText, Candidate: candidate, Cause: err}
	}

	questions := make([]Question, 0, len(elements))
	for i, raw := range elements {
		q, err := DecodeQuestion(raw)
		if err != nil {
			x.logger.Warn("Dropping invalid question from model response",
				zap.Int("index", i),
				zap.Error(err),
				zap.ByteString("element", raw))
			continue
		}
		if sc, isShort := q.(*ShortCodeQuestion); isShort && hasOptions(raw) {
			x.logger.Debug("Discarding options on short-code question", zap.Int("index", i), zap.String("prompt", sc.PromptText))
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		return nil, &ExtractionError{
			Kind:      NoValidQuestions,
			RawText:   rawText,
			Candidate: candidate,
			Cause:     fmt.Errorf("%d elements, none valid", len(elements)),
		}
	}
	if dropped := len(elements) - len(questions); dropped > 0 {
		x.logger.Warn("Model response contained invalid questions",
			zap.Int("kept", len(questions)),
			zap.Int("dropped", dropped))
	}
	return questions, nil
}

// isolateJSON strips fencing and surrounding prose. The bool is false when
// no opening bracket exists; the returned string is then the trimmed text.
func isolateJSON(rawText string) (string, bool) {
	text := rawText
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	text = strings.TrimSpace(text)

	start, open := firstOpening(text)
	if start < 0 {
		return text, false
	}
	closeCh := byte(']')
	if open == '{' {
		closeCh = '}'
	}

	if end := balancedEnd(text, start); end >= 0 {
		return text[start : end+1], true
	}
	// Unbalanced or unterminated: fall back to the last closer of the same kind.
	end := strings.LastIndexByte(text, closeCh)
	if end <= start {
		return text[start:], true
	}
	return text[start : end+1], true
}

// firstOpening picks '[' when it occurs no later than the first '{'.
func firstOpening(text string) (int, byte) {
	arr := strings.IndexByte(text, '[')
	obj := strings.IndexByte(text, '{')
	switch {
	case arr >= 0 && (obj < 0 || arr <= obj):
		return arr, '['
	case obj >= 0:
		return obj, '{'
	default:
		return -1, 0
	}
}

// balancedEnd returns the index of the bracket closing text[start], skipping
// brackets inside string literals, or -1.
func balancedEnd(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return i
			}
			if depth < 0 {
				return -1
			}
		}
	}
	return -1
}

func hasOptions(raw json.RawMessage) bool {
	var probe struct {
		Options []string `json:"opciones"`
	}
	return json.Unmarshal(raw, &probe) == nil && probe.Options != nil
}
