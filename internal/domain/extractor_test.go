package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const mathQuestion = `{"pregunta":"2+2?","opciones":["3","4"],"respuesta_correcta":"4","categoria":"Math","tipo_pregunta":"opcion_multiple"}`

func TestExtract_FencedJSONBlock(t *testing.T) {
	x := NewQuestionSetExtractor(zap.NewNop())

	raw := "Here you go:\n```json\n[" + mathQuestion + "]\n```"
	questions, err := x.Extract(raw)

	require.NoError(t, err)
	require.Len(t, questions, 1)
	mc, ok := questions[0].(*MultipleChoiceQuestion)
	require.True(t, ok, "expected a multiple choice question, got %T", questions[0])
	assert.Equal(t, "4", mc.CorrectAnswer)
	assert.Equal(t, "2+2?", mc.PromptText)
	assert.Equal(t, "Math", mc.Category)
	assert.Equal(t, []string{"3", "4"}, mc.Options)
}

func TestExtract_NotJSON(t *testing.T) {
	x := NewQuestionSetExtractor(nil)

	_, err := x.Extract("not json at all")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, MalformedResponse, extractionErr.Kind)
	assert.Equal(t, "not json at all", extractionErr.RawText)
}

func TestExtract_EmbeddedInProse(t *testing.T) {
	x := NewQuestionSetExtractor(nil)
	payload := "[" + mathQuestion + "]"

	tests := []struct {
		name string
		raw  string
	}{
		{name: "bare", raw: payload},
		{name: "surrounding whitespace", raw: "\n\t  " + payload + "  \n"},
		{name: "leading prose", raw: "Sure! Here are your questions: " + payload},
		{name: "trailing prose", raw: payload + "\nLet me know if you need more."},
		{name: "trailing prose with brackets", raw: payload + " [end of list]"},
		{name: "untagged fence", raw: "```\n" + payload + "\n```"},
		{name: "fence with prose inside", raw: "```json\nQuestions:\n" + payload + "\n```\nAnything else?"},
		{name: "bracket inside string", raw: "x " + `[{"pregunta":"What does ] mean?","respuesta_correcta":"close","categoria":"Syntax","tipo_pregunta":"codigo"}]` + " y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions, err := x.Extract(tt.raw)
			require.NoError(t, err)
			require.Len(t, questions, 1)
		})
	}
}

func TestExtract_UsesFirstFencedBlockOnly(t *testing.T) {
	x := NewQuestionSetExtractor(nil)
	second := strings.Replace(mathQuestion, "2+2?", "3+3?", 1)

	raw := "```json\n[" + mathQuestion + "]\n```\nand also\n```json\n[" + second + "]\n```"
	questions, err := x.Extract(raw)

	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "2+2?", questions[0].Common().PromptText)
}

func TestExtract_TopLevelObjectIsMalformed(t *testing.T) {
	x := NewQuestionSetExtractor(nil)

	_, err := x.Extract("result: " + mathQuestion)

	assert.ErrorIs(t, err, ErrMalformedResponse)
	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, mathQuestion, extractionErr.Candidate)
}

func TestExtract_InvalidJSONKeepsCandidate(t *testing.T) {
	x := NewQuestionSetExtractor(nil)

	raw := `Here: [{"pregunta": "broken",}]`
	_, err := x.Extract(raw)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, MalformedResponse, extractionErr.Kind)
	assert.Equal(t, raw, extractionErr.RawText)
	assert.Equal(t, `[{"pregunta": "broken",}]`, extractionErr.Candidate)
	assert.Error(t, extractionErr.Cause)
}

func TestExtract_DropsInvalidElementsWithWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	x := NewQuestionSetExtractor(zap.New(core))

	raw := `[
		` + mathQuestion + `,
		{"pregunta":"Unknown type","respuesta_correcta":"x","categoria":"Math","tipo_pregunta":"verdadero_falso"},
		{"pregunta":"","respuesta_correcta":"x","categoria":"Math","tipo_pregunta":"codigo"},
		{"pregunta":"No type","respuesta_correcta":"x","categoria":"Math"},
		42,
		{"pregunta":"Print hello","respuesta_correcta":"print('hello')","categoria":"Python","tipo_pregunta":"codigo"}
	]`
	questions, err := x.Extract(raw)

	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, QuestionTypeMultipleChoice, questions[0].Type())
	assert.Equal(t, QuestionTypeShortCode, questions[1].Type())
	assert.Equal(t, 4, logs.FilterMessage("Dropping invalid question from model response").Len())
	assert.Equal(t, 1, logs.FilterMessage("Model response contained invalid questions").Len())
}

func TestExtract_NoValidQuestions(t *testing.T) {
	x := NewQuestionSetExtractor(nil)

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty array", raw: "[]"},
		{name: "all unrecognized", raw: `[{"pregunta":"q","respuesta_correcta":"a","categoria":"c","tipo_pregunta":"ensayo"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := x.Extract(tt.raw)
			assert.ErrorIs(t, err, ErrNoValidQuestions)
			assert.NotErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestExtract_ShortCodeOptionsAreDiscarded(t *testing.T) {
	x := NewQuestionSetExtractor(nil)

	questions, err := x.Extract(`[{"pregunta":"q","opciones":["a","b"],"respuesta_correcta":"a","categoria":"c","tipo_pregunta":"codigo"}]`)

	require.NoError(t, err)
	require.Len(t, questions, 1)
	_, ok := questions[0].(*ShortCodeQuestion)
	assert.True(t, ok)
	assert.Nil(t, ToWire(questions[0]).Options)
}

func TestExtract_MultipleChoiceWithoutOptions(t *testing.T) {
	x := NewQuestionSetExtractor(nil)

	questions, err := x.Extract(`[{"pregunta":"q","respuesta_correcta":"a","categoria":"c","tipo_pregunta":"opcion_multiple"}]`)

	require.NoError(t, err)
	mc := questions[0].(*MultipleChoiceQuestion)
	assert.Nil(t, mc.Options)
}

func TestIsolateJSON_PrefersArrayWhenNotLater(t *testing.T) {
	candidate, ok := isolateJSON(`note {"a": 1} then [1, 2]`)
	require.True(t, ok)
	assert.Equal(t, `{"a": 1}`, candidate)

	candidate, ok = isolateJSON(`note [{"a": 1}]`)
	require.True(t, ok)
	assert.Equal(t, `[{"a": 1}]`, candidate)
}

func TestIsolateJSON_UnterminatedFallsBackToLastCloser(t *testing.T) {
	candidate, ok := isolateJSON(`text [1, [2, 3] tail`)
	require.True(t, ok)
	assert.Equal(t, `[1, [2, 3]`, candidate)
}

func TestBalancedEnd(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "flat", text: `[1,2]`, want: 4},
		{name: "nested", text: `[[1],{"a":[2]}] x`, want: 14},
		{name: "escaped quote in string", text: `["a\"]"]`, want: 7},
		{name: "unterminated", text: `[1, 2`, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, balancedEnd(tt.text, 0))
		})
	}
}
