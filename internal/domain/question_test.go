package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestionType(t *testing.T) {
	qt, err := ParseQuestionType("opcion_multiple")
	require.NoError(t, err)
	assert.Equal(t, QuestionTypeMultipleChoice, qt)

	qt, err = ParseQuestionType(" codigo ")
	require.NoError(t, err)
	assert.Equal(t, QuestionTypeShortCode, qt)

	_, err = ParseQuestionType("Opcion_Multiple")
	assert.ErrorIs(t, err, ErrUnrecognizedQuestionType)

	_, err = ParseQuestionType("")
	assert.ErrorIs(t, err, ErrUnrecognizedQuestionType)
}

func TestQuestionMarshalJSON(t *testing.T) {
	mc := &MultipleChoiceQuestion{
		QuestionBase: QuestionBase{PromptText: "2+2?", CorrectAnswer: "4", Category: "Math"},
		Options:      []string{"3", "4"},
	}
	data, err := json.Marshal([]Question{mc, shortCode("x")})
	require.NoError(t, err)

	assert.JSONEq(t, `[
		{"pregunta":"2+2?","opciones":["3","4"],"respuesta_correcta":"4","categoria":"Math","tipo_pregunta":"opcion_multiple"},
		{"pregunta":"Write it","respuesta_correcta":"x","categoria":"Tecnología","tipo_pregunta":"codigo"}
	]`, string(data))
}

func TestQuestionList_UnmarshalJSON(t *testing.T) {
	var list QuestionList
	err := json.Unmarshal([]byte(`[`+mathQuestion+`,{"pregunta":"p","respuesta_correcta":"r","categoria":"c","tipo_pregunta":"codigo","opciones":null}]`), &list)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.IsType(t, &MultipleChoiceQuestion{}, list[0])
	assert.IsType(t, &ShortCodeQuestion{}, list[1])
}

func TestQuestionList_UnmarshalJSON_RejectsInvalidElement(t *testing.T) {
	var list QuestionList
	err := json.Unmarshal([]byte(`[`+mathQuestion+`,{"pregunta":"p","respuesta_correcta":"r","categoria":"c","tipo_pregunta":"ensayo"}]`), &list)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnrecognizedQuestionType)
	assert.Contains(t, err.Error(), "question 1")
}

func TestFromWire_MissingFields(t *testing.T) {
	_, err := FromWire(QuestionWire{QuestionType: "codigo", Category: "c"})

	assert.ErrorIs(t, err, ErrIncompleteQuestion)
	assert.Contains(t, err.Error(), "pregunta")
	assert.Contains(t, err.Error(), "respuesta_correcta")
	assert.NotContains(t, err.Error(), "categoria")
}
