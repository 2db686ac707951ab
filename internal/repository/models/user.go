package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// User is a row of USERS.
type User struct {
	ID           string         `db:"ID"`
	Email        string         `db:"EMAIL"`
	Name         sql.NullString `db:"NAME"`
	PasswordHash sql.NullString `db:"PASSWORD_HASH"`
	Provider     string         `db:"PROVIDER"`
	GoogleID     sql.NullString `db:"GOOGLE_ID"`
	Age          sql.NullInt64  `db:"AGE"`
	Points       int            `db:"POINTS"`
	CreatedAt    time.Time      `db:"CREATED_AT"`
	UpdatedAt    time.Time      `db:"UPDATED_AT"`
}

// AnswerHistory is a row of ANSWER_HISTORY.
type AnswerHistory struct {
	ID            string         `db:"ID"`
	UserID        string         `db:"USER_ID"`
	PromptText    string         `db:"PROMPT_TEXT"`
	QuestionType  string         `db:"QUESTION_TYPE"`
	UserAnswer    sql.NullString `db:"USER_ANSWER"`
	CorrectAnswer string         `db:"CORRECT_ANSWER"`
	IsCorrect     int            `db:"IS_CORRECT"` // Oracle has no boolean column type
	Category      string         `db:"CATEGORY"`
	Options       StringSlice    `db:"OPTIONS"`
	AnsweredAt    time.Time      `db:"ANSWERED_AT"`
}

// StringSlice stores a list as a JSON array in a CLOB. A nil slice is NULL.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	data, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (s *StringSlice) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("StringSlice Scan: unsupported type %T", value)
	}

	if len(raw) == 0 || string(raw) == "null" {
		*s = nil
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(s))
}
