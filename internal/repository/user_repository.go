package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"quizia/internal/domain"
	"quizia/internal/repository/models"
	"quizia/internal/util"

	"github.com/jmoiron/sqlx"
)

const defaultHistoryLimit = 20

const userColumns = `ID, EMAIL, NAME, PASSWORD_HASH, PROVIDER, GOOGLE_ID, AGE, POINTS, CREATED_AT, UPDATED_AT`

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db *sqlx.DB
	tm domain.TransactionManager
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db *sqlx.DB) domain.UserRepository {
	return &sqlxUserRepository{db: db, tm: NewTransactionManagerAdapter(db)}
}

func (r *sqlxUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	if user.ID == "" {
		user.ID = util.NewULID()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	query := `INSERT INTO USERS (ID, EMAIL, NAME, PASSWORD_HASH, PROVIDER, GOOGLE_ID, AGE, POINTS, CREATED_AT, UPDATED_AT)
	          VALUES (:ID, :EMAIL, :NAME, :PASSWORD_HASH, :PROVIDER, :GOOGLE_ID, :AGE, :POINTS, :CREATED_AT, :UPDATED_AT)`

	_, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainUser(user))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("a user with this email already exists")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *sqlxUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getUserBy(ctx, "ID", id)
}

func (r *sqlxUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUserBy(ctx, "EMAIL", strings.ToLower(strings.TrimSpace(email)))
}

func (r *sqlxUserRepository) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return r.getUserBy(ctx, "GOOGLE_ID", googleID)
}

// getUserBy returns domain.ErrUserNotFound when no row matches. column is
// never user input.
func (r *sqlxUserRepository) getUserBy(ctx context.Context, column, value string) (*domain.User, error) {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`SELECT ` + userColumns + ` FROM USERS WHERE ` + column + ` = ?`)

	var row models.User
	if err := exec.GetContext(ctx, &row, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", strings.ToLower(column), err)
	}
	return toDomainUser(&row), nil
}

// UpdateUser writes profile fields. Points only change through
// AddPointsAndHistory.
func (r *sqlxUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()

	query := `UPDATE USERS SET
	            EMAIL = :EMAIL,
	            NAME = :NAME,
	            PASSWORD_HASH = :PASSWORD_HASH,
	            PROVIDER = :PROVIDER,
	            GOOGLE_ID = :GOOGLE_ID,
	            AGE = :AGE,
	            UPDATED_AT = :UPDATED_AT
	          WHERE ID = :ID`

	result, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainUser(user))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("a user with this email or Google account already exists")
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *sqlxUserRepository) AddPointsAndHistory(ctx context.Context, userID string, delta int, items []domain.GradedFeedbackItem) (*domain.User, error) {
	var updated *domain.User
	err := r.tm.WithTransaction(ctx, func(txCtx context.Context) error {
		exec := GetExecutor(txCtx, r.db)

		var lockedID string
		err := exec.GetContext(txCtx, &lockedID, exec.Rebind(`SELECT ID FROM USERS WHERE ID = ? FOR UPDATE`), userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("failed to lock user: %w", err)
		}

		_, err = exec.ExecContext(txCtx,
			exec.Rebind(`UPDATE USERS SET POINTS = POINTS + ?, UPDATED_AT = ? WHERE ID = ?`),
			delta, time.Now().UTC(), userID)
		if err != nil {
			return fmt.Errorf("failed to add points: %w", err)
		}

		insert := `INSERT INTO ANSWER_HISTORY (ID, USER_ID, PROMPT_TEXT, QUESTION_TYPE, USER_ANSWER, CORRECT_ANSWER, IS_CORRECT, CATEGORY, OPTIONS, ANSWERED_AT)
		           VALUES (:ID, :USER_ID, :PROMPT_TEXT, :QUESTION_TYPE, :USER_ANSWER, :CORRECT_ANSWER, :IS_CORRECT, :CATEGORY, :OPTIONS, :ANSWERED_AT)`
		for i := range items {
			if _, err := exec.NamedExecContext(txCtx, insert, fromFeedbackItem(userID, items[i])); err != nil {
				return fmt.Errorf("failed to insert answer history %d: %w", i, err)
			}
		}

		updated, err = r.GetUserByID(txCtx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *sqlxUserRepository) ListTopUsers(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`SELECT NAME, POINTS FROM USERS ORDER BY POINTS DESC, CREATED_AT ASC FETCH FIRST ? ROWS ONLY`)

	var rows []struct {
		Name   sql.NullString `db:"NAME"`
		Points int            `db:"POINTS"`
	}
	if err := exec.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list top users: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, len(rows))
	for i, row := range rows {
		entries[i] = domain.LeaderboardEntry{Name: row.Name.String, Points: row.Points}
	}
	return entries, nil
}

// GetAnswerHistory returns one page of a user's answers, newest first, and
// the total number of stored answers.
func (r *sqlxUserRepository) GetAnswerHistory(ctx context.Context, userID string, page domain.Pagination) ([]domain.AnswerRecord, int, error) {
	if page.Limit <= 0 {
		page.Limit = defaultHistoryLimit
	}
	if page.Offset < 0 {
		page.Offset = 0
	}
	exec := GetExecutor(ctx, r.db)

	var total int
	if err := exec.GetContext(ctx, &total, exec.Rebind(`SELECT COUNT(*) FROM ANSWER_HISTORY WHERE USER_ID = ?`), userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count answer history: %w", err)
	}
	if total == 0 {
		return []domain.AnswerRecord{}, 0, nil
	}

	query := exec.Rebind(`SELECT ID, USER_ID, PROMPT_TEXT, QUESTION_TYPE, USER_ANSWER, CORRECT_ANSWER, IS_CORRECT, CATEGORY, OPTIONS, ANSWERED_AT
	          FROM ANSWER_HISTORY WHERE USER_ID = ?
	          ORDER BY ANSWERED_AT DESC, ID DESC
	          OFFSET ? ROWS FETCH NEXT ? ROWS ONLY`)

	var rows []models.AnswerHistory
	if err := exec.SelectContext(ctx, &rows, query, userID, page.Offset, page.Limit); err != nil {
		return nil, 0, fmt.Errorf("failed to get answer history: %w", err)
	}

	records := make([]domain.AnswerRecord, len(rows))
	for i := range rows {
		records[i] = toAnswerRecord(&rows[i])
	}
	return records, total, nil
}

// isUniqueViolation matches Oracle's ORA-00001.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "ORA-00001")
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name.String,
		PasswordHash: m.PasswordHash.String,
		Provider:     m.Provider,
		GoogleID:     m.GoogleID.String,
		Age:          int(m.Age.Int64),
		Points:       m.Points,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func fromDomainUser(u *domain.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:           u.ID,
		Email:        strings.ToLower(strings.TrimSpace(u.Email)),
		Name:         util.StringToNullString(u.Name),
		PasswordHash: util.StringToNullString(u.PasswordHash),
		Provider:     u.Provider,
		GoogleID:     util.StringToNullString(u.GoogleID),
		Age:          util.IntToNullInt64(u.Age),
		Points:       u.Points,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func fromFeedbackItem(userID string, item domain.GradedFeedbackItem) *models.AnswerHistory {
	row := &models.AnswerHistory{
		ID:            util.NewULID(),
		UserID:        userID,
		PromptText:    item.PromptText,
		QuestionType:  string(item.QuestionType),
		UserAnswer:    util.StringToNullString(item.UserAnswer),
		CorrectAnswer: item.CorrectAnswer,
		Category:      item.Category,
		Options:       models.StringSlice(item.Options),
		AnsweredAt:    item.Timestamp,
	}
	if item.IsCorrect {
		row.IsCorrect = 1
	}
	return row
}

func toAnswerRecord(m *models.AnswerHistory) domain.AnswerRecord {
	return domain.AnswerRecord{
		ID:     m.ID,
		UserID: m.UserID,
		GradedFeedbackItem: domain.GradedFeedbackItem{
			PromptText:    m.PromptText,
			QuestionType:  domain.QuestionType(m.QuestionType),
			UserAnswer:    m.UserAnswer.String,
			CorrectAnswer: m.CorrectAnswer,
			IsCorrect:     m.IsCorrect != 0,
			Category:      m.Category,
			Options:       []string(m.Options),
			Timestamp:     m.AnsweredAt,
		},
	}
}
