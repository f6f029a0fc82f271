package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zizouhuweidi/trivia/internal/domain"
)

const questionColumns = `id, question, answer, category, difficulty`

const notNullViolation = "23502"

// QuestionRepository implements the domain.QuestionRepository interface
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{
		pool: pool,
	}
}

// List retrieves every question ordered by ID
func (r *QuestionRepository) List(ctx context.Context) ([]domain.Question, error) {
	return r.query(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY id`)
}

// ListByCategory retrieves the questions of a category ordered by ID
func (r *QuestionRepository) ListByCategory(ctx context.Context, categoryID int) ([]domain.Question, error) {
	if !validID(categoryID) {
		return []domain.Question{}, nil
	}
	return r.query(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		WHERE category = $1
		ORDER BY id
	`, categoryID)
}

// Search retrieves questions whose text contains term, ignoring case
func (r *QuestionRepository) Search(ctx context.Context, term string) ([]domain.Question, error) {
	return r.query(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		WHERE question ILIKE $1 ESCAPE '\'
		ORDER BY id
	`, "%"+escapeLike(term)+"%")
}

// Count returns the number of stored questions
func (r *QuestionRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return n, nil
}

// GetByID retrieves a question by its ID
func (r *QuestionRepository) GetByID(ctx context.Context, id int) (*domain.Question, error) {
	if !validID(id) {
		return nil, domain.ErrQuestionNotFound
	}
	var question domain.Question
	err := r.pool.QueryRow(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		WHERE id = $1
	`, id).Scan(
		&question.ID,
		&question.Question,
		&question.Answer,
		&question.Category,
		&question.Difficulty,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return &question, nil
}

// Create creates a new question
func (r *QuestionRepository) Create(ctx context.Context, draft domain.QuestionDraft) (*domain.Question, error) {
	query := `
		INSERT INTO questions (question, answer, category, difficulty)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + questionColumns

	var question domain.Question
	err := r.pool.QueryRow(ctx, query,
		draft.Question,
		draft.Answer,
		draft.Category,
		draft.Difficulty,
	).Scan(
		&question.ID,
		&question.Question,
		&question.Answer,
		&question.Category,
		&question.Difficulty,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create question: %w", insertError(err))
	}
	return &question, nil
}

// Delete deletes a question
func (r *QuestionRepository) Delete(ctx context.Context, id int) error {
	if !validID(id) {
		return domain.ErrQuestionNotFound
	}
	result, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

// BulkCreate creates multiple questions in a single transaction
func (r *QuestionRepository) BulkCreate(ctx context.Context, drafts []domain.QuestionDraft) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, d := range drafts {
		batch.Queue(`
			INSERT INTO questions (question, answer, category, difficulty)
			VALUES ($1, $2, $3, $4)
		`, d.Question, d.Answer, d.Category, d.Difficulty)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to create questions: %w", insertError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *QuestionRepository) query(ctx context.Context, sql string, args ...any) ([]domain.Question, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}

	questions, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Question])
	if err != nil {
		return nil, fmt.Errorf("failed to scan questions: %w", err)
	}

	return questions, nil
}

// validID reports whether id fits the SERIAL id columns. Other IDs match no row.
func validID(id int) bool {
	return id >= math.MinInt32 && id <= math.MaxInt32
}

// insertError reports NOT NULL violations as invalid input
func insertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == notNullViolation {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pgErr.ColumnName)
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes term match literally inside a LIKE pattern
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
