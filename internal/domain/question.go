package domain

import (
	"context"
)

// QuestionRepository defines the interface for question-related operations
type QuestionRepository interface {
	// List retrieves every question ordered by ID
	List(ctx context.Context) ([]Question, error)

	// ListByCategory retrieves the questions of a category ordered by ID
	ListByCategory(ctx context.Context, categoryID int) ([]Question, error)

	// Search retrieves questions whose text contains term, case-insensitively, ordered by ID
	Search(ctx context.Context, term string) ([]Question, error)

	// Count returns the number of stored questions
	Count(ctx context.Context) (int, error)

	// GetByID retrieves a question by its ID
	GetByID(ctx context.Context, id int) (*Question, error)

	// Create inserts a question and returns it with its assigned ID
	Create(ctx context.Context, draft QuestionDraft) (*Question, error)

	// Delete permanently removes a question
	Delete(ctx context.Context, id int) error

	// BulkCreate inserts multiple questions in a single transaction
	BulkCreate(ctx context.Context, drafts []QuestionDraft) error
}

// Question represents a trivia question
type Question struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int    `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// QuestionDraft carries the fields of a question that is about to be created.
// Nil fields are passed to storage as NULL and rejected there.
type QuestionDraft struct {
	Question   *string
	Answer     *string
	Category   *int
	Difficulty *int
}
