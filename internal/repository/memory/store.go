// Package memory keeps categories and questions in process memory. It
// implements the same repository contracts as the postgres package and backs
// the memory storage driver and the handler tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/zizouhuweidi/trivia/internal/domain"
)

// Store holds both relations behind one lock
type Store struct {
	mu             sync.RWMutex
	categories     []domain.Category
	questions      []domain.Question
	nextCategoryID int
	nextQuestionID int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{nextCategoryID: 1, nextQuestionID: 1}
}

// Categories returns the category repository view of the store
func (s *Store) Categories() *CategoryRepository {
	return &CategoryRepository{s: s}
}

// Questions returns the question repository view of the store
func (s *Store) Questions() *QuestionRepository {
	return &QuestionRepository{s: s}
}

// CategoryRepository implements domain.CategoryRepository
type CategoryRepository struct {
	s *Store
}

func (r *CategoryRepository) List(_ context.Context) ([]domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return slices.Clone(r.s.categories), nil
}

func (r *CategoryRepository) GetByID(_ context.Context, id int) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.categories {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

func (r *CategoryRepository) BulkCreate(_ context.Context, categories []*domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range categories {
		c.ID = r.s.nextCategoryID
		r.s.nextCategoryID++
		r.s.categories = append(r.s.categories, *c)
	}
	return nil
}

// QuestionRepository implements domain.QuestionRepository
type QuestionRepository struct {
	s *Store
}

func (r *QuestionRepository) List(_ context.Context) ([]domain.Question, error) {
	return r.filter(func(domain.Question) bool { return true }), nil
}

func (r *QuestionRepository) ListByCategory(_ context.Context, categoryID int) ([]domain.Question, error) {
	return r.filter(func(q domain.Question) bool { return q.Category == categoryID }), nil
}

func (r *QuestionRepository) Search(_ context.Context, term string) ([]domain.Question, error) {
	term = strings.ToLower(term)
	return r.filter(func(q domain.Question) bool {
		return strings.Contains(strings.ToLower(q.Question), term)
	}), nil
}

func (r *QuestionRepository) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.questions), nil
}

func (r *QuestionRepository) GetByID(_ context.Context, id int) (*domain.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if i := r.s.questionIndex(id); i >= 0 {
		q := r.s.questions[i]
		return &q, nil
	}
	return nil, domain.ErrQuestionNotFound
}

func (r *QuestionRepository) Create(_ context.Context, draft domain.QuestionDraft) (*domain.Question, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q, err := r.s.insert(draft)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.s.questionIndex(id)
	if i < 0 {
		return domain.ErrQuestionNotFound
	}
	r.s.questions = slices.Delete(r.s.questions, i, i+1)
	return nil
}

// BulkCreate inserts all drafts or none of them
func (r *QuestionRepository) BulkCreate(_ context.Context, drafts []domain.QuestionDraft) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, d := range drafts {
		if err := checkDraft(d); err != nil {
			return fmt.Errorf("draft %d: %w", i, err)
		}
	}
	for _, d := range drafts {
		//nolint:errcheck // drafts were checked above
		r.s.insert(d)
	}
	return nil
}

func (r *QuestionRepository) filter(keep func(domain.Question) bool) []domain.Question {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Question, 0)
	for _, q := range r.s.questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}

// questions are kept in ID order, so IDs can be binary searched
func (s *Store) questionIndex(id int) int {
	i, found := slices.BinarySearchFunc(s.questions, id, func(q domain.Question, id int) int {
		return q.ID - id
	})
	if !found {
		return -1
	}
	return i
}

func (s *Store) insert(d domain.QuestionDraft) (domain.Question, error) {
	if err := checkDraft(d); err != nil {
		return domain.Question{}, err
	}
	q := domain.Question{
		ID:         s.nextQuestionID,
		Question:   *d.Question,
		Answer:     *d.Answer,
		Category:   *d.Category,
		Difficulty: *d.Difficulty,
	}
	s.nextQuestionID++
	s.questions = append(s.questions, q)
	return q, nil
}

// checkDraft mirrors the NOT NULL constraints of the questions table
func checkDraft(d domain.QuestionDraft) error {
	switch {
	case d.Question == nil:
		return fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	case d.Answer == nil:
		return fmt.Errorf("%w: answer is required", domain.ErrInvalidInput)
	case d.Category == nil:
		return fmt.Errorf("%w: category is required", domain.ErrInvalidInput)
	case d.Difficulty == nil:
		return fmt.Errorf("%w: difficulty is required", domain.ErrInvalidInput)
	}
	return nil
}
