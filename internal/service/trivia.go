package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/zizouhuweidi/trivia/internal/caching"
	"github.com/zizouhuweidi/trivia/internal/domain"
)

const categoriesCacheKey = "trivia:categories"

// Question change events
const (
	EventQuestionCreated = "question_created"
	EventQuestionDeleted = "question_deleted"
)

// Publisher broadcasts question change events
type Publisher interface {
	Publish(eventType string, payload any)
}

// QuestionPage is one page of a question listing
type QuestionPage struct {
	Questions       []domain.Question
	TotalQuestions  int
	Categories      map[int]string
	CurrentCategory string
}

// CreatedQuestion is the result of creating a question
type CreatedQuestion struct {
	QuestionID int
	Page       QuestionPage
}

// PlayResult carries the next quiz question. Question is nil once every
// candidate has been played.
type PlayResult struct {
	Question          *domain.Question
	PreviousQuestions []int
}

// TriviaService implements the trivia operations on top of storage
type TriviaService struct {
	categories domain.CategoryRepository
	questions  domain.QuestionRepository
	cache      caching.Cache
	cacheTTL   time.Duration
	events     Publisher
	intn       Intn
}

// NewTriviaService creates a new trivia service. A nil intn uses DefaultIntn
// and a nil events publisher discards events.
func NewTriviaService(
	categories domain.CategoryRepository,
	questions domain.QuestionRepository,
	cache caching.Cache,
	cacheTTL time.Duration,
	events Publisher,
	intn Intn,
) *TriviaService {
	if intn == nil {
		intn = DefaultIntn
	}
	if events == nil {
		events = discard{}
	}
	return &TriviaService{
		categories: categories,
		questions:  questions,
		cache:      cache,
		cacheTTL:   cacheTTL,
		events:     events,
		intn:       intn,
	}
}

// ListCategories returns every category ordered by ID
func (s *TriviaService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.loadCategories(ctx)
}

// ListQuestions returns a page of all questions together with the category map
func (s *TriviaService) ListQuestions(ctx context.Context, page int) (*QuestionPage, error) {
	all, err := s.questions.List(ctx)
	if err != nil {
		return nil, err
	}

	current := Paginate(all, page)
	if len(current) == 0 {
		return nil, domain.ErrPageNotFound
	}

	categories, err := s.optionalCategories(ctx)
	if err != nil {
		return nil, err
	}

	return &QuestionPage{
		Questions:       current,
		TotalQuestions:  len(all),
		Categories:      domain.CategoryTypes(categories),
		CurrentCategory: "All",
	}, nil
}

// DeleteQuestion permanently removes a question
func (s *TriviaService) DeleteQuestion(ctx context.Context, id int) error {
	if _, err := s.questions.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.questions.Delete(ctx, id); err != nil {
		return err
	}

	s.events.Publish(EventQuestionDeleted, map[string]int{"id": id})
	return nil
}

// CreateQuestion stores a new question and returns the requested page of the
// updated listing
func (s *TriviaService) CreateQuestion(ctx context.Context, draft domain.QuestionDraft, page int) (*CreatedQuestion, error) {
	question, err := s.questions.Create(ctx, draft)
	if err != nil {
		return nil, err
	}

	s.events.Publish(EventQuestionCreated, question)

	all, err := s.questions.List(ctx)
	if err != nil {
		return nil, err
	}

	return &CreatedQuestion{
		QuestionID: question.ID,
		Page: QuestionPage{
			Questions:      Paginate(all, page),
			TotalQuestions: len(all),
		},
	}, nil
}

// SearchQuestions returns a page of the questions whose text contains term.
// TotalQuestions counts every stored question and CurrentCategory is the
// lowest-ID category.
func (s *TriviaService) SearchQuestions(ctx context.Context, term string, page int) (*QuestionPage, error) {
	matches, err := s.questions.Search(ctx, term)
	if err != nil {
		return nil, err
	}

	total, err := s.questions.Count(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.optionalCategories(ctx)
	if err != nil {
		return nil, err
	}

	result := &QuestionPage{
		Questions:      Paginate(matches, page),
		TotalQuestions: total,
	}
	if len(categories) > 0 {
		result.CurrentCategory = categories[0].Type
	}

	return result, nil
}

// QuestionsByCategory returns a page of the questions in a category
func (s *TriviaService) QuestionsByCategory(ctx context.Context, categoryID int, page int) (*QuestionPage, error) {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questions.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	current := Paginate(questions, page)
	if len(current) == 0 {
		return nil, domain.ErrPageNotFound
	}

	return &QuestionPage{
		Questions:       current,
		TotalQuestions:  len(questions),
		CurrentCategory: category.Type,
	}, nil
}

// PlayQuiz picks a random question not in previous. Category 0, or any ID
// that names no category, draws from all questions.
func (s *TriviaService) PlayQuiz(ctx context.Context, categoryID int, previous []int) (*PlayResult, error) {
	candidates, err := s.quizCandidates(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	question, ok := pickUnseen(candidates, previous, s.intn)
	if !ok {
		return &PlayResult{}, nil
	}

	return &PlayResult{
		Question:          &question,
		PreviousQuestions: append(slices.Clone(previous), question.ID),
	}, nil
}

func (s *TriviaService) quizCandidates(ctx context.Context, categoryID int) ([]domain.Question, error) {
	category, err := s.categories.GetByID(ctx, categoryID)
	switch {
	case err == nil:
		return s.questions.ListByCategory(ctx, category.ID)
	case errors.Is(err, domain.ErrNotFound):
		return s.questions.List(ctx)
	default:
		return nil, err
	}
}

// loadCategories reads categories through the cache. An empty set is
// reported as ErrNoCategories and never cached.
func (s *TriviaService) loadCategories(ctx context.Context) ([]domain.Category, error) {
	return caching.UseCache(ctx, s.cache, categoriesCacheKey, s.cacheTTL, func() ([]domain.Category, error) {
		categories, err := s.categories.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}
		if len(categories) == 0 {
			return nil, domain.ErrNoCategories
		}
		return categories, nil
	})
}

func (s *TriviaService) optionalCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.loadCategories(ctx)
	if errors.Is(err, domain.ErrNoCategories) {
		return nil, nil
	}
	return categories, err
}

// InvalidateCategories drops the cached category list
func (s *TriviaService) InvalidateCategories(ctx context.Context) error {
	return s.cache.Delete(ctx, categoriesCacheKey)
}

type discard struct{}

func (discard) Publish(string, any) {}
