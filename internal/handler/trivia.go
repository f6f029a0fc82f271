package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/service"
)

// TriviaHandler handles the category, question and quiz endpoints
type TriviaHandler struct {
	trivia *service.TriviaService
}

// NewTriviaHandler creates a new trivia handler
func NewTriviaHandler(trivia *service.TriviaService) *TriviaHandler {
	return &TriviaHandler{trivia: trivia}
}

// Register registers the trivia routes
func (h *TriviaHandler) Register(e *echo.Echo) {
	e.GET("/categories", h.ListCategories)
	e.GET("/categories/:id/questions", h.QuestionsByCategory)
	e.GET("/questions", h.ListQuestions)
	e.POST("/questions", h.CreateOrSearchQuestions)
	e.DELETE("/questions/:id", h.DeleteQuestion)
	e.POST("/play", h.PlayQuiz)
}

// CategoriesResponse is returned by GET /categories
type CategoriesResponse struct {
	Success    bool           `json:"success"`
	Categories map[int]string `json:"categories"`
}

// QuestionsResponse is returned by GET /questions
type QuestionsResponse struct {
	Success         bool              `json:"success"`
	Questions       []domain.Question `json:"questions"`
	TotalQuestions  int               `json:"total_questions"`
	Categories      map[int]string    `json:"categories"`
	CurrentCategory string            `json:"current_category"`
}

// SearchResponse is returned by POST /questions in search mode
type SearchResponse struct {
	Success         bool              `json:"success"`
	Questions       []domain.Question `json:"questions"`
	TotalQuestions  int               `json:"total_questions"`
	CurrentCategory string            `json:"current_category"`
}

// CreatedResponse is returned by POST /questions in create mode
type CreatedResponse struct {
	Success        bool              `json:"success"`
	QuestionID     int               `json:"question_id"`
	Questions      []domain.Question `json:"questions"`
	TotalQuestions int               `json:"total_questions"`
}

// DeletedResponse is returned by DELETE /questions/:id
type DeletedResponse struct {
	Success bool `json:"success"`
	Deleted int  `json:"deleted"`
}

// CategoryQuestionsResponse is returned by GET /categories/:id/questions
type CategoryQuestionsResponse struct {
	Success         bool              `json:"success"`
	Questions       []domain.Question `json:"questions"`
	TotalQuestions  int               `json:"totalQuestions"`
	CurrentCategory string            `json:"currentCategory"`
}

// PlayResponse is returned by POST /play. Question and PreviousQuestions are
// omitted once the quiz is exhausted.
type PlayResponse struct {
	Success           bool             `json:"success"`
	Question          *domain.Question `json:"question,omitempty"`
	PreviousQuestions []int            `json:"previous_questions,omitempty"`
}

// QuestionRequest is the body of POST /questions. A non-empty SearchTerm
// selects search mode. Scalar search terms are searched as their JSON text.
type QuestionRequest struct {
	SearchTerm searchText `json:"searchTerm"`
	Question   *string    `json:"question"`
	Answer     *string    `json:"answer"`
	Category   *flexInt   `json:"category"`
	Difficulty *flexInt   `json:"difficulty"`
}

// PlayRequest is the body of POST /play
type PlayRequest struct {
	PreviousQuestions []int         `json:"previous_questions"`
	QuizCategory      *QuizCategory `json:"quiz_category" validate:"required"`
}

// QuizCategory selects the quiz category. ID 0 means any category.
type QuizCategory struct {
	ID   *flexInt `json:"id" validate:"required"`
	Type string   `json:"type"`
}

// ListCategories handles GET /categories
func (h *TriviaHandler) ListCategories(c echo.Context) error {
	categories, err := h.trivia.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, CategoriesResponse{
		Success:    true,
		Categories: domain.CategoryTypes(categories),
	})
}

// ListQuestions handles GET /questions
func (h *TriviaHandler) ListQuestions(c echo.Context) error {
	page, err := h.trivia.ListQuestions(c.Request().Context(), pageParam(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, QuestionsResponse{
		Success:         true,
		Questions:       page.Questions,
		TotalQuestions:  page.TotalQuestions,
		Categories:      page.Categories,
		CurrentCategory: page.CurrentCategory,
	})
}

// DeleteQuestion handles DELETE /questions/:id
func (h *TriviaHandler) DeleteQuestion(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.trivia.DeleteQuestion(c.Request().Context(), id); err != nil {
		return unprocessable(err)
	}

	return c.JSON(http.StatusOK, DeletedResponse{Success: true, Deleted: id})
}

// CreateOrSearchQuestions handles POST /questions
func (h *TriviaHandler) CreateOrSearchQuestions(c echo.Context) error {
	var req QuestionRequest
	if err := bindObject(c, &req); err != nil {
		return unprocessable(err)
	}

	if req.SearchTerm != "" {
		return unprocessable(h.searchQuestions(c, string(req.SearchTerm)))
	}
	return unprocessable(h.createQuestion(c, req))
}

func (h *TriviaHandler) searchQuestions(c echo.Context, term string) error {
	page, err := h.trivia.SearchQuestions(c.Request().Context(), term, pageParam(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, SearchResponse{
		Success:         true,
		Questions:       page.Questions,
		TotalQuestions:  page.TotalQuestions,
		CurrentCategory: page.CurrentCategory,
	})
}

func (h *TriviaHandler) createQuestion(c echo.Context, req QuestionRequest) error {
	draft := domain.QuestionDraft{
		Question:   req.Question,
		Answer:     req.Answer,
		Category:   req.Category.intPtr(),
		Difficulty: req.Difficulty.intPtr(),
	}

	created, err := h.trivia.CreateQuestion(c.Request().Context(), draft, pageParam(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, CreatedResponse{
		Success:        true,
		QuestionID:     created.QuestionID,
		Questions:      created.Page.Questions,
		TotalQuestions: created.Page.TotalQuestions,
	})
}

// QuestionsByCategory handles GET /categories/:id/questions
func (h *TriviaHandler) QuestionsByCategory(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	page, err := h.trivia.QuestionsByCategory(c.Request().Context(), id, pageParam(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, CategoryQuestionsResponse{
		Success:         true,
		Questions:       page.Questions,
		TotalQuestions:  page.TotalQuestions,
		CurrentCategory: page.CurrentCategory,
	})
}

// PlayQuiz handles POST /play
func (h *TriviaHandler) PlayQuiz(c echo.Context) error {
	var req PlayRequest
	if err := bindObject(c, &req); err != nil {
		return err
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.trivia.PlayQuiz(c.Request().Context(), int(*req.QuizCategory.ID), req.PreviousQuestions)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, PlayResponse{
		Success:           true,
		Question:          result.Question,
		PreviousQuestions: result.PreviousQuestions,
	})
}
