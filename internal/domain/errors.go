package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by storage, service and transport
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Common errors
var (
	ErrQuestionNotFound = fmt.Errorf("question %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrPageNotFound     = fmt.Errorf("page %w", ErrNotFound)
	ErrNoCategories     = fmt.Errorf("categories %w", ErrNotFound)
)
