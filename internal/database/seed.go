package database

import (
	"context"
	"fmt"

	"github.com/zizouhuweidi/trivia/internal/domain"
)

type seedQuestion struct {
	question   string
	answer     string
	difficulty int
	category   string
}

var seedCategories = []string{"Science", "Art", "Geography", "History", "Entertainment", "Sports"}

var seedQuestions = []seedQuestion{
	{"Whose autobiography is entitled 'I Know Why the Caged Bird Sings'?", "Maya Angelou", 2, "History"},
	{"What boxer's original name is Cassius Clay?", "Muhammad Ali", 1, "History"},
	{"What movie earned Tom Hanks his third straight Oscar nomination, in 1996?", "Apollo 13", 4, "Entertainment"},
	{"What actor did author Anne Rice first denounce, then praise in the role of her beloved Lestat?", "Tom Cruise", 4, "Entertainment"},
	{"What was the title of the 1990 fantasy directed by Tim Burton about a young man with multi-bladed appendages?", "Edward Scissorhands", 3, "Entertainment"},
	{"Which is the only team to play in every soccer World Cup tournament?", "Brazil", 3, "Sports"},
	{"Which country won the first ever soccer World Cup in 1930?", "Uruguay", 4, "Sports"},
	{"Who invented Peanut Butter?", "George Washington Carver", 2, "History"},
	{"What is the largest lake in Africa?", "Lake Victoria", 2, "Geography"},
	{"In which royal palace would you find the Hall of Mirrors?", "The Palace of Versailles", 3, "Geography"},
	{"The Taj Mahal is located in which Indian city?", "Agra", 2, "Geography"},
	{"Which Dutch graphic artist, initials M C, was a creator of optical illusions?", "Escher", 1, "Art"},
	{"La Giaconda is better known as what?", "Mona Lisa", 3, "Art"},
	{"How many paintings did Van Gogh sell in his lifetime?", "One", 4, "Art"},
	{"Which American artist was a pioneer of Abstract Expressionism, and a leading exponent of action painting?", "Jackson Pollock", 2, "Art"},
	{"What is the heaviest organ in the human body?", "The Liver", 4, "Science"},
	{"Who discovered penicillin?", "Alexander Fleming", 3, "Science"},
	{"Hematology is a branch of medicine involving the study of what?", "Blood", 4, "Science"},
	{"Which dung beetle was worshipped by the ancient Egyptians?", "Scarab", 4, "History"},
}

// Seed loads the default categories and questions. It does nothing when
// categories already exist.
func Seed(ctx context.Context, categories domain.CategoryRepository, questions domain.QuestionRepository) error {
	existing, err := categories.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	cats := make([]*domain.Category, 0, len(seedCategories))
	for _, t := range seedCategories {
		cats = append(cats, &domain.Category{Type: t})
	}
	if err := categories.BulkCreate(ctx, cats); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	ids := make(map[string]int, len(cats))
	for _, c := range cats {
		ids[c.Type] = c.ID
	}

	drafts := make([]domain.QuestionDraft, 0, len(seedQuestions))
	for _, q := range seedQuestions {
		text, answer := q.question, q.answer
		category, difficulty := ids[q.category], q.difficulty
		drafts = append(drafts, domain.QuestionDraft{
			Question:   &text,
			Answer:     &answer,
			Category:   &category,
			Difficulty: &difficulty,
		})
	}
	if err := questions.BulkCreate(ctx, drafts); err != nil {
		return fmt.Errorf("failed to seed questions: %w", err)
	}

	return nil
}
