package service

import (
	"math/rand"

	"github.com/zizouhuweidi/trivia/internal/domain"
)

// Intn returns a uniformly distributed int in [0, n)
type Intn func(n int) int

// DefaultIntn is safe for concurrent use
var DefaultIntn Intn = rand.Intn

// pickUnseen draws uniformly from the candidates whose ID is not in seen.
// It reports false when every candidate has been seen.
func pickUnseen(candidates []domain.Question, seen []int, intn Intn) (domain.Question, bool) {
	excluded := make(map[int]struct{}, len(seen))
	for _, id := range seen {
		excluded[id] = struct{}{}
	}

	unseen := make([]domain.Question, 0, len(candidates))
	for _, q := range candidates {
		if _, ok := excluded[q.ID]; !ok {
			unseen = append(unseen, q)
		}
	}

	if len(unseen) == 0 {
		return domain.Question{}, false
	}

	return unseen[intn(len(unseen))], true
}
