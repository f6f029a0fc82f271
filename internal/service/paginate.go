package service

// QuestionsPerPage is the fixed page size of every question listing
const QuestionsPerPage = 10

// Paginate returns the 1-indexed page of items. Pages outside the data,
// including pages below 1, are empty.
func Paginate[T any](items []T, page int) []T {
	pages := (len(items) + QuestionsPerPage - 1) / QuestionsPerPage
	if page < 1 || page > pages {
		return []T{}
	}

	start := (page - 1) * QuestionsPerPage
	end := min(start+QuestionsPerPage, len(items))
	return items[start:end]
}
