package bookshelf

import "strings"

// BuildQueries derives the ordered search candidates of a book:
// "title author" when both are set, then title, author and publisher,
// skipping empty fields and exact duplicates of a queued candidate.
func BuildQueries(book Book) []string {
	title := strings.TrimSpace(book.Title)
	author := strings.TrimSpace(book.Author)
	publisher := strings.TrimSpace(book.Publisher)

	queries := []string{}
	if title != "" && author != "" {
		queries = append(queries, title+" "+author)
	}
	for _, part := range []string{title, author, publisher} {
		if part == "" || contains(queries, part) {
			continue
		}
		queries = append(queries, part)
	}
	return queries
}

// CapTokens keeps the first max whitespace separated tokens of q,
// joined by a single space.
func CapTokens(q string, max int) string {
	tokens := strings.Fields(q)
	if max > 0 && len(tokens) > max {
		tokens = tokens[:max]
	}
	return strings.Join(tokens, " ")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
