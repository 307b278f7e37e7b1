package bookshelf

import (
	"net/url"
	"strings"
	"time"
)

// Book represents a catalog entry. Only ID is mandatory, every
// other field is optional free text as typed by the user.
type Book struct {
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	Year      string `json:"year,omitempty"`
	Language  string `json:"language,omitempty"`
	Pages     string `json:"pages,omitempty"`
	Image     string `json:"image,omitempty"`
	Subtitle  string `json:"subtitle,omitempty"`
	URL       string `json:"url,omitempty"`
	Loan      *Loan  `json:"loan,omitempty"`
}

// Loan is embedded into its book. DueDate is computed once at
// creation time and never recomputed afterwards.
type Loan struct {
	Borrower string    `json:"borrower"`
	DueDate  time.Time `json:"dueDate"`
	Weeks    int       `json:"weeks"`
}

// SimilarBook is a summary returned by the remote catalog search.
// It is never persisted.
type SimilarBook struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Image    string `json:"image"`
	Price    string `json:"price,omitempty"`
	ISBN13   string `json:"isbn13,omitempty"`
	URL      string `json:"url,omitempty"`
}

// IsAvailable reports whether the book is not on loan.
func (b Book) IsAvailable() bool {
	return b.Loan == nil
}

// Label returns the best human readable name of the book.
func (b Book) Label() string {
	switch {
	case b.Title != "":
		return b.Title
	case b.Author != "":
		return b.Author
	default:
		return "Untitled"
	}
}

// clone returns a copy which does not share its loan with the receiver.
func (b Book) clone() Book {
	if b.Loan != nil {
		l := *b.Loan
		b.Loan = &l
	}
	return b
}

// Link returns the summary url or a search link on the store website.
func (s SimilarBook) Link(storeBase string) string {
	if s.URL != "" {
		return s.URL
	}
	return strings.TrimSuffix(storeBase, "/") + "/" + url.PathEscape(s.Title)
}

// Key identifies a summary inside a result list.
func (s SimilarBook) Key() string {
	if s.ISBN13 != "" {
		return s.ISBN13
	}
	return s.Title
}

// dueDate computes the loan due date from its creation time.
func dueDate(created time.Time, weeks int) time.Time {
	return created.Add(time.Duration(weeks) * 7 * 24 * time.Hour)
}
