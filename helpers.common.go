package bookshelf

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBlobNotFound is returned by a Persister when the key holds no data.
	ErrBlobNotFound = errors.New("blob not found")
	// ErrTransport wraps network level failures of a search request.
	ErrTransport = errors.New("search transport failure")

	ErrMissingBorrower = errors.New("please enter a borrower name")
	ErrMissingBook     = errors.New("please select a book")
	ErrInvalidWeeks    = fmt.Errorf("loan period must be between %d and %d weeks", MinLoanWeeks, MaxLoanWeeks)
)

const (
	BookIDPrefix      string = "b"
	DefaultStorageKey string = "books"
	MinLoanWeeks      int    = 1
	MaxLoanWeeks      int    = 4
)

// StatusError reports a search response with a non-success status.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.Status, e.URL)
}

// LoanRequest is what the loan form submits before a loan is created.
type LoanRequest struct {
	BookID   string
	Borrower string
	Weeks    int
}

// Validate enforces the loan policy. The store never does, so this
// must be called by the caller before Store.CreateLoan.
func (lr LoanRequest) Validate() error {
	if strings.TrimSpace(lr.Borrower) == "" {
		return ErrMissingBorrower
	}
	if lr.BookID == "" {
		return ErrMissingBook
	}
	if lr.Weeks < MinLoanWeeks || lr.Weeks > MaxLoanWeeks {
		return ErrInvalidWeeks
	}
	return nil
}
