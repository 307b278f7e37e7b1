package bookshelf

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Store owns the catalog and every book and loan record in it.
// Each mutation rewrites the whole catalog through the persister.
type Store struct {
	logger    *zap.Logger
	clock     Clocker
	ids       IDGenerator
	persister Persister
	key       string

	mu    sync.RWMutex
	books []Book
}

// NewStore provides an empty store. Call Load to read the persisted catalog.
func NewStore(logger *zap.Logger, clock Clocker, ids IDGenerator, persister Persister, key string) *Store {
	if key == "" {
		key = DefaultStorageKey
	}
	return &Store{
		logger:    logger,
		clock:     clock,
		ids:       ids,
		persister: persister,
		key:       key,
		books:     []Book{},
	}
}

// Load replaces the in-memory catalog with the persisted one. An absent,
// unreadable or malformed blob leaves an empty catalog.
func (s *Store) Load(ctx context.Context) {
	books := []Book{}
	data, err := s.persister.Get(ctx, s.key)
	switch {
	case errors.Is(err, ErrBlobNotFound):
		s.logger.Debug("store: no persisted catalog", zap.String("key", s.key))
	case err != nil:
		s.logger.Warn("store: failed to read persisted catalog", zap.String("key", s.key), zap.Error(err))
	default:
		parsed, perr := ParseCatalog(data)
		if perr != nil {
			s.logger.Warn("store: discarding malformed catalog", zap.String("key", s.key), zap.Error(perr))
			break
		}
		books = parsed
	}

	s.mu.Lock()
	s.books = books
	s.mu.Unlock()
	s.logger.Info("store: catalog loaded", zap.Int("books", len(books)))
}

// Add prepends the book to the catalog. An id is generated only when
// the book has none.
func (s *Store) Add(ctx context.Context, book Book) (Book, error) {
	if book.ID == "" {
		book.ID = s.ids.NewID()
	}
	book = book.clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.books = append([]Book{book}, s.books...)
	return book.clone(), s.persist(ctx, "add", book.ID)
}

// Update replaces the entry with the same id. It reports false and
// writes nothing when no entry matches.
func (s *Store) Update(ctx context.Context, book Book) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(book.ID)
	if i < 0 {
		s.logger.Debug("store: update ignored, unknown book", zap.String("id", book.ID))
		return false, nil
	}
	s.books[i] = book.clone()
	return true, s.persist(ctx, "update", book.ID)
}

// Delete removes the entry with the given id, if any.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		s.logger.Debug("store: delete ignored, unknown book", zap.String("id", id))
		return false, nil
	}
	books := make([]Book, 0, len(s.books)-1)
	books = append(books, s.books[:i]...)
	s.books = append(books, s.books[i+1:]...)
	return true, s.persist(ctx, "delete", id)
}

// CreateLoan lends the book, replacing any previous loan. The due date is
// computed once from the current time. weeks is taken as given, see
// LoanRequest.Validate for the policy.
func (s *Store) CreateLoan(ctx context.Context, bookID, borrower string, weeks int) (Book, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(bookID)
	if i < 0 {
		s.logger.Debug("store: loan ignored, unknown book", zap.String("id", bookID))
		return Book{}, false, nil
	}
	s.books[i].Loan = &Loan{
		Borrower: borrower,
		DueDate:  dueDate(s.clock.Now(), weeks),
		Weeks:    weeks,
	}
	return s.books[i].clone(), true, s.persist(ctx, "loan", bookID)
}

// Books returns a copy of the catalog, newest first.
func (s *Store) Books() []Book {
	return s.filter(func(Book) bool { return true })
}

// Get returns the book with the given id.
func (s *Store) Get(id string) (Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.books[i].clone(), true
	}
	return Book{}, false
}

// Available returns the books which are not on loan.
func (s *Store) Available() []Book {
	return s.filter(Book.IsAvailable)
}

// OnLoan returns the books currently lent.
func (s *Store) OnLoan() []Book {
	return s.filter(func(b Book) bool { return !b.IsAvailable() })
}

// ByAuthor returns the books whose author matches exactly. An empty
// author matches every book.
func (s *Store) ByAuthor(author string) []Book {
	return s.filter(func(b Book) bool { return author == "" || b.Author == author })
}

// Authors returns the sorted distinct non-empty authors.
func (s *Store) Authors() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	authors := []string{}
	for _, b := range s.books {
		if b.Author == "" {
			continue
		}
		if _, ok := seen[b.Author]; ok {
			continue
		}
		seen[b.Author] = struct{}{}
		authors = append(authors, b.Author)
	}
	sort.Strings(authors)
	return authors
}

func (s *Store) filter(keep func(Book) bool) []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	books := []Book{}
	for _, b := range s.books {
		if keep(b) {
			books = append(books, b.clone())
		}
	}
	return books
}

// indexOf must be called with the lock held.
func (s *Store) indexOf(id string) int {
	for i := range s.books {
		if s.books[i].ID == id {
			return i
		}
	}
	return -1
}

// persist writes the whole catalog. It must be called with the write
// lock held so that writes land in mutation order.
func (s *Store) persist(ctx context.Context, op, id string) error {
	data, err := MarshalCatalog(s.books)
	if err != nil {
		s.logger.Error("store: failed to encode catalog", zap.String("op", op), zap.String("id", id), zap.Error(err))
		return err
	}
	if err = s.persister.Set(ctx, s.key, data); err != nil {
		s.logger.Error("store: failed to persist catalog", zap.String("op", op), zap.String("id", id), zap.Error(err))
		return fmt.Errorf("persisting catalog after %s: %w", op, err)
	}
	s.logger.Debug("store: catalog persisted", zap.String("op", op), zap.String("id", id), zap.Int("books", len(s.books)))
	return nil
}
