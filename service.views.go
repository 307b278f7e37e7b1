package bookshelf

import (
	"context"
	"sync"
)

// CatalogView holds the catalog screen state on top of a Store: the
// selected book and the author filter.
type CatalogView struct {
	store *Store

	mu       sync.Mutex
	selected string
	author   string
}

func NewCatalogView(store *Store) *CatalogView {
	return &CatalogView{store: store}
}

// Select toggles the selection of the given book.
func (cv *CatalogView) Select(id string) {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	if cv.selected == id {
		cv.selected = ""
		return
	}
	cv.selected = id
}

// SetAuthorFilter restricts the visible books to one author. The
// selection is dropped when the selected book is no longer visible.
func (cv *CatalogView) SetAuthorFilter(author string) {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	cv.author = author
	cv.reconcile()
}

func (cv *CatalogView) AuthorFilter() string {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return cv.author
}

// Visible returns the books passing the author filter, in catalog order.
func (cv *CatalogView) Visible() []Book {
	return cv.store.ByAuthor(cv.AuthorFilter())
}

// Selected returns the selected book, if it still exists and is visible.
func (cv *CatalogView) Selected() (Book, bool) {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	cv.reconcile()
	if cv.selected == "" {
		return Book{}, false
	}
	return cv.store.Get(cv.selected)
}

// Update saves an edited book and clears the selection.
func (cv *CatalogView) Update(ctx context.Context, book Book) (bool, error) {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	cv.selected = ""
	return cv.store.Update(ctx, book)
}

// DeleteSelected removes the selected book. Without selection it does nothing.
func (cv *CatalogView) DeleteSelected(ctx context.Context) (bool, error) {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	if cv.selected == "" {
		return false, nil
	}
	id := cv.selected
	cv.selected = ""
	return cv.store.Delete(ctx, id)
}

// reconcile must be called with the lock held.
func (cv *CatalogView) reconcile() {
	if cv.selected == "" {
		return
	}
	book, ok := cv.store.Get(cv.selected)
	if !ok || (cv.author != "" && book.Author != cv.author) {
		cv.selected = ""
	}
}
