package bookshelf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestView(t *testing.T) (*CatalogView, *MockPersister) {
	t.Helper()
	mp := NewMockPersister()
	s := newTestStore(mp)
	for _, b := range []Book{
		{Title: "Dune", Author: "Herbert"},
		{Title: "Emma", Author: "Austen"},
		{Title: "Children of Dune", Author: "Herbert"},
	} {
		_, err := s.Add(context.TODO(), b)
		require.NoError(t, err)
	}
	return NewCatalogView(s), mp
}

func TestCatalogView_Select(t *testing.T) {
	cv, _ := newTestView(t)

	_, ok := cv.Selected()
	assert.False(t, ok)

	cv.Select("b:2")
	b, ok := cv.Selected()
	require.True(t, ok)
	assert.Equal(t, "Emma", b.Title)

	cv.Select("b:2")
	_, ok = cv.Selected()
	assert.False(t, ok, "selecting the same book again clears the selection")

	cv.Select("b:1")
	cv.Select("b:3")
	b, _ = cv.Selected()
	assert.Equal(t, "b:3", b.ID)
}

func TestCatalogView_AuthorFilter(t *testing.T) {
	cv, _ := newTestView(t)

	cv.Select("b:2")
	cv.SetAuthorFilter("Herbert")
	assert.Equal(t, "Herbert", cv.AuthorFilter())

	visible := cv.Visible()
	require.Len(t, visible, 2)
	assert.Equal(t, "Children of Dune", visible[0].Title)
	assert.Equal(t, "Dune", visible[1].Title)

	_, ok := cv.Selected()
	assert.False(t, ok, "a hidden book cannot stay selected")

	cv.Select("b:1")
	cv.SetAuthorFilter("")
	b, ok := cv.Selected()
	assert.True(t, ok, "a visible book stays selected")
	assert.Equal(t, "b:1", b.ID)
	assert.Len(t, cv.Visible(), 3)
}

func TestCatalogView_Update(t *testing.T) {
	cv, mp := newTestView(t)
	cv.Select("b:1")

	ok, err := cv.Update(context.TODO(), Book{ID: "b:1", Title: "Dune", Author: "Frank Herbert"})
	require.NoError(t, err)
	assert.True(t, ok)
	_, selected := cv.Selected()
	assert.False(t, selected)
	assert.Equal(t, 4, mp.Writes())
}

func TestCatalogView_DeleteSelected(t *testing.T) {
	cv, mp := newTestView(t)

	ok, err := cv.DeleteSelected(context.TODO())
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 3, mp.Writes())

	cv.Select("b:3")
	ok, err = cv.DeleteSelected(context.TODO())
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, cv.Visible(), 2)
	_, selected := cv.Selected()
	assert.False(t, selected)
	assert.Equal(t, 4, mp.Writes())
}

func TestCatalogView_SelectionOfDeletedBook(t *testing.T) {
	cv, _ := newTestView(t)
	cv.Select("b:1")

	_, err := cv.store.Delete(context.TODO(), "b:1")
	require.NoError(t, err)

	_, ok := cv.Selected()
	assert.False(t, ok)
}
