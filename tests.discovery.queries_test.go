package bookshelf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildQueries(t *testing.T) {
	tests := []struct {
		name string
		book Book
		want []string
	}{
		{
			name: "all fields",
			book: Book{Title: "The Go Programming Language", Author: "Donovan", Publisher: "Addison-Wesley"},
			want: []string{"The Go Programming Language Donovan", "The Go Programming Language", "Donovan", "Addison-Wesley"},
		},
		{
			name: "title only",
			book: Book{Title: "Dune"},
			want: []string{"Dune"},
		},
		{
			name: "author and publisher",
			book: Book{Author: "Herbert", Publisher: "Chilton"},
			want: []string{"Herbert", "Chilton"},
		},
		{
			name: "fields are trimmed",
			book: Book{Title: "  Dune ", Author: "\tHerbert\n"},
			want: []string{"Dune Herbert", "Dune", "Herbert"},
		},
		{
			name: "duplicates are skipped",
			book: Book{Title: "Go", Author: "Go", Publisher: "Go"},
			want: []string{"Go Go", "Go"},
		},
		{
			name: "dedup is case sensitive",
			book: Book{Title: "go", Publisher: "Go"},
			want: []string{"go", "Go"},
		},
		{
			name: "blank fields",
			book: Book{Title: " ", Author: "", Publisher: "\t"},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQueries(tt.book))
		})
	}
}

func TestCapTokens(t *testing.T) {
	assert.Equal(t, "one two three four five", CapTokens("one two three four five six", 5))
	assert.Equal(t, "one two", CapTokens("  one   two ", 5))
	assert.Equal(t, "", CapTokens("   ", 5))
	assert.Equal(t, "a b c", CapTokens("a b c", 0), "no cap when max is not positive")
}
