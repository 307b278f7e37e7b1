package bookshelf

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MarshalCatalog encodes the whole catalog as a JSON array.
func MarshalCatalog(books []Book) ([]byte, error) {
	if books == nil {
		books = []Book{}
	}
	data, err := json.Marshal(books)
	if err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}
	return data, nil
}

// ParseCatalog decodes a persisted catalog. Empty input or a JSON
// null decode to an empty catalog.
func ParseCatalog(data []byte) ([]Book, error) {
	if len(data) == 0 {
		return []Book{}, nil
	}
	var books []Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if books == nil {
		return []Book{}, nil
	}
	return books, nil
}

// searchResponse is the body of both the primary and the proxy search.
type searchResponse struct {
	Books []SimilarBook `json:"books"`
}

// parseSearchResponse never fails: a body that cannot be decoded
// carries no books.
func parseSearchResponse(data []byte) []SimilarBook {
	var res searchResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return nil
	}
	return res.Books
}
