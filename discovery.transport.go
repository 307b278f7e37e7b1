package bookshelf

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

var _ Searcher = (*HTTPSearcher)(nil)

// Searcher fetches search results from a fully built url. Failures
// (network or non-success status) are returned as errors, a response
// which carries no usable books is an empty result.
type Searcher interface {
	Search(ctx context.Context, url string) ([]SimilarBook, error)
}

// HTTPSearcher implements Searcher over plain GET requests.
type HTTPSearcher struct {
	logger *zap.Logger
	client *http.Client
}

// NewHTTPSearcher provides a searcher using client. A nil client means
// a dedicated one without timeout: requests only end on response or
// on cancellation of their run.
func NewHTTPSearcher(logger *zap.Logger, client *http.Client) *HTTPSearcher {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPSearcher{logger: logger, client: client}
}

func (hs *HTTPSearcher) Search(ctx context.Context, url string) ([]SimilarBook, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hs.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{URL: url, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		hs.logger.Debug("search: unreadable response body", zap.String("url", url), zap.Error(err))
		return nil, nil
	}
	return parseSearchResponse(data), nil
}
