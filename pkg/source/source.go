package source

import (
	"brrrr-analyzer/domain"
	"context"
	"fmt"
	"net/http"
	"time"
)

const (
	ModeMock = "mock"
	ModeHTML = "html"
)

// CandidateSource yields at most max listing candidates for a query. Order is
// not significant.
type CandidateSource interface {
	Fetch(ctx context.Context, query string, max int) ([]domain.Candidate, error)
}

func NewCandidateSource(mode, baseURL string, timeout time.Duration) (CandidateSource, error) {
	switch mode {
	case "", ModeMock:
		return NewMockSource(), nil
	case ModeHTML:
		if baseURL == "" {
			return nil, fmt.Errorf("scraper mode %q requires SCRAPER_BASE_URL", mode)
		}
		return NewHTMLSource(baseURL, &http.Client{Timeout: timeout}), nil
	default:
		return nil, fmt.Errorf("unknown scraper mode %q", mode)
	}
}
