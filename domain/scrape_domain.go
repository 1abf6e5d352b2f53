package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const (
	MinMaxResults     = 1
	MaxMaxResults     = 200
	MaxErrorSamples   = 10
	RunListLimit      = 50
	ListingSourceMock = "mock"
)

var (
	MessageFailedRunScrape = "Scrape run failed"
	MessageFailedGetRuns   = "failed to retrieve scrape runs"
	MessageFailedGetRun    = "failed to retrieve scrape run"

	ErrQueryRequired     = fmt.Errorf("%w: 'query' is required", ErrInvalidArgument)
	ErrMaxResultsNotInt  = fmt.Errorf("%w: 'max_results' must be an integer", ErrInvalidArgument)
	ErrMaxResultsRange   = fmt.Errorf("%w: 'max_results' must be between %d and %d", ErrInvalidArgument, MinMaxResults, MaxMaxResults)
	ErrScrapeRunNotFound = fmt.Errorf("scrape run %w", ErrNotFound)
	ErrDuplicateListing  = fmt.Errorf("%w: listing already exists", ErrConflict)
	ErrCandidateSource   = fmt.Errorf("%w: candidate source failed", ErrFatal)
)

// IntParam is an integer that also accepts its decimal string form, so
// {"max_results": "25"} and {"max_results": 25} are equivalent.
type IntParam struct {
	Value int
	Set   bool
}

func (p *IntParam) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = IntParam{}
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ErrMaxResultsNotInt
		}
		raw = s
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return ErrMaxResultsNotInt
	}
	*p = IntParam{Value: n, Set: true}
	return nil
}

func (p IntParam) MarshalJSON() ([]byte, error) {
	if !p.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(p.Value)), nil
}

type (
	// Candidate is a raw listing record produced by a candidate source.
	Candidate struct {
		ListingSource string
		ListingURL    string
		Address       string
		City          string
		State         string
		Zip           string
		Price         *float64
		Beds          *int
		Baths         *float64
		Sqft          *int
		Description   *string
		PhotoURLs     []string
	}

	RunScrapeRequest struct {
		Query      string   `json:"query" validate:"required"`
		MaxResults IntParam `json:"max_results"`
	}

	RunScrapeResponse struct {
		RunID           string `json:"run_id"`
		Status          string `json:"status"`
		Query           string `json:"query"`
		MaxResults      int    `json:"max_results"`
		PropertiesFound int    `json:"properties_found"`
		InsertedCount   int    `json:"inserted_count"`
		SkippedCount    int    `json:"skipped_count"`
		ErrorCount      int    `json:"error_count"`
	}

	ScrapeRunSummary struct {
		ID              string     `json:"id"`
		Query           string     `json:"query"`
		MaxResults      *int       `json:"max_results"`
		Status          string     `json:"status"`
		StartedAt       time.Time  `json:"started_at"`
		FinishedAt      *time.Time `json:"finished_at"`
		PropertiesFound int        `json:"properties_found"`
		ErrorCount      int        `json:"error_count"`
	}

	ScrapeRunDetail struct {
		ScrapeRunSummary
		InsertedCount int           `json:"inserted_count"`
		SkippedCount  int           `json:"skipped_count"`
		ErrorSamples  []ErrorSample `json:"error_samples"`
	}

	ErrorSample struct {
		ListingURL string `json:"listing_url,omitempty"`
		Error      string `json:"error"`
	}

	ScrapeRunListResponse struct {
		Items []ScrapeRunSummary `json:"items"`
	}

	// FatalRunError carries the id of a run that was marked failed so the
	// HTTP layer can reference it without exposing the cause.
	FatalRunError struct {
		RunID string
		Cause error
	}
)

func (e *FatalRunError) Error() string {
	return fmt.Sprintf("scrape run %s failed: %v", e.RunID, e.Cause)
}

func (e *FatalRunError) Unwrap() []error {
	return []error{ErrFatal, e.Cause}
}
