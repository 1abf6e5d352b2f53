package scrape

import (
	"brrrr-analyzer/domain"
	"brrrr-analyzer/entities"
	"brrrr-analyzer/internal/utils"
	"brrrr-analyzer/pkg/property"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type Outcome int

const (
	OutcomeInserted Outcome = iota + 1
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var errMissingListingURL = fmt.Errorf("%w: candidate has no listing_url", domain.ErrInvalidArgument)

type (
	// IngestResult is the outcome for a single candidate. Err is set only for
	// OutcomeFailed.
	IngestResult struct {
		ListingURL string
		Outcome    Outcome
		Err        error
	}

	IngestReport struct {
		Total        int
		Inserted     int
		Skipped      int
		Errors       int
		ErrorSamples []entities.ErrorSample
	}

	Ingestor interface {
		Ingest(ctx context.Context, candidates []domain.Candidate) IngestReport
		IngestOne(ctx context.Context, candidate domain.Candidate) IngestResult
	}

	ingestor struct {
		propertyRepository property.PropertyRepository
		now                func() time.Time
	}
)

func NewIngestor(propertyRepository property.PropertyRepository) Ingestor {
	return &ingestor{
		propertyRepository: propertyRepository,
		now:                utils.Now,
	}
}

func (r *IngestReport) Record(result IngestResult) {
	r.Total++
	switch result.Outcome {
	case OutcomeInserted:
		r.Inserted++
	case OutcomeSkipped:
		r.Skipped++
	default:
		r.Errors++
		if len(r.ErrorSamples) < domain.MaxErrorSamples {
			msg := "unknown error"
			if result.Err != nil {
				msg = result.Err.Error()
			}
			r.ErrorSamples = append(r.ErrorSamples, entities.ErrorSample{
				ListingURL: result.ListingURL,
				Error:      msg,
			})
		}
	}
}

// Ingest processes candidates sequentially. A failing candidate never stops
// the remaining ones.
func (i *ingestor) Ingest(ctx context.Context, candidates []domain.Candidate) IngestReport {
	report := IngestReport{ErrorSamples: []entities.ErrorSample{}}
	for _, candidate := range candidates {
		report.Record(i.IngestOne(ctx, candidate))
	}
	return report
}

// IngestOne looks the listing up by URL and inserts it when absent. Losing an
// insert race to another writer counts as a skip.
func (i *ingestor) IngestOne(ctx context.Context, candidate domain.Candidate) IngestResult {
	result := IngestResult{ListingURL: candidate.ListingURL}
	if candidate.ListingURL == "" {
		result.Outcome = OutcomeFailed
		result.Err = errMissingListingURL
		return result
	}

	exists, err := i.propertyRepository.ExistsByListingURL(ctx, candidate.ListingURL)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err
		return result
	}
	if exists {
		result.Outcome = OutcomeSkipped
		return result
	}

	err = i.propertyRepository.CreateProperty(ctx, i.toProperty(candidate))
	switch {
	case err == nil:
		result.Outcome = OutcomeInserted
	case errors.Is(err, domain.ErrDuplicateListing):
		log.Debugw("listing inserted concurrently, skipping", "listing_url", candidate.ListingURL)
		result.Outcome = OutcomeSkipped
	default:
		result.Outcome = OutcomeFailed
		result.Err = err
	}
	return result
}

func (i *ingestor) toProperty(c domain.Candidate) *entities.Property {
	scrapedAt := i.now()
	source := c.ListingSource
	if source == "" {
		source = domain.ListingSourceMock
	}

	photos := make([]*entities.PropertyPhoto, 0, len(c.PhotoURLs))
	for n, url := range c.PhotoURLs {
		photos = append(photos, &entities.PropertyPhoto{
			PhotoURL:  url,
			SortOrder: n + 1,
		})
	}

	return &entities.Property{
		ListingSource: source,
		ListingURL:    c.ListingURL,
		Address:       c.Address,
		City:          c.City,
		State:         c.State,
		Zip:           c.Zip,
		Price:         c.Price,
		Beds:          c.Beds,
		Baths:         c.Baths,
		Sqft:          c.Sqft,
		Description:   c.Description,
		ScrapedAt:     &scrapedAt,
		Photos:        photos,
	}
}
