package scrape

import (
	"brrrr-analyzer/domain"
	"brrrr-analyzer/entities"
	"brrrr-analyzer/pkg/property/mock"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestOneOutcomes(t *testing.T) {
	repo := mock.NewRepository()
	ing := NewIngestor(repo)
	ctx := context.Background()
	c := candidates(1)[0]

	first := ing.IngestOne(ctx, c)
	assert.Equal(t, OutcomeInserted, first.Outcome)
	assert.NoError(t, first.Err)

	second := ing.IngestOne(ctx, c)
	assert.Equal(t, OutcomeSkipped, second.Outcome)
	assert.NoError(t, second.Err)

	missing := ing.IngestOne(ctx, domain.Candidate{Address: "1 Nowhere Rd"})
	assert.Equal(t, OutcomeFailed, missing.Outcome)
	assert.ErrorIs(t, missing.Err, domain.ErrInvalidArgument)

	assert.Equal(t, 1, repo.Count())
}

func TestIngestTreatsInsertRaceAsSkip(t *testing.T) {
	repo := mock.NewRepository()
	ing := NewIngestor(repo)
	c := candidates(1)[0]

	// Both callers pass the existence check before either inserts.
	var arrived sync.WaitGroup
	arrived.Add(2)
	repo.BeforeExists = func(string) {
		arrived.Done()
		arrived.Wait()
	}

	results := make([]IngestResult, 2)
	var wg sync.WaitGroup
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = ing.IngestOne(context.Background(), c)
		}()
	}
	wg.Wait()

	var report IngestReport
	for _, r := range results {
		report.Record(r)
	}
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Errors)
	assert.Empty(t, report.ErrorSamples)
	assert.Equal(t, 1, repo.Count())
}

func TestConcurrentRunsNeverDuplicateListings(t *testing.T) {
	properties := mock.NewRepository()
	src := candidates(6)
	var arrived sync.WaitGroup
	arrived.Add(2)
	properties.BeforeExists = func(url string) {
		if url == src[0].ListingURL {
			arrived.Done()
			arrived.Wait()
		}
	}

	reports := make([]IngestReport, 2)
	var wg sync.WaitGroup
	for i := range reports {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			reports[i] = NewIngestor(properties).Ingest(context.Background(), src)
		}()
	}
	wg.Wait()

	assert.Equal(t, 6, properties.Count())
	assert.Equal(t, 6, reports[0].Inserted+reports[1].Inserted)
	assert.Equal(t, 6, reports[0].Skipped+reports[1].Skipped)
	assert.Equal(t, 0, reports[0].Errors+reports[1].Errors)
}

func TestIngestCountsNonConflictFailures(t *testing.T) {
	repo := mock.NewRepository()
	repo.CreateErr = func(p *entities.Property) error {
		if p.ListingURL == "https://example.com/listing/1" {
			return errors.New("deadlock detected")
		}
		return nil
	}

	report := NewIngestor(repo).Ingest(context.Background(), candidates(3))
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 1, report.Errors)
	require.Len(t, report.ErrorSamples, 1)
	assert.Equal(t, entities.ErrorSample{
		ListingURL: "https://example.com/listing/1",
		Error:      "deadlock detected",
	}, report.ErrorSamples[0])
}

func TestIngestPersistsPhotosAndScrapeTime(t *testing.T) {
	repo := mock.NewRepository()
	scrapedAt := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	ing := &ingestor{propertyRepository: repo, now: func() time.Time { return scrapedAt }}

	c := candidates(1)[0]
	c.ListingSource = ""
	c.PhotoURLs = []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}
	require.Equal(t, OutcomeInserted, ing.IngestOne(context.Background(), c).Outcome)

	list, _, err := repo.ListProperties(context.Background(), domain.PropertyFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.ListingSourceMock, list[0].ListingSource)
	require.NotNil(t, list[0].ScrapedAt)
	assert.True(t, scrapedAt.Equal(*list[0].ScrapedAt))

	photos, err := repo.GetPhotos(context.Background(), list[0].ID)
	require.NoError(t, err)
	require.Len(t, photos, 2)
	assert.Equal(t, 1, photos[0].SortOrder)
	assert.Equal(t, "https://cdn.example.com/a.jpg", photos[0].PhotoURL)
	assert.Equal(t, 2, photos[1].SortOrder)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "inserted", OutcomeInserted.String())
	assert.Equal(t, "skipped", OutcomeSkipped.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
	assert.Equal(t, "unknown", Outcome(0).String())
}
