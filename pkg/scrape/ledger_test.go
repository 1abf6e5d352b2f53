package scrape

import (
	"brrrr-analyzer/domain"
	"brrrr-analyzer/entities"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerCompleteStatus(t *testing.T) {
	runs := newMemoryScrapeRepository()
	ledger := NewRunLedger(runs)
	ctx := context.Background()

	run, err := ledger.Create(ctx, "newark", 5)
	require.NoError(t, err)
	assert.Equal(t, entities.RunStatusStarted, runs.only().Status)
	assert.Nil(t, runs.only().FinishedAt)

	require.NoError(t, ledger.Complete(ctx, run, IngestReport{Total: 5, Inserted: 5}))
	assert.Equal(t, entities.RunStatusSucceeded, runs.only().Status)
	assert.NotNil(t, runs.only().FinishedAt)

	run, err = ledger.Create(ctx, "newark", 5)
	require.NoError(t, err)
	require.NoError(t, ledger.Complete(ctx, run, IngestReport{
		Total: 5, Inserted: 4, Errors: 1,
		ErrorSamples: []entities.ErrorSample{{ListingURL: "https://example.com/x", Error: "boom"}},
	}))
	stored, err := ledger.Get(ctx, run.ID.String())
	require.NoError(t, err)
	assert.Equal(t, entities.RunStatusSucceededWithErrors, stored.Status)
	assert.Equal(t, 1, stored.ErrorCount)
	assert.Len(t, stored.ErrorSamples, 1)
}

func TestLedgerFailAppendsCause(t *testing.T) {
	runs := newMemoryScrapeRepository()
	ledger := NewRunLedger(runs)
	ctx := context.Background()

	run, err := ledger.Create(ctx, "newark", 5)
	require.NoError(t, err)

	ledger.Fail(ctx, run, errors.New("source timed out"))
	stored := runs.only()
	assert.Equal(t, entities.RunStatusFailed, stored.Status)
	assert.NotNil(t, stored.FinishedAt)
	assert.Equal(t, 1, stored.ErrorCount)
	assert.Equal(t, []entities.ErrorSample{{Error: "source timed out"}}, []entities.ErrorSample(stored.ErrorSamples))
}

func TestLedgerFailKeepsSampleCap(t *testing.T) {
	runs := newMemoryScrapeRepository()
	ledger := NewRunLedger(runs)
	ctx := context.Background()

	run, err := ledger.Create(ctx, "newark", 50)
	require.NoError(t, err)
	report := IngestReport{Total: 50, Errors: 30}
	for i := 0; i < domain.MaxErrorSamples; i++ {
		report.ErrorSamples = append(report.ErrorSamples, entities.ErrorSample{Error: fmt.Sprintf("err %d", i)})
	}
	run.ErrorCount = report.Errors
	run.ErrorSamples = report.ErrorSamples

	ledger.Fail(ctx, run, errors.New("ledger write failed"))
	stored := runs.only()
	assert.Equal(t, 31, stored.ErrorCount)
	require.Len(t, stored.ErrorSamples, domain.MaxErrorSamples)
	assert.Equal(t, "err 0", stored.ErrorSamples[0].Error)
	assert.Equal(t, "ledger write failed", stored.ErrorSamples[domain.MaxErrorSamples-1].Error)
}

func TestLedgerFailIsBestEffort(t *testing.T) {
	runs := newMemoryScrapeRepository()
	ledger := NewRunLedger(runs)

	run, err := ledger.Create(context.Background(), "newark", 5)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ledger.Fail(ctx, run, errors.New("request aborted"))
	assert.NoError(t, runs.lastUpdateCtx, "fail write ignores caller cancellation")
	assert.Equal(t, entities.RunStatusFailed, runs.only().Status)

	runs.updateErr = errors.New("connection refused")
	assert.NotPanics(t, func() {
		ledger.Fail(context.Background(), run, errors.New("second failure"))
	})

	assert.NotPanics(t, func() {
		ledger.Fail(context.Background(), nil, errors.New("no run"))
	})
}

func TestLedgerGetNotFound(t *testing.T) {
	ledger := NewRunLedger(newMemoryScrapeRepository())

	_, err := ledger.Get(context.Background(), "42")
	assert.ErrorIs(t, err, domain.ErrScrapeRunNotFound)

	_, err = ledger.Get(context.Background(), "0f8fad5b-d9cb-469f-a165-70867728950e")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAppendSample(t *testing.T) {
	var samples []entities.ErrorSample
	for i := 0; i < domain.MaxErrorSamples+3; i++ {
		samples = appendSample(samples, entities.ErrorSample{Error: fmt.Sprint(i)})
	}
	require.Len(t, samples, domain.MaxErrorSamples)
	assert.Equal(t, "0", samples[0].Error)
	assert.Equal(t, fmt.Sprint(domain.MaxErrorSamples+2), samples[domain.MaxErrorSamples-1].Error)
}
