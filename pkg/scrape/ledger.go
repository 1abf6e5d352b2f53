package scrape

import (
	"brrrr-analyzer/domain"
	"brrrr-analyzer/entities"
	"brrrr-analyzer/internal/utils"
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type (
	// RunLedger owns the lifecycle of a ScrapeRun row:
	// started -> succeeded | succeeded_with_errors | failed.
	RunLedger interface {
		Create(ctx context.Context, query string, maxResults int) (*entities.ScrapeRun, error)
		Complete(ctx context.Context, run *entities.ScrapeRun, report IngestReport) error
		Fail(ctx context.Context, run *entities.ScrapeRun, cause error)
		Get(ctx context.Context, id string) (*entities.ScrapeRun, error)
		List(ctx context.Context, limit int) ([]*entities.ScrapeRun, error)
	}

	runLedger struct {
		scrapeRepository ScrapeRepository
		now              func() time.Time
	}
)

func NewRunLedger(scrapeRepository ScrapeRepository) RunLedger {
	return &runLedger{
		scrapeRepository: scrapeRepository,
		now:              utils.Now,
	}
}

func (l *runLedger) Create(ctx context.Context, query string, maxResults int) (*entities.ScrapeRun, error) {
	now := l.now()
	run := &entities.ScrapeRun{
		ID:           uuid.New(),
		Query:        query,
		MaxResults:   &maxResults,
		Status:       entities.RunStatusStarted,
		StartedAt:    now,
		ErrorSamples: datatypes.NewJSONSlice([]entities.ErrorSample{}),
		Timestamp: entities.Timestamp{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := l.scrapeRepository.CreateRun(ctx, run); err != nil {
		return nil, err
	}

	log.Infow("scrape run started", "run_id", run.ID, "query", query, "max_results", maxResults)
	return run, nil
}

func (l *runLedger) Complete(ctx context.Context, run *entities.ScrapeRun, report IngestReport) error {
	now := l.now()
	run.Status = entities.RunStatusSucceeded
	if report.Errors > 0 {
		run.Status = entities.RunStatusSucceededWithErrors
	}
	run.FinishedAt = &now
	run.PropertiesFound = report.Total
	run.InsertedCount = report.Inserted
	run.SkippedCount = report.Skipped
	run.ErrorCount = report.Errors
	run.ErrorSamples = datatypes.NewJSONSlice(append([]entities.ErrorSample{}, report.ErrorSamples...))
	run.UpdatedAt = now

	if err := l.scrapeRepository.UpdateRun(ctx, run); err != nil {
		return err
	}

	log.Infow("scrape run completed",
		"run_id", run.ID,
		"status", run.Status,
		"properties_found", run.PropertiesFound,
		"inserted", run.InsertedCount,
		"skipped", run.SkippedCount,
		"errors", run.ErrorCount,
	)
	return nil
}

// Fail is a best-effort terminal write. Errors are logged and swallowed.
func (l *runLedger) Fail(ctx context.Context, run *entities.ScrapeRun, cause error) {
	if run == nil {
		return
	}

	now := l.now()
	run.Status = entities.RunStatusFailed
	run.FinishedAt = &now
	run.ErrorCount++
	run.ErrorSamples = datatypes.NewJSONSlice(appendSample(run.ErrorSamples, entities.ErrorSample{Error: cause.Error()}))
	run.UpdatedAt = now

	if err := l.scrapeRepository.UpdateRun(context.WithoutCancel(ctx), run); err != nil {
		log.Errorw("failed to mark scrape run as failed", "run_id", run.ID, "error", err)
		return
	}
	log.Warnw("scrape run failed", "run_id", run.ID, "error", cause)
}

func (l *runLedger) Get(ctx context.Context, id string) (*entities.ScrapeRun, error) {
	runID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrScrapeRunNotFound
	}

	run, err := l.scrapeRepository.GetRunByID(ctx, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrScrapeRunNotFound
		}
		return nil, err
	}
	return run, nil
}

func (l *runLedger) List(ctx context.Context, limit int) ([]*entities.ScrapeRun, error) {
	if limit < 1 || limit > domain.RunListLimit {
		limit = domain.RunListLimit
	}
	return l.scrapeRepository.ListRuns(ctx, limit)
}

// appendSample keeps at most MaxErrorSamples entries; when full the last one is
// replaced so the newest cause is retained.
func appendSample(samples []entities.ErrorSample, sample entities.ErrorSample) []entities.ErrorSample {
	out := append([]entities.ErrorSample{}, samples...)
	if len(out) < domain.MaxErrorSamples {
		return append(out, sample)
	}
	out = out[:domain.MaxErrorSamples]
	out[domain.MaxErrorSamples-1] = sample
	return out
}
