package scrape

import (
	"brrrr-analyzer/domain"
	"brrrr-analyzer/entities"
	"brrrr-analyzer/pkg/source"
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

type (
	ScrapeService interface {
		RunScrape(ctx context.Context, req domain.RunScrapeRequest) (*domain.RunScrapeResponse, error)
		ListRuns(ctx context.Context) (*domain.ScrapeRunListResponse, error)
		GetRun(ctx context.Context, id string) (*domain.ScrapeRunDetail, error)
	}

	scrapeService struct {
		ledger   RunLedger
		ingestor Ingestor
		source   source.CandidateSource
		archiver Archiver
		notifier Notifier
	}
)

func NewScrapeService(
	ledger RunLedger,
	ingestor Ingestor,
	candidateSource source.CandidateSource,
	archiver Archiver,
	notifier Notifier,
) ScrapeService {
	if archiver == nil {
		archiver = NewNoopArchiver()
	}
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	return &scrapeService{
		ledger:   ledger,
		ingestor: ingestor,
		source:   candidateSource,
		archiver: archiver,
		notifier: notifier,
	}
}

// ValidateRunRequest returns the trimmed query and the bounded max_results.
func ValidateRunRequest(req domain.RunScrapeRequest) (string, int, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return "", 0, domain.ErrQueryRequired
	}
	if !req.MaxResults.Set {
		return "", 0, domain.ErrMaxResultsNotInt
	}
	if req.MaxResults.Value < domain.MinMaxResults || req.MaxResults.Value > domain.MaxMaxResults {
		return "", 0, domain.ErrMaxResultsRange
	}
	return query, req.MaxResults.Value, nil
}

func (s *scrapeService) RunScrape(ctx context.Context, req domain.RunScrapeRequest) (resp *domain.RunScrapeResponse, err error) {
	query, maxResults, err := ValidateRunRequest(req)
	if err != nil {
		return nil, err
	}

	run, err := s.ledger.Create(ctx, query, maxResults)
	if err != nil {
		log.Errorw("failed to create scrape run", "query", query, "error", err)
		return nil, &domain.FatalRunError{Cause: err}
	}

	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = s.abort(ctx, run, fmt.Errorf("%w: panic: %v", domain.ErrFatal, r))
		}
	}()

	candidates, err := s.source.Fetch(ctx, query, maxResults)
	if err != nil {
		return nil, s.abort(ctx, run, fmt.Errorf("%w: %w", domain.ErrCandidateSource, err))
	}
	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}

	if err := s.archiver.Archive(ctx, run.ID.String(), candidates); err != nil {
		log.Warnw("failed to archive scrape candidates", "run_id", run.ID, "error", err)
	}

	report := s.ingestor.Ingest(ctx, candidates)

	if err := s.ledger.Complete(ctx, run, report); err != nil {
		return nil, s.abort(ctx, run, err)
	}
	s.notify(run)

	return &domain.RunScrapeResponse{
		RunID:           run.ID.String(),
		Status:          run.Status,
		Query:           query,
		MaxResults:      maxResults,
		PropertiesFound: report.Total,
		InsertedCount:   report.Inserted,
		SkippedCount:    report.Skipped,
		ErrorCount:      report.Errors,
	}, nil
}

func (s *scrapeService) abort(ctx context.Context, run *entities.ScrapeRun, cause error) error {
	log.Errorw("scrape run aborted", "run_id", run.ID, "error", cause)
	s.ledger.Fail(ctx, run, cause)
	s.notify(run)
	return &domain.FatalRunError{RunID: run.ID.String(), Cause: cause}
}

func (s *scrapeService) notify(run *entities.ScrapeRun) {
	if err := s.notifier.NotifyRun(run); err != nil {
		log.Warnw("failed to send scrape run notification", "run_id", run.ID, "error", err)
	}
}

func (s *scrapeService) ListRuns(ctx context.Context) (*domain.ScrapeRunListResponse, error) {
	runs, err := s.ledger.List(ctx, domain.RunListLimit)
	if err != nil {
		return nil, err
	}

	items := make([]domain.ScrapeRunSummary, 0, len(runs))
	for _, run := range runs {
		items = append(items, toRunSummary(run))
	}
	return &domain.ScrapeRunListResponse{Items: items}, nil
}

func (s *scrapeService) GetRun(ctx context.Context, id string) (*domain.ScrapeRunDetail, error) {
	run, err := s.ledger.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	samples := make([]domain.ErrorSample, 0, len(run.ErrorSamples))
	for _, sample := range run.ErrorSamples {
		samples = append(samples, domain.ErrorSample{
			ListingURL: sample.ListingURL,
			Error:      sample.Error,
		})
	}

	return &domain.ScrapeRunDetail{
		ScrapeRunSummary: toRunSummary(run),
		InsertedCount:    run.InsertedCount,
		SkippedCount:     run.SkippedCount,
		ErrorSamples:     samples,
	}, nil
}

func toRunSummary(run *entities.ScrapeRun) domain.ScrapeRunSummary {
	return domain.ScrapeRunSummary{
		ID:              run.ID.String(),
		Query:           run.Query,
		MaxResults:      run.MaxResults,
		Status:          run.Status,
		StartedAt:       run.StartedAt,
		FinishedAt:      run.FinishedAt,
		PropertiesFound: run.PropertiesFound,
		ErrorCount:      run.ErrorCount,
	}
}
