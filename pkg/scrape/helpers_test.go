package scrape

import (
	"brrrr-analyzer/domain"
	"brrrr-analyzer/entities"
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type memoryScrapeRepository struct {
	mu   sync.Mutex
	runs map[uuid.UUID]entities.ScrapeRun

	createErr     error
	updateErr     error
	updates       int
	lastUpdateCtx error
}

func newMemoryScrapeRepository() *memoryScrapeRepository {
	return &memoryScrapeRepository{runs: make(map[uuid.UUID]entities.ScrapeRun)}
}

func (r *memoryScrapeRepository) CreateRun(_ context.Context, run *entities.ScrapeRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	r.runs[run.ID] = cloneRun(run)
	return nil
}

func (r *memoryScrapeRepository) UpdateRun(ctx context.Context, run *entities.ScrapeRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.updates++
	r.lastUpdateCtx = ctx.Err()
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.runs[run.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.runs[run.ID] = cloneRun(run)
	return nil
}

func (r *memoryScrapeRepository) GetRunByID(_ context.Context, id uuid.UUID) (*entities.ScrapeRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := cloneRun(&run)
	return &cp, nil
}

func (r *memoryScrapeRepository) ListRuns(_ context.Context, limit int) ([]*entities.ScrapeRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runs := make([]*entities.ScrapeRun, 0, len(r.runs))
	for _, run := range r.runs {
		cp := cloneRun(&run)
		runs = append(runs, &cp)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].StartedAt.After(runs[j].StartedAt) })
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (r *memoryScrapeRepository) only() entities.ScrapeRun {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, run := range r.runs {
		return run
	}
	return entities.ScrapeRun{}
}

func (r *memoryScrapeRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runs)
}

func cloneRun(run *entities.ScrapeRun) entities.ScrapeRun {
	cp := *run
	cp.ErrorSamples = append([]entities.ErrorSample(nil), run.ErrorSamples...)
	return cp
}

type staticSource struct {
	candidates []domain.Candidate
	err        error
	panicWith  any
	calls      int
}

func (s *staticSource) Fetch(context.Context, string, int) ([]domain.Candidate, error) {
	s.calls++
	if s.panicWith != nil {
		panic(s.panicWith)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.candidates, nil
}

type recordingArchiver struct {
	runIDs []string
	counts []int
	err    error
}

func (a *recordingArchiver) Archive(_ context.Context, runID string, candidates []domain.Candidate) error {
	a.runIDs = append(a.runIDs, runID)
	a.counts = append(a.counts, len(candidates))
	return a.err
}

type recordingNotifier struct {
	statuses []string
}

func (n *recordingNotifier) NotifyRun(run *entities.ScrapeRun) error {
	n.statuses = append(n.statuses, run.Status)
	return errors.New("smtp unavailable")
}

type recordingMailer struct {
	to      []string
	subject []string
	body    []string
}

func (m *recordingMailer) SendMail(toEmail string, subject string, body string) error {
	m.to = append(m.to, toEmail)
	m.subject = append(m.subject, subject)
	m.body = append(m.body, body)
	return nil
}
