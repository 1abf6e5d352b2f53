package scrape

import (
	"brrrr-analyzer/entities"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ScrapeRepository interface {
		CreateRun(ctx context.Context, run *entities.ScrapeRun) error
		UpdateRun(ctx context.Context, run *entities.ScrapeRun) error
		GetRunByID(ctx context.Context, id uuid.UUID) (*entities.ScrapeRun, error)
		ListRuns(ctx context.Context, limit int) ([]*entities.ScrapeRun, error)
	}

	scrapeRepository struct {
		db *gorm.DB
	}
)

func NewScrapeRepository(db *gorm.DB) ScrapeRepository {
	return &scrapeRepository{db: db}
}

func (r *scrapeRepository) CreateRun(ctx context.Context, run *entities.ScrapeRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// UpdateRun writes the mutable ledger columns of an existing run.
func (r *scrapeRepository) UpdateRun(ctx context.Context, run *entities.ScrapeRun) error {
	result := r.db.WithContext(ctx).
		Model(&entities.ScrapeRun{}).
		Where("id = ?", run.ID).
		Updates(map[string]interface{}{
			"status":           run.Status,
			"finished_at":      run.FinishedAt,
			"properties_found": run.PropertiesFound,
			"inserted_count":   run.InsertedCount,
			"skipped_count":    run.SkippedCount,
			"error_count":      run.ErrorCount,
			"error_samples":    run.ErrorSamples,
			"updated_at":       run.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *scrapeRepository) GetRunByID(ctx context.Context, id uuid.UUID) (*entities.ScrapeRun, error) {
	var run entities.ScrapeRun
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *scrapeRepository) ListRuns(ctx context.Context, limit int) ([]*entities.ScrapeRun, error) {
	var runs []*entities.ScrapeRun
	if err := r.db.WithContext(ctx).
		Order("started_at desc").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
