package analysis

import (
	"brrrr-analyzer/domain"
	"brrrr-analyzer/entities"
	"brrrr-analyzer/internal/utils"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	AnalysisRepository interface {
		GetAnalysisByPropertyID(ctx context.Context, propertyID uuid.UUID) (*entities.AnalysisResult, error)
		CreateAnalysis(ctx context.Context, analysis *entities.AnalysisResult) error
		UpdateAnalysis(ctx context.Context, analysis *entities.AnalysisResult) error
	}

	analysisRepository struct {
		db *gorm.DB
	}
)

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) GetAnalysisByPropertyID(ctx context.Context, propertyID uuid.UUID) (*entities.AnalysisResult, error) {
	var analysis entities.AnalysisResult
	if err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		First(&analysis).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &analysis, nil
}

func (r *analysisRepository) CreateAnalysis(ctx context.Context, analysis *entities.AnalysisResult) error {
	err := r.db.WithContext(ctx).Create(analysis).Error
	if utils.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateAnalysis, analysis.PropertyID)
	}
	return err
}

// UpdateAnalysis overwrites the score columns of an existing row in place.
func (r *analysisRepository) UpdateAnalysis(ctx context.Context, analysis *entities.AnalysisResult) error {
	res := r.db.WithContext(ctx).
		Model(&entities.AnalysisResult{}).
		Where("id = ?", analysis.ID).
		Updates(map[string]interface{}{
			"score_total":     analysis.ScoreTotal,
			"score_breakdown": analysis.ScoreBreakdown,
			"reasons":         analysis.Reasons,
			"analyzed_at":     analysis.AnalyzedAt,
			"updated_at":      analysis.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
