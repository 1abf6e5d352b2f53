package analysis

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
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type (
	AnalysisService interface {
		AnalyzeProperty(ctx context.Context, propertyID string) (*domain.AnalysisResponse, error)
	}

	analysisService struct {
		analysisRepository AnalysisRepository
		propertyRepository property.PropertyRepository
		now                func() time.Time
	}
)

func NewAnalysisService(analysisRepository AnalysisRepository, propertyRepository property.PropertyRepository) AnalysisService {
	return &analysisService{
		analysisRepository: analysisRepository,
		propertyRepository: propertyRepository,
		now:                utils.Now,
	}
}

func (s *analysisService) AnalyzeProperty(ctx context.Context, propertyID string) (*domain.AnalysisResponse, error) {
	id, err := uuid.Parse(propertyID)
	if err != nil {
		return nil, domain.ErrPropertyNotFound
	}

	prop, err := s.propertyRepository.GetPropertyByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPropertyNotFound
		}
		return nil, err
	}

	result := Score(ScoreInput{
		Price:       prop.Price,
		Beds:        prop.Beds,
		Sqft:        prop.Sqft,
		Description: prop.Description,
	})

	analysis, err := s.upsert(ctx, prop.ID, result)
	if err != nil {
		return nil, err
	}

	log.Infow("property analyzed", "property_id", prop.ID, "analysis_id", analysis.ID, "score_total", analysis.ScoreTotal)
	return property.ToAnalysisResponse(analysis), nil
}

// upsert keeps exactly one analysis row per property. A concurrent insert that
// wins the unique index turns our insert into an update of its row.
func (s *analysisService) upsert(ctx context.Context, propertyID uuid.UUID, result ScoreResult) (*entities.AnalysisResult, error) {
	existing, err := s.analysisRepository.GetAnalysisByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.overwrite(ctx, existing, result)
	}

	now := s.now()
	created := &entities.AnalysisResult{
		ID:             uuid.New(),
		PropertyID:     propertyID,
		ScoreTotal:     result.Total,
		ScoreBreakdown: datatypes.NewJSONType(entities.ScoreBreakdown(result.Breakdown)),
		Reasons:        datatypes.NewJSONSlice(result.Reasons),
		AnalyzedAt:     now,
		Timestamp: entities.Timestamp{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	err = s.analysisRepository.CreateAnalysis(ctx, created)
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, domain.ErrDuplicateAnalysis) {
		return nil, err
	}

	log.Warnw("analysis insert lost race, retrying as update", "property_id", propertyID)
	existing, err = s.analysisRepository.GetAnalysisByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: analysis row for property %s vanished during upsert", domain.ErrTransientPersistence, propertyID)
	}
	return s.overwrite(ctx, existing, result)
}

func (s *analysisService) overwrite(ctx context.Context, existing *entities.AnalysisResult, result ScoreResult) (*entities.AnalysisResult, error) {
	now := s.now()
	existing.ScoreTotal = result.Total
	existing.ScoreBreakdown = datatypes.NewJSONType(entities.ScoreBreakdown(result.Breakdown))
	existing.Reasons = datatypes.NewJSONSlice(result.Reasons)
	existing.AnalyzedAt = now
	existing.UpdatedAt = now

	if err := s.analysisRepository.UpdateAnalysis(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}
