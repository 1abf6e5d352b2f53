package property

import (
	"brrrr-analyzer/domain"
	"brrrr-analyzer/entities"
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type (
	PropertyService interface {
		ListProperties(ctx context.Context, filter domain.PropertyFilter) (domain.PropertyListResponse, error)
		GetPropertyDetail(ctx context.Context, id string) (domain.PropertyDetailResponse, error)
		DeleteProperty(ctx context.Context, id string) error
	}

	propertyService struct {
		propertyRepository PropertyRepository
	}
)

func NewPropertyService(propertyRepository PropertyRepository) PropertyService {
	return &propertyService{
		propertyRepository: propertyRepository,
	}
}

// NormalizeFilter clamps paging into its allowed range.
func NormalizeFilter(filter domain.PropertyFilter) domain.PropertyFilter {
	if filter.Page < 1 {
		filter.Page = domain.DefaultPage
	}
	if filter.PageSize < 1 {
		filter.PageSize = 1
	}
	if filter.PageSize > domain.MaxPageSize {
		filter.PageSize = domain.MaxPageSize
	}
	if filter.MinBeds < 0 {
		filter.MinBeds = 0
	}
	return filter
}

func (s *propertyService) ListProperties(ctx context.Context, filter domain.PropertyFilter) (domain.PropertyListResponse, error) {
	filter = NormalizeFilter(filter)

	properties, total, err := s.propertyRepository.ListProperties(ctx, filter)
	if err != nil {
		return domain.PropertyListResponse{}, err
	}

	items := make([]domain.PropertyResponse, 0, len(properties))
	for _, p := range properties {
		items = append(items, ToPropertyResponse(p))
	}

	return domain.PropertyListResponse{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (s *propertyService) GetPropertyDetail(ctx context.Context, id string) (domain.PropertyDetailResponse, error) {
	propertyID, err := uuid.Parse(id)
	if err != nil {
		return domain.PropertyDetailResponse{}, domain.ErrPropertyNotFound
	}

	property, err := s.propertyRepository.GetPropertyByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PropertyDetailResponse{}, domain.ErrPropertyNotFound
		}
		return domain.PropertyDetailResponse{}, err
	}

	var (
		photos   []*entities.PropertyPhoto
		analysis *entities.AnalysisResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		photos, err = s.propertyRepository.GetPhotos(gctx, propertyID)
		return err
	})
	g.Go(func() error {
		var err error
		analysis, err = s.propertyRepository.GetAnalysisByPropertyID(gctx, propertyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.PropertyDetailResponse{}, err
	}

	photoResponses := make([]domain.PhotoResponse, 0, len(photos))
	for _, photo := range photos {
		photoResponses = append(photoResponses, domain.PhotoResponse{
			ID:        photo.ID.String(),
			PhotoURL:  photo.PhotoURL,
			SortOrder: photo.SortOrder,
		})
	}

	return domain.PropertyDetailResponse{
		PropertyResponse: ToPropertyResponse(property),
		Photos:           photoResponses,
		Analysis:         ToAnalysisResponse(analysis),
	}, nil
}

func (s *propertyService) DeleteProperty(ctx context.Context, id string) error {
	propertyID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrPropertyNotFound
	}

	if err := s.propertyRepository.DeleteProperty(ctx, propertyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrPropertyNotFound
		}
		return err
	}
	return nil
}
