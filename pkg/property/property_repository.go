package property

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
	PropertyRepository interface {
		GetPropertyByID(ctx context.Context, id uuid.UUID) (*entities.Property, error)
		ExistsByListingURL(ctx context.Context, listingURL string) (bool, error)
		CreateProperty(ctx context.Context, property *entities.Property) error
		ListProperties(ctx context.Context, filter domain.PropertyFilter) ([]*entities.Property, int64, error)
		DeleteProperty(ctx context.Context, id uuid.UUID) error

		// Children are fetched separately and attached by the caller.
		GetPhotos(ctx context.Context, propertyID uuid.UUID) ([]*entities.PropertyPhoto, error)
		GetAnalysisByPropertyID(ctx context.Context, propertyID uuid.UUID) (*entities.AnalysisResult, error)
	}

	propertyRepository struct {
		db *gorm.DB
	}
)

func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) GetPropertyByID(ctx context.Context, id uuid.UUID) (*entities.Property, error) {
	var property entities.Property
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&property).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) ExistsByListingURL(ctx context.Context, listingURL string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Property{}).
		Where("listing_url = ?", listingURL).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateProperty inserts the property and its photos in one transaction.
func (r *propertyRepository) CreateProperty(ctx context.Context, property *entities.Property) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(property).Error
	})
	if utils.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateListing, property.ListingURL)
	}
	return err
}

func (r *propertyRepository) ListProperties(ctx context.Context, filter domain.PropertyFilter) ([]*entities.Property, int64, error) {
	var properties []*entities.Property
	var count int64

	offset := (filter.Page - 1) * filter.PageSize

	query := r.db.WithContext(ctx).Model(&entities.Property{})

	if filter.Q != "" {
		like := "%" + filter.Q + "%"
		query = query.Where(
			"address ILIKE ? OR city ILIKE ? OR state ILIKE ? OR zip ILIKE ?",
			like, like, like, like,
		)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.MinBeds > 0 {
		query = query.Where("beds >= ?", filter.MinBeds)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at desc").
		Offset(offset).
		Limit(filter.PageSize).
		Find(&properties).Error; err != nil {
		return nil, 0, err
	}

	return properties, count, nil
}

// DeleteProperty removes the photos and analysis before the property itself,
// all inside one transaction.
func (r *propertyRepository) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", id).Delete(&entities.PropertyPhoto{}).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", id).Delete(&entities.AnalysisResult{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&entities.Property{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *propertyRepository) GetPhotos(ctx context.Context, propertyID uuid.UUID) ([]*entities.PropertyPhoto, error) {
	var photos []*entities.PropertyPhoto
	if err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("sort_order asc").
		Find(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *propertyRepository) GetAnalysisByPropertyID(ctx context.Context, propertyID uuid.UUID) (*entities.AnalysisResult, error) {
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
