package entities

import (
	"time"

	"github.com/google/uuid"
)

type Property struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ListingSource string     `gorm:"type:varchar(50);not null" json:"listing_source"`
	ListingURL    string     `gorm:"type:varchar(500);not null;uniqueIndex:uq_properties_listing_url" json:"listing_url"`
	Address       string     `gorm:"type:varchar(255);not null" json:"address"`
	City          string     `gorm:"type:varchar(100);not null" json:"city"`
	State         string     `gorm:"type:varchar(50);not null" json:"state"`
	Zip           string     `gorm:"type:varchar(20);not null" json:"zip"`
	Price         *float64   `gorm:"type:decimal(12,2)" json:"price"`
	Beds          *int       `json:"beds"`
	Baths         *float64   `gorm:"type:decimal(4,2)" json:"baths"`
	Sqft          *int       `json:"sqft"`
	Description   *string    `gorm:"type:text" json:"description"`
	ScrapedAt     *time.Time `gorm:"type:timestamp with time zone" json:"scraped_at"`

	Photos   []*PropertyPhoto `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"-"`
	Analysis *AnalysisResult  `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"-"`
	Timestamp
}

type PropertyPhoto struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;index" json:"property_id"`
	PhotoURL   string    `gorm:"type:varchar(1000);not null" json:"photo_url"`
	SortOrder  int       `gorm:"not null" json:"sort_order"`
}
