package domain

import (
	"fmt"
	"time"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var (
	MessageFailedGetProperties   = "failed to retrieve properties"
	MessageFailedGetProperty     = "failed to retrieve property"
	MessageFailedDeleteProperty  = "failed to delete property"
	MessageSuccessDeleteProperty = "property deleted successfully"
	MessageInvalidQueryParam     = "invalid query parameter"

	ErrPropertyNotFound = fmt.Errorf("property %w", ErrNotFound)
)

type (
	PropertyFilter struct {
		Page     int
		PageSize int
		Q        string
		MinPrice *float64
		MaxPrice *float64
		MinBeds  int
	}

	PropertyResponse struct {
		ID            string     `json:"id"`
		ListingSource string     `json:"listing_source"`
		ListingURL    string     `json:"listing_url"`
		Address       string     `json:"address"`
		City          string     `json:"city"`
		State         string     `json:"state"`
		Zip           string     `json:"zip"`
		Price         *float64   `json:"price"`
		Beds          *int       `json:"beds"`
		Baths         *float64   `json:"baths"`
		Sqft          *int       `json:"sqft"`
		Description   *string    `json:"description"`
		ScrapedAt     *time.Time `json:"scraped_at"`
		CreatedAt     time.Time  `json:"created_at"`
		UpdatedAt     time.Time  `json:"updated_at"`
	}

	PhotoResponse struct {
		ID        string `json:"id"`
		PhotoURL  string `json:"photo_url"`
		SortOrder int    `json:"sort_order"`
	}

	PropertyDetailResponse struct {
		PropertyResponse
		Photos   []PhotoResponse   `json:"photos"`
		Analysis *AnalysisResponse `json:"analysis"`
	}

	PropertyListResponse struct {
		Items    []PropertyResponse `json:"items"`
		Total    int64              `json:"total"`
		Page     int                `json:"page"`
		PageSize int                `json:"page_size"`
	}
)
