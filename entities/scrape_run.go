package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RunStatusStarted             = "started"
	RunStatusSucceeded           = "succeeded"
	RunStatusSucceededWithErrors = "succeeded_with_errors"
	RunStatusFailed              = "failed"
)

type ErrorSample struct {
	ListingURL string `json:"listing_url,omitempty"`
	Error      string `json:"error"`
}

type ScrapeRun struct {
	ID              uuid.UUID                        `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Query           string                           `gorm:"type:varchar(500);not null" json:"query"`
	MaxResults      *int                             `json:"max_results"`
	Status          string                           `gorm:"type:varchar(50);not null;index" json:"status"`
	StartedAt       time.Time                        `gorm:"type:timestamp with time zone;not null;index" json:"started_at"`
	FinishedAt      *time.Time                       `gorm:"type:timestamp with time zone" json:"finished_at"`
	PropertiesFound int                              `gorm:"not null;default:0" json:"properties_found"`
	InsertedCount   int                              `gorm:"not null;default:0" json:"inserted_count"`
	SkippedCount    int                              `gorm:"not null;default:0" json:"skipped_count"`
	ErrorCount      int                              `gorm:"not null;default:0" json:"error_count"`
	ErrorSamples    datatypes.JSONSlice[ErrorSample] `gorm:"type:jsonb" json:"error_samples"`
	Timestamp
}
