package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ScoreBreakdown keeps every intermediate estimate of a scoring pass; nil means "not derivable".
type ScoreBreakdown struct {
	Price            *float64 `json:"price"`
	Beds             *int     `json:"beds"`
	Sqft             *int     `json:"sqft"`
	RehabRatePerSqft float64  `json:"rehab_rate_per_sqft"`
	RehabEstimate    *float64 `json:"rehab_estimate"`
	ARVEstimate      *float64 `json:"arv_estimate"`
	RentEstimate     *float64 `json:"rent_estimate"`
	RentToPrice      *float64 `json:"rent_to_price"`
	ARVToPrice       *float64 `json:"arv_to_price"`
}

type AnalysisResult struct {
	ID             uuid.UUID                          `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	PropertyID     uuid.UUID                          `gorm:"type:uuid;not null;uniqueIndex:uq_analysis_results_property_id" json:"property_id"`
	ScoreTotal     float64                            `gorm:"type:decimal(5,2);not null" json:"score_total"`
	ScoreBreakdown datatypes.JSONType[ScoreBreakdown] `gorm:"type:jsonb;not null" json:"score_breakdown"`
	Reasons        datatypes.JSONSlice[string]        `gorm:"type:jsonb" json:"reasons"`
	AnalyzedAt     time.Time                          `gorm:"type:timestamp with time zone;not null" json:"analyzed_at"`
	Timestamp
}
