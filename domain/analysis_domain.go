package domain

import (
	"fmt"
	"time"
)

var (
	MessageFailedAnalyzeProperty = "failed to analyze property"

	ErrDuplicateAnalysis = fmt.Errorf("%w: analysis already exists for property", ErrConflict)
)

type (
	ScoreBreakdown struct {
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

	AnalysisResponse struct {
		ID             string         `json:"id"`
		PropertyID     string         `json:"property_id"`
		ScoreTotal     float64        `json:"score_total"`
		ScoreBreakdown ScoreBreakdown `json:"score_breakdown"`
		Reasons        []string       `json:"reasons"`
		AnalyzedAt     time.Time      `json:"analyzed_at"`
		CreatedAt      time.Time      `json:"created_at"`
		UpdatedAt      time.Time      `json:"updated_at"`
	}
)
