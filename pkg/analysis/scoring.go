package analysis

import (
	"brrrr-analyzer/domain"
	"fmt"
	"math"
	"strings"
)

const (
	rehabRateHeavy = 35.0
	rehabRateLight = 20.0
	rehabPriceRate = 0.08
	arvUplift      = 1.10
	rentFloor      = 1200.0
	rentPerBed     = 650.0
	rentPerSqft    = 0.40

	rentRatioWeight = 150.0
	rentRatioCap    = 45.0
	arvRatioWeight  = 140.0
	arvRatioCap     = 35.0
	bedWeight       = 2.0
	bedCap          = 10.0

	missingPricePenalty = 15.0
	missingSqftPenalty  = 5.0

	minScore = 0.0
	maxScore = 100.0
)

var rehabKeywords = []string{"fixer", "rehab", "needs", "tlc"}

type (
	ScoreInput struct {
		Price       *float64
		Beds        *int
		Sqft        *int
		Description *string
	}

	ScoreResult struct {
		Total     float64
		Breakdown domain.ScoreBreakdown
		Reasons   []string
	}
)

// Score derives the investment score of a property. It is a pure function of
// its input: no clock, no I/O, same input gives the same bits out.
func Score(in ScoreInput) ScoreResult {
	b := domain.ScoreBreakdown{
		Price: in.Price,
		Beds:  in.Beds,
		Sqft:  in.Sqft,
	}

	b.RehabRatePerSqft = rehabRateLight
	if in.Description != nil && needsRehab(*in.Description) {
		b.RehabRatePerSqft = rehabRateHeavy
	}

	switch {
	case in.Sqft != nil:
		b.RehabEstimate = ptr(float64(*in.Sqft) * b.RehabRatePerSqft)
	case in.Price != nil:
		b.RehabEstimate = ptr(*in.Price * rehabPriceRate)
	}

	if in.Price != nil && b.RehabEstimate != nil {
		b.ARVEstimate = ptr((*in.Price + *b.RehabEstimate) * arvUplift)
	}

	if in.Beds != nil || in.Sqft != nil {
		beds, sqft := 0.0, 0.0
		if in.Beds != nil {
			beds = float64(*in.Beds)
		}
		if in.Sqft != nil {
			sqft = float64(*in.Sqft)
		}
		b.RentEstimate = ptr(math.Max(rentFloor, beds*rentPerBed+sqft*rentPerSqft))
	}

	// A zero price has no meaningful ratio.
	if in.Price != nil && *in.Price > 0 {
		if b.RentEstimate != nil {
			b.RentToPrice = ptr(*b.RentEstimate * 12 / *in.Price)
		}
		if b.ARVEstimate != nil {
			b.ARVToPrice = ptr(*b.ARVEstimate / *in.Price)
		}
	}

	total := 0.0
	reasons := make([]string, 0, 5)

	if b.RentToPrice != nil {
		total += math.Min(rentRatioCap, *b.RentToPrice*rentRatioWeight)
		reasons = append(reasons, fmt.Sprintf("Rent-to-price ratio: %.3f", *b.RentToPrice))
	}
	if b.ARVToPrice != nil {
		total += math.Min(arvRatioCap, math.Max(0, (*b.ARVToPrice-1.0)*arvRatioWeight))
		reasons = append(reasons, fmt.Sprintf("ARV-to-price ratio: %.3f", *b.ARVToPrice))
	}
	if in.Beds != nil {
		total += math.Min(bedCap, float64(*in.Beds)*bedWeight)
		reasons = append(reasons, fmt.Sprintf("Bedrooms: %d", *in.Beds))
	}
	if in.Price == nil {
		total -= missingPricePenalty
		reasons = append(reasons, "Missing price")
	}
	if in.Sqft == nil {
		total -= missingSqftPenalty
		reasons = append(reasons, "Missing sqft")
	}

	return ScoreResult{
		Total:     round2(clamp(total, minScore, maxScore)),
		Breakdown: b,
		Reasons:   reasons,
	}
}

func needsRehab(description string) bool {
	text := strings.ToLower(description)
	for _, kw := range rehabKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// round2 matches the two-decimal precision of the score_total column.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr(v float64) *float64 {
	return &v
}
