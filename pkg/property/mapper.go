package property

import (
	"brrrr-analyzer/domain"
	"brrrr-analyzer/entities"
)

func ToPropertyResponse(p *entities.Property) domain.PropertyResponse {
	return domain.PropertyResponse{
		ID:            p.ID.String(),
		ListingSource: p.ListingSource,
		ListingURL:    p.ListingURL,
		Address:       p.Address,
		City:          p.City,
		State:         p.State,
		Zip:           p.Zip,
		Price:         p.Price,
		Beds:          p.Beds,
		Baths:         p.Baths,
		Sqft:          p.Sqft,
		Description:   p.Description,
		ScrapedAt:     p.ScrapedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func ToAnalysisResponse(a *entities.AnalysisResult) *domain.AnalysisResponse {
	if a == nil {
		return nil
	}
	reasons := []string(a.Reasons)
	if reasons == nil {
		reasons = []string{}
	}
	return &domain.AnalysisResponse{
		ID:             a.ID.String(),
		PropertyID:     a.PropertyID.String(),
		ScoreTotal:     a.ScoreTotal,
		ScoreBreakdown: domain.ScoreBreakdown(a.ScoreBreakdown.Data()),
		Reasons:        reasons,
		AnalyzedAt:     a.AnalyzedAt,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
