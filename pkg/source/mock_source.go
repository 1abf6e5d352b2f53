package source

import (
	"brrrr-analyzer/domain"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type mockSource struct{}

// NewMockSource returns the deterministic reference source: the same query and
// max always yield the same listings.
func NewMockSource() CandidateSource {
	return &mockSource{}
}

func (s *mockSource) Fetch(_ context.Context, query string, max int) ([]domain.Candidate, error) {
	city, state, zip := "Newark", "NJ", "07102"
	if strings.Contains(strings.ToLower(query), "staten") {
		city, state, zip = "Staten Island", "NY", "10301"
	}
	title := cases.Title(language.English).String(query)

	items := make([]domain.Candidate, 0, max)
	for i := 0; i < max; i++ {
		sum := md5.Sum([]byte(fmt.Sprintf("%s:%d", query, i)))
		h := hex.EncodeToString(sum[:])[:8]

		price := float64(250000 + i*25000)
		beds := 2 + i%4
		baths := 2.0
		if beds <= 2 {
			baths = 1.0
		}
		sqft := 900 + i*120
		description := fmt.Sprintf("Mock listing for query='%s'", query)

		items = append(items, domain.Candidate{
			ListingSource: domain.ListingSourceMock,
			ListingURL:    "https://example.com/" + h,
			Address:       fmt.Sprintf("%d %s St", 100+i, title),
			City:          city,
			State:         state,
			Zip:           zip,
			Price:         &price,
			Beds:          &beds,
			Baths:         &baths,
			Sqft:          &sqft,
			Description:   &description,
		})
	}
	return items, nil
}
