package seed

import (
	"brrrr-analyzer/entities"
	"brrrr-analyzer/pkg/property"
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

type demoProperty struct {
	url, address, city, state, zip string
	price                          float64
	beds                           int
	baths                          float64
	sqft                           int
	description                    string
	photos                         int
}

var demoProperties = []demoProperty{
	{"https://example.com/listing/1001", "123 Main St", "Staten Island", "NY", "10301", 525000, 3, 2.0, 1450, "Solid brick home near ferry. Needs light rehab.", 3},
	{"https://example.com/listing/1002", "45 Bay St", "Staten Island", "NY", "10301", 610000, 4, 2.5, 1800, "Large single-family with basement unit.", 4},
	{"https://example.com/listing/1003", "789 Forest Ave", "Staten Island", "NY", "10310", 475000, 2, 1.0, 1100, "Fixer-upper with strong rental upside.", 2},
	{"https://example.com/listing/2001", "12 Maple St", "Newark", "NJ", "07102", 390000, 3, 1.5, 1350, "Cash-flow oriented BRRR candidate.", 3},
	{"https://example.com/listing/2002", "88 Market St", "Newark", "NJ", "07105", 425000, 4, 2.0, 1600, "Two-unit property with separate entrances.", 4},
	{"https://example.com/listing/3001", "301 Oak Dr", "Scranton", "PA", "18503", 265000, 3, 1.0, 1200, "Low purchase price, strong rent ratios.", 2},
	{"https://example.com/listing/3002", "77 Pine St", "Scranton", "PA", "18504", 295000, 4, 2.0, 1550, "Value-add opportunity near downtown.", 3},
	{"https://example.com/listing/4001", "9 Cedar Ln", "Buffalo", "NY", "14201", 215000, 3, 1.0, 1150, "Classic BRRR market with strong rents.", 2},
}

// Seed inserts the demo listings that are not already present and returns how
// many were added.
func Seed(ctx context.Context, repo property.PropertyRepository) (int, error) {
	inserted := 0
	for _, d := range demoProperties {
		exists, err := repo.ExistsByListingURL(ctx, d.url)
		if err != nil {
			return inserted, err
		}
		if exists {
			continue
		}

		p := d.toEntity()
		if err := repo.CreateProperty(ctx, p); err != nil {
			return inserted, fmt.Errorf("seed %s: %w", d.url, err)
		}
		inserted++
		log.Infow("seeded property", "property_id", p.ID, "listing_url", d.url)
	}
	return inserted, nil
}

func (d demoProperty) toEntity() *entities.Property {
	id := uuid.New()
	price, beds, baths, sqft, description := d.price, d.beds, d.baths, d.sqft, d.description

	photos := make([]*entities.PropertyPhoto, 0, d.photos)
	for i := 1; i <= d.photos; i++ {
		photos = append(photos, &entities.PropertyPhoto{
			PhotoURL:  fmt.Sprintf("https://picsum.photos/seed/brrrr-%s-%d/800/600", id, i),
			SortOrder: i,
		})
	}

	return &entities.Property{
		ID:            id,
		ListingSource: "manual",
		ListingURL:    d.url,
		Address:       d.address,
		City:          d.city,
		State:         d.state,
		Zip:           d.zip,
		Price:         &price,
		Beds:          &beds,
		Baths:         &baths,
		Sqft:          &sqft,
		Description:   &description,
		Photos:        photos,
	}
}
