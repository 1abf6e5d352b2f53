// Package mock provides an in-memory PropertyRepository that honours the same
// uniqueness and cascade rules as the postgres schema.
package mock

import (
	"brrrr-analyzer/domain"
	"brrrr-analyzer/entities"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository struct {
	mu         sync.Mutex
	properties map[uuid.UUID]*entities.Property
	byURL      map[string]uuid.UUID
	photos     map[uuid.UUID][]*entities.PropertyPhoto
	analyses   map[uuid.UUID]*entities.AnalysisResult

	// Hooks let tests inject failures or interleavings.
	BeforeExists func(listingURL string)
	CreateErr    func(p *entities.Property) error
	Now          func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		properties: make(map[uuid.UUID]*entities.Property),
		byURL:      make(map[string]uuid.UUID),
		photos:     make(map[uuid.UUID][]*entities.PropertyPhoto),
		analyses:   make(map[uuid.UUID]*entities.AnalysisResult),
		Now:        func() time.Time { return time.Now().UTC() },
	}
}

func (r *Repository) GetPropertyByID(_ context.Context, id uuid.UUID) (*entities.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.properties[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *Repository) ExistsByListingURL(_ context.Context, listingURL string) (bool, error) {
	if r.BeforeExists != nil {
		r.BeforeExists(listingURL)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.byURL[listingURL]
	return ok, nil
}

func (r *Repository) CreateProperty(_ context.Context, p *entities.Property) error {
	if r.CreateErr != nil {
		if err := r.CreateErr(p); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byURL[p.ListingURL]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateListing, p.ListingURL)
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := r.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	for _, photo := range p.Photos {
		if photo.ID == uuid.Nil {
			photo.ID = uuid.New()
		}
		photo.PropertyID = p.ID
		cp := *photo
		r.photos[p.ID] = append(r.photos[p.ID], &cp)
	}

	stored := *p
	stored.Photos = nil
	r.properties[p.ID] = &stored
	r.byURL[p.ListingURL] = p.ID
	return nil
}

func (r *Repository) ListProperties(_ context.Context, filter domain.PropertyFilter) ([]*entities.Property, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entities.Property
	for _, p := range r.properties {
		if filter.Q != "" && !matchesText(p, filter.Q) {
			continue
		}
		if filter.MinPrice != nil && (p.Price == nil || *p.Price < *filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && (p.Price == nil || *p.Price > *filter.MaxPrice) {
			continue
		}
		if filter.MinBeds > 0 && (p.Beds == nil || *p.Beds < filter.MinBeds) {
			continue
		}
		cp := *p
		matched = append(matched, &cp)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func matchesText(p *entities.Property, q string) bool {
	q = strings.ToLower(q)
	for _, field := range []string{p.Address, p.City, p.State, p.Zip} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func (r *Repository) DeleteProperty(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.properties[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.photos, id)
	delete(r.analyses, id)
	delete(r.byURL, p.ListingURL)
	delete(r.properties, id)
	return nil
}

func (r *Repository) GetPhotos(_ context.Context, propertyID uuid.UUID) ([]*entities.PropertyPhoto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	photos := make([]*entities.PropertyPhoto, 0, len(r.photos[propertyID]))
	for _, photo := range r.photos[propertyID] {
		cp := *photo
		photos = append(photos, &cp)
	}
	sort.Slice(photos, func(i, j int) bool { return photos[i].SortOrder < photos[j].SortOrder })
	return photos, nil
}

func (r *Repository) GetAnalysisByPropertyID(_ context.Context, propertyID uuid.UUID) (*entities.AnalysisResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.analyses[propertyID]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

// PutAnalysis stores an analysis row, enforcing one row per property.
func (r *Repository) PutAnalysis(a *entities.AnalysisResult, allowReplace bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.properties[a.PropertyID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	if existing, ok := r.analyses[a.PropertyID]; ok && (!allowReplace || existing.ID != a.ID) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateAnalysis, a.PropertyID)
	}
	cp := *a
	r.analyses[a.PropertyID] = &cp
	return nil
}

// AnalysisCount returns the number of stored analysis rows for a property (0 or 1).
func (r *Repository) AnalysisCount(propertyID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.analyses[propertyID]; ok {
		return 1
	}
	return 0
}

func (r *Repository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.properties)
}

func (r *Repository) ListingURLs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	urls := make([]string, 0, len(r.byURL))
	for u := range r.byURL {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}
