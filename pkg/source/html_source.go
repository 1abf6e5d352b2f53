package source

import (
	"brrrr-analyzer/domain"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	listingSourceHTML = "html"
	userAgent         = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

var (
	numberPattern  = regexp.MustCompile(`[\d.,]+`)
	addressPattern = regexp.MustCompile(`^(.*?),\s*([^,]+),\s*([A-Z]{2})\s+(\d{5})`)
)

type htmlSource struct {
	baseURL string
	client  *http.Client
}

// NewHTMLSource scrapes a search results page at {baseURL}/{query} and reads
// one candidate per property card.
func NewHTMLSource(baseURL string, client *http.Client) CandidateSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &htmlSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (s *htmlSource) Fetch(ctx context.Context, query string, max int) ([]domain.Candidate, error) {
	pageURL := s.baseURL + "/" + url.PathEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("html source: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("html source: fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("html source: fetch %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("html source: parse %s: %w", pageURL, err)
	}

	base, _ := url.Parse(pageURL)
	items := make([]domain.Candidate, 0, max)
	doc.Find(".component_property-card").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if len(items) >= max {
			return false
		}
		if c, ok := parseCard(card, base); ok {
			items = append(items, c)
		}
		return true
	})
	return items, nil
}

func parseCard(card *goquery.Selection, base *url.URL) (domain.Candidate, bool) {
	href, ok := card.Find("a").First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return domain.Candidate{}, false
	}
	link, err := base.Parse(strings.TrimSpace(href))
	if err != nil {
		return domain.Candidate{}, false
	}

	address := strings.TrimSpace(card.Find(".address").First().Text())
	if address == "" {
		return domain.Candidate{}, false
	}

	c := domain.Candidate{
		ListingSource: listingSourceHTML,
		ListingURL:    link.String(),
		Address:       address,
	}
	if m := addressPattern.FindStringSubmatch(address); m != nil {
		c.Address, c.City, c.State, c.Zip = strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), m[3], m[4]
	}

	c.Price = parseFloat(card.Find(".price").First().Text())
	c.Beds = parseInt(card.Find(".property-beds").First().Text())
	c.Baths = parseFloat(card.Find(".property-baths").First().Text())
	c.Sqft = parseInt(card.Find(".property-sqft").First().Text())

	if desc := strings.TrimSpace(card.Find(".description").First().Text()); desc != "" {
		c.Description = &desc
	}

	card.Find("img").Each(func(_ int, img *goquery.Selection) {
		if src, ok := img.Attr("src"); ok && strings.TrimSpace(src) != "" {
			if u, err := base.Parse(strings.TrimSpace(src)); err == nil {
				c.PhotoURLs = append(c.PhotoURLs, u.String())
			}
		}
	})

	return c, true
}

func parseFloat(text string) *float64 {
	raw := numberPattern.FindString(text)
	raw = strings.ReplaceAll(raw, ",", "")
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(text string) *int {
	f := parseFloat(text)
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}
