package handlers

import (
	"brrrr-analyzer/domain"
	"brrrr-analyzer/internal/utils"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScrapeService struct {
	runReq  *domain.RunScrapeRequest
	runResp *domain.RunScrapeResponse
	runErr  error
	getErr  error
}

func (f *fakeScrapeService) RunScrape(_ context.Context, req domain.RunScrapeRequest) (*domain.RunScrapeResponse, error) {
	f.runReq = &req
	if f.runErr != nil {
		return nil, f.runErr
	}
	return f.runResp, nil
}

func (f *fakeScrapeService) ListRuns(context.Context) (*domain.ScrapeRunListResponse, error) {
	return &domain.ScrapeRunListResponse{Items: []domain.ScrapeRunSummary{}}, nil
}

func (f *fakeScrapeService) GetRun(_ context.Context, id string) (*domain.ScrapeRunDetail, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &domain.ScrapeRunDetail{ScrapeRunSummary: domain.ScrapeRunSummary{ID: id}}, nil
}

type fakePropertyService struct {
	filter    domain.PropertyFilter
	detailErr error
	deleteErr error
	deleted   string
}

func (f *fakePropertyService) ListProperties(_ context.Context, filter domain.PropertyFilter) (domain.PropertyListResponse, error) {
	f.filter = filter
	return domain.PropertyListResponse{Items: []domain.PropertyResponse{}, Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (f *fakePropertyService) GetPropertyDetail(_ context.Context, id string) (domain.PropertyDetailResponse, error) {
	if f.detailErr != nil {
		return domain.PropertyDetailResponse{}, f.detailErr
	}
	return domain.PropertyDetailResponse{PropertyResponse: domain.PropertyResponse{ID: id}, Photos: []domain.PhotoResponse{}}, nil
}

func (f *fakePropertyService) DeleteProperty(_ context.Context, id string) error {
	f.deleted = id
	return f.deleteErr
}

type fakeAnalysisService struct {
	err error
}

func (f *fakeAnalysisService) AnalyzeProperty(_ context.Context, id string) (*domain.AnalysisResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.AnalysisResponse{ID: "a1", PropertyID: id, ScoreTotal: 55.58, Reasons: []string{"Bedrooms: 3"}}, nil
}

func newTestApp(scrapeSvc *fakeScrapeService, propertySvc *fakePropertyService, analysisSvc *fakeAnalysisService) *fiber.App {
	utils.InitValidator()
	app := fiber.New()

	sh := NewScrapeHandler(scrapeSvc, utils.Validate)
	app.Post("/scrape/run", sh.RunScrape)
	app.Get("/scrape/runs", sh.ListRuns)
	app.Get("/scrape/runs/:id", sh.GetRun)

	ph := NewPropertyHandler(propertySvc, analysisSvc)
	app.Get("/properties", ph.GetProperties)
	app.Get("/properties/:id", ph.GetPropertyDetail)
	app.Post("/properties/:id/analyze", ph.AnalyzeProperty)
	app.Delete("/properties/:id", ph.DeleteProperty)
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func errorField(t *testing.T, body map[string]any, key string) any {
	t.Helper()
	e, ok := body["error"].(map[string]any)
	require.True(t, ok, "missing error envelope: %v", body)
	return e[key]
}

func TestRunScrapeHandler(t *testing.T) {
	svc := &fakeScrapeService{runResp: &domain.RunScrapeResponse{RunID: "r1", Status: "succeeded", Query: "newark", MaxResults: 25}}
	app := newTestApp(svc, &fakePropertyService{}, &fakeAnalysisService{})

	status, body := do(t, app, http.MethodPost, "/scrape/run", `{"query":"newark","max_results":"25"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "r1", body["run_id"])
	require.NotNil(t, svc.runReq)
	assert.Equal(t, domain.IntParam{Value: 25, Set: true}, svc.runReq.MaxResults)
}

func TestRunScrapeHandlerRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"non-integer max_results", `{"query":"newark","max_results":"ten"}`},
		{"fractional max_results", `{"query":"newark","max_results":2.5}`},
		{"missing query", `{"max_results":5}`},
		{"empty body", ``},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeScrapeService{}
			app := newTestApp(svc, &fakePropertyService{}, &fakeAnalysisService{})

			status, body := do(t, app, http.MethodPost, "/scrape/run", tc.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, domain.CodeInvalidArgument, errorField(t, body, "code"))
			assert.Nil(t, svc.runReq)
		})
	}
}

func TestRunScrapeHandlerServiceValidation(t *testing.T) {
	svc := &fakeScrapeService{runErr: domain.ErrMaxResultsRange}
	app := newTestApp(svc, &fakePropertyService{}, &fakeAnalysisService{})

	status, body := do(t, app, http.MethodPost, "/scrape/run", `{"query":"newark","max_results":500}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, errorField(t, body, "message"), "between 1 and 200")
}

func TestRunScrapeHandlerFatalHidesCause(t *testing.T) {
	svc := &fakeScrapeService{runErr: &domain.FatalRunError{RunID: "r9", Cause: errors.New("dial tcp 10.0.0.5:5432: connection refused")}}
	app := newTestApp(svc, &fakePropertyService{}, &fakeAnalysisService{})

	status, body := do(t, app, http.MethodPost, "/scrape/run", `{"query":"newark","max_results":5}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, domain.CodeInternal, errorField(t, body, "code"))
	assert.Equal(t, domain.MessageFailedRunScrape, errorField(t, body, "message"))
	assert.Equal(t, map[string]any{"run_id": "r9"}, errorField(t, body, "details"))

	raw, _ := json.Marshal(body)
	assert.NotContains(t, string(raw), "connection refused")
}

func TestGetRunHandlerNotFound(t *testing.T) {
	svc := &fakeScrapeService{getErr: domain.ErrScrapeRunNotFound}
	app := newTestApp(svc, &fakePropertyService{}, &fakeAnalysisService{})

	status, body := do(t, app, http.MethodGet, "/scrape/runs/missing", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, domain.CodeNotFound, errorField(t, body, "code"))
}

func TestListRunsHandler(t *testing.T) {
	app := newTestApp(&fakeScrapeService{}, &fakePropertyService{}, &fakeAnalysisService{})

	status, body := do(t, app, http.MethodGet, "/scrape/runs", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{}, body["items"])
}

func TestGetPropertiesParsesQuery(t *testing.T) {
	svc := &fakePropertyService{}
	app := newTestApp(&fakeScrapeService{}, svc, &fakeAnalysisService{})

	status, body := do(t, app, http.MethodGet, "/properties?page=0&page_size=500&q=%20newark%20&min_price=100000&max_price=300000.5&min_beds=2", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, svc.filter.Page)
	assert.Equal(t, domain.MaxPageSize, svc.filter.PageSize)
	assert.Equal(t, "newark", svc.filter.Q)
	require.NotNil(t, svc.filter.MinPrice)
	assert.Equal(t, 100000.0, *svc.filter.MinPrice)
	require.NotNil(t, svc.filter.MaxPrice)
	assert.Equal(t, 300000.5, *svc.filter.MaxPrice)
	assert.Equal(t, 2, svc.filter.MinBeds)
	assert.Equal(t, float64(domain.MaxPageSize), body["page_size"])
}

func TestGetPropertiesDefaults(t *testing.T) {
	svc := &fakePropertyService{}
	app := newTestApp(&fakeScrapeService{}, svc, &fakeAnalysisService{})

	status, _ := do(t, app, http.MethodGet, "/properties", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, domain.PropertyFilter{Page: 1, PageSize: 20}, svc.filter)
}

func TestGetPropertiesRejectsNonNumeric(t *testing.T) {
	app := newTestApp(&fakeScrapeService{}, &fakePropertyService{}, &fakeAnalysisService{})

	status, body := do(t, app, http.MethodGet, "/properties?page=two", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, errorField(t, body, "message"), "'page' must be an integer")

	status, body = do(t, app, http.MethodGet, "/properties?min_price=cheap", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, errorField(t, body, "message"), "'min_price' must be a number")
}

func TestPropertyDetailHandler(t *testing.T) {
	svc := &fakePropertyService{}
	app := newTestApp(&fakeScrapeService{}, svc, &fakeAnalysisService{})

	status, body := do(t, app, http.MethodGet, "/properties/p1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "p1", body["id"])
	assert.Nil(t, body["analysis"])

	svc.detailErr = domain.ErrPropertyNotFound
	status, body = do(t, app, http.MethodGet, "/properties/p1", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, domain.CodeNotFound, errorField(t, body, "code"))
}

func TestAnalyzePropertyHandler(t *testing.T) {
	analysisSvc := &fakeAnalysisService{}
	app := newTestApp(&fakeScrapeService{}, &fakePropertyService{}, analysisSvc)

	status, body := do(t, app, http.MethodPost, "/properties/p1/analyze", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "p1", body["property_id"])
	assert.Equal(t, 55.58, body["score_total"])

	analysisSvc.err = domain.ErrPropertyNotFound
	status, _ = do(t, app, http.MethodPost, "/properties/p1/analyze", "")
	assert.Equal(t, http.StatusNotFound, status)

	analysisSvc.err = errors.New("pq: deadlock detected")
	status, body = do(t, app, http.MethodPost, "/properties/p1/analyze", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Nil(t, errorField(t, body, "details"))
}

func TestDeletePropertyHandler(t *testing.T) {
	svc := &fakePropertyService{}
	app := newTestApp(&fakeScrapeService{}, svc, &fakeAnalysisService{})

	status, body := do(t, app, http.MethodDelete, "/properties/p1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "p1", svc.deleted)
	assert.Equal(t, domain.MessageSuccessDeleteProperty, body["message"])

	svc.deleteErr = domain.ErrPropertyNotFound
	status, _ = do(t, app, http.MethodDelete, "/properties/p1", "")
	assert.Equal(t, http.StatusNotFound, status)
}
