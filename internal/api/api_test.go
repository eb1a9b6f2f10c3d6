package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gng-archive-api/internal/api"
	"github.com/gng-archive-api/internal/config"
	"github.com/gng-archive-api/internal/mocks"
	"github.com/gng-archive-api/internal/models"
	"github.com/gng-archive-api/internal/realtime"
	"github.com/gng-archive-api/internal/service"
	"github.com/rs/zerolog"
)

type apiHarness struct {
	router  *gin.Engine
	debunks *mocks.MockDebunkRepository
	pending *mocks.MockPendingRepository
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()

	repos, debunks, pending := mocks.NewMockRepositories()

	cfg := &config.Config{}
	cfg.Server.PublicBaseURL = "https://gng.test"
	cfg.Storage.UploadDir = t.TempDir()
	cfg.Storage.MaxUploadSize = 1024 * 1024

	hub := realtime.NewHub(zerolog.Nop())
	services := service.NewServices(
		repos,
		mocks.NewMockEvidenceStore(),
		&mocks.MockTranslator{},
		mocks.NewMockArchiver(),
		hub,
		cfg,
		zerolog.Nop(),
	)

	return &apiHarness{
		router:  api.NewRouter(services, hub, cfg, zerolog.Nop()),
		debunks: debunks,
		pending: pending,
	}
}

func (h *apiHarness) do(t *testing.T, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *apiHarness) doJSON(t *testing.T, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			t.Fatalf("failed to encode payload: %v", err)
		}
	}
	return h.do(t, method, path, &buf, "application/json")
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := newAPIHarness(t)

	w := h.do(t, http.MethodGet, "/health", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var body map[string]interface{}
	decodeBody(t, w, &body)
	if body["status"] != "healthy" {
		t.Errorf("Unexpected health payload: %v", body)
	}
}

func TestListRecords(t *testing.T) {
	h := newAPIHarness(t)
	ctx := context.Background()

	h.debunks.Create(ctx, &models.Debunk{Title: "First rumour", Slug: "first", Category: "Politics"})
	h.debunks.Create(ctx, &models.Debunk{Title: "Second rumour", Slug: "second", Category: "Health"})

	w := h.do(t, http.MethodGet, "/v1/records", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var page struct {
		Records []models.Debunk `json:"records"`
		Total   int             `json:"total"`
	}
	decodeBody(t, w, &page)
	if page.Total != 2 || len(page.Records) != 2 {
		t.Errorf("Expected 2 records, got total=%d len=%d", page.Total, len(page.Records))
	}
}

func TestListRecords_SearchAndCategory(t *testing.T) {
	h := newAPIHarness(t)
	ctx := context.Background()

	h.debunks.Create(ctx, &models.Debunk{Title: "Election deepfake", Slug: "a", Category: "Politics"})
	h.debunks.Create(ctx, &models.Debunk{Title: "Vaccine rumour", Slug: "b", Category: "Health"})

	w := h.do(t, http.MethodGet, "/v1/records?q=deepfake&category=Politics", nil, "")
	var page struct {
		Records []models.Debunk `json:"records"`
		Total   int             `json:"total"`
	}
	decodeBody(t, w, &page)
	if page.Total != 1 || page.Records[0].Title != "Election deepfake" {
		t.Errorf("Unexpected search result: %+v", page)
	}

	// "All" is a reserved category meaning no filter.
	w = h.do(t, http.MethodGet, "/v1/records?category=All", nil, "")
	decodeBody(t, w, &page)
	if page.Total != 2 {
		t.Errorf("Category All should bypass filtering, got %d", page.Total)
	}
}

func TestListRecords_BadQueryParams(t *testing.T) {
	h := newAPIHarness(t)

	for _, path := range []string{
		"/v1/records?published=maybe",
		"/v1/records?page=0",
		"/v1/records?per_page=500",
	} {
		if w := h.do(t, http.MethodGet, path, nil, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
}

func TestGetRecord_NotFound(t *testing.T) {
	h := newAPIHarness(t)

	w := h.do(t, http.MethodGet, "/v1/records/missing", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestCreateRecord_JSON(t *testing.T) {
	h := newAPIHarness(t)

	w := h.doJSON(t, http.MethodPost, "/v1/records", map[string]interface{}{
		"title":           "Manually archived rumour",
		"summary":         "It is fabricated.",
		"severity":        "high",
		"occurrence_date": "2026-05-01",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var d models.Debunk
	decodeBody(t, w, &d)
	if !d.IsPublished {
		t.Error("Created record should be published")
	}
	if d.Method != models.DefaultMethod {
		t.Errorf("Expected default method, got %q", d.Method)
	}
}

func TestCreateRecord_DuplicateTitleConflict(t *testing.T) {
	h := newAPIHarness(t)
	ctx := context.Background()

	h.debunks.Create(ctx, &models.Debunk{Title: "Already archived", Slug: "already"})

	w := h.doJSON(t, http.MethodPost, "/v1/records", map[string]interface{}{
		"title":   "already ARCHIVED",
		"summary": "Summary.",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateRecord_ValidationError(t *testing.T) {
	h := newAPIHarness(t)

	w := h.doJSON(t, http.MethodPost, "/v1/records", map[string]interface{}{
		"title":           "Bad date",
		"summary":         "Summary.",
		"occurrence_date": "01/05/2026",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]interface{}
	decodeBody(t, w, &body)
	if body["field"] != "occurrence_date" {
		t.Errorf("Expected field occurrence_date in error, got %v", body)
	}
}

func TestCreateRecord_MultipartWithEvidence(t *testing.T) {
	h := newAPIHarness(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("title", "Record with snapshot")
	mw.WriteField("summary", "Summary.")
	fw, err := mw.CreateFormFile("evidence", "proof.png")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("fake-image-bytes"))
	mw.Close()

	w := h.do(t, http.MethodPost, "/v1/records", &buf, mw.FormDataContentType())
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var d models.Debunk
	decodeBody(t, w, &d)
	if !strings.Contains(d.MediaURL, "proof.png") {
		t.Errorf("Expected evidence URL on record, got %q", d.MediaURL)
	}
}

func TestUpdateRecord(t *testing.T) {
	h := newAPIHarness(t)
	ctx := context.Background()

	h.debunks.Create(ctx, &models.Debunk{
		ID: "rec-1", Title: "Old title", Slug: "old-title-1", IsPublished: true,
	})

	w := h.doJSON(t, http.MethodPut, "/v1/records/rec-1", map[string]interface{}{
		"title":   "Corrected title",
		"summary": "Corrected summary.",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var d models.Debunk
	decodeBody(t, w, &d)
	if d.Title != "Corrected title" {
		t.Errorf("Unexpected title %q", d.Title)
	}
	if d.Slug != "old-title-1" {
		t.Errorf("Update must not change the slug, got %q", d.Slug)
	}
}

func TestTogglePublish(t *testing.T) {
	h := newAPIHarness(t)
	ctx := context.Background()

	h.debunks.Create(ctx, &models.Debunk{ID: "rec-1", Title: "Toggle me", IsPublished: true})

	w := h.do(t, http.MethodPost, "/v1/records/rec-1/publish", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body struct {
		IsPublished bool `json:"is_published"`
	}
	decodeBody(t, w, &body)
	if body.IsPublished {
		t.Error("Expected toggle to unpublish")
	}
}

func TestDeleteRecord(t *testing.T) {
	h := newAPIHarness(t)
	ctx := context.Background()

	h.debunks.Create(ctx, &models.Debunk{ID: "rec-1", Title: "Delete me"})

	w := h.do(t, http.MethodDelete, "/v1/records/rec-1", nil, "")
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", w.Code)
	}
	if len(h.debunks.Records) != 0 {
		t.Error("Record should be gone")
	}
}

func TestPendingLifecycle(t *testing.T) {
	h := newAPIHarness(t)

	// Submit a candidate.
	w := h.doJSON(t, http.MethodPost, "/v1/pending", map[string]interface{}{
		"title":       "Scraped rumour",
		"summary":     "From the scraper.",
		"source_link": "https://rumorscanner.com/report/9",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created models.PendingScrape
	decodeBody(t, w, &created)
	if created.ID == "" {
		t.Fatal("Submission should return an assigned ID")
	}

	// It shows in the inbox.
	w = h.do(t, http.MethodGet, "/v1/pending", nil, "")
	var inbox struct {
		Pending []models.PendingScrape `json:"pending"`
		Count   int                    `json:"count"`
	}
	decodeBody(t, w, &inbox)
	if inbox.Count != 1 {
		t.Fatalf("Expected 1 inbox candidate, got %d", inbox.Count)
	}

	// Open the review draft.
	w = h.do(t, http.MethodGet, "/v1/pending/"+created.ID+"/review", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var draft models.ReviewDraft
	decodeBody(t, w, &draft)
	if draft.Verdict != models.DefaultVerdict {
		t.Errorf("Draft should carry defaults, got verdict %q", draft.Verdict)
	}
	if draft.Source != "Rumour Scanner" {
		t.Errorf("Draft should resolve the source name, got %q", draft.Source)
	}

	// Promote it.
	w = h.doJSON(t, http.MethodPost, "/v1/pending/"+created.ID+"/promote", map[string]interface{}{
		"title":   draft.Title,
		"summary": draft.Summary,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Inbox is empty again.
	w = h.do(t, http.MethodGet, "/v1/pending", nil, "")
	decodeBody(t, w, &inbox)
	if inbox.Count != 0 {
		t.Errorf("Expected empty inbox after promotion, got %d", inbox.Count)
	}
}

func TestRejectPending(t *testing.T) {
	h := newAPIHarness(t)
	ctx := context.Background()

	h.pending.Create(ctx, &models.PendingScrape{ID: "pend-1", Title: "Reject me"})

	w := h.do(t, http.MethodDelete, "/v1/pending/pend-1", nil, "")
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", w.Code)
	}
	if len(h.pending.Candidates) != 0 {
		t.Error("Candidate should be gone")
	}
}

func TestSubmitPending_MissingTitle(t *testing.T) {
	h := newAPIHarness(t)

	w := h.doJSON(t, http.MethodPost, "/v1/pending", map[string]interface{}{
		"summary": "No title here",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestExportCSV(t *testing.T) {
	h := newAPIHarness(t)
	ctx := context.Background()

	h.debunks.Create(ctx, &models.Debunk{
		ID: "e1", Title: `Breaking, "huge" news`, Verdict: "Fake",
		OccurrenceDate: "2026-01-05", Category: "Politics",
		Source: "Rumour Scanner", Summary: "Summary.", Slug: "e1",
	})

	w := h.do(t, http.MethodGet, "/v1/export", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/csv") {
		t.Errorf("Expected CSV content type, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "gng_archive_export_") {
		t.Errorf("Expected attachment filename, got %q", cd)
	}
	body := w.Body.String()
	if !strings.HasPrefix(body, "ID,Title,Verdict,Date,Category,Source,Summary") {
		t.Errorf("Unexpected CSV header: %q", body)
	}
	if !strings.Contains(body, `"Breaking, ""huge"" news"`) {
		t.Errorf("CSV quoting broken: %q", body)
	}
}

func TestFeedEndpoint(t *testing.T) {
	h := newAPIHarness(t)
	ctx := context.Background()

	h.debunks.Create(ctx, &models.Debunk{Title: "Public record", Slug: "public-1", IsPublished: true})
	h.debunks.Create(ctx, &models.Debunk{Title: "Hidden record", Slug: "hidden-1", IsPublished: false})

	w := h.do(t, http.MethodGet, "/feed.json", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "s-maxage=3600") {
		t.Errorf("Expected cache header, got %q", cc)
	}

	var feed models.Feed
	decodeBody(t, w, &feed)
	if len(feed.Items) != 1 || feed.Items[0].ID != "public-1" {
		t.Errorf("Feed should list only published records, got %+v", feed.Items)
	}
}

func TestTimelineEndpoint(t *testing.T) {
	h := newAPIHarness(t)
	ctx := context.Background()

	h.debunks.Create(ctx, &models.Debunk{
		Title: "Recent", Slug: "recent", IsPublished: true,
		OccurrenceDate: timelineToday(), Severity: "critical",
	})

	w := h.do(t, http.MethodGet, "/v1/timeline", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Series []struct {
			Date     string `json:"date"`
			Total    int    `json:"total"`
			Critical int    `json:"critical"`
		} `json:"series"`
		Max int `json:"max"`
	}
	decodeBody(t, w, &body)
	if len(body.Series) != 30 {
		t.Fatalf("Expected 30 buckets, got %d", len(body.Series))
	}
	last := body.Series[len(body.Series)-1]
	if last.Total != 1 || last.Critical != 1 {
		t.Errorf("Expected today's bucket to hold the record, got %+v", last)
	}
	if body.Max != 1 {
		t.Errorf("Expected max 1, got %d", body.Max)
	}
}

func TestTimelineEndpoint_BadParams(t *testing.T) {
	h := newAPIHarness(t)

	for _, path := range []string{
		"/v1/timeline?days=0",
		"/v1/timeline?days=400",
		"/v1/timeline?field=deleted",
	} {
		if w := h.do(t, http.MethodGet, path, nil, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
}

func TestStatsEndpoint(t *testing.T) {
	h := newAPIHarness(t)
	ctx := context.Background()

	h.debunks.Create(ctx, &models.Debunk{Title: "A", Slug: "a", Country: "Bangladesh", Source: "Dismislab"})

	w := h.do(t, http.MethodGet, "/v1/stats", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var stats models.ArchiveStats
	decodeBody(t, w, &stats)
	if stats.Total != 1 || stats.Countries != 1 || stats.Partners != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestEventsEndpoint_UnknownTable(t *testing.T) {
	h := newAPIHarness(t)

	w := h.do(t, http.MethodGet, "/v1/events?table=users", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown table, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newAPIHarness(t)

	w := h.do(t, http.MethodOptions, "/v1/records", nil, "")
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected permissive CORS header")
	}
}

func timelineToday() string {
	return time.Now().Format("2006-01-02")
}
