package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"reflecto/internal/analytics"
	"reflecto/internal/database"
	"reflecto/internal/services"
)

func newE2EServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "reflecto.db"))
	if err != nil {
		t.Fatalf("new database: %v", err)
	}

	serviceManager := services.NewServiceManager(db, nil)
	httpServer := httptest.NewServer(New(serviceManager, "0").Handler())
	t.Cleanup(func() {
		httpServer.Close()
		_ = db.Close()
	})

	return httpServer
}

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	return out
}

func createEntry(t *testing.T, ts *httptest.Server, userUID string, mood, productivity int) database.Journal {
	t.Helper()
	resp := postJSON(t, ts.Client(), ts.URL+"/api/journals", services.JournalInput{
		UserUID:      userUID,
		Title:        "Test entry",
		Description:  "Plain day, nothing remarkable.",
		Mood:         mood,
		Productivity: productivity,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 creating journal, got %d", resp.StatusCode)
	}

	body := decodeJSON[struct {
		Journal database.Journal `json:"journal"`
	}](t, resp)
	return body.Journal
}

func TestJournalCRUDE2E(t *testing.T) {
	ts := newE2EServer(t)
	client := ts.Client()

	created := createEntry(t, ts, "u-e2e", 8, 6)
	if created.ID == 0 {
		t.Fatal("created journal has no id")
	}
	// No advisor configured: entries carry the neutral defaults.
	if created.Sentiment != database.SentimentNeutral || created.Sarcasm != database.SarcasmNotSarcastic {
		t.Errorf("unexpected stamps: sentiment=%q sarcasm=%q", created.Sentiment, created.Sarcasm)
	}

	listResp, err := client.Get(ts.URL + "/api/journals?user_uid=u-e2e")
	if err != nil {
		t.Fatalf("list journals: %v", err)
	}
	list := decodeJSON[struct {
		Count    int                `json:"count"`
		Journals []database.Journal `json:"journals"`
	}](t, listResp)
	if list.Count != 1 || len(list.Journals) != 1 {
		t.Fatalf("list = %+v, want one journal", list)
	}

	getResp, err := client.Get(fmt.Sprintf("%s/api/journals/%d", ts.URL, created.ID))
	if err != nil {
		t.Fatalf("get journal: %v", err)
	}
	got := decodeJSON[database.Journal](t, getResp)
	if got.ID != created.ID || got.Mood != 8 {
		t.Fatalf("get journal = %+v", got)
	}

	updatePayload, _ := json.Marshal(services.JournalInput{
		UserUID:      "u-e2e",
		Title:        "Test entry",
		Description:  "Plain day, nothing remarkable.",
		Mood:         3,
		Productivity: 4,
	})
	req, err := http.NewRequest(http.MethodPut, fmt.Sprintf("%s/api/journals/%d", ts.URL, created.ID), bytes.NewReader(updatePayload))
	if err != nil {
		t.Fatalf("build update request: %v", err)
	}
	updateResp, err := client.Do(req)
	if err != nil {
		t.Fatalf("update journal: %v", err)
	}
	if updateResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 updating journal, got %d", updateResp.StatusCode)
	}
	updateResp.Body.Close()

	req, err = http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/journals/%d", ts.URL, created.ID), nil)
	if err != nil {
		t.Fatalf("build delete request: %v", err)
	}
	deleteResp, err := client.Do(req)
	if err != nil {
		t.Fatalf("delete journal: %v", err)
	}
	if deleteResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 deleting journal, got %d", deleteResp.StatusCode)
	}
	deleteResp.Body.Close()

	missingResp, err := client.Get(fmt.Sprintf("%s/api/journals/%d", ts.URL, created.ID))
	if err != nil {
		t.Fatalf("get deleted journal: %v", err)
	}
	missingResp.Body.Close()
	if missingResp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for deleted journal, got %d", missingResp.StatusCode)
	}
}

func TestCreateJournalValidationE2E(t *testing.T) {
	ts := newE2EServer(t)

	resp := postJSON(t, ts.Client(), ts.URL+"/api/journals", services.JournalInput{
		UserUID:      "u-e2e",
		Title:        "Bad mood value",
		Description:  "x",
		Mood:         15,
		Productivity: 5,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for mood=15, got %d", resp.StatusCode)
	}
}

func TestTrendsEndpointE2E(t *testing.T) {
	ts := newE2EServer(t)
	client := ts.Client()

	createEntry(t, ts, "u-trends", 8, 6)

	resp, err := client.Get(ts.URL + "/api/analytics/trends?user_uid=u-trends&date_range=7d")
	if err != nil {
		t.Fatalf("get trends: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	trends := decodeJSON[analytics.TrendReport](t, resp)

	if trends.Range != "7d" {
		t.Errorf("range = %q, want 7d", trends.Range)
	}
	if trends.Timezone != "Asia/Kolkata" {
		t.Errorf("tz = %q, want Asia/Kolkata", trends.Timezone)
	}
	if len(trends.Series) != 7 {
		t.Fatalf("series length = %d, want 7", len(trends.Series))
	}

	// The entry was just written, so it lands on today: the series' last day.
	today := trends.Series[len(trends.Series)-1]
	if today.SentimentCounts.Total != 1 {
		t.Errorf("today's total = %d, want 1", today.SentimentCounts.Total)
	}
	if today.EnergyScore != 4.8 {
		t.Errorf("today's energy = %v, want 4.8", today.EnergyScore)
	}

	total := 0
	for _, day := range trends.Series {
		total += day.SentimentCounts.Total
	}
	if total != 1 {
		t.Errorf("series total entries = %d, want 1", total)
	}
}

func TestTrendsInvalidRangeE2E(t *testing.T) {
	ts := newE2EServer(t)

	resp, err := ts.Client().Get(ts.URL + "/api/analytics/trends?user_uid=u&date_range=90d")
	if err != nil {
		t.Fatalf("get trends: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad range, got %d", resp.StatusCode)
	}
}

func TestSummaryEndpointE2E(t *testing.T) {
	ts := newE2EServer(t)
	client := ts.Client()

	// Unknown user: a fully zero summary, not an error.
	resp, err := client.Get(ts.URL + "/api/analytics/summary?user_uid=u-empty")
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	empty := decodeJSON[analytics.Summary](t, resp)
	if empty.TotalEntries != 0 || empty.Streaks.Best != 0 || empty.Highlights != nil {
		t.Fatalf("empty summary = %+v", empty)
	}

	createEntry(t, ts, "u-sum", 8, 6)

	resp, err = client.Get(ts.URL + "/api/analytics/summary?user_uid=u-sum&date_range=30d")
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	summary := decodeJSON[analytics.Summary](t, resp)
	if summary.TotalEntries != 1 {
		t.Errorf("total_entries = %d, want 1", summary.TotalEntries)
	}
	if summary.Streaks.Current != 1 {
		t.Errorf("current streak = %d, want 1", summary.Streaks.Current)
	}
	if summary.Averages.Mood != 8 {
		t.Errorf("avg mood = %v, want 8", summary.Averages.Mood)
	}
	if summary.Highlights == nil {
		t.Error("highlights missing for a range with an entry")
	}
}

func TestMissingUserUIDE2E(t *testing.T) {
	ts := newE2EServer(t)

	for _, path := range []string{"/api/analytics/trends", "/api/analytics/summary", "/api/journals"} {
		resp, err := ts.Client().Get(ts.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s without user_uid: status %d, want 400", path, resp.StatusCode)
		}
	}
}
