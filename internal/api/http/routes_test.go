package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pvehvila/spotprice-aggregation/internal/diag"
	"github.com/pvehvila/spotprice-aggregation/internal/spot"
)

type fixedRolling struct {
	records []spot.Record
}

func (f *fixedRolling) Name() string { return "fixed-rolling" }

func (f *fixedRolling) FetchWindow(ctx context.Context) ([]spot.Record, error) {
	return f.records, nil
}

func newTestApp(records []spot.Record) *fiber.App {
	app := fiber.New()
	recorder := diag.NewRecorder(8, nil)
	svc := spot.NewService(&fixedRolling{records: records}, nil, time.UTC, 48, 5, recorder)
	RegisterRoutes(app, svc, recorder)
	return app
}

// TestHourlyDateValidation verifies that the series endpoints enforce the
// expected YYYY-MM-DD date parameter.
func TestHourlyDateValidation(t *testing.T) {
	app := newTestApp(nil)

	// Missing date parameter should return 400.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/prices/hourly", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// Malformed date should also return 400.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/prices/hourly?date=12.11.2025", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestHourlyEmptySeriesIs404(t *testing.T) {
	app := newTestApp(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/prices/hourly?date=2025-11-12", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestQuarterSeriesServed(t *testing.T) {
	day := spot.CalendarDay{Year: 2025, Month: time.November, Day: 12}
	start := day.Start(time.UTC)

	records := make([]spot.Record, 0, 8)
	for i := 0; i < 8; i++ {
		ts := start.Add(time.Duration(i) * 15 * time.Minute)
		records = append(records, spot.NewRecord(map[string]any{
			"price":     4.2,
			"startDate": ts.Format(time.RFC3339),
		}, time.UTC))
	}

	app := newTestApp(records)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/prices/quarter?date=2025-11-12", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var payload struct {
		Day    string              `json:"day"`
		Prices []spot.QuarterPrice `json:"prices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Day != "2025-11-12" || len(payload.Prices) != 8 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestViewAlwaysOK(t *testing.T) {
	app := newTestApp(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/prices/view", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var vm spot.ViewModel
	if err := json.NewDecoder(resp.Body).Decode(&vm); err != nil {
		t.Fatalf("failed to decode view model: %v", err)
	}
	if vm.CurrentCents != nil || len(vm.Rows) != 0 {
		t.Fatalf("expected an empty view model, got %+v", vm)
	}
}
