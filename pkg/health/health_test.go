package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hearthstack/hearth/pkg/health"
)

func TestLiveness(t *testing.T) {
	rec := httptest.NewRecorder()
	health.LivenessHandler()(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("body = %q, want OK", rec.Body.String())
	}
}

func TestReadinessAllHealthy(t *testing.T) {
	checks := health.Checks{
		"db": func(ctx context.Context) error { return nil },
	}

	rec := httptest.NewRecorder()
	health.ReadinessHandler(checks)(rec, httptest.NewRequest("GET", "/ready", nil))

	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestReadinessFailure(t *testing.T) {
	checks := health.Checks{
		"db":    func(ctx context.Context) error { return nil },
		"cache": func(ctx context.Context) error { return errors.New("connection refused") },
	}

	req := httptest.NewRequest("GET", "/ready?format=json", nil)
	rec := httptest.NewRecorder()
	health.ReadinessHandler(checks)(rec, req)

	if rec.Code != 503 {
		t.Errorf("status = %d, want 503", rec.Code)
	}

	var resp health.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Status != health.StatusUnhealthy {
		t.Errorf("status = %q, want unhealthy", resp.Status)
	}
	if resp.Checks["cache"].Error != "connection refused" {
		t.Errorf("cache error = %q", resp.Checks["cache"].Error)
	}
	if resp.Checks["db"].Status != health.StatusHealthy {
		t.Errorf("db status = %q, want healthy", resp.Checks["db"].Status)
	}
}

func TestReadinessTimeout(t *testing.T) {
	checks := health.Checks{
		"slow": func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
				return nil
			}
		},
	}

	rec := httptest.NewRecorder()
	handler := health.ReadinessHandler(checks, health.WithTimeout(10*time.Millisecond))
	handler(rec, httptest.NewRequest("GET", "/ready", nil))

	if rec.Code != 503 {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestReadinessJSONViaAccept(t *testing.T) {
	req := httptest.NewRequest("GET", "/ready", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	health.ReadinessHandler(nil)(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
}
