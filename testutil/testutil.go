// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/follow-rotator/cliparse"
	"github.com/danielhkuo/follow-rotator/db"
	"github.com/danielhkuo/follow-rotator/models"
	"github.com/danielhkuo/follow-rotator/platform"
)

// TestBaseURL is the share link prefix used by GetTestConfig
const TestBaseURL = "https://rotator.test"

// SetupTestDB opens a fresh in-memory sqlite stats store with the full schema
func SetupTestDB(t *testing.T) *db.Store {
	t.Helper()

	store, err := db.Open(db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		BaseURL:      TestBaseURL,
		DatabaseURL:  ":memory:",
		DatabaseType: db.TypeSQLite,
	}
}

// TestConfiguration returns a three-item configuration with default timing
func TestConfiguration() models.Configuration {
	return models.Configuration{
		Items: []models.RotationItem{
			{Platform: platform.TikTok, Text: "@rotator"},
			{Platform: platform.Discord, Text: "discord.gg/rotator"},
			{Platform: platform.YouTube, Text: "@rotator-yt"},
		},
		Timing: models.DefaultTiming(),
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
