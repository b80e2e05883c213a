package tiles

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tilegarden/spritepack/pkg/httputil"
)

// fakePostgrest serves a fixed row set for the articles view.
func fakePostgrest(t *testing.T, rows []map[string]string, fails *int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rest/v1/external_articles_geojson", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") == "" || r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if *fails > 0 {
			*fails--
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if got := r.URL.Query().Get("select"); got != selectColumns {
			t.Errorf("select = %q, want %q", got, selectColumns)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rows)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(url string) *FeatureClient {
	c := NewFeatureClient(FeatureClientConfig{URL: url, Key: "service-key"})
	c.retry = func(ctx context.Context, fn func() error) error {
		return httputil.Retry(ctx, 3, time.Millisecond, fn)
	}
	return c
}

func TestFetchFeatures(t *testing.T) {
	fails := 0
	srv := fakePostgrest(t, []map[string]string{
		{"url": "https://a.example", "title": "A", "location": `{"type":"Point","coordinates":[1,2]}`, "marker": "hospital"},
		{"url": "https://b.example", "title": "B", "location": "", "marker": "school"},
	}, &fails)

	fc, err := newTestClient(srv.URL).FetchFeatures(context.Background())
	if err != nil {
		t.Fatalf("FetchFeatures: %v", err)
	}

	if fc.Type != "FeatureCollection" {
		t.Errorf("Type = %q", fc.Type)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("len(Features) = %d, want 2", len(fc.Features))
	}

	first := fc.Features[0]
	if first.Type != "Feature" || first.ID != 0 {
		t.Errorf("first = %+v", first)
	}
	if first.Properties.URL != "https://a.example" || first.Properties.Marker != "hospital" {
		t.Errorf("first properties = %+v", first.Properties)
	}
	var geom struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(first.Geometry, &geom); err != nil || geom.Type != "Point" {
		t.Errorf("first geometry = %s (%v)", first.Geometry, err)
	}

	second := fc.Features[1]
	if second.ID != 1 {
		t.Errorf("second.ID = %d, want 1", second.ID)
	}
	if string(second.Geometry) != "null" {
		t.Errorf("empty location geometry = %s, want null", second.Geometry)
	}
}

func TestFetchFeaturesRetriesServerErrors(t *testing.T) {
	fails := 2
	srv := fakePostgrest(t, []map[string]string{
		{"url": "https://a.example", "title": "A", "location": "", "marker": ""},
	}, &fails)

	fc, err := newTestClient(srv.URL).FetchFeatures(context.Background())
	if err != nil {
		t.Fatalf("FetchFeatures after retries: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Errorf("len(Features) = %d, want 1", len(fc.Features))
	}
	if fails != 0 {
		t.Errorf("remaining fails = %d, want 0", fails)
	}
}

func TestFetchFeaturesEmptyView(t *testing.T) {
	fails := 0
	srv := fakePostgrest(t, []map[string]string{}, &fails)

	fc, err := newTestClient(srv.URL).FetchFeatures(context.Background())
	if err != nil {
		t.Fatalf("FetchFeatures: %v", err)
	}
	if len(fc.Features) != 0 {
		t.Errorf("len(Features) = %d, want 0", len(fc.Features))
	}
}

func TestGeometryJSON(t *testing.T) {
	tests := []struct {
		name     string
		location string
		want     string
	}{
		{"valid geometry", `{"type":"Point","coordinates":[0,0]}`, `{"type":"Point","coordinates":[0,0]}`},
		{"empty column", "", "null"},
		{"plain text passthrough", "somewhere", `"somewhere"`},
		{"json null", "null", "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := geometryJSON(tt.location)
			if string(got) != tt.want {
				t.Errorf("geometryJSON(%q) = %s, want %s", tt.location, got, tt.want)
			}
		})
	}
}
