package tiles

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tilegarden/spritepack/pkg/httputil"
)

// DefaultView is the PostgREST view the article rows come from.
const DefaultView = "external_articles_geojson"

// selectColumns are the row columns fetched from the view.
const selectColumns = "url,title,location,marker"

// FeatureSource yields the GeoJSON features for one tile build.
type FeatureSource interface {
	FetchFeatures(ctx context.Context) (*FeatureCollection, error)
}

// FeatureClientConfig holds connection details for a Supabase project's
// PostgREST endpoint.
type FeatureClientConfig struct {
	URL  string // Project URL, e.g. https://abc.supabase.co
	Key  string // Service role key
	View string // Source view, defaults to DefaultView
}

// FeatureClient fetches article rows over PostgREST and converts them to
// GeoJSON features. Requests carry the service key and are retried with
// backoff on transient failures.
type FeatureClient struct {
	http    *http.Client
	baseURL string
	key     string
	view    string

	// retry wraps every request; tests swap it for one without delays.
	retry func(ctx context.Context, fn func() error) error
}

// NewFeatureClient creates a PostgREST feature client.
func NewFeatureClient(cfg FeatureClientConfig) *FeatureClient {
	view := cfg.View
	if view == "" {
		view = DefaultView
	}
	return &FeatureClient{
		http:    httputil.NewClient(),
		baseURL: strings.TrimSuffix(cfg.URL, "/") + "/rest/v1",
		key:     cfg.Key,
		view:    view,
		retry:   httputil.RetryWithBackoff,
	}
}

// row is one record of the source view. The location column is text holding
// GeoJSON geometry written by the database.
type row struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Marker   string `json:"marker"`
}

// FetchFeatures retrieves all rows from the view and converts each to a
// Feature. Feature ids are row positions in the response, so input order is
// the id order.
func (c *FeatureClient) FetchFeatures(ctx context.Context) (*FeatureCollection, error) {
	var rows []row
	err := c.retry(ctx, func() error {
		data, err := c.get(ctx, fmt.Sprintf("%s/%s?select=%s", c.baseURL, c.view, selectColumns))
		if err != nil {
			return err
		}
		return json.Unmarshal(data, &rows)
	})
	if err != nil {
		return nil, err
	}

	features := make([]Feature, 0, len(rows))
	for i, r := range rows {
		features = append(features, Feature{
			Type:     "Feature",
			ID:       i,
			Geometry: geometryJSON(r.Location),
			Properties: Properties{
				URL:    r.URL,
				Title:  r.Title,
				Marker: r.Marker,
			},
		})
	}
	return NewFeatureCollection(features), nil
}

// geometryJSON converts the location column to a GeoJSON geometry value.
// Valid JSON passes through untouched; non-JSON text is kept as a JSON
// string, and an empty column becomes null.
func geometryJSON(location string) json.RawMessage {
	if location == "" {
		return json.RawMessage("null")
	}
	raw := json.RawMessage(location)
	if json.Valid(raw) {
		return raw
	}
	quoted, err := json.Marshal(location)
	if err != nil {
		return json.RawMessage("null")
	}
	return quoted
}

func (c *FeatureClient) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("apikey", c.key)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &httputil.RetryableError{Err: fmt.Errorf("fetch rows: %w", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return io.ReadAll(resp.Body)
	case resp.StatusCode >= 500:
		return nil, &httputil.RetryableError{Err: fmt.Errorf("fetch rows: status %d", resp.StatusCode)}
	default:
		return nil, fmt.Errorf("fetch rows: status %d", resp.StatusCode)
	}
}

// Ensure FeatureClient implements FeatureSource.
var _ FeatureSource = (*FeatureClient)(nil)
