// Package tiles builds and publishes the vector tile artifact that accompanies
// the sprite atlases. Article rows are fetched from a PostgREST view, converted
// to a GeoJSON FeatureCollection, compiled into a PMTiles archive with
// tippecanoe, and uploaded to the tiles bucket.
package tiles

import "encoding/json"

// GeoJSON artifact names inside the run workspace.
const (
	geojsonFile = "articles.geojson"
	pmtilesFile = "articles.pmtiles"
)

// LayerName is the vector tile layer the article features are written to.
const LayerName = "articles"

// Properties are the feature attributes served to map clients.
type Properties struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Marker string `json:"marker"`
}

// Feature is one article as a GeoJSON feature. The id is the row's position
// in the fetched result set, which tippecanoe preserves.
type Feature struct {
	Type       string          `json:"type"`
	ID         int             `json:"id"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties Properties      `json:"properties"`
}

// FeatureCollection is the GeoJSON document handed to tippecanoe.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// NewFeatureCollection wraps features in a FeatureCollection envelope.
func NewFeatureCollection(features []Feature) *FeatureCollection {
	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

// Encode serializes the collection as compact GeoJSON.
func (fc *FeatureCollection) Encode() ([]byte, error) {
	return json.Marshal(fc)
}
