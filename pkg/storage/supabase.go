package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tilegarden/spritepack/pkg/httputil"
)

// listPageSize is the page size for Supabase Storage list requests.
const listPageSize = 1000

// SupabaseConfig holds connection details for a Supabase project.
type SupabaseConfig struct {
	URL string // Project URL, e.g. https://abc.supabase.co
	Key string // Service role key (storage writes need it)
}

// Supabase is a Store backed by the Supabase Storage HTTP API.
// Requests carry the service key, are retried with backoff on transient
// failures, and honor context cancellation.
type Supabase struct {
	http    *http.Client
	baseURL string
	key     string

	// retry wraps every request; tests swap it for one without delays.
	retry func(ctx context.Context, fn func() error) error
}

// NewSupabase creates a Supabase Storage client.
func NewSupabase(cfg SupabaseConfig) *Supabase {
	return &Supabase{
		http:    httputil.NewClient(),
		baseURL: strings.TrimSuffix(cfg.URL, "/") + "/storage/v1",
		key:     cfg.Key,
		retry:   httputil.RetryWithBackoff,
	}
}

// listRequest is the body of a Storage list call.
type listRequest struct {
	Prefix string `json:"prefix"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// listEntry is one object in a Storage list response.
type listEntry struct {
	Name      string     `json:"name"`
	UpdatedAt *time.Time `json:"updated_at"`
	Metadata  struct {
		Size int64 `json:"size"`
	} `json:"metadata"`
}

// List pages through the bucket until a short page signals the end.
func (s *Supabase) List(ctx context.Context, bucket string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	for offset := 0; ; offset += listPageSize {
		page, err := s.listPage(ctx, bucket, offset)
		if err != nil {
			return nil, err
		}
		for _, e := range page {
			info := ObjectInfo{Name: e.Name, Size: e.Metadata.Size}
			if e.UpdatedAt != nil {
				info.UpdatedAt = *e.UpdatedAt
			}
			objects = append(objects, info)
		}
		if len(page) < listPageSize {
			return objects, nil
		}
	}
}

func (s *Supabase) listPage(ctx context.Context, bucket string, offset int) ([]listEntry, error) {
	body, err := json.Marshal(listRequest{Limit: listPageSize, Offset: offset})
	if err != nil {
		return nil, err
	}

	var page []listEntry
	err = s.retry(ctx, func() error {
		data, err := s.do(ctx, http.MethodPost, s.objectURL("list", bucket, ""), body, "application/json", nil)
		if err != nil {
			return err
		}
		return json.Unmarshal(data, &page)
	})
	return page, err
}

// Download fetches one object's bytes.
func (s *Supabase) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	var data []byte
	err := s.retry(ctx, func() error {
		var err error
		data, err = s.do(ctx, http.MethodGet, s.objectURL("", bucket, key), nil, "", nil)
		return err
	})
	return data, err
}

// Upload writes one object. Supabase expresses overwrite via the x-upsert
// header; cache control rides along the same way.
func (s *Supabase) Upload(ctx context.Context, bucket, key string, data []byte, opts UploadOptions) error {
	headers := map[string]string{}
	if opts.Upsert {
		headers["x-upsert"] = "true"
	}
	if opts.CacheControl != "" {
		headers["cache-control"] = opts.CacheControl
	}

	return s.retry(ctx, func() error {
		_, err := s.do(ctx, http.MethodPost, s.objectURL("", bucket, key), data, opts.ContentType, headers)
		return err
	})
}

// objectURL builds a Storage endpoint path. op is an optional operation
// segment ("list"); key is empty for bucket-level calls.
func (s *Supabase) objectURL(op, bucket, key string) string {
	parts := []string{s.baseURL, "object"}
	if op != "" {
		parts = append(parts, op)
	}
	parts = append(parts, url.PathEscape(bucket))
	if key != "" {
		for _, seg := range strings.Split(key, "/") {
			parts = append(parts, url.PathEscape(seg))
		}
	}
	return strings.Join(parts, "/")
}

func (s *Supabase) do(ctx context.Context, method, u string, body []byte, contentType string, headers map[string]string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("apikey", s.key)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// Ensure Supabase implements Store.
var _ Store = (*Supabase)(nil)
