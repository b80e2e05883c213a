// Package httputil provides HTTP utilities for the object store and feature
// clients.
//
// # Overview
//
// This package provides infrastructure shared by all HTTP-backed backends:
//
//   - [Retry]: Automatic retry with exponential backoff
//   - [NewClient]: HTTP client construction with a standard timeout
//
// # Retry
//
// [Retry] re-attempts operations that fail transiently. Only errors wrapped
// with [RetryableError] are retried; everything else is returned immediately:
//
//   - Network errors (timeouts, connection resets)
//   - 5xx server responses
//
// It uses exponential backoff (the delay doubles after each failed attempt):
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return client.upload(ctx, bucket, key, data)
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Request timeout: 30 seconds (uploads carry image payloads)
//   - Max retries: 3
//   - Base backoff: 1 second
package httputil
