package errors

import (
	"strings"
	"unicode"
)

// ValidateObjectKey validates an object store key for safety and correctness.
// Keys name blobs inside a bucket and, for the local backend, become file
// paths, so names that could escape the bucket directory are rejected.
//
// The validation rules are intentionally conservative:
//   - No empty keys
//   - No control characters or null bytes
//   - No path traversal sequences (.., //, leading /)
//   - No backslashes
//   - Maximum length of 256 characters
func ValidateObjectKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "object key cannot be empty")
	}

	if len(key) > 256 {
		return New(ErrCodeInvalidKey, "object key too long (max 256 characters)")
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidKey, "object key contains invalid control characters")
		}
	}

	if strings.HasPrefix(key, "/") {
		return New(ErrCodeInvalidKey, "object key cannot be absolute")
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(key, pattern) {
			return New(ErrCodeInvalidKey, "object key contains invalid sequence: %q", pattern)
		}
	}

	return nil
}

// ValidateBucketName validates a bucket name. Buckets are single path
// segments: no separators of any kind are allowed.
func ValidateBucketName(bucket string) error {
	if bucket == "" {
		return New(ErrCodeInvalidConfig, "bucket name cannot be empty")
	}
	if strings.ContainsAny(bucket, "/\\") {
		return New(ErrCodeInvalidConfig, "bucket name cannot contain path separators")
	}
	for _, r := range bucket {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "bucket name contains invalid control characters")
		}
	}
	return nil
}
