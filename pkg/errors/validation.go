package errors

import (
	"strings"
	"time"
	"unicode"
)

// ValidateURL validates a base URL string for safety.
// It ensures the URL has a safe scheme (http or https) and no control
// characters, since it is concatenated directly into request paths.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidConfig, "URL must use http or https scheme")
	}

	for _, r := range rawURL {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidConfig, "URL contains invalid characters")
		}
	}

	return nil
}

// ValidateTimeout rejects non-positive request timeouts.
func ValidateTimeout(d time.Duration) error {
	if d <= 0 {
		return New(ErrCodeInvalidConfig, "timeout must be positive, got %s", d)
	}
	return nil
}

// ValidateDelay rejects negative delays. Zero is allowed.
func ValidateDelay(name string, d time.Duration) error {
	if d < 0 {
		return New(ErrCodeInvalidConfig, "%s cannot be negative, got %s", name, d)
	}
	return nil
}

// ValidateRetries rejects negative retry budgets. Zero is allowed and still
// means one attempt.
func ValidateRetries(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidConfig, "max retries cannot be negative, got %d", n)
	}
	return nil
}
