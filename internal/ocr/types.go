package ocr

import (
	"time"

	"github.com/MeKo-Tech/textract-annotator/internal/geometry"
)

const (
	// DefaultMaxRetries is the default number of attempts made for a throttled request.
	DefaultMaxRetries = 3
	// DefaultBaseDelay is the backoff delay before the first retry.
	DefaultBaseDelay = 2 * time.Second
)

// RetryPolicy bounds the retry loop around the Textract call.
type RetryPolicy struct {
	// MaxRetries is the total number of attempts, including the first one.
	MaxRetries int
	// BaseDelay is multiplied by 2^attempt to get the wait before the next attempt.
	BaseDelay time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: DefaultMaxRetries, BaseDelay: DefaultBaseDelay}
}

// attempts returns the effective attempt budget; at least one call is always made.
func (p RetryPolicy) attempts() int {
	if p.MaxRetries < 1 {
		return 1
	}
	return p.MaxRetries
}

// Delay returns the wait before retrying after the given zero-based attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	return p.BaseDelay * time.Duration(int64(1)<<uint(attempt))
}

// WordDetection is a single WORD block reported by Textract.
type WordDetection struct {
	ID          string                 `json:"id,omitempty" yaml:"id,omitempty"`
	Text        string                 `json:"text" yaml:"text"`
	Confidence  float64                `json:"confidence" yaml:"confidence"`
	BoundingBox geometry.NormalizedBox `json:"bounding_box" yaml:"bounding_box"`
}
