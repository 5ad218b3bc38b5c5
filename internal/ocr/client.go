// Package ocr wraps Amazon Textract's DetectDocumentText call with a bounded
// exponential backoff on throttling, and projects the response onto the word
// detections the annotators draw.
package ocr

import (
	"context"
	"log/slog"
	"time"

	"github.com/MeKo-Tech/textract-annotator/internal/geometry"
	"github.com/MeKo-Tech/textract-annotator/internal/metrics"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
)

// API is the subset of the Textract client used here.
type API interface {
	DetectDocumentText(ctx context.Context, params *textract.DetectDocumentTextInput,
		optFns ...func(*textract.Options)) (*textract.DetectDocumentTextOutput, error)
}

// Client performs text detection with retry on throttling.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	api       API
	policy    RetryPolicy
	retryable func(error) bool
	sleep     func(context.Context, time.Duration) error
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.policy = p }
}

// WithRetryable replaces the classifier deciding which errors are retried.
func WithRetryable(fn func(error) bool) Option {
	return func(c *Client) {
		if fn != nil {
			c.retryable = fn
		}
	}
}

// WithLogger sets the logger used for retry notices.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client around an existing Textract API implementation.
func New(api API, opts ...Option) *Client {
	c := &Client{
		api:       api,
		policy:    DefaultRetryPolicy(),
		retryable: IsThrottling,
		sleep:     sleepContext,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig builds a Textract SDK client from cfg and wraps it.
// The SDK's own retryer is disabled so the backoff here is the only one.
// A non-empty endpoint overrides the service endpoint (e.g. LocalStack).
func NewFromConfig(cfg aws.Config, endpoint string, opts ...Option) *Client {
	api := textract.NewFromConfig(cfg, func(o *textract.Options) {
		o.Retryer = aws.NopRetryer{}
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return New(api, opts...)
}

// Policy returns the client's retry policy.
func (c *Client) Policy() RetryPolicy {
	return c.policy
}

// DetectText sends fileBytes to Textract and returns the raw response.
// Retryable errors are retried up to the policy's attempt budget with a
// delay of BaseDelay*2^attempt; the last backend error is returned as is
// once the budget is spent. Other errors are returned on first occurrence.
func (c *Client) DetectText(ctx context.Context, fileBytes []byte) (*textract.DetectDocumentTextOutput, error) {
	input := &textract.DetectDocumentTextInput{
		Document: &types.Document{Bytes: fileBytes},
	}

	maxAttempts := c.policy.attempts()
	for attempt := 0; ; attempt++ {
		out, err := c.api.DetectDocumentText(ctx, input)
		if err == nil {
			metrics.ObserveTextractCall(metrics.OutcomeSuccess)
			return out, nil
		}

		if !c.retryable(err) {
			metrics.ObserveTextractCall(metrics.OutcomeError)
			return nil, err
		}
		metrics.ObserveTextractCall(metrics.OutcomeThrottled)

		if attempt+1 >= maxAttempts {
			c.logger.Error("textract retries exhausted",
				"attempts", attempt+1, "code", ErrorCode(err), "error", err)
			return nil, err
		}

		delay := c.policy.Delay(attempt)
		c.logger.Info("rate limited, waiting before retry",
			"delay", delay.String(), "retry", attempt+1, "max_retries", maxAttempts)
		metrics.ObserveRetry()

		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// ExtractWords returns the WORD blocks of out that carry a bounding box,
// in response order. Blocks without geometry are dropped.
func ExtractWords(out *textract.DetectDocumentTextOutput) []WordDetection {
	if out == nil {
		return nil
	}
	words := make([]WordDetection, 0, len(out.Blocks))
	for _, b := range out.Blocks {
		if b.BlockType != types.BlockTypeWord {
			continue
		}
		if b.Geometry == nil || b.Geometry.BoundingBox == nil {
			continue
		}
		bb := b.Geometry.BoundingBox
		words = append(words, WordDetection{
			ID:          aws.ToString(b.Id),
			Text:        aws.ToString(b.Text),
			Confidence:  float64(aws.ToFloat32(b.Confidence)),
			BoundingBox: geometryBox(bb),
		})
	}
	return words
}

func geometryBox(bb *types.BoundingBox) geometry.NormalizedBox {
	return geometry.NormalizedBox{
		Left:   float64(bb.Left),
		Top:    float64(bb.Top),
		Width:  float64(bb.Width),
		Height: float64(bb.Height),
	}
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
