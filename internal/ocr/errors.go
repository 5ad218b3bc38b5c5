package ocr

import (
	"errors"

	"github.com/aws/smithy-go"
)

// ThrottlingCode is the Textract error code that signals a rate limit.
const ThrottlingCode = "ThrottlingException"

// IsThrottling reports whether err carries Textract's throttling error code.
// Errors wrapped by the SDK (operation errors, response errors) are unwrapped.
func IsThrottling(err error) bool {
	if err == nil {
		return false
	}
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.ErrorCode() == ThrottlingCode
}

// ErrorCode returns the backend error code carried by err, or "" when there is none.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
