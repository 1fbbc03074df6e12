package shopware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrDefaultFolderNotFound indicates the remote carries no default media
// folder for the requested entity.
var ErrDefaultFolderNotFound = errors.New("shopware: default media folder not found")

// ErrEmptyResponse indicates the remote answered without the expected body.
var ErrEmptyResponse = errors.New("shopware: empty response")

// errorCodeDuplicatedFileName is returned by the media upload endpoint when
// another media already owns the file name.
const errorCodeDuplicatedFileName = "CONTENT__MEDIA_DUPLICATED_FILE_NAME"

// APIErrorDetail is one error entry of a remote error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// APIError wraps a non-2xx remote response with its parsed error entries.
type APIError struct {
	StatusCode int
	Errors     []APIErrorDetail
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("shopware: HTTP %d", e.StatusCode)
	}
	parts := make([]string, 0, len(e.Errors))
	for _, detail := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", detail.Code, detail.Detail))
	}
	return fmt.Sprintf("shopware: HTTP %d (%s)", e.StatusCode, strings.Join(parts, "; "))
}

// HasCode reports whether any error entry carries the code.
func (e *APIError) HasCode(code string) bool {
	for _, detail := range e.Errors {
		if detail.Code == code {
			return true
		}
	}
	return false
}

func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	var envelope struct {
		Errors []APIErrorDetail `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Errors = envelope.Errors
	}
	return apiErr
}

// IsNotFound reports whether err is a remote 404 response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsClientError reports whether err is a remote 4xx response.
func IsClientError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		apiErr.StatusCode >= http.StatusBadRequest &&
		apiErr.StatusCode < http.StatusInternalServerError
}

// IsDuplicatedFileName reports whether err is the benign duplicate file name
// rejection of the media upload endpoint.
func IsDuplicatedFileName(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.HasCode(errorCodeDuplicatedFileName)
}
