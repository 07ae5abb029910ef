package getmotion

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Static errors for GetMotion client operations.
var (
	// ErrAPIKeyRequired is returned when no API key is provided at construction.
	ErrAPIKeyRequired = errors.New("getmotion: API key is required")
	// ErrClientClosed is returned when an operation is attempted after Close.
	ErrClientClosed = errors.New("getmotion: client is closed")
	// ErrJobIDRequired is returned when the job ID is not provided.
	ErrJobIDRequired = errors.New("getmotion: job ID is required")
	// ErrNoJobIDReturned is returned when the create response contains no job ID.
	ErrNoJobIDReturned = errors.New("getmotion: create failed: no job ID returned")
	// ErrAuthentication is returned when the API responds with 401.
	ErrAuthentication = errors.New("getmotion: authentication failed")
	// ErrNotFound is returned when the API responds with 404.
	ErrNotFound = errors.New("getmotion: resource not found")
	// ErrConflict is returned when the API responds with 409.
	ErrConflict = errors.New("getmotion: conflict with current resource state")
	// ErrRequestFailed is returned when the API responds with any other non-2xx status code.
	ErrRequestFailed = errors.New("getmotion: request failed")
	// ErrTransport is returned when the request fails before an HTTP response is received.
	ErrTransport = errors.New("getmotion: transport failure")
	// ErrNoUploadTargets is returned when the presign response contains no upload targets.
	ErrNoUploadTargets = errors.New("getmotion: presign returned no upload targets")
	// ErrUploadFailed is returned when an upload target rejects the transfer.
	ErrUploadFailed = errors.New("getmotion: upload failed")
	// ErrNoRenderURL is returned when a render record has no download URL.
	ErrNoRenderURL = errors.New("getmotion: render has no download URL")
)

// APIError is returned for any non-2xx API response. Unwrap yields the
// sentinel matching the status code (ErrAuthentication for 401, ErrNotFound
// for 404, ErrConflict for 409, ErrRequestFailed otherwise), so callers can
// classify with errors.Is while still reading the code and body detail.
type APIError struct {
	StatusCode int
	Detail     string

	kind error
}

// newAPIError builds an APIError classified by HTTP status code.
func newAPIError(statusCode int, detail string) *APIError {
	kind := ErrRequestFailed
	switch statusCode {
	case http.StatusUnauthorized:
		kind = ErrAuthentication
	case http.StatusNotFound:
		kind = ErrNotFound
	case http.StatusConflict:
		kind = ErrConflict
	}
	return &APIError{StatusCode: statusCode, Detail: detail, kind: kind}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("getmotion: API error %d: %s", e.StatusCode, e.Detail)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// JobFailedError is returned by WaitFor (and the internally polling
// operations) when a job reaches a terminal-failure status. Code and Detail
// carry the server-reported failure cause when the status payload includes
// one.
type JobFailedError struct {
	JobID  string
	Status Status
	Code   string
	Detail string
}

func (e *JobFailedError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("getmotion: job %q failed [%s]: %s", e.JobID, e.Code, e.Detail)
	}
	if e.Detail != "" {
		return fmt.Sprintf("getmotion: job %q failed: %s", e.JobID, e.Detail)
	}
	return fmt.Sprintf("getmotion: job %q reached terminal status %s", e.JobID, e.Status)
}

// WaitTimeoutError is returned when a wait deadline expires before the job
// reaches the target status. LastStatus is the status observed on the final
// poll; callers can re-issue the wait with a fresh deadline.
type WaitTimeoutError struct {
	JobID      string
	Target     Status
	LastStatus Status
	Timeout    time.Duration
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("getmotion: job %q did not reach status %s within %s (last status %s)",
		e.JobID, e.Target, e.Timeout, e.LastStatus)
}
