package getmotion

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultBaseURL is the production GetMotion API endpoint.
const DefaultBaseURL = "https://api.getmotion.io"

// DefaultTimeout is the per-request deadline applied to API round trips
// unless overridden with WithTimeout.
const DefaultTimeout = 60 * time.Second

// Client is the entry point to the GetMotion API. It is an acquire/release
// scoped resource: construct with New, use, then Close to release pooled
// connections. A Client is safe for concurrent use across different jobs;
// ordering of concurrent calls against the same job is the caller's
// responsibility.
type Client struct {
	// Jobs provides access to job creation and retrieval.
	Jobs *JobsResource

	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
	uploader   Uploader

	t *transport
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL for the GetMotion API.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client. The transport applies its own
// per-request deadlines, so the supplied client normally should not set
// Timeout itself.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request deadline for API round trips.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the structured logger used by the client and its handles.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithUploader overrides the mechanism used by Job.UploadAudio to move
// bytes to the storage locations named by presign targets. The default
// transfers over HTTP against the presigned URLs; see the s3upload package
// for a direct-S3 alternative.
func WithUploader(u Uploader) ClientOption {
	return func(c *Client) {
		c.uploader = u
	}
}

// New creates a GetMotion API client.
// The API key can be passed directly. If empty, it is read from the
// environment variable GETMOTION_API_KEY.
func New(apiKey string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	// If the API key was not passed in, try the environment variable
	if apiKey == "" {
		apiKey = os.Getenv("GETMOTION_API_KEY")
	}

	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	c.t = &transport{
		baseURL:    strings.TrimRight(c.baseURL, "/"),
		apiKey:     apiKey,
		httpClient: c.httpClient,
		timeout:    c.timeout,
		logger:     c.logger,
	}

	if c.uploader == nil {
		c.uploader = &presignUploader{httpClient: c.httpClient, logger: c.logger}
	}

	c.Jobs = &JobsResource{
		t:        c.t,
		uploader: c.uploader,
		logger:   c.logger,
	}

	return c, nil
}

// Close releases the client's pooled connections. Every handle minted from
// this client becomes unusable: operations after Close fail with
// ErrClientClosed.
func (c *Client) Close() {
	c.t.close()
}
