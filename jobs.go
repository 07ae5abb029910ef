package getmotion

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// titlePattern is what the API accepts for job titles.
var titlePattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// validate checks client-side request parameters before they hit the wire.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails on an empty rule name
	_ = v.RegisterValidation("jobtitle", func(fl validator.FieldLevel) bool {
		return titlePattern.MatchString(fl.Field().String())
	})
	return v
}

// CreateJobParams contains the parameters for JobsResource.Create. All
// fields are optional.
type CreateJobParams struct {
	// Title labels the job: letters, digits and hyphens only. The server
	// assigns a generated title when empty.
	Title string `json:"title,omitempty" validate:"omitempty,jobtitle,max=128"`
	// IdempotencyKey lets the server deduplicate retried create calls.
	// It is passed through unchanged and never generated client-side.
	IdempotencyKey string `json:"idempotency_key,omitempty"`
	// WantUploadURL asks the server to include a presigned upload URL in
	// the creation payload (see Job.UploadURL).
	WantUploadURL bool `json:"want_upload_url"`
}

// JobsResource creates and fetches jobs.
type JobsResource struct {
	t        *transport
	uploader Uploader
	logger   *slog.Logger
}

// Create registers a new job and returns its handle. The raw creation
// payload is available via Job.Data.
func (r *JobsResource) Create(ctx context.Context, params CreateJobParams) (*Job, error) {
	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("getmotion: invalid create params: %w", err)
	}

	var data map[string]any
	if err := r.t.post(ctx, "/jobs", nil, params, &data); err != nil {
		return nil, err
	}

	jobID, _ := data["job_id"].(string)
	if jobID == "" {
		return nil, ErrNoJobIDReturned
	}

	r.logger.Info("job created",
		slog.String("job_id", jobID),
	)

	return r.newJob(jobID, data), nil
}

// Get returns a handle for an existing job.
func (r *JobsResource) Get(ctx context.Context, jobID string) (*Job, error) {
	if jobID == "" {
		return nil, ErrJobIDRequired
	}

	var data map[string]any
	if err := r.t.get(ctx, "/jobs/"+jobID, nil, &data); err != nil {
		return nil, err
	}

	// Prefer the server's canonical ID over the one we were asked for
	if id, ok := data["job_id"].(string); ok && id != "" {
		jobID = id
	}

	return r.newJob(jobID, data), nil
}

func (r *JobsResource) newJob(jobID string, data map[string]any) *Job {
	return &Job{
		ID:       jobID,
		Data:     data,
		t:        r.t,
		uploader: r.uploader,
		logger:   r.logger,
	}
}

// Job is a client-side handle bound to one remote job. It holds no cached
// authoritative state: every status-dependent decision re-fetches from the
// server. Data is the raw payload of the create or get call that minted the
// handle; creation-time fields such as upload_url live there.
type Job struct {
	ID   string
	Data map[string]any

	t        *transport
	uploader Uploader
	logger   *slog.Logger
}

// UploadURL returns the presigned upload URL from the creation payload when
// the job was created with WantUploadURL, or "".
func (j *Job) UploadURL() string {
	u, _ := j.Data["upload_url"].(string)
	return u
}

// Status fetches the job's current status payload. The mapping is returned
// verbatim so backend-specific fields stay visible to the caller; see
// StatusPayload for the convenience accessors.
func (j *Job) Status(ctx context.Context) (StatusPayload, error) {
	var payload StatusPayload
	if err := j.t.get(ctx, "/jobs/"+j.ID+"/status", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// StartOptions contains optional parameters for Job.Start.
type StartOptions struct {
	// InputS3Key names the uploaded input object. When empty the server
	// falls back to the key recorded by the presign flow.
	InputS3Key string
}

// Start asks the server to begin processing the job. It returns as soon as
// the server acknowledges the request; it never waits for the resulting
// state transition. Combine with WaitFor.
func (j *Job) Start(ctx context.Context, opts StartOptions) (map[string]any, error) {
	query := url.Values{}
	if opts.InputS3Key != "" {
		query.Set("input_s3_key", opts.InputS3Key)
	}

	var resp map[string]any
	if err := j.t.post(ctx, "/jobs/"+j.ID+"/start", query, nil, &resp); err != nil {
		return nil, err
	}

	j.logger.Info("job started",
		slog.String("job_id", j.ID),
		slog.String("input_s3_key", opts.InputS3Key),
	)

	return resp, nil
}

// GetProposal fetches the proposal document produced for human review.
// Before the job reaches AWAITING_REVIEW the server answers 404, which
// surfaces as an *APIError matching ErrNotFound.
func (j *Job) GetProposal(ctx context.Context) (map[string]any, error) {
	var data map[string]any
	if err := j.t.get(ctx, "/jobs/"+j.ID+"/review/domain_mapping", nil, &data); err != nil {
		return nil, err
	}

	if mapping, ok := data["domain_mapping"].(map[string]any); ok {
		return mapping, nil
	}
	return data, nil
}

// ReviewOptions contains optional parameters for Job.SubmitReview.
type ReviewOptions struct {
	// ReviewToken is the concurrency guard from the proposal's next_action.
	// The server may require it to reject reviews of a stale proposal; it is
	// passed through unchanged, never generated client-side.
	ReviewToken string
}

// SubmitReview submits review decisions for the current proposal and
// returns the server's acknowledgement.
func (j *Job) SubmitReview(ctx context.Context, decisions map[string]any, opts ReviewOptions) (map[string]any, error) {
	body := map[string]any{"decisions_json": decisions}
	if opts.ReviewToken != "" {
		body["review_token"] = opts.ReviewToken
	}

	var resp map[string]any
	if err := j.t.post(ctx, "/jobs/"+j.ID+"/review", nil, body, &resp); err != nil {
		return nil, err
	}

	j.logger.Info("review submitted",
		slog.String("job_id", j.ID),
	)

	return resp, nil
}
