package getmotion

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// DefaultStoryboardTimeout bounds the wait for storyboard generation.
// Generation is LLM-backed and slower than ordinary status transitions.
const DefaultStoryboardTimeout = 10 * time.Minute

// storyboardReady is the pseudo-target reported when the storyboard
// readiness wait times out; session existence is not a job status of its
// own.
const storyboardReady Status = "STORYBOARD_READY"

// sessionPayload is the session document returned by the storyboard init
// and get endpoints. A queued init answers without a session_id.
type sessionPayload struct {
	SessionID        string         `json:"session_id"`
	JobID            string         `json:"job_id"`
	StoryboardKey    string         `json:"storyboard_key"`
	Version          int            `json:"version"`
	HighLevelSummary map[string]any `json:"high_level_summary"`
}

// chatResponse is the body of the storyboard chat endpoint.
type chatResponse struct {
	Reply            string         `json:"reply"`
	StoryboardKey    string         `json:"storyboard_key"`
	Version          int            `json:"version"`
	HighLevelSummary map[string]any `json:"high_level_summary"`
}

// StoryboardOptions contains optional parameters for Job.InitStoryboard.
type StoryboardOptions struct {
	// Style selects the storyboard generation style. Defaults to "default".
	Style string
	// Force discards any existing session and generates a new storyboard
	// from scratch.
	Force bool
	// Timeout bounds the wait for generation to finish. Defaults to
	// DefaultStoryboardTimeout.
	Timeout time.Duration
	// PollInterval is the readiness poll cadence. Defaults to
	// DefaultPollInterval.
	PollInterval time.Duration
}

// InitStoryboard initialises (or resumes) the job's storyboard editing
// session. If a session already exists and Force is false, it attaches to
// the existing one rather than recreating it. Generation is asynchronous
// server-side: when the server queues a new storyboard, the call polls
// until the session becomes ready, honoring Timeout and PollInterval. A
// job failure discovered while waiting surfaces as *JobFailedError, an
// expired deadline as *WaitTimeoutError.
func (j *Job) InitStoryboard(ctx context.Context, opts StoryboardOptions) (*StoryboardSession, error) {
	// Apply defaults if not set
	if opts.Style == "" {
		opts.Style = "default"
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultStoryboardTimeout
	}

	j.logger.Debug("init storyboard",
		slog.String("job_id", j.ID),
		slog.String("style", opts.Style),
		slog.Bool("force", opts.Force),
	)

	body := map[string]any{"job_id": j.ID, "style": opts.Style, "force": opts.Force}

	var data sessionPayload
	if err := j.t.post(ctx, "/storyboard/init", nil, body, &data); err != nil {
		return nil, err
	}

	// The server answers without a session while a new storyboard is being
	// generated; poll until it exists.
	if data.SessionID == "" {
		j.logger.Info("storyboard generation queued",
			slog.String("job_id", j.ID),
		)

		ready, err := j.waitForStoryboard(ctx, opts)
		if err != nil {
			return nil, err
		}
		data = *ready
	}

	return j.newStoryboardSession(data), nil
}

// waitForStoryboard polls until the job's storyboard session exists. Each
// probe re-reads the job status first, so a job that fails mid-generation
// is reported as *JobFailedError, then re-attaches through the init
// endpoint. The attach probe never forces: forcing would queue another
// generation on every poll.
func (j *Job) waitForStoryboard(ctx context.Context, opts StoryboardOptions) (*sessionPayload, error) {
	var (
		session sessionPayload
		last    Status
	)

	attach := map[string]any{"job_id": j.ID, "style": opts.Style, "force": false}

	poll := func(ctx context.Context) (bool, error) {
		p, err := j.Status(ctx)
		if err != nil {
			return false, err
		}
		last = p.Status()
		if last.IsTerminalFailure() {
			code, detail := p.ErrorInfo()
			return false, &JobFailedError{JobID: j.ID, Status: last, Code: code, Detail: detail}
		}

		var data sessionPayload
		if err := j.t.post(ctx, "/storyboard/init", nil, attach, &data); err != nil {
			return false, err
		}
		if data.SessionID == "" {
			return false, nil
		}
		session = data
		return true, nil
	}

	onTimeout := func() error {
		return &WaitTimeoutError{JobID: j.ID, Target: storyboardReady, LastStatus: last, Timeout: opts.Timeout}
	}

	if err := pollUntil(ctx, opts.Timeout, opts.PollInterval, poll, onTimeout); err != nil {
		return nil, err
	}
	return &session, nil
}

func (j *Job) newStoryboardSession(data sessionPayload) *StoryboardSession {
	jobID := data.JobID
	if jobID == "" {
		jobID = j.ID
	}
	return &StoryboardSession{
		SessionID:        data.SessionID,
		JobID:            jobID,
		StoryboardKey:    data.StoryboardKey,
		Version:          data.Version,
		HighLevelSummary: data.HighLevelSummary,
		job:              j,
	}
}

// StoryboardSession is a handle on a job's storyboard editing session,
// obtained via Job.InitStoryboard. The transcript lives server-side; the
// handle only caches the session coordinates (key, version, summary) as a
// convenience, refreshed by Get and by replies that carry new state. A
// session is not safe for concurrent use.
type StoryboardSession struct {
	SessionID     string
	JobID         string
	StoryboardKey string
	// Version is the storyboard revision number, bumped by edits.
	Version int
	// HighLevelSummary is the segment/macro overview of the storyboard:
	// {"segments": [...], "stats": {"total_segments": N, "total_macros": N}}.
	HighLevelSummary map[string]any

	job *Job
}

// Get refreshes the session state from the API and returns the handle.
func (s *StoryboardSession) Get(ctx context.Context) (*StoryboardSession, error) {
	var data sessionPayload
	if err := s.job.t.get(ctx, "/storyboard/"+s.SessionID, nil, &data); err != nil {
		return nil, err
	}

	s.StoryboardKey = data.StoryboardKey
	s.Version = data.Version
	s.HighLevelSummary = data.HighLevelSummary
	return s, nil
}

// Chat sends a natural-language instruction to the storyboard LLM and
// returns the assistant's reply. The round trip runs without the client's
// per-request timeout, since edits have no sensible upper bound; pass a ctx
// with a deadline to cap it. Local fields update when the reply carries
// changed session state.
func (s *StoryboardSession) Chat(ctx context.Context, message string) (string, error) {
	s.job.logger.Debug("storyboard chat",
		slog.String("session_id", s.SessionID),
		slog.String("message", message),
	)

	body := map[string]any{"message": message}

	var data chatResponse
	if err := s.job.t.do(ctx, http.MethodPost, "/storyboard/"+s.SessionID+"/chat", nil, body, &data, noTimeout); err != nil {
		return "", err
	}

	if data.HighLevelSummary != nil {
		s.HighLevelSummary = data.HighLevelSummary
	}
	if data.StoryboardKey != "" {
		s.StoryboardKey = data.StoryboardKey
	}
	if data.Version != 0 {
		s.Version = data.Version
	}

	return data.Reply, nil
}

// Finalize locks the storyboard and triggers blueprint generation: the
// finalize call returns the definitive storyboard key, and a review
// submission referencing that key moves the job toward READY_FOR_INJECT,
// after which Job.Render can be called. Finalizing twice, or finalizing
// while the job is not storyboard-eligible, surfaces the server's 409 as
// an *APIError matching ErrConflict.
func (s *StoryboardSession) Finalize(ctx context.Context) error {
	var data struct {
		StoryboardKey string `json:"storyboard_key"`
	}
	if err := s.job.t.post(ctx, "/storyboard/"+s.SessionID+"/finalize", nil, nil, &data); err != nil {
		return err
	}
	if data.StoryboardKey != "" {
		s.StoryboardKey = data.StoryboardKey
	}

	body := map[string]any{
		"decisions_json": map[string]any{
			"storyboard_key": s.StoryboardKey,
			"submitted_at":   time.Now().UTC().Format(time.RFC3339),
		},
	}
	if err := s.job.t.post(ctx, "/jobs/"+s.JobID+"/review", nil, body, nil); err != nil {
		return err
	}

	s.job.logger.Info("storyboard finalized",
		slog.String("job_id", s.JobID),
		slog.String("storyboard_key", s.StoryboardKey),
	)

	return nil
}

// Regenerate discards the current storyboard and generates a fresh one
// under style, waiting for the new session to become ready the same way
// InitStoryboard does. The current handle is no longer valid afterwards;
// use the returned session.
func (s *StoryboardSession) Regenerate(ctx context.Context, style string, timeout, pollInterval time.Duration) (*StoryboardSession, error) {
	s.job.logger.Debug("regenerating storyboard",
		slog.String("job_id", s.JobID),
	)

	return s.job.InitStoryboard(ctx, StoryboardOptions{
		Style:        style,
		Force:        true,
		Timeout:      timeout,
		PollInterval: pollInterval,
	})
}
