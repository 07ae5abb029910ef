package getmotion

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Default polling parameters for WaitFor and the storyboard readiness waits.
const (
	DefaultWaitTimeout  = 5 * time.Minute
	DefaultPollInterval = 3 * time.Second
)

// pollUntil is the shared wait loop. It calls poll, stops when poll reports
// done or returns an error, and otherwise enforces the deadline before
// sleeping one interval. The ordering matters: poll runs before the deadline
// check, so a timeout <= 0 still performs exactly one poll, and a failure
// discovered by poll wins over an already-expired deadline. An interval <= 0
// falls back to DefaultPollInterval.
func pollUntil(ctx context.Context, timeout, interval time.Duration, poll func(context.Context) (bool, error), onTimeout func() error) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	start := time.Now()
	for {
		done, err := poll(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		if time.Since(start) >= timeout {
			return onTimeout()
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("getmotion: wait cancelled: %w", ctx.Err())
		case <-time.After(interval):
		}
	}
}

// WaitFor blocks until the job's freshly fetched status matches target, the
// job reaches a terminal failure, the timeout elapses, or ctx is cancelled.
//
// Every iteration re-reads the status from the server, so no decision is
// ever made on a stale value. A terminal failure (FAILED or CANCELLED)
// observed on any poll returns *JobFailedError with the server-reported
// code and detail, even when the deadline has already passed by then. On
// timeout the returned *WaitTimeoutError carries the last observed status.
// Transport and API errors from the status fetch propagate as-is.
//
// A timeout <= 0 performs exactly one poll. If the target is already
// current on the first poll, WaitFor returns without sleeping. Cancellation
// via ctx is the way to interrupt a wait early; callers that need to keep
// going while a wait is in flight run it on a goroutine.
func (j *Job) WaitFor(ctx context.Context, target Status, timeout, pollInterval time.Duration) (StatusPayload, error) {
	var (
		payload    StatusPayload
		lastDetail string
	)

	poll := func(ctx context.Context) (bool, error) {
		p, err := j.Status(ctx)
		if err != nil {
			return false, err
		}
		payload = p
		current := p.Status()

		if detail := p.StepDetail(); detail != "" && detail != lastDetail {
			j.logger.Info("job progress",
				slog.String("job_id", j.ID),
				slog.String("status", string(current)),
				slog.String("step_detail", detail),
			)
			lastDetail = detail
		}

		if current.Matches(target) {
			return true, nil
		}
		if current.IsTerminalFailure() {
			code, detail := p.ErrorInfo()
			return false, &JobFailedError{JobID: j.ID, Status: current, Code: code, Detail: detail}
		}
		return false, nil
	}

	onTimeout := func() error {
		return &WaitTimeoutError{JobID: j.ID, Target: target, LastStatus: payload.Status(), Timeout: timeout}
	}

	if err := pollUntil(ctx, timeout, pollInterval, poll, onTimeout); err != nil {
		return nil, err
	}

	return payload, nil
}
