package getmotion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// RenderOptions contains optional parameters for Job.Render.
type RenderOptions struct {
	// Force queues a re-render even when renders already exist or one is
	// in progress.
	Force bool
	// KeepBin asks the server to retain the intermediate editing bin after
	// the render (advanced).
	KeepBin bool
}

// RenderAck is the server's acknowledgement of a render request. Status is
// QUEUED_INJECT when the render was queued, or the current job status when
// a render was already in progress.
type RenderAck struct {
	JobID   string `json:"job_id"`
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// RenderVersion identifies one render generation of a job.
type RenderVersion struct {
	Version string `json:"version"`
}

// Render is a single rendered output file.
type Render struct {
	S3Key string `json:"s3_key"`
	URL   string `json:"url,omitempty"`
	ETag  string `json:"etag,omitempty"`
	Bytes int64  `json:"bytes,omitempty"`
}

// RendersResult is the set of renders belonging to one version.
type RendersResult struct {
	Renders []Render `json:"renders"`
}

// Render queues the job for rendering. The job must be in READY_FOR_INJECT
// status (finalize the storyboard first). The call returns as soon as the
// render is queued; combine with WaitFor(StatusCompleted, ...) to block
// until the output exists.
func (j *Job) Render(ctx context.Context, opts RenderOptions) (RenderAck, error) {
	query := url.Values{}
	if opts.Force {
		query.Set("force", "true")
	}
	if opts.KeepBin {
		query.Set("keep_bin", "true")
	}

	var ack RenderAck
	if err := j.t.post(ctx, "/jobs/"+j.ID+"/render", query, nil, &ack); err != nil {
		return RenderAck{}, err
	}

	j.logger.Info("render requested",
		slog.String("job_id", j.ID),
		slog.String("status", string(ack.Status)),
	)

	return ack, nil
}

// ListRenderVersions returns the job's render versions, oldest-first.
func (j *Job) ListRenderVersions(ctx context.Context) ([]RenderVersion, error) {
	var resp struct {
		Versions []RenderVersion `json:"versions"`
	}
	if err := j.t.get(ctx, "/jobs/"+j.ID+"/renders/versions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Versions, nil
}

// GetRenders returns the renders of one version. An empty version resolves
// to the highest version identifier among ListRenderVersions; a job with no
// renders yet yields an empty result.
func (j *Job) GetRenders(ctx context.Context, version string) (RendersResult, error) {
	if version == "" {
		versions, err := j.ListRenderVersions(ctx)
		if err != nil {
			return RendersResult{}, err
		}
		if len(versions) == 0 {
			return RendersResult{Renders: []Render{}}, nil
		}

		version = versions[0].Version
		for _, v := range versions[1:] {
			if versionLess(version, v.Version) {
				version = v.Version
			}
		}
	}

	var result RendersResult
	if err := j.t.get(ctx, "/jobs/"+j.ID+"/renders/versions/"+version, nil, &result); err != nil {
		return RendersResult{}, err
	}
	return result, nil
}

// versionLess reports whether version identifier a orders before b.
// Identifiers of the form v<N> compare numerically (v10 sorts after v9);
// anything else falls back to lexicographic order.
func versionLess(a, b string) bool {
	na, aok := versionNumber(a)
	nb, bok := versionNumber(b)
	if aok && bok {
		return na < nb
	}
	return a < b
}

func versionNumber(v string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(v, "v"))
	if err != nil {
		return 0, false
	}
	return n, true
}

// DownloadRender streams a render's presigned URL to destPath.
func (c *Client) DownloadRender(ctx context.Context, r Render, destPath string) error {
	if r.URL == "" {
		return ErrNoRenderURL
	}
	if c.t.closed.Load() {
		return ErrClientClosed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return fmt.Errorf("getmotion: create download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: download render: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("getmotion: download failed with status %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("getmotion: create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("getmotion: copy render data: %w", err)
	}

	c.logger.Info("render downloaded",
		slog.String("key", r.S3Key),
		slog.String("dest", destPath),
	)

	return nil
}
