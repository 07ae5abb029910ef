package getmotion

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
)

// UploadTarget describes one storage location returned by the presign
// endpoint. When Fields is present the target expects a browser-style
// presigned POST form; otherwise it takes a plain PUT.
type UploadTarget struct {
	URL    string            `json:"url"`
	Key    string            `json:"key"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Uploader moves a local file to the storage location a presign target
// describes. The default implementation transfers over HTTP against the
// target URL; the s3upload package provides a direct-S3 alternative for
// deployments where the presigned URLs are not reachable.
type Uploader interface {
	Upload(ctx context.Context, target UploadTarget, path, contentType string) error
}

// presignResponse is the body of POST /presign.
type presignResponse struct {
	Targets []UploadTarget `json:"targets"`
}

// UploadOptions contains optional parameters for Job.UploadAudio.
type UploadOptions struct {
	// ContentType is the MIME type of the file, e.g. "audio/mpeg".
	// Inferred from the file extension when empty.
	ContentType string
}

// UploadAudio presigns and uploads an audio file as the job's input.
// Supports .mp3, .wav, .m4a and other audio formats. It returns the stored
// object key, usable as StartOptions.InputS3Key; the byte transfer itself
// is delegated to the client's Uploader.
func (j *Job) UploadAudio(ctx context.Context, path string, opts UploadOptions) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("getmotion: audio file not found: %w", err)
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(path))
	}
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	// The server keys job inputs under a fixed filename; the real name
	// only appears in the multipart form.
	body := map[string]any{
		"job_id":       j.ID,
		"filename":     "audio.mp3",
		"content_type": contentType,
	}

	var presigned presignResponse
	if err := j.t.post(ctx, "/presign", nil, body, &presigned); err != nil {
		return "", err
	}
	if len(presigned.Targets) == 0 {
		return "", ErrNoUploadTargets
	}

	for _, target := range presigned.Targets {
		if err := j.uploader.Upload(ctx, target, path, contentType); err != nil {
			return "", err
		}
		j.logger.Debug("audio uploaded",
			slog.String("job_id", j.ID),
			slog.String("key", target.Key),
		)
	}

	// The first target carries the root-level key
	return presigned.Targets[0].Key, nil
}

// presignUploader is the default Uploader. It honors the presign targets
// directly over HTTP: multipart POST when form fields are provided, plain
// PUT otherwise.
type presignUploader struct {
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Uploader = (*presignUploader)(nil)

func (u *presignUploader) Upload(ctx context.Context, target UploadTarget, path, contentType string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("getmotion: read audio file: %w", err)
	}

	if len(target.Fields) > 0 {
		return u.postForm(ctx, target, filepath.Base(path), data, contentType)
	}
	return u.put(ctx, target, data, contentType)
}

func (u *presignUploader) put(ctx context.Context, target UploadTarget, data []byte, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target.URL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("getmotion: create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	return u.send(req)
}

// postForm performs a browser-style presigned POST: the provided form
// fields first, the file part last, as S3 requires.
func (u *presignUploader) postForm(ctx context.Context, target UploadTarget, filename string, data []byte, contentType string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, value := range target.Fields {
		if err := w.WriteField(key, value); err != nil {
			return fmt.Errorf("getmotion: write form field: %w", err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return fmt.Errorf("getmotion: create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("getmotion: write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("getmotion: close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, &buf)
	if err != nil {
		return fmt.Errorf("getmotion: create upload request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return u.send(req)
}

func (u *presignUploader) send(req *http.Request) error {
	u.logger.Debug("upload request",
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
	)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, req.Method, req.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w with status %d: %s", ErrUploadFailed, resp.StatusCode, string(respBody))
	}

	return nil
}
