package getmotion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestRender_Queues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/jobs/job-1/render" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("force") != "true" {
			t.Errorf("expected force=true, got %q", q.Get("force"))
		}
		if q.Get("keep_bin") != "true" {
			t.Errorf("expected keep_bin=true, got %q", q.Get("keep_bin"))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"job_id":  "job-1",
			"status":  "QUEUED_INJECT",
			"message": "render queued",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	job := newTestJob(client, "job-1")

	ack, err := job.Render(context.Background(), RenderOptions{Force: true, KeepBin: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ack.Status != StatusQueuedInject {
		t.Errorf("expected QUEUED_INJECT, got %s", ack.Status)
	}
	if ack.Message != "render queued" {
		t.Errorf("expected message, got %q", ack.Message)
	}
}

func TestRender_DefaultOptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("expected no query parameters, got %q", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"job_id": "job-1", "status": "QUEUED_INJECT"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	job := newTestJob(client, "job-1")

	if _, err := job.Render(context.Background(), RenderOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRender_NotReady(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "job is not ready to render"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	job := newTestJob(client, "job-1")

	_, err := job.Render(context.Background(), RenderOptions{})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestListRenderVersions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs/job-1/renders/versions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"versions": []map[string]any{{"version": "v1"}, {"version": "v2"}},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	job := newTestJob(client, "job-1")

	versions, err := job.ListRenderVersions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(versions))
	}
	if versions[0].Version != "v1" || versions[1].Version != "v2" {
		t.Errorf("expected oldest-first order preserved, got %v", versions)
	}
}

func TestGetRenders_SpecificVersion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs/job-1/renders/versions/v2" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"renders": []map[string]any{
				{"s3_key": "renders/job-1/v2/final.mp4", "url": "https://cdn.example.com/final.mp4", "bytes": 1024.0},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	job := newTestJob(client, "job-1")

	result, err := job.GetRenders(context.Background(), "v2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Renders) != 1 {
		t.Fatalf("expected 1 render, got %d", len(result.Renders))
	}
	if result.Renders[0].S3Key != "renders/job-1/v2/final.mp4" {
		t.Errorf("unexpected key: %q", result.Renders[0].S3Key)
	}
	if result.Renders[0].Bytes != 1024 {
		t.Errorf("expected 1024 bytes, got %d", result.Renders[0].Bytes)
	}
}

func TestGetRenders_ResolvesHighestVersion(t *testing.T) {
	var fetched string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/jobs/job-1/renders/versions":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"versions": []map[string]any{{"version": "v1"}, {"version": "v10"}, {"version": "v9"}},
			})
		default:
			fetched = r.URL.Path
			_ = json.NewEncoder(w).Encode(map[string]any{"renders": []map[string]any{{"s3_key": "k"}}})
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	job := newTestJob(client, "job-1")

	if _, err := job.GetRenders(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// v10 beats v9 numerically even though "v9" sorts after "v10"
	if fetched != "/jobs/job-1/renders/versions/v10" {
		t.Errorf("expected highest version v10 fetched, got %s", fetched)
	}
}

func TestGetRenders_NoVersions(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/jobs/job-1/renders/versions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"versions": []any{}})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	job := newTestJob(client, "job-1")

	result, err := job.GetRenders(context.Background(), "")
	if err != nil {
		t.Fatalf("expected empty result, not error, got %v", err)
	}
	if result.Renders == nil || len(result.Renders) != 0 {
		t.Errorf("expected empty renders slice, got %v", result.Renders)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected only the versions call, got %d requests", got)
	}
}

func TestVersionLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"v1", "v2", true},
		{"v9", "v10", true},
		{"v10", "v9", false},
		{"v3", "v3", false},
		{"alpha", "beta", true},
		{"v2", "final", true}, // mixed forms fall back to lexicographic
	}

	for _, tt := range tests {
		t.Run(tt.a+"<"+tt.b, func(t *testing.T) {
			if got := versionLess(tt.a, tt.b); got != tt.want {
				t.Errorf("versionLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDownloadRender(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("video bytes"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	dest := filepath.Join(t.TempDir(), "final.mp4")
	render := Render{S3Key: "renders/job-1/v1/final.mp4", URL: server.URL + "/final.mp4"}

	if err := client.DownloadRender(context.Background(), render, dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("failed to read downloaded file: %v", err)
	}
	if string(content) != "video bytes" {
		t.Errorf("unexpected file content: %q", string(content))
	}
}

func TestDownloadRender_NoURL(t *testing.T) {
	client := newTestClient(t, "http://unused.invalid")

	err := client.DownloadRender(context.Background(), Render{S3Key: "k"}, filepath.Join(t.TempDir(), "out.mp4"))
	if !errors.Is(err, ErrNoRenderURL) {
		t.Errorf("expected ErrNoRenderURL, got %v", err)
	}
}

func TestDownloadRender_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	err := client.DownloadRender(context.Background(), Render{URL: server.URL + "/expired"}, filepath.Join(t.TempDir(), "out.mp4"))
	if err == nil {
		t.Error("expected error for expired presigned URL")
	}
}
