// Package main provides an end-to-end driver for the GetMotion video pipeline:
// create a job, upload the voiceover, review the proposal, refine the
// storyboard, and optionally render and download the finished video.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"

	getmotion "github.com/getmotion/getmotion-go"
	"github.com/getmotion/getmotion-go/internal/bootstrap"
	"github.com/getmotion/getmotion-go/internal/config"
	"github.com/getmotion/getmotion-go/internal/id"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	audioPath := flag.String("audio", "", "path to the voiceover audio file (required)")
	title := flag.String("title", "", "job title (default: generated)")
	style := flag.String("style", "", "storyboard style preset")
	chatMsg := flag.String("chat", "", "storyboard refinement instruction to send before finalizing")
	render := flag.Bool("render", false, "request a render after review and wait for completion")
	outDir := flag.String("out", "", "directory to download finished renders into")
	flag.Parse()

	if *audioPath == "" {
		flag.Usage()
		return errors.New("missing required -audio flag")
	}

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Create structured logger
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting pipeline",
		slog.String("base_url", cfg.BaseURL),
		slog.String("audio", *audioPath),
		slog.Bool("render", *render),
		slog.Bool("s3_enabled", cfg.S3Enabled()),
	)

	// Initialize the API client using bootstrap
	client, err := bootstrap.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	defer client.Close()

	// Ctrl-C cancels whichever wait is in flight
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobTitle := *title
	if jobTitle == "" {
		jobTitle = id.NewTitle()
	}

	fmt.Println("[1/6] creating job")
	job, err := client.Jobs.Create(ctx, getmotion.CreateJobParams{
		Title:          jobTitle,
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	fmt.Printf("      job %s (%s)\n", job.ID, jobTitle)

	fmt.Println("[2/6] uploading audio")
	key, err := job.UploadAudio(ctx, *audioPath, getmotion.UploadOptions{})
	if err != nil {
		return fmt.Errorf("upload audio: %w", err)
	}
	fmt.Printf("      uploaded %s as %s\n", filepath.Base(*audioPath), key)

	fmt.Println("[3/6] starting generation")
	if _, err := job.Start(ctx, getmotion.StartOptions{InputS3Key: key}); err != nil {
		return fmt.Errorf("start job: %w", err)
	}

	fmt.Println("[4/6] waiting for proposal review")
	payload, err := job.WaitFor(ctx, getmotion.StatusAwaitingReview, cfg.ReviewTimeout, cfg.PollInterval)
	if err != nil {
		return fmt.Errorf("wait for review: %w", err)
	}
	fmt.Printf("      status %s (stage %s)\n", payload.Status(), payload.Stage())

	proposal, err := job.GetProposal(ctx)
	if err != nil {
		return fmt.Errorf("get proposal: %w", err)
	}
	fmt.Printf("      proposal has %d entries\n", len(proposal))

	// Accept the proposal as-is; edits belong in the storyboard session
	if _, err := job.SubmitReview(ctx, proposal, getmotion.ReviewOptions{}); err != nil {
		return fmt.Errorf("submit review: %w", err)
	}

	fmt.Println("[5/6] storyboard session")
	sb, err := job.InitStoryboard(ctx, getmotion.StoryboardOptions{
		Style:        *style,
		PollInterval: cfg.PollInterval,
	})
	if err != nil {
		return fmt.Errorf("init storyboard: %w", err)
	}
	fmt.Printf("      session %s (v%d)\n", sb.SessionID, sb.Version)

	if *chatMsg != "" {
		reply, err := sb.Chat(ctx, *chatMsg)
		if err != nil {
			return fmt.Errorf("storyboard chat: %w", err)
		}
		fmt.Printf("      assistant: %s\n", reply)
	}

	if err := sb.Finalize(ctx); err != nil {
		return fmt.Errorf("finalize storyboard: %w", err)
	}
	fmt.Printf("      storyboard %s locked in\n", sb.StoryboardKey)

	fmt.Println("[6/6] final status")
	payload, err = job.Status(ctx)
	if err != nil {
		return fmt.Errorf("fetch status: %w", err)
	}
	fmt.Printf("      status %s (stage %s)\n", payload.Status(), payload.Stage())

	if !*render {
		logger.Info("pipeline finished", slog.String("job_id", job.ID))
		return nil
	}

	if err := renderAndDownload(ctx, cfg, client, job, *outDir); err != nil {
		return err
	}

	logger.Info("pipeline finished", slog.String("job_id", job.ID))
	return nil
}

// renderAndDownload kicks off a render, waits for the job to complete, and
// prints (and optionally downloads) the resulting video files.
func renderAndDownload(ctx context.Context, cfg *config.Config, client *getmotion.Client, job *getmotion.Job, outDir string) error {
	fmt.Println("      requesting render")
	ack, err := job.Render(ctx, getmotion.RenderOptions{Force: true, KeepBin: true})
	if err != nil {
		return fmt.Errorf("request render: %w", err)
	}
	if ack.Message != "" {
		fmt.Printf("      render queued: %s\n", ack.Message)
	}

	payload, err := job.WaitFor(ctx, getmotion.StatusCompleted, cfg.RenderTimeout, cfg.PollInterval)
	if err != nil {
		return fmt.Errorf("wait for render: %w", err)
	}
	fmt.Printf("      status %s (stage %s)\n", payload.Status(), payload.Stage())

	result, err := job.GetRenders(ctx, "")
	if err != nil {
		return fmt.Errorf("get renders: %w", err)
	}
	if len(result.Renders) == 0 {
		fmt.Println("      no renders available")
		return nil
	}

	for _, r := range result.Renders {
		fmt.Printf("      render %s (%d bytes): %s\n", r.S3Key, r.Bytes, r.URL)
		if outDir == "" {
			continue
		}
		dest := filepath.Join(outDir, filepath.Base(r.S3Key))
		if err := client.DownloadRender(ctx, r, dest); err != nil {
			return fmt.Errorf("download render: %w", err)
		}
		fmt.Printf("      saved %s\n", dest)
	}
	return nil
}
