// Package getmotion is a Go client for the GetMotion video production API.
//
// GetMotion turns an audio track into a rendered video through a staged,
// asynchronous pipeline: audio analysis, an AI asset proposal reviewed by a
// human, an interactive storyboard editing session, blueprint generation,
// and a GPU render. This package drives that pipeline from the client side:
// it creates jobs, uploads inputs, requests transitions, and polls job
// status until a target state, a failure, or a deadline.
//
// # Quick start
//
//	client, err := getmotion.New(os.Getenv("GETMOTION_API_KEY"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	ctx := context.Background()
//
//	job, err := client.Jobs.Create(ctx, getmotion.CreateJobParams{Title: "my-video"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if _, err := job.UploadAudio(ctx, "voiceover.mp3", getmotion.UploadOptions{}); err != nil {
//		log.Fatal(err)
//	}
//	if _, err := job.Start(ctx, getmotion.StartOptions{}); err != nil {
//		log.Fatal(err)
//	}
//
//	if _, err := job.WaitFor(ctx, getmotion.StatusAwaitingReview,
//		getmotion.DefaultWaitTimeout, getmotion.DefaultPollInterval); err != nil {
//		log.Fatal(err)
//	}
//	proposal, err := job.GetProposal(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if _, err := job.SubmitReview(ctx, proposal, getmotion.ReviewOptions{}); err != nil {
//		log.Fatal(err)
//	}
//
//	session, err := job.InitStoryboard(ctx, getmotion.StoryboardOptions{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if _, err := session.Chat(ctx, "make the transitions snappier"); err != nil {
//		log.Fatal(err)
//	}
//	if err := session.Finalize(ctx); err != nil {
//		log.Fatal(err)
//	}
//
//	if _, err := job.Render(ctx, getmotion.RenderOptions{}); err != nil {
//		log.Fatal(err)
//	}
//	if _, err := job.WaitFor(ctx, getmotion.StatusCompleted,
//		30*time.Minute, getmotion.DefaultPollInterval); err != nil {
//		log.Fatal(err)
//	}
//	renders, err := job.GetRenders(ctx, "")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Waiting and failure
//
// Job.WaitFor re-fetches the job status every PollInterval until the target
// status is reached. The SDK never caches remote state: each poll is a
// fresh read. A job that reaches FAILED or CANCELLED while being waited on
// returns *JobFailedError with the server-reported failure code; an expired
// deadline returns *WaitTimeoutError with the last observed status. Waits
// are cancellable through their context.
//
// # Errors
//
// API failures surface as *APIError; errors.Is classifies them against
// ErrAuthentication (401), ErrNotFound (404), ErrConflict (409) and
// ErrRequestFailed (any other non-2xx). Network failures wrap ErrTransport.
// Nothing is retried automatically; retry policy stays with the caller,
// where it can take the failure kind into account.
//
// # Concurrency
//
// A Client and its transport are safe for concurrent use across different
// jobs. The SDK imposes no per-job locking: callers that issue concurrent
// operations against the same job are responsible for their ordering. A
// StoryboardSession is not safe for concurrent use.
package getmotion
