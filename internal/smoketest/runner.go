package smoketest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/pkg/logger"
)

// Terminal task states the poller waits for.
const (
	stateSucceeded = "succeeded"
	stateFailed    = "failed"
)

// ackResponse mirrors the POST /evaluations reply.
type ackResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

// taskResponse mirrors the GET /evaluations/{id} reply. Only the
// fields the verifier inspects are declared.
type taskResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
	Error  string `json:"error"`
	Result *struct {
		Pronunciation struct {
			Score float64 `json:"score"`
		} `json:"pronunciation"`
		Pacing struct {
			WordsPerMinute float64 `json:"words_per_minute"`
			Category       string  `json:"category"`
		} `json:"pacing"`
		Pauses struct {
			PauseCount int `json:"pause_count"`
		} `json:"pauses"`
		TextFeedback  string `json:"text_feedback"`
		FeedbackError string `json:"feedback_error"`
	} `json:"result"`
}

// Run executes the complete smoke test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting evaluation smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.String("audioFile", config.AudioFile),
		logger.Int("maxPolls", config.MaxPolls),
		logger.Duration("pollInterval", config.PollInterval),
	)

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Submit the audio file
	taskID, err := submitAudio(ctx, client, config)
	if err != nil {
		return fmt.Errorf("audio submission failed: %w", err)
	}
	stats.TaskID = taskID
	logger.Get().Info(ctx, "audio accepted", logger.String("taskID", taskID))

	// Step 3: Poll the task until it settles
	task, polls, err := pollTask(ctx, client, config, taskID)
	if err != nil {
		return fmt.Errorf("task polling failed: %w", err)
	}
	stats.Polls = polls
	stats.FinalState = task.Status

	// Step 4: Verify the evaluation shape
	if err := verifyTask(task); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	logger.Get().Info(ctx, "smoke test completed successfully",
		logger.String("taskID", stats.TaskID),
		logger.String("finalState", stats.FinalState),
		logger.Int("polls", stats.Polls),
		logger.String("duration", stats.Duration.String()),
	)
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *httpClient, config *Config) error {
	resp, err := client.get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	return nil
}

// submitAudio uploads the audio file and returns the assigned task id.
func submitAudio(ctx context.Context, client *httpClient, config *Config) (string, error) {
	resp, err := client.postFile(ctx, config.BaseURL+"/evaluations", config.AudioFile)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusAccepted {
		resp.Body.Close()
		return "", fmt.Errorf("unexpected submit status: %d", resp.StatusCode)
	}
	var ack ackResponse
	if err := decodeBody(resp, &ack); err != nil {
		return "", err
	}
	if ack.TaskID == "" {
		return "", fmt.Errorf("no task id in response")
	}
	return ack.TaskID, nil
}

// pollTask fetches the task state until it reaches a terminal status.
func pollTask(ctx context.Context, client *httpClient, config *Config, taskID string) (*taskResponse, int, error) {
	url := config.BaseURL + "/evaluations/" + taskID
	for attempt := 1; attempt <= config.MaxPolls; attempt++ {
		resp, err := client.get(ctx, url)
		if err != nil {
			return nil, attempt, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, attempt, fmt.Errorf("unexpected status poll response: %d", resp.StatusCode)
		}
		var task taskResponse
		if err := decodeBody(resp, &task); err != nil {
			return nil, attempt, err
		}

		if config.Verbose {
			logger.Get().Info(ctx, "poll", logger.Int("attempt", attempt), logger.String("status", task.Status))
		}

		switch task.Status {
		case stateSucceeded, stateFailed:
			return &task, attempt, nil
		}

		select {
		case <-ctx.Done():
			return nil, attempt, fmt.Errorf("polling cancelled: %w", ctx.Err())
		case <-time.After(config.PollInterval):
		}
	}
	return nil, config.MaxPolls, fmt.Errorf("task did not settle within %d polls", config.MaxPolls)
}

// verifyTask checks the terminal task for shape problems.
func verifyTask(task *taskResponse) error {
	if task.Status == stateFailed {
		return fmt.Errorf("task failed: %s", task.Error)
	}
	if task.Result == nil {
		return fmt.Errorf("succeeded task has no result")
	}
	r := task.Result
	if r.Pronunciation.Score < 0 || r.Pronunciation.Score > 100 {
		return fmt.Errorf("pronunciation score out of range: %f", r.Pronunciation.Score)
	}
	if r.Pacing.Category == "" {
		return fmt.Errorf("missing pacing category")
	}
	if r.Pauses.PauseCount < 0 {
		return fmt.Errorf("negative pause count: %d", r.Pauses.PauseCount)
	}
	if r.TextFeedback == "" && r.FeedbackError == "" {
		return fmt.Errorf("neither text feedback nor feedback error present")
	}
	return nil
}
