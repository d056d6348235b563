package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/smoketest"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/pkg/logger"
)

// Default configuration constants.
const (
	defaultTimeout      = 30 * time.Second
	defaultPollInterval = 2 * time.Second
	defaultMaxPolls     = 90
	defaultTestTimeout  = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:8080", "Base URL of the service")
		audioFile    = flag.String("audio", "", "Path of the audio file to submit (.wav or .mp3)")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		pollInterval = flag.Duration("poll-interval", defaultPollInterval, "Delay between status polls")
		maxPolls     = flag.Int("max-polls", defaultMaxPolls, "Maximum number of status polls")
		verbose      = flag.Bool("verbose", false, "Enable per-poll logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	if *audioFile == "" {
		os.Stderr.WriteString("missing required -audio flag\n")
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &smoketest.Config{
		BaseURL:      *baseURL,
		AudioFile:    *audioFile,
		Timeout:      *timeout,
		PollInterval: *pollInterval,
		MaxPolls:     *maxPolls,
		Verbose:      *verbose,
	}

	if err := smoketest.Run(ctx, config); err != nil {
		os.Stderr.WriteString("smoke test failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
