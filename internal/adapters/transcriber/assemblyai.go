// Package transcriber implements the transcription provider boundary.
// The AssemblyAI client uploads the audio file, submits a transcription
// job, and polls until the provider reports a terminal status.
package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/domain/model"
	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/pkg/logger"
)

// Default client configuration constants.
const (
	defaultBaseURL      = "https://api.assemblyai.com/v2"
	defaultPollInterval = time.Second
	defaultMaxPolls     = 60
	defaultMaxRetries   = 3
	defaultHTTPTimeout  = 120 * time.Second
	retryBaseDelay      = 2 * time.Second
)

// Client talks to the AssemblyAI v2 REST API.
type Client struct {
	apiKey       string
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	maxPolls     int
	maxRetries   int
	retryDelay   time.Duration
	logger       logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithPollInterval sets the delay between transcript status polls.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// WithMaxPolls caps the number of status polls before giving up.
func WithMaxPolls(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxPolls = n
		}
	}
}

// WithMaxRetries sets the number of upload attempts.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithRetryDelay sets the base delay for upload retry backoff.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.retryDelay = d
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates an AssemblyAI client. The API key is required.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{
		apiKey:       apiKey,
		baseURL:      defaultBaseURL,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
		pollInterval: defaultPollInterval,
		maxPolls:     defaultMaxPolls,
		maxRetries:   defaultMaxRetries,
		retryDelay:   retryBaseDelay,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// apiWord mirrors the provider's word schema (timestamps in ms).
type apiWord struct {
	Text       string  `json:"text"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
}

// apiTranscript mirrors the provider's transcript schema.
type apiTranscript struct {
	ID            string    `json:"id"`
	Status        string    `json:"status"`
	Text          string    `json:"text"`
	Words         []apiWord `json:"words"`
	AudioDuration float64   `json:"audio_duration"` // seconds
	Error         string    `json:"error"`
}

// Transcribe uploads the audio file and returns the parsed transcript.
func (c *Client) Transcribe(ctx context.Context, audioPath, mimeType string) (model.Transcript, error) {
	uploadURL, err := c.uploadWithRetry(ctx, audioPath, mimeType)
	if err != nil {
		return model.Transcript{}, err
	}

	id, err := c.submit(ctx, uploadURL)
	if err != nil {
		return model.Transcript{}, err
	}

	raw, err := c.poll(ctx, id)
	if err != nil {
		return model.Transcript{}, err
	}

	return parseTranscript(raw), nil
}

// uploadWithRetry uploads with exponential backoff for transient
// network errors.
func (c *Client) uploadWithRetry(ctx context.Context, audioPath, mimeType string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay << (attempt - 1)
			if c.logger != nil {
				c.logger.Warn(ctx, "upload attempt failed, retrying",
					logger.Int("attempt", attempt),
					logger.Duration("delay", delay),
					logger.Error(lastErr),
				)
			}
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("upload cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		url, err := c.upload(ctx, audioPath, mimeType)
		if err == nil {
			return url, nil
		}
		lastErr = err

		// Client-side rejections never heal on retry.
		if isPermanent(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("upload failed after %d attempts: %w", c.maxRetries, lastErr)
}

// upload streams the audio file to the provider's upload endpoint.
func (c *Client) upload(ctx context.Context, audioPath, mimeType string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", f)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("content-type", mimeType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// fall through to decode
	case http.StatusUnauthorized:
		return "", ErrUnauthorized
	case http.StatusRequestEntityTooLarge:
		return "", ErrFileTooLarge
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	default:
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload %s: %s", resp.Status, string(body))
	}

	var out struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("upload decode: %w", err)
	}
	if out.UploadURL == "" {
		return "", fmt.Errorf("upload: no upload_url in response")
	}
	return out.UploadURL, nil
}

// submit creates a transcription job for an uploaded audio URL.
func (c *Client) submit(ctx context.Context, audioURL string) (string, error) {
	payload, err := json.Marshal(map[string]string{"audio_url": audioURL})
	if err != nil {
		return "", fmt.Errorf("submit encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcript", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build submit request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("submit %s: %s", resp.Status, string(body))
	}

	var out apiTranscript
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("submit decode: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("submit: no transcript id in response")
	}
	return out.ID, nil
}

// poll fetches the transcript status until the provider reports a
// terminal state or the attempt limit runs out.
func (c *Client) poll(ctx context.Context, id string) (apiTranscript, error) {
	for attempt := 0; attempt < c.maxPolls; attempt++ {
		raw, err := c.fetch(ctx, id)
		if err != nil {
			return apiTranscript{}, err
		}

		switch raw.Status {
		case "completed":
			return raw, nil
		case "error":
			return apiTranscript{}, fmt.Errorf("%w: %s", ErrTranscription, raw.Error)
		case "queued", "processing":
			select {
			case <-ctx.Done():
				return apiTranscript{}, fmt.Errorf("poll cancelled: %w", ctx.Err())
			case <-time.After(c.pollInterval):
			}
		default:
			return apiTranscript{}, fmt.Errorf("%w: unknown status %q", ErrTranscription, raw.Status)
		}
	}
	return apiTranscript{}, ErrPollTimeout
}

// fetch retrieves the current transcript state.
func (c *Client) fetch(ctx context.Context, id string) (apiTranscript, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transcript/"+id, nil)
	if err != nil {
		return apiTranscript{}, fmt.Errorf("build poll request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apiTranscript{}, fmt.Errorf("poll request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return apiTranscript{}, fmt.Errorf("poll %s: %s", resp.Status, string(body))
	}

	var out apiTranscript
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return apiTranscript{}, fmt.Errorf("poll decode: %w", err)
	}
	return out, nil
}

// parseTranscript converts the provider schema into the domain model.
// Word timestamps stay in milliseconds.
func parseTranscript(raw apiTranscript) model.Transcript {
	words := make([]model.Word, 0, len(raw.Words))
	for _, w := range raw.Words {
		words = append(words, model.Word{
			Text:       w.Text,
			StartMS:    w.Start,
			EndMS:      w.End,
			Confidence: w.Confidence,
		})
	}
	return model.Transcript{
		Text:            raw.Text,
		Words:           words,
		AudioDurationMS: int(raw.AudioDuration * 1000),
	}
}
