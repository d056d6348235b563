package transcriber_test

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
	"time"

	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/adapters/transcriber"
	. "github.com/smartystreets/goconvey/convey"
)

func writeTempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(path, []byte("RIFF fake audio"), 0o600); err != nil {
		t.Fatalf("write temp audio: %v", err)
	}
	return path
}

// fakeProvider mimics the transcription API: upload, submit, then a
// configurable number of processing polls before completion.
type fakeProvider struct {
	pollsBeforeDone int32
	polls           int32
	failUploads     int32
	uploads         int32
}

func (f *fakeProvider) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&f.uploads, 1)
		if n <= atomic.LoadInt32(&f.failUploads) {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/clip"})
	})
	mux.HandleFunc("/transcript", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["audio_url"] == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "tr-1", "status": "queued"})
	})
	mux.HandleFunc("/transcript/tr-1", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&f.polls, 1)
		if n <= f.pollsBeforeDone {
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "tr-1", "status": "processing"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":             "tr-1",
			"status":         "completed",
			"text":           "hi there",
			"audio_duration": 2.0,
			"words": []map[string]any{
				{"text": "hi", "start": 0, "end": 300, "confidence": 0.95},
				{"text": "there", "start": 1500, "end": 2000, "confidence": 0.4},
			},
		})
	})
	return mux
}

func TestClientTranscribe(t *testing.T) {
	Convey("Given a provider that completes after two polls", t, func() {
		provider := &fakeProvider{pollsBeforeDone: 2}
		ts := httptest.NewServer(provider.handler())
		defer ts.Close()

		client, err := transcriber.NewClient("key",
			transcriber.WithBaseURL(ts.URL),
			transcriber.WithPollInterval(10*time.Millisecond),
			transcriber.WithMaxPolls(10),
		)
		So(err, ShouldBeNil)

		Convey("When transcribing an audio file", func() {
			tr, err := client.Transcribe(context.Background(), writeTempAudio(t), "audio/wav")

			Convey("Then the transcript should carry the parsed words", func() {
				So(err, ShouldBeNil)
				So(tr.Text, ShouldEqual, "hi there")
				So(tr.Words, ShouldHaveLength, 2)
				So(tr.Words[0].Text, ShouldEqual, "hi")
				So(tr.Words[0].StartMS, ShouldEqual, 0)
				So(tr.Words[0].EndMS, ShouldEqual, 300)
				So(tr.Words[1].Confidence, ShouldEqual, 0.4)
				So(tr.AudioDurationMS, ShouldEqual, 2000)
			})

			Convey("And polling should have waited through processing", func() {
				So(atomic.LoadInt32(&provider.polls), ShouldEqual, 3)
			})
		})
	})

	Convey("Given a provider whose first upload attempt fails", t, func() {
		provider := &fakeProvider{failUploads: 1}
		ts := httptest.NewServer(provider.handler())
		defer ts.Close()

		client, err := transcriber.NewClient("key",
			transcriber.WithBaseURL(ts.URL),
			transcriber.WithPollInterval(10*time.Millisecond),
			transcriber.WithMaxRetries(3),
			transcriber.WithRetryDelay(10*time.Millisecond),
		)
		So(err, ShouldBeNil)

		Convey("When transcribing", func() {
			_, err := client.Transcribe(context.Background(), writeTempAudio(t), "audio/wav")

			Convey("Then the retry should recover", func() {
				So(err, ShouldBeNil)
				So(atomic.LoadInt32(&provider.uploads), ShouldEqual, 2)
			})
		})
	})

	Convey("Given a provider that rejects the API key", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer ts.Close()

		client, err := transcriber.NewClient("bad-key",
			transcriber.WithBaseURL(ts.URL),
			transcriber.WithMaxRetries(3),
		)
		So(err, ShouldBeNil)

		Convey("When transcribing", func() {
			_, err := client.Transcribe(context.Background(), writeTempAudio(t), "audio/wav")

			Convey("Then the failure should be permanent, not retried", func() {
				So(errors.Is(err, transcriber.ErrUnauthorized), ShouldBeTrue)
			})
		})
	})

	Convey("Given a provider that reports a transcription error", t, func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/clip"})
		})
		mux.HandleFunc("/transcript", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "tr-1", "status": "queued"})
		})
		mux.HandleFunc("/transcript/tr-1", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "tr-1", "status": "error", "error": "audio too noisy"})
		})
		ts := httptest.NewServer(mux)
		defer ts.Close()

		client, err := transcriber.NewClient("key", transcriber.WithBaseURL(ts.URL))
		So(err, ShouldBeNil)

		Convey("When transcribing", func() {
			_, err := client.Transcribe(context.Background(), writeTempAudio(t), "audio/wav")

			Convey("Then the provider message should surface", func() {
				So(errors.Is(err, transcriber.ErrTranscription), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "audio too noisy")
			})
		})
	})

	Convey("Given no API key", t, func() {
		Convey("When constructing a client", func() {
			_, err := transcriber.NewClient("")

			Convey("Then construction should fail", func() {
				So(errors.Is(err, transcriber.ErrMissingAPIKey), ShouldBeTrue)
			})
		})
	})
}
