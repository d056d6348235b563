// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Form field carrying the audio file in POST /evaluations.
const uploadFieldName = "file"

// allowedExtensions maps accepted upload extensions to their MIME types.
var allowedExtensions = map[string]string{
	".wav": "audio/wav",
	".mp3": "audio/mpeg",
}

// EvaluationDependencies defines the interface for submission dependencies.
type EvaluationDependencies interface {
	CreateTask(ctx context.Context, t Task) error
	FailTask(ctx context.Context, id, reason string) error
	Enqueue(ctx context.Context, j Job) bool
}

// EvaluationsHandler handles audio submission requests.
type EvaluationsHandler struct {
	deps           EvaluationDependencies
	uploadDir      string
	maxUploadBytes int64
}

// NewEvaluationsHandler creates a new evaluations handler.
func NewEvaluationsHandler(deps EvaluationDependencies, uploadDir string, maxUploadBytes int64) *EvaluationsHandler {
	return &EvaluationsHandler{
		deps:           deps,
		uploadDir:      uploadDir,
		maxUploadBytes: maxUploadBytes,
	}
}

// HandlePostEvaluation handles POST /evaluations requests. The audio
// file is spooled to disk and the task is queued for async processing.
func (h *EvaluationsHandler) HandlePostEvaluation(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_evaluation"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", NewKind(op, ErrPayloadTooLarge))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	file, header, err := r.FormFile(uploadFieldName)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing file field")))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	mimeType, ok := allowedExtensions[ext]
	if !ok {
		writeError(w, http.StatusBadRequest, "unsupported_type", NewKind(op, ErrUnsupportedType))
		return
	}

	taskID := uuid.NewString()
	audioPath := filepath.Join(h.uploadDir, taskID+ext)
	if err := h.spool(file, audioPath); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	task := Task{
		ID:       taskID,
		FileName: header.Filename,
	}
	if err := h.deps.CreateTask(r.Context(), task); err != nil {
		h.removeSpool(audioPath)
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	job := Job{
		TaskID:    taskID,
		AudioPath: audioPath,
		FileName:  header.Filename,
		MimeType:  mimeType,
	}
	if ok := h.deps.Enqueue(r.Context(), job); !ok {
		// Roll back: the task exists but will never be processed.
		_ = h.deps.FailTask(r.Context(), taskID, "queue full")
		h.removeSpool(audioPath)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}

	writeJSON(w, http.StatusAccepted, ackResponse{TaskID: taskID, Status: "pending"})
}

// spool copies the uploaded file to its working location on disk.
func (h *EvaluationsHandler) spool(src io.Reader, path string) error {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return err
	}
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return dst.Close()
}

func (h *EvaluationsHandler) removeSpool(path string) {
	_ = os.Remove(path)
}

// isTooLarge detects the MaxBytesReader limit error.
func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
