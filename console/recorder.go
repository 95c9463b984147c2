// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/anteroom-foundation/anteroom/gateway"
)

// Recorder appends received gateway events to a zstd-compressed JSONL
// transcript, one file per console session. Wire its Record method as
// the client's OnEvent hook (possibly wrapped, when the session also
// displays events live).
type Recorder struct {
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	file    *os.File
	zw      *zstd.Encoder
	encoder *json.Encoder
	closed  bool
}

// transcriptLine is one recorded event.
type transcriptLine struct {
	ReceivedAt time.Time       `json:"receivedAt"`
	Event      string          `json:"event"`
	Seq        int64           `json:"seq,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// NewRecorder opens a fresh transcript in dir, named after the
// session start time. A nil logger means slog.Default().
func NewRecorder(dir string, logger *slog.Logger) (*Recorder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("console: creating transcript directory: %w", err)
	}

	name := time.Now().UTC().Format("20060102T150405Z") + ".jsonl.zst"
	path := filepath.Join(dir, name)
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, fmt.Errorf("console: creating transcript %s: %w", path, err)
	}

	zw, err := zstd.NewWriter(file)
	if err != nil {
		file.Close()
		os.Remove(path)
		return nil, fmt.Errorf("console: creating zstd writer: %w", err)
	}

	return &Recorder{
		path:    path,
		logger:  logger,
		file:    file,
		zw:      zw,
		encoder: json.NewEncoder(zw),
	}, nil
}

// Path returns the transcript file's location.
func (r *Recorder) Path() string {
	return r.path
}

// Record appends one event. It never returns an error: the OnEvent
// hook has nowhere to report one, so write failures are logged and
// the event dropped.
func (r *Recorder) Record(event gateway.Event) {
	line := transcriptLine{
		ReceivedAt: time.Now().UTC(),
		Event:      event.Name,
		Seq:        event.Seq,
		Payload:    event.Payload,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if err := r.encoder.Encode(line); err != nil {
		r.logger.Warn("transcript write failed", "path", r.path, "error", err)
	}
}

// Close flushes and closes the transcript. Record calls after Close
// are dropped.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	if err := r.zw.Close(); err != nil {
		r.file.Close()
		return fmt.Errorf("console: flushing transcript %s: %w", r.path, err)
	}
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("console: closing transcript %s: %w", r.path, err)
	}
	return nil
}
