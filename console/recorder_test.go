// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/anteroom-foundation/anteroom/gateway"
)

// readTranscript decompresses a transcript and decodes its lines.
func readTranscript(t *testing.T, path string) []transcriptLine {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening transcript: %v", err)
	}
	defer file.Close()

	reader, err := zstd.NewReader(file)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer reader.Close()

	var lines []transcriptLine
	decoder := json.NewDecoder(reader)
	for {
		var line transcriptLine
		if err := decoder.Decode(&line); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decoding transcript line: %v", err)
		}
		lines = append(lines, line)
	}
	return lines
}

func TestRecorderRoundtrip(t *testing.T) {
	dir := t.TempDir()
	recorder, err := NewRecorder(dir, nil)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	if !strings.HasSuffix(recorder.Path(), ".jsonl.zst") {
		t.Errorf("transcript path = %q", recorder.Path())
	}

	events := []gateway.Event{
		{Name: "heartbeat", Payload: json.RawMessage(`{"ts": 1}`), Seq: 1},
		{Name: "agent.status", Payload: json.RawMessage(`{"id": "ag-1", "status": "running"}`), Seq: 2},
		{Name: "heartbeat", Payload: json.RawMessage(`{"ts": 2}`), Seq: 3},
	}
	for _, event := range events {
		recorder.Record(event)
	}
	if err := recorder.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := readTranscript(t, recorder.Path())
	if len(lines) != len(events) {
		t.Fatalf("transcript has %d lines, want %d", len(lines), len(events))
	}
	for i, line := range lines {
		if line.Event != events[i].Name || line.Seq != events[i].Seq {
			t.Errorf("line %d = %+v, want %s seq %d", i, line, events[i].Name, events[i].Seq)
		}
		if line.ReceivedAt.IsZero() {
			t.Errorf("line %d has no timestamp", i)
		}
		if string(line.Payload) != string(events[i].Payload) {
			t.Errorf("line %d payload = %s, want %s", i, line.Payload, events[i].Payload)
		}
	}
}

func TestRecorderCloseIdempotent(t *testing.T) {
	recorder, err := NewRecorder(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	if err := recorder.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := recorder.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	// Records after Close are dropped, not a crash.
	recorder.Record(gateway.Event{Name: "late"})
}

func TestRecorderEmptyTranscriptIsValid(t *testing.T) {
	recorder, err := NewRecorder(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	if err := recorder.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if lines := readTranscript(t, recorder.Path()); len(lines) != 0 {
		t.Errorf("empty session produced %d lines", len(lines))
	}
}
