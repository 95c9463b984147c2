// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testState struct {
	Gateway string   `json:"gateway"`
	Tags    []string `json:"tags,omitempty"`
}

func TestJSONRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	original := testState{Gateway: "ws://gw.local", Tags: []string{"prod"}}

	if err := SaveJSON(path, original); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}
	var loaded testState
	if err := LoadJSON(path, &loaded); err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if loaded.Gateway != original.Gateway || len(loaded.Tags) != 1 {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", loaded, original)
	}
}

func TestJSONIsHumanReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := SaveJSON(path, testState{Gateway: "ws://gw.local"}); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"gateway\"") {
		t.Errorf("file is not indented:\n%s", data)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("file has no trailing newline")
	}
}

func TestCBORRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.cbor")
	original := testState{Gateway: "ws://gw.local", Tags: []string{"a", "b"}}

	if err := SaveCBOR(path, original); err != nil {
		t.Fatalf("SaveCBOR: %v", err)
	}
	var loaded testState
	if err := LoadCBOR(path, &loaded); err != nil {
		t.Fatalf("LoadCBOR: %v", err)
	}
	if loaded.Gateway != original.Gateway || len(loaded.Tags) != 2 {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", loaded, original)
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")
	var state testState
	err := LoadJSON(path, &state)
	if !errors.Is(err, ErrNotExist) {
		t.Fatalf("LoadJSON on missing file: err = %v, want ErrNotExist", err)
	}
	if err := LoadCBOR(path, &state); !errors.Is(err, ErrNotExist) {
		t.Fatalf("LoadCBOR on missing file: err = %v, want ErrNotExist", err)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	if err := os.WriteFile(path, []byte("{truncated"), 0600); err != nil {
		t.Fatal(err)
	}
	var state testState
	err := LoadJSON(path, &state)
	if err == nil {
		t.Fatal("LoadJSON accepted corrupt input")
	}
	if errors.Is(err, ErrNotExist) {
		t.Fatal("corrupt file misreported as missing")
	}
}

func TestSaveReplacesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := SaveJSON(path, testState{Gateway: "first"}); err != nil {
		t.Fatalf("first SaveJSON: %v", err)
	}
	if err := SaveJSON(path, testState{Gateway: "second"}); err != nil {
		t.Fatalf("second SaveJSON: %v", err)
	}

	var loaded testState
	if err := LoadJSON(path, &loaded); err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if loaded.Gateway != "second" {
		t.Errorf("loaded %q, want the replacement", loaded.Gateway)
	}

	// No temporary file is left behind.
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("temporary file still present: %v", err)
	}
}

func TestFilePermissions(t *testing.T) {
	directory := filepath.Join(t.TempDir(), "private")
	path := filepath.Join(directory, "state.json")
	if err := SaveJSON(path, testState{Gateway: "ws://gw"}); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("file mode = %o, want 0600", mode)
	}
	dirInfo, err := os.Stat(directory)
	if err != nil {
		t.Fatalf("Stat dir: %v", err)
	}
	if mode := dirInfo.Mode().Perm(); mode != 0700 {
		t.Errorf("directory mode = %o, want 0700", mode)
	}
}
