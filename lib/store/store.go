// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/anteroom-foundation/anteroom/lib/codec"
)

// ErrNotExist reports that the requested state file has never been
// written. Callers usually treat it as "start from empty".
var ErrNotExist = errors.New("store: state file does not exist")

// SaveJSON writes v to path as indented JSON, atomically.
func SaveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encoding %s: %w", path, err)
	}
	data = append(data, '\n')
	return writeAtomic(path, data)
}

// LoadJSON reads the JSON file at path into v. Returns ErrNotExist if
// the file has never been written.
func LoadJSON(path string, v any) error {
	data, err := readFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("store: parsing %s: %w", path, err)
	}
	return nil
}

// SaveCBOR writes v to path using deterministic CBOR, atomically.
func SaveCBOR(path string, v any) error {
	data, err := codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encoding %s: %w", path, err)
	}
	return writeAtomic(path, data)
}

// LoadCBOR reads the CBOR file at path into v. Returns ErrNotExist if
// the file has never been written.
func LoadCBOR(path string, v any) error {
	data, err := readFile(path)
	if err != nil {
		return err
	}
	if err := codec.Unmarshal(data, v); err != nil {
		return fmt.Errorf("store: parsing %s: %w", path, err)
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("store: %s: %w", path, ErrNotExist)
		}
		return nil, fmt.Errorf("store: reading %s: %w", path, err)
	}
	return data, nil
}

// writeAtomic writes data to a temporary file beside path, syncs it,
// and renames it into place. The parent directory is created with
// mode 0700 if missing.
func writeAtomic(path string, data []byte) error {
	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("store: creating directory %s: %w", directory, err)
	}

	temporaryPath := path + ".tmp"
	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("store: creating temporary file: %w", err)
	}

	// Write, sync, close, in that order. Any failure removes the
	// temporary file and leaves the previous version untouched.
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("store: writing temporary file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("store: syncing temporary file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("store: closing temporary file: %w", err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("store: renaming %s into place: %w", path, err)
	}

	// Sync the directory so the rename survives power loss.
	if parent, err := os.Open(directory); err == nil {
		parent.Sync()
		parent.Close()
	}
	return nil
}
