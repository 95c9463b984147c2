// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"path/filepath"
	"testing"
)

func testNotebook(t *testing.T) *Notebook {
	t.Helper()
	return OpenNotebook(filepath.Join(t.TempDir(), "notes.json"))
}

func TestNotebookAddAndList(t *testing.T) {
	notebook := testNotebook(t)

	first, err := notebook.Add("gateway restarts every Sunday 03:00", false)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Errorf("Add did not assign id/timestamp: %+v", first)
	}
	if _, err := notebook.Add("staging token expires 2026-04-01", true); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := notebook.Add("ask ops about the proxy cert", false); err != nil {
		t.Fatalf("Add: %v", err)
	}

	notes, err := notebook.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(notes) != 3 {
		t.Fatalf("List returned %d notes, want 3", len(notes))
	}
	// Pinned first, then newest first.
	if !notes[0].Pinned {
		t.Errorf("first listed note is not the pinned one: %+v", notes[0])
	}
	if notes[1].Pinned || notes[2].Pinned {
		t.Errorf("pinned ordering wrong: %+v", notes)
	}
}

func TestNotebookRejectsEmptyText(t *testing.T) {
	if _, err := testNotebook(t).Add("", false); err == nil {
		t.Error("Add accepted an empty note")
	}
}

func TestNotebookPin(t *testing.T) {
	notebook := testNotebook(t)
	note, err := notebook.Add("remember the maintenance window", false)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := notebook.Pin(note.ID, true); err != nil {
		t.Fatalf("Pin: %v", err)
	}
	notes, err := notebook.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !notes[0].Pinned {
		t.Error("note not pinned after Pin")
	}

	if err := notebook.Pin("ghost", true); err == nil {
		t.Error("Pin of an unknown id succeeded")
	}
}

func TestNotebookRemove(t *testing.T) {
	notebook := testNotebook(t)
	note, err := notebook.Add("temporary", false)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := notebook.Remove(note.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	notes, err := notebook.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("note still present after Remove: %+v", notes)
	}
	if err := notebook.Remove("ghost"); err == nil {
		t.Error("Remove of an unknown id succeeded")
	}
}
