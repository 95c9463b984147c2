// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/anteroom-foundation/anteroom/lib/store"
)

// Note is a pinned operator note: a fact or reminder the operator
// wants at hand across sessions, independent of the gateway.
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Pinned    bool      `json:"pinned,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notebook is a JSON file of notes under the console state directory.
type Notebook struct {
	path string
}

// OpenNotebook returns the notebook stored at path. The file is
// created on first Add.
func OpenNotebook(path string) *Notebook {
	return &Notebook{path: path}
}

// List returns all notes, pinned first, newest first within each
// group.
func (n *Notebook) List() ([]Note, error) {
	notes, err := n.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Pinned != notes[j].Pinned {
			return notes[i].Pinned
		}
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes, nil
}

// Add stores a new note and returns it with its assigned id.
func (n *Notebook) Add(text string, pinned bool) (Note, error) {
	if text == "" {
		return Note{}, fmt.Errorf("console: note text is required")
	}
	notes, err := n.load()
	if err != nil {
		return Note{}, err
	}
	note := Note{
		ID:        uuid.NewString(),
		Text:      text,
		Pinned:    pinned,
		CreatedAt: time.Now().UTC(),
	}
	notes = append(notes, note)
	if err := store.SaveJSON(n.path, notes); err != nil {
		return Note{}, err
	}
	return note, nil
}

// Pin sets the pinned flag on the note with the given id.
func (n *Notebook) Pin(id string, pinned bool) error {
	notes, err := n.load()
	if err != nil {
		return err
	}
	for i := range notes {
		if notes[i].ID == id {
			notes[i].Pinned = pinned
			return store.SaveJSON(n.path, notes)
		}
	}
	return fmt.Errorf("console: no note with id %q", id)
}

// Remove deletes the note with the given id.
func (n *Notebook) Remove(id string) error {
	notes, err := n.load()
	if err != nil {
		return err
	}
	kept := notes[:0]
	for _, note := range notes {
		if note.ID != id {
			kept = append(kept, note)
		}
	}
	if len(kept) == len(notes) {
		return fmt.Errorf("console: no note with id %q", id)
	}
	return store.SaveJSON(n.path, kept)
}

func (n *Notebook) load() ([]Note, error) {
	var notes []Note
	if err := store.LoadJSON(n.path, &notes); err != nil {
		if errors.Is(err, store.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return notes, nil
}
