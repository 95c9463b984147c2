// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anteroom-foundation/anteroom/lib/store"
)

// Contact is one entry in the operator's address book: a person or
// system the agent may be asked to reach.
type Contact struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
	Tags    []string  `json:"tags,omitempty"`
	AddedAt time.Time `json:"addedAt"`
}

// AddressBook is a JSON file of contacts under the console state
// directory. Each mutation rewrites the whole file atomically; the
// book is small and edited by one operator.
type AddressBook struct {
	path string
}

// OpenAddressBook returns the address book stored at path. The file
// is created on first Add.
func OpenAddressBook(path string) *AddressBook {
	return &AddressBook{path: path}
}

// List returns all contacts sorted by name.
func (b *AddressBook) List() ([]Contact, error) {
	contacts, err := b.load()
	if err != nil {
		return nil, err
	}
	sort.Slice(contacts, func(i, j int) bool { return contacts[i].Name < contacts[j].Name })
	return contacts, nil
}

// Add stores a new contact and returns it with its assigned id.
func (b *AddressBook) Add(contact Contact) (Contact, error) {
	if contact.Name == "" {
		return Contact{}, fmt.Errorf("console: contact needs a name")
	}
	if contact.Address == "" {
		return Contact{}, fmt.Errorf("console: contact needs an address")
	}

	contacts, err := b.load()
	if err != nil {
		return Contact{}, err
	}
	contact.ID = uuid.NewString()
	contact.AddedAt = time.Now().UTC()
	contacts = append(contacts, contact)
	if err := store.SaveJSON(b.path, contacts); err != nil {
		return Contact{}, err
	}
	return contact, nil
}

// Remove deletes the contact with the given id.
func (b *AddressBook) Remove(id string) error {
	contacts, err := b.load()
	if err != nil {
		return err
	}
	kept := contacts[:0]
	for _, contact := range contacts {
		if contact.ID != id {
			kept = append(kept, contact)
		}
	}
	if len(kept) == len(contacts) {
		return fmt.Errorf("console: no contact with id %q", id)
	}
	return store.SaveJSON(b.path, kept)
}

// Find returns contacts whose name, address, or tags contain query,
// case-insensitively.
func (b *AddressBook) Find(query string) ([]Contact, error) {
	contacts, err := b.load()
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)
	var matched []Contact
	for _, contact := range contacts {
		if contactMatches(contact, needle) {
			matched = append(matched, contact)
		}
	}
	return matched, nil
}

func contactMatches(contact Contact, needle string) bool {
	if strings.Contains(strings.ToLower(contact.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(contact.Address), needle) {
		return true
	}
	for _, tag := range contact.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func (b *AddressBook) load() ([]Contact, error) {
	var contacts []Contact
	if err := store.LoadJSON(b.path, &contacts); err != nil {
		if errors.Is(err, store.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return contacts, nil
}
