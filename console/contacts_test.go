// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"path/filepath"
	"testing"
)

func testBook(t *testing.T) *AddressBook {
	t.Helper()
	return OpenAddressBook(filepath.Join(t.TempDir(), "contacts.json"))
}

func TestAddressBookAddAndList(t *testing.T) {
	book := testBook(t)

	added, err := book.Add(Contact{Name: "Zoe", Address: "zoe@example.com", Tags: []string{"oncall"}})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added.ID == "" || added.AddedAt.IsZero() {
		t.Errorf("Add did not assign id/timestamp: %+v", added)
	}
	if _, err := book.Add(Contact{Name: "Ana", Address: "ana@example.com"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	contacts, err := book.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("List returned %d contacts, want 2", len(contacts))
	}
	if contacts[0].Name != "Ana" || contacts[1].Name != "Zoe" {
		t.Errorf("List not sorted by name: %+v", contacts)
	}
}

func TestAddressBookValidation(t *testing.T) {
	book := testBook(t)
	if _, err := book.Add(Contact{Address: "x@example.com"}); err == nil {
		t.Error("Add accepted a nameless contact")
	}
	if _, err := book.Add(Contact{Name: "x"}); err == nil {
		t.Error("Add accepted an addressless contact")
	}
}

func TestAddressBookRemove(t *testing.T) {
	book := testBook(t)
	added, err := book.Add(Contact{Name: "Zoe", Address: "zoe@example.com"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := book.Remove(added.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	contacts, err := book.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(contacts) != 0 {
		t.Errorf("contact still present after Remove: %+v", contacts)
	}

	if err := book.Remove("ghost"); err == nil {
		t.Error("Remove of an unknown id succeeded")
	}
}

func TestAddressBookFind(t *testing.T) {
	book := testBook(t)
	seed := []Contact{
		{Name: "Zoe Park", Address: "zoe@example.com", Tags: []string{"oncall"}},
		{Name: "Ana Silva", Address: "ana@ops.example.com", Tags: []string{"ops"}},
		{Name: "Sam Lee", Address: "sam@example.com"},
	}
	for _, contact := range seed {
		if _, err := book.Add(contact); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	tests := []struct {
		query string
		want  int
	}{
		{"zoe", 1},
		{"OPS", 1},     // matches address and tag of the same contact
		{"example", 3}, // all addresses
		{"nobody", 0},
	}
	for _, test := range tests {
		matched, err := book.Find(test.query)
		if err != nil {
			t.Fatalf("Find(%q): %v", test.query, err)
		}
		if len(matched) != test.want {
			t.Errorf("Find(%q) returned %d contacts, want %d", test.query, len(matched), test.want)
		}
	}
}

func TestAddressBookEmptyFile(t *testing.T) {
	book := testBook(t)
	contacts, err := book.List()
	if err != nil {
		t.Fatalf("List on a fresh book: %v", err)
	}
	if len(contacts) != 0 {
		t.Errorf("fresh book has %d contacts", len(contacts))
	}
}
