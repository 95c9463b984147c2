// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"

	"github.com/anteroom-foundation/anteroom/lib/store"
)

// ErrNoSnapshot reports that no snapshot has been cached for the
// gateway yet.
var ErrNoSnapshot = errors.New("console: no cached snapshot")

// CachedSnapshot is one gateway's persisted hello-ok snapshot.
type CachedSnapshot struct {
	// Gateway is the gateway URL the snapshot came from.
	Gateway string `cbor:"gateway"`

	// Digest is the hex BLAKE3 digest of the snapshot bytes. Comparing
	// digests detects gateway-side changes without decoding the body.
	Digest string `cbor:"digest"`

	// TakenAt is when the snapshot was cached.
	TakenAt time.Time `cbor:"taken_at"`

	// Snapshot is the raw JSON snapshot as the gateway sent it.
	Snapshot []byte `cbor:"snapshot"`
}

// SnapshotCache persists the hello-ok snapshot per gateway so the
// next session can tell whether the gateway's state changed while the
// console was away.
type SnapshotCache struct {
	dir string
}

// OpenSnapshotCache returns the cache rooted at dir.
func OpenSnapshotCache(dir string) *SnapshotCache {
	return &SnapshotCache{dir: dir}
}

// Store caches a gateway's snapshot, replacing any previous entry.
// changed reports whether the digest differs from the cached one (a
// first store counts as changed).
func (c *SnapshotCache) Store(gateway string, snapshot json.RawMessage) (digest string, changed bool, err error) {
	digest = snapshotDigest(snapshot)

	previous, err := c.Load(gateway)
	switch {
	case err == nil:
		changed = previous.Digest != digest
	case errors.Is(err, ErrNoSnapshot):
		changed = true
	default:
		return "", false, err
	}

	entry := CachedSnapshot{
		Gateway:  gateway,
		Digest:   digest,
		TakenAt:  time.Now().UTC(),
		Snapshot: snapshot,
	}
	if err := store.SaveCBOR(c.entryPath(gateway), entry); err != nil {
		return "", false, err
	}
	return digest, changed, nil
}

// Load returns the cached snapshot for a gateway, or ErrNoSnapshot.
func (c *SnapshotCache) Load(gateway string) (*CachedSnapshot, error) {
	var entry CachedSnapshot
	if err := store.LoadCBOR(c.entryPath(gateway), &entry); err != nil {
		if errors.Is(err, store.ErrNotExist) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}
	return &entry, nil
}

// entryPath maps a gateway URL to a cache file. The URL is hashed so
// its separators never reach the filesystem.
func (c *SnapshotCache) entryPath(gateway string) string {
	sum := blake3.Sum256([]byte(gateway))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:8])+".cbor")
}

func snapshotDigest(snapshot []byte) string {
	sum := blake3.Sum256(snapshot)
	return hex.EncodeToString(sum[:])
}
