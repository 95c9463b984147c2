// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Anteroom packages.
//
// [RequireReceive], [RequireSend], and [RequireClosed] encapsulate the
// timeout safety valve pattern (select with time.After fallback) so
// that individual tests do not need direct time.After calls. These are
// the only place in the test suite where real wall-clock timeouts
// appear; everything else runs on lib/clock's fake clock.
//
// [UniqueID] generates monotonically increasing identifiers for test
// disambiguation. Use it instead of time.Now() when tests need request
// IDs or job names that must be distinguishable.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no Anteroom-internal dependencies.
package testutil
