// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the console's YAML configuration.
//
// Configuration comes from a single file named by the ANTEROOM_CONFIG
// environment variable or the --config flag. There is no automatic
// discovery and environment variables never override file values;
// the only expansion performed is ${VAR} and ${VAR:-default} inside
// path and URL strings, for portability across home directories.
package config
