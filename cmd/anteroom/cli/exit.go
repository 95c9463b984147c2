// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError signals a non-zero exit code without an extra error
// message. When a command returns an ExitError the main function exits
// with the given code silently; the command has already written its
// own output. Used where a non-zero exit is an answer rather than a
// failure, such as "status" reporting a disconnected gateway.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code. Main checks for this interface on
// returned errors to distinguish a handled non-zero exit from an
// unexpected error to display.
func (e *ExitError) ExitCode() int {
	return e.Code
}
