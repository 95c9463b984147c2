// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"sync"
)

// memoryFrameBuffer is the per-direction channel capacity of a memory
// pair. Large enough that a test server scripting several frames never
// blocks on an unread peer.
const memoryFrameBuffer = 32

// NewMemoryPair returns two Transports connected by an in-process
// link: frames written on one side arrive at the other. Closing
// either side closes the link for both, and the surviving side's
// ReadFrame reports the close status the closer supplied.
//
// Tests use a memory pair as the gateway side of a client, driving
// the protocol without a network listener.
func NewMemoryPair() (Transport, Transport) {
	link := &memoryLink{closed: make(chan struct{})}
	aToB := make(chan []byte, memoryFrameBuffer)
	bToA := make(chan []byte, memoryFrameBuffer)
	a := &memoryTransport{link: link, send: aToB, receive: bToA}
	b := &memoryTransport{link: link, send: bToA, receive: aToB}
	return a, b
}

// memoryLink is the shared fate of a memory pair. Like a socket, one
// close takes down both directions.
type memoryLink struct {
	once   sync.Once
	closed chan struct{}

	mu     sync.Mutex
	code   StatusCode
	reason string
}

func (l *memoryLink) close(code StatusCode, reason string) {
	l.once.Do(func() {
		l.mu.Lock()
		l.code = code
		l.reason = reason
		l.mu.Unlock()
		close(l.closed)
	})
}

func (l *memoryLink) closeError() *CloseError {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &CloseError{Code: l.code, Reason: l.reason}
}

type memoryTransport struct {
	link    *memoryLink
	send    chan []byte
	receive chan []byte
}

func (t *memoryTransport) WriteFrame(ctx context.Context, data []byte) error {
	select {
	case <-t.link.closed:
		return t.link.closeError()
	default:
	}
	select {
	case t.send <- data:
		return nil
	case <-t.link.closed:
		return t.link.closeError()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *memoryTransport) ReadFrame(ctx context.Context) ([]byte, error) {
	// Frames already delivered win over a concurrent close, so a test
	// that writes then closes still hands the client every frame.
	select {
	case data := <-t.receive:
		return data, nil
	default:
	}
	select {
	case data := <-t.receive:
		return data, nil
	case <-t.link.closed:
		return nil, t.link.closeError()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *memoryTransport) Close(code StatusCode, reason string) error {
	t.link.close(code, reason)
	return nil
}
