// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/anteroom-foundation/anteroom/lib/clock"
)

// State is the client's connection lifecycle state.
type State int

const (
	// StateIdle is the state before Start.
	StateIdle State = iota
	// StateConnecting means a dial is in flight.
	StateConnecting
	// StateHandshaking means the transport is open but the handshake
	// has not completed.
	StateHandshaking
	// StateReady means the handshake completed; requests flow.
	StateReady
	// StateReconnecting means the client is waiting out a backoff
	// delay before the next dial.
	StateReconnecting
	// StateClosed is terminal, reached only via Stop.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateHandshaking:
		return "handshaking"
	case StateReady:
		return "ready"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// defaultHandshakeDelay is how long the client waits after the
// transport opens before sending the connect request. The gateway's
// accept loop can hand off the socket before its dispatcher is
// listening; sending immediately races that handoff.
const defaultHandshakeDelay = 300 * time.Millisecond

// CloseInfo is the raw close information passed to the OnClose hook.
type CloseInfo struct {
	// Code is the close status when the transport reported one,
	// including StatusHandshakeFailed for self-inflicted closes.
	Code StatusCode
	// Reason is the close reason string, if any.
	Reason string
	// Err is the error that ended the read loop.
	Err error
}

// Config configures a Client. URL is required unless a custom Dialer
// is provided; everything else has a usable default. The hook fields
// are fixed at construction — there is no registration API — and each
// is optional.
//
// Hooks are invoked from the client's internal goroutines and must
// not call back into Request synchronously if they can block forever;
// a blocked OnEvent stalls frame dispatch for the whole connection.
type Config struct {
	// URL is the gateway endpoint (e.g. "ws://127.0.0.1:9300/gateway").
	URL string

	// Dialer opens transports. Nil means a zero WebSocketDialer.
	Dialer Dialer

	// Clock schedules the handshake delay and reconnect backoff.
	// Nil means clock.Real().
	Clock clock.Clock

	// Logger receives structured log output. Nil means slog.Default().
	Logger *slog.Logger

	// Client identifies this console to the gateway. Zero-value
	// fields are filled with defaults (id "anteroom", version "dev",
	// platform runtime.GOOS, mode "operator").
	Client ClientInfo

	// MinProtocol and MaxProtocol bound the protocol negotiation.
	// Zero means ProtocolMin and ProtocolMax.
	MinProtocol int
	MaxProtocol int

	// Role is the operator role requested in the handshake. Empty
	// means "operator".
	Role string

	// Scopes are the capability scopes requested in the handshake.
	Scopes []string

	// Caps are additional capability flags requested in the handshake.
	Caps []string

	// Token is the bearer token sent in the handshake's auth object.
	// Empty omits the auth object entirely.
	Token string

	// HandshakeDelay overrides the wait between transport open and
	// the connect request. Zero means the 300ms default.
	HandshakeDelay time.Duration

	// ReconnectBase, ReconnectMax, and ReconnectFactor tune the
	// backoff sequence. Zero values mean 800ms, 15s, and 1.7.
	ReconnectBase   time.Duration
	ReconnectMax    time.Duration
	ReconnectFactor float64

	// OnHello fires once per completed handshake with the decoded
	// hello-ok payload.
	OnHello func(hello *Hello)

	// OnConnect fires after OnHello, once the client is Ready.
	OnConnect func()

	// OnEvent receives every event frame, synchronously, in arrival
	// order. Events arriving with OnEvent unset are dropped.
	OnEvent func(event Event)

	// OnDisconnect fires on every transport closure that was not
	// caused by Stop, after pending requests have been flushed and
	// before the reconnect timer is armed.
	OnDisconnect func()

	// OnClose fires alongside OnDisconnect with the raw close
	// information.
	OnClose func(info CloseInfo)
}

// Client is the gateway connection lifecycle manager. Create one with
// New, call Start, issue Requests once connected, and Stop when done.
// All methods are safe for concurrent use.
//
// Each Client owns its own transport and pending-request table, so a
// process can hold several independent gateway connections.
type Client struct {
	config Config
	dialer Dialer
	clock  clock.Clock
	logger *slog.Logger

	// ctx is the client's lifetime context; Stop cancels it, aborting
	// in-flight dials and reads.
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	state     State
	started   bool
	stopped   bool
	gen       uint64
	conn      *connState
	pending   map[string]chan settlement
	delay     backoff
	reconnect *clock.Timer
}

// connState is the per-connection session. It is created on each
// successful dial and discarded on close; only the backoff delay
// survives across connections.
type connState struct {
	transport     Transport
	gen           uint64
	handshakeSent bool
	cancelRead    context.CancelFunc
}

// settlement resolves one pending request: a payload on success, an
// error on failure or flush. Exactly one settlement is delivered per
// pending entry.
type settlement struct {
	payload json.RawMessage
	err     error
}

// New creates a Client. It does not connect; call Start.
func New(config Config) (*Client, error) {
	if config.URL == "" && config.Dialer == nil {
		return nil, fmt.Errorf("gateway: URL is required")
	}

	dialer := config.Dialer
	if dialer == nil {
		dialer = &WebSocketDialer{}
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if config.Client.ID == "" {
		config.Client.ID = "anteroom"
	}
	if config.Client.Version == "" {
		config.Client.Version = "dev"
	}
	if config.Client.Platform == "" {
		config.Client.Platform = runtime.GOOS
	}
	if config.Client.Mode == "" {
		config.Client.Mode = "operator"
	}
	if config.MinProtocol == 0 {
		config.MinProtocol = ProtocolMin
	}
	if config.MaxProtocol == 0 {
		config.MaxProtocol = ProtocolMax
	}
	if config.Role == "" {
		config.Role = "operator"
	}
	if config.HandshakeDelay == 0 {
		config.HandshakeDelay = defaultHandshakeDelay
	}
	if config.ReconnectBase == 0 {
		config.ReconnectBase = defaultReconnectBase
	}
	if config.ReconnectMax == 0 {
		config.ReconnectMax = defaultReconnectMax
	}
	if config.ReconnectFactor == 0 {
		config.ReconnectFactor = defaultReconnectFactor
	}
	if config.ReconnectFactor <= 1 {
		return nil, fmt.Errorf("gateway: ReconnectFactor must be greater than 1, got %v", config.ReconnectFactor)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		config:  config,
		dialer:  dialer,
		clock:   clk,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		state:   StateIdle,
		pending: make(map[string]chan settlement),
		delay:   newBackoff(config.ReconnectBase, config.ReconnectMax, config.ReconnectFactor),
	}, nil
}

// Start begins the first connection attempt. Idempotent: calling it
// again, or after Stop, does nothing.
func (c *Client) Start() {
	c.mu.Lock()
	if c.started || c.stopped {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.state = StateConnecting
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	go c.connect(gen)
}

// Stop marks the client deliberately closed, closes the active
// transport if any, and rejects every pending request with
// ErrStopped. No reconnection happens after Stop. Idempotent.
func (c *Client) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	c.state = StateClosed
	if c.reconnect != nil {
		c.reconnect.Stop()
		c.reconnect = nil
	}
	conn := c.conn
	c.conn = nil
	flushed := c.flushPendingLocked(ErrStopped)
	c.mu.Unlock()

	c.cancel()
	if conn != nil {
		conn.cancelRead()
		_ = conn.transport.Close(StatusNormalClosure, "client stopped")
	}
	c.logger.Info("gateway client stopped", "flushed_requests", flushed)
}

// Ready reports whether the handshake has completed on the current
// transport.
func (c *Client) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateReady
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Request sends method with params and blocks until the matching
// response arrives, the connection drops, the client stops, or ctx is
// done. It fails immediately with ErrNotConnected while no transport
// is open — nothing is queued across disconnects.
//
// params is marshalled to JSON; nil omits the params field. On an
// ok:false response the error is a *ServerError. Cancelling ctx
// abandons the request without waiting for the disconnect flush; the
// pending entry is removed so it cannot settle twice.
func (c *Client) Request(ctx context.Context, method string, params any) (json.RawMessage, error) {
	if method == "" {
		return nil, fmt.Errorf("gateway: method is required")
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return nil, ErrStopped
	}
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return nil, ErrNotConnected
	}

	var raw json.RawMessage
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("gateway: encoding %s params: %w", method, err)
		}
		raw = data
	}
	return c.do(ctx, conn.transport, method, raw)
}

// do is the correlator core shared by Request and the handshake:
// register a pending entry, send the request frame, and wait for
// exactly one settlement.
func (c *Client) do(ctx context.Context, transport Transport, method string, params json.RawMessage) (json.RawMessage, error) {
	id := newRequestID()
	ch := make(chan settlement, 1)

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return nil, ErrStopped
	}
	if c.conn == nil || c.conn.transport != transport {
		// The connection this request was aimed at is gone; its
		// pending table has been flushed. Fail fast instead of
		// parking an entry no response can reach.
		c.mu.Unlock()
		return nil, ErrNotConnected
	}
	c.pending[id] = ch
	c.mu.Unlock()

	data, err := json.Marshal(frame{Type: frameTypeRequest, ID: id, Method: method, Params: params})
	if err != nil {
		c.removePending(id)
		return nil, fmt.Errorf("gateway: encoding %s request: %w", method, err)
	}
	if err := transport.WriteFrame(ctx, data); err != nil {
		c.removePending(id)
		return nil, fmt.Errorf("gateway: sending %s request: %w", method, err)
	}

	select {
	case s := <-ch:
		return s.payload, s.err
	case <-ctx.Done():
		// Detach from the pending table. If a settlement won the
		// race it is already in the buffered channel — honor it.
		if c.removePending(id) {
			return nil, ctx.Err()
		}
		s := <-ch
		return s.payload, s.err
	}
}

// removePending deletes a pending entry, reporting whether it was
// still present.
func (c *Client) removePending(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.pending[id]; !ok {
		return false
	}
	delete(c.pending, id)
	return true
}

// flushPendingLocked settles every pending request with err and
// empties the table. Caller holds c.mu.
func (c *Client) flushPendingLocked(err error) int {
	flushed := len(c.pending)
	for _, ch := range c.pending {
		ch <- settlement{err: err}
	}
	c.pending = make(map[string]chan settlement)
	return flushed
}

// connect dials the gateway. Runs in its own goroutine, once per
// connection attempt.
func (c *Client) connect(gen uint64) {
	transport, err := c.dialer.Dial(c.ctx, c.config.URL)

	c.mu.Lock()
	if c.stopped || gen != c.gen {
		c.mu.Unlock()
		if err == nil {
			_ = transport.Close(StatusNormalClosure, "superseded")
		}
		return
	}
	if err != nil {
		c.scheduleReconnectLocked()
		c.mu.Unlock()
		c.logger.Debug("gateway dial failed", "url", c.config.URL, "error", err)
		return
	}

	readCtx, cancelRead := context.WithCancel(c.ctx)
	c.conn = &connState{transport: transport, gen: gen, cancelRead: cancelRead}
	c.state = StateHandshaking
	c.mu.Unlock()

	c.logger.Debug("gateway transport open", "url", c.config.URL)
	go c.readLoop(readCtx, transport, gen)

	// Delay the connect request so it does not race the gateway's own
	// readiness. The handshake goroutine re-checks the generation, so
	// a timer firing after this connection died is harmless.
	c.clock.AfterFunc(c.config.HandshakeDelay, func() {
		go c.handshake(gen)
	})
}

// handshake sends the single connect request for connection gen and
// drives the client to Ready on success. The handshakeSent guard
// ensures repeated triggers for the same connection cannot double-send.
func (c *Client) handshake(gen uint64) {
	c.mu.Lock()
	conn := c.conn
	if c.stopped || conn == nil || conn.gen != gen || conn.handshakeSent {
		c.mu.Unlock()
		return
	}
	conn.handshakeSent = true
	transport := conn.transport
	c.mu.Unlock()

	params, err := json.Marshal(c.connectParams())
	if err != nil {
		// ConnectParams is all plain data; this cannot fail in
		// practice, but an unsendable handshake still means the
		// connection is useless.
		c.failHandshake(transport, err)
		return
	}

	payload, err := c.do(c.ctx, transport, "connect", params)
	if err != nil {
		c.failHandshake(transport, err)
		return
	}

	var hello Hello
	if err := json.Unmarshal(payload, &hello); err != nil {
		c.failHandshake(transport, fmt.Errorf("gateway: parsing hello-ok payload: %w", err))
		return
	}
	if hello.Type != frameTypeHelloOK {
		c.failHandshake(transport, fmt.Errorf("gateway: handshake response is not a hello-ok frame (type %q)", hello.Type))
		return
	}

	c.mu.Lock()
	if c.stopped || c.conn == nil || c.conn.gen != gen {
		c.mu.Unlock()
		return
	}
	c.state = StateReady
	c.delay.Reset()
	c.mu.Unlock()

	c.logger.Info("gateway handshake complete",
		"protocol", hello.Protocol,
		"url", c.config.URL,
	)
	if c.config.OnHello != nil {
		c.config.OnHello(&hello)
	}
	if c.config.OnConnect != nil {
		c.config.OnConnect()
	}
}

// failHandshake abandons a connection whose handshake did not produce
// a valid hello-ok. Closing with the dedicated status code feeds the
// read loop, which drives the normal flush-and-reconnect path.
func (c *Client) failHandshake(transport Transport, err error) {
	c.logger.Warn("gateway handshake failed", "error", err)
	_ = transport.Close(StatusHandshakeFailed, "handshake failed")
}

func (c *Client) connectParams() ConnectParams {
	params := ConnectParams{
		MinProtocol: c.config.MinProtocol,
		MaxProtocol: c.config.MaxProtocol,
		Client:      c.config.Client,
		Role:        c.config.Role,
		Scopes:      c.config.Scopes,
		Caps:        c.config.Caps,
	}
	if c.config.Token != "" {
		params.Auth = &ConnectAuth{Token: c.config.Token}
	}
	return params
}

// readLoop pulls frames off one transport until it dies, then hands
// the closure to handleClose. One readLoop runs per connection.
func (c *Client) readLoop(ctx context.Context, transport Transport, gen uint64) {
	for {
		data, err := transport.ReadFrame(ctx)
		if err != nil {
			c.handleClose(gen, err)
			return
		}
		c.handleFrame(data)
	}
}

// handleFrame dispatches one inbound frame. Malformed or unrecognized
// frames are dropped without affecting the connection: garbage on the
// wire is not treated as fatal.
func (c *Client) handleFrame(data []byte) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		c.logger.Debug("gateway: dropping unparseable frame", "error", err)
		return
	}

	switch f.Type {
	case frameTypeResponse:
		c.settleResponse(f)
	case frameTypeEvent:
		if c.config.OnEvent == nil {
			c.logger.Debug("gateway: dropping event with no observer", "event", f.Event)
			return
		}
		c.config.OnEvent(Event{Name: f.Event, Payload: f.Payload, Seq: f.Seq})
	default:
		c.logger.Debug("gateway: dropping frame with unrecognized type", "type", f.Type)
	}
}

// settleResponse resolves the pending request matching a response
// frame. Responses with no matching entry are dropped silently — the
// request was already flushed by a disconnect or abandoned by its
// caller.
func (c *Client) settleResponse(f frame) {
	c.mu.Lock()
	ch, ok := c.pending[f.ID]
	if ok {
		delete(c.pending, f.ID)
	}
	c.mu.Unlock()

	if !ok {
		c.logger.Debug("gateway: dropping response with no pending request", "id", f.ID)
		return
	}

	if f.OK {
		ch <- settlement{payload: f.Payload}
		return
	}
	serverErr := &ServerError{Message: "request failed"}
	if f.Error != nil {
		serverErr.Code = f.Error.Code
		serverErr.Details = f.Error.Details
		if f.Error.Message != "" {
			serverErr.Message = f.Error.Message
		}
	}
	ch <- settlement{err: serverErr}
}

// handleClose reacts to the death of connection gen: flush the pending
// table, notify observers, and only then arm the reconnect timer
// unless the client was deliberately stopped. The timer must not exist
// while OnClose/OnDisconnect run, so observers always see the old
// connection's disconnect before any OnConnect from its replacement.
// Stale generations (a close racing a replacement connection, or
// arriving after Stop) are ignored.
func (c *Client) handleClose(gen uint64, cause error) {
	c.mu.Lock()
	conn := c.conn
	if conn == nil || conn.gen != gen {
		c.mu.Unlock()
		return
	}
	conn.cancelRead()
	c.conn = nil
	flushed := c.flushPendingLocked(ErrConnectionLost)
	stopped := c.stopped
	if !stopped {
		c.state = StateReconnecting
	}
	c.mu.Unlock()

	if stopped {
		return
	}

	c.logger.Info("gateway connection closed",
		"flushed_requests", flushed,
		"error", cause,
	)
	if c.config.OnClose != nil {
		info := CloseInfo{Err: cause}
		var closeErr *CloseError
		if errors.As(cause, &closeErr) {
			info.Code = closeErr.Code
			info.Reason = closeErr.Reason
		}
		c.config.OnClose(info)
	}
	if c.config.OnDisconnect != nil {
		c.config.OnDisconnect()
	}

	c.mu.Lock()
	if !c.stopped {
		c.scheduleReconnectLocked()
	}
	c.mu.Unlock()
}

// scheduleReconnectLocked arms the backoff timer for the next dial.
// Caller holds c.mu.
func (c *Client) scheduleReconnectLocked() {
	c.state = StateReconnecting
	delay := c.delay.Next()
	c.gen++
	gen := c.gen
	c.logger.Debug("gateway reconnect scheduled", "delay", delay)
	c.reconnect = c.clock.AfterFunc(delay, func() {
		c.mu.Lock()
		if c.stopped || gen != c.gen {
			c.mu.Unlock()
			return
		}
		c.state = StateConnecting
		c.mu.Unlock()
		go c.connect(gen)
	})
}
