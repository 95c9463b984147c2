// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anteroom-foundation/anteroom/lib/clock"
	"github.com/anteroom-foundation/anteroom/lib/testutil"
)

// waitTimeout is the safety valve for harness channel operations. All
// protocol timing runs on the fake clock; this only bounds test hangs.
const waitTimeout = 5 * time.Second

// dialResult scripts the outcome of one dial attempt.
type dialResult struct {
	transport Transport
	err       error
}

// harness wires a Client to a scripted dialer and a fake clock, and
// funnels every hook into a channel the test can assert on.
type harness struct {
	t      *testing.T
	clock  *clock.FakeClock
	client *Client

	dialQueue    chan dialResult
	dialAttempts atomic.Int64

	hellos      chan *Hello
	connects    chan struct{}
	events      chan Event
	disconnects chan struct{}
	closes      chan CloseInfo
}

func newHarness(t *testing.T, configure ...func(*Config)) *harness {
	t.Helper()

	h := &harness{
		t:           t,
		clock:       clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		dialQueue:   make(chan dialResult),
		hellos:      make(chan *Hello, 8),
		connects:    make(chan struct{}, 8),
		events:      make(chan Event, 8),
		disconnects: make(chan struct{}, 8),
		closes:      make(chan CloseInfo, 8),
	}

	config := Config{
		URL:   "ws://gateway.test/ws",
		Clock: h.clock,
		Dialer: DialerFunc(func(ctx context.Context, url string) (Transport, error) {
			h.dialAttempts.Add(1)
			select {
			case r := <-h.dialQueue:
				return r.transport, r.err
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}),
		Token:        "test-token",
		Scopes:       []string{"cron", "config"},
		OnHello:      func(hello *Hello) { h.hellos <- hello },
		OnConnect:    func() { h.connects <- struct{}{} },
		OnEvent:      func(event Event) { h.events <- event },
		OnDisconnect: func() { h.disconnects <- struct{}{} },
		OnClose:      func(info CloseInfo) { h.closes <- info },
	}
	for _, f := range configure {
		f(&config)
	}

	client, err := New(config)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.client = client
	t.Cleanup(client.Stop)
	return h
}

// accept satisfies the next dial attempt with a memory pair and
// returns the gateway side.
func (h *harness) accept() *testGateway {
	h.t.Helper()
	clientSide, gatewaySide := NewMemoryPair()
	testutil.RequireSend(h.t, h.dialQueue, dialResult{transport: clientSide}, waitTimeout, "accepting dial")
	return &testGateway{t: h.t, transport: gatewaySide}
}

// refuse fails the next dial attempt.
func (h *harness) refuse() {
	h.t.Helper()
	testutil.RequireSend(h.t, h.dialQueue, dialResult{err: errors.New("connection refused")}, waitTimeout, "refusing dial")
}

// completeHandshake advances past the handshake delay, answers the
// connect request with a hello-ok, and waits for Ready.
func (h *harness) completeHandshake(g *testGateway) {
	h.t.Helper()
	h.clock.WaitForTimers(1)
	h.clock.Advance(defaultHandshakeDelay)
	request := g.expectRequest("connect")
	g.respondOK(request.ID, map[string]any{"type": "hello-ok", "protocol": 3})
	testutil.RequireReceive(h.t, h.connects, waitTimeout, "waiting for connect hook")
	testutil.RequireReceive(h.t, h.hellos, waitTimeout, "waiting for hello hook")
}

// request issues a Request on its own goroutine and returns the
// channel its outcome will arrive on.
func (h *harness) request(ctx context.Context, method string, params any) <-chan requestOutcome {
	ch := make(chan requestOutcome, 1)
	go func() {
		payload, err := h.client.Request(ctx, method, params)
		ch <- requestOutcome{payload: payload, err: err}
	}()
	return ch
}

type requestOutcome struct {
	payload json.RawMessage
	err     error
}

// pendingCount reads the size of the client's pending table.
func (h *harness) pendingCount() int {
	h.client.mu.Lock()
	defer h.client.mu.Unlock()
	return len(h.client.pending)
}

// testGateway is the scripted gateway side of a connection.
type testGateway struct {
	t         *testing.T
	transport Transport
}

func (g *testGateway) send(v any) {
	g.t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		g.t.Fatalf("marshaling frame: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	if err := g.transport.WriteFrame(ctx, data); err != nil {
		g.t.Fatalf("writing frame: %v", err)
	}
}

func (g *testGateway) sendRaw(data string) {
	g.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	if err := g.transport.WriteFrame(ctx, []byte(data)); err != nil {
		g.t.Fatalf("writing raw frame: %v", err)
	}
}

func (g *testGateway) readFrame() frame {
	g.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	data, err := g.transport.ReadFrame(ctx)
	if err != nil {
		g.t.Fatalf("reading frame: %v", err)
	}
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		g.t.Fatalf("parsing frame %s: %v", data, err)
	}
	return f
}

func (g *testGateway) expectRequest(method string) frame {
	g.t.Helper()
	f := g.readFrame()
	if f.Type != frameTypeRequest {
		g.t.Fatalf("expected a req frame, got type %q", f.Type)
	}
	if f.Method != method {
		g.t.Fatalf("expected method %q, got %q", method, f.Method)
	}
	if f.ID == "" {
		g.t.Fatal("request frame has no id")
	}
	return f
}

func (g *testGateway) respondOK(id string, payload any) {
	g.t.Helper()
	g.send(map[string]any{"type": "res", "id": id, "ok": true, "payload": payload})
}

func (g *testGateway) respondError(id, code, message string) {
	g.t.Helper()
	g.send(map[string]any{
		"type": "res", "id": id, "ok": false,
		"error": map[string]any{"code": code, "message": message},
	})
}

func (g *testGateway) close(code StatusCode, reason string) {
	_ = g.transport.Close(code, reason)
}

func TestRequestBeforeStartFailsFast(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.Request(context.Background(), "cron.list", map[string]any{})
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Request before Start: err = %v, want ErrNotConnected", err)
	}
	if n := h.pendingCount(); n != 0 {
		t.Fatalf("pending table has %d entries after fast fail, want 0", n)
	}
}

func TestHandshakeAndRequest(t *testing.T) {
	h := newHarness(t)
	h.client.Start()
	g := h.accept()

	if h.client.Ready() {
		t.Fatal("client Ready before handshake")
	}

	h.clock.WaitForTimers(1)
	h.clock.Advance(defaultHandshakeDelay)

	request := g.expectRequest("connect")
	var params ConnectParams
	if err := json.Unmarshal(request.Params, &params); err != nil {
		t.Fatalf("parsing connect params: %v", err)
	}
	if params.MinProtocol != ProtocolMin || params.MaxProtocol != ProtocolMax {
		t.Fatalf("protocol window = [%d, %d], want [%d, %d]",
			params.MinProtocol, params.MaxProtocol, ProtocolMin, ProtocolMax)
	}
	if params.Client.Mode != "operator" || params.Client.ID == "" {
		t.Fatalf("client identity not defaulted: %+v", params.Client)
	}
	if params.Role != "operator" {
		t.Fatalf("role = %q, want operator", params.Role)
	}
	if params.Auth == nil || params.Auth.Token != "test-token" {
		t.Fatalf("auth not carried: %+v", params.Auth)
	}

	g.respondOK(request.ID, map[string]any{
		"type": "hello-ok", "protocol": 3,
		"features": map[string]any{"methods": []string{"cron.list"}},
	})
	hello := testutil.RequireReceive(t, h.hellos, waitTimeout, "waiting for hello")
	if hello.Protocol != 3 {
		t.Fatalf("hello protocol = %d, want 3", hello.Protocol)
	}
	if hello.Features == nil || len(hello.Features.Methods) != 1 {
		t.Fatalf("hello features not decoded: %+v", hello.Features)
	}
	testutil.RequireReceive(t, h.connects, waitTimeout, "waiting for connect hook")
	if !h.client.Ready() {
		t.Fatal("client not Ready after handshake")
	}

	// The end-to-end exchange from the wire's point of view.
	outcome := h.request(context.Background(), "cron.list", map[string]any{})
	listRequest := g.expectRequest("cron.list")
	if string(listRequest.Params) != "{}" {
		t.Fatalf("params on the wire = %s, want {}", listRequest.Params)
	}
	g.respondOK(listRequest.ID, []map[string]any{{"id": "job-1", "enabled": true}})

	result := testutil.RequireReceive(t, outcome, waitTimeout, "waiting for cron.list result")
	if result.err != nil {
		t.Fatalf("cron.list: %v", result.err)
	}
	var jobs []struct {
		ID      string `json:"id"`
		Enabled bool   `json:"enabled"`
	}
	if err := json.Unmarshal(result.payload, &jobs); err != nil {
		t.Fatalf("parsing cron.list payload: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != "job-1" || !jobs[0].Enabled {
		t.Fatalf("cron.list payload = %s", result.payload)
	}
}

func TestConcurrentRequestsCorrelateByID(t *testing.T) {
	h := newHarness(t)
	h.client.Start()
	g := h.accept()
	h.completeHandshake(g)

	methods := []string{"cron.list", "skills.status", "config.get"}
	outcomes := make(map[string]<-chan requestOutcome, len(methods))
	for _, method := range methods {
		outcomes[method] = h.request(context.Background(), method, nil)
	}

	// Collect all three request frames; goroutine scheduling makes
	// their arrival order arbitrary.
	idByMethod := make(map[string]string, len(methods))
	for range methods {
		f := g.readFrame()
		if f.Type != frameTypeRequest {
			t.Fatalf("expected req frame, got %q", f.Type)
		}
		if _, dup := idByMethod[f.Method]; dup {
			t.Fatalf("method %q sent twice", f.Method)
		}
		idByMethod[f.Method] = f.ID
	}

	// Answer in reverse order of issue, tagging each payload with its
	// method, and confirm no caller receives another's response.
	for i := len(methods) - 1; i >= 0; i-- {
		method := methods[i]
		g.respondOK(idByMethod[method], map[string]string{"for": method})
	}
	for _, method := range methods {
		result := testutil.RequireReceive(t, outcomes[method], waitTimeout, "result for %s", method)
		if result.err != nil {
			t.Fatalf("%s: %v", method, result.err)
		}
		var payload struct {
			For string `json:"for"`
		}
		if err := json.Unmarshal(result.payload, &payload); err != nil {
			t.Fatalf("parsing %s payload: %v", method, err)
		}
		if payload.For != method {
			t.Fatalf("caller of %s received payload for %s", method, payload.For)
		}
	}
	if n := h.pendingCount(); n != 0 {
		t.Fatalf("pending table has %d entries after all settled, want 0", n)
	}
}

func TestServerErrorSettlesOnlyItsCaller(t *testing.T) {
	h := newHarness(t)
	h.client.Start()
	g := h.accept()
	h.completeHandshake(g)

	failing := h.request(context.Background(), "cron.remove", map[string]string{"id": "nope"})
	request := g.expectRequest("cron.remove")
	g.respondError(request.ID, "not_found", "no such job")

	result := testutil.RequireReceive(t, failing, waitTimeout, "waiting for error result")
	var serverErr *ServerError
	if !errors.As(result.err, &serverErr) {
		t.Fatalf("err = %v, want *ServerError", result.err)
	}
	if serverErr.Code != "not_found" || serverErr.Message != "no such job" {
		t.Fatalf("server error = %+v", serverErr)
	}

	// The connection is unaffected: a following request succeeds.
	ok := h.request(context.Background(), "health", nil)
	healthRequest := g.expectRequest("health")
	g.respondOK(healthRequest.ID, map[string]bool{"ok": true})
	result = testutil.RequireReceive(t, ok, waitTimeout, "waiting for health result")
	if result.err != nil {
		t.Fatalf("health after server error: %v", result.err)
	}
}

func TestUnknownResponseIDIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.client.Start()
	g := h.accept()
	h.completeHandshake(g)

	g.respondOK("never-requested", map[string]string{"ghost": "payload"})

	// The connection stays healthy and correlation still works.
	outcome := h.request(context.Background(), "health", nil)
	request := g.expectRequest("health")
	g.respondOK(request.ID, map[string]bool{"ok": true})
	result := testutil.RequireReceive(t, outcome, waitTimeout, "waiting for health result")
	if result.err != nil {
		t.Fatalf("health: %v", result.err)
	}
	if n := h.pendingCount(); n != 0 {
		t.Fatalf("pending table has %d entries, want 0", n)
	}
}

func TestMalformedFramesAreDropped(t *testing.T) {
	h := newHarness(t)
	h.client.Start()
	g := h.accept()
	h.completeHandshake(g)

	g.sendRaw(`this is not json`)
	g.sendRaw(`{"type":"mystery","id":"x"}`)
	g.sendRaw(`[]`)

	// Still connected, still correlating.
	outcome := h.request(context.Background(), "health", nil)
	request := g.expectRequest("health")
	g.respondOK(request.ID, map[string]bool{"ok": true})
	result := testutil.RequireReceive(t, outcome, waitTimeout, "waiting for health result")
	if result.err != nil {
		t.Fatalf("health after malformed frames: %v", result.err)
	}
}

func TestEventDelivery(t *testing.T) {
	h := newHarness(t)
	h.client.Start()
	g := h.accept()
	h.completeHandshake(g)

	// An event with no outstanding request touches no promise state.
	g.send(map[string]any{
		"type": "event", "event": "heartbeat",
		"payload": map[string]int64{"ts": 1234567890},
		"seq":     7,
	})

	event := testutil.RequireReceive(t, h.events, waitTimeout, "waiting for event")
	if event.Name != "heartbeat" {
		t.Fatalf("event name = %q, want heartbeat", event.Name)
	}
	if event.Seq != 7 {
		t.Fatalf("event seq = %d, want 7", event.Seq)
	}
	var payload struct {
		TS int64 `json:"ts"`
	}
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		t.Fatalf("parsing event payload: %v", err)
	}
	if payload.TS != 1234567890 {
		t.Fatalf("event payload = %s", event.Payload)
	}
	if n := h.pendingCount(); n != 0 {
		t.Fatalf("event created %d pending entries", n)
	}
}

func TestEventsDeliveredInOrder(t *testing.T) {
	h := newHarness(t)
	h.client.Start()
	g := h.accept()
	h.completeHandshake(g)

	for i := 1; i <= 5; i++ {
		g.send(map[string]any{"type": "event", "event": "tick", "seq": i})
	}
	for i := 1; i <= 5; i++ {
		event := testutil.RequireReceive(t, h.events, waitTimeout, "waiting for tick %d", i)
		if event.Seq != int64(i) {
			t.Fatalf("tick arrived out of order: seq %d, want %d", event.Seq, i)
		}
	}
}

func TestDisconnectFlushesPending(t *testing.T) {
	h := newHarness(t)
	h.client.Start()
	g := h.accept()
	h.completeHandshake(g)

	first := h.request(context.Background(), "cron.list", nil)
	second := h.request(context.Background(), "skills.status", nil)
	g.readFrame()
	g.readFrame()
	if n := h.pendingCount(); n != 2 {
		t.Fatalf("pending table has %d entries, want 2", n)
	}

	g.close(StatusGoingAway, "gateway restart")

	for _, outcome := range []<-chan requestOutcome{first, second} {
		result := testutil.RequireReceive(t, outcome, waitTimeout, "waiting for flushed request")
		if !errors.Is(result.err, ErrConnectionLost) {
			t.Fatalf("flushed request err = %v, want ErrConnectionLost", result.err)
		}
	}
	if n := h.pendingCount(); n != 0 {
		t.Fatalf("pending table has %d entries after flush, want 0", n)
	}

	info := testutil.RequireReceive(t, h.closes, waitTimeout, "waiting for close hook")
	if info.Code != StatusGoingAway || info.Reason != "gateway restart" {
		t.Fatalf("close info = %+v", info)
	}
	testutil.RequireReceive(t, h.disconnects, waitTimeout, "waiting for disconnect hook")

	if h.client.Ready() {
		t.Fatal("client still Ready after disconnect")
	}
	_, err := h.client.Request(context.Background(), "health", nil)
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Request after disconnect: err = %v, want ErrNotConnected", err)
	}
}

func TestStopFlushesPendingAndPreventsReconnect(t *testing.T) {
	h := newHarness(t)
	h.client.Start()
	g := h.accept()
	h.completeHandshake(g)

	outcome := h.request(context.Background(), "cron.list", nil)
	g.expectRequest("cron.list")

	h.client.Stop()

	result := testutil.RequireReceive(t, outcome, waitTimeout, "waiting for stopped request")
	if !errors.Is(result.err, ErrStopped) {
		t.Fatalf("stopped request err = %v, want ErrStopped", result.err)
	}
	if n := h.pendingCount(); n != 0 {
		t.Fatalf("pending table has %d entries after Stop, want 0", n)
	}
	if state := h.client.State(); state != StateClosed {
		t.Fatalf("state after Stop = %v, want closed", state)
	}
	if h.clock.PendingCount() != 0 {
		t.Fatal("reconnect timer armed after Stop")
	}

	_, err := h.client.Request(context.Background(), "health", nil)
	if !errors.Is(err, ErrStopped) {
		t.Fatalf("Request after Stop: err = %v, want ErrStopped", err)
	}
}

func TestLifecycleIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.client.Start()
	h.client.Start()
	g := h.accept()
	h.completeHandshake(g)

	if got := h.dialAttempts.Load(); got != 1 {
		t.Fatalf("dial attempts after double Start = %d, want 1", got)
	}

	h.client.Stop()
	h.client.Stop()
	if state := h.client.State(); state != StateClosed {
		t.Fatalf("state after double Stop = %v, want closed", state)
	}
}

func TestStartAfterStopDoesNothing(t *testing.T) {
	h := newHarness(t)
	h.client.Stop()
	h.client.Start()

	if got := h.dialAttempts.Load(); got != 0 {
		t.Fatalf("dial attempts after Start-post-Stop = %d, want 0", got)
	}
	if state := h.client.State(); state != StateClosed {
		t.Fatalf("state = %v, want closed", state)
	}
}

func TestRequestContextCancellation(t *testing.T) {
	h := newHarness(t)
	h.client.Start()
	g := h.accept()
	h.completeHandshake(g)

	ctx, cancel := context.WithCancel(context.Background())
	outcome := h.request(ctx, "cron.list", nil)
	request := g.expectRequest("cron.list")

	cancel()
	result := testutil.RequireReceive(t, outcome, waitTimeout, "waiting for cancelled request")
	if !errors.Is(result.err, context.Canceled) {
		t.Fatalf("cancelled request err = %v, want context.Canceled", result.err)
	}
	if n := h.pendingCount(); n != 0 {
		t.Fatalf("pending table has %d entries after cancellation, want 0", n)
	}

	// A late response for the abandoned id is dropped without fuss.
	g.respondOK(request.ID, map[string]string{"late": "response"})
	follow := h.request(context.Background(), "health", nil)
	healthRequest := g.expectRequest("health")
	g.respondOK(healthRequest.ID, map[string]bool{"ok": true})
	resultAfter := testutil.RequireReceive(t, follow, waitTimeout, "waiting for health result")
	if resultAfter.err != nil {
		t.Fatalf("health after late response: %v", resultAfter.err)
	}
}

func TestHandshakeSentExactlyOnce(t *testing.T) {
	h := newHarness(t)
	h.client.Start()
	g := h.accept()

	h.clock.WaitForTimers(1)
	h.clock.Advance(defaultHandshakeDelay)
	request := g.expectRequest("connect")

	// A spurious second trigger for the same connection must not
	// double-send the handshake.
	h.client.mu.Lock()
	gen := h.client.gen
	h.client.mu.Unlock()
	h.client.handshake(gen)

	g.respondOK(request.ID, map[string]any{"type": "hello-ok", "protocol": 3})
	testutil.RequireReceive(t, h.connects, waitTimeout, "waiting for connect hook")

	// Prove the gateway saw exactly one connect: the next frame it
	// reads is a fresh request, not a duplicate handshake.
	outcome := h.request(context.Background(), "health", nil)
	next := g.expectRequest("health")
	g.respondOK(next.ID, map[string]bool{"ok": true})
	result := testutil.RequireReceive(t, outcome, waitTimeout, "waiting for health result")
	if result.err != nil {
		t.Fatalf("health: %v", result.err)
	}
}

func TestDisconnectDeliveredBeforeReconnectIsArmed(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	h := newHarness(t, func(config *Config) {
		config.OnDisconnect = func() {
			entered <- struct{}{}
			<-release
		}
	})
	h.client.Start()
	g := h.accept()
	h.completeHandshake(g)

	g.close(StatusGoingAway, "restarting")
	testutil.RequireReceive(t, entered, waitTimeout, "waiting for disconnect hook")

	// The disconnect observer is still running. The reconnect timer
	// must not exist yet, so no replacement connection can race ahead
	// of the disconnect notification.
	if n := h.clock.PendingCount(); n != 0 {
		t.Fatalf("reconnect timer armed while disconnect hook still running (pending timers = %d)", n)
	}
	if n := h.dialAttempts.Load(); n != 1 {
		t.Fatalf("dial attempts = %d while disconnect hook still running, want 1", n)
	}
	select {
	case <-h.connects:
		t.Fatal("replacement connection became ready before the disconnect hook returned")
	default:
	}

	// Once the observer returns, reconnection proceeds normally.
	close(release)
	h.clock.WaitForTimers(1)
	h.clock.Advance(defaultReconnectBase)
	g2 := h.accept()
	h.completeHandshake(g2)
}
