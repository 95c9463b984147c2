// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import "encoding/json"

// Frame type tags. Every frame on the wire is a JSON object with a
// "type" field holding one of these values; frames with any other tag
// are dropped without closing the connection.
const (
	frameTypeRequest  = "req"
	frameTypeResponse = "res"
	frameTypeEvent    = "event"
	frameTypeHelloOK  = "hello-ok"
)

// frame is the wire shape shared by all frame variants. Which fields
// are meaningful depends on Type: req carries ID/Method/Params, res
// carries ID/OK/Payload/Error, event carries Event/Payload/Seq.
type frame struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	OK      bool            `json:"ok,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
	Event   string          `json:"event,omitempty"`
	Seq     int64           `json:"seq,omitempty"`
}

// ErrorInfo is the error object carried by failed responses.
type ErrorInfo struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

// Event is an unsolicited server-pushed notification. Seq, when the
// server provides it, increases monotonically per event stream; the
// client passes it through without enforcing ordering or detecting
// gaps.
type Event struct {
	Name    string
	Payload json.RawMessage
	Seq     int64
}

// Hello is the hello-ok payload answering the handshake request. It
// announces the negotiated protocol version and, optionally, the
// gateway's advertised features, a snapshot of its current state, and
// the identity the client was assigned.
type Hello struct {
	Type     string          `json:"type"`
	Protocol int             `json:"protocol"`
	Features *HelloFeatures  `json:"features,omitempty"`
	Snapshot json.RawMessage `json:"snapshot,omitempty"`
	Auth     *HelloAuth      `json:"auth,omitempty"`
}

// HelloFeatures lists what the gateway can do, so the console can hide
// commands the connected gateway will reject.
type HelloFeatures struct {
	Methods []string `json:"methods,omitempty"`
	Events  []string `json:"events,omitempty"`
}

// HelloAuth is the identity the gateway assigned after authenticating
// the handshake.
type HelloAuth struct {
	Role   string   `json:"role,omitempty"`
	Scopes []string `json:"scopes,omitempty"`
}

// ConnectParams is the parameter object of the handshake's "connect"
// request.
type ConnectParams struct {
	MinProtocol int          `json:"minProtocol"`
	MaxProtocol int          `json:"maxProtocol"`
	Client      ClientInfo   `json:"client"`
	Role        string       `json:"role"`
	Scopes      []string     `json:"scopes"`
	Caps        []string     `json:"caps"`
	Auth        *ConnectAuth `json:"auth,omitempty"`
}

// ClientInfo identifies the connecting client to the gateway.
type ClientInfo struct {
	ID       string `json:"id"`
	Version  string `json:"version"`
	Platform string `json:"platform"`
	Mode     string `json:"mode"`
}

// ConnectAuth carries the optional bearer token for the handshake.
type ConnectAuth struct {
	Token string `json:"token"`
}

// Protocol versions this client implementation speaks. A Config may
// narrow the window but these are the defaults advertised in the
// handshake.
const (
	ProtocolMin = 1
	ProtocolMax = 3
)
