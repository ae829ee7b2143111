// Package protocol implements the binary wire protocol between a
// navigation controller running on the server and the thin client that
// owns the real browser history.
//
// Every message travels in a Frame: a 4-byte header (type, flags,
// payload length) followed by the payload. Payloads are encoded with
// varint-based primitives so short paths stay short on the wire.
//
// Client to server frames carry Events: link activations, programmatic
// navigation requests and history pops. Server to client frames carry
// Patches: history mutations, location syncs and scroll requests that
// the client applies verbatim.
package protocol
