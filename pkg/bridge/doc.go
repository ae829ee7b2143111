// Package bridge connects a server-side navigation controller to the
// thin client that owns the real browser history.
//
// Each WebSocket connection gets its own controller. The browser side
// of the history API is projected through the wire protocol: history
// mutations the controller performs become patches for the client, and
// back/forward traversals performed by the user come back as pop
// events that re-enter the controller.
package bridge
