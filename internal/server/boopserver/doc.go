// Package boopserver serves the boop line protocol.
//
//   - transport.go: line-oriented connection adapter with deadlines
//   - session.go: per-connection state machine and its single writer
//   - relay.go: BOOP delivery between sessions through the presence registry
//   - server.go: listener, accept loop and graceful shutdown
//
// Every connection gets a reader goroutine, which parses and dispatches
// commands strictly in arrival order, and a writer goroutine, which owns
// all writes to the transport. Replies to the session's own commands and
// BOOPs relayed from other sessions reach the writer through one bounded
// queue, so lines never interleave.
package boopserver
