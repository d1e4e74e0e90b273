// Package chat drives one encrypted session per connection.
//
// The service owns the whole connection lifecycle: it creates the
// per-connection key agent, runs the role-appropriate handshake, then
// splits into two duties — an outbound loop feeding operator lines into
// the frame codec until the exit sentinel, and an inbound goroutine
// surfacing decrypted frames until the peer closes or a frame fails.
// Either duty ending closes the connection, which unblocks the other;
// the service joins both before returning.
package chat
