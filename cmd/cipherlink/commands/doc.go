// Package commands defines the cipherlink CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - listen   Wait for a peer on a TCP port and chat over an encrypted session
//   - dial     Connect to a listening peer and chat
//
// # Implementation
//
// The root command builds the dependency graph (console collaborators,
// chat service) before any subcommand runs, so handlers share one app
// context. A session is one TCP connection: keys are generated for it,
// used for it, and discarded with it.
package commands
