// Package app assembles the dependency graph for the CLI: configuration
// defaults and the wiring of console collaborators into the chat service.
package app
