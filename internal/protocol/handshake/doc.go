// Package handshake bootstraps a shared symmetric session key between
// two peers from per-connection RSA key pairs.
//
// Both sides exchange PKIX PEM public keys as length-prefixed records,
// then the connecting side generates the 32-byte session secret and
// sends it OAEP-sealed under the listener's key. Progress runs through
// an explicit state machine (TransportReady → KeysExchanged →
// SessionKeyEstablished); any failure is terminal for the connection
// attempt.
package handshake
