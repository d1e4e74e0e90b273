// Package crypto exposes the two primitives the protocol is built from.
//
// Contents
//
//   - Per-connection RSA-2048 key pairs, PEM export/import of public keys,
//     and OAEP sealing of the session key (KeyAgent)
//   - AES-256-CBC message encryption authenticated with HMAC-SHA256,
//     keyed from the 32-byte session secret (SessionCipher)
//
// # Notes
//
// Neither primitive touches the network. Callers should treat session key
// material as sensitive and wipe it with internal/util/memzero once a
// cipher has been derived from it.
package crypto
