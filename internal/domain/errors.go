package domain

import "errors"

// Error taxonomy for the handshake and messaging protocol. Callers match
// with errors.Is; lower layers wrap these with context via fmt.Errorf.
//
// Graceful peer termination is io.EOF, deliberately not an error value of
// this package: it is a signal, not a failure.
var (
	// ErrKeyGeneration covers entropy or allocation failure while
	// producing key material.
	ErrKeyGeneration = errors.New("key generation failed")

	// ErrInvalidKeyFormat is returned when received bytes do not decode
	// to a valid public key.
	ErrInvalidKeyFormat = errors.New("invalid public key format")

	// ErrPeerKeyMissing is returned when sealing is attempted before a
	// peer public key has been imported.
	ErrPeerKeyMissing = errors.New("peer public key not imported")

	// ErrPayloadTooLarge is returned when a payload exceeds the OAEP
	// capacity of the peer key.
	ErrPayloadTooLarge = errors.New("payload exceeds asymmetric capacity")

	// ErrDecryptionFailure covers bad MAC, bad padding, wrong key, wrong
	// IV and truncated ciphertext. The causes are deliberately not
	// distinguished further.
	ErrDecryptionFailure = errors.New("decryption failed")

	// ErrTransport covers connect, accept, send and receive failures on
	// the underlying stream.
	ErrTransport = errors.New("transport failure")

	// ErrTruncatedFrame is returned when the stream ends inside a frame,
	// as opposed to a clean close on a frame boundary.
	ErrTruncatedFrame = errors.New("truncated frame")

	// ErrFrameTooLarge is returned when a declared ciphertext length
	// exceeds the configured ceiling. The frame is rejected before any
	// allocation.
	ErrFrameTooLarge = errors.New("frame exceeds size limit")

	// ErrHandshake wraps any failure during key exchange. Handshake
	// failures are fatal to the connection attempt.
	ErrHandshake = errors.New("handshake failed")
)
