package domain

// KeyAgent owns a per-connection asymmetric key pair and, once imported,
// the peer's public key. The private half never leaves the process.
type KeyAgent interface {
	// PublicKeyPEM exports the local public key in a peer-portable PEM
	// encoding.
	PublicKeyPEM() ([]byte, error)

	// ImportPeerKey parses a peer's PEM-encoded public key and pins it
	// for the rest of the connection.
	ImportPeerKey(pemBytes []byte) error

	// EncryptForPeer seals a small payload under the imported peer key.
	EncryptForPeer(payload []byte) ([]byte, error)

	// Decrypt opens a blob sealed under our public key.
	Decrypt(blob []byte) ([]byte, error)

	// PeerFingerprint reports a short fingerprint of the imported peer
	// key, or false when none has been imported.
	PeerFingerprint() (string, bool)
}

// SessionCipher encrypts and decrypts message payloads under the
// established session key. Implementations must be safe for concurrent
// use by the send and receive duties: calls share only immutable key
// material and allocate their own IVs and buffers.
type SessionCipher interface {
	// Encrypt seals plaintext under a fresh random IV. Two calls with
	// identical plaintext never yield the same IV/ciphertext pair.
	Encrypt(plaintext []byte) (iv [IVSize]byte, ciphertext []byte, err error)

	// Decrypt opens a ciphertext. Any authentication, padding or length
	// problem is ErrDecryptionFailure; no partial plaintext is returned.
	Decrypt(ciphertext []byte, iv [IVSize]byte) ([]byte, error)
}

// LineReader supplies operator input one line at a time. io.EOF signals
// exhausted input.
type LineReader interface {
	ReadLine() (string, error)
}

// Printer surfaces chat traffic and session status to the operator.
type Printer interface {
	Message(text string)
	Status(format string, args ...any)
	Error(format string, args ...any)
}
