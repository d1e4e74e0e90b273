package domain

const (
	// RSAKeyBits is the size of the per-connection asymmetric key pair.
	RSAKeyBits = 2048

	// EncryptedKeySize is the size of the OAEP blob carrying the session
	// key: always one RSA modulus worth of bytes.
	EncryptedKeySize = RSAKeyBits / 8

	// SessionKeySize is the size of the symmetric session secret.
	SessionKeySize = 32

	// IVSize is the per-message initialization vector size (one AES block).
	IVSize = 16
)

// SessionKey is the 256-bit symmetric secret shared by both peers for the
// lifetime of one connection. Exactly one side generates it; the other
// receives it sealed under its public key.
type SessionKey [SessionKeySize]byte

// Slice returns the key as a []byte.
func (k SessionKey) Slice() []byte { return k[:] }
