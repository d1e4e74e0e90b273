package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"

	"cipherlink/internal/domain"
	"cipherlink/internal/util/memzero"
)

// MaxOAEPPayload is the largest payload EncryptForPeer accepts:
// k − 2·hLen − 2 for an RSA-2048 modulus and SHA-256.
const MaxOAEPPayload = domain.EncryptedKeySize - 2*sha256.Size - 2

const pemKeyType = "PUBLIC KEY"

// KeyAgent holds one connection's RSA-2048 key pair and, after import,
// the peer's public key. An agent is created when the connection is set
// up and discarded with it; the private key never leaves the process and
// the peer key is immutable once imported.
type KeyAgent struct {
	priv *rsa.PrivateKey
	peer *rsa.PublicKey
}

// NewKeyAgent generates a fresh RSA-2048 key pair (public exponent 65537).
func NewKeyAgent() (*KeyAgent, error) {
	priv, err := rsa.GenerateKey(rand.Reader, domain.RSAKeyBits)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrKeyGeneration, err)
	}
	return &KeyAgent{priv: priv}, nil
}

// PublicKeyPEM exports the local public key as a PKIX PEM block.
func (a *KeyAgent) PublicKeyPEM() ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(&a.priv.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("encode public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemKeyType, Bytes: der}), nil
}

// ImportPeerKey parses the peer's PEM-encoded public key.
func (a *KeyAgent) ImportPeerKey(pemBytes []byte) error {
	block, _ := pem.Decode(pemBytes)
	if block == nil || block.Type != pemKeyType {
		return domain.ErrInvalidKeyFormat
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidKeyFormat, err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: not an RSA key", domain.ErrInvalidKeyFormat)
	}
	a.peer = rsaPub
	return nil
}

// EncryptForPeer seals payload under the imported peer key with
// RSA-OAEP(SHA-256). The session key is far below the OAEP ceiling, so a
// single call always suffices.
func (a *KeyAgent) EncryptForPeer(payload []byte) ([]byte, error) {
	if a.peer == nil {
		return nil, domain.ErrPeerKeyMissing
	}
	if len(payload) > MaxOAEPPayload {
		return nil, fmt.Errorf("%w: %d > %d bytes", domain.ErrPayloadTooLarge, len(payload), MaxOAEPPayload)
	}
	blob, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, a.peer, payload, nil)
	if err != nil {
		return nil, fmt.Errorf("seal payload: %w", err)
	}
	return blob, nil
}

// Decrypt opens an OAEP blob with the local private key. Padding and
// format mismatches all collapse into ErrDecryptionFailure so nothing
// about the failure mode leaks.
func (a *KeyAgent) Decrypt(blob []byte) ([]byte, error) {
	out, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, a.priv, blob, nil)
	if err != nil {
		return nil, domain.ErrDecryptionFailure
	}
	return out, nil
}

// PeerFingerprint returns a short SHA-256 fingerprint of the imported
// peer key for operator display, or false before import.
func (a *KeyAgent) PeerFingerprint() (string, bool) {
	if a.peer == nil {
		return "", false
	}
	der, err := x509.MarshalPKIXPublicKey(a.peer)
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(der)
	return hex.EncodeToString(sum[:10]), true
}

// NewSessionKey draws a fresh 256-bit session secret.
func NewSessionKey() (domain.SessionKey, error) {
	var k domain.SessionKey
	if _, err := rand.Read(k[:]); err != nil {
		memzero.Zero(k[:])
		return k, fmt.Errorf("%w: %v", domain.ErrKeyGeneration, err)
	}
	return k, nil
}

var _ domain.KeyAgent = (*KeyAgent)(nil)
