package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"cipherlink/internal/domain"
	"cipherlink/internal/util/memzero"
)

// TagSize is the HMAC-SHA256 tag appended to every ciphertext. It is a
// multiple of the AES block size, so a transmitted ciphertext stays
// block-aligned.
const TagSize = sha256.Size

const kdfInfo = "cipherlink session v1"

// SessionCipher encrypts chat payloads with AES-256-CBC and
// authenticates them encrypt-then-MAC with HMAC-SHA256. The cipher and
// MAC subkeys are HKDF-expanded from the 32-byte session secret, so both
// peers derive the same pair. The struct is immutable after construction
// and safe for concurrent use by the send and receive duties.
type SessionCipher struct {
	encKey [32]byte
	macKey [32]byte
}

// NewSessionCipher derives the cipher and MAC subkeys from master. The
// caller should wipe its copy of master afterwards.
func NewSessionCipher(master domain.SessionKey) (*SessionCipher, error) {
	kdf := hkdf.New(sha256.New, master.Slice(), nil, []byte(kdfInfo))
	sc := &SessionCipher{}
	if _, err := io.ReadFull(kdf, sc.encKey[:]); err != nil {
		return nil, fmt.Errorf("derive cipher key: %w", err)
	}
	if _, err := io.ReadFull(kdf, sc.macKey[:]); err != nil {
		return nil, fmt.Errorf("derive mac key: %w", err)
	}
	return sc, nil
}

// Encrypt seals plaintext under a fresh random IV. The returned
// ciphertext is the CBC output followed by the authentication tag.
func (c *SessionCipher) Encrypt(plaintext []byte) (iv [domain.IVSize]byte, ciphertext []byte, err error) {
	if _, err = rand.Read(iv[:]); err != nil {
		return iv, nil, fmt.Errorf("%w: iv: %v", domain.ErrKeyGeneration, err)
	}
	block, err := aes.NewCipher(c.encKey[:])
	if err != nil {
		return iv, nil, err
	}
	padded := pad(plaintext)
	ciphertext = make([]byte, len(padded), len(padded)+TagSize)
	cipher.NewCBCEncrypter(block, iv[:]).CryptBlocks(ciphertext, padded)
	ciphertext = c.appendTag(ciphertext, iv)
	return iv, ciphertext, nil
}

// Decrypt opens a ciphertext produced by Encrypt. The tag is verified in
// constant time before any block is decrypted; every failure mode
// collapses into ErrDecryptionFailure with no partial plaintext.
func (c *SessionCipher) Decrypt(ciphertext []byte, iv [domain.IVSize]byte) ([]byte, error) {
	if len(ciphertext) < aes.BlockSize+TagSize {
		return nil, domain.ErrDecryptionFailure
	}
	body := ciphertext[:len(ciphertext)-TagSize]
	tag := ciphertext[len(ciphertext)-TagSize:]
	if len(body)%aes.BlockSize != 0 {
		return nil, domain.ErrDecryptionFailure
	}
	if !hmac.Equal(tag, c.tag(iv, body)) {
		return nil, domain.ErrDecryptionFailure
	}
	block, err := aes.NewCipher(c.encKey[:])
	if err != nil {
		return nil, domain.ErrDecryptionFailure
	}
	out := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv[:]).CryptBlocks(out, body)
	return unpad(out)
}

// Zero wipes the derived subkeys. The cipher is unusable afterwards.
func (c *SessionCipher) Zero() {
	memzero.Zero(c.encKey[:])
	memzero.Zero(c.macKey[:])
}

func (c *SessionCipher) tag(iv [domain.IVSize]byte, body []byte) []byte {
	mac := hmac.New(sha256.New, c.macKey[:])
	mac.Write(iv[:])
	mac.Write(body)
	return mac.Sum(nil)
}

func (c *SessionCipher) appendTag(body []byte, iv [domain.IVSize]byte) []byte {
	return append(body, c.tag(iv, body)...)
}

// pad applies PKCS#7 padding. Always at least one byte, so the empty
// message round-trips.
func pad(in []byte) []byte {
	n := aes.BlockSize - len(in)%aes.BlockSize
	out := make([]byte, len(in)+n)
	copy(out, in)
	for i := len(in); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func unpad(in []byte) ([]byte, error) {
	if len(in) == 0 || len(in)%aes.BlockSize != 0 {
		return nil, domain.ErrDecryptionFailure
	}
	n := int(in[len(in)-1])
	if n == 0 || n > aes.BlockSize {
		return nil, domain.ErrDecryptionFailure
	}
	for _, b := range in[len(in)-n:] {
		if int(b) != n {
			return nil, domain.ErrDecryptionFailure
		}
	}
	return in[:len(in)-n], nil
}

var _ domain.SessionCipher = (*SessionCipher)(nil)
