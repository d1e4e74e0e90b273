package frame

import (
	"encoding/binary"
	"fmt"
	"io"

	"cipherlink/internal/domain"
)

// DefaultMaxFrame bounds the declared ciphertext length accepted from the
// wire. The length field itself allows 4 GiB; reading an attacker
// controlled length without a ceiling would let one corrupt frame force
// an unbounded allocation.
const DefaultMaxFrame = 1 << 20

const lenSize = 4

// Codec reads and writes encrypted message frames over a byte stream.
//
// A frame is IV(16) || length(4, big-endian uint32) || ciphertext, where
// length is the ciphertext byte count. Frames are transient: built, sent
// and discarded.
type Codec struct {
	rw       io.ReadWriter
	cipher   domain.SessionCipher
	maxFrame uint32
}

// New returns a codec over rw using the established session cipher.
func New(rw io.ReadWriter, cipher domain.SessionCipher) *Codec {
	return &Codec{rw: rw, cipher: cipher, maxFrame: DefaultMaxFrame}
}

// WithMaxFrame overrides the ciphertext length ceiling.
func (c *Codec) WithMaxFrame(n uint32) *Codec {
	if n > 0 {
		c.maxFrame = n
	}
	return c
}

// WriteFrame encrypts plaintext and writes one frame. The three parts go
// out as a single write so a frame is never interleaved mid-send; the
// net.Conn write contract retries partial writes internally.
func (c *Codec) WriteFrame(plaintext string) error {
	iv, ct, err := c.cipher.Encrypt([]byte(plaintext))
	if err != nil {
		return err
	}
	buf := make([]byte, 0, domain.IVSize+lenSize+len(ct))
	buf = append(buf, iv[:]...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(ct)))
	buf = append(buf, ct...)
	if _, err := c.rw.Write(buf); err != nil {
		return fmt.Errorf("%w: write frame: %v", domain.ErrTransport, err)
	}
	return nil
}

// ReadFrame reads and decrypts one frame. io.EOF is returned only when
// the stream closes cleanly before the first IV byte; a close anywhere
// later in the frame is ErrTruncatedFrame. A decryption failure must be
// treated as "connection dead", never as an empty message.
func (c *Codec) ReadFrame() (string, error) {
	var iv [domain.IVSize]byte
	if _, err := io.ReadFull(c.rw, iv[:]); err != nil {
		if err == io.EOF {
			return "", io.EOF
		}
		return "", readErr("iv", err)
	}

	var lenBuf [lenSize]byte
	if _, err := io.ReadFull(c.rw, lenBuf[:]); err != nil {
		return "", readErr("length", err)
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > c.maxFrame {
		return "", fmt.Errorf("%w: declared %d > %d bytes", domain.ErrFrameTooLarge, n, c.maxFrame)
	}

	ct := make([]byte, n)
	if _, err := io.ReadFull(c.rw, ct); err != nil {
		return "", readErr("ciphertext", err)
	}

	plain, err := c.cipher.Decrypt(ct, iv)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// readErr classifies a short read: stream end mid-frame is truncation,
// anything else is a transport fault.
func readErr(part string, err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%w: stream ended reading %s", domain.ErrTruncatedFrame, part)
	}
	return fmt.Errorf("%w: read %s: %v", domain.ErrTransport, part, err)
}
