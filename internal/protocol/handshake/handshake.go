package handshake

import (
	"encoding/binary"
	"fmt"
	"io"

	"cipherlink/internal/crypto"
	"cipherlink/internal/domain"
	"cipherlink/internal/util/memzero"
)

// maxKeyRecord bounds the length-prefixed public key record. A PKIX PEM
// encoding of an RSA-2048 public key is under 500 bytes.
const maxKeyRecord = 8 * 1024

// State tracks handshake progress. Any step may jump to Failed, which is
// terminal; there is no retry or renegotiation.
type State uint8

const (
	Idle State = iota
	TransportReady
	KeysExchanged
	SessionKeyEstablished
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case TransportReady:
		return "transport-ready"
	case KeysExchanged:
		return "keys-exchanged"
	case SessionKeyEstablished:
		return "session-key-established"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Result is the outcome of a completed handshake.
type Result struct {
	// Cipher is the session cipher both peers now share.
	Cipher *crypto.SessionCipher

	// PeerFingerprint identifies the peer's public key to the operator.
	// The key is trusted on first use; the fingerprint is the only
	// handle the operator gets to verify it out of band.
	PeerFingerprint string
}

// Handshake drives one key exchange over an established byte stream.
// Steps are blocking and sequential; the value is owned by a single
// goroutine.
type Handshake struct {
	rw    io.ReadWriter
	agent domain.KeyAgent
	state State
}

// New prepares a handshake over rw. The transport is already connected,
// so the state starts at TransportReady.
func New(rw io.ReadWriter, agent domain.KeyAgent) *Handshake {
	return &Handshake{rw: rw, agent: agent, state: TransportReady}
}

// State reports the current handshake state.
func (h *Handshake) State() State { return h.state }

// Initiate runs the connecting-side exchange: read the listener's public
// key, send our own, then generate the session key and send it sealed
// under the listener's key.
func (h *Handshake) Initiate() (*Result, error) {
	peerPEM, err := h.readKeyRecord()
	if err != nil {
		return nil, h.fail("read peer key", err)
	}
	if err := h.agent.ImportPeerKey(peerPEM); err != nil {
		return nil, h.fail("import peer key", err)
	}
	ownPEM, err := h.agent.PublicKeyPEM()
	if err != nil {
		return nil, h.fail("export public key", err)
	}
	if err := h.writeKeyRecord(ownPEM); err != nil {
		return nil, h.fail("send public key", err)
	}
	h.state = KeysExchanged

	key, err := crypto.NewSessionKey()
	if err != nil {
		return nil, h.fail("generate session key", err)
	}
	blob, err := h.agent.EncryptForPeer(key[:])
	if err != nil {
		memzero.Zero(key[:])
		return nil, h.fail("seal session key", err)
	}
	if _, err := h.rw.Write(blob); err != nil {
		memzero.Zero(key[:])
		return nil, h.fail("send session key", err)
	}
	return h.establish(&key)
}

// Respond runs the listening-side exchange: send our public key first,
// read the peer's, then decrypt the session key blob sealed for us.
func (h *Handshake) Respond() (*Result, error) {
	ownPEM, err := h.agent.PublicKeyPEM()
	if err != nil {
		return nil, h.fail("export public key", err)
	}
	if err := h.writeKeyRecord(ownPEM); err != nil {
		return nil, h.fail("send public key", err)
	}
	peerPEM, err := h.readKeyRecord()
	if err != nil {
		return nil, h.fail("read peer key", err)
	}
	if err := h.agent.ImportPeerKey(peerPEM); err != nil {
		return nil, h.fail("import peer key", err)
	}
	h.state = KeysExchanged

	blob := make([]byte, domain.EncryptedKeySize)
	if _, err := io.ReadFull(h.rw, blob); err != nil {
		return nil, h.fail("read session key", err)
	}
	raw, err := h.agent.Decrypt(blob)
	if err != nil {
		return nil, h.fail("unseal session key", err)
	}
	if len(raw) != domain.SessionKeySize {
		memzero.Zero(raw)
		return nil, h.fail("unseal session key",
			fmt.Errorf("got %d bytes, want %d", len(raw), domain.SessionKeySize))
	}
	var key domain.SessionKey
	copy(key[:], raw)
	memzero.Zero(raw)
	return h.establish(&key)
}

func (h *Handshake) establish(key *domain.SessionKey) (*Result, error) {
	cipher, err := crypto.NewSessionCipher(*key)
	memzero.Zero(key[:])
	if err != nil {
		return nil, h.fail("derive session cipher", err)
	}
	h.state = SessionKeyEstablished
	fp, _ := h.agent.PeerFingerprint()
	return &Result{Cipher: cipher, PeerFingerprint: fp}, nil
}

func (h *Handshake) fail(step string, err error) error {
	h.state = Failed
	return fmt.Errorf("%w: %s: %v", domain.ErrHandshake, step, err)
}

// writeKeyRecord sends a public key as length(4, big-endian) || PEM. The
// prefix keeps the exchange intact under TCP fragmentation instead of
// trusting a single read to catch the whole key.
func (h *Handshake) writeKeyRecord(pemBytes []byte) error {
	buf := make([]byte, 0, 4+len(pemBytes))
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(pemBytes)))
	buf = append(buf, pemBytes...)
	_, err := h.rw.Write(buf)
	return err
}

func (h *Handshake) readKeyRecord() ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(h.rw, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n == 0 || n > maxKeyRecord {
		return nil, fmt.Errorf("key record of %d bytes", n)
	}
	rec := make([]byte, n)
	if _, err := io.ReadFull(h.rw, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
