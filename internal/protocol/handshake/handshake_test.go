package handshake_test

import (
	"encoding/binary"
	"errors"
	"net"
	"testing"
	"time"

	"cipherlink/internal/crypto"
	"cipherlink/internal/domain"
	"cipherlink/internal/protocol/handshake"
)

type outcome struct {
	res *handshake.Result
	err error
}

// respond runs the listening side of a handshake on conn in the
// background.
func respond(t *testing.T, conn net.Conn) <-chan outcome {
	t.Helper()
	ch := make(chan outcome, 1)
	go func() {
		agent, err := crypto.NewKeyAgent()
		if err != nil {
			ch <- outcome{nil, err}
			return
		}
		res, err := handshake.New(conn, agent).Respond()
		ch <- outcome{res, err}
	}()
	return ch
}

func TestHandshakeEstablishesSharedKey(t *testing.T) {
	dialSide, listenSide := net.Pipe()
	defer dialSide.Close()
	defer listenSide.Close()

	listenc := respond(t, listenSide)

	agent, err := crypto.NewKeyAgent()
	if err != nil {
		t.Fatalf("NewKeyAgent: %v", err)
	}
	hs := handshake.New(dialSide, agent)
	dialRes, err := hs.Initiate()
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if got := hs.State(); got != handshake.SessionKeyEstablished {
		t.Fatalf("dial state = %v, want session-key-established", got)
	}

	listenOut := <-listenc
	if listenOut.err != nil {
		t.Fatalf("Respond: %v", listenOut.err)
	}

	// Handshake symmetry: both ends derived the same session key, so
	// their ciphers interoperate in both directions.
	iv, ct, err := dialRes.Cipher.Encrypt([]byte("dial to listen"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	plain, err := listenOut.res.Cipher.Decrypt(ct, iv)
	if err != nil {
		t.Fatalf("listen side Decrypt: %v", err)
	}
	if string(plain) != "dial to listen" {
		t.Fatalf("got %q", plain)
	}

	iv, ct, err = listenOut.res.Cipher.Encrypt([]byte("listen to dial"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	plain, err = dialRes.Cipher.Decrypt(ct, iv)
	if err != nil {
		t.Fatalf("dial side Decrypt: %v", err)
	}
	if string(plain) != "listen to dial" {
		t.Fatalf("got %q", plain)
	}

	if dialRes.PeerFingerprint == "" || listenOut.res.PeerFingerprint == "" {
		t.Fatalf("missing peer fingerprint")
	}
	if dialRes.PeerFingerprint == listenOut.res.PeerFingerprint {
		t.Fatalf("both sides report the same fingerprint; keys should differ")
	}
}

func TestInitiate_RejectsGarbageKeyRecord(t *testing.T) {
	dialSide, listenSide := net.Pipe()
	defer dialSide.Close()
	defer listenSide.Close()

	// The "listener" sends a well-framed record containing junk instead
	// of a PEM public key.
	go func() {
		junk := []byte("this is not a public key")
		rec := binary.BigEndian.AppendUint32(nil, uint32(len(junk)))
		rec = append(rec, junk...)
		listenSide.Write(rec)
	}()

	agent, err := crypto.NewKeyAgent()
	if err != nil {
		t.Fatalf("NewKeyAgent: %v", err)
	}
	hs := handshake.New(dialSide, agent)
	if _, err := hs.Initiate(); !errors.Is(err, domain.ErrHandshake) {
		t.Fatalf("err = %v, want ErrHandshake", err)
	}
	if got := hs.State(); got != handshake.Failed {
		t.Fatalf("state = %v, want failed", got)
	}
}

func TestInitiate_RejectsOversizeKeyRecord(t *testing.T) {
	dialSide, listenSide := net.Pipe()
	defer dialSide.Close()
	defer listenSide.Close()

	go func() {
		// Declared record length far beyond any plausible PEM key.
		listenSide.Write(binary.BigEndian.AppendUint32(nil, 1<<24))
	}()

	agent, err := crypto.NewKeyAgent()
	if err != nil {
		t.Fatalf("NewKeyAgent: %v", err)
	}
	if _, err := handshake.New(dialSide, agent).Initiate(); !errors.Is(err, domain.ErrHandshake) {
		t.Fatalf("err = %v, want ErrHandshake", err)
	}
}

func TestRespond_FailsOnPeerDisappearing(t *testing.T) {
	dialSide, listenSide := net.Pipe()
	defer listenSide.Close()

	// Drain the listener's public key record, then hang up before
	// sending ours.
	go func() {
		buf := make([]byte, 4096)
		dialSide.SetReadDeadline(time.Now().Add(5 * time.Second))
		dialSide.Read(buf)
		dialSide.Close()
	}()

	agent, err := crypto.NewKeyAgent()
	if err != nil {
		t.Fatalf("NewKeyAgent: %v", err)
	}
	hs := handshake.New(listenSide, agent)
	if _, err := hs.Respond(); !errors.Is(err, domain.ErrHandshake) {
		t.Fatalf("err = %v, want ErrHandshake", err)
	}
	if got := hs.State(); got != handshake.Failed {
		t.Fatalf("state = %v, want failed", got)
	}
}

func TestStateString(t *testing.T) {
	states := map[handshake.State]string{
		handshake.Idle:                  "idle",
		handshake.TransportReady:        "transport-ready",
		handshake.KeysExchanged:         "keys-exchanged",
		handshake.SessionKeyEstablished: "session-key-established",
		handshake.Failed:                "failed",
	}
	for s, want := range states {
		if got := s.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", uint8(s), got, want)
		}
	}
}
