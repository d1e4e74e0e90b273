package frame_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"cipherlink/internal/crypto"
	"cipherlink/internal/domain"
	"cipherlink/internal/protocol/frame"
)

// newCodec builds a codec over buf with a deterministic session cipher.
func newCodec(t *testing.T, buf *bytes.Buffer) *frame.Codec {
	t.Helper()
	var key domain.SessionKey
	key[0] = 0x11
	cipher, err := crypto.NewSessionCipher(key)
	if err != nil {
		t.Fatalf("NewSessionCipher: %v", err)
	}
	return frame.New(buf, cipher)
}

func TestFrameRoundTrip(t *testing.T) {
	for _, msg := range []string{
		"",
		"hello",
		"héllo wörld",
		"日本語のメッセージ",
		"exactly sixteen!",
	} {
		var buf bytes.Buffer
		codec := newCodec(t, &buf)
		if err := codec.WriteFrame(msg); err != nil {
			t.Fatalf("WriteFrame(%q): %v", msg, err)
		}
		got, err := codec.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame(%q): %v", msg, err)
		}
		if got != msg {
			t.Fatalf("round trip: got %q, want %q", got, msg)
		}
	}
}

func TestReadFrame_GracefulClose(t *testing.T) {
	// A stream that ends before the first IV byte is a clean close.
	var buf bytes.Buffer
	codec := newCodec(t, &buf)
	if _, err := codec.ReadFrame(); err != io.EOF {
		t.Fatalf("err = %v, want io.EOF", err)
	}
}

func TestReadFrame_Truncation(t *testing.T) {
	var full bytes.Buffer
	if err := newCodec(t, &full).WriteFrame("a message that spans a few blocks at least"); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	wire := full.Bytes()

	cases := []struct {
		name string
		keep int
	}{
		{"mid iv", 7},
		{"after iv", domain.IVSize},
		{"mid length", domain.IVSize + 2},
		{"mid ciphertext", len(wire) - 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			buf.Write(wire[:tc.keep])
			codec := newCodec(t, &buf)
			if _, err := codec.ReadFrame(); !errors.Is(err, domain.ErrTruncatedFrame) {
				t.Fatalf("err = %v, want ErrTruncatedFrame", err)
			}
		})
	}
}

func TestReadFrame_RejectsOversizeLength(t *testing.T) {
	// IV plus a declared length over the ceiling, no ciphertext. The
	// codec must refuse before trying to allocate or read.
	var buf bytes.Buffer
	buf.Write(make([]byte, domain.IVSize))
	buf.Write([]byte{0x00, 0x00, 0x01, 0x01}) // 257 > ceiling of 256
	codec := newCodec(t, &buf).WithMaxFrame(256)
	if _, err := codec.ReadFrame(); !errors.Is(err, domain.ErrFrameTooLarge) {
		t.Fatalf("err = %v, want ErrFrameTooLarge", err)
	}
}

func TestReadFrame_TamperedCiphertext(t *testing.T) {
	var buf bytes.Buffer
	codec := newCodec(t, &buf)
	if err := codec.WriteFrame("hello"); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	wire := buf.Bytes()
	wire[domain.IVSize+4] ^= 0x01 // first ciphertext byte

	if _, err := codec.ReadFrame(); !errors.Is(err, domain.ErrDecryptionFailure) {
		t.Fatalf("err = %v, want ErrDecryptionFailure", err)
	}
}

func TestReadFrame_SequentialMessages(t *testing.T) {
	var buf bytes.Buffer
	codec := newCodec(t, &buf)
	msgs := []string{"first", "second", "", "fourth"}
	for _, m := range msgs {
		if err := codec.WriteFrame(m); err != nil {
			t.Fatalf("WriteFrame(%q): %v", m, err)
		}
	}
	for _, want := range msgs {
		got, err := codec.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame: %v", err)
		}
		if got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
	if _, err := codec.ReadFrame(); err != io.EOF {
		t.Fatalf("after last frame: err = %v, want io.EOF", err)
	}
}
