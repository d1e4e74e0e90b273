package chat

import (
	"errors"
	"io"
	"net"

	"github.com/google/uuid"

	"cipherlink/internal/crypto"
	"cipherlink/internal/domain"
	"cipherlink/internal/protocol/frame"
	"cipherlink/internal/protocol/handshake"
)

const (
	// DefaultExitWord ends the send loop when typed by the operator.
	DefaultExitWord = "/exit"
)

// Service runs encrypted chat sessions over established connections.
type Service struct {
	input    domain.LineReader
	output   domain.Printer
	maxFrame uint32
	exitWord string
}

// New constructs a chat service. maxFrame of zero means the codec
// default; exitWord of "" means DefaultExitWord.
func New(input domain.LineReader, output domain.Printer, maxFrame uint32, exitWord string) *Service {
	if exitWord == "" {
		exitWord = DefaultExitWord
	}
	return &Service{
		input:    input,
		output:   output,
		maxFrame: maxFrame,
		exitWord: exitWord,
	}
}

// Host runs the listening side of the handshake on conn, then chats
// until the session ends. The connection is closed on return.
func (s *Service) Host(conn net.Conn) error {
	return s.run(conn, (*handshake.Handshake).Respond)
}

// Join runs the connecting side of the handshake on conn, then chats
// until the session ends. The connection is closed on return.
func (s *Service) Join(conn net.Conn) error {
	return s.run(conn, (*handshake.Handshake).Initiate)
}

func (s *Service) run(conn net.Conn, exchange func(*handshake.Handshake) (*handshake.Result, error)) error {
	defer conn.Close()

	// Fresh key pair per connection; discarded with it.
	agent, err := crypto.NewKeyAgent()
	if err != nil {
		s.output.Error("%v", err)
		return err
	}
	res, err := exchange(handshake.New(conn, agent))
	if err != nil {
		s.output.Error("%v", err)
		return err
	}
	defer res.Cipher.Zero()

	session := uuid.NewString()
	s.output.Status("session %s established with %s (peer key %s)",
		session, conn.RemoteAddr(), res.PeerFingerprint)
	s.output.Status("type a message, or %s to leave", s.exitWord)

	codec := frame.New(conn, res.Cipher).WithMaxFrame(s.maxFrame)

	// Two duties, one connection. Operator input reaches the send duty
	// as messages on a channel, so teardown never has to join a
	// goroutine wedged on a console read: closing the conn unblocks the
	// receive duty, closing stop unblocks the send duty, and both are
	// joined before returning.
	lines := make(chan lineEvent)
	stop := make(chan struct{})
	go s.pumpInput(lines, stop)

	errc := make(chan error, 2)
	go func() { errc <- s.receive(codec) }()
	go func() { errc <- s.send(codec, lines, stop) }()

	first := <-errc
	close(stop)
	conn.Close()
	<-errc

	if errors.Is(first, io.EOF) {
		s.output.Status("session %s closed", session)
		return nil
	}
	s.output.Error("session %s aborted: %v", session, first)
	return first
}

// receive surfaces decrypted frames until the peer closes the stream or
// a frame cannot be trusted. A decryption failure aborts the session: a
// corrupt CBC stream cannot be resynchronised, so the policy is drop
// connection, not drop message.
func (s *Service) receive(codec *frame.Codec) error {
	for {
		msg, err := codec.ReadFrame()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.output.Status("peer left the session")
			}
			return err
		}
		s.output.Message(msg)
	}
}

// lineEvent carries one operator line, or the error that ended input.
type lineEvent struct {
	text string
	err  error
}

// pumpInput forwards operator lines to the send duty. The pump owns the
// blocking console read; if the session tears down first it exits on the
// next line (or input EOF) rather than wedging the teardown.
func (s *Service) pumpInput(lines chan<- lineEvent, stop <-chan struct{}) {
	for {
		text, err := s.input.ReadLine()
		select {
		case lines <- lineEvent{text: text, err: err}:
			if err != nil {
				return
			}
		case <-stop:
			return
		}
	}
}

// send encrypts operator lines until the exit sentinel or input EOF,
// both reported as a graceful io.EOF.
func (s *Service) send(codec *frame.Codec, lines <-chan lineEvent, stop <-chan struct{}) error {
	for {
		select {
		case ev := <-lines:
			if ev.err != nil {
				return ev.err
			}
			if ev.text == s.exitWord {
				return io.EOF
			}
			if err := codec.WriteFrame(ev.text); err != nil {
				return err
			}
		case <-stop:
			return io.EOF
		}
	}
}
