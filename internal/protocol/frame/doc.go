// Package frame implements the wire envelope for encrypted messages:
// a 16-byte IV, a 4-byte big-endian ciphertext length, and the
// ciphertext itself. It owns the distinction between a clean peer close
// (io.EOF before a frame starts) and a stream that dies mid-frame.
package frame
