package app

import (
	"cipherlink/internal/protocol/frame"
	"cipherlink/internal/services/chat"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	MaxFrame uint32 // ciphertext length ceiling per frame
	ExitWord string // console sentinel that ends the session
}

const (
	DefaultMaxFrame = frame.DefaultMaxFrame
	DefaultExitWord = chat.DefaultExitWord
)

func (c Config) withDefaults() Config {
	if c.MaxFrame == 0 {
		c.MaxFrame = DefaultMaxFrame
	}
	if c.ExitWord == "" {
		c.ExitWord = DefaultExitWord
	}
	return c
}
