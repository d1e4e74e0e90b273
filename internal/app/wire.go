package app

import (
	"io"

	"cipherlink/internal/console"
	"cipherlink/internal/domain"
	chatsvc "cipherlink/internal/services/chat"
)

// Wire bundles the collaborators the CLI hands to its subcommands.
type Wire struct {
	Output domain.Printer
	Chat   *chatsvc.Service
}

// NewWire constructs the dependency graph from cfg, reading operator
// input from in and writing to out.
func NewWire(cfg Config, in io.Reader, out io.Writer) *Wire {
	cfg = cfg.withDefaults()
	reader := console.NewLineReader(in)
	printer := console.NewPrinter(out)
	return &Wire{
		Output: printer,
		Chat:   chatsvc.New(reader, printer, cfg.MaxFrame, cfg.ExitWord),
	}
}
