package commands

import (
	"github.com/spf13/cobra"

	"cipherlink/internal/transport"
)

// dial <host:port>: connect to a listening peer, handshake, chat.
func dialCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dial <host:port>",
		Short: "Connect to a listening peer and chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := transport.Dial(args[0])
			if err != nil {
				return err
			}
			appCtx.Output.Status("connected to %s", conn.RemoteAddr())
			return appCtx.Chat.Join(conn)
		},
	}
}
