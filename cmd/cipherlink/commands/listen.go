package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"cipherlink/internal/transport"
)

// listen --port N: accept one peer, handshake, chat.
func listenCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Wait for a peer and chat over an encrypted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			acceptor, err := transport.Listen(fmt.Sprintf(":%d", port))
			if err != nil {
				return err
			}
			defer acceptor.Close()

			appCtx.Output.Status("listening on %s", acceptor.Addr())
			conn, err := acceptor.AcceptOne()
			if err != nil {
				return err
			}
			return appCtx.Chat.Host(conn)
		},
	}
	cmd.Flags().IntVar(&port, "port", 5000, "TCP port to listen on")
	return cmd
}
