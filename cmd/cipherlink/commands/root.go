package commands

import (
	"os"

	"github.com/spf13/cobra"

	"cipherlink/internal/app"
)

var (
	maxFrame uint32
	exitWord string

	appCtx *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:   "cipherlink",
		Short: "Point-to-point encrypted chat over TCP",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			appCtx = app.NewWire(app.Config{
				MaxFrame: maxFrame,
				ExitWord: exitWord,
			}, os.Stdin, os.Stdout)
		},
	}

	root.PersistentFlags().Uint32Var(&maxFrame, "max-frame", app.DefaultMaxFrame,
		"largest accepted ciphertext length per frame, in bytes")
	root.PersistentFlags().StringVar(&exitWord, "exit-word", app.DefaultExitWord,
		"console command that ends the session")

	root.AddCommand(listenCmd(), dialCmd())
	return root.Execute()
}
