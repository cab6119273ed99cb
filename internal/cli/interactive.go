package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jhaenchen/procrastitask/internal/app"
)

func runInteractive(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	session := app.NewSession(e.cfg, e.store, e.reg, e.events, e.clk, e.log.Sugar(), os.Stdin, os.Stdout)
	if err := session.Load(e.cfg.DefaultLists); err != nil {
		return err
	}
	return session.Run()
}
