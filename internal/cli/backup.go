package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy the task store to a timestamped backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		path, err := e.store.Backup(e.cfg.BackupDir(), e.clk.Now())
		if err != nil {
			return err
		}
		fmt.Printf("Backed up task store to %s\n", path)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <backup-file>",
	Short: "Replace the task store with a backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.store.Restore(args[0]); err != nil {
			return err
		}
		fmt.Printf("Restored task store from %s\n", args[0])
		return nil
	},
}
