package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jhaenchen/procrastitask/internal/collection"
	"github.com/jhaenchen/procrastitask/internal/model"
)

var listAll bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the ranked task list and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		tasks, err := e.store.Load()
		if err != nil {
			return err
		}
		now := e.clk.Now()
		col := collection.New(tasks, tasks, e.log)
		queued, others, err := col.Ranked(now, !listAll)
		if err != nil {
			return err
		}

		printGroup := func(header string, group []*model.Task) error {
			if len(group) == 0 {
				return nil
			}
			fmt.Printf("%s:\n", header)
			for _, t := range group {
				stress, err := t.RenderedStress(now)
				if err != nil {
					return err
				}
				marker := ""
				if t.IsDueSoon(now) {
					marker = "! "
				}
				fmt.Printf("  %s%s (%dmin, stress: %d) [%s]\n", marker, t.Title, t.Duration, int(stress), t.ID)
			}
			return nil
		}
		if err := printGroup("Queued", queued); err != nil {
			return err
		}
		return printGroup("Tasks", others)
	},
}

var velocityCmd = &cobra.Command{
	Use:   "velocity",
	Short: "Print completion velocity over the configured window",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		tasks, err := e.store.Load()
		if err != nil {
			return err
		}
		now := e.clk.Now()
		col := collection.New(tasks, tasks, e.log)

		overall, err := col.Velocity(e.cfg.VelocityWindow(), now)
		if err != nil {
			return err
		}
		fmt.Printf("Velocity over the last %d days: %.1f%%\n", e.cfg.VelocityWindowDays, overall)

		byList, err := col.VelocityByList(e.cfg.VelocityWindow(), now)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(byList))
		for name := range byList {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %s: %.1f%%\n", name, byList[name])
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listAll, "all", false, "include completed and blocked tasks")
}
