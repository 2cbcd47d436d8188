package main

import (
	"encoding/json"
	"fmt"

	"github.com/lychee-technology/formbuilder/timeslot"
	"github.com/spf13/cobra"
)

func newSlotsCmd() *cobra.Command {
	var (
		start    string
		end      string
		interval int
		exclude  []string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Print the time labels a timeslot rule generates",
		Example: `  formbuilder-tools slots --start 09:00 --end 12:00 --interval 45
  formbuilder-tools slots --exclude 12:00,12:30 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slots, err := timeslot.GenerateFromText(start, end, interval)
			if err != nil {
				return err
			}
			slots = timeslot.FilterExcluded(slots, exclude)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(slots)
			}
			for _, slot := range slots {
				fmt.Fprintln(out, slot)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "09:00", "first slot, HH:MM")
	cmd.Flags().StringVar(&end, "end", "18:00", "latest possible slot, HH:MM")
	cmd.Flags().IntVar(&interval, "interval", 30, "minutes between slots")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "labels to leave out")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON array")
	return cmd
}
