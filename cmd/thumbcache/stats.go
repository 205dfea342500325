package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thumbcache/thumbcache/pkg/status"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the on-disk state of the cache root",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		report, err := status.Collect(rt.resolver)
		if err != nil {
			return err
		}

		if statsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "Root:\t%s\n", report.Root)
		for _, tier := range report.Tiers {
			fmt.Fprintf(tw, "%s:\t%d entries, %d bytes\n", tier.Name, tier.Entries, tier.Bytes)
		}
		fmt.Fprintf(tw, "Total:\t%d entries, %d bytes\n", report.TotalEntries, report.TotalBytes)
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
}
