package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thumbcache/thumbcache/internal/cache"
	"github.com/thumbcache/thumbcache/internal/location"
	"github.com/thumbcache/thumbcache/pkg/types"
)

var pathCmd = &cobra.Command{
	Use:   "path <file>",
	Short: "Print the cache entry paths a file maps to",
	Long: `Prints the primary cache entry path for each tier, derived from the
MD5 of the file's URI. The entries need not exist.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		local, err := cache.DefaultResolvePath(args[0])
		if err != nil {
			return err
		}

		key := location.Key("file://" + local)
		for _, tier := range []types.Tier{types.TierLarge, types.TierNormal} {
			entry, err := rt.resolver.EntryPath(tier, key)
			if err != nil {
				return err
			}
			fmt.Printf("%s\t%s\n", tier, entry)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pathCmd)
}
