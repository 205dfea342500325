package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thumbcache/thumbcache/internal/cache"
	"github.com/thumbcache/thumbcache/internal/pngmeta"
)

var verifySource string

var verifyCmd = &cobra.Command{
	Use:   "verify <thumbnail.png>",
	Short: "Verify a cache entry's provenance against its source file",
	Long: `Checks that the given PNG carries checksum-valid provenance records
matching the source file's URI and current modification time. Exits
non-zero when the entry is invalid or stale.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		local, err := cache.DefaultResolvePath(verifySource)
		if err != nil {
			return err
		}
		info, err := os.Stat(local)
		if err != nil {
			return err
		}

		uri := "file://" + local
		if !pngmeta.VerifyProvenance(args[0], uri, info.ModTime().Unix()) {
			return fmt.Errorf("%s does not carry valid provenance for %s", args[0], local)
		}

		fmt.Printf("valid: %s matches %s\n", args[0], local)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&verifySource, "source", "", "source file the entry must describe")
	verifyCmd.MarkFlagRequired("source")
}
