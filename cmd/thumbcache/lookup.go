package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thumbcache/thumbcache/pkg/types"
)

var (
	lookupWidth  int
	lookupHeight int
	lookupOut    string
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <file>",
	Short: "Look up a cached thumbnail for a file",
	Long: `Looks up a cached thumbnail for the given file within the requested
bounding box, validating provenance and checksums along the way. Exits
non-zero on a miss. With --out, the resulting surface is written as a
plain PNG.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		f := &types.SourceFile{
			DisplayName: filepath.Base(args[0]),
			Path:        args[0],
		}
		if !rt.cache.Load(f, lookupWidth, lookupHeight) {
			return fmt.Errorf("no valid cached thumbnail for %s within %dx%d",
				args[0], lookupWidth, lookupHeight)
		}

		fmt.Printf("hit: %dx%d\n", f.Thumbnail.Width(), f.Thumbnail.Height())
		if lookupOut == "" {
			return nil
		}

		out, err := os.Create(lookupOut)
		if err != nil {
			return err
		}
		if err := rt.codec.Encode(f.Thumbnail, out); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().IntVar(&lookupWidth, "width", 128, "maximum width of the returned surface")
	lookupCmd.Flags().IntVar(&lookupHeight, "height", 128, "maximum height of the returned surface")
	lookupCmd.Flags().StringVar(&lookupOut, "out", "", "write the resulting surface to this PNG file")
}
