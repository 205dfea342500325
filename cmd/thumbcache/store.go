package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thumbcache/thumbcache/pkg/types"
)

var storeSize string

var storeCmd = &cobra.Command{
	Use:   "store <file>",
	Short: "Render and store a thumbnail for a file",
	Long: `Decodes the given PNG image, scales it so its larger side matches the
chosen tier exactly, and stores the result in the primary cache with
provenance records for the source file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		tier, err := tierByName(storeSize)
		if err != nil {
			return err
		}

		surface, err := rt.codec.Decode(args[0])
		if err != nil {
			return err
		}
		surface, err = fitToTier(rt, surface, tier)
		if err != nil {
			return err
		}

		f := &types.SourceFile{
			DisplayName: filepath.Base(args[0]),
			Path:        args[0],
			Thumbnail:   surface,
		}
		if !rt.cache.Store(f) {
			return fmt.Errorf("thumbnail for %s was not stored", args[0])
		}

		fmt.Printf("stored: %s tier, %dx%d\n", tier, surface.Width(), surface.Height())
		return nil
	},
}

func tierByName(name string) (types.Tier, error) {
	switch name {
	case "large":
		return types.TierLarge, nil
	case "normal":
		return types.TierNormal, nil
	default:
		return 0, fmt.Errorf("unknown tier %q (want large or normal)", name)
	}
}

// fitToTier scales a surface so its larger side equals the tier's
// dimension exactly, preserving aspect ratio. Surfaces already at tier
// size pass through.
func fitToTier(rt *runtime, s types.Surface, tier types.Tier) (types.Surface, error) {
	max := tier.MaxDimension()
	w, h := s.Width(), s.Height()
	if w == max || h == max {
		return s, nil
	}

	var tw, th int
	if w >= h {
		tw = max
		th = h * max / w
	} else {
		th = max
		tw = w * max / h
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	return rt.codec.Scale(s, tw, th)
}

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.Flags().StringVar(&storeSize, "size", "large", "target tier: large (256) or normal (128)")
}
