package cmd

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ngld/xbuild/pkg"
	"github.com/ngld/xbuild/pkg/xbuild"
)

var packCmd = &cobra.Command{
	Use:   "pack format artifact...",
	Short: "Compresses already built artifacts",
	Long: `Pass the compression format (xz or br) followed by the files that should be compressed.
Each file is compressed into a new file with the format's extension; the original is kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 {
			return eris.New("Expected a format and at least one file!")
		}

		format := args[0]
		if _, ok := xbuild.CompressionFormats[format]; !ok {
			return eris.Errorf("Unknown format %s (must be one of xz or br)", format)
		}

		pkg.PrintTask(fmt.Sprintf("Compressing %d files", len(args)-1))
		for _, item := range args[1:] {
			packed, err := xbuild.CompressArtifact(item, format)
			if err != nil {
				pkg.PrintError(item)
				return err
			}

			pkg.PrintSubtask(packed)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(packCmd)
}
