package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ngld/xbuild/pkg/xbuild/cmd"
)

var rootCmd = &cobra.Command{
	Use:   "xbuild",
	Short: "Cross-compilation helper",
	Long: `This command builds a Go entry point for a matrix of operating systems, architectures
and variants. Each binary is named {output}_{arch}_{variant|default}.`,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "TOML config file (defaults to xbuild.toml if it exists)")
	rootCmd.AddCommand(cmd.RootCmd)
	rootCmd.AddCommand(cmd.TargetsCmd)
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
