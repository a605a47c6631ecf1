// Package cmd implements the CLI for the xbuild package
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ngld/xbuild/pkg"
	"github.com/ngld/xbuild/pkg/config"
	"github.com/ngld/xbuild/pkg/xbuild"
)

// RootCmd builds all targets of the configured matrix
var RootCmd = &cobra.Command{
	Use:   "compile",
	Short: "Cross-compiles the entry point for every configured target",
	Long: `Builds the configured entry point once for each combination of OS, architecture and
(for mips and mipsle) variant. Failed builds don't stop the run; they're listed at the end
and cause a non-zero exit status unless --allow-failures is passed.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		opts := cfg.Options()
		opts.DryRun, err = cmd.Flags().GetBool("dry")
		if err != nil {
			return err
		}

		allowFailures, err := cmd.Flags().GetBool("allow-failures")
		if err != nil {
			return err
		}

		showProgress, err := cmd.Flags().GetBool("progress")
		if err != nil {
			return err
		}

		logger := newLogger(cfg)
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		ctx = xbuild.WithLogger(ctx, &logger)

		var progress io.Writer
		if showProgress && term.IsTerminal(int(os.Stderr.Fd())) {
			progress = os.Stderr
		}

		pkg.PrintTask(fmt.Sprintf("Building %d targets", opts.Matrix.Count()))
		report, err := xbuild.Run(ctx, opts, progress)

		if cfg.Report != "" && report != nil {
			if reportErr := xbuild.WriteReport(cfg.Report, report); reportErr != nil {
				logger.Error().Err(reportErr).Msg("Failed to write report")
			}
		}

		if err != nil {
			return err
		}

		printSummary(report)
		if failed := report.Err(); failed != nil && !allowFailures {
			return eris.Wrapf(failed, "%d of %d builds failed", len(report.Failed()), len(report.Results))
		}

		return nil
	},
}

// TargetsCmd lists the targets of the configured matrix without building anything
var TargetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Lists the configured targets and their artifact names",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		opts := cfg.Options()
		targets := opts.Matrix.Targets()

		maxNameLen := 0
		for _, target := range targets {
			nameLen := len(target.String())
			if nameLen > maxNameLen {
				maxNameLen = nameLen
			}
		}

		lineFmt := fmt.Sprintf(" * %%-%ds %%s\n", maxNameLen+3)
		for _, target := range targets {
			fmt.Fprintf(cmd.OutOrStdout(), lineFmt, target.String()+":", opts.ArtifactPath(target))
		}

		return nil
	},
}

func printSummary(report *xbuild.Report) {
	failed := report.Failed()
	skipped := len(report.Results) - len(failed) - report.Succeeded()

	msg := fmt.Sprintf("Built %d of %d targets", report.Succeeded(), len(report.Results))
	if skipped > 0 {
		msg += fmt.Sprintf(" (%d skipped)", skipped)
	}

	if len(failed) == 0 {
		pkg.PrintTask(msg)
	} else {
		pkg.PrintTask(msg + ", failed:")
		for _, item := range failed {
			pkg.PrintError(fmt.Sprintf("%s (%s): %s", item.Artifact, item.Target, item.Error))
		}
	}

	packFailed := report.PackFailed()
	if len(packFailed) > 0 {
		pkg.PrintTask(fmt.Sprintf("%d artifacts were built but couldn't be compressed:", len(packFailed)))
		for _, item := range packFailed {
			pkg.PrintError(fmt.Sprintf("%s: %s", item.Artifact, item.PackError))
		}
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	setErrorMarshaler(cfg.Debug)

	var logger zerolog.Logger
	if cfg.Log.JSON {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(NewConsoleWriter(os.Stderr, cfg.Debug))
	}

	return logger.Level(cfg.LogLevel())
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file := ""
	if flag := cmd.Flags().Lookup("config"); flag != nil {
		file = flag.Value.String()
	}

	cfg, err := config.Load(file)
	if err != nil {
		return nil, err
	}

	err = applyFlags(cmd, cfg)
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, eris.Wrap(err, "Failed to parse config")
	}

	return cfg, nil
}

// applyFlags overrides config values with the flags the user passed explicitly
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	lists := map[string]*[]string{
		"os":           &cfg.OSes,
		"arch":         &cfg.Archs,
		"variant":      &cfg.Variants,
		"variant-arch": &cfg.VariantArchs,
	}
	for name, field := range lists {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			continue
		}

		value, err := flags.GetStringSlice(name)
		if err != nil {
			return err
		}
		*field = value
	}

	strs := map[string]*string{
		"variant-env": &cfg.VariantEnv,
		"output":      &cfg.Output,
		"source":      &cfg.Source,
		"dir":         &cfg.Dir,
		"out-dir":     &cfg.OutDir,
		"command":     &cfg.Command,
		"compress":    &cfg.Compress,
		"report":      &cfg.Report,
		"log-level":   &cfg.Log.Level,
	}
	for name, field := range strs {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			continue
		}

		value, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*field = value
	}

	if flags.Lookup("log-json") != nil && flags.Changed("log-json") {
		value, err := flags.GetBool("log-json")
		if err != nil {
			return err
		}
		cfg.Log.JSON = value
	}

	return nil
}

func addMatrixFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("os", nil, "target operating systems (GOOS)")
	cmd.Flags().StringSlice("arch", nil, "target architectures (GOARCH)")
	cmd.Flags().StringSlice("variant", nil, "variants for mips and mipsle (GOMIPS)")
	cmd.Flags().StringSlice("variant-arch", nil, "architectures that iterate over the variants")
	cmd.Flags().String("variant-env", "", "env var which receives the variant")
	cmd.Flags().StringP("output", "o", "", "base name of the generated binaries")
	cmd.Flags().String("out-dir", "", "directory for the generated binaries")
}

func init() {
	addMatrixFlags(RootCmd)
	RootCmd.Flags().String("source", "", "entry point passed to the build command")
	RootCmd.Flags().StringP("dir", "C", "", "directory the build command runs in")
	RootCmd.Flags().String("command", "", "shell command which builds a single target")
	RootCmd.Flags().String("compress", "", "compress each artifact after building it (xz or br)")
	RootCmd.Flags().String("report", "", "write a YAML report of the run to this file")
	RootCmd.Flags().String("log-level", "", "log level (debug, info, warn, error)")
	RootCmd.Flags().Bool("log-json", false, "output JSONND instead of pretty console messages")
	RootCmd.Flags().BoolP("dry", "n", false, "dry run; only print the commands, don't execute anything")
	RootCmd.Flags().Bool("progress", false, "show a progress bar while building")
	RootCmd.Flags().Bool("allow-failures", false, "exit successfully even if some builds failed")

	addMatrixFlags(TargetsCmd)
}
