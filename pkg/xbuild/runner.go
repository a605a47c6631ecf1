package xbuild

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ErrBuildFailed matches every error caused by a build command that exited with a non-zero status
var ErrBuildFailed = eris.New("build failed")

// BuildError describes a failed build
type BuildError struct {
	Target Target
	Status uint8
	Stderr string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build for %s failed with exit status %d", e.Target, e.Status)
}

// Is makes errors.Is(err, ErrBuildFailed) work for all BuildErrors
func (e *BuildError) Is(target error) bool {
	return target == ErrBuildFailed
}

var defaultExecHandler = interp.DefaultExecHandler(2 * time.Second)

// ParseCommand parses the build command into a shell script
func ParseCommand(command string) (*syntax.File, error) {
	if strings.TrimSpace(command) == "" {
		return nil, eris.New("build command is empty")
	}

	parser := syntax.NewParser()
	file, err := parser.Parse(strings.NewReader(command), "command")
	if err != nil {
		return nil, eris.Wrapf(err, "failed to parse command %s", command)
	}

	return file, nil
}

func formatCommand(file *syntax.File) string {
	printer := syntax.NewPrinter(syntax.Minify(true))
	buffer := strings.Builder{}
	err := printer.Print(&buffer, file)
	if err != nil {
		return "<invalid command>"
	}

	return strings.TrimSpace(buffer.String())
}

func describeTarget(opts *Options, target Target) string {
	variant := target.Variant
	if variant == "" {
		variant = "N/A"
	}

	return fmt.Sprintf("Compiling with %s=%s, %s=%s, %s=%s", osSelector, target.OS, archSelector, target.Arch,
		opts.VariantSelector, variant)
}

// CompileTarget runs the build command once for the given target. The outcome is logged and returned; a
// failed build is never returned as an error. Only a cancelled context sets an error that isn't a BuildError.
func CompileTarget(ctx context.Context, opts *Options, target Target) *Result {
	artifact := opts.ArtifactPath(target)
	logger := targetLog(ctx, artifact)
	result := &Result{
		Target:   target,
		Artifact: artifact,
	}

	fail := func(err error) *Result {
		result.err = err
		result.Error = err.Error()
		logger.Error().Err(err).Str("output", result.Stderr).Msg("Failed")
		return result
	}

	script, err := ParseCommand(opts.Command)
	if err != nil {
		return fail(err)
	}

	logger.Info().Msg(describeTarget(opts, target))

	if opts.DryRun {
		logger.Info().
			Bool("command", true).
			Strs("env", sortedSelectors(opts, target)).
			Msg(formatCommand(script))

		result.Skipped = true
		return result
	}

	if opts.OutDir != "" {
		outDir := filepath.Join(opts.Dir, opts.OutDir)
		err = os.MkdirAll(outDir, 0o770)
		if err != nil {
			return fail(eris.Wrapf(err, "failed to create output directory %s", outDir))
		}
	}

	var stdout, stderr bytes.Buffer
	runner, err := interp.New(
		interp.Dir(opts.Dir),
		interp.Env(getTargetEnv(opts, target)),
		interp.ExecHandler(defaultExecHandler),
		interp.StdIO(nil, &stdout, &stderr),
		interp.Params("-e"),
	)
	if err != nil {
		return fail(eris.Wrap(err, "failed to initialize runner"))
	}

	started := time.Now()
	err = runner.Run(ctx, script)
	result.Duration = time.Since(started)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fail(eris.Wrapf(ctxErr, "build for %s was interrupted", target))
		}

		if status, ok := interp.IsExitStatus(err); ok {
			return fail(&BuildError{
				Target: target,
				Status: status,
				Stderr: result.Stderr,
			})
		}

		return fail(eris.Wrapf(err, "build for %s failed", target))
	}

	logger.Info().Str("output", result.Stdout).Msg("Success")

	if opts.Compress != "" {
		packed, err := CompressArtifact(filepath.Join(opts.Dir, artifact), opts.Compress)
		if err != nil {
			// the artifact itself is fine so this doesn't count as a failed build
			result.PackError = err.Error()
			logger.Warn().Err(err).Msg("Built but failed to compress")
			return result
		}

		result.Packed = packed
		logger.Info().Str("path", packed).Msgf("Compressed to %s", packed)
	}

	return result
}

func sortedSelectors(opts *Options, target Target) []string {
	overrides := target.Selectors(opts.VariantSelector)
	return mergeEnv(nil, overrides)
}
