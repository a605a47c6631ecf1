package xbuild

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aidarkhanov/nanoid"
	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
)

func newProgressBar(total int, w io.Writer) *progressbar.ProgressBar {
	if w == nil {
		return progressbar.NewOptions(total, progressbar.OptionSetVisibility(false))
	}

	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("building"),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
	)
}

// Run builds every target in opts.Matrix, one after another. A failed build doesn't stop the
// run; it's recorded in the returned report (see Report.Err). Run only returns an error if the
// build command can't be parsed or the context is cancelled.
func Run(ctx context.Context, opts *Options, progress io.Writer) (*Report, error) {
	report := &Report{
		RunID:   nanoid.New(),
		Started: time.Now(),
		Results: make([]*Result, 0, opts.Matrix.Count()),
	}

	if _, err := ParseCommand(opts.Command); err != nil {
		return report, err
	}

	logger := log(ctx).With().Str("run", report.RunID).Logger()
	ctx = WithLogger(ctx, &logger)

	targets := opts.Matrix.Targets()
	bar := newProgressBar(len(targets), progress)
	defer bar.Finish()

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return report, eris.Wrap(err, "build run was interrupted")
		}

		bar.Describe(target.String())
		result := CompileTarget(ctx, opts, target)
		report.Results = append(report.Results, result)
		_ = bar.Add(1)

		if err := ctx.Err(); err != nil {
			return report, eris.Wrap(err, "build run was interrupted")
		}
	}

	report.Duration = time.Since(report.Started)
	return report, nil
}
