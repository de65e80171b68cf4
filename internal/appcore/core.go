package appcore

import (
	"context"
	"errors"
	"io"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"scaffold/internal/config"
	"scaffold/internal/contig"
	"scaffold/internal/linkage"
	"scaffold/internal/pipeline"
	"scaffold/internal/report"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitRuntime  = 3
	ExitCanceled = 130
)

type Options struct {
	AlignmentFile string
	ContigFile    string
	Config        config.Config
}

// Run loads the contigs, aggregates the alignment file, and writes the
// ranked report to stdout. Nothing reaches stdout unless every input was
// read to the end.
func Run(parent context.Context, stdout io.Writer, log *zap.Logger, o Options) int {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	contigs, err := contig.Load(ctx, o.ContigFile)
	if err != nil {
		return fail(log, err, "load contigs", o.ContigFile)
	}
	log.Debug("contigs loaded", zap.String("path", o.ContigFile), zap.Int("contigs", contigs.Len()))

	ropts := o.Config.ReaderOptions()
	ropts.OnSkip = func(err error) {
		log.Debug("skipping malformed alignment record", zap.Error(err))
	}
	res, err := pipeline.Run(ctx, pipeline.Config{
		QueueSize: o.Config.QueueSize,
		Reader:    ropts,
		Linkage:   o.Config.LinkageOptions(),
	}, o.AlignmentFile, contigs)
	if err != nil {
		return fail(log, err, "read alignments", o.AlignmentFile)
	}
	if ctx.Err() != nil {
		return ExitCanceled
	}

	ranked := report.Rank(res.Table.Edges())
	n, err := report.WriteTSV(stdout, ranked, o.Config.ReportOptions())
	if report.IsBrokenPipe(err) {
		return ExitOK
	} else if err != nil {
		log.Error("write report", zap.Error(err))
		return ExitRuntime
	}

	summarize(log, res, n)
	return ExitOK
}

func fail(log *zap.Logger, err error, what, path string) int {
	if errors.Is(err, context.Canceled) {
		return ExitCanceled
	}
	log.Error(what, zap.String("path", path), zap.Error(err))
	return ExitRuntime
}

func summarize(log *zap.Logger, res pipeline.Result, written int) {
	if res.Skipped > 0 {
		log.Warn("skipped malformed alignment records", zap.String("skipped", humanize.Comma(int64(res.Skipped))))
	}
	if res.MissingRefs > 0 {
		log.Warn("alignment references absent from contig file", zap.Int("references", res.MissingRefs))
	}
	fields := []zap.Field{
		zap.Stringer("format", res.Format),
		zap.String("grouping", string(res.Grouping)),
		zap.String("records", humanize.Comma(int64(res.Stats.Records))),
		zap.String("read_groups", humanize.Comma(int64(res.Stats.Groups))),
	}
	res.Stats.Each(func(r linkage.Reason, n int) {
		if n > 0 {
			fields = append(fields, zap.String(r.String(), humanize.Comma(int64(n))))
		}
	})
	fields = append(fields,
		zap.Int("edges", res.Table.Len()),
		zap.Int("lines", written),
		zap.Int("skipped", res.Skipped),
	)
	log.Info("scaffold links ranked", fields...)
}
