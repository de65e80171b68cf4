// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"scaffold/internal/appcore"
	"scaffold/internal/cli"
	"scaffold/internal/cmdutil"
	"scaffold/internal/config"
	"scaffold/internal/report"
	"scaffold/internal/version"
)

// Name is the command name shown in usage text.
const Name = "scaffold_tool"

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	fs := cli.NewFlagSet(Name)
	fs.SetOutput(io.Discard)

	usage := func(code int) int {
		outw := bufio.NewWriter(stdout)
		fs.SetOutput(outw)
		fs.Usage()
		if e := outw.Flush(); report.IsBrokenPipe(e) {
			return code
		} else if e != nil {
			_, _ = fmt.Fprintln(stderr, e)
			return appcore.ExitRuntime
		}
		return code
	}

	if len(argv) == 0 {
		return usage(appcore.ExitOK)
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return usage(appcore.ExitOK)
		}
		_, _ = fmt.Fprintln(stderr, err)
		return usage(appcore.ExitUsage)
	}

	if opts.Version {
		if _, e := fmt.Fprintf(stdout, "%s version %s\n", Name, version.Version); e != nil && !report.IsBrokenPipe(e) {
			_, _ = fmt.Fprintln(stderr, e)
			return appcore.ExitRuntime
		}
		return appcore.ExitOK
	}

	log := cmdutil.NewLogger(stderr, cmdutil.LogLevel(opts.Quiet, opts.Verbose))
	defer func() { _ = log.Sync() }()

	cfg := config.Default()
	if opts.ConfigFile != "" {
		if cfg, err = config.Load(opts.ConfigFile, cfg); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return appcore.ExitUsage
		}
	}
	cfg = opts.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitUsage
	}

	return appcore.Run(parent, stdout, log, appcore.Options{
		AlignmentFile: opts.AlignmentFile,
		ContigFile:    opts.ContigFile,
		Config:        cfg,
	})
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
