// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"

	"scaffold/internal/config"
	"scaffold/internal/linkage"
	"scaffold/internal/report"
	"scaffold/internal/version"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Inputs
	AlignmentFile string
	ContigFile    string
	ConfigFile    string

	// Linking
	Coord          string
	Boundary       string
	Grouping       string
	MinMapQ        int
	DropQCFail     bool
	DropDuplicates bool
	MaxSkips       int

	// Output
	MinSupport int
	Header     bool

	// Diagnostics
	Quiet   bool
	Verbose bool

	Version bool

	set map[string]bool // flags given explicitly on the command line
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}
		fmt.Fprintf(out, "%s: rank inter-contig links from paired-read alignments\n\n", name)
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)
		fmt.Fprintf(out, "Usage:\n  %s [flags] <alignment.bam|sam> <contigs.fa>\n", name)

		fmt.Fprintln(out, "\nInput:")
		fmt.Fprintln(out, "      --config file           YAML settings; flags override it")

		fmt.Fprintln(out, "\nLinking:")
		fmt.Fprintf(out, "      --boundary string       Junction side per contig: strand | start | end [%s]\n", def("boundary"))
		fmt.Fprintf(out, "      --grouping string       Mate grouping: auto | adjacent | buffered [%s]\n", def("grouping"))
		fmt.Fprintf(out, "      --min-mapq int          Minimum mapping quality per end [%s]\n", def("min-mapq"))
		fmt.Fprintf(out, "      --drop-qcfail           Ignore QC-failed records [%s]\n", def("drop-qcfail"))
		fmt.Fprintf(out, "      --drop-duplicates       Ignore duplicate-flagged records [%s]\n", def("drop-duplicates"))
		fmt.Fprintf(out, "      --max-skips int         Consecutive malformed records tolerated [%s]\n", def("max-skips"))

		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintf(out, "      --coord string          Coordinate column: index | boundary [%s]\n", def("coord"))
		fmt.Fprintf(out, "      --min-support int       Drop links with fewer supporting pairs [%s]\n", def("min-support"))
		fmt.Fprintf(out, "      --header                Print a header row [%s]\n", def("header"))

		fmt.Fprintln(out, "\nMisc:")
		fmt.Fprintln(out, "  -q, --quiet                 Only log warnings and errors")
		fmt.Fprintln(out, "      --verbose               Debug logging")
		fmt.Fprintln(out, "  -v, --version               Print version and exit")
		fmt.Fprintln(out, "  -h, --help                  Show this help")
	}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
// Flags may appear before or after the two positional paths.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool
	def := config.Default()

	fs.StringVar(&opt.ConfigFile, "config", "", "YAML settings file")

	fs.StringVar(&opt.Boundary, "boundary", string(def.Boundary), "junction side: strand | start | end")
	fs.StringVar(&opt.Grouping, "grouping", string(def.Grouping), "mate grouping: auto | adjacent | buffered")
	fs.IntVar(&opt.MinMapQ, "min-mapq", def.MinMapQ, "minimum mapping quality per end")
	fs.BoolVar(&opt.DropQCFail, "drop-qcfail", def.DropQCFail, "ignore QC-failed records")
	fs.BoolVar(&opt.DropDuplicates, "drop-duplicates", def.DropDuplicates, "ignore duplicate-flagged records")
	fs.IntVar(&opt.MaxSkips, "max-skips", def.MaxConsecutiveSkips, "consecutive malformed records tolerated")

	fs.StringVar(&opt.Coord, "coord", string(def.Coord), "coordinate column: index | boundary")
	fs.IntVar(&opt.MinSupport, "min-support", def.MinSupport, "drop links with fewer supporting pairs")
	fs.BoolVar(&opt.Header, "header", def.Header, "print a header row")

	fs.BoolVar(&opt.Quiet, "q", false, "only log warnings and errors (shorthand)")
	fs.BoolVar(&opt.Quiet, "quiet", false, "only log warnings and errors")
	fs.BoolVar(&opt.Verbose, "verbose", false, "debug logging")
	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand)")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand)")

	flagArgs, posArgs := splitArgs(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return opt, err
	}
	if help {
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	opt.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { opt.set[f.Name] = true })

	posArgs = append(posArgs, fs.Args()...)
	switch len(posArgs) {
	case 2:
		opt.AlignmentFile, opt.ContigFile = posArgs[0], posArgs[1]
	case 0, 1:
		return opt, errors.New("need <alignment-file> and <contig-fasta-file>")
	default:
		return opt, fmt.Errorf("unexpected arguments after contig file: %v", posArgs[2:])
	}
	if opt.Quiet && opt.Verbose {
		return opt, errors.New("--quiet conflicts with --verbose")
	}
	return opt, nil
}

// Apply overlays the flags given on the command line onto cfg.
func (o Options) Apply(cfg config.Config) config.Config {
	if o.set["boundary"] {
		cfg.Boundary = linkage.BoundaryRule(o.Boundary)
	}
	if o.set["grouping"] {
		cfg.Grouping = linkage.Grouping(o.Grouping)
	}
	if o.set["min-mapq"] {
		cfg.MinMapQ = o.MinMapQ
	}
	if o.set["drop-qcfail"] {
		cfg.DropQCFail = o.DropQCFail
	}
	if o.set["drop-duplicates"] {
		cfg.DropDuplicates = o.DropDuplicates
	}
	if o.set["max-skips"] {
		cfg.MaxConsecutiveSkips = o.MaxSkips
	}
	if o.set["coord"] {
		cfg.Coord = report.Coord(o.Coord)
	}
	if o.set["min-support"] {
		cfg.MinSupport = o.MinSupport
	}
	if o.set["header"] {
		cfg.Header = o.Header
	}
	return cfg
}
