package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all command-line flags.
type cliFlags struct {
	config       string
	output       string
	workers      int
	style        string
	stylesDir    string
	heading      string
	inText       string
	css          string
	bibliography []string

	quiet      bool
	verbose    bool
	version    bool
	listStyles bool
	strict     bool
	dryRun     bool
}

// newFlagSet declares the flags on a fresh FlagSet bound to f.
func newFlagSet(f *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("htmlcite", flag.ContinueOnError)

	// Input/Output
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.dryRun, "dry-run", false, "list the files that would be processed")

	// Citations
	fs.StringVarP(&f.style, "style", "s", "", "citation style (default harvard1)")
	fs.StringVar(&f.stylesDir, "styles-dir", "", "directory with custom styles/{name}.yaml")
	fs.StringArrayVarP(&f.bibliography, "bibliography", "b", nil, "CSL-JSON or CSL-YAML library (repeatable)")
	fs.StringVar(&f.heading, "heading", "", "bibliography heading (default Bibliography)")
	fs.StringVar(&f.inText, "in-text", "", "in-text citation source: engine, plain")
	fs.StringVar(&f.css, "css", "", "stylesheet injected into the output <head>")
	fs.BoolVar(&f.strict, "strict", false, "fail when citation warnings are reported")
	fs.BoolVar(&f.listStyles, "list-styles", false, "list available styles and exit")

	// Output control
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show stage details and timing")
	fs.BoolVar(&f.version, "version", false, "show version information")

	return fs
}

// parseFlags parses args (without the program name) and returns positional args.
func parseFlags(args []string, usage io.Writer) (*cliFlags, []string, error) {
	f := &cliFlags{}
	fs := newFlagSet(f)
	fs.SetOutput(usage)
	fs.Usage = func() { printUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
