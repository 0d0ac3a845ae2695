package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: htmlcite [flags] <file|dir>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Resolve citation markers in HTML and Markdown files and append a bibliography.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    .html, .htm, .md or .markdown file, or a directory")
	fmt.Fprintln(w, "           (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>        Output file or directory (default: next to input)")
	fmt.Fprintln(w, "  -c, --config <name>        Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>          Parallel workers (0 = auto, max 32)")
	fmt.Fprintln(w, "      --dry-run              List the files that would be processed")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Citations:")
	fmt.Fprintln(w, "  -s, --style <name>         Citation style (default: harvard1)")
	fmt.Fprintln(w, "      --styles-dir <dir>     Directory with custom styles/{name}.yaml")
	fmt.Fprintln(w, "  -b, --bibliography <file>  CSL-JSON or CSL-YAML library (repeatable)")
	fmt.Fprintln(w, "      --heading <text>       Bibliography heading (default: Bibliography)")
	fmt.Fprintln(w, "      --in-text <source>     In-text citations: engine, plain")
	fmt.Fprintln(w, "      --css <file>           Stylesheet injected into the output <head>")
	fmt.Fprintln(w, "      --strict               Fail when citation warnings are reported")
	fmt.Fprintln(w, "      --list-styles          List available styles and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                Only show errors")
	fmt.Fprintln(w, "  -v, --verbose              Show stage details and timing")
	fmt.Fprintln(w, "      --version              Show version information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  HTMLCITE_CONFIG, HTMLCITE_STYLE, HTMLCITE_STYLES_DIR, HTMLCITE_INPUT_DIR,")
	fmt.Fprintln(w, "  HTMLCITE_OUTPUT_DIR, HTMLCITE_BIBLIOGRAPHY, HTMLCITE_WORKERS")
	fmt.Fprintln(w, "  Precedence: flags > environment > config file > defaults")
}
