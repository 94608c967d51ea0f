// Command cube-log views and analyzes cube protocol capture files.
//
// Capture files are written by cubectl when started with -protocol-log.
//
// Usage:
//
//	cube-log <command> [flags] <file.clog>
//
// Examples:
//
//	# View only action lifecycle events
//	cube-log view -category action session.clog
//
//	# Keep one session in a new file
//	cube-log filter -session 3f2a9c1e-... -o one.clog session.clog
//
//	# Show statistics
//	cube-log stats session.clog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cubelink/cubelink-go/cmd/cube-log/commands"
)

const usage = `cube-log - cube protocol capture analyzer

Usage:
  cube-log <command> [flags] <file.clog>

Commands:
  view     View capture file in human-readable format
  export   Export capture file to JSONL or CSV
  filter   Filter capture file and write to new file
  stats    Show statistics about the capture file

Use "cube-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// filterFlags registers the event filter flags on fs.
func filterFlags(fs *flag.FlagSet) *commands.FilterOptions {
	opts := &commands.FilterOptions{}
	fs.StringVar(&opts.SessionID, "session", "", "Filter by session ID")
	fs.StringVar(&opts.Model, "model", "", "Filter by model name")
	fs.StringVar(&opts.Group, "group", "", "Filter by group token")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Only events at or after this time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Only events before this time (RFC3339)")
	fs.StringVar(&opts.Layer, "layer", "", "Filter by layer (transport, wire, group, action)")
	fs.StringVar(&opts.Direction, "direction", "", "Filter by direction (in, out, local)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (frame, notification, state, error, action)")
	return opts
}

func requirePath(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `cube-log view - View capture file in human-readable format

Usage:
  cube-log view [flags] <file.clog>

Flags:
`)
		fs.PrintDefaults()
	}
	opts := filterFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	filter, err := opts.Build()
	if err != nil {
		fatal(err)
	}
	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fatal(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `cube-log export - Export capture file

Usage:
  cube-log export [flags] <file.clog>

Flags:
`)
		fs.PrintDefaults()
	}
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fatal(err)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `cube-log filter - Filter capture file and write to new file

Usage:
  cube-log filter [flags] -o <output.clog> <input.clog>

Flags:
`)
		fs.PrintDefaults()
	}
	opts := filterFlags(fs)
	output := fs.String("o", "", "Output file (required)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)
	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	filter, err := opts.Build()
	if err != nil {
		fatal(err)
	}
	count, err := commands.RunFilter(path, *output, filter)
	if err != nil {
		fatal(err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %d events to %s\n", count, *output)
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `cube-log stats - Show statistics about the capture file

Usage:
  cube-log stats <file.clog>
`)
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fatal(err)
	}
}
