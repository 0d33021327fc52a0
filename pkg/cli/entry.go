package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/funvibe/ornlift/internal/config"
	"github.com/funvibe/ornlift/internal/pipeline"
	"github.com/funvibe/ornlift/internal/prettyprinter"
	"github.com/funvibe/ornlift/internal/session"
)

const usage = `ornlift — transport terms across proven type equivalences

Usage:
  ornlift run [--cache <path>] [--watch] [--no-color] <plan.yaml>
  ornlift check <plan.yaml>
  ornlift version

Commands:
  run      execute a lifting plan and print the lifted terms
  check    validate a plan without lifting
  version  print the tool version

Flags:
  --cache <path>  session cache store (default: no persistence)
  --watch         re-run the plan when the file changes
  --no-color      disable colorized output
`

type options struct {
	cachePath string
	watch     bool
	noColor   bool
	planPath  string
}

// Run is the entry point behind cmd/ornlift. It returns the process exit
// code.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	switch args[0] {
	case "version", "--version", "-v":
		fmt.Fprintln(stdout, "ornlift "+config.Version)
		return 0
	case "check":
		return runCheck(args[1:], stdout, stderr)
	case "run":
		return runPlan(args[1:], stdout, stderr)
	case "help", "--help", "-h":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		fmt.Fprint(stderr, usage)
		return 2
	}
}

func parseOptions(args []string) (options, error) {
	var opts options
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--cache":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("--cache requires a path")
			}
			i++
			opts.cachePath = args[i]
		case args[i] == "--watch":
			opts.watch = true
		case args[i] == "--no-color":
			opts.noColor = true
		case strings.HasPrefix(args[i], "-"):
			return opts, fmt.Errorf("unknown flag %q", args[i])
		default:
			if opts.planPath != "" {
				return opts, fmt.Errorf("only one plan file per run, got %q and %q", opts.planPath, args[i])
			}
			opts.planPath = args[i]
		}
	}
	if opts.planPath == "" {
		return opts, fmt.Errorf("missing plan file")
	}
	if !isPlanFile(opts.planPath) {
		return opts, fmt.Errorf("%q is not a plan file (want %s)", opts.planPath, strings.Join(config.PlanFileExtensions, " or "))
	}
	return opts, nil
}

func isPlanFile(path string) bool {
	for _, ext := range config.PlanFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func runCheck(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
	ctx := &pipeline.Context{PlanPath: opts.planPath, ToolVersion: config.Version}
	ctx = pipeline.New(pipeline.CheckOnly()...).Run(ctx)
	colors := newPalette(stdout, opts.noColor)
	if ctx.Err != nil {
		fmt.Fprintln(stderr, colors.red("error:"), ctx.Err)
		return 1
	}
	fmt.Fprintf(stdout, "%s %s: %d term(s), %s %s ↔ %s\n",
		colors.green("ok"), opts.planPath, len(ctx.Terms),
		ctx.Config.Flavor, ctx.Config.SourceFamily, ctx.Config.TargetFamily)
	return 0
}

func runPlan(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
	sess, err := session.Open(opts.cachePath)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer func() {
		if err := sess.Close(); err != nil {
			fmt.Fprintln(stderr, "warning: flushing cache:", err)
		}
	}()

	if opts.watch {
		return watchPlan(opts, sess, stdout, stderr)
	}
	return executeOnce(opts, sess, stdout, stderr)
}

func executeOnce(opts options, sess *session.Session, stdout, stderr io.Writer) int {
	colors := newPalette(stdout, opts.noColor)
	ctx := &pipeline.Context{
		PlanPath:    opts.planPath,
		ToolVersion: config.Version,
		Global:      sess.Global,
	}
	ctx = pipeline.New(pipeline.Full()...).Run(ctx)
	if ctx.Err != nil {
		fmt.Fprintln(stderr, colors.red("error:"), ctx.Err)
		return 1
	}
	for i, lifted := range ctx.Lifted {
		fmt.Fprintf(stdout, "%s %s\n", colors.cyan(ctx.Names[i]+":"), prettyprinter.PrintNamed(ctx.Env, lifted))
	}
	if err := sess.Flush(); err != nil {
		fmt.Fprintln(stderr, "warning: flushing cache:", err)
	}
	return 0
}
