package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"
	"pkt.systems/version"

	"pkt.systems/xolmis"
	"pkt.systems/xolmis/internal/config"
	"pkt.systems/xolmis/internal/logging"
	"pkt.systems/xolmis/internal/shell"
)

const (
	defaultChunkSize = 16
	defaultDelay     = 20 * time.Millisecond
)

func init() {
	version.SetDefaultModule("pkt.systems/xolmis")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	shellPath     string
	command       string
	cwd           string
	prefix        string
	rulesFile     string
	osc8          string
	ambiguousWide bool
	readBuffer    int
	filter        bool
	simulate      bool
	simChunkSize  int
	simDelay      time.Duration
	outPath       string
	strip         bool
	measure       bool
	truncate      int
	tail          string
	short         bool
	logFile       string
	logLevel      string
	logDev        bool
	showVersion   bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 2
	}

	var opts options
	flags := pflag.NewFlagSet("xolmis", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.shellPath, "shell", "s", cfg.Shell, "Program to run in the pseudo-terminal")
	flags.StringVarP(&opts.command, "command", "c", "", "Run this command through the shell (-c) instead of an interactive session")
	flags.StringVarP(&opts.cwd, "cwd", "C", "", "Directory relative references are resolved against (default: current directory)")
	flags.StringVarP(&opts.prefix, "prefix", "p", cfg.TargetPrefix, "URI prefix placed before the absolute path")
	flags.StringVarP(&opts.rulesFile, "rules", "r", cfg.RulesFile, "YAML file with extra rules, applied after the built-in ones")
	flags.StringVarP(&opts.osc8, "osc8", "8", cfg.OSC8, "OSC8 hyperlinks: auto|on|off")
	flags.BoolVar(&opts.ambiguousWide, "ambiguous-wide", cfg.AmbiguousWide, "Treat East Asian ambiguous-width characters as wide")
	flags.IntVar(&opts.readBuffer, "read-buffer", cfg.ReadBuffer, "Bytes read from the program per chunk")
	flags.BoolVarP(&opts.filter, "filter", "f", false, "Transform inputs or stdin instead of starting a shell")
	flags.BoolVar(&opts.simulate, "simulate", false, "Replay inputs in small delayed chunks (filter mode)")
	flags.IntVar(&opts.simChunkSize, "simulate-chunk", defaultChunkSize, "Bytes per simulated chunk")
	flags.DurationVar(&opts.simDelay, "simulate-delay", defaultDelay, "Delay between simulated chunks")
	flags.StringVarP(&opts.outPath, "output", "o", "", "Output file instead of stdout (filter mode)")
	flags.BoolVar(&opts.strip, "strip", false, "Print each input line without escape sequences")
	flags.BoolVar(&opts.measure, "measure", false, "Print the display width of each input line")
	flags.IntVar(&opts.truncate, "truncate", -1, "Truncate each input line to this many columns")
	flags.StringVar(&opts.tail, "tail", "…", "Marker appended to truncated lines")
	flags.BoolVar(&opts.short, "short", false, "With --truncate: no tail and no padding of split wide characters")
	flags.StringVar(&opts.logFile, "log-file", cfg.LogFile, "Write diagnostics to this file")
	flags.StringVar(&opts.logLevel, "log-level", cfg.LogLevel, "Log level: debug|info|warn|error")
	flags.BoolVar(&opts.logDev, "log-dev", cfg.LogDev, "Human-readable log format")
	flags.BoolVarP(&opts.showVersion, "version", "V", false, "Print version and exit")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: xolmis [flags] [inputs...]\n")
		fmt.Fprintln(stderr, "\nWithout inputs and with a terminal on stdin, xolmis starts your shell in a")
		fmt.Fprintln(stderr, "pseudo-terminal and turns file:line references in its output into hyperlinks.")
		fmt.Fprintln(stderr, "Otherwise it transforms the inputs (files, file:// or http(s) URLs) or stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if opts.showVersion {
		fmt.Fprintln(stdout, version.Module(), version.Current())
		return 0
	}

	logger, err := logging.New(logging.FileConfig(opts.logFile, opts.logLevel, opts.logDev))
	if err != nil {
		fmt.Fprintf(stderr, "logging: %v\n", err)
		return 2
	}
	defer logger.Close()

	measurer := xolmis.NewMeasurer(opts.ambiguousWide)
	inputs := flags.Args()
	var lineFn func(string) string
	switch {
	case opts.strip:
		lineFn = xolmis.Strip
	case opts.measure:
		lineFn = func(line string) string {
			return strconv.Itoa(measurer.Width(line))
		}
	case opts.truncate >= 0:
		lineFn = func(line string) string {
			if opts.short {
				return measurer.TruncateShort(line, opts.truncate)
			}
			return measurer.Truncate(line, opts.truncate, opts.tail)
		}
	}
	if lineFn != nil {
		return withInputs(inputs, stdin, stderr, func(r io.Reader) error {
			return mapLines(r, stdout, lineFn)
		})
	}

	if opts.readBuffer <= 0 {
		fmt.Fprintf(stderr, "invalid --read-buffer %d: must be > 0\n", opts.readBuffer)
		return 2
	}
	osc8, err := resolveOSC8(opts.osc8)
	if err != nil {
		fmt.Fprintf(stderr, "invalid --osc8 %q: %v\n", opts.osc8, err)
		return 2
	}
	transformer, err := buildTransformer(opts, osc8, logger.Logger)
	if err != nil {
		fmt.Fprintf(stderr, "rules: %v\n", err)
		return 1
	}
	cwd, err := resolveCwd(opts.cwd)
	if err != nil {
		fmt.Fprintf(stderr, "cwd: %v\n", err)
		return 1
	}

	if opts.filter || len(inputs) > 0 || !isTerminalReader(stdin) {
		return runFilter(opts, inputs, stdin, stdout, stderr, cwd, transformer)
	}

	var shellArgs []string
	if opts.command != "" {
		shellArgs = []string{"-c", opts.command}
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()
	code, err := shell.Run(ctx, shell.Options{
		Shell:       opts.shellPath,
		Args:        shellArgs,
		Dir:         cwd,
		Stdin:       stdin.(*os.File),
		Stdout:      stdout,
		Transformer: transformer,
		BufferSize:  opts.readBuffer,
		Logger:      logger.Logger,
	})
	if err != nil {
		fmt.Fprintf(stderr, "xolmis: %v\n", err)
	}
	return code
}

func runFilter(opts options, inputs []string, stdin io.Reader, stdout, stderr io.Writer, cwd string, transformer xolmis.ChunkTransformer) int {
	out, err := createOutput(opts.outPath, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "xolmis: %v\n", err)
		return 1
	}
	defer func() { _ = out.Close() }()
	return withInputs(inputs, stdin, stderr, func(r io.Reader) error {
		if opts.simulate {
			return xolmis.Simulate(xolmis.SimulateRequest{
				Reader:      r,
				Writer:      out,
				Cwd:         cwd,
				Transformer: transformer,
				ChunkSize:   opts.simChunkSize,
				Delay:       opts.simDelay,
			})
		}
		return xolmis.Pipe(xolmis.PipeRequest{
			Reader:      r,
			Writer:      out,
			Cwd:         cwd,
			Transformer: transformer,
			BufferSize:  opts.readBuffer,
		})
	})
}

func buildTransformer(opts options, osc8 bool, logger *zap.Logger) (xolmis.ChunkTransformer, error) {
	if !osc8 {
		return xolmis.Passthrough, nil
	}
	rules := xolmis.DefaultRules()
	if path := strings.TrimSpace(opts.rulesFile); path != "" {
		extra, err := xolmis.LoadRuleFile(expandPath(path))
		if err != nil {
			return nil, err
		}
		rules = rules.With(extra...)
		logger.Info("loaded rules", zap.String("path", path), zap.Int("count", len(extra)))
	}
	return xolmis.NewTransformer(rules,
		xolmis.WithTargetPrefix(opts.prefix),
		xolmis.WithLogger(logger),
	), nil
}

func resolveCwd(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return os.Getwd()
	}
	clean := expandPath(dir)
	info, err := os.Stat(clean)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", clean)
	}
	return clean, nil
}

func resolveOSC8(mode string) (bool, error) {
	parsed, err := config.ParseOSC8Mode(mode)
	if err != nil {
		return false, fmt.Errorf("expected auto|on|off")
	}
	switch parsed {
	case config.OSC8On:
		return true, nil
	case config.OSC8Off:
		return false, nil
	default:
		return xolmis.DetectOSC8Support(), nil
	}
}

func isTerminalReader(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok || f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
