// Command spark is the host binary for the language: it runs a script file
// or drops into an interactive REPL.
package main

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/rowanhale/spark/internal/config"
	"github.com/rowanhale/spark/internal/replhistory"
	"github.com/rowanhale/spark/internal/vm"
)

const (
	exitOK           = 0
	exitUsageError   = 64
	exitCompileError = 65
	exitRuntimeError = 70
)

func main() {
	os.Exit(run(os.Args[1:]))
}

type options struct {
	scriptPath  string
	gcStats     bool
	noHistory   bool
	noCache     bool
	configPath  string
}

func run(args []string) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		printUsage()
		return exitUsageError
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "spark: %v\n", err)
		return exitUsageError
	}

	machine := vm.New()
	machine.SetGCThreshold(cfg.InitialGCThreshold)
	machine.SetGCGrowthFactor(cfg.GCGrowthFactor)
	if opts.gcStats {
		machine.GCStats = &vm.GCStats{Log: os.Stderr}
	}

	if opts.scriptPath != "" {
		result := runFile(machine, opts.scriptPath, cfg, opts.noCache)
		if opts.gcStats && machine.GCStats.Collections > 0 {
			fmt.Fprintln(os.Stderr, machine.GCStats.Summary())
		}
		return resultToExitCode(result)
	}

	return runRepl(machine, cfg, opts.noHistory)
}

// parseArgs scans os.Args by hand the way the reference CLI does, rather
// than reaching for the "flag" package, since the surface is small and the
// script-path positional argument doesn't fit flag's model cleanly.
func parseArgs(args []string) (options, error) {
	var opts options
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "-gc-stats":
			opts.gcStats = true
		case arg == "-no-history":
			opts.noHistory = true
		case arg == "-no-cache":
			opts.noCache = true
		case arg == "-config":
			i++
			if i >= len(args) {
				return opts, fmt.Errorf("spark: -config requires a path")
			}
			opts.configPath = args[i]
		case strings.HasPrefix(arg, "-"):
			return opts, fmt.Errorf("spark: unknown flag %q", arg)
		case opts.scriptPath == "":
			opts.scriptPath = arg
		default:
			return opts, fmt.Errorf("spark: unexpected argument %q", arg)
		}
	}
	if opts.configPath == "" {
		opts.configPath = config.DefaultPath()
	}
	return opts, nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: spark [options] [script]")
	fmt.Fprintln(os.Stderr, "  -gc-stats     print garbage collector diagnostics to stderr")
	fmt.Fprintln(os.Stderr, "  -no-history   don't read or write REPL history")
	fmt.Fprintln(os.Stderr, "  -no-cache     recompile instead of using a cached bundle")
	fmt.Fprintln(os.Stderr, "  -config PATH  load configuration from PATH")
}

func resultToExitCode(result vm.InterpretResult) int {
	switch result {
	case vm.InterpretCompileError:
		return exitCompileError
	case vm.InterpretRuntimeError:
		return exitRuntimeError
	default:
		return exitOK
	}
}

// runFile interprets a single source file, consulting (and refreshing) the
// bundle cache so re-running an unchanged script skips recompilation.
func runFile(machine *vm.VM, path string, cfg config.Config, noCache bool) vm.InterpretResult {
	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "spark: %v\n", err)
		return vm.InterpretRuntimeError
	}
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "spark: %v\n", err)
		return vm.InterpretRuntimeError
	}

	if !noCache && !cfg.DisableCache {
		if bundle, ok := loadCachedBundle(cfg, path, info.ModTime().UnixNano()); ok {
			return machine.InterpretFunction(bundle.Function)
		}
	}

	result := machine.Interpret(string(source))

	if result == vm.InterpretOK && !noCache && !cfg.DisableCache {
		// Best-effort: a failed cache write shouldn't fail the run.
		_ = saveCachedBundle(cfg, path, info.ModTime().UnixNano(), machine)
	}
	return result
}

func cacheKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	sum := sha256.Sum256([]byte(abs))
	return hex.EncodeToString(sum[:])
}

func loadCachedBundle(cfg config.Config, path string, modTime int64) (*vm.Bundle, bool) {
	cacheFile := filepath.Join(config.ResolveCacheDir(cfg), cacheKey(path)+".bundle")
	f, err := os.Open(cacheFile)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	bundle, err := vm.DecodeBundle(f)
	if err != nil || bundle.SourceModTime != modTime {
		return nil, false
	}
	return bundle, true
}

func saveCachedBundle(cfg config.Config, path string, modTime int64, machine *vm.VM) error {
	dir := config.ResolveCacheDir(cfg)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	fn := machine.LastCompiled()
	if fn == nil {
		return nil
	}
	bundle := vm.NewBundle(fn, path, modTime)

	cacheFile := filepath.Join(dir, cacheKey(path)+".bundle")
	f, err := os.Create(cacheFile)
	if err != nil {
		return err
	}
	defer f.Close()
	return bundle.Encode(f)
}

// runRepl reads lines interactively, compiling and running each one as its
// own top-level script. The prompt is only printed when stdin is an actual
// terminal, so piped input behaves like a script.
func runRepl(machine *vm.VM, cfg config.Config, noHistory bool) int {
	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())

	var hist *replhistory.History
	if !noHistory {
		if path := historyPath(); path != "" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
				if h, err := replhistory.Open(path); err == nil {
					hist = h
					defer hist.Close()
					if interactive {
						if recent, err := hist.Recent(cfg.HistorySize); err == nil && len(recent) > 0 {
							fmt.Fprintf(os.Stdout, "(%d lines of history loaded)\n", len(recent))
						}
					}
				}
			}
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Fprint(os.Stdout, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if hist != nil {
			_ = hist.Append(line)
			_ = hist.Trim(cfg.HistorySize)
		}
		machine.Interpret(line)
	}
	if interactive {
		fmt.Fprintln(os.Stdout)
	}
	return exitOK
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".spark", "history.db")
}
