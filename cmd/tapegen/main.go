// Command tapegen generates codec.Codec[T] values for tape-tagged
// structs, so hand-maintaining a MapCodec literal per struct (and
// keeping it in sync as fields are added) is unnecessary.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
)

// CLI defines the tapegen command-line interface.
//
// We deliberately keep it minimal:
//   - input: Go file or directory
//   - output: override for the generated file (file mode only)
//   - verbose: turn on diagnostic logging
//
// In directory mode, each source file gets its own "*_tape.go"
// companion file (recursive) and --output is rejected.
type CLI struct {
	Input   string   `short:"i" help:"Input Go file or directory (recursive)" default:"."`
	Output  string   `short:"o" help:"Output file (file input only; defaults to {input}_tape.go)"`
	Structs []string `short:"s" help:"Only generate for these struct types (may be repeated)"`
	Verbose bool     `short:"v" help:"Enable verbose diagnostics"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tapegen"),
		kong.Description("Generate tapecodec codec.Codec[T] values for tape-tagged structs."),
	)

	level := zerolog.InfoLevel
	if cli.Verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	if err := run(&cli, logger); err != nil {
		ctx.FatalIfErrorf(err)
	}
}

func run(cli *CLI, logger zerolog.Logger) error {
	input := strings.TrimSpace(cli.Input)
	if input == "" {
		input = "."
	}

	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}

	opts := Options{Verbose: cli.Verbose, Structs: cli.Structs, Logger: logger}

	if info.IsDir() {
		if cli.Output != "" {
			return errors.New("--output is not allowed when input is a directory")
		}
		return runForDir(input, opts)
	}

	out := cli.Output
	if out == "" {
		out = defaultOutputPath(input)
	}
	return Run(input, out, opts)
}

func defaultOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	return base + "_tape.go"
}

func runForDir(root string, opts Options) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") || strings.HasSuffix(path, "_tape.go") {
			return nil
		}
		out := defaultOutputPath(path)
		opts.Logger.Debug().Str("input", path).Str("output", out).Msg("generating")
		if err := Run(path, out, opts); err != nil {
			if errors.Is(err, errNoStructs) {
				opts.Logger.Debug().Str("input", path).Msg("no tape-tagged structs, skipping")
				return nil
			}
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	})
}
