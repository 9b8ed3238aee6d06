// Command jscdump loads a pre-parsed AST fixture, compiles it, and prints
// a disassembly listing plus a one-line compile summary. It never parses
// source text itself — a fixture is the tree form a real parser would hand
// the compiler — and it never executes the compiled bytecode; both the
// parser and the interpreter are out of scope for this module.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/bytecode"
	"github.com/larkscript/jsc/internal/compiler"
	"github.com/larkscript/jsc/internal/config"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [--no-color] [--config <compiler.yaml>] <fixture.json>\n", os.Args[0])
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "jscdump: internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	noColor := false
	configPath := ""
	var fixturePath string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--no-color":
			noColor = true
		case args[i] == "--config":
			if i+1 >= len(args) {
				usage()
				os.Exit(2)
			}
			i++
			configPath = args[i]
		case strings.HasPrefix(args[i], "-"):
			fmt.Fprintf(os.Stderr, "jscdump: unrecognized flag %q\n", args[i])
			usage()
			os.Exit(2)
		default:
			fixturePath = args[i]
		}
	}

	if fixturePath == "" {
		usage()
		os.Exit(2)
	}

	opts := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "jscdump: loading config: %v\n", err)
			os.Exit(1)
		}
		opts = loaded
	}

	data, err := os.ReadFile(fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jscdump: reading fixture: %v\n", err)
		os.Exit(1)
	}

	program, err := ast.DecodeProgram(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jscdump: %v\n", err)
		os.Exit(1)
	}

	out := compiler.Compile(program, opts)

	colorize := !noColor && isatty.IsTerminal(os.Stdout.Fd())

	printChunk(os.Stdout, "program", out.Top, colorize)
	for i, sub := range out.Subs {
		printChunk(os.Stdout, fmt.Sprintf("function#%d", i), sub, colorize)
	}

	fmt.Fprintln(os.Stdout, summaryLine(out))
}

func printChunk(w io.Writer, name string, chunk *bytecode.Chunk, colorize bool) {
	listing := bytecode.Disassemble(chunk, name)
	if !colorize {
		fmt.Fprint(w, listing)
		return
	}
	for _, line := range strings.Split(strings.TrimRight(listing, "\n"), "\n") {
		fmt.Fprintln(w, colorizeLine(line))
	}
}

// colorizeLine gives the "== name ==" section header and jump-target
// operands a distinct color, the minimal coloring a disassembly listing
// needs to separate chunks visually on a real terminal.
func colorizeLine(line string) string {
	const (
		headerColor = "\x1b[1;36m" // bold cyan
		jumpColor   = "\x1b[33m"   // yellow
		reset       = "\x1b[0m"
	)
	if strings.HasPrefix(line, "==") {
		return headerColor + line + reset
	}
	if idx := strings.Index(line, "->"); idx >= 0 {
		return line[:idx] + jumpColor + line[idx:] + reset
	}
	return line
}

func summaryLine(out *compiler.CompiledProgram) string {
	totalCode := len(out.Top.Code)
	maxRegs := out.Top.RequiredRegisterFileSizeInValueSize
	for _, sub := range out.Subs {
		totalCode += len(sub.Code)
		if sub.RequiredRegisterFileSizeInValueSize > maxRegs {
			maxRegs = sub.RequiredRegisterFileSizeInValueSize
		}
	}
	return fmt.Sprintf(
		"compiled %s across %d code block(s), max register file %s",
		humanize.Bytes(uint64(totalCode)),
		1+len(out.Subs),
		humanize.Comma(int64(maxRegs)),
	)
}
