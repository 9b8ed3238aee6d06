// Command gen-opcodes regenerates internal/bytecode/opcode_names_gen.go
// from internal/bytecode.OpcodeTable, so the opcode catalog and its debug
// name table never drift apart. Run it with `go generate ./...` from the
// module root after editing OpcodeTable.
package main

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/larkscript/jsc/internal/bytecode"
)

// outputPath is relative to the directory go generate runs the command in,
// which is the internal/bytecode package directory holding the directive.
const outputPath = "opcode_names_gen.go"

const tmplSource = `// Code generated by cmd/gen-opcodes from OpcodeTable. DO NOT EDIT.

package bytecode

var opcodeNames = []string{
{{- range .}}
	{{printf "%q" .Name}},
{{- end}}
}
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gen-opcodes:", err)
		os.Exit(1)
	}
}

func run() error {
	tmpl, err := template.New("opcode_names_gen").Parse(tmplSource)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, bytecode.OpcodeTable); err != nil {
		return err
	}

	formatted, err := imports.Process(outputPath, buf.Bytes(), nil)
	if err != nil {
		return fmt.Errorf("formatting generated source: %w", err)
	}

	return os.WriteFile(outputPath, formatted, 0o644)
}
