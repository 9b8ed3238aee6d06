package main

import (
	"strings"
	"testing"

	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/compiler"
	"github.com/larkscript/jsc/internal/config"
)

func TestColorizeLineWrapsHeader(t *testing.T) {
	out := colorizeLine("== program ==")
	if !strings.Contains(out, "== program ==") {
		t.Fatalf("expected original text preserved, got %q", out)
	}
	if !strings.HasPrefix(out, "\x1b[") {
		t.Fatalf("expected an ANSI escape prefix, got %q", out)
	}
}

func TestColorizeLineLeavesPlainLinesAlone(t *testing.T) {
	out := colorizeLine("0004 move                                     r1 r0")
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes for a non-jump line, got %q", out)
	}
}

func TestSummaryLineReportsCodeSizeAndMaxRegisters(t *testing.T) {
	decl := &ast.VariableDeclaration{
		Base:    ast.NewBase(ast.KindVariableDeclaration, 0),
		VarKind: ast.VarVar,
		Declarators: []*ast.VariableDeclarator{
			{Base: ast.NewBase(ast.KindVariableDeclarator, 0), ID: ast.NewIdentifier(0, "x"), Init: ast.NewLiteral(0, 1.0)},
		},
	}
	prog := ast.NewProgram(0, []ast.Node{decl}, 0)
	out := compiler.Compile(prog, config.Default())

	line := summaryLine(out)
	if !strings.Contains(line, "compiled") || !strings.Contains(line, "code block(s)") {
		t.Fatalf("unexpected summary line: %q", line)
	}
}
