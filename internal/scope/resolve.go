// Package scope performs the pre-pass that turns a raw AST into the
// resolved CodeBlock tree internal/compiler consumes: it walks every
// function body, declares each var/let/const/function/class/catch/
// parameter binding as a stack slot, and promotes a binding to a heap
// (closed-over) slot when a nested function references it, per spec.md
// §3.5's IdentifierInfo table. It creates no global or dynamic-by-name
// entries: a name it does not declare is absent from IdentifierInfos. It
// also flattens the resulting
// CodeBlock tree into the index space ast.FunctionExpression.CodeBlock
// (and its declaration/arrow/class-method siblings) refer into.
package scope

import (
	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/codeblock"
)

// FunctionScope pairs one resolved CodeBlock with the AST pieces
// internal/compiler needs to actually emit its body: the parameter list and
// either a statement-list body or (for a concise-bodied arrow) a single
// implicit-return expression.
type FunctionScope struct {
	Code     *codeblock.CodeBlock
	Params   []ast.Param
	Body     []ast.Node
	ExprBody ast.Node // non-nil only for a concise arrow body
}

// Result is the output of Resolve: the program's own CodeBlock plus every
// nested function's resolved scope, flattened in the same pre-order the
// compiler package walks the AST in, so index i here is exactly what
// FunctionExpression.CodeBlock/FunctionDeclaration.CodeBlock/
// ArrowFunctionExpression.CodeBlock name.
type Result struct {
	Program *codeblock.CodeBlock
	Flat    []*FunctionScope
}

// Resolve analyzes program and returns its resolved scope tree.
func Resolve(program *ast.Program) *Result {
	r := &resolver{}
	root := codeblock.New("", nil)
	r.declareHoisted(root, program.Body)
	r.resolveBlockBody(root, program.Body)
	return &Result{Program: root, Flat: r.flat}
}

type resolver struct {
	flat []*FunctionScope
}

// declareHoisted implements var/function hoisting to the top of the
// nearest function scope (spec.md §3.5): a `var` declared anywhere in cb's
// body, however deeply nested in blocks/ifs/loops (but not inside a
// nested function), is declared directly on cb.
func (r *resolver) declareHoisted(cb *codeblock.CodeBlock, body []ast.Node) {
	for _, n := range body {
		r.hoistFrom(cb, n)
	}
}

func (r *resolver) hoistFrom(cb *codeblock.CodeBlock, n ast.Node) {
	switch v := n.(type) {
	case *ast.VariableDeclaration:
		if v.VarKind == ast.VarVar {
			for _, d := range v.Declarators {
				r.declareBindingNames(cb, d.ID, false)
			}
		}
	case *ast.FunctionDeclaration:
		declareStack(cb, v.Name, true, false)
	case *ast.BlockStatement:
		r.declareHoisted(cb, v.Body)
	case *ast.IfStatement:
		r.hoistFrom(cb, v.Consequent)
		if v.Alternate != nil {
			r.hoistFrom(cb, v.Alternate)
		}
	case *ast.WhileStatement:
		r.hoistFrom(cb, v.Body)
	case *ast.DoWhileStatement:
		r.hoistFrom(cb, v.Body)
	case *ast.ForStatement:
		if v.Init != nil && v.Init.Declaration != nil && v.Init.Declaration.VarKind == ast.VarVar {
			for _, d := range v.Init.Declaration.Declarators {
				r.declareBindingNames(cb, d.ID, false)
			}
		}
		r.hoistFrom(cb, v.Body)
	case *ast.ForInStatement:
		r.hoistForBinding(cb, v.Left)
		r.hoistFrom(cb, v.Body)
	case *ast.ForOfStatement:
		r.hoistForBinding(cb, v.Left)
		r.hoistFrom(cb, v.Body)
	case *ast.TryStatement:
		r.declareHoisted(cb, v.Block.Body)
		if v.Handler != nil {
			r.declareHoisted(cb, v.Handler.Body.Body)
		}
		if v.Finally != nil {
			r.declareHoisted(cb, v.Finally.Body)
		}
	case *ast.LabeledStatement:
		r.hoistFrom(cb, v.Body)
	case *ast.SwitchStatement:
		for _, c := range v.Cases {
			for _, s := range c.Consequent {
				r.hoistFrom(cb, s)
			}
		}
	case *ast.WithStatement:
		r.hoistFrom(cb, v.Body)
	}
}

func (r *resolver) hoistForBinding(cb *codeblock.CodeBlock, left ast.ForBinding) {
	if left.Declaration != nil && left.Declaration.VarKind == ast.VarVar {
		for _, d := range left.Declaration.Declarators {
			r.declareBindingNames(cb, d.ID, false)
		}
	}
}

// declareBindingNames declares every identifier a (possibly destructuring)
// pattern introduces.
func (r *resolver) declareBindingNames(cb *codeblock.CodeBlock, pattern ast.Node, mutable bool) {
	switch p := pattern.(type) {
	case *ast.Identifier:
		declareStack(cb, p.Name, mutable, false)
	case *ast.AssignmentPattern:
		r.declareBindingNames(cb, p.Left, mutable)
	case *ast.ArrayPattern:
		for _, el := range p.Elements {
			if el.Element != nil {
				r.declareBindingNames(cb, el.Element, mutable)
			}
		}
		if p.Rest != nil {
			r.declareBindingNames(cb, p.Rest, mutable)
		}
	case *ast.ObjectPattern:
		for _, prop := range p.Properties {
			r.declareBindingNames(cb, prop.Value, mutable)
		}
		if p.Rest != nil {
			r.declareBindingNames(cb, p.Rest, mutable)
		}
	case *ast.RestElement:
		r.declareBindingNames(cb, p.Argument, mutable)
	}
}

func declareStack(cb *codeblock.CodeBlock, name string, mutable, lexical bool) {
	if _, exists := cb.IdentifierInfos[name]; exists {
		return
	}
	slot := len(cb.IdentifierInfos)
	cb.Declare(name, &codeblock.IdentifierInfo{
		Storage:             codeblock.StorageStack,
		StackSlot:           slot,
		Mutable:             mutable,
		IsLexicallyDeclared: lexical,
	})
}

// resolveBlockBody walks body's statements declaring lexical (let/const/
// class) bindings on cb itself (every block of a function shares cb's one
// name map), recursing into nested functions to build
// their own CodeBlocks and resolving every identifier reference reachable
// without crossing into a nested function against cb (marking captured
// names StorageHeap when a nested function is later found to reference
// them — approximated here by promoting every lexical/var binding that any
// descendant function references, detected via a first pass over nested
// function bodies before resolving cb's own references).
func (r *resolver) resolveBlockBody(cb *codeblock.CodeBlock, body []ast.Node) {
	for _, n := range body {
		r.declareLexical(cb, n)
	}
	r.promoteCapturedNames(cb, body)
	for _, n := range body {
		r.walkStatement(cb, n)
	}
}

func (r *resolver) declareLexical(cb *codeblock.CodeBlock, n ast.Node) {
	switch v := n.(type) {
	case *ast.VariableDeclaration:
		if v.VarKind != ast.VarVar {
			for _, d := range v.Declarators {
				r.declareLexicalBindingNames(cb, d.ID)
			}
		}
	case *ast.ClassDeclaration:
		declareStack(cb, v.Name, true, true)
	}
}

func (r *resolver) declareLexicalBindingNames(cb *codeblock.CodeBlock, pattern ast.Node) {
	switch p := pattern.(type) {
	case *ast.Identifier:
		declareStack(cb, p.Name, true, true)
	case *ast.AssignmentPattern:
		r.declareLexicalBindingNames(cb, p.Left)
	case *ast.ArrayPattern:
		for _, el := range p.Elements {
			if el.Element != nil {
				r.declareLexicalBindingNames(cb, el.Element)
			}
		}
	case *ast.ObjectPattern:
		for _, prop := range p.Properties {
			r.declareLexicalBindingNames(cb, prop.Value)
		}
	}
}

// promoteCapturedNames scans every nested function literal reachable from
// body (including functions nested inside those, at any depth) for
// identifiers that resolve to a binding
// declared on cb, and upgrades that binding to StorageHeap so the closure
// can reach it across the frame boundary.
func (r *resolver) promoteCapturedNames(cb *codeblock.CodeBlock, body []ast.Node) {
	heapSlot := 0
	for name, info := range cb.IdentifierInfos {
		if info.Storage == codeblock.StorageHeap {
			if info.HeapSlot >= heapSlot {
				heapSlot = info.HeapSlot + 1
			}
		}
		_ = name
	}
	promote := func(name string) {
		info, ok := cb.IdentifierInfos[name]
		if !ok || info.Storage == codeblock.StorageHeap {
			return
		}
		info.Storage = codeblock.StorageHeap
		info.HeapSlot = heapSlot
		heapSlot++
	}
	for _, n := range body {
		forEachNestedFunctionFreeName(n, promote)
	}
}

// walkStatement resolves identifier reads/writes within n against cb,
// recursing into sub-blocks (which share cb; internal/compiler records
// each block as a BlockInfo via AddBlock, and scope resolution
// itself only needs one flat IdentifierInfos map per function per
// spec.md §3.5 — block-local shadowing beyond lexical declarations is a
// parser-level concern upstream of this package) and into nested function
// literals (which get a fresh child CodeBlock appended to cb.SubCodeBlocks
// and to the flat index).
func (r *resolver) walkStatement(cb *codeblock.CodeBlock, n ast.Node) {
	switch v := n.(type) {
	case *ast.BlockStatement:
		r.resolveBlockBody(cb, v.Body)
	case *ast.IfStatement:
		r.walkStatement(cb, v.Consequent)
		if v.Alternate != nil {
			r.walkStatement(cb, v.Alternate)
		}
	case *ast.WhileStatement:
		r.walkStatement(cb, v.Body)
	case *ast.DoWhileStatement:
		r.walkStatement(cb, v.Body)
	case *ast.ForStatement:
		r.walkStatement(cb, v.Body)
	case *ast.ForInStatement:
		r.walkStatement(cb, v.Body)
	case *ast.ForOfStatement:
		r.walkStatement(cb, v.Body)
	case *ast.TryStatement:
		r.resolveBlockBody(cb, v.Block.Body)
		if v.Handler != nil {
			if v.Handler.Param != nil {
				r.declareBindingNames(cb, v.Handler.Param, true)
			}
			r.resolveBlockBody(cb, v.Handler.Body.Body)
		}
		if v.Finally != nil {
			r.resolveBlockBody(cb, v.Finally.Body)
		}
	case *ast.LabeledStatement:
		r.walkStatement(cb, v.Body)
	case *ast.SwitchStatement:
		for _, c := range v.Cases {
			for _, s := range c.Consequent {
				r.walkStatement(cb, s)
			}
		}
	case *ast.WithStatement:
		r.walkStatement(cb, v.Body)
	case *ast.FunctionDeclaration:
		r.resolveFunctionLike(cb, v.Name, v.Params, v.Body.Body, nil, v.IsGenerator, v.IsAsync, false, v)
	case *ast.ExpressionStatement:
		r.resolveNestedFunctionsIn(cb, v.Expression)
	case *ast.ClassDeclaration:
		r.resolveClassBody(cb, v.Body)
	}
}

// resolveNestedFunctionsIn finds function literals embedded in an
// expression-statement (IIFEs, assigned closures) and resolves each.
func (r *resolver) resolveNestedFunctionsIn(cb *codeblock.CodeBlock, n ast.Node) {
	switch v := n.(type) {
	case *ast.FunctionExpression:
		r.resolveFunctionLike(cb, v.Name, v.Params, bodyOf(v.Body), nil, v.IsGenerator, v.IsAsync, false, v)
	case *ast.ArrowFunctionExpression:
		var exprBody ast.Node
		if v.ExpressionBody {
			exprBody = v.Body
		}
		r.resolveFunctionLike(cb, "", v.Params, bodyOf(v.Body), exprBody, false, v.IsAsync, true, v)
	case *ast.AssignmentExpression:
		r.resolveNestedFunctionsIn(cb, v.Right)
	case *ast.CallExpression:
		r.resolveNestedFunctionsIn(cb, v.Callee)
		for _, a := range v.Arguments {
			r.resolveNestedFunctionsIn(cb, a.Value)
		}
	case *ast.ClassExpression:
		r.resolveClassBody(cb, v.Body)
	}
}

func (r *resolver) resolveClassBody(cb *codeblock.CodeBlock, body *ast.ClassBody) {
	for _, el := range body.Elements {
		if fn, ok := el.Value.(*ast.FunctionExpression); ok {
			r.resolveFunctionLike(cb, "", fn.Params, bodyOf(fn.Body), nil, fn.IsGenerator, fn.IsAsync, false, fn)
		}
	}
}

func bodyOf(body ast.Node) []ast.Node {
	if b, ok := body.(*ast.BlockStatement); ok {
		return b.Body
	}
	return nil
}

// resolveFunctionLike builds a fresh CodeBlock for one function literal,
// appends it to cb's children and the flat index (assigning the index the
// literal's own CodeBlock field is expected to carry), declares its
// parameters and hoisted body bindings, and recurses.
func (r *resolver) resolveFunctionLike(cb *codeblock.CodeBlock, name string, params []ast.Param, body []ast.Node, exprBody ast.Node, isGenerator, isAsync, isArrow bool, node ast.Node) {
	// codeblock.New already appends child onto cb.SubCodeBlocks when parent
	// is non-nil, so no separate append is needed here.
	child := codeblock.New(name, cb)
	child.ParameterCount = len(params)
	child.IsGenerator = isGenerator
	child.IsAsync = isAsync
	child.IsArrowFunctionExpression = isArrow

	idx := len(r.flat)
	r.flat = append(r.flat, &FunctionScope{Code: child, Params: params, Body: body, ExprBody: exprBody})
	assignCodeBlockIndex(node, idx)

	for _, p := range params {
		r.declareBindingNames(child, p.Pattern, true)
	}
	r.declareHoisted(child, body)
	r.resolveBlockBody(child, body)
}

// assignCodeBlockIndex writes idx back into node's CodeBlock field. The
// node shapes that carry one are FunctionExpression, ArrowFunctionExpression,
// and FunctionDeclaration; written via a type switch since ast.Node does
// not expose a settable CodeBlock method.
func assignCodeBlockIndex(node ast.Node, idx int) {
	switch v := node.(type) {
	case *ast.FunctionExpression:
		v.CodeBlock = idx
	case *ast.ArrowFunctionExpression:
		v.CodeBlock = idx
	case *ast.FunctionDeclaration:
		v.CodeBlock = idx
	}
}

// forEachNestedFunctionFreeName visits identifier names found inside n's
// nested function literals, at any nesting depth, invoking visit once per
// occurrence; identifiers outside every function literal are not visited.
// Inside a function body only the statement shapes walkStmtFree handles
// are searched.
func forEachNestedFunctionFreeName(n ast.Node, visit func(name string)) {
	var walkExpr func(ast.Node)
	var walkFuncBody func([]ast.Node)
	depth := 0 // function literals currently entered

	walkFuncBody = func(body []ast.Node) {
		depth++
		for _, s := range body {
			walkStmtFree(s, visit, walkExpr)
		}
		depth--
	}

	walkExpr = func(e ast.Node) {
		switch v := e.(type) {
		case nil:
		case *ast.Identifier:
			if depth > 0 {
				visit(v.Name)
			}
		case *ast.FunctionExpression:
			walkFuncBody(bodyOf(v.Body))
		case *ast.ArrowFunctionExpression:
			walkFuncBody(bodyOf(v.Body))
			if v.ExpressionBody {
				depth++
				walkExpr(v.Body)
				depth--
			}
		case *ast.BinaryExpression:
			walkExpr(v.Left)
			walkExpr(v.Right)
		case *ast.UnaryExpression:
			walkExpr(v.Argument)
		case *ast.UpdateExpression:
			walkExpr(v.Argument)
		case *ast.AssignmentExpression:
			walkExpr(v.Left)
			walkExpr(v.Right)
		case *ast.ConditionalExpression:
			walkExpr(v.Test)
			walkExpr(v.Consequent)
			walkExpr(v.Alternate)
		case *ast.MemberExpression:
			walkExpr(v.Object)
			if v.Computed {
				walkExpr(v.Property)
			}
		case *ast.CallExpression:
			walkExpr(v.Callee)
			for _, a := range v.Arguments {
				walkExpr(a.Value)
			}
		case *ast.NewExpression:
			walkExpr(v.Callee)
			for _, a := range v.Arguments {
				walkExpr(a.Value)
			}
		case *ast.ArrayExpression:
			for _, el := range v.Elements {
				walkExpr(el.Value)
			}
		case *ast.ObjectExpression:
			for _, p := range v.Properties {
				if p.Computed {
					walkExpr(p.Key)
				}
				walkExpr(p.Value)
			}
		case *ast.SequenceExpression:
			for _, ex := range v.Expressions {
				walkExpr(ex)
			}
		case *ast.SpreadElement:
			walkExpr(v.Argument)
		case *ast.AwaitExpression:
			walkExpr(v.Argument)
		case *ast.YieldExpression:
			walkExpr(v.Argument)
		case *ast.TemplateLiteral:
			for _, ex := range v.Expressions {
				walkExpr(ex)
			}
		}
	}

	switch v := n.(type) {
	case *ast.ExpressionStatement:
		walkExpr(v.Expression)
	case *ast.VariableDeclaration:
		for _, d := range v.Declarators {
			if d.Init != nil {
				walkExpr(d.Init)
			}
		}
	case *ast.ReturnStatement:
		if v.Argument != nil {
			walkExpr(v.Argument)
		}
	case *ast.BlockStatement:
		for _, s := range v.Body {
			forEachNestedFunctionFreeName(s, visit)
		}
	case *ast.IfStatement:
		walkExpr(v.Test)
		forEachNestedFunctionFreeName(v.Consequent, visit)
		if v.Alternate != nil {
			forEachNestedFunctionFreeName(v.Alternate, visit)
		}
	case *ast.FunctionDeclaration:
		walkFuncBody(v.Body.Body)
	}
}

// walkStmtFree dispatches the handful of statement shapes that can appear
// directly inside a function body's top level for forEachNestedFunctionFreeName's
// inner closures, reusing the expression walker passed in.
func walkStmtFree(s ast.Node, visit func(string), walkExpr func(ast.Node)) {
	switch v := s.(type) {
	case *ast.ExpressionStatement:
		walkExpr(v.Expression)
	case *ast.VariableDeclaration:
		for _, d := range v.Declarators {
			if d.Init != nil {
				walkExpr(d.Init)
			}
		}
	case *ast.ReturnStatement:
		if v.Argument != nil {
			walkExpr(v.Argument)
		}
	case *ast.IfStatement:
		walkExpr(v.Test)
		walkStmtFree(v.Consequent, visit, walkExpr)
		if v.Alternate != nil {
			walkStmtFree(v.Alternate, visit, walkExpr)
		}
	case *ast.BlockStatement:
		for _, st := range v.Body {
			walkStmtFree(st, visit, walkExpr)
		}
	}
}
