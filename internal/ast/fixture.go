package ast

import (
	"encoding/json"
	"fmt"

	"github.com/larkscript/jsc/internal/arena"
)

// DecodeProgram parses a JSON AST fixture into a *Program. The fixture shape
// is a plain, ESTree-flavored discriminated union: every node is a JSON
// object carrying a "kind" string plus whatever fields that kind needs, the
// same shape the LSP server's protocol.go decodes wire messages into, just
// applied to a syntax tree instead of an RPC envelope. There is no lexer or
// parser behind this — a fixture is the pre-parsed tree the parser would
// otherwise hand the compiler.
//
// Every node below the top-level Program is bump-allocated from a fresh
// Arena (internal/arena) owned by this decode, matching a real parser's
// node lifetime: built once, walked by the compiler, then discarded
// wholesale instead of individually by the garbage collector.
//
// Coverage is the node set a hand-authored fixture realistically needs to
// drive every compiler emitter: literals, identifiers, the common
// expression/statement/declaration shapes, classes, and destructuring
// patterns. RegExpLiteral, TaggedTemplateExpression, ImportCall,
// MetaProperty and the module (import/export) nodes aren't decodable from
// JSON yet; a fixture exercising those constructs one builds directly with
// the ast package's Go constructors instead.
func DecodeProgram(data []byte) (*Program, error) {
	var raw struct {
		Kind string            `json:"kind"`
		Body []json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding program fixture: %w", err)
	}
	if raw.Kind != "Program" {
		return nil, fmt.Errorf("decoding program fixture: top-level kind must be %q, got %q", "Program", raw.Kind)
	}
	d := &decoder{arena: arena.New()}
	body, err := d.decodeNodeList(raw.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding program fixture: %w", err)
	}
	return NewProgram(0, body, 0), nil
}

// decoder carries the arena every node decoded from one fixture is
// allocated from.
type decoder struct {
	arena *arena.Arena
}

// allocNode returns a zeroed, arena-owned *T for decoder d. A free function
// rather than a method since Go methods cannot carry their own type
// parameters.
func allocNode[T any](d *decoder) *T {
	return arena.Alloc[T](d.arena)
}

// rawNode is the union of every field any decodable node kind might carry.
// A single struct keeps the decoder a flat switch rather than a chain of
// per-kind re-unmarshals.
type rawNode struct {
	Kind string `json:"kind"`

	// Literal / identifier
	Value any    `json:"value"`
	Name  string `json:"name"`

	// Template literal
	Quasis      []string          `json:"quasis"`
	Expressions []json.RawMessage `json:"expressions"`

	// Unary / update
	Operator string          `json:"operator"`
	Argument json.RawMessage `json:"argument"`
	Prefix   bool            `json:"prefix"`
	Delegate bool            `json:"delegate"`

	// Binary / assignment / conditional / member
	Left       json.RawMessage `json:"left"`
	Right      json.RawMessage `json:"right"`
	Test       json.RawMessage `json:"test"`
	Consequent json.RawMessage `json:"consequent"`
	Alternate  json.RawMessage `json:"alternate"`
	Object     json.RawMessage `json:"object"`
	Property   json.RawMessage `json:"property"`
	Computed   bool            `json:"computed"`
	Optional   bool            `json:"optional"`

	// Sequence
	RawExpressions []json.RawMessage `json:"expressionList"`

	// Call / new
	Callee    json.RawMessage   `json:"callee"`
	Arguments []rawCallArgument `json:"arguments"`

	// Array
	Elements []rawArrayElement `json:"elements"`

	// Object expression / pattern
	Properties []rawProperty   `json:"properties"`
	Rest       json.RawMessage `json:"rest"`

	// Function-ish
	Params      []rawParam      `json:"params"`
	Body        json.RawMessage `json:"body"`
	ExprBody    bool            `json:"expressionBody"`
	IsGenerator bool            `json:"generator"`
	IsAsync     bool            `json:"async"`

	// Statements
	Statements []json.RawMessage `json:"statements"`
	Expr       json.RawMessage   `json:"expression"`

	Discriminant json.RawMessage `json:"discriminant"`
	Cases        []rawSwitchCase `json:"cases"`

	Init   *rawForInit     `json:"init"`
	Update json.RawMessage `json:"update"`

	ForLeft  *rawForBinding `json:"forLeft"`
	ForRight json.RawMessage `json:"forRight"`
	Await    bool            `json:"await"`

	Label string `json:"label"`

	Block   json.RawMessage `json:"block"`
	Handler *rawCatchClause `json:"handler"`
	Finally json.RawMessage `json:"finally"`

	// Variable declaration
	VarKind      string          `json:"varKind"`
	Declarations []rawDeclarator `json:"declarations"`

	// Class
	SuperClass json.RawMessage `json:"superClass"`
	ClassBody  *rawClassBody   `json:"classBody"`
}

type rawCallArgument struct {
	Value  json.RawMessage `json:"value"`
	Spread bool            `json:"spread"`
}

type rawArrayElement struct {
	Value  json.RawMessage `json:"value"`
	Spread bool            `json:"spread"`
}

type rawProperty struct {
	Key       json.RawMessage `json:"key"`
	Value     json.RawMessage `json:"value"`
	Kind      string          `json:"kind"`
	Computed  bool            `json:"computed"`
	Shorthand bool            `json:"shorthand"`
}

type rawParam struct {
	Pattern json.RawMessage `json:"pattern"`
	Default json.RawMessage `json:"default"`
	Rest    bool            `json:"rest"`
}

type rawSwitchCase struct {
	Test       json.RawMessage   `json:"test"`
	Consequent []json.RawMessage `json:"consequent"`
}

type rawForInit struct {
	Declaration *rawNode        `json:"declaration"`
	Expression  json.RawMessage `json:"expression"`
}

type rawForBinding struct {
	Declaration *rawNode        `json:"declaration"`
	Target      json.RawMessage `json:"target"`
}

type rawCatchClause struct {
	Param json.RawMessage `json:"param"`
	Body  json.RawMessage `json:"body"`
}

type rawDeclarator struct {
	ID   json.RawMessage `json:"id"`
	Init json.RawMessage `json:"init"`
}

type rawClassBody struct {
	Elements []rawClassElement `json:"elements"`
}

type rawClassElement struct {
	Key      json.RawMessage `json:"key"`
	Value    json.RawMessage `json:"value"`
	Kind     string          `json:"kind"`
	Computed bool            `json:"computed"`
	Static   bool            `json:"static"`
}

func (d *decoder) decodeNodeList(raws []json.RawMessage) ([]Node, error) {
	out := make([]Node, 0, len(raws))
	for _, r := range raws {
		n, err := d.decodeRaw(r)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// decodeOpt decodes a possibly-absent node (nil/empty raw message decodes
// to a nil Node, matching the many optional fields the AST already models
// as a nil Node pointer).
func (d *decoder) decodeOpt(r json.RawMessage) (Node, error) {
	if len(r) == 0 || string(r) == "null" {
		return nil, nil
	}
	return d.decodeRaw(r)
}

func (d *decoder) decodeRaw(r json.RawMessage) (Node, error) {
	if len(r) == 0 || string(r) == "null" {
		return nil, nil
	}
	var raw rawNode
	if err := json.Unmarshal(r, &raw); err != nil {
		return nil, fmt.Errorf("decoding node: %w", err)
	}
	return d.decodeNode(raw)
}

func (d *decoder) decodeNode(raw rawNode) (Node, error) {
	switch raw.Kind {
	case "Literal":
		n := allocNode[Literal](d)
		n.Base = NewBase(KindLiteral, 0)
		n.Value = raw.Value
		return n, nil

	case "Identifier":
		n := allocNode[Identifier](d)
		n.Base = NewBase(KindIdentifier, 0)
		n.Name = raw.Name
		return n, nil

	case "ThisExpression":
		n := allocNode[ThisExpression](d)
		n.Base = NewBase(KindThisExpression, 0)
		return n, nil

	case "TemplateLiteral":
		exprs, err := d.decodeNodeList(raw.Expressions)
		if err != nil {
			return nil, err
		}
		n := allocNode[TemplateLiteral](d)
		n.Base = NewBase(KindTemplateLiteral, 0)
		n.Quasis = raw.Quasis
		n.Expressions = exprs
		return n, nil

	case "UnaryExpression":
		arg, err := d.decodeOpt(raw.Argument)
		if err != nil {
			return nil, err
		}
		op, ok := unaryOps[raw.Operator]
		if !ok {
			return nil, fmt.Errorf("decoding UnaryExpression: unknown operator %q", raw.Operator)
		}
		n := allocNode[UnaryExpression](d)
		n.Base = NewBase(KindUnaryExpression, 0)
		n.Operator = op
		n.Argument = arg
		return n, nil

	case "UpdateExpression":
		arg, err := d.decodeOpt(raw.Argument)
		if err != nil {
			return nil, err
		}
		op, ok := updateOps[raw.Operator]
		if !ok {
			return nil, fmt.Errorf("decoding UpdateExpression: unknown operator %q", raw.Operator)
		}
		n := allocNode[UpdateExpression](d)
		n.Base = NewBase(KindUpdateExpression, 0)
		n.Operator = op
		n.Argument = arg
		n.Prefix = raw.Prefix
		return n, nil

	case "BinaryExpression", "LogicalExpression":
		left, err := d.decodeOpt(raw.Left)
		if err != nil {
			return nil, err
		}
		right, err := d.decodeOpt(raw.Right)
		if err != nil {
			return nil, err
		}
		op, ok := binaryOps[raw.Operator]
		if !ok {
			return nil, fmt.Errorf("decoding %s: unknown operator %q", raw.Kind, raw.Operator)
		}
		n := allocNode[BinaryExpression](d)
		n.Base = NewBase(KindBinaryExpression, 0)
		n.Operator = op
		n.Left = left
		n.Right = right
		return n, nil

	case "ConditionalExpression":
		test, err := d.decodeOpt(raw.Test)
		if err != nil {
			return nil, err
		}
		cons, err := d.decodeOpt(raw.Consequent)
		if err != nil {
			return nil, err
		}
		alt, err := d.decodeOpt(raw.Alternate)
		if err != nil {
			return nil, err
		}
		n := allocNode[ConditionalExpression](d)
		n.Base = NewBase(KindConditionalExpression, 0)
		n.Test = test
		n.Consequent = cons
		n.Alternate = alt
		return n, nil

	case "SequenceExpression":
		exprs, err := d.decodeNodeList(raw.RawExpressions)
		if err != nil {
			return nil, err
		}
		n := allocNode[SequenceExpression](d)
		n.Base = NewBase(KindSequenceExpression, 0)
		n.Expressions = exprs
		return n, nil

	case "AssignmentExpression":
		left, err := d.decodeOpt(raw.Left)
		if err != nil {
			return nil, err
		}
		right, err := d.decodeOpt(raw.Right)
		if err != nil {
			return nil, err
		}
		op, ok := assignOps[raw.Operator]
		if !ok {
			return nil, fmt.Errorf("decoding AssignmentExpression: unknown operator %q", raw.Operator)
		}
		n := allocNode[AssignmentExpression](d)
		n.Base = NewBase(KindAssignmentExpression, 0)
		n.Operator = op
		n.Left = left
		n.Right = right
		return n, nil

	case "MemberExpression":
		obj, err := d.decodeOpt(raw.Object)
		if err != nil {
			return nil, err
		}
		prop, err := d.decodeOpt(raw.Property)
		if err != nil {
			return nil, err
		}
		n := allocNode[MemberExpression](d)
		n.Base = NewBase(KindMemberExpression, 0)
		n.Object = obj
		n.Property = prop
		n.Computed = raw.Computed
		n.Optional = raw.Optional
		return n, nil

	case "CallExpression", "NewExpression":
		callee, err := d.decodeOpt(raw.Callee)
		if err != nil {
			return nil, err
		}
		args, err := d.decodeCallArguments(raw.Arguments)
		if err != nil {
			return nil, err
		}
		if raw.Kind == "NewExpression" {
			n := allocNode[NewExpression](d)
			n.Base = NewBase(KindNewExpression, 0)
			n.Callee = callee
			n.Arguments = args
			return n, nil
		}
		n := allocNode[CallExpression](d)
		n.Base = NewBase(KindCallExpression, 0)
		n.Callee = callee
		n.Arguments = args
		n.Optional = raw.Optional
		return n, nil

	case "ArrayExpression":
		elems := make([]ArrayElement, 0, len(raw.Elements))
		for _, e := range raw.Elements {
			v, err := d.decodeOpt(e.Value)
			if err != nil {
				return nil, err
			}
			elems = append(elems, ArrayElement{Value: v, Spread: e.Spread})
		}
		n := allocNode[ArrayExpression](d)
		n.Base = NewBase(KindArrayExpression, 0)
		n.Elements = elems
		return n, nil

	case "ObjectExpression":
		props, err := d.decodeObjectProperties(raw.Properties)
		if err != nil {
			return nil, err
		}
		n := allocNode[ObjectExpression](d)
		n.Base = NewBase(KindObjectExpression, 0)
		n.Properties = props
		return n, nil

	case "FunctionExpression", "FunctionDeclaration":
		params, err := d.decodeParams(raw.Params)
		if err != nil {
			return nil, err
		}
		body, err := d.decodeOpt(raw.Body)
		if err != nil {
			return nil, err
		}
		if raw.Kind == "FunctionDeclaration" {
			block, _ := body.(*BlockStatement)
			n := allocNode[FunctionDeclaration](d)
			n.Base = NewBase(KindFunctionDeclaration, 0)
			n.Name = raw.Name
			n.Params = params
			n.Body = block
			n.IsGenerator = raw.IsGenerator
			n.IsAsync = raw.IsAsync
			return n, nil
		}
		n := allocNode[FunctionExpression](d)
		n.Base = NewBase(KindFunctionExpression, 0)
		n.Name = raw.Name
		n.Params = params
		n.Body = body
		n.IsGenerator = raw.IsGenerator
		n.IsAsync = raw.IsAsync
		return n, nil

	case "ArrowFunctionExpression":
		params, err := d.decodeParams(raw.Params)
		if err != nil {
			return nil, err
		}
		body, err := d.decodeOpt(raw.Body)
		if err != nil {
			return nil, err
		}
		n := allocNode[ArrowFunctionExpression](d)
		n.Base = NewBase(KindArrowFunctionExpression, 0)
		n.Params = params
		n.Body = body
		n.ExpressionBody = raw.ExprBody
		n.IsAsync = raw.IsAsync
		return n, nil

	case "SpreadElement":
		arg, err := d.decodeOpt(raw.Argument)
		if err != nil {
			return nil, err
		}
		n := allocNode[SpreadElement](d)
		n.Base = NewBase(KindSpreadElement, 0)
		n.Argument = arg
		return n, nil

	case "YieldExpression":
		arg, err := d.decodeOpt(raw.Argument)
		if err != nil {
			return nil, err
		}
		n := allocNode[YieldExpression](d)
		n.Base = NewBase(KindYieldExpression, 0)
		n.Argument = arg
		n.Delegate = raw.Delegate
		return n, nil

	case "AwaitExpression":
		arg, err := d.decodeOpt(raw.Argument)
		if err != nil {
			return nil, err
		}
		n := allocNode[AwaitExpression](d)
		n.Base = NewBase(KindAwaitExpression, 0)
		n.Argument = arg
		return n, nil

	case "ArrayPattern":
		elems := make([]ArrayPatternElement, 0, len(raw.Elements))
		for _, e := range raw.Elements {
			v, err := d.decodeOpt(e.Value)
			if err != nil {
				return nil, err
			}
			elems = append(elems, ArrayPatternElement{Element: v})
		}
		rest, err := d.decodeOpt(raw.Rest)
		if err != nil {
			return nil, err
		}
		n := allocNode[ArrayPattern](d)
		n.Base = NewBase(KindArrayPattern, 0)
		n.Elements = elems
		n.Rest = rest
		return n, nil

	case "ObjectPattern":
		props := make([]ObjectPatternProperty, 0, len(raw.Properties))
		for _, p := range raw.Properties {
			key, err := d.decodeOpt(p.Key)
			if err != nil {
				return nil, err
			}
			val, err := d.decodeOpt(p.Value)
			if err != nil {
				return nil, err
			}
			props = append(props, ObjectPatternProperty{Key: key, Value: val, Computed: p.Computed, Shorthand: p.Shorthand})
		}
		rest, err := d.decodeOpt(raw.Rest)
		if err != nil {
			return nil, err
		}
		n := allocNode[ObjectPattern](d)
		n.Base = NewBase(KindObjectPattern, 0)
		n.Properties = props
		n.Rest = rest
		return n, nil

	case "AssignmentPattern":
		left, err := d.decodeOpt(raw.Left)
		if err != nil {
			return nil, err
		}
		def, err := d.decodeOpt(raw.Right)
		if err != nil {
			return nil, err
		}
		n := allocNode[AssignmentPattern](d)
		n.Base = NewBase(KindAssignmentPattern, 0)
		n.Left = left
		n.Default = def
		return n, nil

	case "RestElement":
		arg, err := d.decodeOpt(raw.Argument)
		if err != nil {
			return nil, err
		}
		n := allocNode[RestElement](d)
		n.Base = NewBase(KindRestElement, 0)
		n.Argument = arg
		return n, nil

	case "BlockStatement":
		body, err := d.decodeNodeList(raw.Statements)
		if err != nil {
			return nil, err
		}
		n := allocNode[BlockStatement](d)
		n.Base = NewBase(KindBlockStatement, 0)
		n.Body = body
		return n, nil

	case "ExpressionStatement":
		expr, err := d.decodeOpt(raw.Expr)
		if err != nil {
			return nil, err
		}
		n := allocNode[ExpressionStatement](d)
		n.Base = NewBase(KindExpressionStatement, 0)
		n.Expression = expr
		return n, nil

	case "EmptyStatement":
		n := allocNode[EmptyStatement](d)
		n.Base = NewBase(KindEmptyStatement, 0)
		return n, nil

	case "DebuggerStatement":
		n := allocNode[DebuggerStatement](d)
		n.Base = NewBase(KindDebuggerStatement, 0)
		return n, nil

	case "IfStatement":
		test, err := d.decodeOpt(raw.Test)
		if err != nil {
			return nil, err
		}
		cons, err := d.decodeOpt(raw.Consequent)
		if err != nil {
			return nil, err
		}
		alt, err := d.decodeOpt(raw.Alternate)
		if err != nil {
			return nil, err
		}
		n := allocNode[IfStatement](d)
		n.Base = NewBase(KindIfStatement, 0)
		n.Test = test
		n.Consequent = cons
		n.Alternate = alt
		return n, nil

	case "SwitchStatement":
		disc, err := d.decodeOpt(raw.Discriminant)
		if err != nil {
			return nil, err
		}
		cases := make([]*SwitchCase, 0, len(raw.Cases))
		for _, c := range raw.Cases {
			test, err := d.decodeOpt(c.Test)
			if err != nil {
				return nil, err
			}
			consequent, err := d.decodeNodeList(c.Consequent)
			if err != nil {
				return nil, err
			}
			sc := allocNode[SwitchCase](d)
			sc.Base = NewBase(KindSwitchCase, 0)
			sc.Test = test
			sc.Consequent = consequent
			cases = append(cases, sc)
		}
		n := allocNode[SwitchStatement](d)
		n.Base = NewBase(KindSwitchStatement, 0)
		n.Discriminant = disc
		n.Cases = cases
		return n, nil

	case "WhileStatement":
		test, err := d.decodeOpt(raw.Test)
		if err != nil {
			return nil, err
		}
		body, err := d.decodeOpt(raw.Body)
		if err != nil {
			return nil, err
		}
		n := allocNode[WhileStatement](d)
		n.Base = NewBase(KindWhileStatement, 0)
		n.Test = test
		n.Body = body
		return n, nil

	case "DoWhileStatement":
		test, err := d.decodeOpt(raw.Test)
		if err != nil {
			return nil, err
		}
		body, err := d.decodeOpt(raw.Body)
		if err != nil {
			return nil, err
		}
		n := allocNode[DoWhileStatement](d)
		n.Base = NewBase(KindDoWhileStatement, 0)
		n.Test = test
		n.Body = body
		return n, nil

	case "ForStatement":
		init, err := d.decodeForInit(raw.Init)
		if err != nil {
			return nil, err
		}
		test, err := d.decodeOpt(raw.Test)
		if err != nil {
			return nil, err
		}
		update, err := d.decodeOpt(raw.Update)
		if err != nil {
			return nil, err
		}
		body, err := d.decodeOpt(raw.Body)
		if err != nil {
			return nil, err
		}
		n := allocNode[ForStatement](d)
		n.Base = NewBase(KindForStatement, 0)
		n.Init = init
		n.Test = test
		n.Update = update
		n.Body = body
		return n, nil

	case "ForInStatement", "ForOfStatement":
		left, err := d.decodeForBinding(raw.ForLeft)
		if err != nil {
			return nil, err
		}
		right, err := d.decodeOpt(raw.ForRight)
		if err != nil {
			return nil, err
		}
		body, err := d.decodeOpt(raw.Body)
		if err != nil {
			return nil, err
		}
		if raw.Kind == "ForInStatement" {
			n := allocNode[ForInStatement](d)
			n.Base = NewBase(KindForInStatement, 0)
			n.Left = left
			n.Right = right
			n.Body = body
			return n, nil
		}
		n := allocNode[ForOfStatement](d)
		n.Base = NewBase(KindForOfStatement, 0)
		n.Left = left
		n.Right = right
		n.Body = body
		n.Await = raw.Await
		return n, nil

	case "BreakStatement":
		n := allocNode[BreakStatement](d)
		n.Base = NewBase(KindBreakStatement, 0)
		n.Label = raw.Label
		return n, nil

	case "ContinueStatement":
		n := allocNode[ContinueStatement](d)
		n.Base = NewBase(KindContinueStatement, 0)
		n.Label = raw.Label
		return n, nil

	case "ReturnStatement":
		arg, err := d.decodeOpt(raw.Argument)
		if err != nil {
			return nil, err
		}
		n := allocNode[ReturnStatement](d)
		n.Base = NewBase(KindReturnStatement, 0)
		n.Argument = arg
		return n, nil

	case "ThrowStatement":
		arg, err := d.decodeOpt(raw.Argument)
		if err != nil {
			return nil, err
		}
		n := allocNode[ThrowStatement](d)
		n.Base = NewBase(KindThrowStatement, 0)
		n.Argument = arg
		return n, nil

	case "TryStatement":
		block, err := d.decodeOpt(raw.Block)
		if err != nil {
			return nil, err
		}
		blockStmt, _ := block.(*BlockStatement)
		var handler *CatchClause
		if raw.Handler != nil {
			param, err := d.decodeOpt(raw.Handler.Param)
			if err != nil {
				return nil, err
			}
			body, err := d.decodeOpt(raw.Handler.Body)
			if err != nil {
				return nil, err
			}
			bodyBlock, _ := body.(*BlockStatement)
			handler = allocNode[CatchClause](d)
			handler.Base = NewBase(KindCatchClause, 0)
			handler.Param = param
			handler.Body = bodyBlock
		}
		finallyNode, err := d.decodeOpt(raw.Finally)
		if err != nil {
			return nil, err
		}
		finallyBlock, _ := finallyNode.(*BlockStatement)
		n := allocNode[TryStatement](d)
		n.Base = NewBase(KindTryStatement, 0)
		n.Block = blockStmt
		n.Handler = handler
		n.Finally = finallyBlock
		return n, nil

	case "WithStatement":
		obj, err := d.decodeOpt(raw.Object)
		if err != nil {
			return nil, err
		}
		body, err := d.decodeOpt(raw.Body)
		if err != nil {
			return nil, err
		}
		n := allocNode[WithStatement](d)
		n.Base = NewBase(KindWithStatement, 0)
		n.Object = obj
		n.Body = body
		return n, nil

	case "LabeledStatement":
		body, err := d.decodeOpt(raw.Body)
		if err != nil {
			return nil, err
		}
		n := allocNode[LabeledStatement](d)
		n.Base = NewBase(KindLabeledStatement, 0)
		n.Label = raw.Label
		n.Body = body
		return n, nil

	case "Directive":
		value, ok := raw.Value.(string)
		if !ok {
			return nil, fmt.Errorf("decoding Directive: value must be a string, got %T", raw.Value)
		}
		n := allocNode[Directive](d)
		n.Base = NewBase(KindDirective, 0)
		n.Value = value
		return n, nil

	case "VariableDeclaration":
		kind, ok := varKinds[raw.VarKind]
		if !ok {
			return nil, fmt.Errorf("decoding VariableDeclaration: unknown kind %q", raw.VarKind)
		}
		decls := make([]*VariableDeclarator, 0, len(raw.Declarations))
		for _, dd := range raw.Declarations {
			id, err := d.decodeOpt(dd.ID)
			if err != nil {
				return nil, err
			}
			init, err := d.decodeOpt(dd.Init)
			if err != nil {
				return nil, err
			}
			decl := allocNode[VariableDeclarator](d)
			decl.Base = NewBase(KindVariableDeclarator, 0)
			decl.ID = id
			decl.Init = init
			decls = append(decls, decl)
		}
		n := allocNode[VariableDeclaration](d)
		n.Base = NewBase(KindVariableDeclaration, 0)
		n.VarKind = kind
		n.Declarators = decls
		return n, nil

	case "ClassDeclaration", "ClassExpression":
		super, err := d.decodeOpt(raw.SuperClass)
		if err != nil {
			return nil, err
		}
		body, err := d.decodeClassBody(raw.ClassBody)
		if err != nil {
			return nil, err
		}
		if raw.Kind == "ClassDeclaration" {
			n := allocNode[ClassDeclaration](d)
			n.Base = NewBase(KindClassDeclaration, 0)
			n.Name = raw.Name
			n.SuperClass = super
			n.Body = body
			return n, nil
		}
		n := allocNode[ClassExpression](d)
		n.Base = NewBase(KindClassExpression, 0)
		n.Name = raw.Name
		n.SuperClass = super
		n.Body = body
		return n, nil

	default:
		return nil, fmt.Errorf("decoding node: unsupported kind %q", raw.Kind)
	}
}

func (d *decoder) decodeCallArguments(raws []rawCallArgument) ([]CallArgument, error) {
	out := make([]CallArgument, 0, len(raws))
	for _, a := range raws {
		v, err := d.decodeOpt(a.Value)
		if err != nil {
			return nil, err
		}
		kind := CallArgPlain
		if a.Spread {
			kind = CallArgSpread
		}
		out = append(out, CallArgument{Value: v, Kind: kind})
	}
	return out, nil
}

func (d *decoder) decodeObjectProperties(raws []rawProperty) ([]ObjectProperty, error) {
	out := make([]ObjectProperty, 0, len(raws))
	for _, p := range raws {
		key, err := d.decodeOpt(p.Key)
		if err != nil {
			return nil, err
		}
		val, err := d.decodeOpt(p.Value)
		if err != nil {
			return nil, err
		}
		kind, ok := propertyKinds[p.Kind]
		if !ok {
			kind = PropertyInit
		}
		out = append(out, ObjectProperty{Key: key, Value: val, Kind: kind, Computed: p.Computed, Shorthand: p.Shorthand})
	}
	return out, nil
}

func (d *decoder) decodeParams(raws []rawParam) ([]Param, error) {
	out := make([]Param, 0, len(raws))
	for _, p := range raws {
		pattern, err := d.decodeOpt(p.Pattern)
		if err != nil {
			return nil, err
		}
		def, err := d.decodeOpt(p.Default)
		if err != nil {
			return nil, err
		}
		out = append(out, Param{Pattern: pattern, Default: def, Rest: p.Rest})
	}
	return out, nil
}

func (d *decoder) decodeForInit(raw *rawForInit) (*ForInit, error) {
	if raw == nil {
		return nil, nil
	}
	fi := &ForInit{}
	if raw.Declaration != nil {
		n, err := d.decodeNode(*raw.Declaration)
		if err != nil {
			return nil, err
		}
		decl, ok := n.(*VariableDeclaration)
		if !ok {
			return nil, fmt.Errorf("decoding for-init: declaration must be a VariableDeclaration")
		}
		fi.Declaration = decl
	}
	expr, err := d.decodeOpt(raw.Expression)
	if err != nil {
		return nil, err
	}
	fi.Expression = expr
	return fi, nil
}

func (d *decoder) decodeForBinding(raw *rawForBinding) (ForBinding, error) {
	if raw == nil {
		return ForBinding{}, nil
	}
	fb := ForBinding{}
	if raw.Declaration != nil {
		n, err := d.decodeNode(*raw.Declaration)
		if err != nil {
			return ForBinding{}, err
		}
		decl, ok := n.(*VariableDeclaration)
		if !ok {
			return ForBinding{}, fmt.Errorf("decoding for-binding: declaration must be a VariableDeclaration")
		}
		fb.Declaration = decl
	}
	target, err := d.decodeOpt(raw.Target)
	if err != nil {
		return ForBinding{}, err
	}
	fb.Target = target
	return fb, nil
}

func (d *decoder) decodeClassBody(raw *rawClassBody) (*ClassBody, error) {
	if raw == nil {
		n := allocNode[ClassBody](d)
		n.Base = NewBase(KindClassBody, 0)
		return n, nil
	}
	elems := make([]*ClassElement, 0, len(raw.Elements))
	var constructor *ClassElement
	for _, e := range raw.Elements {
		key, err := d.decodeOpt(e.Key)
		if err != nil {
			return nil, err
		}
		val, err := d.decodeOpt(e.Value)
		if err != nil {
			return nil, err
		}
		kind, ok := classElementKinds[e.Kind]
		if !ok {
			kind = ElementMethod
		}
		elem := allocNode[ClassElement](d)
		elem.Base = NewBase(KindClassElement, 0)
		elem.Key = key
		elem.Value = val
		elem.Kind = kind
		elem.Computed = e.Computed
		elem.Static = e.Static
		elems = append(elems, elem)
		if id, ok := key.(*Identifier); ok && id.Name == "constructor" && kind == ElementMethod && !e.Static {
			constructor = elem
		}
	}
	n := allocNode[ClassBody](d)
	n.Base = NewBase(KindClassBody, 0)
	n.Elements = elems
	n.Constructor = constructor
	return n, nil
}

var unaryOps = map[string]UnaryOp{
	"+": UnaryPlus, "-": UnaryMinus, "!": UnaryNot, "~": UnaryBitwiseNot,
	"typeof": UnaryTypeof, "void": UnaryVoid, "delete": UnaryDelete,
}

var updateOps = map[string]UpdateOp{"++": UpdateIncrement, "--": UpdateDecrement}

var binaryOps = map[string]BinaryOp{
	"+": BinAdd, "-": BinSub, "*": BinMul, "/": BinDiv, "%": BinMod, "**": BinExp,
	"<<": BinShl, ">>": BinSar, ">>>": BinShr,
	"&": BinBitAnd, "|": BinBitOr, "^": BinBitXor,
	"==": BinEqual, "!=": BinNotEqual, "===": BinStrictEqual, "!==": BinNotStrictEqual,
	"<": BinLessThan, "<=": BinLessThanEqual, ">": BinGreaterThan, ">=": BinGreaterThanEqual,
	"in": BinIn, "instanceof": BinInstanceOf,
	"&&": BinLogicalAnd, "||": BinLogicalOr, "??": BinNullishCoalesce,
}

var assignOps = map[string]AssignmentOp{
	"=": AssignSimple, "+=": AssignAdd, "-=": AssignSub, "*=": AssignMul, "/=": AssignDiv,
	"%=": AssignMod, "**=": AssignExp, "<<=": AssignShl, ">>=": AssignSar, ">>>=": AssignShr,
	"&=": AssignBitAnd, "|=": AssignBitOr, "^=": AssignBitXor,
	"&&=": AssignLogicalAnd, "||=": AssignLogicalOr, "??=": AssignNullishCoalesce,
}

var varKinds = map[string]VariableKind{"var": VarVar, "let": VarLet, "const": VarConst}

var propertyKinds = map[string]PropertyKind{
	"init": PropertyInit, "get": PropertyGet, "set": PropertySet, "spread": PropertySpread,
}

var classElementKinds = map[string]ClassElementKind{
	"method": ElementMethod, "get": ElementGet, "set": ElementSet, "field": ElementField,
}
