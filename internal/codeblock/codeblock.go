// Package codeblock holds the per-function compilation record the
// compiler consumes: precomputed identifier resolution, block structure,
// and the function-level flags that change how identifiers, this-binding,
// and control flow lower. In a full engine this is populated by the parser
// during scope analysis; internal/scope stands in for that producer so the
// module is runnable end to end.
package codeblock

// IdentifierStorage discriminates how a declared name is ultimately stored,
// mirroring spec.md §3.5's indexedIdentifierInfo outcomes.
type IdentifierStorage int

const (
	// StorageStack: a stack-allocated local, resolved to a fixed slot index.
	StorageStack IdentifierStorage = iota
	// StorageHeap: a closed-over variable, resolved as (upperFrameCount, slotIndex).
	StorageHeap
	// StorageGlobal: a named global-variable cache-slot entry.
	StorageGlobal
	// StorageDynamic: no static resolution; must use *ByName opcodes.
	StorageDynamic
)

// IdentifierInfo is the sum type produced by resolving a name against a
// CodeBlock's declared bindings.
type IdentifierInfo struct {
	Storage IdentifierStorage

	// Valid when Storage == StorageStack.
	StackSlot  int
	BlockIndex int

	// Valid when Storage == StorageHeap.
	UpperFrameCount int
	HeapSlot        int
	IsGlobalLexical bool

	// Valid when Storage == StorageGlobal.
	GlobalCacheSlot int

	Mutable            bool // false for const
	IsLexicallyDeclared bool // let/const vs var/function/parameter
	IsParameter        bool
	IsFunctionName     bool
}

// BlockInfo describes one lexical block within a function.
type BlockInfo struct {
	Names           []string
	NeedsEnvironment bool // any captured or eval-exposed binding
	ParentBlock     int   // -1 for the function's top-level block
}

// CodeBlock is the compilation-unit descriptor for one function (or the
// top-level program, treated as an implicit function).
type CodeBlock struct {
	FunctionName string

	// IdentifierInfos maps every name declared anywhere in this function to
	// its resolved storage. Names are stored unqualified: a name declared
	// in two blocks of one function has a single entry (internal/scope
	// keeps the first declaration).
	IdentifierInfos map[string]*IdentifierInfo

	Blocks []BlockInfo

	ParameterCount int

	CanUseIndexedVariableStorage       bool
	HasAncestorUsesNonIndexedVariableStorage bool
	IsStrict                          bool
	HasEval                            bool
	IsArrowFunctionExpression          bool
	IsClassConstructor                 bool
	IsDerivedClassConstructor          bool
	IsGenerator                        bool
	IsAsync                            bool
	UsesArgumentsObject                bool
	IsFunctionNameSaveOnHeap           bool
	IsFunctionNameExplicitlyDeclared   bool
	AllowSuperCall                     bool
	AllowSuperProperty                 bool

	Parent       *CodeBlock
	SubCodeBlocks []*CodeBlock
}

// New returns an empty CodeBlock with its function-level top block (-1
// parent) already present at index 0.
func New(name string, parent *CodeBlock) *CodeBlock {
	cb := &CodeBlock{
		FunctionName:                 name,
		IdentifierInfos:              make(map[string]*IdentifierInfo),
		CanUseIndexedVariableStorage: true,
		Parent:                       parent,
	}
	cb.Blocks = append(cb.Blocks, BlockInfo{ParentBlock: -1})
	if parent != nil {
		parent.SubCodeBlocks = append(parent.SubCodeBlocks, cb)
		if !parent.CanUseIndexedVariableStorage {
			cb.HasAncestorUsesNonIndexedVariableStorage = true
		}
	}
	return cb
}

// Resolve looks name up in this function's IdentifierInfos only. It takes
// no block index, does not walk enclosing blocks and does not look into
// Parent; internal/compiler's resolveIdentifier continues the search
// through enclosing functions.
func (cb *CodeBlock) Resolve(name string) (*IdentifierInfo, bool) {
	info, ok := cb.IdentifierInfos[name]
	return info, ok
}

// Declare registers a name's resolution within this CodeBlock.
func (cb *CodeBlock) Declare(name string, info *IdentifierInfo) {
	cb.IdentifierInfos[name] = info
}

// AddBlock appends a new lexical block and returns its index.
func (cb *CodeBlock) AddBlock(parent int) int {
	cb.Blocks = append(cb.Blocks, BlockInfo{ParentBlock: parent})
	return len(cb.Blocks) - 1
}
