// Package bytecode implements the append-only instruction buffer the
// compiler emits into: a typed opcode stream with offset-based forward-jump
// patching and the auxiliary literal/pause-site tables spec.md §3.4 and
// §4.3 describe. It is grounded on the teacher's internal/vm chunk.go
// (append/peek/last-position primitives, 2-byte operand encoding) extended
// with the JS-specific pause-site extra-data and numeral-literal-cache
// tables a funxy chunk never needed.
package bytecode

import "encoding/binary"

// jumpSentinel marks an as-yet-unpatched forward-jump target, mirroring
// the source's SIZE_MAX sentinel.
const jumpSentinel uint32 = 0xFFFFFFFF

// sourcePosition records which source-index a given byte offset in Code
// corresponds to, for error traces and debugger mapping.
type sourcePosition struct {
	Offset int
	Source int
}

// Chunk is the per-compilation-unit bytecode buffer plus its auxiliary
// tables. It owns every byte emitted for one function (or the top-level
// program).
type Chunk struct {
	Code []byte

	positions []sourcePosition
	lastPos   map[Opcode]int

	StringLiteralData  []string
	NumeralLiteralData []float64

	// PauseExtraData holds, per pause site (in emission order), the
	// serialized recursive-statement-stack snapshot trailing that opcode.
	PauseExtraData                      [][]byte
	MaxPauseStatementExtraDataLength int

	RequiredRegisterFileSizeInValueSize int
	ShouldClearStack                    bool
	NeedsExtendedExecutionState         bool

	// ExceptionHandlers is the try-range table: one entry per catch and/or
	// finally clause, covering [TryStart, TryEnd) of the protected range.
	// The runtime walks this table (innermost-first, since nested trys
	// push later, shorter-or-equal ranges after their enclosing one) to
	// find the handler for a thrown exception's current program counter.
	ExceptionHandlers []ExceptionHandler
}

// TryHandlerKind distinguishes a catch handler from a finally handler, the
// same protected range commonly carrying one of each.
type TryHandlerKind byte

const (
	TryHandlerCatch TryHandlerKind = iota
	TryHandlerFinally
)

// ExceptionHandler is one row of Chunk.ExceptionHandlers.
type ExceptionHandler struct {
	TryStart, TryEnd int
	HandlerStart     int
	Kind             TryHandlerKind
}

// AddExceptionHandler appends h and returns its index.
func (c *Chunk) AddExceptionHandler(h ExceptionHandler) int {
	c.ExceptionHandlers = append(c.ExceptionHandlers, h)
	return len(c.ExceptionHandlers) - 1
}

// NewChunk returns an empty Chunk ready for emission.
func NewChunk() *Chunk {
	return &Chunk{lastPos: make(map[Opcode]int)}
}

// PushOpcode appends op's tag byte, records its source index for debug
// info, and returns the byte offset it was written at.
func (c *Chunk) PushOpcode(op Opcode, sourceIndex int) int {
	offset := len(c.Code)
	c.Code = append(c.Code, byte(op))
	c.positions = append(c.positions, sourcePosition{Offset: offset, Source: sourceIndex})
	c.lastPos[op] = offset
	return offset
}

// WriteRegister appends a register operand (2 bytes, little-endian).
func (c *Chunk) WriteRegister(r int) {
	c.Code = binary.LittleEndian.AppendUint16(c.Code, uint16(r))
}

// WriteConstIndex appends a constant-table-index operand (2 bytes).
func (c *Chunk) WriteConstIndex(idx int) {
	c.Code = binary.LittleEndian.AppendUint16(c.Code, uint16(idx))
}

// WriteCount appends a small-integer operand (2 bytes) — argument counts,
// upvar frame counts, slot counts.
func (c *Chunk) WriteCount(n int) {
	c.Code = binary.LittleEndian.AppendUint16(c.Code, uint16(n))
}

// WriteFlags appends a single flags/sub-kind byte.
func (c *Chunk) WriteFlags(f byte) {
	c.Code = append(c.Code, f)
}

// WriteJumpTarget appends a placeholder 4-byte forward-jump target and
// returns its byte offset so the caller can retain it as a patch point.
func (c *Chunk) WriteJumpTarget() int {
	offset := len(c.Code)
	c.Code = binary.LittleEndian.AppendUint32(c.Code, jumpSentinel)
	return offset
}

// PatchJumpTarget overwrites the placeholder at offset (previously returned
// by WriteJumpTarget) with the real target offset.
func (c *Chunk) PatchJumpTarget(offset, target int) {
	binary.LittleEndian.PutUint32(c.Code[offset:offset+4], uint32(target))
}

// ReadJumpTarget reads back a previously patched (or still-sentinel) jump
// target, mainly for tests asserting invariant #2 (no sentinel survives).
func (c *Chunk) ReadJumpTarget(offset int) uint32 {
	return binary.LittleEndian.Uint32(c.Code[offset : offset+4])
}

// PeekOpcode returns the opcode tag at offset, asserting the caller's
// expectation of what was emitted there.
func (c *Chunk) PeekOpcode(offset int) Opcode {
	return Opcode(c.Code[offset])
}

// LastPosition returns the byte offset of the most recently emitted opcode
// of kind op, used immediately after a push to remember a patch point.
func (c *Chunk) LastPosition(op Opcode) (int, bool) {
	offset, ok := c.lastPos[op]
	return offset, ok
}

// CurrentSize returns the next-append position — the target forward jumps
// use once their guarded body has been emitted.
func (c *Chunk) CurrentSize() int {
	return len(c.Code)
}

// AddStringLiteral interns s into the string-literal table and returns its
// index, appending regardless of duplicates (the spec does not require
// deduplication, only identity-stable lookup by index).
func (c *Chunk) AddStringLiteral(s string) int {
	c.StringLiteralData = append(c.StringLiteralData, s)
	return len(c.StringLiteralData) - 1
}

// AddNumeralLiteral registers a numeral literal kept in the register file
// and returns its index into NumeralLiteralData.
func (c *Chunk) AddNumeralLiteral(v float64) int {
	c.NumeralLiteralData = append(c.NumeralLiteralData, v)
	return len(c.NumeralLiteralData) - 1
}

// AppendPauseExtraData records one pause site's tail-data snapshot and
// widens MaxPauseStatementExtraDataLength if needed, implementing
// update_max_pause_statement_extra_data_length.
func (c *Chunk) AppendPauseExtraData(data []byte) int {
	c.PauseExtraData = append(c.PauseExtraData, data)
	if len(data) > c.MaxPauseStatementExtraDataLength {
		c.MaxPauseStatementExtraDataLength = len(data)
	}
	return len(c.PauseExtraData) - 1
}

// SourceIndexAt returns the source index recorded for the opcode emitted at
// or most recently before byteOffset, for error-trace construction.
func (c *Chunk) SourceIndexAt(byteOffset int) int {
	best := 0
	for _, p := range c.positions {
		if p.Offset > byteOffset {
			break
		}
		best = p.Source
	}
	return best
}

// IsSentinelJumpTarget reports whether the 4 bytes at offset still hold the
// unpatched sentinel, for tests asserting invariant #2 against a caller-
// tracked list of jump-patch offsets.
func (c *Chunk) IsSentinelJumpTarget(offset int) bool {
	return c.ReadJumpTarget(offset) == jumpSentinel
}
