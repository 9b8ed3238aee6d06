package bytecode

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of chunk's instruction
// stream, grounded on the teacher's vm.Disassemble: a "== name ==" header
// followed by one line per instruction, each line's operands decoded
// generically from OpcodeTable's per-opcode OperandKind list rather than a
// hand-written case per opcode, since this compiler's opcode set (100
// entries) is an order of magnitude larger than the teacher's.
func Disassemble(chunk *Chunk, name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "== %s ==\n", name)

	offset := 0
	for offset < len(chunk.Code) {
		offset = disassembleInstruction(&sb, chunk, offset)
	}
	return sb.String()
}

func disassembleInstruction(sb *strings.Builder, chunk *Chunk, offset int) int {
	fmt.Fprintf(sb, "%04d ", offset)

	op := Opcode(chunk.Code[offset])
	if int(op) >= len(OpcodeTable) {
		fmt.Fprintf(sb, "unknown opcode %d\n", op)
		return offset + 1
	}

	spec := OpcodeTable[op]
	fmt.Fprintf(sb, "%-40s", spec.Name)

	pos := offset + 1
	for _, kind := range spec.Operands {
		switch kind {
		case OperandRegister:
			fmt.Fprintf(sb, " r%d", readUint16(chunk, pos))
			pos += 2
		case OperandConstIndex:
			fmt.Fprintf(sb, " #%d", readUint16(chunk, pos))
			pos += 2
		case OperandCount:
			fmt.Fprintf(sb, " n%d", readUint16(chunk, pos))
			pos += 2
		case OperandFlags:
			fmt.Fprintf(sb, " flags=0x%02x", chunk.Code[pos])
			pos++
		case OperandJumpTarget:
			fmt.Fprintf(sb, " ->%d", binary.LittleEndian.Uint32(chunk.Code[pos:pos+4]))
			pos += 4
		}
	}
	sb.WriteByte('\n')
	return pos
}

func readUint16(chunk *Chunk, pos int) uint16 {
	return binary.LittleEndian.Uint16(chunk.Code[pos : pos+2])
}
