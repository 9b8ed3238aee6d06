package bytecode

// OperandKind names the shape of one operand slot in an opcode's fixed
// layout. Disassemble decodes each instruction's operands from these;
// cmd/gen-opcodes and the Chunk emission helpers do not consult them.
type OperandKind int

const (
	OperandNone OperandKind = iota
	OperandRegister
	OperandConstIndex
	OperandJumpTarget
	OperandCount
	OperandFlags
)

// OpcodeSpec is one row of the declarative opcode table that
// cmd/gen-opcodes reads to produce the opcode name table, so the opcode
// set and its debug strings never drift apart.
type OpcodeSpec struct {
	Name     string
	Operands []OperandKind
}

// OpcodeTable is the single source of truth for the opcode catalog in
// spec.md §6.3, grouped by category. opcode_names_gen.go's name table is
// generated from this slice by cmd/gen-opcodes; opcodes.go's Opcode
// constants must be kept in the same order by hand, since a constant
// block can't itself be derived from a []OpcodeSpec literal.
//
//go:generate go run ../../cmd/gen-opcodes
var OpcodeTable = []OpcodeSpec{
	// Loads/stores
	{"load_literal", []OperandKind{OperandRegister, OperandConstIndex}},
	{"load_by_name", []OperandKind{OperandRegister, OperandConstIndex}},
	{"load_by_heap_index", []OperandKind{OperandCount, OperandCount, OperandRegister}},
	{"store_by_name", []OperandKind{OperandConstIndex, OperandRegister}},
	{"store_by_heap_index", []OperandKind{OperandRegister, OperandCount, OperandCount}},
	{"move", []OperandKind{OperandRegister, OperandRegister}},
	{"initialize_by_name", []OperandKind{OperandConstIndex, OperandRegister}},
	{"initialize_by_heap_index", []OperandKind{OperandRegister, OperandCount}},
	{"get_global_variable", []OperandKind{OperandRegister, OperandCount}},
	{"set_global_variable", []OperandKind{OperandRegister, OperandCount}},
	{"initialize_global_variable", []OperandKind{OperandRegister, OperandCount}},
	{"resolve_name_address", []OperandKind{OperandConstIndex, OperandRegister}},
	{"store_by_name_with_address", []OperandKind{OperandRegister, OperandRegister}},
	{"get_parameter", []OperandKind{OperandRegister, OperandCount}},
	{"binding_callee_into_register", []OperandKind{OperandRegister}},
	{"load_this_binding", []OperandKind{OperandRegister}},
	{"new_target_operation", []OperandKind{OperandRegister}},

	// Arithmetic/logic
	{"binary_plus", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"binary_minus", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"binary_multiply", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"binary_division", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"binary_mod", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"binary_exponentiation", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"binary_left_shift", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"binary_signed_right_shift", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"binary_unsigned_right_shift", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"binary_bitwise_and", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"binary_bitwise_or", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"binary_bitwise_xor", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"binary_equal", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"binary_not_equal", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"binary_strict_equal", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"binary_not_strict_equal", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"binary_less_than", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"binary_less_than_or_equal", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"binary_greater_than", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"binary_greater_than_or_equal", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"binary_in", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"binary_instance_of", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"unary_minus", []OperandKind{OperandRegister, OperandRegister}},
	{"unary_bitwise_not", []OperandKind{OperandRegister, OperandRegister}},
	{"unary_logical_not", []OperandKind{OperandRegister, OperandRegister}},
	{"unary_typeof", []OperandKind{OperandRegister, OperandRegister}},
	{"unary_delete", []OperandKind{OperandRegister, OperandRegister, OperandRegister, OperandFlags}},
	{"increment", []OperandKind{OperandRegister, OperandRegister}},
	{"decrement", []OperandKind{OperandRegister, OperandRegister}},
	{"to_number", []OperandKind{OperandRegister, OperandRegister}},

	// Control flow
	{"jump", []OperandKind{OperandJumpTarget}},
	{"jump_if_true", []OperandKind{OperandRegister, OperandJumpTarget}},
	{"jump_if_false", []OperandKind{OperandRegister, OperandJumpTarget}},
	{"jump_if_equal", []OperandKind{OperandRegister, OperandRegister, OperandJumpTarget}},
	{"jump_if_not_fulfilled", []OperandKind{OperandRegister, OperandJumpTarget}},
	{"jump_if_undefined_or_null", []OperandKind{OperandRegister, OperandJumpTarget}},

	// Objects
	{"create_object", []OperandKind{OperandRegister}},
	{"create_array", []OperandKind{OperandRegister}},
	{"array_define_own_property", []OperandKind{OperandRegister, OperandCount, OperandCount}},
	{"array_define_own_property_by_spread", []OperandKind{OperandRegister, OperandCount}},
	{"object_define_own_property", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"object_define_own_property_with_name", []OperandKind{OperandRegister, OperandConstIndex, OperandRegister}},
	{"object_define_getter_setter", []OperandKind{OperandRegister, OperandConstIndex, OperandRegister, OperandFlags}},
	{"get_object", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"get_object_precomputed_case", []OperandKind{OperandRegister, OperandConstIndex, OperandRegister}},
	{"set_object", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"set_object_precomputed_case", []OperandKind{OperandRegister, OperandConstIndex, OperandRegister}},
	{"super_get_object", []OperandKind{OperandRegister, OperandRegister}},
	{"super_set_object", []OperandKind{OperandRegister, OperandRegister}},

	// Calls
	{"call", []OperandKind{OperandRegister, OperandRegister, OperandCount, OperandRegister}},
	{"call_with_receiver", []OperandKind{OperandRegister, OperandRegister, OperandRegister, OperandCount, OperandRegister}},
	{"call_return", []OperandKind{OperandRegister, OperandRegister, OperandCount}},
	{"call_return_with_receiver", []OperandKind{OperandRegister, OperandRegister, OperandRegister, OperandCount}},
	{"call_function", []OperandKind{OperandRegister, OperandRegister, OperandCount, OperandRegister}},
	{"call_complex", []OperandKind{OperandFlags, OperandRegister, OperandRegister, OperandCount, OperandRegister}},
	{"new_operation", []OperandKind{OperandRegister, OperandCount, OperandRegister}},
	{"new_operation_with_spread", []OperandKind{OperandRegister, OperandCount, OperandRegister}},
	{"tail_recursion", []OperandKind{OperandRegister, OperandRegister, OperandCount}},
	{"tail_recursion_with_receiver", []OperandKind{OperandRegister, OperandRegister, OperandRegister, OperandCount}},
	{"tail_recursion_in_try", []OperandKind{OperandRegister, OperandRegister, OperandCount}},

	// Iterators
	{"iterator_operation", []OperandKind{OperandFlags, OperandRegister, OperandRegister}},
	{"create_enumerate_object", []OperandKind{OperandRegister, OperandRegister, OperandFlags}},
	{"check_last_enumerate_key", []OperandKind{OperandRegister, OperandJumpTarget}},
	{"get_enumerate_key", []OperandKind{OperandRegister, OperandRegister}},
	{"create_spread_array_object", []OperandKind{OperandRegister, OperandRegister}},
	{"binding_rest_element", []OperandKind{OperandRegister, OperandRegister}},
	{"create_rest_element", []OperandKind{OperandRegister, OperandCount}},

	// Exceptions
	{"throw_operation", []OperandKind{OperandRegister}},
	{"throw_static_error_operation", []OperandKind{OperandFlags, OperandConstIndex, OperandConstIndex}},

	// Scoping
	{"open_lexical_environment", []OperandKind{OperandFlags, OperandRegister}},
	{"close_lexical_environment", []OperandKind{}},
	{"replace_block_lexical_environment_operation", []OperandKind{OperandCount}},
	{"ensure_arguments_object", []OperandKind{}},

	// Regex/templates
	{"load_regexp", []OperandKind{OperandRegister, OperandConstIndex, OperandConstIndex}},
	{"template_operation", []OperandKind{OperandRegister, OperandRegister, OperandRegister}},
	{"tagged_template_operation", []OperandKind{OperandFlags, OperandRegister, OperandCount}},

	// Classes
	{"create_class", []OperandKind{OperandRegister, OperandRegister, OperandRegister, OperandConstIndex}},
	{"initialize_class", []OperandKind{OperandFlags, OperandRegister, OperandCount}},

	// Functions. Not named among spec.md §6.3's "representative categories"
	// (that list is explicitly non-exhaustive) but required to materialize
	// a FunctionExpression/ArrowFunctionExpression/FunctionDeclaration's
	// associated CodeBlock into a runtime closure value.
	{"create_function_expression", []OperandKind{OperandRegister, OperandConstIndex, OperandFlags}},

	// Pause
	{"execution_pause", []OperandKind{OperandFlags, OperandRegister, OperandRegister, OperandCount}},

	// Termination
	{"end", []OperandKind{OperandRegister}},
	{"return_function_slow_case", []OperandKind{OperandRegister}},
	{"generator_complete", []OperandKind{}},
}
