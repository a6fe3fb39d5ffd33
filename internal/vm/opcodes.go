package vm

// Opcode is a single bytecode instruction tag, per spec.md §4.3's table.
// Operands, where an instruction has any, follow the opcode byte inline in
// the chunk's Code buffer.
type Opcode byte

const (
	OpConstant Opcode = iota // CONSTANT idx        push Constants[idx]
	OpNil                    // NIL                  push nil
	OpTrue                   // TRUE                 push true
	OpFalse                  // FALSE                push false
	OpPop                    // POP                  discard top of stack

	OpGetLocal    // GET_LOCAL slot
	OpSetLocal    // SET_LOCAL slot
	OpGetGlobal   // GET_GLOBAL nameConst
	OpDefineGlobal // DEFINE_GLOBAL nameConst
	OpSetGlobal   // SET_GLOBAL nameConst
	OpGetUpvalue  // GET_UPVALUE idx
	OpSetUpvalue  // SET_UPVALUE idx
	OpGetProperty // GET_PROPERTY nameConst
	OpSetProperty // SET_PROPERTY nameConst
	OpGetSuper    // GET_SUPER nameConst

	OpEqual   // EQUAL
	OpGreater // GREATER
	OpLess    // LESS

	OpAdd    // ADD
	OpSub    // SUB
	OpMul    // MUL
	OpDiv    // DIV
	OpMod    // MOD
	OpPow    // POW

	OpBitAnd // BIT_AND
	OpBitOr  // BIT_OR
	OpBitXor // BIT_XOR
	OpShl    // SHL
	OpShr    // SHR
	OpBitNot // BIT_NOT

	OpNot    // NOT
	OpNegate // NEGATE

	OpPrint // PRINT

	OpJump        // JUMP offset(u16)
	OpJumpIfFalse // JUMP_IF_FALSE offset(u16)
	OpLoop        // LOOP offset(u16)

	OpCall        // CALL argCount
	OpInvoke      // INVOKE nameConst argCount
	OpSuperInvoke // SUPER_INVOKE nameConst argCount
	OpClosure     // CLOSURE fnConst [isLocal idx]*
	OpCloseUpvalue // CLOSE_UPVALUE
	OpReturn      // RETURN

	OpClass    // CLASS nameConst
	OpInherit  // INHERIT
	OpMethod   // METHOD nameConst

	OpBuildList    // BUILD_LIST count
	OpGetSubscript // GET_SUBSCRIPT
	OpSetSubscript // SET_SUBSCRIPT
)

var opcodeNames = map[Opcode]string{
	OpConstant:     "OP_CONSTANT",
	OpNil:          "OP_NIL",
	OpTrue:         "OP_TRUE",
	OpFalse:        "OP_FALSE",
	OpPop:          "OP_POP",
	OpGetLocal:     "OP_GET_LOCAL",
	OpSetLocal:     "OP_SET_LOCAL",
	OpGetGlobal:    "OP_GET_GLOBAL",
	OpDefineGlobal: "OP_DEFINE_GLOBAL",
	OpSetGlobal:    "OP_SET_GLOBAL",
	OpGetUpvalue:   "OP_GET_UPVALUE",
	OpSetUpvalue:   "OP_SET_UPVALUE",
	OpGetProperty:  "OP_GET_PROPERTY",
	OpSetProperty:  "OP_SET_PROPERTY",
	OpGetSuper:     "OP_GET_SUPER",
	OpEqual:        "OP_EQUAL",
	OpGreater:      "OP_GREATER",
	OpLess:         "OP_LESS",
	OpAdd:          "OP_ADD",
	OpSub:          "OP_SUB",
	OpMul:          "OP_MUL",
	OpDiv:          "OP_DIV",
	OpMod:          "OP_MOD",
	OpPow:          "OP_POW",
	OpBitAnd:       "OP_BIT_AND",
	OpBitOr:        "OP_BIT_OR",
	OpBitXor:       "OP_BIT_XOR",
	OpShl:          "OP_SHL",
	OpShr:          "OP_SHR",
	OpBitNot:       "OP_BIT_NOT",
	OpNot:          "OP_NOT",
	OpNegate:       "OP_NEGATE",
	OpPrint:        "OP_PRINT",
	OpJump:         "OP_JUMP",
	OpJumpIfFalse:  "OP_JUMP_IF_FALSE",
	OpLoop:         "OP_LOOP",
	OpCall:         "OP_CALL",
	OpInvoke:       "OP_INVOKE",
	OpSuperInvoke:  "OP_SUPER_INVOKE",
	OpClosure:      "OP_CLOSURE",
	OpCloseUpvalue: "OP_CLOSE_UPVALUE",
	OpReturn:       "OP_RETURN",
	OpClass:        "OP_CLASS",
	OpInherit:      "OP_INHERIT",
	OpMethod:       "OP_METHOD",
	OpBuildList:    "OP_BUILD_LIST",
	OpGetSubscript: "OP_GET_SUBSCRIPT",
	OpSetSubscript: "OP_SET_SUBSCRIPT",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "OP_UNKNOWN"
}
