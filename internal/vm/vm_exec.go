package vm

import "fmt"

func (vm *VM) readByte(frame *callFrame) byte {
	b := frame.closure.Function.Chunk.Code[frame.ip]
	frame.ip++
	return b
}

func (vm *VM) readShort(frame *callFrame) int {
	hi := vm.readByte(frame)
	lo := vm.readByte(frame)
	return int(hi)<<8 | int(lo)
}

func (vm *VM) readConstant(frame *callFrame) Value {
	return frame.closure.Function.Chunk.Constants[vm.readByte(frame)]
}

func (vm *VM) readString(frame *callFrame) *ObjString {
	return vm.readConstant(frame).Obj.(*ObjString)
}

// run is the VM's main fetch-decode-execute loop. The GC watermark check
// happens here, and only here — compilation never allocates through a path
// that could observe a live interpreter stack, so there is nothing to mark
// besides what run() itself is about to touch.
func (vm *VM) run() InterpretResult {
	frame := &vm.frames[len(vm.frames)-1]

	for {
		if vm.bytesAllocated > vm.nextGC {
			vm.collectGarbage()
		}

		op := Opcode(vm.readByte(frame))
		switch op {
		case OpConstant:
			vm.push(vm.readConstant(frame))

		case OpNil:
			vm.push(NilVal())
		case OpTrue:
			vm.push(BoolVal(true))
		case OpFalse:
			vm.push(BoolVal(false))
		case OpPop:
			vm.pop()

		case OpGetLocal:
			slot := vm.readByte(frame)
			vm.push(vm.stack[frame.slots+int(slot)])
		case OpSetLocal:
			slot := vm.readByte(frame)
			vm.stack[frame.slots+int(slot)] = vm.peek(0)

		case OpGetGlobal:
			name := vm.readString(frame)
			v, ok := vm.globals[name.Chars]
			if !ok {
				vm.runtimeError("Undefined variable '%s'.", name.Chars)
				return InterpretRuntimeError
			}
			vm.push(v)
		case OpDefineGlobal:
			name := vm.readString(frame)
			vm.globals[name.Chars] = vm.peek(0)
			vm.pop()
		case OpSetGlobal:
			name := vm.readString(frame)
			if _, ok := vm.globals[name.Chars]; !ok {
				vm.runtimeError("Undefined variable '%s'.", name.Chars)
				return InterpretRuntimeError
			}
			vm.globals[name.Chars] = vm.peek(0)

		case OpGetUpvalue:
			slot := vm.readByte(frame)
			vm.push(frame.closure.Upvalues[slot].get())
		case OpSetUpvalue:
			slot := vm.readByte(frame)
			frame.closure.Upvalues[slot].set(vm.peek(0))

		case OpGetProperty:
			if !vm.peek(0).IsObjType(ObjTypeInstance) {
				vm.runtimeError("Only instances have properties.")
				return InterpretRuntimeError
			}
			instance := vm.peek(0).Obj.(*ObjInstance)
			name := vm.readString(frame)
			if field, ok := instance.Fields[name.Chars]; ok {
				vm.pop()
				vm.push(field)
				break
			}
			if !vm.bindMethod(instance.Class, name) {
				return InterpretRuntimeError
			}
		case OpSetProperty:
			if !vm.peek(1).IsObjType(ObjTypeInstance) {
				vm.runtimeError("Only instances have fields.")
				return InterpretRuntimeError
			}
			instance := vm.peek(1).Obj.(*ObjInstance)
			name := vm.readString(frame)
			instance.Fields[name.Chars] = vm.peek(0)
			value := vm.pop()
			vm.pop()
			vm.push(value)
		case OpGetSuper:
			name := vm.readString(frame)
			superclass := vm.pop().Obj.(*ObjClass)
			if !vm.bindMethod(superclass, name) {
				return InterpretRuntimeError
			}

		case OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(BoolVal(a.Equal(b)))
		case OpGreater, OpLess:
			if !vm.binaryNumberOp(op) {
				return InterpretRuntimeError
			}

		case OpAdd:
			if !vm.add() {
				return InterpretRuntimeError
			}
		case OpSub, OpMul, OpDiv, OpMod, OpPow:
			if !vm.binaryNumberOp(op) {
				return InterpretRuntimeError
			}
		case OpBitAnd, OpBitOr, OpBitXor, OpShl, OpShr:
			if !vm.binaryBitwiseOp(op) {
				return InterpretRuntimeError
			}
		case OpBitNot:
			if !vm.bitNot() {
				return InterpretRuntimeError
			}
		case OpNot:
			vm.push(BoolVal(vm.pop().IsFalsey()))
		case OpNegate:
			if !vm.negate() {
				return InterpretRuntimeError
			}

		case OpPrint:
			fmt.Fprintln(vm.Stdout, vm.pop())

		case OpJump:
			offset := vm.readShort(frame)
			frame.ip += offset
		case OpJumpIfFalse:
			offset := vm.readShort(frame)
			if vm.peek(0).IsFalsey() {
				frame.ip += offset
			}
		case OpLoop:
			offset := vm.readShort(frame)
			frame.ip -= offset

		case OpCall:
			argCount := int(vm.readByte(frame))
			if !vm.callValue(vm.peek(argCount), argCount) {
				return InterpretRuntimeError
			}
			frame = &vm.frames[len(vm.frames)-1]
		case OpInvoke:
			name := vm.readString(frame)
			argCount := int(vm.readByte(frame))
			if !vm.invoke(name, argCount) {
				return InterpretRuntimeError
			}
			frame = &vm.frames[len(vm.frames)-1]
		case OpSuperInvoke:
			name := vm.readString(frame)
			argCount := int(vm.readByte(frame))
			superclass := vm.pop().Obj.(*ObjClass)
			if !vm.invokeFromClass(superclass, name, argCount) {
				return InterpretRuntimeError
			}
			frame = &vm.frames[len(vm.frames)-1]
		case OpClosure:
			fn := vm.readConstant(frame).Obj.(*ObjFunction)
			closure := vm.newClosure(fn)
			vm.push(ObjVal(closure))
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := vm.readByte(frame)
				index := vm.readByte(frame)
				if isLocal != 0 {
					closure.Upvalues[i] = vm.captureUpvalue(frame.slots + int(index))
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[index]
				}
			}
		case OpCloseUpvalue:
			vm.closeUpvalues(vm.stackTop - 1)
			vm.pop()
		case OpReturn:
			result := vm.pop()
			vm.closeUpvalues(frame.slots)
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				vm.pop()
				return InterpretOK
			}
			vm.stackTop = frame.slots
			vm.push(result)
			frame = &vm.frames[len(vm.frames)-1]

		case OpClass:
			name := vm.readString(frame)
			vm.push(ObjVal(vm.newClass(name)))
		case OpInherit:
			superVal := vm.peek(1)
			superclass, ok := superVal.Obj.(*ObjClass)
			if !ok {
				vm.runtimeError("Superclass must be a class.")
				return InterpretRuntimeError
			}
			subclass := vm.peek(0).Obj.(*ObjClass)
			for name, method := range superclass.Methods {
				subclass.Methods[name] = method
			}
			vm.pop() // subclass; the superclass stays as the enclosing "super" local
		case OpMethod:
			vm.defineMethod(vm.readString(frame))

		case OpBuildList:
			count := int(vm.readByte(frame))
			elements := make([]Value, count)
			copy(elements, vm.stack[vm.stackTop-count:vm.stackTop])
			vm.stackTop -= count
			vm.push(ObjVal(vm.newList(elements)))
		case OpGetSubscript:
			if !vm.getSubscript() {
				return InterpretRuntimeError
			}
		case OpSetSubscript:
			if !vm.setSubscript() {
				return InterpretRuntimeError
			}
		}
	}
}
