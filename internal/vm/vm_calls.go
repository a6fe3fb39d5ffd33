package vm

import (
	"errors"
	"time"
)

// callValue dispatches a call to whatever value sits at stack[-argCount-1]:
// a closure, a bound method, a class (construction), or a native function.
// Anything else is a runtime error, per spec.md §4.4.
func (vm *VM) callValue(callee Value, argCount int) bool {
	if callee.IsObj() {
		switch obj := callee.Obj.(type) {
		case *ObjClosure:
			return vm.callClosure(obj, argCount)
		case *ObjNative:
			return vm.callNative(obj, argCount)
		case *ObjClass:
			instance := vm.newInstance(obj)
			vm.stack[vm.stackTop-argCount-1] = ObjVal(instance)
			if initializer, ok := obj.Methods[vm.initString.Chars]; ok {
				return vm.callClosure(initializer.Obj.(*ObjClosure), argCount)
			}
			if argCount != 0 {
				vm.runtimeError("Expected 0 arguments but got %d.", argCount)
				return false
			}
			return true
		case *ObjBoundMethod:
			vm.stack[vm.stackTop-argCount-1] = obj.Receiver
			return vm.callClosure(obj.Method, argCount)
		}
	}
	vm.runtimeError("Can only call functions and classes.")
	return false
}

// callClosure pushes a new call frame for closure, verifying arity and the
// FramesMax frame-count limit. Stack depth is not checked separately.
func (vm *VM) callClosure(closure *ObjClosure, argCount int) bool {
	if argCount != closure.Function.Arity {
		vm.runtimeError("Expected %d arguments but got %d.", closure.Function.Arity, argCount)
		return false
	}
	if len(vm.frames) >= FramesMax {
		vm.runtimeError("Stack overflow.")
		return false
	}
	vm.frames = append(vm.frames, callFrame{
		closure: closure,
		ip:      0,
		slots:   vm.stackTop - argCount - 1,
	})
	return true
}

func (vm *VM) callNative(native *ObjNative, argCount int) bool {
	if native.Arity >= 0 && argCount != native.Arity {
		vm.runtimeError("Expected %d arguments but got %d.", native.Arity, argCount)
		return false
	}
	args := vm.stack[vm.stackTop-argCount : vm.stackTop]
	result, err := native.Fn(vm, args)
	if err != nil {
		vm.runtimeError("%s", err.Error())
		return false
	}
	vm.stackTop -= argCount + 1
	vm.push(result)
	return true
}

// invoke fuses GET_PROPERTY + CALL into a single dispatch for the common
// method-call case, avoiding an intermediate ObjBoundMethod allocation.
func (vm *VM) invoke(name *ObjString, argCount int) bool {
	receiver := vm.peek(argCount)
	instance, ok := receiver.Obj.(*ObjInstance)
	if !ok {
		vm.runtimeError("Only instances have methods.")
		return false
	}

	if field, ok := instance.Fields[name.Chars]; ok {
		vm.stack[vm.stackTop-argCount-1] = field
		return vm.callValue(field, argCount)
	}

	return vm.invokeFromClass(instance.Class, name, argCount)
}

func (vm *VM) invokeFromClass(class *ObjClass, name *ObjString, argCount int) bool {
	method, ok := class.Methods[name.Chars]
	if !ok {
		vm.runtimeError("Undefined property '%s'.", name.Chars)
		return false
	}
	return vm.callClosure(method.Obj.(*ObjClosure), argCount)
}

// bindMethod looks up name on class, wraps it with receiver as an
// ObjBoundMethod, and pushes it, or reports the property as undefined.
func (vm *VM) bindMethod(class *ObjClass, name *ObjString) bool {
	method, ok := class.Methods[name.Chars]
	if !ok {
		vm.runtimeError("Undefined property '%s'.", name.Chars)
		return false
	}
	bound := vm.newBoundMethod(vm.peek(0), method.Obj.(*ObjClosure))
	vm.pop()
	vm.push(ObjVal(bound))
	return true
}

// captureUpvalue returns the existing open upvalue for the stack slot at
// vm.stack[index] if one is already open, inserting a new one into the
// descending-slot-sorted open list otherwise.
func (vm *VM) captureUpvalue(index int) *ObjUpvalue {
	var prev *ObjUpvalue
	up := vm.openUpvalues
	for up != nil && up.Slot > index {
		prev = up
		up = up.NextOpen
	}
	if up != nil && up.Slot == index {
		return up
	}

	created := vm.newUpvalue(index)
	created.NextOpen = up
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.NextOpen = created
	}
	return created
}

// closeUpvalues closes every open upvalue pointing at or above stack slot
// last, copying its value out of the stack and detaching it from the open
// list, called when a block or function that owns captured locals exits.
func (vm *VM) closeUpvalues(last int) {
	for vm.openUpvalues != nil && vm.openUpvalues.Slot >= last {
		u := vm.openUpvalues
		u.Closed = *u.Location
		u.IsClosed = true
		u.Location = nil
		vm.openUpvalues = u.NextOpen
	}
}

func (vm *VM) defineMethod(name *ObjString) {
	method := vm.peek(0)
	class := vm.peek(1).Obj.(*ObjClass)
	class.Methods[name.Chars] = method
	vm.pop()
}

// defineNatives installs the built-in functions available to every script,
// per spec.md's native-function surface.
func (vm *VM) defineNatives() {
	vm.defineNative("clock", 0, nativeClock)
	vm.defineNative("len", 1, nativeLen)
	vm.defineNative("push", 2, nativePush)
	vm.defineNative("pop", 1, nativePop)
	vm.defineNative("str", 1, nativeStr)
}

func (vm *VM) defineNative(name string, arity int, fn NativeFn) {
	vm.globals[name] = ObjVal(vm.newNative(name, arity, fn))
}

func nativeClock(vm *VM, args []Value) (Value, error) {
	return NumberVal(float64(time.Now().UnixNano()) / 1e9), nil
}

func nativeStr(vm *VM, args []Value) (Value, error) {
	return ObjVal(vm.internString(args[0].String())), nil
}

// nativeLen reports the length of a list or a string, the two built-in
// types with a well-defined notion of size.
func nativeLen(vm *VM, args []Value) (Value, error) {
	switch obj := args[0].Obj.(type) {
	case *ObjList:
		return NumberVal(float64(len(obj.Elements))), nil
	case *ObjString:
		return NumberVal(float64(len(obj.Chars))), nil
	default:
		return NilVal(), errors.New("len() expects a list or a string.")
	}
}

// nativePush appends a value to a list in place and returns the list, so
// calls can be chained.
func nativePush(vm *VM, args []Value) (Value, error) {
	list, ok := args[0].Obj.(*ObjList)
	if !ok {
		return NilVal(), errors.New("push() expects a list as its first argument.")
	}
	list.Elements = append(list.Elements, args[1])
	return args[0], nil
}

// nativePop removes and returns a list's last element.
func nativePop(vm *VM, args []Value) (Value, error) {
	list, ok := args[0].Obj.(*ObjList)
	if !ok {
		return NilVal(), errors.New("pop() expects a list as its argument.")
	}
	if len(list.Elements) == 0 {
		return NilVal(), errors.New("Can't pop from an empty list.")
	}
	last := list.Elements[len(list.Elements)-1]
	list.Elements = list.Elements[:len(list.Elements)-1]
	return last, nil
}
