package vm

import (
	"hash/fnv"
	"unsafe"
)

// ObjType tags the concrete type of a managed object.
type ObjType uint8

const (
	ObjTypeString ObjType = iota
	ObjTypeFunction
	ObjTypeClosure
	ObjTypeUpvalue
	ObjTypeClass
	ObjTypeInstance
	ObjTypeBoundMethod
	ObjTypeNative
	ObjTypeList
)

func (t ObjType) String() string {
	switch t {
	case ObjTypeString:
		return "string"
	case ObjTypeFunction:
		return "function"
	case ObjTypeClosure:
		return "closure"
	case ObjTypeUpvalue:
		return "upvalue"
	case ObjTypeClass:
		return "class"
	case ObjTypeInstance:
		return "instance"
	case ObjTypeBoundMethod:
		return "bound method"
	case ObjTypeNative:
		return "native function"
	case ObjTypeList:
		return "list"
	default:
		return "object"
	}
}

// Obj is implemented by every heap-allocated, GC-tracked value. The mark bit
// and the intrusive singly-linked "all objects" list (spec.md §4.5) live in
// the embedded objHeader every concrete type carries.
type Obj interface {
	Type() ObjType
	Marked() bool
	Mark()
	Unmark()
	Next() Obj
	SetNext(Obj)
	String() string
}

// objHeader carries the GC-only state common to every object: its mark bit
// and its link in the VM's all-objects list. It deliberately does NOT carry
// a type tag — each concrete type reports its own ObjType directly — so that
// objHeader's zero value (unmarked, no next) is always the correct state for
// an object that has just been decoded from a bundle cache file, with no
// separate fixup pass required.
type objHeader struct {
	marked bool
	next   Obj
}

func (h *objHeader) Marked() bool  { return h.marked }
func (h *objHeader) Mark()         { h.marked = true }
func (h *objHeader) Unmark()       { h.marked = false }
func (h *objHeader) Next() Obj     { return h.next }
func (h *objHeader) SetNext(o Obj) { h.next = o }

// ObjString is an interned, immutable string. Two ObjStrings with the same
// Chars are always the same pointer once allocated through (*VM).internString.
type ObjString struct {
	objHeader
	Chars string
	Hash  uint32
}

func (s *ObjString) Type() ObjType  { return ObjTypeString }
func (s *ObjString) String() string { return s.Chars }

func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// ObjFunction is a compiled function body: its arity, its upvalue count, and
// the bytecode chunk the compiler emitted for it. Name is nil for the
// implicit top-level script function.
type ObjFunction struct {
	objHeader
	Arity        int
	UpvalueCount int
	Chunk        *Chunk
	Name         *ObjString
}

func (f *ObjFunction) Type() ObjType { return ObjTypeFunction }
func (f *ObjFunction) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return "<fn " + f.Name.Chars + ">"
}

// ObjUpvalue is a reference cell for a closed-over local. While Closed is
// false it points into the owning frame's stack slot (Location); once the
// frame returns, closeUpvalues copies the value into Closed and it becomes
// self-contained. NextOpen threads the VM-wide open-upvalue list, sorted by
// descending stack slot, independent of objHeader's all-objects list.
type ObjUpvalue struct {
	objHeader
	Slot     int // stack index Location refers to while open
	Location *Value
	Closed   Value
	IsClosed bool
	NextOpen *ObjUpvalue
}

func (u *ObjUpvalue) Type() ObjType  { return ObjTypeUpvalue }
func (u *ObjUpvalue) String() string { return "<upvalue>" }

func (u *ObjUpvalue) get() Value {
	if u.IsClosed {
		return u.Closed
	}
	return *u.Location
}

func (u *ObjUpvalue) set(v Value) {
	if u.IsClosed {
		u.Closed = v
		return
	}
	*u.Location = v
}

// ObjClosure pairs a compiled function with the upvalues it captured at the
// point its CLOSURE instruction ran.
type ObjClosure struct {
	objHeader
	Function *ObjFunction
	Upvalues []*ObjUpvalue
}

func (c *ObjClosure) Type() ObjType  { return ObjTypeClosure }
func (c *ObjClosure) String() string { return c.Function.String() }

// ObjClass is a runtime class: its name and its method table. Inheritance
// (spec.md §4.2's INHERIT handling) copies the superclass's method table
// into the subclass's at class-declaration time, so lookup never walks a
// superclass chain at call time.
type ObjClass struct {
	objHeader
	Name    *ObjString
	Methods map[string]Value
}

func (c *ObjClass) Type() ObjType  { return ObjTypeClass }
func (c *ObjClass) String() string { return c.Name.Chars }

// ObjInstance is an instance of an ObjClass: an open field table plus a back
// pointer to its class for method lookup.
type ObjInstance struct {
	objHeader
	Class  *ObjClass
	Fields map[string]Value
}

func (i *ObjInstance) Type() ObjType  { return ObjTypeInstance }
func (i *ObjInstance) String() string { return i.Class.Name.Chars + " instance" }

// ObjBoundMethod pairs a receiver with one of its class's closures, produced
// by GET_PROPERTY when the property names a method rather than a field.
type ObjBoundMethod struct {
	objHeader
	Receiver Value
	Method   *ObjClosure
}

func (b *ObjBoundMethod) Type() ObjType  { return ObjTypeBoundMethod }
func (b *ObjBoundMethod) String() string { return b.Method.String() }

// NativeFn is the signature every built-in function implements.
type NativeFn func(vm *VM, args []Value) (Value, error)

// ObjNative wraps a Go function as a callable VM value.
type ObjNative struct {
	objHeader
	Name  string
	Arity int
	Fn    NativeFn
}

func (n *ObjNative) Type() ObjType  { return ObjTypeNative }
func (n *ObjNative) String() string { return "<native fn " + n.Name + ">" }

// ObjList is the one built-in collection type: a growable, 0-indexed
// sequence of Values, built by BUILD_LIST and indexed by GET_SUBSCRIPT /
// SET_SUBSCRIPT.
type ObjList struct {
	objHeader
	Elements []Value
}

func (l *ObjList) Type() ObjType { return ObjTypeList }
func (l *ObjList) String() string {
	s := "["
	for i, e := range l.Elements {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + "]"
}

// --- allocation -------------------------------------------------------

// track links o into the VM's all-objects list and charges its approximate
// size against bytesAllocated, the watermark the GC trigger check in
// (*VM).run compares against nextGC.
func (vm *VM) track(o Obj, size uintptr) Obj {
	o.SetNext(vm.objects)
	vm.objects = o
	vm.bytesAllocated += uint64(size)
	return o
}

// internString returns the canonical *ObjString for s, allocating and
// interning a new one only if the content hasn't been seen before. Interning
// is purely an allocation optimization; Value.Equal still compares string
// content structurally rather than relying on this table for correctness.
func (vm *VM) internString(s string) *ObjString {
	if existing, ok := vm.strings[s]; ok {
		return existing
	}
	obj := &ObjString{Chars: s, Hash: hashString(s)}
	vm.strings[s] = obj
	vm.track(obj, unsafe.Sizeof(*obj)+uintptr(len(s)))
	return obj
}

func (vm *VM) newFunction() *ObjFunction {
	fn := &ObjFunction{Chunk: NewChunk()}
	vm.track(fn, unsafe.Sizeof(*fn))
	return fn
}

func (vm *VM) newClosure(fn *ObjFunction) *ObjClosure {
	c := &ObjClosure{
		Function:  fn,
		Upvalues:  make([]*ObjUpvalue, fn.UpvalueCount),
	}
	vm.track(c, unsafe.Sizeof(*c)+uintptr(fn.UpvalueCount)*unsafe.Sizeof((*ObjUpvalue)(nil)))
	return c
}

func (vm *VM) newUpvalue(slot int) *ObjUpvalue {
	u := &ObjUpvalue{Slot: slot, Location: &vm.stack[slot]}
	vm.track(u, unsafe.Sizeof(*u))
	return u
}

func (vm *VM) newClass(name *ObjString) *ObjClass {
	c := &ObjClass{Name: name, Methods: make(map[string]Value)}
	vm.track(c, unsafe.Sizeof(*c))
	return c
}

func (vm *VM) newInstance(class *ObjClass) *ObjInstance {
	i := &ObjInstance{Class: class, Fields: make(map[string]Value)}
	vm.track(i, unsafe.Sizeof(*i))
	return i
}

func (vm *VM) newBoundMethod(receiver Value, method *ObjClosure) *ObjBoundMethod {
	b := &ObjBoundMethod{Receiver: receiver, Method: method}
	vm.track(b, unsafe.Sizeof(*b))
	return b
}

func (vm *VM) newNative(name string, arity int, fn NativeFn) *ObjNative {
	n := &ObjNative{Name: name, Arity: arity, Fn: fn}
	vm.track(n, unsafe.Sizeof(*n))
	return n
}

// objectSize approximates the heap cost of o for GC accounting purposes,
// matching sizeof(Obj___) in the reference implementation plus any
// variable-length payload.
func objectSize(o Obj) uintptr {
	switch v := o.(type) {
	case *ObjString:
		return unsafe.Sizeof(*v) + uintptr(len(v.Chars))
	case *ObjFunction:
		return unsafe.Sizeof(*v)
	case *ObjClosure:
		return unsafe.Sizeof(*v) + uintptr(cap(v.Upvalues))*unsafe.Sizeof((*ObjUpvalue)(nil))
	case *ObjUpvalue:
		return unsafe.Sizeof(*v)
	case *ObjClass:
		return unsafe.Sizeof(*v)
	case *ObjInstance:
		return unsafe.Sizeof(*v)
	case *ObjBoundMethod:
		return unsafe.Sizeof(*v)
	case *ObjNative:
		return unsafe.Sizeof(*v)
	case *ObjList:
		return unsafe.Sizeof(*v) + uintptr(cap(v.Elements))*unsafe.Sizeof(Value{})
	default:
		return 0
	}
}

func (vm *VM) newList(elements []Value) *ObjList {
	l := &ObjList{Elements: elements}
	vm.track(l, unsafe.Sizeof(*l)+uintptr(cap(elements))*unsafe.Sizeof(Value{}))
	return l
}
