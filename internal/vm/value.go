package vm

import "fmt"

// ValueType tags the variant held by a Value.
type ValueType uint8

const (
	ValNil ValueType = iota
	ValNumber
	ValBool
	ValObj
)

// Value is the tagged union described in spec.md §3: a 64-bit float, a bool,
// nil, or a reference to a managed object. It is a small stack-allocated
// struct, never itself heap-allocated or GC-tracked — only the Obj it may
// reference is.
type Value struct {
	Type ValueType
	num  float64
	Obj  Obj
}

func NilVal() Value                 { return Value{Type: ValNil} }
func NumberVal(n float64) Value     { return Value{Type: ValNumber, num: n} }
func BoolVal(b bool) Value {
	if b {
		return Value{Type: ValBool, num: 1}
	}
	return Value{Type: ValBool, num: 0}
}
func ObjVal(o Obj) Value { return Value{Type: ValObj, Obj: o} }

func (v Value) IsNil() bool    { return v.Type == ValNil }
func (v Value) IsNumber() bool { return v.Type == ValNumber }
func (v Value) IsBool() bool   { return v.Type == ValBool }
func (v Value) IsObj() bool    { return v.Type == ValObj }

func (v Value) AsNumber() float64 { return v.num }
func (v Value) AsBool() bool      { return v.num != 0 }

// IsObjType reports whether v holds an object of the given type.
func (v Value) IsObjType(t ObjType) bool {
	return v.Type == ValObj && v.Obj != nil && v.Obj.Type() == t
}

// IsFalsey implements spec.md §3's truthiness rule: nil and false are
// falsey, everything else (including 0 and "") is truthy.
func (v Value) IsFalsey() bool {
	return v.Type == ValNil || (v.Type == ValBool && v.num == 0)
}

// Equal implements spec.md §3's equality rule: numbers and booleans by
// value, nil equals nil, objects by identity except strings, which compare
// by content.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case ValNil:
		return true
	case ValNumber, ValBool:
		return v.num == o.num
	case ValObj:
		if vs, ok := v.Obj.(*ObjString); ok {
			if os, ok := o.Obj.(*ObjString); ok {
				return vs == os || vs.Chars == os.Chars
			}
			return false
		}
		return v.Obj == o.Obj
	default:
		return false
	}
}

// String renders v the way the PRINT opcode and valueToString does in the
// reference implementation.
func (v Value) String() string {
	switch v.Type {
	case ValNil:
		return "nil"
	case ValBool:
		if v.num != 0 {
			return "true"
		}
		return "false"
	case ValNumber:
		return formatNumber(v.num)
	case ValObj:
		if v.Obj == nil {
			return "<object>"
		}
		return v.Obj.String()
	default:
		return "<object>"
	}
}

func formatNumber(n float64) string {
	if n == float64(int64(n)) && n < 1e15 && n > -1e15 {
		return fmt.Sprintf("%d", int64(n))
	}
	return fmt.Sprintf("%g", n)
}
