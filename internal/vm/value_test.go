package vm

import "testing"

func TestValueFalsey(t *testing.T) {
	cases := []struct {
		v       Value
		falsey  bool
	}{
		{NilVal(), true},
		{BoolVal(false), true},
		{BoolVal(true), false},
		{NumberVal(0), false},
		{NumberVal(1), false},
	}
	for _, c := range cases {
		if got := c.v.IsFalsey(); got != c.falsey {
			t.Errorf("%v.IsFalsey() = %v, want %v", c.v, got, c.falsey)
		}
	}
}

func TestValueEqualNumbersAndBools(t *testing.T) {
	if !NumberVal(3).Equal(NumberVal(3)) {
		t.Error("expected 3 == 3")
	}
	if NumberVal(3).Equal(NumberVal(4)) {
		t.Error("expected 3 != 4")
	}
	if !BoolVal(true).Equal(BoolVal(true)) {
		t.Error("expected true == true")
	}
	if NumberVal(0).Equal(BoolVal(false)) {
		t.Error("0 and false must not be equal across types")
	}
}

func TestValueEqualStringsByContent(t *testing.T) {
	vm := New()
	a := ObjVal(vm.internString("hi"))
	b := ObjVal(&ObjString{Chars: "hi"}) // deliberately not interned
	if !a.Equal(b) {
		t.Error("expected structurally-equal strings to compare equal even when not the same pointer")
	}
}

func TestValueStringFormatting(t *testing.T) {
	if got := NumberVal(3).String(); got != "3" {
		t.Errorf("NumberVal(3).String() = %q, want %q", got, "3")
	}
	if got := NumberVal(3.5).String(); got != "3.5" {
		t.Errorf("NumberVal(3.5).String() = %q, want %q", got, "3.5")
	}
	if got := NilVal().String(); got != "nil" {
		t.Errorf("NilVal().String() = %q, want %q", got, "nil")
	}
}
