package vm

import "testing"

// TestBitwiseOpsTruncateTo32Bits checks that bitwise operands are truncated
// to a 32-bit int before the operation, not 64-bit: a left shift that would
// only overflow a 32-bit width must wrap, and values above 2^31 must wrap to
// negative before the operation runs.
func TestBitwiseOpsTruncateTo32Bits(t *testing.T) {
	// 1 << 40 overflows a 32-bit shift entirely: truncating the shift amount
	// to int32 first (40) then shifting a 32-bit 1 by it is a shift-by-width
	// case, which Go defines as zero.
	out, result := interpret(t, `print 1 << 40;`)
	if result != InterpretOK {
		t.Fatalf("unexpected result %v", result)
	}
	if out != "0\n" {
		t.Errorf("1 << 40 = %q, want %q (32-bit truncation)", out, "0\n")
	}

	// ~4294967296 (2^32) truncates to int32(0) before negating, so the
	// result should be -1, not the 64-bit value ^4294967296.
	out, result = interpret(t, `print ~4294967296;`)
	if result != InterpretOK {
		t.Fatalf("unexpected result %v", result)
	}
	if out != "-1\n" {
		t.Errorf("~4294967296 = %q, want %q (32-bit truncation)", out, "-1\n")
	}

	// 4294967296 | 1 (2^32 | 1): the 32-bit truncation of 2^32 is 0, so the
	// result should be 1, not 4294967297.
	out, result = interpret(t, `print 4294967296 | 1;`)
	if result != InterpretOK {
		t.Fatalf("unexpected result %v", result)
	}
	if out != "1\n" {
		t.Errorf("4294967296 | 1 = %q, want %q (32-bit truncation)", out, "1\n")
	}
}
