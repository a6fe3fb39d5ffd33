package vm

import "testing"

func TestChunkLineRunLength(t *testing.T) {
	c := NewChunk()
	c.WriteOp(OpNil, 1)
	c.WriteOp(OpPop, 1)
	c.WriteOp(OpReturn, 2)

	if got := c.GetLine(0); got != 1 {
		t.Errorf("GetLine(0) = %d, want 1", got)
	}
	if got := c.GetLine(1); got != 1 {
		t.Errorf("GetLine(1) = %d, want 1", got)
	}
	if got := c.GetLine(2); got != 2 {
		t.Errorf("GetLine(2) = %d, want 2", got)
	}
}

func TestChunkTooManyConstants(t *testing.T) {
	c := NewChunk()
	for i := 0; i < 256; i++ {
		if _, err := c.AddConstant(NumberVal(float64(i))); err != nil {
			t.Fatalf("unexpected error at constant %d: %v", i, err)
		}
	}
	if _, err := c.AddConstant(NumberVal(256)); err != ErrTooManyConstants {
		t.Errorf("expected ErrTooManyConstants for the 257th constant, got %v", err)
	}
}
