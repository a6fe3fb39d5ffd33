package vm

import (
	"bytes"
	"strings"
	"testing"
)

func TestDisassembleSimpleChunk(t *testing.T) {
	c := NewChunk()
	idx, _ := c.AddConstant(NumberVal(1))
	c.WriteOp(OpConstant, 1)
	c.Write(byte(idx), 1)
	c.WriteOp(OpReturn, 1)

	var buf bytes.Buffer
	Disassemble(&buf, c, "test")

	out := buf.String()
	if !strings.Contains(out, "OP_CONSTANT") {
		t.Errorf("expected disassembly to mention OP_CONSTANT, got %q", out)
	}
	if !strings.Contains(out, "OP_RETURN") {
		t.Errorf("expected disassembly to mention OP_RETURN, got %q", out)
	}
}
