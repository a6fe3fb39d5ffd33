package vm

import (
	"bytes"
	"testing"
)

// TestBundleRoundTrip compiles a function, encodes it as a Bundle, decodes
// it back, and runs the decoded function, checking that number and string
// constants survive the gob round-trip with the right values
// (the thing Value's GobEncode/GobDecode exist to guarantee).
func TestBundleRoundTrip(t *testing.T) {
	src := `
fun greet(name) {
	if (true) {
		print "Hello, " + name + "!";
	}
	return 42;
}
print greet("world");
`
	machine := New()
	fn, ok := Compile(machine, src)
	if !ok {
		t.Fatalf("compile failed")
	}

	bundle := NewBundle(fn, "greet.lox", 1234)

	var buf bytes.Buffer
	if err := bundle.Encode(&buf); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := DecodeBundle(&buf)
	if err != nil {
		t.Fatalf("DecodeBundle failed: %v", err)
	}
	if decoded.SourcePath != "greet.lox" || decoded.SourceModTime != 1234 {
		t.Errorf("metadata did not survive round-trip: %+v", decoded)
	}
	if decoded.ID != bundle.ID {
		t.Errorf("bundle ID did not survive round-trip")
	}

	replay := New()
	var out bytes.Buffer
	replay.Stdout = &out
	result := replay.InterpretFunction(decoded.Function)
	if result != InterpretOK {
		t.Fatalf("unexpected result %v replaying decoded bundle", result)
	}
	want := "Hello, world!\n42\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}
