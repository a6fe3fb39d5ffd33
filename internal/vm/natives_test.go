package vm

import "testing"

func TestNativeLenRejectsWrongType(t *testing.T) {
	_, result := interpret(t, `print len(123);`)
	if result != InterpretRuntimeError {
		t.Fatalf("expected a runtime error from len() on a number, got %v", result)
	}
}

func TestNativePushRejectsNonList(t *testing.T) {
	_, result := interpret(t, `push("not a list", 1);`)
	if result != InterpretRuntimeError {
		t.Fatalf("expected a runtime error from push() on a non-list, got %v", result)
	}
}

func TestNativePopRejectsEmptyList(t *testing.T) {
	_, result := interpret(t, `
var xs = [];
pop(xs);
`)
	if result != InterpretRuntimeError {
		t.Fatalf("expected a runtime error popping an empty list, got %v", result)
	}
}

func TestNativePushAndPopRoundTrip(t *testing.T) {
	out, result := interpret(t, `
var xs = [1, 2];
push(xs, 3);
print len(xs);
print pop(xs);
print len(xs);
`)
	if result != InterpretOK {
		t.Fatalf("unexpected result %v", result)
	}
	if out != "3\n3\n2\n" {
		t.Errorf("got %q, want %q", out, "3\n3\n2\n")
	}
}

func TestCallingNonCallableIsRuntimeError(t *testing.T) {
	_, result := interpret(t, `
var x = 1;
x();
`)
	if result != InterpretRuntimeError {
		t.Fatalf("expected a runtime error calling a number, got %v", result)
	}
}

func TestPropertyAccessOnNonInstanceIsRuntimeError(t *testing.T) {
	_, result := interpret(t, `
var x = 1;
print x.foo;
`)
	if result != InterpretRuntimeError {
		t.Fatalf("expected a runtime error accessing a property on a number, got %v", result)
	}
}

func TestUndefinedPropertyIsRuntimeError(t *testing.T) {
	_, result := interpret(t, `
class Foo {}
var f = Foo();
print f.bar;
`)
	if result != InterpretRuntimeError {
		t.Fatalf("expected a runtime error for an undefined property, got %v", result)
	}
}
