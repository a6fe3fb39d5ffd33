package vm

import "testing"

func compileOK(t *testing.T, source string) bool {
	t.Helper()
	machine := New()
	_, ok := Compile(machine, source)
	return ok
}

func TestCompileValidProgram(t *testing.T) {
	if !compileOK(t, `var x = 1; print x + 1;`) {
		t.Error("expected a trivial program to compile")
	}
}

func TestCompileRejectsReturnAtTopLevel(t *testing.T) {
	if compileOK(t, `return 1;`) {
		t.Error("expected a compile error for return outside a function")
	}
}

func TestCompileRejectsThisOutsideClass(t *testing.T) {
	if compileOK(t, `print this;`) {
		t.Error("expected a compile error for 'this' outside a class")
	}
}

func TestCompileRejectsSuperOutsideClass(t *testing.T) {
	if compileOK(t, `print super.foo();`) {
		t.Error("expected a compile error for 'super' outside a class")
	}
}

func TestCompileRejectsDuplicateLocalInSameScope(t *testing.T) {
	src := `
{
	var a = 1;
	var a = 2;
}
`
	if compileOK(t, src) {
		t.Error("expected a compile error for redeclaring a local in the same scope")
	}
}

func TestCompileRejectsSelfInheritance(t *testing.T) {
	if compileOK(t, `class Oops < Oops {}`) {
		t.Error("expected a compile error for a class inheriting from itself")
	}
}

func TestCompileRejectsInvalidAssignmentTarget(t *testing.T) {
	if compileOK(t, `a + b = c;`) {
		t.Error("expected a compile error for assigning to a non-variable target")
	}
}

func TestCompileAllowsShadowingInNestedScope(t *testing.T) {
	src := `
var a = 1;
{
	var a = 2;
}
`
	if !compileOK(t, src) {
		t.Error("expected shadowing in a nested scope to be allowed")
	}
}
