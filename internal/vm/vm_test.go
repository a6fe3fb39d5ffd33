package vm

import (
	"bytes"
	"strings"
	"testing"
)

func interpret(t *testing.T, source string) (string, InterpretResult) {
	t.Helper()
	var out, errOut bytes.Buffer
	machine := New()
	machine.Stdout = &out
	machine.Stderr = &errOut
	result := machine.Interpret(source)
	if result == InterpretRuntimeError {
		t.Logf("runtime error output: %s", errOut.String())
	}
	return out.String(), result
}

func TestPrintArithmetic(t *testing.T) {
	out, result := interpret(t, `print 1 + 2 * 3;`)
	if result != InterpretOK {
		t.Fatalf("unexpected result %v", result)
	}
	if out != "7\n" {
		t.Errorf("got %q, want %q", out, "7\n")
	}
}

func TestStringConcatenation(t *testing.T) {
	out, result := interpret(t, `print "foo" + "bar";`)
	if result != InterpretOK {
		t.Fatalf("unexpected result %v", result)
	}
	if out != "foobar\n" {
		t.Errorf("got %q", out)
	}
}

func TestVariablesAndScopes(t *testing.T) {
	src := `
var a = 1;
{
	var a = 2;
	print a;
}
print a;
`
	out, result := interpret(t, src)
	if result != InterpretOK {
		t.Fatalf("unexpected result %v", result)
	}
	if out != "2\n1\n" {
		t.Errorf("got %q", out)
	}
}

func TestIfElseAndLogicalShortCircuit(t *testing.T) {
	src := `
fun sideEffect() {
	print "called";
	return true;
}
if (false and sideEffect()) {
	print "then";
} else {
	print "else";
}
`
	out, result := interpret(t, src)
	if result != InterpretOK {
		t.Fatalf("unexpected result %v", result)
	}
	if strings.Contains(out, "called") {
		t.Errorf("short-circuit and should not have evaluated the right operand: %q", out)
	}
	if !strings.Contains(out, "else") {
		t.Errorf("expected else branch to run, got %q", out)
	}
}

func TestForLoop(t *testing.T) {
	src := `
var sum = 0;
for (var i = 0; i < 5; i = i + 1) {
	sum = sum + i;
}
print sum;
`
	out, _ := interpret(t, src)
	if out != "10\n" {
		t.Errorf("got %q, want %q", out, "10\n")
	}
}

func TestClosuresCaptureUpvalues(t *testing.T) {
	src := `
fun makeCounter() {
	var count = 0;
	fun increment() {
		count = count + 1;
		return count;
	}
	return increment;
}
var counter = makeCounter();
print counter();
print counter();
print counter();
`
	out, result := interpret(t, src)
	if result != InterpretOK {
		t.Fatalf("unexpected result %v", result)
	}
	if out != "1\n2\n3\n" {
		t.Errorf("got %q, want %q", out, "1\n2\n3\n")
	}
}

func TestClassesFieldsAndMethods(t *testing.T) {
	src := `
class Counter {
	init(start) {
		this.value = start;
	}
	increment() {
		this.value = this.value + 1;
		return this.value;
	}
}
var c = Counter(10);
print c.increment();
print c.increment();
`
	out, result := interpret(t, src)
	if result != InterpretOK {
		t.Fatalf("unexpected result %v", result)
	}
	if out != "11\n12\n" {
		t.Errorf("got %q, want %q", out, "11\n12\n")
	}
}

func TestInheritanceAndSuper(t *testing.T) {
	src := `
class Animal {
	speak() {
		return "...";
	}
	describe() {
		return "An animal says " + this.speak();
	}
}
class Dog < Animal {
	speak() {
		return "Woof";
	}
	describe() {
		return super.describe() + "!";
	}
}
print Dog().describe();
`
	out, result := interpret(t, src)
	if result != InterpretOK {
		t.Fatalf("unexpected result %v", result)
	}
	if out != "An animal says Woof!\n" {
		t.Errorf("got %q", out)
	}
}

func TestListLiteralsAndSubscript(t *testing.T) {
	src := `
var xs = [1, 2, 3];
xs[1] = 20;
print xs[0];
print xs[1];
print len(xs);
`
	out, result := interpret(t, src)
	if result != InterpretOK {
		t.Fatalf("unexpected result %v", result)
	}
	if out != "1\n20\n3\n" {
		t.Errorf("got %q", out)
	}
}

func TestStackOverflowAt65Frames(t *testing.T) {
	src := `
fun recurse() {
	return recurse();
}
recurse();
`
	_, result := interpret(t, src)
	if result != InterpretRuntimeError {
		t.Fatalf("expected a runtime error from unbounded recursion, got %v", result)
	}
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, result := interpret(t, `print doesNotExist;`)
	if result != InterpretRuntimeError {
		t.Fatalf("expected runtime error, got %v", result)
	}
}

func TestCompileErrorTooManyConstants(t *testing.T) {
	var src strings.Builder
	for i := 0; i < 300; i++ {
		src.WriteString("print ")
		src.WriteString(itoa(i))
		src.WriteString(";\n")
	}
	_, result := interpret(t, src.String())
	if result != InterpretCompileError {
		t.Fatalf("expected compile error once the constant pool overflows, got %v", result)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
