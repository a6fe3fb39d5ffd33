package vm

import (
	"fmt"
	"os"

	"github.com/rowanhale/spark/internal/scanner"
	"github.com/rowanhale/spark/internal/token"
)

// FunctionType distinguishes the kind of function body a Compiler is
// emitting, since scripts, plain functions, methods, and initializers each
// treat the implicit slot 0 and the RETURN instruction slightly differently.
type FunctionType int

const (
	FuncTypeScript FunctionType = iota
	FuncTypeFunction
	FuncTypeMethod
	FuncTypeInitializer
)

// Local is one compile-time local-variable slot. Depth of -1 means the
// variable has been declared but not yet initialized (its initializer
// expression is still being compiled), per spec.md §4.2's shadowing rule.
type Local struct {
	Name    string
	Depth   int
	Captured bool
}

// upvalueRef records, for one Compiler's function, how slot Index of its
// upvalue array should be populated: from the enclosing function's local
// stack slot (IsLocal) or from the enclosing function's own upvalue array.
type upvalueRef struct {
	Index   uint8
	IsLocal bool
}

// classCompiler tracks nested class declarations so `this` and `super` can
// be resolved, and the parser's single shared instance forms a chain
// mirroring lexical class nesting, independent of the per-function Compiler
// chain.
type classCompiler struct {
	enclosing     *classCompiler
	hasSuperclass bool
}

// parserState is the token-stream and error-reporting state shared by every
// Compiler in one compilation: there is exactly one parserState per call to
// Compile, but a new Compiler per nested function/method body.
type parserState struct {
	vm      *VM
	scanner *scanner.Scanner

	current  token.Token
	previous token.Token

	hadError  bool
	panicMode bool

	class *classCompiler
}

// Compiler emits bytecode for a single function body (including the
// implicit top-level script function). It tracks that function's locals and
// upvalues; enclosing chains to the Compiler for the lexically surrounding
// function, the same way the reference VM threads a `current` pointer
// through nested compiler structs.
type Compiler struct {
	parser    *parserState
	enclosing *Compiler

	function *ObjFunction
	funcType FunctionType

	locals     []Local
	scopeDepth int
	upvalues   []upvalueRef
}

// Compile parses and compiles source into a top-level ObjFunction. ok is
// false if any compile error was reported; ast errors are printed to stderr
// as they're discovered rather than collected and returned, matching the
// reference compiler's immediate-diagnostic behavior.
func Compile(vm *VM, source string) (fn *ObjFunction, ok bool) {
	p := &parserState{vm: vm, scanner: scanner.New(source)}
	c := newCompiler(p, nil, FuncTypeScript)

	p.advance()
	for !p.match(token.EOF) {
		c.declaration()
	}
	fn = c.end()
	return fn, !p.hadError
}

func newCompiler(p *parserState, enclosing *Compiler, ft FunctionType) *Compiler {
	fn := p.vm.newFunction()
	c := &Compiler{parser: p, enclosing: enclosing, function: fn, funcType: ft}

	// Slot 0 is reserved: `this` for methods/initializers, unused for plain
	// functions and the top-level script.
	name := ""
	if ft == FuncTypeMethod || ft == FuncTypeInitializer {
		name = "this"
	}
	c.locals = append(c.locals, Local{Name: name, Depth: 0})
	return c
}

func (c *Compiler) chunk() *Chunk { return c.function.Chunk }

// --- token stream -------------------------------------------------------

func (p *parserState) advance() {
	p.previous = p.current
	for {
		p.current = p.scanner.ScanToken()
		if p.current.Kind != token.Error {
			break
		}
		p.errorAtCurrent(p.current.Lexeme)
	}
}

func (p *parserState) check(k token.Kind) bool {
	return p.current.Kind == k
}

func (p *parserState) match(k token.Kind) bool {
	if !p.check(k) {
		return false
	}
	p.advance()
	return true
}

func (p *parserState) consume(k token.Kind, message string) {
	if p.current.Kind == k {
		p.advance()
		return
	}
	p.errorAtCurrent(message)
}

func (p *parserState) errorAtCurrent(message string) { p.errorAt(p.current, message) }
func (p *parserState) error(message string)          { p.errorAt(p.previous, message) }

func (p *parserState) errorAt(tok token.Token, message string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	fmt.Fprintf(os.Stderr, "[line %d] Error", tok.Line)
	switch tok.Kind {
	case token.EOF:
		fmt.Fprint(os.Stderr, " at end")
	case token.Error:
		// lexeme is already the message.
	default:
		fmt.Fprintf(os.Stderr, " at '%s'", tok.Lexeme)
	}
	fmt.Fprintf(os.Stderr, ": %s\n", message)
	p.hadError = true
}

// synchronize discards tokens until it finds a statement boundary, so one
// compile error doesn't cascade into a wall of spurious follow-on errors.
func (p *parserState) synchronize() {
	p.panicMode = false
	for p.current.Kind != token.EOF {
		if p.previous.Kind == token.Semicolon {
			return
		}
		switch p.current.Kind {
		case token.Class, token.Fun, token.Var, token.For, token.If,
			token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}

// --- emission -------------------------------------------------------

func (c *Compiler) emitByte(b byte) {
	c.chunk().Write(b, c.parser.previous.Line)
}

func (c *Compiler) emitOp(op Opcode) {
	c.chunk().WriteOp(op, c.parser.previous.Line)
}

func (c *Compiler) emitOpByte(op Opcode, b byte) {
	c.emitOp(op)
	c.emitByte(b)
}

func (c *Compiler) emitLoop(loopStart int) {
	c.emitOp(OpLoop)
	offset := len(c.chunk().Code) - loopStart + 2
	if offset > 0xffff {
		c.parser.error("Loop body too large.")
	}
	c.emitByte(byte((offset >> 8) & 0xff))
	c.emitByte(byte(offset & 0xff))
}

func (c *Compiler) emitJump(op Opcode) int {
	c.emitOp(op)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return len(c.chunk().Code) - 2
}

func (c *Compiler) patchJump(offset int) {
	jump := len(c.chunk().Code) - offset - 2
	if jump > 0xffff {
		c.parser.error("Too much code to jump over.")
	}
	c.chunk().Code[offset] = byte((jump >> 8) & 0xff)
	c.chunk().Code[offset+1] = byte(jump & 0xff)
}

func (c *Compiler) makeConstant(v Value) byte {
	idx, err := c.chunk().AddConstant(v)
	if err != nil {
		c.parser.error(err.Error())
		return 0
	}
	return byte(idx)
}

func (c *Compiler) emitConstant(v Value) {
	c.emitOpByte(OpConstant, c.makeConstant(v))
}

func (c *Compiler) emitReturn() {
	if c.funcType == FuncTypeInitializer {
		c.emitOpByte(OpGetLocal, 0)
	} else {
		c.emitOp(OpNil)
	}
	c.emitOp(OpReturn)
}

// end finalizes the function this Compiler was emitting and returns to the
// enclosing Compiler (if any), the way the reference implementation restores
// `current = compiler->enclosing` when a nested function body closes.
func (c *Compiler) end() *ObjFunction {
	c.emitReturn()
	return c.function
}

func (c *Compiler) identifierConstant(name string) byte {
	return c.makeConstant(ObjVal(c.parser.vm.internString(name)))
}
