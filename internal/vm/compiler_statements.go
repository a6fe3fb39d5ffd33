package vm

import "github.com/rowanhale/spark/internal/token"

func (c *Compiler) declaration() {
	switch {
	case c.parser.match(token.Class):
		c.classDeclaration()
	case c.parser.match(token.Fun):
		c.funDeclaration()
	case c.parser.match(token.Var):
		c.varDeclaration()
	default:
		c.statement()
	}
	if c.parser.panicMode {
		c.parser.synchronize()
	}
}

func (c *Compiler) statement() {
	switch {
	case c.parser.match(token.Print):
		c.printStatement()
	case c.parser.match(token.If):
		c.ifStatement()
	case c.parser.match(token.While):
		c.whileStatement()
	case c.parser.match(token.For):
		c.forStatement()
	case c.parser.match(token.Return):
		c.returnStatement()
	case c.parser.match(token.LeftBrace):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) printStatement() {
	c.expression()
	c.parser.consume(token.Semicolon, "Expect ';' after value.")
	c.emitOp(OpPrint)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.parser.consume(token.Semicolon, "Expect ';' after expression.")
	c.emitOp(OpPop)
}

func (c *Compiler) block() {
	for !c.parser.check(token.RightBrace) && !c.parser.check(token.EOF) {
		c.declaration()
	}
	c.parser.consume(token.RightBrace, "Expect '}' after block.")
}

func (c *Compiler) varDeclaration() {
	global := c.parseVariable("Expect variable name.")

	if c.parser.match(token.Equal) {
		c.expression()
	} else {
		c.emitOp(OpNil)
	}
	c.parser.consume(token.Semicolon, "Expect ';' after variable declaration.")
	c.defineVariable(global)
}

func (c *Compiler) ifStatement() {
	c.parser.consume(token.LeftParen, "Expect '(' after 'if'.")
	c.expression()
	c.parser.consume(token.RightParen, "Expect ')' after condition.")

	thenJump := c.emitJump(OpJumpIfFalse)
	c.emitOp(OpPop)
	c.statement()

	elseJump := c.emitJump(OpJump)
	c.patchJump(thenJump)
	c.emitOp(OpPop)

	if c.parser.match(token.Else) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := len(c.chunk().Code)
	c.parser.consume(token.LeftParen, "Expect '(' after 'while'.")
	c.expression()
	c.parser.consume(token.RightParen, "Expect ')' after condition.")

	exitJump := c.emitJump(OpJumpIfFalse)
	c.emitOp(OpPop)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitOp(OpPop)
}

func (c *Compiler) forStatement() {
	c.beginScope()
	c.parser.consume(token.LeftParen, "Expect '(' after 'for'.")

	switch {
	case c.parser.match(token.Semicolon):
		// no initializer
	case c.parser.match(token.Var):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := len(c.chunk().Code)
	exitJump := -1
	if !c.parser.match(token.Semicolon) {
		c.expression()
		c.parser.consume(token.Semicolon, "Expect ';' after loop condition.")
		exitJump = c.emitJump(OpJumpIfFalse)
		c.emitOp(OpPop)
	}

	if !c.parser.match(token.RightParen) {
		bodyJump := c.emitJump(OpJump)
		incrementStart := len(c.chunk().Code)
		c.expression()
		c.emitOp(OpPop)
		c.parser.consume(token.RightParen, "Expect ')' after for clauses.")

		c.emitLoop(loopStart)
		loopStart = incrementStart
		c.patchJump(bodyJump)
	}

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOp(OpPop)
	}
	c.endScope()
}

func (c *Compiler) returnStatement() {
	if c.funcType == FuncTypeScript {
		c.parser.error("Can't return from top-level code.")
	}
	if c.parser.match(token.Semicolon) {
		c.emitReturn()
		return
	}
	if c.funcType == FuncTypeInitializer {
		c.parser.error("Can't return a value from an initializer.")
	}
	c.expression()
	c.parser.consume(token.Semicolon, "Expect ';' after return value.")
	c.emitOp(OpReturn)
}

func (c *Compiler) funDeclaration() {
	global := c.parseVariable("Expect function name.")
	c.markInitialized()
	c.function_(FuncTypeFunction)
	c.defineVariable(global)
}

// function_ compiles one function body (or method) into its own Compiler,
// nested under c, then emits a CLOSURE instruction in c's own chunk that
// wires up the upvalues the nested body resolved against c's locals.
func (c *Compiler) function_(ft FunctionType) {
	inner := newCompiler(c.parser, c, ft)
	inner.function.Name = c.parser.vm.internString(c.parser.previous.Lexeme)

	inner.beginScope()
	inner.parser.consume(token.LeftParen, "Expect '(' after function name.")
	if !inner.parser.check(token.RightParen) {
		for {
			inner.function.Arity++
			if inner.function.Arity > 255 {
				inner.parser.errorAtCurrent("Can't have more than 255 parameters.")
			}
			constant := inner.parseVariable("Expect parameter name.")
			inner.defineVariable(constant)
			if !inner.parser.match(token.Comma) {
				break
			}
		}
	}
	inner.parser.consume(token.RightParen, "Expect ')' after parameters.")
	inner.parser.consume(token.LeftBrace, "Expect '{' before function body.")
	inner.block()

	fn := inner.end()
	idx := c.makeConstant(ObjVal(fn))
	c.emitOpByte(OpClosure, idx)
	for _, up := range inner.upvalues {
		if up.IsLocal {
			c.emitByte(1)
		} else {
			c.emitByte(0)
		}
		c.emitByte(up.Index)
	}
}

func (c *Compiler) classDeclaration() {
	c.parser.consume(token.Identifier, "Expect class name.")
	className := c.parser.previous.Lexeme
	nameConstant := c.identifierConstant(className)
	c.declareVariable()

	c.emitOpByte(OpClass, nameConstant)
	c.defineVariable(nameConstant)

	classComp := &classCompiler{enclosing: c.parser.class}
	c.parser.class = classComp

	if c.parser.match(token.Less) {
		c.parser.consume(token.Identifier, "Expect superclass name.")
		c.variable(false)
		if c.parser.previous.Lexeme == className {
			c.parser.error("A class can't inherit from itself.")
		}

		c.beginScope()
		c.addLocal("super")
		c.defineVariable(0)

		c.namedVariable(className, false)
		c.emitOp(OpInherit)
		classComp.hasSuperclass = true
	}

	c.namedVariable(className, false)
	c.parser.consume(token.LeftBrace, "Expect '{' before class body.")
	for !c.parser.check(token.RightBrace) && !c.parser.check(token.EOF) {
		c.method()
	}
	c.parser.consume(token.RightBrace, "Expect '}' after class body.")
	c.emitOp(OpPop) // the class value pushed for namedVariable above

	if classComp.hasSuperclass {
		c.endScope()
	}
	c.parser.class = classComp.enclosing
}

func (c *Compiler) method() {
	c.parser.consume(token.Identifier, "Expect method name.")
	name := c.parser.previous.Lexeme
	constant := c.identifierConstant(name)

	ft := FuncTypeMethod
	if name == "init" {
		ft = FuncTypeInitializer
	}
	c.function_(ft)
	c.emitOpByte(OpMethod, constant)
}
