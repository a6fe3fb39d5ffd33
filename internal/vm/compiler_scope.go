package vm

import "github.com/rowanhale/spark/internal/token"

const maxLocals = 256
const maxUpvalues = 256

func (c *Compiler) beginScope() { c.scopeDepth++ }

func (c *Compiler) endScope() {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].Depth > c.scopeDepth {
		last := c.locals[len(c.locals)-1]
		if last.Captured {
			c.emitOp(OpCloseUpvalue)
		} else {
			c.emitOp(OpPop)
		}
		c.locals = c.locals[:len(c.locals)-1]
	}
}

// declareVariable reserves a local slot for the identifier just consumed as
// c.parser.previous, or does nothing at global scope (globals are looked up
// by name, not by slot). Redeclaring a name already declared in the same
// scope is a compile error.
func (c *Compiler) declareVariable() {
	if c.scopeDepth == 0 {
		return
	}
	name := c.parser.previous.Lexeme
	for i := len(c.locals) - 1; i >= 0; i-- {
		local := c.locals[i]
		if local.Depth != -1 && local.Depth < c.scopeDepth {
			break
		}
		if local.Name == name {
			c.parser.error("Already a variable with this name in this scope.")
		}
	}
	c.addLocal(name)
}

func (c *Compiler) addLocal(name string) {
	if len(c.locals) >= maxLocals {
		c.parser.error("Too many local variables in function.")
		return
	}
	c.locals = append(c.locals, Local{Name: name, Depth: -1})
}

func (c *Compiler) markInitialized() {
	if c.scopeDepth == 0 {
		return
	}
	c.locals[len(c.locals)-1].Depth = c.scopeDepth
}

// parseVariable consumes an identifier, declares it, and returns its name
// constant index for globals (0 for locals, where the slot number rather
// than a name constant identifies the variable).
func (c *Compiler) parseVariable(errorMessage string) byte {
	c.parser.consume(token.Identifier, errorMessage)
	c.declareVariable()
	if c.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(c.parser.previous.Lexeme)
}

func (c *Compiler) defineVariable(global byte) {
	if c.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitOpByte(OpDefineGlobal, global)
}

// resolveLocal looks up name among c's own locals, innermost scope first.
func (c *Compiler) resolveLocal(name string) (slot int, ok bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].Name == name {
			if c.locals[i].Depth == -1 {
				c.parser.error("Can't read local variable in its own initializer.")
			}
			return i, true
		}
	}
	return 0, false
}

// resolveUpvalue finds name in an enclosing function's locals or its own
// upvalues, walking outward through c.enclosing, and threads an upvalueRef
// through every intermediate Compiler so each nested function captures the
// variable one hop at a time, per spec.md §4.2.
func (c *Compiler) resolveUpvalue(name string) (slot int, ok bool) {
	if c.enclosing == nil {
		return 0, false
	}
	if local, found := c.enclosing.resolveLocal(name); found {
		c.enclosing.locals[local].Captured = true
		return c.addUpvalue(uint8(local), true), true
	}
	if up, found := c.enclosing.resolveUpvalue(name); found {
		return c.addUpvalue(uint8(up), false), true
	}
	return 0, false
}

func (c *Compiler) addUpvalue(index uint8, isLocal bool) int {
	for i, u := range c.upvalues {
		if u.Index == index && u.IsLocal == isLocal {
			return i
		}
	}
	if len(c.upvalues) >= maxUpvalues {
		c.parser.error("Too many closure variables in function.")
		return 0
	}
	c.upvalues = append(c.upvalues, upvalueRef{Index: index, IsLocal: isLocal})
	c.function.UpvalueCount = len(c.upvalues)
	return len(c.upvalues) - 1
}
