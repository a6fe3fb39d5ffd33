package vm

import (
	"strconv"

	"github.com/rowanhale/spark/internal/token"
)

// Precedence orders binary operators from loosest to tightest binding, per
// spec.md §4.2's precedence ladder.
type Precedence int

const (
	PrecNone       Precedence = iota
	PrecAssignment            // =
	PrecOr                    // or
	PrecAnd                   // and
	PrecEquality              // == !=
	PrecComparison            // < > <= >=
	PrecBitOr                 // |
	PrecBitXor                // ^
	PrecBitAnd                // &
	PrecShift                 // << >>
	PrecTerm                  // + -
	PrecFactor                // * / %
	PrecPower                 // **
	PrecUnary                 // ! - ~
	PrecCall                  // . () []
	PrecPrimary
)

type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

var rules map[token.Kind]parseRule

func init() {
	rules = map[token.Kind]parseRule{
		token.LeftParen:      {(*Compiler).grouping, (*Compiler).call, PrecCall},
		token.LeftBracket:    {(*Compiler).listLiteral, (*Compiler).subscript, PrecCall},
		token.Dot:            {nil, (*Compiler).dot, PrecCall},
		token.Minus:          {(*Compiler).unary, (*Compiler).binary, PrecTerm},
		token.Plus:           {nil, (*Compiler).binary, PrecTerm},
		token.Slash:          {nil, (*Compiler).binary, PrecFactor},
		token.Star:           {nil, (*Compiler).binary, PrecFactor},
		token.Percent:        {nil, (*Compiler).binary, PrecFactor},
		token.StarStar:       {nil, (*Compiler).binary, PrecPower},
		token.Ampersand:      {nil, (*Compiler).binary, PrecBitAnd},
		token.Pipe:           {nil, (*Compiler).binary, PrecBitOr},
		token.Caret:          {nil, (*Compiler).binary, PrecBitXor},
		token.LessLess:       {nil, (*Compiler).binary, PrecShift},
		token.GreaterGreater: {nil, (*Compiler).binary, PrecShift},
		token.Tilde:          {(*Compiler).unary, nil, PrecUnary},
		token.Bang:           {(*Compiler).unary, nil, PrecUnary},
		token.BangEqual:      {nil, (*Compiler).binary, PrecEquality},
		token.EqualEqual:     {nil, (*Compiler).binary, PrecEquality},
		token.Greater:        {nil, (*Compiler).binary, PrecComparison},
		token.GreaterEqual:   {nil, (*Compiler).binary, PrecComparison},
		token.Less:           {nil, (*Compiler).binary, PrecComparison},
		token.LessEqual:      {nil, (*Compiler).binary, PrecComparison},
		token.Identifier:     {(*Compiler).variable, nil, PrecNone},
		token.String:         {(*Compiler).stringLit, nil, PrecNone},
		token.Number:         {(*Compiler).number, nil, PrecNone},
		token.And:            {nil, (*Compiler).and_, PrecAnd},
		token.Or:             {nil, (*Compiler).or_, PrecOr},
		token.False:          {(*Compiler).literal, nil, PrecNone},
		token.True:           {(*Compiler).literal, nil, PrecNone},
		token.Nil:            {(*Compiler).literal, nil, PrecNone},
		token.This:           {(*Compiler).this_, nil, PrecNone},
		token.Super:          {(*Compiler).super_, nil, PrecNone},
	}
}

func getRule(k token.Kind) parseRule {
	if r, ok := rules[k]; ok {
		return r
	}
	return parseRule{}
}

func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

func (c *Compiler) parsePrecedence(prec Precedence) {
	c.parser.advance()
	rule := getRule(c.parser.previous.Kind)
	if rule.prefix == nil {
		c.parser.error("Expect expression.")
		return
	}
	canAssign := prec <= PrecAssignment
	rule.prefix(c, canAssign)

	for prec <= getRule(c.parser.current.Kind).precedence {
		c.parser.advance()
		infix := getRule(c.parser.previous.Kind).infix
		infix(c, canAssign)
	}

	if canAssign && c.parser.match(token.Equal) {
		c.parser.error("Invalid assignment target.")
	}
}

func (c *Compiler) grouping(_ bool) {
	c.expression()
	c.parser.consume(token.RightParen, "Expect ')' after expression.")
}

func (c *Compiler) number(_ bool) {
	n, err := strconv.ParseFloat(c.parser.previous.Lexeme, 64)
	if err != nil {
		c.parser.error("Invalid number literal.")
		return
	}
	c.emitConstant(NumberVal(n))
}

func (c *Compiler) stringLit(_ bool) {
	lex := c.parser.previous.Lexeme
	raw := lex[1 : len(lex)-1] // strip surrounding quotes
	c.emitConstant(ObjVal(c.parser.vm.internString(raw)))
}

func (c *Compiler) literal(_ bool) {
	switch c.parser.previous.Kind {
	case token.False:
		c.emitOp(OpFalse)
	case token.True:
		c.emitOp(OpTrue)
	case token.Nil:
		c.emitOp(OpNil)
	}
}

func (c *Compiler) unary(_ bool) {
	op := c.parser.previous.Kind
	c.parsePrecedence(PrecUnary)
	switch op {
	case token.Minus:
		c.emitOp(OpNegate)
	case token.Bang:
		c.emitOp(OpNot)
	case token.Tilde:
		c.emitOp(OpBitNot)
	}
}

func (c *Compiler) binary(_ bool) {
	op := c.parser.previous.Kind
	rule := getRule(op)
	c.parsePrecedence(rule.precedence + 1)
	switch op {
	case token.Plus:
		c.emitOp(OpAdd)
	case token.Minus:
		c.emitOp(OpSub)
	case token.Star:
		c.emitOp(OpMul)
	case token.Slash:
		c.emitOp(OpDiv)
	case token.Percent:
		c.emitOp(OpMod)
	case token.StarStar:
		c.emitOp(OpPow)
	case token.Ampersand:
		c.emitOp(OpBitAnd)
	case token.Pipe:
		c.emitOp(OpBitOr)
	case token.Caret:
		c.emitOp(OpBitXor)
	case token.LessLess:
		c.emitOp(OpShl)
	case token.GreaterGreater:
		c.emitOp(OpShr)
	case token.BangEqual:
		c.emitOp(OpEqual)
		c.emitOp(OpNot)
	case token.EqualEqual:
		c.emitOp(OpEqual)
	case token.Greater:
		c.emitOp(OpGreater)
	case token.GreaterEqual:
		c.emitOp(OpLess)
		c.emitOp(OpNot)
	case token.Less:
		c.emitOp(OpLess)
	case token.LessEqual:
		c.emitOp(OpGreater)
		c.emitOp(OpNot)
	}
}

// and_ implements short-circuiting &&: if the left operand is falsey, skip
// the right operand entirely and leave the falsey left value as the result.
func (c *Compiler) and_(_ bool) {
	endJump := c.emitJump(OpJumpIfFalse)
	c.emitOp(OpPop)
	c.parsePrecedence(PrecAnd)
	c.patchJump(endJump)
}

// or_ implements short-circuiting ||: if the left operand is truthy, skip
// the right operand.
func (c *Compiler) or_(_ bool) {
	elseJump := c.emitJump(OpJumpIfFalse)
	endJump := c.emitJump(OpJump)
	c.patchJump(elseJump)
	c.emitOp(OpPop)
	c.parsePrecedence(PrecOr)
	c.patchJump(endJump)
}

func (c *Compiler) call(_ bool) {
	argCount := c.argumentList()
	c.emitOpByte(OpCall, argCount)
}

func (c *Compiler) argumentList() byte {
	var count int
	if !c.parser.check(token.RightParen) {
		for {
			c.expression()
			if count == 255 {
				c.parser.error("Can't have more than 255 arguments.")
			}
			count++
			if !c.parser.match(token.Comma) {
				break
			}
		}
	}
	c.parser.consume(token.RightParen, "Expect ')' after arguments.")
	return byte(count)
}

func (c *Compiler) dot(canAssign bool) {
	c.parser.consume(token.Identifier, "Expect property name after '.'.")
	name := c.identifierConstant(c.parser.previous.Lexeme)

	if canAssign && c.parser.match(token.Equal) {
		c.expression()
		c.emitOpByte(OpSetProperty, name)
		return
	}
	if c.parser.match(token.LeftParen) {
		argCount := c.argumentList()
		c.emitOpByte(OpInvoke, name)
		c.emitByte(argCount)
		return
	}
	c.emitOpByte(OpGetProperty, name)
}

func (c *Compiler) listLiteral(_ bool) {
	var count int
	if !c.parser.check(token.RightBracket) {
		for {
			c.expression()
			count++
			if !c.parser.match(token.Comma) {
				break
			}
		}
	}
	c.parser.consume(token.RightBracket, "Expect ']' after list elements.")
	if count > 255 {
		c.parser.error("Can't have more than 255 elements in a list literal.")
	}
	c.emitOpByte(OpBuildList, byte(count))
}

func (c *Compiler) subscript(canAssign bool) {
	c.expression()
	c.parser.consume(token.RightBracket, "Expect ']' after index.")
	if canAssign && c.parser.match(token.Equal) {
		c.expression()
		c.emitOp(OpSetSubscript)
		return
	}
	c.emitOp(OpGetSubscript)
}

func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.parser.previous.Lexeme, canAssign)
}

func (c *Compiler) namedVariable(name string, canAssign bool) {
	var getOp, setOp Opcode
	var arg byte

	if slot, ok := c.resolveLocal(name); ok {
		getOp, setOp, arg = OpGetLocal, OpSetLocal, byte(slot)
	} else if slot, ok := c.resolveUpvalue(name); ok {
		getOp, setOp, arg = OpGetUpvalue, OpSetUpvalue, byte(slot)
	} else {
		getOp, setOp, arg = OpGetGlobal, OpSetGlobal, c.identifierConstant(name)
	}

	if canAssign && c.parser.match(token.Equal) {
		c.expression()
		c.emitOpByte(setOp, arg)
		return
	}
	c.emitOpByte(getOp, arg)
}

func (c *Compiler) this_(_ bool) {
	if c.parser.class == nil {
		c.parser.error("Can't use 'this' outside of a class.")
		return
	}
	c.namedVariable("this", false)
}

func (c *Compiler) super_(_ bool) {
	if c.parser.class == nil {
		c.parser.error("Can't use 'super' outside of a class.")
	} else if !c.parser.class.hasSuperclass {
		c.parser.error("Can't use 'super' in a class with no superclass.")
	}

	c.parser.consume(token.Dot, "Expect '.' after 'super'.")
	c.parser.consume(token.Identifier, "Expect superclass method name.")
	name := c.identifierConstant(c.parser.previous.Lexeme)

	c.namedVariable("this", false)
	if c.parser.match(token.LeftParen) {
		argCount := c.argumentList()
		c.namedVariable("super", false)
		c.emitOpByte(OpSuperInvoke, name)
		c.emitByte(argCount)
		return
	}
	c.namedVariable("super", false)
	c.emitOpByte(OpGetSuper, name)
}
