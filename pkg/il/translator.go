// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package il

import (
	"fmt"

	"github.com/blendsdk/blend65/pkg/ast"
	"github.com/blendsdk/blend65/pkg/diag"
	"github.com/blendsdk/blend65/pkg/sema"
	"github.com/blendsdk/blend65/pkg/sema/analysis"
	"github.com/blendsdk/blend65/pkg/types"
	"github.com/blendsdk/blend65/pkg/util/source"
)

// TranslateOptions parameterise IL construction.
type TranslateOptions struct {
	// ZeroPageBase is the first address of the zero-page user band.
	ZeroPageBase uint16
	// ZeroPageLimit is one past the last usable zero-page address.
	ZeroPageLimit uint16
}

// DefaultTranslateOptions allocates the zero-page user band from 0x0A up to
// (but excluding) 0x90, below the addresses the KERNAL claims.
func DefaultTranslateOptions() TranslateOptions {
	return TranslateOptions{ZeroPageBase: 0x0A, ZeroPageLimit: 0x90}
}

// Translate lowers a type-checked program into an IL module.  Globals are
// placed by storage class, functions become blocks of instructions on SSA
// registers, and the analysis hints travel along as module metadata.
func Translate(res *analysis.Result, opts TranslateOptions) (*Module, []diag.Diagnostic) {
	if opts.ZeroPageLimit == 0 {
		opts = DefaultTranslateOptions()
	}
	//
	t := &translator{
		b:      NewBuilder(res.Program.Name()),
		res:    res,
		sink:   diag.NewSink(),
		opts:   opts,
		zpNext: opts.ZeroPageBase,
	}
	//
	t.emitGlobals()
	//
	for _, fn := range res.Program.Functions() {
		if fn.Body != nil {
			t.translateFunction(fn)
		}
	}
	//
	t.attachHints()
	// Internal-consistency verification; a violation aborts the compile.
	if err := VerifyModule(t.b.Module()); err != nil {
		t.sink.Error(source.UnknownSpan(), diag.SsaDuplicateRegister, "%s", err.Error())
	}
	//
	return t.b.Module(), t.sink.Diagnostics()
}

type loopTargets struct {
	// Break target, always present.
	brk *BasicBlock
	// Continue target; nil for switch and match contexts.
	cont *BasicBlock
}

type translator struct {
	b    *Builder
	res  *analysis.Result
	sink *diag.Sink
	opts TranslateOptions
	// Enclosing loop (and switch/match) targets.
	loops []loopTargets
	// Next free zero-page address.
	zpNext uint16
	// Counter for anonymous data globals (string and array literals).
	anons int
}

// ============================================================================
// Globals
// ============================================================================

func (p *translator) emitGlobals() {
	for _, d := range p.res.Program.Variables() {
		p.emitGlobal(d)
	}
}

func (p *translator) emitGlobal(d *ast.VarDecl) {
	sym := p.res.Check.Binding(d.Name)
	if sym == nil || sym.Type == nil {
		return
	}
	//
	g := &Global{
		Name: d.Name.Name,
		Type: TypeOf(sym.Type),
		Size: storageSize(sym.Type, d.Init),
	}
	//
	switch d.Storage {
	case ast.StorageZeroPage:
		g.Storage = ZeroPage
		p.allocateZeroPage(g, d)
	case ast.StorageRam:
		g.Storage = Ram
		g.Label = "_" + g.Name
	case ast.StorageData:
		g.Storage = Data
		g.Label = "_" + g.Name
		g.Init = initValues(d.Init)
	case ast.StorageMap:
		g.Storage = Map
		//
		if addr, ok := sema.ConstEval(d.MapAddress); ok {
			g.Address = uint16(addr)
		}
	default:
		// Unannotated globals with an initialiser land in the data section;
		// the rest in RAM.
		if d.Init != nil {
			g.Storage = Data
			g.Init = initValues(d.Init)
		} else {
			g.Storage = Ram
		}
		//
		g.Label = "_" + g.Name
	}
	//
	p.b.Module().AddGlobal(g)
}

// Zero-page allocation is bump-allocated by size within the user band; an
// allocation past the budget falls back to RAM with a diagnostic.
func (p *translator) allocateZeroPage(g *Global, d *ast.VarDecl) {
	if p.zpNext+uint16(g.Size) > p.opts.ZeroPageLimit {
		p.sink.Error(d.Span(), diag.ZeroPageExhausted,
			"zero page exhausted: '%s' needs %d bytes, %d available",
			g.Name, g.Size, p.opts.ZeroPageLimit-p.zpNext)
		//
		g.Storage = Ram
		g.Label = "_" + g.Name
		//
		return
	}
	//
	g.Address = p.zpNext
	p.zpNext += uint16(g.Size)
}

// The concrete byte footprint of a declared global.
func storageSize(t types.Type, init ast.Expr) uint {
	resolved := types.Resolve(t)
	//
	if array, ok := resolved.(*types.ArrayType); ok {
		if array.HasSize() {
			return uint(array.Count()) * array.Element().Size()
		}
		// Unsized arrays take their footprint from the initialiser.
		if lit, ok := init.(*ast.ArrayLit); ok {
			return uint(len(lit.Elements)) * array.Element().Size()
		}
		//
		return 0
	}
	//
	return resolved.Size()
}

// Compile-time initialiser values of a data global, element-wise.
func initValues(init ast.Expr) []uint64 {
	switch init := init.(type) {
	case nil:
		return nil
	case *ast.ArrayLit:
		values := make([]uint64, len(init.Elements))
		//
		for i, e := range init.Elements {
			values[i], _ = sema.ConstEval(e)
		}
		//
		return values
	case *ast.StringLit:
		values := make([]uint64, 0, len(init.Value)+1)
		//
		for _, b := range []byte(init.Value) {
			values = append(values, uint64(b))
		}
		// Zero terminator.
		return append(values, 0)
	default:
		v, _ := sema.ConstEval(init)
		return []uint64{v}
	}
}

// ============================================================================
// Functions
// ============================================================================

func (p *translator) translateFunction(d *ast.FuncDecl) {
	sym := p.res.Table.Module.LookupLocal(d.Name.Name)
	if sym == nil || sym.Type == nil {
		return
	}
	//
	fnType := types.Resolve(sym.Type).(*types.FuncType)
	//
	var params []Parameter
	for i, pt := range fnType.Params() {
		params = append(params, Parameter{fnType.ParamNames()[i], TypeOf(pt)})
	}
	//
	fn := p.b.BeginFunction(d.Name.Name, TypeOf(fnType.Return()), params...)
	fn.Interrupt = d.Callback
	// Interrupt bodies are raster-critical by default.
	p.b.SetRasterCritical(d.Callback)
	//
	p.stmts(d.Body.Stmts)
	// Fall-through off the last statement.
	if !p.b.CurrentBlock().Terminated() {
		if fn.Return == VoidType {
			p.b.EmitReturnVoid()
		} else {
			p.b.EmitReturn(p.b.EmitUndef(fn.Return))
		}
	}
	//
	p.b.SetRasterCritical(false)
	p.b.EndFunction()
}

func (p *translator) stmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		// Statements after a terminator land in a detached block; the code
		// generator drops them.
		if p.b.CurrentBlock().Terminated() {
			p.b.SetCurrentBlock(p.b.CreateBlock("dead"))
		}
		//
		p.stmt(s)
	}
}

//nolint:gocyclo
func (p *translator) stmt(s ast.Stmt) {
	p.b.SetLocation(s.Span())
	//
	switch s := s.(type) {
	case *ast.Block:
		p.stmts(s.Stmts)
	case *ast.VarDecl:
		p.localVar(s)
	case *ast.ExprStmt:
		p.expr(s.X)
	case *ast.Return:
		p.returnStmt(s)
	case *ast.If:
		p.ifStmt(s)
	case *ast.While:
		p.whileStmt(s)
	case *ast.DoWhile:
		p.doWhileStmt(s)
	case *ast.For:
		p.forStmt(s)
	case *ast.Switch:
		p.switchStmt(s.Value, s.Cases, true)
	case *ast.Match:
		p.switchStmt(s.Value, s.Cases, false)
	case *ast.Break:
		if target := p.breakTarget(); target != nil {
			p.b.EmitJump(target)
		}
	case *ast.Continue:
		if target := p.continueTarget(); target != nil {
			p.b.EmitJump(target)
		}
	}
}

func (p *translator) localVar(d *ast.VarDecl) {
	sym := p.res.Check.Binding(d.Name)
	if sym == nil || sym.Type == nil || d.Init == nil {
		return
	}
	//
	value := p.expr(d.Init)
	if value == nil {
		return
	}
	//
	p.b.EmitStoreVar(d.Name.Name, p.coerce(value, TypeOf(sym.Type)))
}

func (p *translator) returnStmt(s *ast.Return) {
	if s.Value == nil {
		p.b.EmitReturnVoid()
		return
	}
	//
	value := p.expr(s.Value)
	if value == nil {
		p.b.EmitReturnVoid()
		return
	}
	//
	p.b.EmitReturn(p.coerce(value, p.b.Function().Return))
}

func (p *translator) ifStmt(s *ast.If) {
	cond := p.boolValue(s.Cond)
	//
	then := p.b.CreateBlock("then")
	end := p.b.CreateBlock("endif")
	els := end
	//
	if s.Else != nil {
		els = p.b.CreateBlock("else")
	}
	//
	p.b.EmitBranch(cond, then, els)
	//
	p.b.SetCurrentBlock(then)
	p.stmt(s.Then)
	p.jumpIfOpen(end)
	//
	if s.Else != nil {
		p.b.SetCurrentBlock(els)
		p.stmt(s.Else)
		p.jumpIfOpen(end)
	}
	//
	p.b.SetCurrentBlock(end)
}

func (p *translator) whileStmt(s *ast.While) {
	header := p.b.CreateBlock("while")
	body := p.b.CreateBlock("loop")
	exit := p.b.CreateBlock("endwhile")
	//
	p.b.EmitJump(header)
	p.b.SetCurrentBlock(header)
	//
	cond := p.boolValue(s.Cond)
	p.b.EmitBranch(cond, body, exit)
	//
	p.pushLoop(exit, header)
	p.b.SetCurrentBlock(body)
	p.stmts(s.Body.Stmts)
	p.jumpIfOpen(header)
	p.popLoop()
	//
	p.b.SetCurrentBlock(exit)
}

func (p *translator) doWhileStmt(s *ast.DoWhile) {
	body := p.b.CreateBlock("do")
	cond := p.b.CreateBlock("dowhile")
	exit := p.b.CreateBlock("enddo")
	//
	p.b.EmitJump(body)
	//
	p.pushLoop(exit, cond)
	p.b.SetCurrentBlock(body)
	p.stmts(s.Body.Stmts)
	p.jumpIfOpen(cond)
	p.popLoop()
	//
	p.b.SetCurrentBlock(cond)
	c := p.boolValue(s.Cond)
	p.b.EmitBranch(c, body, exit)
	//
	p.b.SetCurrentBlock(exit)
}

func (p *translator) forStmt(s *ast.For) {
	counter := p.res.Check.Binding(s.Counter)
	if counter == nil || counter.Type == nil {
		return
	}
	//
	name := s.Counter.Name
	ct := TypeOf(counter.Type)
	// Initialise the counter.
	from := p.expr(s.From)
	if from == nil {
		return
	}
	//
	p.b.EmitStoreVar(name, p.coerce(from, ct))
	//
	header := p.b.CreateBlock("for")
	body := p.b.CreateBlock("loop")
	step := p.b.CreateBlock("step")
	exit := p.b.CreateBlock("endfor")
	//
	p.b.EmitJump(header)
	p.b.SetCurrentBlock(header)
	// Counted loops are inclusive of their end bound.
	current := p.b.EmitLoadVar(name, ct)
	bound := p.coerce(p.expr(s.To), ct)
	//
	op := OpLe
	if s.Down {
		op = OpGe
	}
	//
	p.b.EmitBranch(p.b.EmitCompare(op, current, bound), body, exit)
	// Continue targets the step block, so "continue" still advances.
	p.pushLoop(exit, step)
	p.b.SetCurrentBlock(body)
	p.stmts(s.Body.Stmts)
	p.jumpIfOpen(step)
	p.popLoop()
	//
	p.b.SetCurrentBlock(step)
	//
	var stride *VirtualRegister
	//
	if s.Step != nil {
		stride = p.coerce(p.expr(s.Step), ct)
	} else {
		stride = p.b.EmitConst(ct, 1)
	}
	//
	stepOp := OpAdd
	if s.Down {
		stepOp = OpSub
	}
	//
	next := p.b.EmitBinary(stepOp, ct, p.b.EmitLoadVar(name, ct), stride)
	p.b.EmitStoreVar(name, next)
	p.b.EmitJump(header)
	//
	p.b.SetCurrentBlock(exit)
}

// Switch lowers to a chain of equality tests.  With fallsThrough, a case
// body that runs off its end continues into the next case's body; match
// bodies always exit.
func (p *translator) switchStmt(value ast.Expr, cases []*ast.CaseClause, fallsThrough bool) {
	scrutinee := p.expr(value)
	if scrutinee == nil {
		return
	}
	//
	exit := p.b.CreateBlock("endswitch")
	// Pre-create a body block per case, so fall-through edges can be laid.
	bodies := make([]*BasicBlock, len(cases))
	//
	var defaultBody *BasicBlock
	//
	for i, c := range cases {
		bodies[i] = p.b.CreateBlock("case")
		//
		if c.IsDefault() {
			defaultBody = bodies[i]
		}
	}
	// Chain of tests.
	for i, c := range cases {
		if c.IsDefault() {
			continue
		}
		//
		caseValue := p.coerce(p.expr(c.Value), scrutinee.Type)
		eq := p.b.EmitCompare(OpEq, scrutinee, caseValue)
		//
		next := p.b.CreateBlock("test")
		p.b.EmitBranch(eq, bodies[i], next)
		p.b.SetCurrentBlock(next)
	}
	// No test matched: the default body, or straight out.
	if defaultBody != nil {
		p.b.EmitJump(defaultBody)
	} else {
		p.b.EmitJump(exit)
	}
	// Bodies; break exits via the loop stack.
	p.loops = append(p.loops, loopTargets{exit, nil})
	//
	for i, c := range cases {
		p.b.SetCurrentBlock(bodies[i])
		p.stmts(c.Body)
		//
		if fallsThrough && i+1 < len(cases) {
			p.jumpIfOpen(bodies[i+1])
		} else {
			p.jumpIfOpen(exit)
		}
	}
	//
	p.loops = p.loops[:len(p.loops)-1]
	p.b.SetCurrentBlock(exit)
}

func (p *translator) jumpIfOpen(target *BasicBlock) {
	if !p.b.CurrentBlock().Terminated() {
		p.b.EmitJump(target)
	}
}

func (p *translator) pushLoop(brk *BasicBlock, cont *BasicBlock) {
	p.loops = append(p.loops, loopTargets{brk, cont})
}

func (p *translator) popLoop() {
	p.loops = p.loops[:len(p.loops)-1]
}

func (p *translator) breakTarget() *BasicBlock {
	if len(p.loops) == 0 {
		return nil
	}
	//
	return p.loops[len(p.loops)-1].brk
}

func (p *translator) continueTarget() *BasicBlock {
	for i := len(p.loops) - 1; i >= 0; i-- {
		if p.loops[i].cont != nil {
			return p.loops[i].cont
		}
	}
	//
	return nil
}

// ============================================================================
// Expressions
// ============================================================================

// expr lowers an expression, returning its value register (nil for void
// calls and unrecoverable error placeholders).
//
//nolint:gocyclo
func (p *translator) expr(e ast.Expr) *VirtualRegister {
	switch e := e.(type) {
	case *ast.NumberLit:
		return p.b.EmitConst(p.typeOfExpr(e), e.Value)
	case *ast.BoolLit:
		value := uint64(0)
		if e.Value {
			value = 1
		}
		//
		return p.b.EmitConst(BoolType, value)
	case *ast.CharLit:
		return p.b.EmitConst(ByteType, uint64(e.Value))
	case *ast.StringLit:
		return p.b.EmitLoadAddress(p.internData(ByteType, initValues(e)))
	case *ast.ArrayLit:
		return p.arrayLit(e)
	case *ast.Ident:
		return p.identValue(e)
	case *ast.Unary:
		return p.unary(e)
	case *ast.Binary:
		return p.binary(e)
	case *ast.Ternary:
		return p.ternary(e)
	case *ast.Assign:
		return p.assign(e)
	case *ast.AddrOf:
		return p.addrOf(e)
	case *ast.Call:
		return p.call(e)
	case *ast.Index:
		return p.index(e)
	case *ast.Member:
		return p.member(e)
	default:
		return nil
	}
}

// The IL type of a checked expression.
func (p *translator) typeOfExpr(e ast.Expr) *Type {
	t := p.res.Check.TypeOf(e)
	if t == nil {
		return ByteType
	}
	//
	return TypeOf(t)
}

// Intern an anonymous data global (string or array literal) and return its
// name.
func (p *translator) internData(element *Type, values []uint64) string {
	name := fmt.Sprintf("str_%d", p.anons)
	p.anons++
	//
	p.b.Module().AddGlobal(&Global{
		Name:    name,
		Type:    element,
		Storage: Data,
		Size:    uint(len(values)) * element.Size(),
		Label:   "_" + name,
		Init:    values,
	})
	//
	return name
}

func (p *translator) arrayLit(e *ast.ArrayLit) *VirtualRegister {
	array, ok := types.Resolve(p.res.Check.TypeOf(e)).(*types.ArrayType)
	//
	element := ByteType
	if ok {
		element = TypeOf(array.Element())
	}
	//
	return p.b.EmitLoadAddress(p.internData(element, initValues(e)))
}

func (p *translator) identValue(e *ast.Ident) *VirtualRegister {
	sym := p.res.Check.Binding(e)
	if sym == nil || sym.Type == nil {
		return p.b.EmitUndef(ByteType)
	}
	//
	t := TypeOf(sym.Type)
	//
	switch sym.Kind {
	case sema.EnumMemberSymbol:
		return p.b.EmitConst(t, uint64(sym.EnumValue))
	case sema.ConstantSymbol:
		if v, ok := sema.ConstEval(sym.Init); ok {
			return p.b.EmitConst(t, v)
		}
	case sema.FunctionSymbol:
		return p.b.EmitLoadAddress(sym.Name)
	}
	// Memory-mapped globals read their fixed hardware address; mapped
	// arrays evaluate to that address.
	if addr, mapped := p.mapAddress(sym); mapped {
		if _, isArray := types.Resolve(sym.Type).(*types.ArrayType); isArray {
			return p.b.EmitConst(PointerType, uint64(addr))
		}
		//
		return p.b.EmitHardwareRead(addr, t)
	}
	//
	return p.b.EmitLoadVar(sym.Name, t)
}

// The fixed address of a memory-mapped symbol, when it is one.
func (p *translator) mapAddress(sym *sema.Symbol) (uint16, bool) {
	d := sym.VarDecl()
	if d == nil || d.Storage != ast.StorageMap {
		return 0, false
	}
	//
	addr, ok := sema.ConstEval(d.MapAddress)
	//
	return uint16(addr), ok
}

func (p *translator) unary(e *ast.Unary) *VirtualRegister {
	operand := p.expr(e.Operand)
	if operand == nil {
		return nil
	}
	//
	switch e.Op {
	case ast.OpNeg:
		zero := p.b.EmitConst(operand.Type, 0)
		return p.b.EmitBinary(OpSub, operand.Type, zero, operand)
	case ast.OpBitNot:
		return p.b.EmitNot(operand)
	case ast.OpLogNot:
		return p.b.EmitLogNot(p.toBool(operand))
	default:
		return operand
	}
}

var binaryOps = map[ast.Op]Opcode{
	ast.OpAdd: OpAdd, ast.OpSub: OpSub, ast.OpMul: OpMul,
	ast.OpDiv: OpDiv, ast.OpMod: OpMod,
	ast.OpBitAnd: OpAnd, ast.OpBitOr: OpOr, ast.OpBitXor: OpXor,
	ast.OpShl: OpShl, ast.OpShr: OpShr,
	ast.OpEq: OpEq, ast.OpNe: OpNe, ast.OpLt: OpLt,
	ast.OpLe: OpLe, ast.OpGt: OpGt, ast.OpGe: OpGe,
}

func (p *translator) binary(e *ast.Binary) *VirtualRegister {
	if e.Op.IsLogical() {
		// Logical connectives evaluate both sides as booleans and combine
		// bitwise (booleans are 0 or 1).
		lhs := p.boolValue(e.Lhs)
		rhs := p.boolValue(e.Rhs)
		//
		op := OpAnd
		if e.Op == ast.OpLogOr {
			op = OpOr
		}
		//
		return p.b.EmitBinary(op, BoolType, lhs, rhs)
	}
	//
	lhs := p.expr(e.Lhs)
	rhs := p.expr(e.Rhs)
	//
	if lhs == nil || rhs == nil {
		return nil
	}
	// Mixed byte/word operands widen the byte side.
	lhs, rhs = p.unify(lhs, rhs)
	//
	if e.Op.IsComparison() {
		return p.b.EmitCompare(binaryOps[e.Op], lhs, rhs)
	}
	//
	return p.b.EmitBinary(binaryOps[e.Op], lhs.Type, lhs, rhs)
}

func (p *translator) ternary(e *ast.Ternary) *VirtualRegister {
	resultType := p.typeOfExpr(e)
	cond := p.boolValue(e.Cond)
	//
	then := p.b.CreateBlock("then")
	els := p.b.CreateBlock("else")
	merge := p.b.CreateBlock("merge")
	//
	p.b.EmitBranch(cond, then, els)
	//
	p.b.SetCurrentBlock(then)
	thenValue := p.coerce(p.expr(e.Then), resultType)
	thenExit := p.b.CurrentBlock()
	p.b.EmitJump(merge)
	//
	p.b.SetCurrentBlock(els)
	elseValue := p.coerce(p.expr(e.Else), resultType)
	elseExit := p.b.CurrentBlock()
	p.b.EmitJump(merge)
	//
	p.b.SetCurrentBlock(merge)
	//
	return p.b.EmitPhi(resultType,
		PhiSource{thenValue, thenExit.ID}, PhiSource{elseValue, elseExit.ID})
}

func (p *translator) assign(e *ast.Assign) *VirtualRegister {
	value := p.expr(e.Value)
	if value == nil {
		return nil
	}
	//
	switch target := e.Target.(type) {
	case *ast.Ident:
		return p.assignIdent(e, target, value)
	case *ast.Index:
		return p.assignIndex(e, target, value)
	default:
		return nil
	}
}

func (p *translator) assignIdent(e *ast.Assign, target *ast.Ident, value *VirtualRegister) *VirtualRegister {
	sym := p.res.Check.Binding(target)
	if sym == nil || sym.Type == nil {
		return nil
	}
	//
	t := TypeOf(sym.Type)
	addr, mapped := p.mapAddress(sym)
	// Compound assignment reads, combines, writes.
	if e.Op != ast.OpNone {
		var current *VirtualRegister
		//
		if mapped {
			current = p.b.EmitHardwareRead(addr, t)
		} else {
			current = p.b.EmitLoadVar(sym.Name, t)
		}
		//
		value = p.b.EmitBinary(binaryOps[e.Op], t, current, p.coerce(value, t))
	}
	//
	value = p.coerce(value, t)
	//
	if mapped {
		p.b.EmitHardwareWrite(addr, value)
	} else {
		p.b.EmitStoreVar(sym.Name, value)
	}
	//
	return value
}

func (p *translator) assignIndex(e *ast.Assign, target *ast.Index, value *VirtualRegister) *VirtualRegister {
	sym, element, ok := p.arrayAccess(target)
	if !ok {
		return nil
	}
	//
	index := p.coerce(p.expr(target.Index), WordType)
	addr, mapped := p.mapAddress(sym)
	//
	if e.Op != ast.OpNone {
		var current *VirtualRegister
		//
		if mapped {
			current = p.b.EmitMapLoadRange(sym.Name, addr, index, element)
		} else {
			current = p.b.EmitLoadArray(sym.Name, index, element)
		}
		//
		value = p.b.EmitBinary(binaryOps[e.Op], element, current, p.coerce(value, element))
	}
	//
	value = p.coerce(value, element)
	// Memory-mapped arrays store through their fixed base address.
	if mapped {
		p.b.EmitMapStoreRange(sym.Name, addr, index, value)
	} else {
		p.b.EmitStoreArray(sym.Name, index, value)
	}
	//
	return value
}

// The array symbol and element type of an index expression over a named
// array.
func (p *translator) arrayAccess(e *ast.Index) (*sema.Symbol, *Type, bool) {
	id, ok := e.Target.(*ast.Ident)
	if !ok {
		return nil, nil, false
	}
	//
	sym := p.res.Check.Binding(id)
	if sym == nil {
		return nil, nil, false
	}
	//
	array, ok := types.Resolve(sym.Type).(*types.ArrayType)
	if !ok {
		return nil, nil, false
	}
	//
	return sym, TypeOf(array.Element()), true
}

func (p *translator) index(e *ast.Index) *VirtualRegister {
	sym, element, ok := p.arrayAccess(e)
	if !ok {
		return nil
	}
	//
	index := p.coerce(p.expr(e.Index), WordType)
	// Memory-mapped arrays load through their fixed base address.
	if addr, mapped := p.mapAddress(sym); mapped {
		return p.b.EmitMapLoadRange(sym.Name, addr, index, element)
	}
	//
	return p.b.EmitLoadArray(sym.Name, index, element)
}

func (p *translator) member(e *ast.Member) *VirtualRegister {
	enum, ok := types.Resolve(p.res.Check.TypeOf(e)).(*types.EnumType)
	if !ok {
		return nil
	}
	//
	value, _ := enum.Member(e.Name)
	//
	return p.b.EmitConst(p.typeOfExpr(e), uint64(value))
}

func (p *translator) addrOf(e *ast.AddrOf) *VirtualRegister {
	switch operand := e.Operand.(type) {
	case *ast.Ident:
		if sym := p.res.Check.Binding(operand); sym != nil {
			return p.b.EmitLoadAddress(sym.Name)
		}
	case *ast.Index:
		sym, element, ok := p.arrayAccess(operand)
		if !ok {
			break
		}
		//
		base := p.b.EmitLoadAddress(sym.Name)
		offset := p.coerce(p.expr(operand.Index), WordType)
		// Scale by element size.
		if element.Size() > 1 {
			scale := p.b.EmitConst(WordType, uint64(element.Size()))
			offset = p.b.EmitBinary(OpMul, WordType, offset, scale)
		}
		//
		return p.b.EmitBinary(OpAdd, PointerType, base, offset)
	}
	//
	return nil
}

// ============================================================================
// Calls
// ============================================================================

var cpuOps = map[string]Opcode{
	"sei": OpSei, "cli": OpCli, "nop": OpNop, "brk": OpBrk,
	"pha": OpPha, "pla": OpPla, "php": OpPhp, "plp": OpPlp,
}

//nolint:gocyclo
func (p *translator) call(e *ast.Call) *VirtualRegister {
	callee, ok := e.Callee.(*ast.Ident)
	if !ok {
		return nil
	}
	//
	sym := p.res.Check.Binding(callee)
	if sym == nil || sym.Type == nil {
		return nil
	}
	//
	if sym.Kind == sema.IntrinsicSymbol {
		return p.intrinsicCall(callee.Name, e)
	}
	//
	fnType, ok := types.Resolve(sym.Type).(*types.FuncType)
	if !ok {
		return nil
	}
	//
	var args []*VirtualRegister
	//
	for i, arg := range e.Args {
		value := p.expr(arg)
		if value == nil {
			return nil
		}
		//
		if i < len(fnType.Params()) {
			value = p.coerce(value, TypeOf(fnType.Params()[i]))
		}
		//
		args = append(args, value)
	}
	//
	if types.Resolve(fnType.Return()) == types.Void {
		p.b.EmitCallVoid(sym.Name, args...)
		return nil
	}
	//
	return p.b.EmitCall(sym.Name, TypeOf(fnType.Return()), args...)
}

//nolint:gocyclo
func (p *translator) intrinsicCall(name string, e *ast.Call) *VirtualRegister {
	if op, ok := cpuOps[name]; ok {
		p.b.EmitCPU(op)
		return nil
	}
	//
	arg := func(i int, t *Type) *VirtualRegister {
		return p.coerce(p.expr(e.Args[i]), t)
	}
	//
	switch name {
	case "peek":
		return p.b.EmitPeek(arg(0, WordType))
	case "poke":
		p.b.EmitPoke(arg(0, WordType), arg(1, ByteType))
		return nil
	case "peekw":
		return p.b.EmitPeekW(arg(0, WordType))
	case "pokew":
		p.b.EmitPokeW(arg(0, WordType), arg(1, WordType))
		return nil
	case "lo":
		return p.b.EmitLo(arg(0, WordType))
	case "hi":
		return p.b.EmitHi(arg(0, WordType))
	case "length":
		return p.lengthCall(e)
	case "barrier":
		p.b.EmitBarrier()
		return nil
	case "volatile_read":
		return p.b.EmitVolatileRead(arg(0, WordType))
	case "volatile_write":
		p.b.EmitVolatileWrite(arg(0, WordType), arg(1, ByteType))
		return nil
	default:
		return nil
	}
}

// The length of a sized array is a compile-time constant; unsized arrays
// defer to the code generator via the length opcode.
func (p *translator) lengthCall(e *ast.Call) *VirtualRegister {
	if len(e.Args) != 1 {
		return nil
	}
	//
	if id, ok := e.Args[0].(*ast.Ident); ok {
		sym := p.res.Check.Binding(id)
		//
		if sym != nil {
			if array, ok := types.Resolve(sym.Type).(*types.ArrayType); ok && array.HasSize() {
				return p.b.EmitConst(WordType, uint64(array.Count()))
			}
			//
			return p.b.EmitLength(sym.Name)
		}
	}
	// String literals know their own length.
	if lit, ok := e.Args[0].(*ast.StringLit); ok {
		return p.b.EmitConst(WordType, uint64(len(lit.Value)))
	}
	//
	return nil
}

// ============================================================================
// Coercions
// ============================================================================

// A boolean view of an expression: booleans pass through, numerics compare
// against zero.
func (p *translator) boolValue(e ast.Expr) *VirtualRegister {
	value := p.expr(e)
	if value == nil {
		return p.b.EmitConst(BoolType, 0)
	}
	//
	return p.toBool(value)
}

func (p *translator) toBool(value *VirtualRegister) *VirtualRegister {
	if value.Type == BoolType {
		return value
	}
	//
	zero := p.b.EmitConst(value.Type, 0)
	//
	return p.b.EmitCompare(OpNe, value, zero)
}

// Widen mixed byte/word operands to word.
func (p *translator) unify(lhs *VirtualRegister, rhs *VirtualRegister) (*VirtualRegister, *VirtualRegister) {
	if lhs.Type == rhs.Type {
		return lhs, rhs
	}
	//
	if lhs.Type == WordType || lhs.Type == PointerType {
		return lhs, p.coerce(rhs, lhs.Type)
	}
	//
	if rhs.Type == WordType || rhs.Type == PointerType {
		return p.coerce(lhs, rhs.Type), rhs
	}
	// Bool and byte share a layout.
	return lhs, rhs
}

// coerce a value to a target type, emitting the corresponding conversion
// instruction.  Bool-to-byte is an identity (same one-byte layout).
func (p *translator) coerce(value *VirtualRegister, to *Type) *VirtualRegister {
	if value == nil {
		return p.b.EmitUndef(to)
	}
	//
	from := value.Type
	//
	switch {
	case from == to:
		return value
	case from == ByteType && (to == WordType || to == PointerType):
		return p.b.EmitZeroExtend(value)
	case from == BoolType && to == ByteType:
		return value
	case from == BoolType && (to == WordType || to == PointerType):
		return p.b.EmitZeroExtend(value)
	case from == ByteType && to == BoolType:
		return p.toBool(value)
	case (from == WordType && to == PointerType) || (from == PointerType && to == WordType):
		return value
	case from == WordType && to == ByteType:
		// Explicit narrowing only; the checker has already vetted this
		// path (lo/hi, compound targets).
		return p.b.EmitTruncate(value)
	case from == PointerType && to == ByteType:
		return p.b.EmitTruncate(value)
	default:
		return value
	}
}

// ============================================================================
// Metadata
// ============================================================================

// Attach the analysis hints to the module for the code generator.
func (p *translator) attachHints() {
	meta := p.b.Module().Metadata
	//
	if hints := p.res.Hints; hints != nil {
		var zp, hot []string
		//
		for _, sym := range hints.ZeroPageCandidates {
			zp = append(zp, sym.Name)
		}
		//
		for _, sym := range hints.HotVariables {
			hot = append(hot, sym.Name)
		}
		//
		meta["zero_page_candidates"] = zp
		meta["hot_variables"] = hot
		meta["inline_candidates"] = hints.InlineCandidates
		meta["tail_call_candidates"] = hints.TailCallCandidates
	}
	//
	if p.res.Purity != nil {
		meta["purity"] = p.res.Purity
	}
	//
	if p.res.Loops != nil {
		meta["loop_count"] = len(p.res.Loops)
	}
}
