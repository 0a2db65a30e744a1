// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vm

import (
	"go/ast"
	"go/token"
	"math"
	"path"
	"strconv"

	"github.com/gx-org/leibniz/base/fmterr"
	"github.com/gx-org/leibniz/expr"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// builtins are functions of the math package handled by the compiler.
// They are evaluated at compile time when all their arguments are literals.
var builtins = map[string]struct {
	numArgs int
	eval    func(args []float64) float64
}{
	"math.Pow": {numArgs: 2, eval: func(args []float64) float64 {
		return math.Pow(args[0], args[1])
	}},
	"math.Inf": {numArgs: 1, eval: func(args []float64) float64 {
		return math.Inf(int(args[0]))
	}},
	"math.NaN": {numArgs: 0, eval: func([]float64) float64 {
		return math.NaN()
	}},
	"math.Copysign": {numArgs: 2, eval: func(args []float64) float64 {
		return math.Copysign(args[0], args[1])
	}},
}

type compiler struct {
	fmterr.FileSet
	file    *ast.File
	imports map[string]string

	inParam, outParam string
	locals            map[string]int
	defs              []*ast.Ident
	used              map[string]bool
	prog              *Program
}

func newCompiler(fset *token.FileSet, file *ast.File) (*compiler, error) {
	c := &compiler{
		FileSet: fmterr.FileSet{FSet: fset},
		file:    file,
		imports: make(map[string]string),
		locals:  make(map[string]int),
		used:    make(map[string]bool),
	}
	for _, spec := range file.Imports {
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			return nil, c.Errorf(spec, "invalid import path %s: %v", spec.Path.Value, err)
		}
		name := path.Base(importPath)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		c.imports[name] = importPath
	}
	return c, nil
}

func (c *compiler) findFunc(name string) (*ast.FuncDecl, error) {
	for _, decl := range c.file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Name.Name != name {
			continue
		}
		return fn, nil
	}
	return nil, errors.Errorf("function %s not found", name)
}

func isFloatSlice(typ ast.Expr) bool {
	arr, ok := typ.(*ast.ArrayType)
	if !ok || arr.Len != nil {
		return false
	}
	elt, ok := arr.Elt.(*ast.Ident)
	return ok && elt.Name == "float64"
}

func (c *compiler) params(fn *ast.FuncDecl) error {
	if fn.Recv != nil || fn.Type.TypeParams != nil {
		return c.Errorf(fn, "%s is not a plain function", fn.Name.Name)
	}
	if fn.Type.Results != nil && len(fn.Type.Results.List) > 0 {
		return c.Errorf(fn.Type.Results, "%s cannot return results", fn.Name.Name)
	}
	var names []string
	for _, field := range fn.Type.Params.List {
		if !isFloatSlice(field.Type) {
			return c.Errorf(field, "parameter type not supported: want []float64")
		}
		for _, name := range field.Names {
			names = append(names, name.Name)
		}
	}
	if len(names) != 2 {
		return c.Errorf(fn.Type.Params, "got %d parameters but want 2 (inputs and outputs)", len(names))
	}
	c.inParam, c.outParam = names[0], names[1]
	return nil
}

func (c *compiler) compile(name string) (*Program, error) {
	fn, err := c.findFunc(name)
	if err != nil {
		return nil, err
	}
	if err := c.params(fn); err != nil {
		return nil, err
	}
	if fn.Body == nil {
		return nil, c.Errorf(fn, "%s has no body", name)
	}
	c.prog = &Program{name: name}
	var errs error
	for _, stmt := range fn.Body.List {
		s, err := c.stmt(stmt)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		c.prog.stmts = append(c.prog.stmts, s)
	}
	for _, def := range c.defs {
		if !c.used[def.Name] {
			errs = multierr.Append(errs, c.Errorf(def, "declared and not used: %s", def.Name))
		}
	}
	if errs != nil {
		return nil, errs
	}
	c.prog.numLocals = len(c.locals)
	return c.prog, nil
}

func (c *compiler) stmt(stmt ast.Stmt) (execStmt, error) {
	assign, ok := stmt.(*ast.AssignStmt)
	if !ok {
		return nil, c.Errorf(stmt, "statement %T not supported", stmt)
	}
	if len(assign.Lhs) != 1 || len(assign.Rhs) != 1 {
		return nil, c.Errorf(assign, "multiple assignments not supported")
	}
	switch assign.Tok {
	case token.DEFINE:
		return c.define(assign)
	case token.ASSIGN:
		return c.store(assign)
	}
	return nil, c.Errorf(assign, "assignment operator %s not supported", assign.Tok)
}

func (c *compiler) define(assign *ast.AssignStmt) (execStmt, error) {
	ident, ok := assign.Lhs[0].(*ast.Ident)
	if !ok {
		return nil, c.Errorf(assign.Lhs[0], "cannot define %T", assign.Lhs[0])
	}
	if _, defined := c.locals[ident.Name]; defined {
		return nil, c.Errorf(ident, "%s redeclared", ident.Name)
	}
	if ident.Name == c.inParam || ident.Name == c.outParam {
		return nil, c.Errorf(ident, "cannot redefine parameter %s", ident.Name)
	}
	// The right hand side is compiled before the local is defined.
	x, err := c.expr(assign.Rhs[0])
	if err != nil {
		return nil, err
	}
	slot := len(c.locals)
	c.locals[ident.Name] = slot
	c.defs = append(c.defs, ident)
	return define{slot: slot, x: x}, nil
}

func (c *compiler) index(e *ast.IndexExpr, param string) (int, error) {
	ident, ok := e.X.(*ast.Ident)
	if !ok || ident.Name != param {
		return 0, c.Errorf(e.X, "expected %s", param)
	}
	lit, ok := e.Index.(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return 0, c.Errorf(e.Index, "index must be an integer literal")
	}
	i, err := strconv.Atoi(lit.Value)
	if err != nil {
		return 0, c.Errorf(lit, "invalid index %s: %v", lit.Value, err)
	}
	return i, nil
}

func (c *compiler) store(assign *ast.AssignStmt) (execStmt, error) {
	lhs, ok := assign.Lhs[0].(*ast.IndexExpr)
	if !ok {
		return nil, c.Errorf(assign.Lhs[0], "only %s elements can be assigned", c.outParam)
	}
	i, err := c.index(lhs, c.outParam)
	if err != nil {
		return nil, err
	}
	x, err := c.expr(assign.Rhs[0])
	if err != nil {
		return nil, err
	}
	c.prog.numOutputs = max(c.prog.numOutputs, i+1)
	return store{index: i, x: x}, nil
}

func (c *compiler) expr(e ast.Expr) (execNode, error) {
	switch eT := e.(type) {
	case *ast.ParenExpr:
		return c.expr(eT.X)
	case *ast.BasicLit:
		return c.basicLit(eT)
	case *ast.Ident:
		slot, ok := c.locals[eT.Name]
		if !ok {
			return nil, c.Errorf(eT, "undefined: %s", eT.Name)
		}
		c.used[eT.Name] = true
		return local{slot: slot}, nil
	case *ast.IndexExpr:
		i, err := c.index(eT, c.inParam)
		if err != nil {
			return nil, err
		}
		c.prog.numInputs = max(c.prog.numInputs, i+1)
		return input{index: i}, nil
	case *ast.UnaryExpr:
		return c.unary(eT)
	case *ast.BinaryExpr:
		return c.binary(eT)
	case *ast.CallExpr:
		return c.call(eT)
	}
	return nil, c.Errorf(e, "expression %T not supported", e)
}

func (c *compiler) basicLit(lit *ast.BasicLit) (execNode, error) {
	if lit.Kind != token.INT && lit.Kind != token.FLOAT {
		return nil, c.Errorf(lit, "literal %s not supported", lit.Value)
	}
	x, err := strconv.ParseFloat(lit.Value, 64)
	if err != nil {
		return nil, c.Errorf(lit, "invalid number %s: %v", lit.Value, err)
	}
	return literal{value: x}, nil
}

func (c *compiler) unary(e *ast.UnaryExpr) (execNode, error) {
	x, err := c.expr(e.X)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case token.ADD:
		return x, nil
	case token.SUB:
		if lit, ok := x.(literal); ok {
			// Negating the constant 0 gives 0.
			return literal{value: 0 - lit.value}, nil
		}
		return neg{x: x}, nil
	}
	return nil, c.Errorf(e, "unary operator %s not supported", e.Op)
}

func (c *compiler) binary(e *ast.BinaryExpr) (execNode, error) {
	x, err := c.expr(e.X)
	if err != nil {
		return nil, err
	}
	y, err := c.expr(e.Y)
	if err != nil {
		return nil, err
	}
	_, xLit := x.(literal)
	_, yLit := y.(literal)
	if xLit && yLit {
		// Go evaluates constant expressions with an arbitrary precision.
		return nil, c.Errorf(e, "constant expressions not supported")
	}
	switch e.Op {
	case token.ADD:
		return add{x: x, y: y}, nil
	case token.SUB:
		return sub{x: x, y: y}, nil
	case token.MUL:
		return mul{x: x, y: y}, nil
	case token.QUO:
		return quo{x: x, y: y}, nil
	}
	return nil, c.Errorf(e, "binary operator %s not supported", e.Op)
}

func (c *compiler) args(e *ast.CallExpr, want int) ([]execNode, error) {
	if len(e.Args) != want {
		return nil, c.Errorf(e, "got %d arguments but want %d", len(e.Args), want)
	}
	args := make([]execNode, len(e.Args))
	for i, arg := range e.Args {
		var err error
		args[i], err = c.expr(arg)
		if err != nil {
			return nil, err
		}
	}
	return args, nil
}

func literals(args []execNode) ([]float64, bool) {
	values := make([]float64, len(args))
	for i, arg := range args {
		lit, ok := arg.(literal)
		if !ok {
			return nil, false
		}
		values[i] = lit.value
	}
	return values, true
}

func (c *compiler) call(e *ast.CallExpr) (execNode, error) {
	switch fun := e.Fun.(type) {
	case *ast.Ident:
		if fun.Name != "float64" {
			return nil, c.Errorf(fun, "function %s not supported", fun.Name)
		}
		args, err := c.args(e, 1)
		if err != nil {
			return nil, err
		}
		return args[0], nil
	case *ast.SelectorExpr:
		return c.qualifiedCall(e, fun)
	}
	return nil, c.Errorf(e.Fun, "call to %T not supported", e.Fun)
}

func (c *compiler) qualifiedCall(e *ast.CallExpr, fun *ast.SelectorExpr) (execNode, error) {
	pkg, ok := fun.X.(*ast.Ident)
	if !ok {
		return nil, c.Errorf(fun.X, "expected a package name")
	}
	importPath, ok := c.imports[pkg.Name]
	if !ok {
		return nil, c.Errorf(pkg, "undefined: %s", pkg.Name)
	}
	target := pkg.Name + "." + fun.Sel.Name
	if builtin, ok := builtins[target]; ok && importPath == "math" {
		args, err := c.args(e, builtin.numArgs)
		if err != nil {
			return nil, err
		}
		if values, ok := literals(args); ok {
			return literal{value: builtin.eval(values)}, nil
		}
		if target != "math.Pow" {
			return nil, c.Errorf(e, "%s only supports literal arguments", target)
		}
		return pow{x: args[0], y: args[1]}, nil
	}
	fn, ok := expr.LookupFunc(target)
	if !ok || fn.ImportPath != importPath {
		return nil, c.Errorf(fun, "function %s not supported", target)
	}
	args, err := c.args(e, 1)
	if err != nil {
		return nil, err
	}
	if values, ok := literals(args); ok {
		return literal{value: fn.Eval(values[0])}, nil
	}
	return call{fn: fn.Eval, x: args[0]}, nil
}
