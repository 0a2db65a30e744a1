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

package expr

import (
	"fmt"
	"math"
	"sort"

	"github.com/gx-org/leibniz/assign"
	"github.com/gx-org/leibniz/expr/special"
	"github.com/pkg/errors"
)

const (
	mathPackage    = "math"
	specialPackage = "github.com/gx-org/leibniz/expr/special"
)

// Func is a differentiable scalar function of one argument.
type Func struct {
	// Name of the function in expressions.
	Name string
	// ImportPath of the Go package implementing the function.
	ImportPath string
	// Target is the qualified Go identifier calling the function, for example math.Exp.
	Target string
	// Eval computes the function.
	Eval func(float64) float64

	// deriv returns f'(arg) given the argument and the node f(arg).
	deriv func(arg, self Node) Node
	seed  uint64
}

var (
	funcsByName   = make(map[string]*Func)
	funcsByTarget = make(map[string]*Func)
)

func registerFunc(name, importPath, target string, eval func(float64) float64, deriv func(arg, self Node) Node) *Func {
	f := &Func{
		Name:       name,
		ImportPath: importPath,
		Target:     target,
		Eval:       eval,
		deriv:      deriv,
		seed:       hashString("func:" + name),
	}
	funcsByName[name] = f
	funcsByTarget[target] = f
	return f
}

// LookupFunc returns a function given its Go call target, for example math.Exp.
func LookupFunc(target string) (*Func, bool) {
	f, ok := funcsByTarget[target]
	return f, ok
}

// FuncByName returns a function given its name in expressions, for example exp.
func FuncByName(name string) (*Func, bool) {
	f, ok := funcsByName[name]
	return f, ok
}

// Funcs returns all the functions ordered by name.
func Funcs() []*Func {
	fs := make([]*Func, 0, len(funcsByName))
	for _, f := range funcsByName {
		fs = append(fs, f)
	}
	sort.Slice(fs, func(i, j int) bool { return fs[i].Name < fs[j].Name })
	return fs
}

func (f *Func) String() string {
	return f.Name
}

// Call is a function applied to an expression.
type Call struct {
	composed
	fn  *Func
	arg Node
}

var _ Node = (*Call)(nil)

// Func returns the function being called.
func (n *Call) Func() *Func {
	return n.fn
}

// Arg returns the argument of the function.
func (n *Call) Arg() Node {
	return n.arg
}

// Value evaluates the function.
func (n *Call) Value(a assign.Assignment) (float64, error) {
	if a == nil {
		return 0, errNilAssignment()
	}
	x, err := n.arg.Value(a)
	if err != nil {
		return 0, err
	}
	return n.fn.Eval(x), nil
}

// Derivative applies the chain rule: f'(arg) * darg.
func (n *Call) Derivative(v *Variable) Node {
	return n.derivative(v, func(v *Variable) Node {
		return Mul(n.fn.deriv(n.arg, n), n.arg.Derivative(v))
	})
}

// Equal returns true if the other node calls the same function on an equal argument.
func (n *Call) Equal(other Node) bool {
	o, ok := Unwrap(other).(*Call)
	if !ok {
		return false
	}
	return o == n || (o.fn == n.fn && o.hash == n.hash && n.arg.Equal(o.arg))
}

func (n *Call) String() string {
	return fmt.Sprintf("%s(%s)", n.fn.Name, n.arg)
}

// Apply returns a node calling a function on an argument.
// The function is evaluated immediately if the argument is a constant.
func Apply(f *Func, arg Node) Node {
	if f == nil {
		panic(errors.Wrap(ErrNilArgument, "function is nil"))
	}
	checkNotNil("argument", arg)
	if x, ok := constantOf(arg); ok {
		return NewConstant(f.Eval(x))
	}
	n := &Call{fn: f, arg: arg}
	n.init(hashOrdered(f.seed, arg.Hash()), arg)
	return n
}

// Functions are registered in init since their derivatives refer to each other.
var (
	expFunc     *Func
	logFunc     *Func
	sinFunc     *Func
	cosFunc     *Func
	tanFunc     *Func
	asinFunc    *Func
	acosFunc    *Func
	atanFunc    *Func
	sinhFunc    *Func
	coshFunc    *Func
	tanhFunc    *Func
	normPDFFunc *Func
	normCDFFunc *Func
)

func init() {
	expFunc = registerFunc("exp", mathPackage, "math.Exp", math.Exp, func(arg, self Node) Node {
		return self
	})
	logFunc = registerFunc("log", mathPackage, "math.Log", math.Log, func(arg, self Node) Node {
		return Div(One, arg)
	})
	sinFunc = registerFunc("sin", mathPackage, "math.Sin", math.Sin, func(arg, self Node) Node {
		return Cos(arg)
	})
	cosFunc = registerFunc("cos", mathPackage, "math.Cos", math.Cos, func(arg, self Node) Node {
		return Negate(Sin(arg))
	})
	tanFunc = registerFunc("tan", mathPackage, "math.Tan", math.Tan, func(arg, self Node) Node {
		return Add(One, Square(self))
	})
	asinFunc = registerFunc("asin", mathPackage, "math.Asin", math.Asin, func(arg, self Node) Node {
		return Div(One, Sqrt(Sub(One, Square(arg))))
	})
	acosFunc = registerFunc("acos", mathPackage, "math.Acos", math.Acos, func(arg, self Node) Node {
		return Negate(Div(One, Sqrt(Sub(One, Square(arg)))))
	})
	atanFunc = registerFunc("atan", mathPackage, "math.Atan", math.Atan, func(arg, self Node) Node {
		return Div(One, Add(One, Square(arg)))
	})
	sinhFunc = registerFunc("sinh", mathPackage, "math.Sinh", math.Sinh, func(arg, self Node) Node {
		return Cosh(arg)
	})
	coshFunc = registerFunc("cosh", mathPackage, "math.Cosh", math.Cosh, func(arg, self Node) Node {
		return Sinh(arg)
	})
	tanhFunc = registerFunc("tanh", mathPackage, "math.Tanh", math.Tanh, func(arg, self Node) Node {
		return Sub(One, Square(self))
	})
	normPDFFunc = registerFunc("normpdf", specialPackage, "special.NormPDF", special.NormPDF, func(arg, self Node) Node {
		return Mul(self, Negate(arg))
	})
	normCDFFunc = registerFunc("normcdf", specialPackage, "special.NormCDF", special.NormCDF, func(arg, self Node) Node {
		return NormPDF(arg)
	})
}

// Exp returns e^x.
func Exp(x Node) Node { return Apply(expFunc, x) }

// Log returns the natural logarithm of x.
func Log(x Node) Node { return Apply(logFunc, x) }

// Sin returns the sine of x.
func Sin(x Node) Node { return Apply(sinFunc, x) }

// Cos returns the cosine of x.
func Cos(x Node) Node { return Apply(cosFunc, x) }

// Tan returns the tangent of x.
func Tan(x Node) Node { return Apply(tanFunc, x) }

// Asin returns the arcsine of x.
func Asin(x Node) Node { return Apply(asinFunc, x) }

// Acos returns the arccosine of x.
func Acos(x Node) Node { return Apply(acosFunc, x) }

// Atan returns the arctangent of x.
func Atan(x Node) Node { return Apply(atanFunc, x) }

// Sinh returns the hyperbolic sine of x.
func Sinh(x Node) Node { return Apply(sinhFunc, x) }

// Cosh returns the hyperbolic cosine of x.
func Cosh(x Node) Node { return Apply(coshFunc, x) }

// Tanh returns the hyperbolic tangent of x.
func Tanh(x Node) Node { return Apply(tanhFunc, x) }

// NormPDF returns the density of the standard normal distribution at x.
func NormPDF(x Node) Node { return Apply(normPDFFunc, x) }

// NormCDF returns the cumulative distribution of the standard normal distribution at x.
func NormCDF(x Node) Node { return Apply(normCDFFunc, x) }
