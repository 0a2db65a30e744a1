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

// Package plugin compiles generated source code with the Go toolchain
// and loads the result as a Go plugin.
//
// The toolchain (the go command) must be available at runtime and the
// host program must have been built with cgo enabled. Plugins are only
// supported on some platforms (see the documentation of the standard
// plugin package).
package plugin

import (
	"bytes"
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"os/exec"
	"path/filepath"
	goplugin "plugin"
	"strings"
	"time"

	"github.com/gx-org/leibniz/base/fmterr"
	"github.com/pkg/errors"
)

// Func is the signature of compiled functions.
type Func = func(in []float64, out []float64)

// Options to build a plugin.
type Options struct {
	// Dir is the directory in which plugins are built.
	// A temporary directory is used if empty.
	Dir string
	// GoTool is the path of the go command. "go" is used if empty.
	GoTool string
	// Logf logs the steps of the build. It can be nil.
	Logf func(format string, v ...any)
}

func (opts *Options) logf(format string, v ...any) {
	if opts.Logf == nil {
		return
	}
	opts.Logf(format, v...)
}

// CheckSource returns an error if a Go file cannot be built as a plugin
// exporting a function of the given name with the signature of Func.
func CheckSource(name string, src []byte) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, name+".go", src, parser.SkipObjectResolution)
	if err != nil {
		return errors.Errorf("cannot parse %s: %v", name, err)
	}
	errf := fmterr.FileSet{FSet: fset}
	if file.Name.Name != "main" {
		return errf.Errorf(file.Name, "package %s: -buildmode=plugin requires package main", file.Name.Name)
	}
	if !token.IsExported(name) {
		return errors.Errorf("%s is not exported", name)
	}
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil || fn.Name.Name != name {
			continue
		}
		if fn.Type.Params.NumFields() != 2 || fn.Type.Results.NumFields() != 0 {
			return errf.Errorf(fn.Type, "%s has the wrong signature: want %T", name, Func(nil))
		}
		return nil
	}
	return errors.Errorf("function %s not found", name)
}

// Build compiles the source of a Go file with the go command, loads the
// resulting plugin, and returns the function of the given name.
func Build(ctx context.Context, name string, src []byte, opts Options) (Func, error) {
	if err := CheckSource(name, src); err != nil {
		return nil, fmterr.Internal(err)
	}
	host, err := Current()
	if err != nil {
		return nil, err
	}
	dir, err := os.MkdirTemp(opts.Dir, "leibniz-"+name+"-")
	if err != nil {
		return nil, errors.Errorf("cannot create build directory: %v", err)
	}
	modData, err := host.pluginModFile("leibniz.compiled/" + strings.ToLower(name))
	if err != nil {
		return nil, errors.Errorf("cannot generate go.mod: %v", err)
	}
	files := map[string][]byte{
		name + ".go": src,
		"go.mod":     modData,
	}
	if host.sum != nil {
		files["go.sum"] = host.sum
	}
	for fileName, data := range files {
		if err := os.WriteFile(filepath.Join(dir, fileName), data, 0o644); err != nil {
			return nil, errors.Errorf("cannot write %s: %v", fileName, err)
		}
	}
	goTool := opts.GoTool
	if goTool == "" {
		goTool = "go"
	}
	soPath := filepath.Join(dir, name+".so")
	cmd := exec.CommandContext(ctx, goTool, "build", "-buildmode=plugin", "-o", soPath, ".")
	cmd.Dir = dir
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	start := time.Now()
	opts.logf("building plugin %s in %s", name, dir)
	if err := cmd.Run(); err != nil {
		return nil, errors.Errorf("%s failed: %v\n%s", strings.Join(cmd.Args, " "), err, output.String())
	}
	opts.logf("plugin %s built in %s", name, time.Since(start))
	plug, err := goplugin.Open(soPath)
	if err != nil {
		return nil, errors.Errorf("cannot open plugin %s: %v", soPath, err)
	}
	sym, err := plug.Lookup(name)
	if err != nil {
		return nil, errors.Errorf("cannot find %s in plugin %s: %v", name, soPath, err)
	}
	fn, ok := sym.(func([]float64, []float64))
	if !ok {
		return nil, errors.Errorf("symbol %s in plugin %s has type %T: want %T", name, soPath, sym, Func(nil))
	}
	return fn, nil
}
