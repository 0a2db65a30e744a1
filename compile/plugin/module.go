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

package plugin

import (
	"os"
	"path"
	"path/filepath"
	"reflect"
	"sync"

	"github.com/gx-org/leibniz/expr"
	"github.com/pkg/errors"
	"golang.org/x/mod/modfile"
)

// leibnizPath is the path of the module generated code depends on.
var leibnizPath = path.Dir(reflect.TypeFor[expr.Variable]().PkgPath())

func findModuleRoot(dir string) string {
	dir = filepath.Clean(dir)
	if dir == "" {
		return ""
	}
	for {
		if fi, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !fi.IsDir() {
			return dir
		}
		d := filepath.Dir(dir)
		if d == dir {
			break
		}
		dir = d
	}
	return ""
}

// Module is the Go module of the program building plugins.
type Module struct {
	root string
	mod  *modfile.File
	sum  []byte
}

var (
	current     *Module
	currentErr  error
	currentOnce sync.Once
)

// Current returns the module of the current working directory.
func Current() (*Module, error) {
	currentOnce.Do(func() {
		var wd string
		wd, currentErr = os.Getwd()
		if currentErr != nil {
			return
		}
		current, currentErr = NewModule(wd)
	})
	return current, currentErr
}

// NewModule returns the module a directory belongs to.
func NewModule(osPath string) (*Module, error) {
	modRoot := findModuleRoot(osPath)
	if modRoot == "" {
		return nil, errors.Errorf("directory %q is not a Go module: cannot find go.mod", osPath)
	}
	absModRoot, err := filepath.Abs(modRoot)
	if err != nil {
		return nil, errors.Errorf("invalid path %q: %v", modRoot, err)
	}
	mod := &Module{root: absModRoot}
	modPath := filepath.Join(absModRoot, "go.mod")
	modData, err := os.ReadFile(modPath)
	if err != nil {
		return nil, errors.Errorf("cannot read %s: %v", modPath, err)
	}
	mod.mod, err = modfile.Parse(modPath, modData, nil)
	if err != nil {
		return nil, errors.Errorf("cannot parse %s: %v", modPath, err)
	}
	mod.sum, err = os.ReadFile(filepath.Join(absModRoot, "go.sum"))
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Errorf("cannot read go.sum in %s: %v", absModRoot, err)
	}
	return mod, nil
}

// Name of the module as specified in the go.mod file.
func (mod *Module) Name() string {
	if mod.mod.Module == nil {
		return ""
	}
	return mod.mod.Module.Mod.Path
}

// Root returns the directory of the module.
func (mod *Module) Root() string {
	return mod.root
}

// goVersion returns the Go version of the module.
func (mod *Module) goVersion() string {
	if mod.mod.Go == nil {
		return "1.24"
	}
	return mod.mod.Go.Version
}

// pluginModFile returns the go.mod file of a plugin depending on the same
// version of the expression package as the module.
func (mod *Module) pluginModFile(modulePath string) ([]byte, error) {
	f := new(modfile.File)
	if err := f.AddModuleStmt(modulePath); err != nil {
		return nil, err
	}
	if err := f.AddGoStmt(mod.goVersion()); err != nil {
		return nil, err
	}
	if mod.Name() == leibnizPath {
		if err := f.AddRequire(leibnizPath, "v0.0.0"); err != nil {
			return nil, err
		}
		if err := f.AddReplace(leibnizPath, "", mod.root, ""); err != nil {
			return nil, err
		}
		return f.Format()
	}
	var required *modfile.Require
	for _, req := range mod.mod.Require {
		if req.Mod.Path == leibnizPath {
			required = req
			break
		}
	}
	if required == nil {
		return nil, errors.Errorf("module %s does not require %s", mod.Name(), leibnizPath)
	}
	if err := f.AddRequire(leibnizPath, required.Mod.Version); err != nil {
		return nil, err
	}
	for _, rep := range mod.mod.Replace {
		if rep.Old.Path != leibnizPath {
			continue
		}
		newPath := rep.New.Path
		if rep.New.Version == "" && !filepath.IsAbs(newPath) {
			// Local directories are relative to the module root.
			newPath = filepath.Join(mod.root, newPath)
		}
		if err := f.AddReplace(rep.Old.Path, rep.Old.Version, newPath, rep.New.Version); err != nil {
			return nil, err
		}
	}
	return f.Format()
}
