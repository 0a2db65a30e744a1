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

package compile

import "fmt"

// Backend compiles generated source code into a function.
type Backend int

const (
	// VM runs the generated source with an interpreter built into the library.
	VM Backend = iota
	// Plugin builds the generated source with the go command and loads it as a Go plugin.
	Plugin
)

func (b Backend) String() string {
	switch b {
	case VM:
		return "vm"
	case Plugin:
		return "plugin"
	}
	return fmt.Sprintf("Backend(%d)", int(b))
}

type config struct {
	backend   Backend
	logf      func(format string, v ...any)
	pluginDir string
}

func newConfig(opts []Option) *config {
	cfg := &config{
		backend: VM,
		logf:    func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures a compilation.
type Option func(*config)

// WithBackend sets the backend compiling the generated source.
func WithBackend(b Backend) Option {
	return func(cfg *config) {
		cfg.backend = b
	}
}

// WithLogf sets a function logging compilations.
func WithLogf(logf func(format string, v ...any)) Option {
	return func(cfg *config) {
		if logf == nil {
			return
		}
		cfg.logf = logf
	}
}

// WithPluginDir sets the directory in which plugins are built.
// It is only used by the Plugin backend.
func WithPluginDir(dir string) Option {
	return func(cfg *config) {
		cfg.pluginDir = dir
	}
}
