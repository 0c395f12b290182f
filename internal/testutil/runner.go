// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/fyralabs/anda/internal/process"
)

// FakeRunner records commands instead of running them.
//
// FailOn maps a program name to the error returned for it. OnRun, when set,
// is called for every command before the failure lookup; tests use it to
// simulate side effects such as a builder writing output files.
type FakeRunner struct {
	mu     sync.Mutex
	Cmds   []process.Cmd
	FailOn map[string]error
	OnRun  func(cmd process.Cmd) error
}

// Run records cmd and returns the configured outcome.
func (f *FakeRunner) Run(_ context.Context, cmd process.Cmd) error {
	f.mu.Lock()
	f.Cmds = append(f.Cmds, cmd)
	onRun := f.OnRun
	failErr := f.FailOn[cmd.Name]
	f.mu.Unlock()

	if onRun != nil {
		if err := onRun(cmd); err != nil {
			return err
		}
	}
	return failErr
}

// Names returns the program names in invocation order.
func (f *FakeRunner) Names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.Cmds))
	for _, c := range f.Cmds {
		names = append(names, c.Name)
	}
	return names
}

// Lines returns each recorded command rendered with process.Cmd.String.
func (f *FakeRunner) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, 0, len(f.Cmds))
	for _, c := range f.Cmds {
		lines = append(lines, c.String())
	}
	return lines
}

// Find returns the first recorded command for the program name.
func (f *FakeRunner) Find(name string) (process.Cmd, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.IndexFunc(f.Cmds, func(c process.Cmd) bool { return c.Name == name })
	if i < 0 {
		return process.Cmd{}, false
	}
	return f.Cmds[i], true
}
