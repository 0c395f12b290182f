// SPDX-License-Identifier: MPL-2.0

package testutil

import "testing"

// SetConfigHome points XDG_CONFIG_HOME at dir and returns a cleanup function
// restoring the previous value. Tests using it must not run in parallel.
//
//	func TestSomething(t *testing.T) {
//	    t.Cleanup(testutil.SetConfigHome(t, t.TempDir()))
//	    // code that reads $XDG_CONFIG_HOME/anda/config.cue ...
//	}
func SetConfigHome(t testing.TB, dir string) func() {
	t.Helper()
	return MustSetenv(t, "XDG_CONFIG_HOME", dir)
}
