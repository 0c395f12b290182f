// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include filesystem fixtures (WriteTree, MustMkdirAll),
// environment management (MustSetenv, SetConfigHome), a manually driven
// FakeClock and a FakeRunner that records external commands instead of
// executing them.
package testutil
