// SPDX-License-Identifier: MPL-2.0

// Package flatpak builds flatpak applications with flatpak-builder and
// exports them as single-file bundles.
package flatpak
