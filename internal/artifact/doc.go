// SPDX-License-Identifier: MPL-2.0

// Package artifact defines package types and the ordered list of build
// outputs collected during an orchestration run.
package artifact
