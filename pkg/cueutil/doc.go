// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema.
//
// Compile runs the three steps every caller needs:
//
//  1. Compile the embedded schema and look up its root definition
//  2. Compile the user data and unify it with the definition
//  3. Validate the result
//
// Errors name the offending file and the JSON path of the invalid field:
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	v, err := cueutil.Compile(schema, data, "#Config", cueutil.WithFilename(path))
//	if err != nil {
//	    return err // e.g. "config.cue: rpm.builder: 2 errors in empty disjunction"
//	}
package cueutil
