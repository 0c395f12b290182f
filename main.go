// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/fyralabs/anda/cmd/anda"

func main() {
	cmd.Execute()
}
