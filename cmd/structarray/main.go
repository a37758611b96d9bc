// SPDX-License-Identifier: MIT

// Command structarray inspects partitioned container layouts and runs a
// build/copy demonstration. See `structarray --help`.
package main

import "github.com/katalvlaran/structarray/internal/cli"

func main() {
	cli.Execute()
}
