// Package main provides the CLI entrypoint for nixos-type-generator.
//
// nixos-type-generator compiles Go type schemas into NixOS option
// definitions:
//   - Loads Go packages (AST + go/types) and reads nixos struct tags and directives
//   - Maps records to types.submodule and enumerations to types.enum
//   - Emits each definition once, dependencies first
//   - Renders option blocks, let bindings or complete NixOS modules
package main

import (
	"os"

	"nixos-type-generator/internal/cli"
)

const cmdName = "nixos-type-generator"

func main() {
	cmd := cli.NewRootCmd(cmdName)

	if err := cmd.Execute(); err != nil {
		cli.WriteError(os.Stderr, err)
		os.Exit(1)
	}
}
