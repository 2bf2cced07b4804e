// Package cli implements the nixos-type-generator command line.
//
// Commands:
//
//	generate       compile the configured roots and write their NixOS definitions
//	describe       dump the descriptors reachable from types as YAML
//	config-schema  print the JSON Schema of the configuration file
//	version        print the version
package cli
