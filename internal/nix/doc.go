// Package nix models the NixOS option language produced by the generator:
// type expressions (types.str, types.listOf ..., named references), options
// with their metadata and named definitions, plus string escaping and
// attribute name quoting.
package nix
