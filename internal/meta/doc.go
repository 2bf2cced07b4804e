// Package meta resolves the per-field metadata of a record: option key,
// description, literal defaults and examples, and the flags controlling how
// the option is emitted. It also parses the container directives of a type
// declaration (//nixos:autodoc, //nixos:name).
//
// Annotations are struct tags:
//
//	Port int `nixos:"listenPort,optional" nixos_default:"8080" nixos_description:"Port to listen on."`
//
// Literals (default, defaultText, example, apply, visible, relatedPackages)
// are copied verbatim and must already be valid Nix.
package meta
