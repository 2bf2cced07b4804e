// Package render serializes compiled definitions into NixOS module text.
//
// Rendering is purely syntactic. Literal metadata (default, example, apply,
// ...) is written verbatim; descriptions are escaped as Nix strings. The
// indentation unit is two spaces.
package render
