// Package analyze provides package loading and type graph extraction.
//
// It uses golang.org/x/tools/go/packages with AST and go/types
// to build a canonical in-memory model of the declarations that are
// compiled into NixOS option types.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: kind, structure, doc comment, directives, enum constants, sealed variants
//   - FieldInfo: field name, type, tags, doc comment and embedding
package analyze
