// Package descriptor reflects analyzed Go declarations into structural
// descriptors that are independent of the NixOS output notation.
//
// A Builder describes named records (structs) and enumerations (named
// scalars with declared constants, sealed interfaces) on demand. Field types
// are described structurally: primitives, optionals (pointers), sequences,
// mappings and references to other named declarations. Anything without a
// counterpart degrades to an Opaque descriptor carrying the reason.
package descriptor
