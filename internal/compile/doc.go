// Package compile turns descriptors into NixOS option types.
//
// A compile call owns one Context: the Registry of definitions and the
// diagnostics of that call. Nothing is shared between calls, so independent
// calls may run concurrently.
//
// Recursion over cyclic type graphs terminates because the Registry marks a
// type InProgress before building its definition; a reference reached again
// while building resolves to the in-progress binding name.
package compile
