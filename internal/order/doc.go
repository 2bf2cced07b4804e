// Package order decides the emission order of collected definitions.
//
// Two policies exist: Insertion keeps first-registration order, which is
// valid because Nix let bindings are lazily evaluated and may refer forward.
// Topological places every referenced definition before its referrer and
// reports the cycles it cannot break.
package order
