// Package export dumps descriptors as YAML for inspection.
//
// The document lists every record and enumeration reachable from the roots,
// in discovery order, together with the structural findings visible at the
// descriptor level. It is what the describe command prints.
package export
