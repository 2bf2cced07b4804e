// Package diagnostic provides structured, non-fatal findings produced while
// compiling Go types into NixOS option types.
//
// Key capabilities:
//   - Structural limitation warnings (constructs rendered as opaque values)
//   - Ordering cycle reports
//   - Informational notes about degraded mappings
package diagnostic
