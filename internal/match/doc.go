// Package match offers fuzzy name matching used to suggest corrections for
// misspelled annotation keys, struct-tag options and directive names.
//
// Key functions:
//   - NormalizeIdent: folds case and separators so "default_text" matches "defaultText"
//   - Levenshtein: computes edit distance between strings
//   - Suggest: picks the closest known name for an unknown one
package match
