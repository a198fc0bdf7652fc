// Package textutil provides string similarity helpers for file names.
//
// Names are compared after Unicode NFC normalization and case folding, so an
// NFD-encoded name copied from macOS matches its NFC twin exported by the
// archive service. The similarity ratio is 2*LCS/(len(a)+len(b)) over runes,
// in the range [0, 1].
package textutil
