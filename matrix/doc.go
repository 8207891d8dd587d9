// Package matrix provides the labeled row table the k-d tree is built over,
// the symbol table that maps row labels to numeric codes, and readers/writers
// for the whitespace separated text format used by the CLI.
package matrix
