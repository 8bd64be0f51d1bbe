// Package cst holds the lossless concrete syntax tree.
//
// Every significant token carries the trivia around it: leading trivia is
// the run of whitespace, comments, newlines and line continuations before the
// token; trailing trivia is the same-line run after it, up to and including a
// single newline. Printing the tree (leading, text, trailing for every token
// in order) reproduces the source byte for byte.
package cst
