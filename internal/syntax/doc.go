// Package syntax defines the closed set of syntax kinds shared by the lexer,
// the lossless tree and the parser.
// Invariants:
//   - Token kinds are numbered below NodeBase, node kinds at or above it;
//     a kind is never both.
//   - Trivia kinds (Whitespace, Newline, Comment, LineContinuation) are a
//     subset of the token kinds and never start a grammar production.
//   - Kinds carry no text; text is always sliced from the source by range.
package syntax
