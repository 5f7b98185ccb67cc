// Package token defines lexical token kinds and trivia for the mcfc source subset.
// Invariants:
//   - Token.Text is a slice of the original source, except for String tokens
//     where it holds the unescaped value.
//   - NEWLINE, INDENT and DEDENT are synthesized by the lexer from layout;
//     they never appear inside brackets.
//   - Comments are kept as leading Trivia and never appear in the main stream.
package token
