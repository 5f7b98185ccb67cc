// Package lexer turns one source file into tokens of the Python subset.
//
// Indentation is tracked on a stack and surfaces as INDENT/DEDENT tokens;
// a NEWLINE ends every logical line that carried a token. Newlines inside
// brackets, blank lines and comment-only lines produce nothing. Comments
// and spaces are attached to the following token as Leading trivia.
package lexer
