// Package parser is a recursive-descent parser for the Python subset the
// compiler understands. Precedence follows Python: or < and < not <
// comparison < + - < * / // % < unary < ** < call/attribute < atom.
// Errors are Syn diagnostics; the parser resynchronises at the next line.
package parser
