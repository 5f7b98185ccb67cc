package token

var keywords = map[string]Kind{
	"def":      KwDef,
	"return":   KwReturn,
	"if":       KwIf,
	"elif":     KwElif,
	"else":     KwElse,
	"import":   KwImport,
	"from":     KwFrom,
	"as":       KwAs,
	"global":   KwGlobal,
	"pass":     KwPass,
	"while":    KwWhile,
	"for":      KwFor,
	"in":       KwIn,
	"not":      KwNot,
	"and":      KwAnd,
	"or":       KwOr,
	"True":     KwTrue,
	"False":    KwFalse,
	"None":     KwNone,
	"break":    KwBreak,
	"continue": KwContinue,
}

// LookupKeyword returns the keyword kind for ident. Keywords are case sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
