package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline ends a logical line.
	Newline
	// Indent opens a block.
	Indent
	// Dedent closes a block.
	Dedent

	// Ident represents an identifier token.
	Ident
	// IntLit is a decimal, hex, octal or binary integer.
	IntLit
	// StringLit is a quoted string; Text holds the unescaped value.
	StringLit

	KwDef      // def
	KwReturn   // return
	KwIf       // if
	KwElif     // elif
	KwElse     // else
	KwImport   // import
	KwFrom     // from
	KwAs       // as
	KwGlobal   // global
	KwPass     // pass
	KwWhile    // while
	KwFor      // for
	KwIn       // in
	KwNot      // not
	KwAnd      // and
	KwOr       // or
	KwTrue     // True
	KwFalse    // False
	KwNone     // None
	KwBreak    // break
	KwContinue // continue

	LParen   // (
	RParen   // )
	LBracket // [
	RBracket // ]
	LBrace   // {
	RBrace   // }
	Comma    // ,
	Colon    // :
	Dot      // .
	Arrow    // ->

	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=

	Plus       // +
	Minus      // -
	Star       // *
	StarStar   // **
	Slash      // /
	SlashSlash // //
	Percent    // %

	EqEq   // ==
	BangEq // !=
	Lt     // <
	LtEq   // <=
	Gt     // >
	GtEq   // >=
)

var kindNames = [...]string{
	Invalid: "Invalid", EOF: "EOF", Newline: "NEWLINE", Indent: "INDENT", Dedent: "DEDENT",
	Ident: "Ident", IntLit: "IntLit", StringLit: "StringLit",
	KwDef: "def", KwReturn: "return", KwIf: "if", KwElif: "elif", KwElse: "else",
	KwImport: "import", KwFrom: "from", KwAs: "as", KwGlobal: "global", KwPass: "pass",
	KwWhile: "while", KwFor: "for", KwIn: "in", KwNot: "not", KwAnd: "and", KwOr: "or",
	KwTrue: "True", KwFalse: "False", KwNone: "None", KwBreak: "break", KwContinue: "continue",
	LParen: "(", RParen: ")", LBracket: "[", RBracket: "]", LBrace: "{", RBrace: "}",
	Comma: ",", Colon: ":", Dot: ".", Arrow: "->",
	Assign: "=", PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=", SlashAssign: "/=", PercentAssign: "%=",
	Plus: "+", Minus: "-", Star: "*", StarStar: "**", Slash: "/", SlashSlash: "//", Percent: "%",
	EqEq: "==", BangEq: "!=", Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
