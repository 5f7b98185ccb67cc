package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexBadEscape          Code = 1004
	LexBadDedent          Code = 1005
	LexTabsMixed          Code = 1006
	LexUnbalancedBracket  Code = 1007

	// Синтаксические
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectExpression   Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectColon        Code = 2004
	SynExpectNewline      Code = 2005
	SynExpectIndent       Code = 2006
	SynUnclosedParen      Code = 2007
	SynUnclosedBrace      Code = 2008
	SynUnclosedBracket    Code = 2009
	SynBadAssignTarget    Code = 2010
	SynExpectModuleSeg    Code = 2011
	SynExpectIdentAfterAs Code = 2012
	SynPositionalAfterKw  Code = 2013
	SynDefaultOrder       Code = 2014
	SynUnsupportedSyntax  Code = 2015

	// Генерация кода
	GenInfo                  Code = 3000
	GenUnresolved            Code = 3001
	GenUnregisteredFunction  Code = 3002
	GenTooManyArgs           Code = 3003
	GenMissingArg            Code = 3004
	GenUnknownKeyword        Code = 3005
	GenDuplicateArg          Code = 3006
	GenUnsupportedOp         Code = 3007
	GenChainedCompare        Code = 3008
	GenReturnOutsideFunction Code = 3009
	GenUnsupportedParam      Code = 3010
	GenBadConstant           Code = 3011
	GenBadDefault            Code = 3012
	GenAliasCycle            Code = 3013
	GenMalformedCommand      Code = 3014
	GenUnsupportedNode       Code = 3100
	GenRedeclared            Code = 3101
	GenResultUnconsumed      Code = 3102
	GenUnknownBreakpoint     Code = 3103
	GenProcessorReplaced     Code = 3104
	GenTempLeak              Code = 3105

	// Импорты
	ImpInfo             Code = 4000
	ImpNotFound         Code = 4001
	ImpAlreadyCompiled  Code = 4002
	ImpNotAPackage      Code = 4003
	ImpNameNotFound     Code = 4004
	ImpUnknownTemplate  Code = 4005
	ImpOutsideRoot      Code = 4006
	ImpRelativeNotAllow Code = 4007
	ImpSyntaxErrors     Code = 4008

	// Шаблоны
	TplInfo          Code = 5000
	TplBadArgument   Code = 5001
	TplArity         Code = 5002
	TplUnknownOption Code = 5003
	TplNoResult      Code = 5004

	// Ввод-вывод
	IOLoadFileError  Code = 6001
	IOWriteError     Code = 6002
	IOManifestError  Code = 6003
	IOSnapshotError  Code = 6004
	IOOutputConflict Code = 6005
)

var (
	codeDescription = map[Code]string{
		UnknownCode:              "Unknown error",
		LexInfo:                  "Lexical information",
		LexUnknownChar:           "Unknown character",
		LexUnterminatedString:    "Unterminated string",
		LexBadNumber:             "Bad number",
		LexBadEscape:             "Bad escape sequence",
		LexBadDedent:             "Dedent does not match any outer indentation level",
		LexTabsMixed:             "Inconsistent use of tabs and spaces",
		LexUnbalancedBracket:     "Unbalanced bracket",
		SynInfo:                  "Syntax information",
		SynUnexpectedToken:       "Unexpected token",
		SynExpectExpression:      "Expected expression",
		SynExpectIdentifier:      "Expected identifier",
		SynExpectColon:           "Expected ':'",
		SynExpectNewline:         "Expected end of line",
		SynExpectIndent:          "Expected an indented block",
		SynUnclosedParen:         "Unclosed parenthesis",
		SynUnclosedBrace:         "Unclosed brace",
		SynUnclosedBracket:       "Unclosed bracket",
		SynBadAssignTarget:       "Cannot assign to expression",
		SynExpectModuleSeg:       "Expected module path segment",
		SynExpectIdentAfterAs:    "Expected identifier after 'as'",
		SynPositionalAfterKw:     "Positional argument follows keyword argument",
		SynDefaultOrder:          "Non-default parameter follows default parameter",
		SynUnsupportedSyntax:     "Unsupported syntax",
		GenInfo:                  "Code generation information",
		GenUnresolved:            "Unresolved name",
		GenUnregisteredFunction:  "Call to unregistered function",
		GenTooManyArgs:           "Too many arguments",
		GenMissingArg:            "Missing argument",
		GenUnknownKeyword:        "Unknown keyword argument",
		GenDuplicateArg:          "Argument bound more than once",
		GenUnsupportedOp:         "Unsupported operator",
		GenChainedCompare:        "Chained comparison is not supported",
		GenReturnOutsideFunction: "'return' outside function",
		GenUnsupportedParam:      "Unsupported parameter kind",
		GenBadConstant:           "Unsupported constant",
		GenBadDefault:            "Malformed default value",
		GenAliasCycle:            "Circular import alias",
		GenMalformedCommand:      "Malformed command",
		GenUnsupportedNode:       "Unsupported syntax node",
		GenRedeclared:            "Redeclaration",
		GenResultUnconsumed:      "Result register is absent",
		GenUnknownBreakpoint:     "Unknown breakpoint processor",
		GenProcessorReplaced:     "Breakpoint processor replaced",
		GenTempLeak:              "Temporary register leaked",
		ImpInfo:                  "Import information",
		ImpNotFound:              "Module not found",
		ImpAlreadyCompiled:       "Module already compiled",
		ImpNotAPackage:           "Not a package",
		ImpNameNotFound:          "Imported name not found",
		ImpUnknownTemplate:       "Unknown template module",
		ImpOutsideRoot:           "Module outside source root",
		ImpRelativeNotAllow:      "Relative import is not supported",
		ImpSyntaxErrors:          "Imported module has syntax errors",
		TplInfo:                  "Template information",
		TplBadArgument:           "Bad template argument",
		TplArity:                 "Wrong number of template arguments",
		TplUnknownOption:         "Unknown template option",
		TplNoResult:              "Template produced no result",
		IOLoadFileError:          "I/O load file error",
		IOWriteError:             "I/O write error",
		IOManifestError:          "Manifest error",
		IOSnapshotError:          "Snapshot error",
		IOOutputConflict:         "Output path conflict",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IMP%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("TPL%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
