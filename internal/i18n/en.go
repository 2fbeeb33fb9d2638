package i18n

var messagesEN = map[string]string{
	// ========== Lexer ==========
	ErrUnexpectedChar:      "unexpected character '%c'",
	ErrLoneAmpersand:       "unexpected '&' (did you mean '&&'?)",
	ErrLonePipe:            "unexpected '|' (did you mean '||'?)",
	ErrUnterminatedComment: "unterminated block comment",
	ErrUnterminatedString:  "unterminated string",
	ErrInvalidInteger:      "invalid integer: %s",

	// ========== Parser ==========
	ErrExpectedToken:      "expected %s, found %s",
	ErrUnexpectedToken:    "unexpected token: %s",
	ErrExpectedExpression: "expected expression, found %s",
	ErrReturnValueInVoid:  "void function '%s' cannot return a value",
	ErrReturnMissingValue: "function '%s' must return a value",
	ErrEmptyProgram:       "program must contain at least one function",
	ErrTooDeep:            "nesting exceeds the maximum depth of %d",

	// ========== AST ==========
	ErrTooManyChildren: "node %s cannot hold more than %d children",

	// ========== Hints ==========
	HintMissingSemicolon: "statements end with ';'",
	HintCheckBrackets:    "check that every '(' and '{' is closed",
	HintSplitExpression:  "split the expression into smaller statements",
	HintReportBug:        "this is an internal limit; raise parser.max_children or report a bug",
	HintCloseComment:     "close the comment with '*/'",
	HintCloseString:      "close the string with '\"' on the same line",
	HintDidYouMean:       "did you mean '%s'?",
	HintRemoveValue:      "remove the value or declare the function as 'int'",
	HintAddValue:         "return an int value or declare the function as 'void'",
	HintUnsupportedToken: "'%s' is recognized by the lexer but not allowed by the grammar",

	// ========== Reporter ==========
	MsgErrorCount: "error: aborting due to %d previous error(s)",
}
