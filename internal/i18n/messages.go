package i18n

// 消息 ID
const (
	// ========== Lexer ==========
	ErrUnexpectedChar      = "lexer.unexpected_char"
	ErrLoneAmpersand       = "lexer.lone_ampersand"
	ErrLonePipe            = "lexer.lone_pipe"
	ErrUnterminatedComment = "lexer.unterminated_comment"
	ErrUnterminatedString  = "lexer.unterminated_string"
	ErrInvalidInteger      = "lexer.invalid_integer"

	// ========== Parser ==========
	ErrExpectedToken      = "parser.expected_token"
	ErrUnexpectedToken    = "parser.unexpected_token"
	ErrExpectedExpression = "parser.expected_expression"
	ErrReturnValueInVoid  = "parser.return_value_in_void"
	ErrReturnMissingValue = "parser.return_missing_value"
	ErrEmptyProgram       = "parser.empty_program"
	ErrTooDeep            = "parser.too_deep"

	// ========== AST ==========
	ErrTooManyChildren = "ast.too_many_children"

	// ========== Hints ==========
	HintMissingSemicolon = "hint.missing_semicolon"
	HintCheckBrackets    = "hint.check_brackets"
	HintSplitExpression  = "hint.split_expression"
	HintReportBug        = "hint.report_bug"
	HintCloseComment     = "hint.close_comment"
	HintCloseString      = "hint.close_string"
	HintDidYouMean       = "hint.did_you_mean"
	HintRemoveValue      = "hint.remove_value"
	HintAddValue         = "hint.add_value"
	HintUnsupportedToken = "hint.unsupported_token"

	// ========== Reporter ==========
	MsgErrorCount = "reporter.error_count"
)
