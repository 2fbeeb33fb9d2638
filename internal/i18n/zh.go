package i18n

var messagesZH = map[string]string{
	// ========== 词法分析 ==========
	ErrUnexpectedChar:      "意外字符 '%c'",
	ErrLoneAmpersand:       "意外的 '&'（是否想写 '&&'？）",
	ErrLonePipe:            "意外的 '|'（是否想写 '||'？）",
	ErrUnterminatedComment: "块注释未闭合",
	ErrUnterminatedString:  "字符串未闭合",
	ErrInvalidInteger:      "无效的整数: %s",

	// ========== 语法分析 ==========
	ErrExpectedToken:      "期望 %s，实际为 %s",
	ErrUnexpectedToken:    "意外的 token: %s",
	ErrExpectedExpression: "期望表达式，实际为 %s",
	ErrReturnValueInVoid:  "void 函数 '%s' 不能返回值",
	ErrReturnMissingValue: "函数 '%s' 必须返回一个值",
	ErrEmptyProgram:       "程序至少需要包含一个函数",
	ErrTooDeep:            "嵌套超过最大深度 %d",

	// ========== 语法树 ==========
	ErrTooManyChildren: "节点 %s 的子节点不能超过 %d 个",

	// ========== 修复建议 ==========
	HintMissingSemicolon: "语句需要以 ';' 结尾",
	HintCheckBrackets:    "检查每个 '(' 和 '{' 是否都已闭合",
	HintSplitExpression:  "将表达式拆分为多条语句",
	HintReportBug:        "这是内部限制，可调大 parser.max_children 或报告问题",
	HintCloseComment:     "使用 '*/' 闭合注释",
	HintCloseString:      "在同一行内用 '\"' 闭合字符串",
	HintDidYouMean:       "是否想写 '%s'？",
	HintRemoveValue:      "去掉返回值，或将函数声明为 'int'",
	HintAddValue:         "返回一个 int 值，或将函数声明为 'void'",
	HintUnsupportedToken: "'%s' 可以被词法分析识别，但语法不允许使用",

	// ========== 报告器 ==========
	MsgErrorCount: "错误: 发现 %d 个错误，已中止",
}
