// Package errors 提供 minic 前端的诊断系统：错误码、统一的编译错误结构和终端格式化输出
package errors

// ============================================================================
// 错误级别
// ============================================================================

// Level 错误级别
type Level int

const (
	LevelError   Level = iota // 错误
	LevelWarning              // 警告
	LevelNote                 // 提示
	LevelHelp                 // 帮助
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelNote:
		return "note"
	case LevelHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ============================================================================
// 错误码
// ============================================================================

const (
	E0001 = "E0001" // 其他错误
	E0002 = "E0002" // 意外的字符
	E0003 = "E0003" // 未闭合的字符串
	E0004 = "E0004" // 未闭合的注释
	E0005 = "E0005" // 无效的数字
	E0006 = "E0006" // 期望的 token
	E0007 = "E0007" // 意外的 token
	E0008 = "E0008" // 嵌套过深
	E0009 = "E0009" // 子节点数量超限
)

// 错误类别，对应前端的四种错误类型
const (
	KindLex      = "LexError"
	KindSyntax   = "SyntaxError"
	KindDepth    = "DepthError"
	KindCapacity = "CapacityError"
	KindInternal = "InternalError"
)

// ErrorInfo 错误码信息
type ErrorInfo struct {
	Code     string // 错误码
	Level    Level  // 错误级别
	Kind     string // 错误类别
	Category string // 错误分类
}

var errorInfos = map[string]ErrorInfo{
	E0001: {E0001, LevelError, KindInternal, "internal"},
	E0002: {E0002, LevelError, KindLex, "lexical"},
	E0003: {E0003, LevelError, KindLex, "lexical"},
	E0004: {E0004, LevelError, KindLex, "lexical"},
	E0005: {E0005, LevelError, KindLex, "lexical"},
	E0006: {E0006, LevelError, KindSyntax, "syntax"},
	E0007: {E0007, LevelError, KindSyntax, "syntax"},
	E0008: {E0008, LevelError, KindDepth, "limit"},
	E0009: {E0009, LevelError, KindCapacity, "limit"},
}

// GetErrorInfo 获取错误码信息
func GetErrorInfo(code string) (ErrorInfo, bool) {
	info, ok := errorInfos[code]
	return info, ok
}

// IsKnownCode 检查是否为已定义的错误码
func IsKnownCode(code string) bool {
	_, ok := errorInfos[code]
	return ok
}
