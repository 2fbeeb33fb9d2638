package token

import "fmt"

// ============================================================================
// Token 类型定义
// ============================================================================
//
// TokenType 分为两段：
// 1. 单字符标点（值 < 256），直接用字符本身作为类型值，序列化时输出该字符
// 2. 多字符类型（值 >= 256），包括比较/逻辑运算符、字面量、标识符和关键字
//
// 多字符类型的编号顺序与序列化名称（T_Le, T_Ge ...）保持固定，
// 下游消费者依赖这些名称，不要随意调整顺序。
//
// ============================================================================

// TokenType 表示 Token 的类型
type TokenType int

// ----------------------------------------------------------
// 单字符标点
// ----------------------------------------------------------
const (
	LPAREN    TokenType = '(' // (
	RPAREN    TokenType = ')' // )
	LBRACE    TokenType = '{' // {
	RBRACE    TokenType = '}' // }
	SEMICOLON TokenType = ';' // ;
	COMMA     TokenType = ',' // ,
	PLUS      TokenType = '+' // +
	MINUS     TokenType = '-' // -
	STAR      TokenType = '*' // *
	SLASH     TokenType = '/' // /
	LT        TokenType = '<' // <
	GT        TokenType = '>' // >
	ASSIGN    TokenType = '=' // =
	CARET     TokenType = '^' // ^ 幂运算
	COLON     TokenType = ':' // : 循环标签
)

// charLimit 单字符类型的上界
const charLimit = 256

// ----------------------------------------------------------
// 多字符类型
// ----------------------------------------------------------
const (
	LE           TokenType = iota + charLimit // <=
	GE                                        // >=
	EQ                                        // ==
	NE                                        // !=
	AND                                       // &&
	OR                                        // ||
	INT_CONST                                 // 整数字面量
	STRING_CONST                              // 字符串字面量
	IDENT                                     // 标识符

	keyword_beg // 关键字起始标记（不是实际 token）
	VOID        // void
	INT         // int
	WHILE       // while
	IF          // if
	ELSE        // else
	RETURN      // return
	BREAK       // break
	CONTINUE    // continue
	OUTPUT_INT  // outputInt
	INPUT_INT   // inputInt
	FACTORIAL   // ! (扩展 token，语法不接受)
	EXPLAIN     // explain (扩展 token，语法不接受)
	keyword_end // 关键字结束标记（不是实际 token）

	EOF // 输入结束，不参与序列化
)

// ============================================================================
// 关键字查找
// ============================================================================

var keywords = map[string]TokenType{
	"void":      VOID,
	"int":       INT,
	"while":     WHILE,
	"if":        IF,
	"else":      ELSE,
	"return":    RETURN,
	"break":     BREAK,
	"continue":  CONTINUE,
	"outputInt": OUTPUT_INT,
	"inputInt":  INPUT_INT,
	"explain":   EXPLAIN,
}

// LookupIdent 查找标识符是否为保留字，不是则返回 IDENT
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword 判断 TokenType 是否为关键字
func IsKeyword(t TokenType) bool {
	return t > keyword_beg && t < keyword_end
}

// IsChar 判断 TokenType 是否为单字符标点
func IsChar(t TokenType) bool {
	return t > 0 && t < charLimit
}

// String 返回 TokenType 的序列化名称
//
// 单字符类型返回字符本身，其余返回 T_ 前缀的名称。
func (t TokenType) String() string {
	if IsChar(t) {
		return string(rune(t))
	}
	switch t {
	case LE:
		return "T_Le"
	case GE:
		return "T_Ge"
	case EQ:
		return "T_Eq"
	case NE:
		return "T_Ne"
	case AND:
		return "T_And"
	case OR:
		return "T_Or"
	case INT_CONST:
		return "T_IntConstant"
	case STRING_CONST:
		return "T_StringConstant"
	case IDENT:
		return "T_Identifier"
	case VOID:
		return "T_Void"
	case INT:
		return "T_Int"
	case WHILE:
		return "T_While"
	case IF:
		return "T_If"
	case ELSE:
		return "T_Else"
	case RETURN:
		return "T_Return"
	case BREAK:
		return "T_Break"
	case CONTINUE:
		return "T_Continue"
	case OUTPUT_INT:
		return "T_outputInt"
	case INPUT_INT:
		return "T_inputInt"
	case FACTORIAL:
		return "T_Factorial"
	case EXPLAIN:
		return "T_Explain"
	case EOF:
		return "EOF"
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Describe 返回面向用户的描述，用于错误信息中的期望集合
func (t TokenType) Describe() string {
	if IsChar(t) {
		return "'" + string(rune(t)) + "'"
	}
	switch t {
	case LE:
		return "'<='"
	case GE:
		return "'>='"
	case EQ:
		return "'=='"
	case NE:
		return "'!='"
	case AND:
		return "'&&'"
	case OR:
		return "'||'"
	case INT_CONST:
		return "integer"
	case STRING_CONST:
		return "string"
	case IDENT:
		return "identifier"
	case FACTORIAL:
		return "'!'"
	case EOF:
		return "end of input"
	}
	for word, kw := range keywords {
		if kw == t {
			return "'" + word + "'"
		}
	}
	return t.String()
}

// ============================================================================
// Position - 源代码位置
// ============================================================================

// Position 表示源代码中的位置
type Position struct {
	Filename string // 文件名
	Line     int    // 行号 (从1开始)
	Column   int    // 列号 (从1开始)
	Offset   int    // 字节偏移量 (从0开始)
}

// String 返回位置的字符串表示，格式为 "filename:line:column"
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid 检查位置是否有效
func (p Position) IsValid() bool {
	return p.Line > 0
}

// ============================================================================
// Token - 词法单元
// ============================================================================

// Token 表示一个词法单元，创建后不再修改
type Token struct {
	Type    TokenType // Token 类型
	Literal string    // 原始字面量
	Pos     Position  // 起始位置
}

// EndColumn 返回最后一个字符所在的列（col_end）
func (t Token) EndColumn() int {
	if t.Literal == "" {
		return t.Pos.Column
	}
	return t.Pos.Column + len(t.Literal) - 1
}

// String 返回 Token 的字符串表示（用于调试）
func (t Token) String() string {
	switch t.Type {
	case IDENT, INT_CONST, STRING_CONST:
		return fmt.Sprintf("%s(%s) at %s", t.Type, t.Literal, t.Pos)
	default:
		return fmt.Sprintf("%s at %s", t.Type, t.Pos)
	}
}

// New 创建一个新的 Token
func New(tokenType TokenType, literal string, pos Position) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Pos:     pos,
	}
}
