package lexer

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/tangzhangming/minic/internal/i18n"
	"github.com/tangzhangming/minic/internal/token"
)

// ============================================================================
// Lexer - 词法分析器
// ============================================================================
//
// 词法分析器只向前扫描，按需产生 Token：
// - Next 每次返回一个 Token，到达末尾后持续返回 EOF
// - Reset 回到源码开头，可对同一输入重新扫描
// - ScanTokens 一次性收集全部 Token（不含 EOF）
//
// 遇到无法识别的字符时返回 *Error，扫描器不做任何恢复。
//
// ============================================================================

// Lexer 词法分析器结构体
type Lexer struct {
	source   string // 源代码字符串
	filename string // 源文件名（用于错误报告）

	start   int // 当前 Token 的起始位置（字节偏移）
	current int // 当前扫描位置（字节偏移）
	line    int // 当前行号（从1开始）
	column  int // 当前列号（从1开始）

	startLine   int // 当前 Token 的起始行
	startColumn int // 当前 Token 的起始列

	err error // 第一个词法错误，出现后扫描停止
}

// Error 表示词法分析错误
type Error struct {
	Pos     token.Position // 错误位置
	Message string         // 错误信息
	MsgID   string         // i18n 消息 ID，用于映射错误码
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// New 创建一个新的词法分析器
//
// 参数:
//   - source: 源代码字符串
//   - filename: 源文件名（用于错误报告）
func New(source, filename string) *Lexer {
	l := &Lexer{
		source:   source,
		filename: filename,
	}
	l.Reset()
	return l
}

// Reset 重置扫描状态，下一次 Next 从源码开头开始
func (l *Lexer) Reset() {
	l.start = 0
	l.current = 0
	l.line = 1
	l.column = 1
	l.err = nil
}

// ScanTokens 扫描全部 tokens
//
// 返回的切片不包含 EOF。出现词法错误时返回 nil 和该错误。
func (l *Lexer) ScanTokens() ([]token.Token, error) {
	tokens := make([]token.Token, 0, len(l.source)/4+1)
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if tok.Type == token.EOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// Next 扫描并返回下一个 Token
//
// 到达末尾时返回 EOF Token；出错后每次调用都返回同一个错误。
func (l *Lexer) Next() (token.Token, error) {
	if l.err != nil {
		return token.Token{}, l.err
	}

	l.skipTrivia()
	if l.err != nil {
		return token.Token{}, l.err
	}

	l.markStart()
	if l.isAtEnd() {
		return token.New(token.EOF, "", l.startPos()), nil
	}

	tok, err := l.scanToken()
	if err != nil {
		l.err = err
		return token.Token{}, err
	}
	return tok, nil
}

// ============================================================================
// 核心扫描逻辑
// ============================================================================

// scanToken 扫描单个 token，调用前已跳过空白和注释
func (l *Lexer) scanToken() (token.Token, error) {
	ch := l.advance()

	switch ch {
	case '(', ')', '{', '}', ';', ',', '+', '-', '*', '/', '^', ':':
		return l.makeToken(token.TokenType(ch)), nil

	case '<':
		// < 或 <=
		if l.match('=') {
			return l.makeToken(token.LE), nil
		}
		return l.makeToken(token.LT), nil

	case '>':
		// > 或 >=
		if l.match('=') {
			return l.makeToken(token.GE), nil
		}
		return l.makeToken(token.GT), nil

	case '=':
		// = 或 ==
		if l.match('=') {
			return l.makeToken(token.EQ), nil
		}
		return l.makeToken(token.ASSIGN), nil

	case '!':
		// != 或单独的 !（扩展 token）
		if l.match('=') {
			return l.makeToken(token.NE), nil
		}
		return l.makeToken(token.FACTORIAL), nil

	case '&':
		if l.match('&') {
			return l.makeToken(token.AND), nil
		}
		return token.Token{}, l.error(i18n.ErrLoneAmpersand)

	case '|':
		if l.match('|') {
			return l.makeToken(token.OR), nil
		}
		return token.Token{}, l.error(i18n.ErrLonePipe)

	case '"':
		return l.string()
	}

	if isDigit(ch) {
		return l.number()
	}
	if isAlpha(ch) {
		return l.identifier(), nil
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.start:])
	return token.Token{}, l.error(i18n.ErrUnexpectedChar, r)
}

// ============================================================================
// 空白字符与注释
// ============================================================================

// skipTrivia 跳过空白、// 行注释和 /* */ 块注释
func (l *Lexer) skipTrivia() {
	for !l.isAtEnd() {
		switch l.peek() {
		case ' ', '\t', '\r', '\f', '\v', '\n':
			l.advance()
		case '/':
			switch l.peekNext() {
			case '/':
				l.lineComment()
			case '*':
				l.blockComment()
				if l.err != nil {
					return
				}
			default:
				return
			}
		default:
			return
		}
	}
}

// lineComment 跳过到行尾，换行符留给 skipTrivia 处理
func (l *Lexer) lineComment() {
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
}

// blockComment 跳过块注释，不支持嵌套
func (l *Lexer) blockComment() {
	l.markStart()
	l.advance() // /
	l.advance() // *

	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return
		}
		l.advance()
	}
	l.err = l.error(i18n.ErrUnterminatedComment)
}

// ============================================================================
// 字面量
// ============================================================================

// string 扫描字符串字面量，字面量包含两侧引号
//
// 反斜杠转义跳过下一个字符；字符串不能跨行。
func (l *Lexer) string() (token.Token, error) {
	for !l.isAtEnd() {
		switch l.peek() {
		case '"':
			l.advance()
			return l.makeToken(token.STRING_CONST), nil
		case '\n':
			return token.Token{}, l.error(i18n.ErrUnterminatedString)
		case '\\':
			l.advance()
			if l.isAtEnd() || l.peek() == '\n' {
				return token.Token{}, l.error(i18n.ErrUnterminatedString)
			}
		}
		l.advance()
	}
	return token.Token{}, l.error(i18n.ErrUnterminatedString)
}

// number 扫描十进制整数 [0-9]+
func (l *Lexer) number() (token.Token, error) {
	for isDigit(l.peek()) {
		l.advance()
	}
	literal := l.source[l.start:l.current]
	if _, err := strconv.ParseInt(literal, 10, 64); err != nil {
		return token.Token{}, l.error(i18n.ErrInvalidInteger, literal)
	}
	return l.makeToken(token.INT_CONST), nil
}

// identifier 扫描标识符并查找保留字
func (l *Lexer) identifier() token.Token {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}
	literal := l.source[l.start:l.current]
	return l.makeToken(token.LookupIdent(literal))
}

// ============================================================================
// 字符读取
// ============================================================================

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// advance 前进一个字节并更新行列号
func (l *Lexer) advance() byte {
	ch := l.source[l.current]
	l.current++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

// peek 查看当前字节但不前进，末尾返回 0
func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

// peekNext 查看下一个字节但不前进
func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

// match 如果当前字节匹配则前进
func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.source[l.current] != expected {
		return false
	}
	l.advance()
	return true
}

// ============================================================================
// 位置追踪与 Token 生成
// ============================================================================

// markStart 记录当前 token 的起始位置
func (l *Lexer) markStart() {
	l.start = l.current
	l.startLine = l.line
	l.startColumn = l.column
}

func (l *Lexer) startPos() token.Position {
	return token.Position{
		Filename: l.filename,
		Line:     l.startLine,
		Column:   l.startColumn,
		Offset:   l.start,
	}
}

func (l *Lexer) makeToken(tokenType token.TokenType) token.Token {
	return token.New(tokenType, l.source[l.start:l.current], l.startPos())
}

// error 构造一个指向当前 token 起始位置的词法错误
func (l *Lexer) error(msgID string, args ...interface{}) *Error {
	return &Error{
		Pos:     l.startPos(),
		Message: i18n.T(msgID, args...),
		MsgID:   msgID,
	}
}

// ============================================================================
// 字符分类函数
// ============================================================================

// isDigit 判断是否为数字 0-9
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isAlpha 判断是否为 ASCII 字母或下划线
func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		ch == '_'
}

// isAlphaNumeric 判断是否为字母、数字或下划线
func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}
