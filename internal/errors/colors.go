package errors

import (
	"os"
	"strings"

	"github.com/tangzhangming/minic/internal/lexer"
	"github.com/tangzhangming/minic/internal/token"
)

// Color 终端颜色
type Color int

const (
	ColorReset Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBoldRed
	ColorBoldBlue
)

// ANSI 颜色代码
var ansiCodes = map[Color]string{
	ColorReset:    "\033[0m",
	ColorRed:      "\033[31m",
	ColorGreen:    "\033[32m",
	ColorYellow:   "\033[33m",
	ColorBlue:     "\033[34m",
	ColorMagenta:  "\033[35m",
	ColorCyan:     "\033[36m",
	ColorWhite:    "\033[37m",
	ColorBoldRed:  "\033[1;31m",
	ColorBoldBlue: "\033[1;34m",
}

// colorsEnabled 是否启用颜色
var colorsEnabled = detectColorSupport(os.Stderr)

// detectColorSupport 检测输出是否支持颜色
//
// NO_COLOR 总是关闭颜色，FORCE_COLOR 总是打开；否则要求输出为终端且 TERM 不是 dumb。
func detectColorSupport(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal(f)
}

// EnableColors 启用颜色
func EnableColors() {
	colorsEnabled = true
}

// DisableColors 禁用颜色
func DisableColors() {
	colorsEnabled = false
}

// ColorsEnabled 检查颜色是否启用
func ColorsEnabled() bool {
	return colorsEnabled
}

// SetColorsEnabled 设置颜色启用状态
func SetColorsEnabled(enabled bool) {
	colorsEnabled = enabled
}

// Colorize 按全局设置着色字符串
func Colorize(s string, color Color) string {
	if !colorsEnabled {
		return s
	}
	return wrap(s, color)
}

func wrap(s string, color Color) string {
	code, ok := ansiCodes[color]
	if !ok {
		return s
	}
	return code + s + ansiCodes[ColorReset]
}

// Strip 移除 ANSI 颜色代码
func Strip(s string) string {
	result := s
	for _, code := range ansiCodes {
		result = strings.ReplaceAll(result, code, "")
	}
	return result
}

// ============================================================================
// 代码语法高亮
// ============================================================================

// HighlightLine 使用词法分析器高亮一行源码
//
// 无法完整扫描的行（例如处于块注释中间）原样返回。
func HighlightLine(line string) string {
	l := lexer.New(line, "")
	var sb strings.Builder
	last := 0
	for {
		tok, err := l.Next()
		if err != nil {
			return line
		}
		if tok.Type == token.EOF {
			break
		}
		color, ok := tokenColor(tok.Type)
		if !ok {
			continue
		}
		sb.WriteString(line[last:tok.Pos.Offset])
		sb.WriteString(wrap(tok.Literal, color))
		last = tok.Pos.Offset + len(tok.Literal)
	}
	sb.WriteString(line[last:])
	return sb.String()
}

func tokenColor(t token.TokenType) (Color, bool) {
	switch {
	case t == token.INT || t == token.VOID:
		return ColorCyan, true
	case token.IsKeyword(t):
		return ColorBoldBlue, true
	case t == token.INT_CONST:
		return ColorMagenta, true
	case t == token.STRING_CONST:
		return ColorGreen, true
	}
	return ColorReset, false
}
