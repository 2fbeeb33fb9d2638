package errors

import (
	"fmt"
	"strings"

	"github.com/tangzhangming/minic/internal/i18n"
)

// ============================================================================
// 格式化器
// ============================================================================

// Formatter 错误格式化器
type Formatter struct {
	Colors     bool // 是否使用颜色
	ShowSource bool // 是否显示源代码
	ShowHints  bool // 是否显示修复建议
	TabWidth   int  // Tab 宽度
}

// NewFormatter 创建默认格式化器，颜色取决于终端检测结果
func NewFormatter() *Formatter {
	return &Formatter{
		Colors:     ColorsEnabled(),
		ShowSource: true,
		ShowHints:  true,
		TabWidth:   4,
	}
}

// FormatCompileError 格式化编译错误
//
// 输出形如：
//
//	error[E0006]: expected ',' or ';', found end of input
//	 --> main.c:3:8
//	  |
//	3 |   int x
//	  |        ^
//	 = help: statements end with ';'
func (f *Formatter) FormatCompileError(err *CompileError, sourceLines []string) string {
	var sb strings.Builder

	// 错误头: error[E0006]: ...
	levelStr := f.colorize(err.Level.String(), f.levelColor(err.Level))
	codeStr := f.colorize(fmt.Sprintf("[%s]", err.Code), f.levelColor(err.Level))
	sb.WriteString(fmt.Sprintf("%s%s: %s\n", levelStr, codeStr, err.Message))

	// 位置: --> file.c:5:12
	if err.Line > 0 {
		file := err.File
		if file == "" {
			file = "<input>"
		}
		arrow := f.colorize("-->", ColorCyan)
		location := f.colorize(fmt.Sprintf("%s:%d:%d", file, err.Line, err.Column), ColorCyan)
		sb.WriteString(fmt.Sprintf(" %s %s\n", arrow, location))
	}

	// 显示源代码
	if f.ShowSource && err.Line > 0 && err.Line <= len(sourceLines) {
		sb.WriteString(f.formatSourceContext(sourceLines, err.Line, err.Column, err.EndColumn, err.Labels))
	}

	// 修复建议
	if f.ShowHints {
		for _, hint := range err.Hints {
			hintLabel := f.colorize(" = help:", ColorCyan)
			sb.WriteString(fmt.Sprintf("%s %s\n", hintLabel, hint))
		}
	}

	// 附加说明
	for _, note := range err.Notes {
		noteLabel := f.colorize(" = note:", ColorCyan)
		sb.WriteString(fmt.Sprintf("%s %s\n", noteLabel, note))
	}

	return sb.String()
}

// formatSourceContext 格式化源代码上下文，endCol 为包含的结束列
func (f *Formatter) formatSourceContext(lines []string, errorLine, startCol, endCol int, labels []Label) string {
	var sb strings.Builder

	lineNumWidth := len(fmt.Sprintf("%d", errorLine))
	for _, label := range labels {
		if w := len(fmt.Sprintf("%d", label.Line)); w > lineNumWidth {
			lineNumWidth = w
		}
	}

	// 空行分隔符
	separator := f.colorize(strings.Repeat(" ", lineNumWidth)+" |", ColorBlue)
	sb.WriteString(separator + "\n")

	// 显示错误行
	line := lines[errorLine-1]
	lineNum := f.colorize(fmt.Sprintf("%*d", lineNumWidth, errorLine), ColorBlue)
	pipe := f.colorize(" |", ColorBlue)
	sb.WriteString(fmt.Sprintf("%s%s %s\n", lineNum, pipe, f.sourceLine(line)))

	// 错误标注
	length := endCol - startCol + 1
	if length < 1 {
		length = 1
	}
	actualCol := f.calculateActualColumn(line, startCol)
	underline := separator + strings.Repeat(" ", actualCol+1) +
		f.colorize(strings.Repeat("^", length), ColorRed)
	sb.WriteString(underline + "\n")

	// 处理额外的标签
	for _, label := range labels {
		if label.Line == errorLine || label.Line <= 0 || label.Line > len(lines) {
			continue
		}
		line := lines[label.Line-1]
		lineNum := f.colorize(fmt.Sprintf("%*d", lineNumWidth, label.Line), ColorBlue)
		sb.WriteString(fmt.Sprintf("%s%s %s\n", lineNum, pipe, f.expandTabs(line)))

		if label.Message != "" {
			actualCol := f.calculateActualColumn(line, label.Column)
			msgLine := separator + strings.Repeat(" ", actualCol+1) +
				f.colorize(strings.Repeat("^", label.Length)+" "+label.Message, f.labelColor(label.Primary))
			sb.WriteString(msgLine + "\n")
		}
	}

	return sb.String()
}

// sourceLine 返回用于显示的源码行，启用颜色时做语法高亮
func (f *Formatter) sourceLine(line string) string {
	if f.Colors {
		line = HighlightLine(line)
	}
	return f.expandTabs(line)
}

// expandTabs 展开 Tab 为空格
func (f *Formatter) expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", f.TabWidth))
}

// calculateActualColumn 计算实际列位置（考虑 Tab），返回 0-based 偏移
func (f *Formatter) calculateActualColumn(line string, col int) int {
	if col <= 0 {
		return 0
	}
	actual := 0
	for i := 0; i < col-1 && i < len(line); i++ {
		if line[i] == '\t' {
			actual += f.TabWidth
		} else {
			actual++
		}
	}
	if col-1 > len(line) {
		actual += col - 1 - len(line)
	}
	return actual
}

// levelColor 获取错误级别对应的颜色
func (f *Formatter) levelColor(level Level) Color {
	switch level {
	case LevelError:
		return ColorBoldRed
	case LevelWarning:
		return ColorYellow
	case LevelNote:
		return ColorCyan
	case LevelHelp:
		return ColorGreen
	default:
		return ColorWhite
	}
}

// labelColor 获取标签颜色
func (f *Formatter) labelColor(primary bool) Color {
	if primary {
		return ColorRed
	}
	return ColorYellow
}

// colorize 着色字符串
func (f *Formatter) colorize(s string, color Color) string {
	if !f.Colors {
		return s
	}
	return wrap(s, color)
}

// ============================================================================
// 简便方法
// ============================================================================

// FormatCompileErrors 格式化多个编译错误，末尾附带错误计数
func (f *Formatter) FormatCompileErrors(errs []*CompileError, sourceCache map[string][]string) string {
	var sb strings.Builder

	for i, err := range errs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(f.FormatCompileError(err, sourceCache[err.File]))
	}

	if len(errs) > 0 {
		sb.WriteString("\n")
		sb.WriteString(f.colorize(i18n.T(i18n.MsgErrorCount, len(errs)), ColorRed) + "\n")
	}

	return sb.String()
}

// SplitLines 把源码拆分为行，用于显示上下文
func SplitLines(source string) []string {
	return strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
}

// Format 使用新的默认格式化器格式化任意前端错误
func Format(err error, source string) string {
	return NewFormatter().FormatCompileError(FromError(err), SplitLines(source))
}
