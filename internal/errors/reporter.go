package errors

import (
	"fmt"
	"io"
	"os"
)

// ============================================================================
// 错误报告器
// ============================================================================

// Reporter 把编译错误连同源码上下文写到输出流
type Reporter struct {
	formatter   *Formatter
	out         io.Writer
	sourceCache map[string][]string // 源代码缓存
	errors      []*CompileError
}

// NewReporter 创建写到 out 的错误报告器，out 为 nil 时使用标准错误输出
func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = os.Stderr
	}
	return &Reporter{
		formatter:   NewFormatter(),
		out:         out,
		sourceCache: make(map[string][]string),
	}
}

// SetFormatter 设置格式化器
func (r *Reporter) SetFormatter(f *Formatter) {
	r.formatter = f
}

// SetSource 设置源代码（文件内容或标准输入）
func (r *Reporter) SetSource(filename string, content string) {
	r.sourceCache[filename] = SplitLines(content)
}

// GetSourceLine 获取源代码行
func (r *Reporter) GetSourceLine(filename string, line int) string {
	if lines, ok := r.sourceCache[filename]; ok {
		if line > 0 && line <= len(lines) {
			return lines[line-1]
		}
	}
	return ""
}

// Report 转换并输出一个前端错误，返回转换后的 CompileError
func (r *Reporter) Report(err error) *CompileError {
	ce := FromError(err)
	if ce == nil {
		return nil
	}
	r.errors = append(r.errors, ce)
	fmt.Fprint(r.out, r.formatter.FormatCompileError(ce, r.sourceCache[ce.File]))
	return ce
}

// HasErrors 检查是否有错误
func (r *Reporter) HasErrors() bool {
	return len(r.errors) > 0
}

// ErrorCount 返回已报告的错误数量
func (r *Reporter) ErrorCount() int {
	return len(r.errors)
}

// Errors 返回已报告的错误
func (r *Reporter) Errors() []*CompileError {
	return r.errors
}

// Clear 清空已报告的错误
func (r *Reporter) Clear() {
	r.errors = nil
}
