// Package formatter 把 Mini-C 源码重新排版为统一风格
//
// 注释在词法分析阶段被丢弃，格式化结果不保留注释。
package formatter

import (
	"github.com/tangzhangming/minic/internal/parser"
)

// Format 格式化源代码
//
// 源码有错误时返回前端的第一个错误。
func Format(source, filename string, options *Options) (string, error) {
	if options == nil {
		options = DefaultOptions()
	}

	prog, err := parser.Parse(source, filename, parser.Options{})
	if err != nil {
		return "", err
	}

	printer := NewPrinter(options)
	return printer.Print(prog), nil
}

// FormatWithDefaultOptions 使用默认选项格式化
func FormatWithDefaultOptions(source, filename string) (string, error) {
	return Format(source, filename, DefaultOptions())
}
