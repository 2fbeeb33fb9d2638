package formatter

import "strings"

// Options 格式化选项
type Options struct {
	// 缩进设置
	IndentStyle string // "tabs" 或 "spaces"
	IndentSize  int    // 空格数（当使用 spaces 时）

	// 代码风格
	SpaceBeforeParen bool // 关键字与括号之间是否有空格 (if (x) vs if(x))

	// 其他
	BlankLineBetweenFuncs bool // 函数之间空一行
	EnsureNewlineAtEOF    bool // 确保文件末尾有换行符
}

// DefaultOptions 返回默认格式化选项（K&R 风格 + 4空格缩进）
func DefaultOptions() *Options {
	return &Options{
		IndentStyle:           "spaces",
		IndentSize:            4,
		SpaceBeforeParen:      true,
		BlankLineBetweenFuncs: true,
		EnsureNewlineAtEOF:    true,
	}
}

// IndentString 返回一级缩进
func (o *Options) IndentString() string {
	if o.IndentStyle == "tabs" {
		return "\t"
	}
	size := o.IndentSize
	if size <= 0 {
		size = 4
	}
	return strings.Repeat(" ", size)
}
