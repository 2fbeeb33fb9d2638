// minic 是 Mini-C 教学语言的前端命令行工具
package main

import (
	stderrors "errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// 编译错误已经由 Reporter 输出
		if !stderrors.Is(err, errCompileFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
