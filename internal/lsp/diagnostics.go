package lsp

import (
	"strings"
	"unicode/utf16"

	"go.lsp.dev/protocol"

	"github.com/tangzhangming/minic/internal/errors"
)

// diagnosticSource 诊断来源名称
const diagnosticSource = "minic"

// getDiagnostics 获取文档的诊断信息
//
// 前端遇到第一个错误即停止，因此最多只有一条诊断。
// 返回值总是非 nil，空切片用于清除客户端上的旧诊断。
func getDiagnostics(doc *Document) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	if doc == nil || doc.Err == nil {
		return diagnostics
	}
	d := CompileErrorToDiagnostic(doc.Err)
	toUTF16Range(&d.Range, doc.Content)
	return append(diagnostics, d)
}

// toUTF16Range 把按字节计的列转换为 LSP 使用的 UTF-16 码元偏移
func toUTF16Range(r *protocol.Range, content string) {
	text := lineText(content, int(r.Start.Line))
	r.Start.Character = utf16Column(text, int(r.Start.Character))
	r.End.Character = utf16Column(text, int(r.End.Character))
}

// lineText 返回第 line 行（从 0 开始）的内容，不含换行符
func lineText(content string, line int) string {
	for i := 0; i < line; i++ {
		idx := strings.IndexByte(content, '\n')
		if idx < 0 {
			return ""
		}
		content = content[idx+1:]
	}
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		content = content[:idx]
	}
	return content
}

// utf16Column 行内字节偏移对应的 UTF-16 偏移，超出行尾的部分按每字节一个单位计
func utf16Column(text string, byteCol int) uint32 {
	if byteCol > len(text) {
		return uint32(utf16Len(text) + byteCol - len(text))
	}
	return uint32(utf16Len(text[:byteCol]))
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// CompileErrorToDiagnostic 将编译错误转换为诊断信息
//
// 编译错误的行列从 1 开始且结束列包含在内；LSP 位置从 0 开始且结束位置不包含在内。
// 列仍按字节计，getDiagnostics 再结合文档内容换算为 UTF-16。
func CompileErrorToDiagnostic(ce *errors.CompileError) protocol.Diagnostic {
	line := ce.Line - 1
	if line < 0 {
		line = 0
	}
	start := ce.Column - 1
	if start < 0 {
		start = 0
	}
	end := ce.EndColumn
	if end <= start {
		end = start + 1
	}

	message := ce.Message
	if len(ce.Hints) > 0 {
		message += "\n" + strings.Join(ce.Hints, "\n")
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(line), Character: uint32(start)},
			End:   protocol.Position{Line: uint32(line), Character: uint32(end)},
		},
		Severity: severityOf(ce.Level),
		Code:     ce.Code,
		Source:   diagnosticSource,
		Message:  message,
	}
}

func severityOf(level errors.Level) protocol.DiagnosticSeverity {
	switch level {
	case errors.LevelWarning:
		return protocol.DiagnosticSeverityWarning
	case errors.LevelNote:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityError
	}
}
