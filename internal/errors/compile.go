package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/tangzhangming/minic/internal/ast"
	"github.com/tangzhangming/minic/internal/i18n"
	"github.com/tangzhangming/minic/internal/lexer"
	"github.com/tangzhangming/minic/internal/parser"
	"github.com/tangzhangming/minic/internal/token"
)

// ============================================================================
// 错误标签
// ============================================================================

// Label 代码标签（用于标注错误位置）
type Label struct {
	Line    int    // 行号（1-based）
	Column  int    // 列号（1-based）
	Length  int    // 标注长度
	Message string // 标签消息
	Primary bool   // 是否为主要标签
}

// ============================================================================
// 编译错误
// ============================================================================

// CompileError 面向用户的编译错误
type CompileError struct {
	Code      string   // 错误码 (E0006)
	Kind      string   // 错误类别 (SyntaxError)
	Level     Level    // 错误级别
	Message   string   // 主消息
	File      string   // 文件路径
	Line      int      // 行号
	Column    int      // 列号
	EndColumn int      // 结束列
	Labels    []Label  // 代码标签
	Hints     []string // 修复建议
	Notes     []string // 附加说明

	cause error
}

// Error 实现 error 接口
func (e *CompileError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}

// Unwrap 返回原始错误
func (e *CompileError) Unwrap() error {
	return e.cause
}

// FromError 把前端返回的错误转换为 CompileError
//
// 支持被 %w 包装的 *lexer.Error、*parser.SyntaxError、*parser.DepthError
// 和 *ast.CapacityError；其他错误归为 E0001。
func FromError(err error) *CompileError {
	if err == nil {
		return nil
	}

	var (
		compileErr *CompileError
		lexErr     *lexer.Error
		synErr     *parser.SyntaxError
		depthErr   *parser.DepthError
		capErr     *ast.CapacityError
	)

	switch {
	case stderrors.As(err, &compileErr):
		return compileErr

	case stderrors.As(err, &lexErr):
		ce := newCompileError(lexCode(lexErr.MsgID), lexErr.Message, lexErr.Pos, lexErr.Pos.Column, err)
		switch lexErr.MsgID {
		case i18n.ErrUnterminatedComment:
			ce.Hints = append(ce.Hints, i18n.T(i18n.HintCloseComment))
		case i18n.ErrUnterminatedString:
			ce.Hints = append(ce.Hints, i18n.T(i18n.HintCloseString))
		}
		return ce

	case stderrors.As(err, &synErr):
		ce := newCompileError(syntaxCode(synErr.MsgID), synErr.Message, synErr.Pos, synErr.Found.EndColumn(), err)
		ce.Hints = syntaxHints(synErr)
		return ce

	case stderrors.As(err, &depthErr):
		ce := newCompileError(E0008, i18n.T(i18n.ErrTooDeep, depthErr.Limit), depthErr.Pos, depthErr.Pos.Column, err)
		ce.Hints = []string{i18n.T(i18n.HintSplitExpression)}
		return ce

	case stderrors.As(err, &capErr):
		var pos token.Position
		if capErr.Node != nil {
			pos = capErr.Node.Pos()
		}
		ce := newCompileError(E0009, i18n.T(i18n.ErrTooManyChildren, capErr.Kind, capErr.Limit), pos, pos.Column, err)
		ce.Hints = []string{i18n.T(i18n.HintReportBug)}
		return ce
	}

	return &CompileError{
		Code:    E0001,
		Kind:    KindInternal,
		Level:   LevelError,
		Message: err.Error(),
		cause:   err,
	}
}

func newCompileError(code, message string, pos token.Position, endColumn int, cause error) *CompileError {
	info, _ := GetErrorInfo(code)
	return &CompileError{
		Code:      code,
		Kind:      info.Kind,
		Level:     info.Level,
		Message:   message,
		File:      pos.Filename,
		Line:      pos.Line,
		Column:    pos.Column,
		EndColumn: endColumn,
		cause:     cause,
	}
}

func lexCode(msgID string) string {
	switch msgID {
	case i18n.ErrUnterminatedString:
		return E0003
	case i18n.ErrUnterminatedComment:
		return E0004
	case i18n.ErrInvalidInteger:
		return E0005
	default:
		return E0002
	}
}

func syntaxCode(msgID string) string {
	switch msgID {
	case i18n.ErrExpectedToken, i18n.ErrExpectedExpression, i18n.ErrEmptyProgram:
		return E0006
	default:
		return E0007
	}
}
