// Package frontend 串联词法分析、语法分析和语法树转换
package frontend

import (
	"github.com/tangzhangming/minic/internal/ast"
	"github.com/tangzhangming/minic/internal/config"
	"github.com/tangzhangming/minic/internal/lexer"
	"github.com/tangzhangming/minic/internal/parser"
	"github.com/tangzhangming/minic/internal/serializer"
	"github.com/tangzhangming/minic/internal/token"
)

// Options 前端选项
type Options struct {
	Parser      parser.Options
	MaxChildren int // 统一语法树的子节点上限，0 表示不限制
	Output      serializer.Options
}

// OptionsFromConfig 从配置构造前端选项
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Parser:      cfg.ParserOptions(),
		MaxChildren: cfg.Parser.MaxChildren,
		Output:      cfg.SerializerOptions(),
	}
}

// Result 一次成功编译的全部产物
type Result struct {
	Tokens  []token.Token
	Program *ast.Program
	Tree    *ast.Tree
}

// Tokenize 只做词法分析
func Tokenize(source, filename string) ([]token.Token, error) {
	return lexer.New(source, filename).ScanTokens()
}

// Compile 对源码执行完整的前端流程
//
// 语法分析器按需从词法分析器拉取 Token，因此报告的是源码中位置最靠前的错误；
// 解析成功后词法分析器已读到 EOF，重置后再扫描一遍得到完整的 Token 序列。
// 任何阶段出错都返回 nil 和第一个错误，不返回部分结果。
func Compile(source, filename string, opts Options) (*Result, error) {
	l := lexer.New(source, filename)
	prog, err := parser.New(l, opts.Parser).Parse()
	if err != nil {
		return nil, err
	}

	l.Reset()
	tokens, err := l.ScanTokens()
	if err != nil {
		return nil, err
	}

	tree, err := ast.Lower(prog, opts.MaxChildren)
	if err != nil {
		return nil, err
	}

	return &Result{Tokens: tokens, Program: prog, Tree: tree}, nil
}

// Document 构造组合文档
func (r *Result) Document(opts serializer.Options) *serializer.Document {
	return serializer.NewDocument(r.Tokens, r.Tree, opts)
}

// Render 按选项渲染组合文档
func (r *Result) Render(opts serializer.Options) ([]byte, error) {
	return serializer.Encode(r.Document(opts), opts)
}
