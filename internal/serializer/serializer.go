// Package serializer 把 Token 序列和统一语法树渲染为 JSON 或 YAML 文档
package serializer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/segmentio/encoding/json"
	"gopkg.in/yaml.v3"

	"github.com/tangzhangming/minic/internal/ast"
	"github.com/tangzhangming/minic/internal/token"
)

// Format 输出格式
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat 解析格式名称，空字符串视为 JSON
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q", name)
}

// Options 序列化选项
type Options struct {
	Format Format

	// ZeroAsNull 兼容旧版输出：值为 0 的整数常量渲染为 null
	ZeroAsNull bool
}

// ============================================================================
// 记录结构
// ============================================================================

// TokenRecord 单个 Token 的序列化形式
type TokenRecord struct {
	Type     string `json:"type" yaml:"type"`
	Value    string `json:"value" yaml:"value"`
	Line     int    `json:"line" yaml:"line"`
	ColStart int    `json:"col_start" yaml:"col_start"`
	ColEnd   int    `json:"col_end" yaml:"col_end"`
}

// TreeRecord 语法树节点的序列化形式，son 总是数组
type TreeRecord struct {
	Type  string        `json:"type" yaml:"type"`
	Name  *string       `json:"name" yaml:"name"`
	Value *int64        `json:"value" yaml:"value"`
	Son   []*TreeRecord `json:"son" yaml:"son"`
}

// Document 词法和语法结果的组合文档
type Document struct {
	Tokens []TokenRecord `json:"tokens" yaml:"tokens"`
	AST    *TreeRecord   `json:"ast" yaml:"ast"`
}

// NewTokenRecords 转换 Token 序列，结果总是非 nil
func NewTokenRecords(tokens []token.Token) []TokenRecord {
	records := make([]TokenRecord, 0, len(tokens))
	for _, tok := range tokens {
		records = append(records, TokenRecord{
			Type:     tok.Type.String(),
			Value:    tok.Literal,
			Line:     tok.Pos.Line,
			ColStart: tok.Pos.Column,
			ColEnd:   tok.EndColumn(),
		})
	}
	return records
}

// NewTreeRecord 递归转换语法树
func NewTreeRecord(t *ast.Tree, opts Options) *TreeRecord {
	if t == nil {
		return nil
	}
	rec := &TreeRecord{
		Type: t.Kind.String(),
		Name: t.Name,
		Son:  make([]*TreeRecord, 0, len(t.Children)),
	}
	if t.Value != nil && !(opts.ZeroAsNull && *t.Value == 0) {
		v := *t.Value
		rec.Value = &v
	}
	for _, c := range t.Children {
		rec.Son = append(rec.Son, NewTreeRecord(c, opts))
	}
	return rec
}

// NewDocument 构造组合文档
func NewDocument(tokens []token.Token, tree *ast.Tree, opts Options) *Document {
	return &Document{
		Tokens: NewTokenRecords(tokens),
		AST:    NewTreeRecord(tree, opts),
	}
}

// ============================================================================
// 编码
// ============================================================================

// Tokens 渲染 Token 序列
func Tokens(tokens []token.Token, opts Options) ([]byte, error) {
	return Encode(NewTokenRecords(tokens), opts)
}

// Tree 渲染语法树
func Tree(t *ast.Tree, opts Options) ([]byte, error) {
	return Encode(NewTreeRecord(t, opts), opts)
}

// Combined 渲染组合文档
func Combined(tokens []token.Token, t *ast.Tree, opts Options) ([]byte, error) {
	return Encode(NewDocument(tokens, t, opts), opts)
}

// Encode 按选项中的格式编码任意记录，输出以换行结尾
//
// JSON 使用两个空格缩进，不转义 HTML 字符，保证 "<" 等运算符原样输出。
func Encode(v interface{}, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	switch opts.Format {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
	case FormatJSON, "":
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown output format %q", opts.Format)
	}
	return buf.Bytes(), nil
}

// ============================================================================
// 解码
// ============================================================================

// DecodeTree 从 JSON 文档还原语法树
func DecodeTree(data []byte) (*ast.Tree, error) {
	var rec TreeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return rec.Tree()
}

// DecodeTokens 从 JSON 文档还原 Token 记录
func DecodeTokens(data []byte) ([]TokenRecord, error) {
	var records []TokenRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode tokens: %w", err)
	}
	return records, nil
}

// Tree 把记录转换回语法树
func (r *TreeRecord) Tree() (*ast.Tree, error) {
	kind, ok := ast.ParseKind(r.Type)
	if !ok {
		return nil, fmt.Errorf("decode tree: unknown node type %q", r.Type)
	}
	t := &ast.Tree{Kind: kind, Name: r.Name, Value: r.Value}
	for _, son := range r.Son {
		child, err := son.Tree()
		if err != nil {
			return nil, err
		}
		t.Children = append(t.Children, child)
	}
	return t, nil
}
