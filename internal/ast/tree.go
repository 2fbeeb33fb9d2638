package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tangzhangming/minic/internal/i18n"
)

// ============================================================================
// Tree - 统一语法树（序列化形式）
// ============================================================================
//
// Tree 是下游工具（可视化、解释器）消费的统一节点结构：
//   - Kind     节点类型标签
//   - Name     标识符、函数名、标签名，或一元运算符 "-"，缺省为 nil
//   - Value    整数常量的值，缺省为 nil
//   - Children 有序子节点
//
// 子节点数量默认不受限制；Limits.MaxChildren > 0 时超出上限返回 *CapacityError。
//
// ============================================================================

// LegacyMaxChildren 兼容旧版实现的子节点上限
const LegacyMaxChildren = 20

// Tree 统一语法树节点
type Tree struct {
	Kind     Kind
	Name     *string
	Value    *int64
	Children []*Tree
}

// CapacityError 子节点数量超出上限
type CapacityError struct {
	Kind  Kind
	Limit int
	Node  Node // 触发超限的源节点，用于定位
}

func (e *CapacityError) Error() string {
	msg := i18n.T(i18n.ErrTooManyChildren, e.Kind, e.Limit)
	if e.Node != nil {
		return fmt.Sprintf("%s: %s", e.Node.Pos(), msg)
	}
	return msg
}

// NewTree 创建不带名称和值的节点
func NewTree(kind Kind) *Tree {
	return &Tree{Kind: kind}
}

// NewNamed 创建带名称的节点
func NewNamed(kind Kind, name string) *Tree {
	return &Tree{Kind: kind, Name: &name}
}

// NewValue 创建带整数值的节点
func NewValue(kind Kind, value int64) *Tree {
	return &Tree{Kind: kind, Value: &value}
}

// AddChild 追加子节点
//
// maxChildren 为 0 表示不限制。超出上限时树保持不变。
func (t *Tree) AddChild(child *Tree, maxChildren int) error {
	if maxChildren > 0 && len(t.Children) >= maxChildren {
		return &CapacityError{Kind: t.Kind, Limit: maxChildren}
	}
	t.Children = append(t.Children, child)
	return nil
}

// Child 返回第 i 个子节点，越界返回 nil
func (t *Tree) Child(i int) *Tree {
	if i < 0 || i >= len(t.Children) {
		return nil
	}
	return t.Children[i]
}

// Walk 先序遍历，fn 返回 false 时不再进入该节点的子树
func (t *Tree) Walk(fn func(*Tree) bool) {
	if t == nil || !fn(t) {
		return
	}
	for _, c := range t.Children {
		c.Walk(fn)
	}
}

// Count 返回子树中的节点总数
func (t *Tree) Count() int {
	n := 0
	t.Walk(func(*Tree) bool {
		n++
		return true
	})
	return n
}

// Equal 结构比较两棵树
func (t *Tree) Equal(o *Tree) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind || !equalPtr(t.Name, o.Name) || !equalPtr(t.Value, o.Value) {
		return false
	}
	if len(t.Children) != len(o.Children) {
		return false
	}
	for i := range t.Children {
		if !t.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// String 返回缩进形式的树（用于调试和测试输出）
func (t *Tree) String() string {
	var sb strings.Builder
	t.write(&sb, 0)
	return sb.String()
}

func (t *Tree) write(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(t.Kind.String())
	if t.Name != nil {
		sb.WriteString(" " + strconv.Quote(*t.Name))
	}
	if t.Value != nil {
		sb.WriteString(" " + strconv.FormatInt(*t.Value, 10))
	}
	sb.WriteByte('\n')
	for _, c := range t.Children {
		c.write(sb, depth+1)
	}
}
