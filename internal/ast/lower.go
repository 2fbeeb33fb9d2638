package ast

import "fmt"

// ============================================================================
// 类型化 AST → 统一 Tree
// ============================================================================

// Lower 把类型化 AST 转换为统一 Tree
//
// maxChildren 为 0 表示不限制子节点数量；超出上限时返回 *CapacityError，
// 不返回部分结果。
func Lower(prog *Program, maxChildren int) (*Tree, error) {
	l := &lowerer{max: maxChildren}
	root := l.program(prog)
	if l.err != nil {
		return nil, l.err
	}
	return root, nil
}

type lowerer struct {
	max int
	err error
}

// add 追加子节点，只记录第一个错误
func (l *lowerer) add(parent *Tree, src Node, children ...*Tree) {
	for _, c := range children {
		if l.err != nil {
			return
		}
		if err := parent.AddChild(c, l.max); err != nil {
			if ce, ok := err.(*CapacityError); ok {
				ce.Node = src
			}
			l.err = err
			return
		}
	}
}

func (l *lowerer) program(p *Program) *Tree {
	root := NewTree(PROGRAM)
	for _, fn := range p.Functions {
		l.add(root, fn, l.function(fn))
	}
	return root
}

func (l *lowerer) function(fn *FuncDecl) *Tree {
	node := NewNamed(FUNCTION, fn.Name.Name)

	retType := NewTree(TYPE_INT)
	if fn.IsVoid() {
		retType = NewTree(TYPE_VOID)
	}

	params := NewTree(PARAM_LIST)
	for _, p := range fn.Params {
		param := NewNamed(PARAM, p.Name.Name)
		l.add(param, p, NewTree(TYPE_INT))
		l.add(params, p, param)
	}

	l.add(node, fn, retType, params, l.block(fn.Body))
	return node
}

func (l *lowerer) block(b *BlockStmt) *Tree {
	list := NewTree(STMT_LIST)
	for _, s := range b.Statements {
		l.add(list, s, l.stmt(s))
	}
	node := NewTree(COMPOUND_STMT)
	l.add(node, b, list)
	return node
}

// ============================================================================
// 语句
// ============================================================================

func (l *lowerer) stmt(s Statement) *Tree {
	switch s := s.(type) {
	case *BlockStmt:
		return l.block(s)

	case *DeclStmt:
		names := NewTree(INT_LIST)
		for _, n := range s.Names {
			l.add(names, n, l.ident(n))
		}
		node := NewTree(DECL)
		l.add(node, s, NewTree(TYPE_INT), names)
		return node

	case *AssignStmt:
		node := NewTree(ASSIGN)
		l.add(node, s, l.ident(s.Target), l.expr(s.Value))
		return node

	case *IfStmt:
		if s.Else == nil {
			node := NewTree(IF)
			l.add(node, s, l.expr(s.Condition), l.stmt(s.Then))
			return node
		}
		node := NewTree(IF_ELSE)
		l.add(node, s, l.expr(s.Condition), l.stmt(s.Then), l.stmt(s.Else))
		return node

	case *WhileStmt:
		node := NewTree(WHILE)
		if s.Label != nil {
			node = NewNamed(WHILE_LABEL, s.Label.Name)
		}
		l.add(node, s, l.expr(s.Condition), l.stmt(s.Body))
		return node

	case *BreakStmt:
		return labeled(BREAK, s.Label)

	case *ContinueStmt:
		return labeled(CONTINUE, s.Label)

	case *ReturnStmt:
		node := NewTree(RETURN)
		if s.Value != nil {
			l.add(node, s, l.expr(s.Value))
		}
		return node

	case *OutputStmt:
		node := NewTree(OUTPUT)
		l.add(node, s, l.expr(s.Value))
		return node

	case *ExprStmt:
		node := NewTree(STMT)
		l.add(node, s, l.expr(s.Expr))
		return node

	case *EmptyStmt:
		return NewTree(STMT)
	}
	panic(fmt.Sprintf("ast: unexpected statement %T", s))
}

func labeled(kind Kind, label *Identifier) *Tree {
	if label == nil {
		return NewTree(kind)
	}
	return NewNamed(kind, label.Name)
}

// ============================================================================
// 表达式
// ============================================================================

func (l *lowerer) expr(e Expression) *Tree {
	switch e := e.(type) {
	case *Identifier:
		return l.ident(e)

	case *IntegerLiteral:
		return NewValue(INT_CONST, e.Value)

	case *InputExpr:
		return NewTree(INPUT)

	case *CallExpr:
		args := NewTree(ARG_LIST)
		for _, a := range e.Args {
			l.add(args, a, l.expr(a))
		}
		node := NewNamed(FUNC_CALL, e.Callee.Name)
		l.add(node, e, args)
		return node

	case *BinaryExpr:
		node := NewTree(e.Op)
		l.add(node, e, l.expr(e.Left), l.expr(e.Right))
		return node

	case *UnaryExpr:
		node := NewNamed(UNARYOP, "-")
		l.add(node, e, l.expr(e.Operand))
		return node

	case *ParenExpr:
		node := NewTree(PAREN_EXPR)
		l.add(node, e, l.expr(e.Inner))
		return node
	}
	panic(fmt.Sprintf("ast: unexpected expression %T", e))
}

func (l *lowerer) ident(id *Identifier) *Tree {
	return NewNamed(IDENTIFIER, id.Name)
}
